// Package codes normalizes NGSS-style standards codes.
package codes

import (
	"regexp"
	"strings"
)

var (
	hyphenated = regexp.MustCompile(`(?i)^(HS|MS|K|[1-9]|1[0-2])-`)
	bandCode   = regexp.MustCompile(`(?i)^(HS|MS)((?:LS|PS|ESS|ETS)\d(?:\.[A-Z])?)$`)
	gradeCode  = regexp.MustCompile(`(?i)^(K|[1-9]|1[0-2])((?:LS|PS|ESS|ETS)\d(?:\.[A-Z])?)$`)
)

// Normalize inserts the missing hyphen after the grade band of an NGSS code
// ("HSLS1.A" -> "HS-LS1.A", "3ESS2.C" -> "3-ESS2.C"). Already hyphenated codes
// and codes in any other scheme (TEKS, SOL, ...) are returned untouched.
func Normalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || hyphenated.MatchString(trimmed) {
		return code
	}
	for _, re := range []*regexp.Regexp{bandCode, gradeCode} {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return m[1] + "-" + m[2]
		}
	}
	return code
}
