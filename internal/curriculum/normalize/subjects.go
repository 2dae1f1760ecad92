package normalize

import (
	"regexp"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

var scienceKeyword = regexp.MustCompile(`(?i)\b(science|sciences|biology|chemistry|physics|stem|geology|astronomy)\b`)

// Locales whose school systems teach a science subject as a core subject.
var scienceLocales = []string{
	"united states", "usa", "us", "america", "canada", "united kingdom", "uk",
	"england", "scotland", "wales", "ireland", "australia", "new zealand",
	"india", "singapore", "south africa", "nigeria", "kenya", "ghana",
	"philippines", "pakistan", "malaysia", "hong kong", "uae", "united arab emirates",
	"ontario", "british columbia", "alberta", "quebec",
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
	"washington", "west virginia", "wisconsin", "wyoming", "district of columbia",
}

var scienceLocale = func() *regexp.Regexp {
	quoted := make([]string, 0, len(scienceLocales))
	for _, l := range scienceLocales {
		quoted = append(quoted, regexp.QuoteMeta(l))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}()

// ensureScience puts a "Science" subject first when the locale teaches one
// and the provider left it out. When MaxItems is reached exactly one item, the
// last, makes room; a list the provider over-filled is not trimmed further.
func ensureScience(items []domain.Item, req domain.GenerationRequest) []domain.Item {
	if !scienceLocale.MatchString(req.Region) {
		return items
	}
	for _, it := range items {
		if scienceKeyword.MatchString(it.Name) {
			return items
		}
	}
	if req.MaxItems > 0 && len(items) >= req.MaxItems {
		items = items[:len(items)-1]
	}
	science := domain.Item{
		Name:        "Science",
		Description: "Life, physical, earth and space science.",
	}
	return append([]domain.Item{science}, items...)
}
