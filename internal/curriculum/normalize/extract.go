package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

// extractJSON locates the JSON payload in free-form provider text.
func extractJSON(stage domain.Stage, raw string) (string, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return "", &apperrors.ParseError{Stage: string(stage), Reason: "empty response", Raw: raw}
	}
	// scalar-only lists are kept as a last resort so the parser can reject them
	fallback := ""
	for from := 0; from < len(cleaned); {
		start, candidate, ok := findJSONValue(cleaned, from)
		if start < 0 {
			break
		}
		if ok && gjson.Valid(candidate) {
			if !scalarList(gjson.Parse(candidate)) {
				return candidate, nil
			}
			if fallback == "" {
				fallback = candidate
			}
		}
		from = start + 1
	}
	if fallback != "" {
		return fallback, nil
	}
	if gjson.Valid(cleaned) {
		return cleaned, nil
	}
	return "", &apperrors.ParseError{Stage: string(stage), Reason: "no JSON value found", Raw: raw}
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// findJSONValue returns the first balanced [...] or {...} starting at or after
// from. Brackets inside string literals are ignored. start is -1 when no
// opening bracket remains.
func findJSONValue(input string, from int) (int, string, bool) {
	start := -1
	var stack []byte
	inString := false
	escaped := false
	for i := from; i < len(input); i++ {
		ch := input[i]
		if start < 0 {
			if ch == '[' || ch == '{' {
				start = i
				stack = append(stack[:0], ch)
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '[', '{':
			stack = append(stack, ch)
		case ']', '}':
			open := byte('[')
			if ch == '}' {
				open = '{'
			}
			if stack[len(stack)-1] != open {
				return start, "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return start, input[start : i+1], true
			}
		}
	}
	return start, "", false
}
