package normalize

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/codes"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

func lessonList(root gjson.Result, raw string, req domain.GenerationRequest) ([]domain.Lesson, error) {
	els, ok := arrayOf(root)
	if !ok {
		return nil, unrecognized(req.Stage, raw, "unrecognized shape")
	}
	if len(els) == 0 {
		return nil, unrecognized(req.Stage, raw, "empty lesson list")
	}
	if els = entries(els); len(els) == 0 {
		return nil, unrecognized(req.Stage, raw, "no object or string entries")
	}

	seq := map[string]int{}
	out := make([]domain.Lesson, 0, len(els))
	for i, el := range els {
		title := nameOf(el)
		if title == "" {
			title = fmt.Sprintf("Lesson %d", i+1)
		}
		code := str(el, "standard_code", "standardCode", "code", "standard", "strand_code", "strandCode")
		if code == "" {
			code = fallbackCode(req, i)
		}
		code = codes.Normalize(code)

		seq[strings.ToUpper(code)]++
		out = append(out, domain.Lesson{
			Title:        title,
			Description:  str(el, "description", "summary"),
			StandardCode: code,
			LessonCode:   lessonCode(str(el, "lesson_code", "lessonCode"), code, seq[strings.ToUpper(code)]),
		})
	}
	return out, nil
}

// fallbackCode picks the request's code for the i-th lesson. For sub-standard
// requests the lesson is assigned by position against the requested counts.
func fallbackCode(req domain.GenerationRequest, i int) string {
	if req.Stage == domain.StageLessonsBySubstandards && len(req.SubUnits) > 0 {
		upto := 0
		for _, u := range req.SubUnits {
			upto += u.TargetLessonCount
			if i < upto {
				return u.Code
			}
		}
		return req.SubUnits[len(req.SubUnits)-1].Code
	}
	if req.StrandCode != "" {
		return req.StrandCode
	}
	return req.SectionCode
}

// lessonCode keeps a provider-supplied code only when it is already prefixed
// by the normalized standard code.
func lessonCode(supplied, code string, seq int) string {
	supplied = strings.TrimSpace(supplied)
	if code == "" {
		return supplied
	}
	if supplied != "" && strings.HasPrefix(strings.ToUpper(supplied), strings.ToUpper(code)) {
		return supplied
	}
	return fmt.Sprintf("%s-L%02d", code, seq)
}
