// Package normalize turns free-form provider text into typed generation results.
package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/codes"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

// Normalize parses raw provider output for req.Stage. Any shape it cannot
// recognize is a *errors.ParseError carrying the raw text.
func Normalize(raw string, req domain.GenerationRequest) (domain.GenerationResult, error) {
	payload, err := extractJSON(req.Stage, raw)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	root := gjson.Parse(payload)

	res := domain.GenerationResult{Stage: req.Stage, Kind: domain.ResultKindFor(req.Stage), Raw: raw}
	switch req.Stage {
	case domain.StageSubjects:
		items, err := itemList(req.Stage, root, raw, false)
		if err != nil {
			return domain.GenerationResult{}, err
		}
		res.Items = ensureScience(items, req)
	case domain.StageFrameworks:
		res.Items, err = itemList(req.Stage, root, raw, false)
	case domain.StageSectionStandards:
		res.Items, err = itemList(req.Stage, root, raw, true)
	case domain.StageGrades:
		res.Items, err = gradeList(root, raw)
	case domain.StageStrandDiscovery:
		res.Discovery, err = discovery(root, raw)
	case domain.StageLessonsByStrand, domain.StageLessonsBySubstandards:
		res.Lessons, err = lessonList(root, raw, req)
	default:
		return domain.GenerationResult{}, apperrors.InvalidInput("unknown stage %q", req.Stage)
	}
	if err != nil {
		return domain.GenerationResult{}, err
	}
	return res, nil
}

func unrecognized(stage domain.Stage, raw, reason string) error {
	return &apperrors.ParseError{Stage: string(stage), Reason: reason, Raw: raw}
}

func itemList(stage domain.Stage, root gjson.Result, raw string, normalizeCodes bool) ([]domain.Item, error) {
	els, ok := arrayOf(root)
	if !ok {
		return nil, unrecognized(stage, raw, "unrecognized shape")
	}
	if len(els) == 0 {
		return nil, unrecognized(stage, raw, "empty list")
	}
	if els = entries(els); len(els) == 0 {
		return nil, unrecognized(stage, raw, "no object or string entries")
	}
	out := make([]domain.Item, 0, len(els))
	for i, el := range els {
		out = append(out, toItem(i, el, normalizeCodes))
	}
	return out, nil
}

func toItem(i int, el gjson.Result, normalizeCodes bool) domain.Item {
	name := nameOf(el)
	if name == "" {
		name = fmt.Sprintf("Item %d", i+1)
	}
	code := str(el, "code", "standard_code", "standardCode")
	if normalizeCodes {
		code = codes.Normalize(code)
	}
	return domain.Item{
		Name:        name,
		Description: str(el, "description"),
		Code:        code,
		Category:    str(el, "category"),
		PerformanceExpectation: str(el,
			"performance_expectation", "performanceExpectation",
			"performance_expectations", "performanceExpectations"),
	}
}
