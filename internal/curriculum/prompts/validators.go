package prompts

import (
	"strconv"
	"strings"

	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(get(in)) == "" {
			return apperrors.MissingField(string(in.Stage), field)
		}
		return nil
	}
}

func RequirePositive(field string, get func(Input) int) Validator {
	return func(in Input) error {
		if get(in) <= 0 {
			return apperrors.MissingField(string(in.Stage), field)
		}
		return nil
	}
}

// RequireSubUnits checks there is at least one sub-unit and that each has a
// code and a positive lesson count.
func RequireSubUnits() Validator {
	return func(in Input) error {
		if len(in.SubUnits) == 0 {
			return apperrors.MissingField(string(in.Stage), "subUnits")
		}
		for i, u := range in.SubUnits {
			if strings.TrimSpace(u.Code) == "" {
				return apperrors.MissingField(string(in.Stage), fieldAt("subUnits", i, "code"))
			}
			if u.TargetLessonCount <= 0 {
				return apperrors.MissingField(string(in.Stage), fieldAt("subUnits", i, "targetLessonCount"))
			}
		}
		return nil
	}
}

func fieldAt(list string, i int, field string) string {
	return list + "[" + strconv.Itoa(i) + "]." + field
}
