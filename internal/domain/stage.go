package domain

import (
	"strings"

	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Stage string

const (
	StageSubjects              Stage = "subjects"
	StageFrameworks            Stage = "frameworks"
	StageGrades                Stage = "grades"
	StageSectionStandards      Stage = "section-standards"
	StageStrandDiscovery       Stage = "strand-discovery"
	StageLessonsByStrand       Stage = "lessons-by-strand"
	StageLessonsBySubstandards Stage = "lessons-by-substandards"
)

var AllStages = []Stage{
	StageSubjects,
	StageFrameworks,
	StageGrades,
	StageSectionStandards,
	StageStrandDiscovery,
	StageLessonsByStrand,
	StageLessonsBySubstandards,
}

func ParseStage(raw string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	for _, st := range AllStages {
		if st == s {
			return s, nil
		}
	}
	return "", apperrors.InvalidInput("unknown stage %q", raw)
}

// ProducesLessons reports whether the stage yields a LessonList.
func (s Stage) ProducesLessons() bool {
	return s == StageLessonsByStrand || s == StageLessonsBySubstandards
}

// CreditGated stages are prechecked and debited against the caller's balance.
func (s Stage) CreditGated() bool {
	return s.ProducesLessons()
}

// ProviderMode selects one of the two provider configurations.
type ProviderMode string

const (
	ModeGeneral ProviderMode = "general"
	ModeLesson  ProviderMode = "lesson"
)
