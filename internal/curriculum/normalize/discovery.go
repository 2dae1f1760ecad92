package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/codes"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

func discovery(root gjson.Result, raw string) (*domain.DiscoveryResult, error) {
	els, ok := arrayOf(root)
	if !ok {
		return nil, unrecognized(domain.StageStrandDiscovery, raw, "unrecognized shape")
	}
	if len(els) == 0 {
		return nil, unrecognized(domain.StageStrandDiscovery, raw, "no sub-units")
	}
	if els = entries(els); len(els) == 0 {
		return nil, unrecognized(domain.StageStrandDiscovery, raw, "no object or string entries")
	}

	out := &domain.DiscoveryResult{SubUnits: make([]domain.SubUnit, 0, len(els))}
	sum := 0
	for i, el := range els {
		u := toSubUnit(i, el)
		sum += u.TargetLessonCount
		out.SubUnits = append(out.SubUnits, u)
	}
	// bare arrays carry neither summary nor total
	if root.IsObject() {
		out.Summary = str(root, "summary", "overview")
		out.TotalPlanned = intOf(root, "total_planned", "totalPlanned", "total_lessons_planned", "totalLessonsPlanned")
	}
	if out.TotalPlanned <= 0 {
		out.TotalPlanned = sum
	}
	return out, nil
}

func toSubUnit(i int, el gjson.Result) domain.SubUnit {
	name := nameOf(el)
	if name == "" {
		name = fmt.Sprintf("Item %d", i+1)
	}
	return domain.SubUnit{
		Code:        codes.Normalize(str(el, "code", "standard_code", "standardCode", "strand_code", "strandCode")),
		Name:        name,
		Description: str(el, "description"),
		TargetLessonCount: intOf(el,
			"target_lesson_count", "targetLessonCount", "lesson_count", "lessonCount", "lessons"),
		KeyTopics: strList(el, "key_topics", "keyTopics", "topics"),
		PerformanceCodes: strList(el,
			"performance_codes", "performanceCodes", "performance_expectations", "performanceExpectations"),
	}
}
