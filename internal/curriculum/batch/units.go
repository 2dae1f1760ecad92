package batch

import (
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/distribution"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

// Unit is one provider call in a batch.
type Unit struct {
	Code    string
	Name    string
	Request domain.GenerationRequest
}

// Estimate is the lesson count the unit is expected to produce.
func (u Unit) Estimate() int {
	if u.Request.Stage == domain.StageLessonsBySubstandards {
		n := 0
		for _, s := range u.Request.SubUnits {
			n += s.TargetLessonCount
		}
		return n
	}
	return u.Request.TargetLessonCount
}

// UnitsFor builds one request per allocation from the shared fields of base.
func UnitsFor(base domain.GenerationRequest, allocs []distribution.Allocation) []Unit {
	out := make([]Unit, 0, len(allocs))
	for _, a := range allocs {
		req := base
		req.SubUnits = nil
		req.TargetLessonCount = 0
		switch base.Stage {
		case domain.StageLessonsBySubstandards:
			su := a.Unit
			su.TargetLessonCount = a.Count
			req.SubUnits = []domain.SubUnit{su}
		default:
			req.Stage = domain.StageLessonsByStrand
			req.StrandCode = a.Unit.Code
			req.StrandName = a.Unit.Name
			req.TargetLessonCount = a.Count
			req.KeyTopics = a.Unit.KeyTopics
			req.PerformanceCodes = a.Unit.PerformanceCodes
		}
		out = append(out, Unit{Code: a.Unit.Code, Name: a.Unit.Name, Request: req})
	}
	return out
}
