package prompts

import (
	"fmt"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

// DefaultDiscoveryTotal is the lesson budget planned by strand discovery when
// the caller does not give one.
const DefaultDiscoveryTotal = 45

// Input is the flattened view of a GenerationRequest that templates render.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Stage       domain.Stage
	Subject     string
	Framework   string
	Grade       string
	Region      string
	SectionName string
	SectionCode string
	StrandCode  string
	StrandName  string
	Context     string

	TargetLessonCount int
	TotalLessonCount  int
	MaxItems          int

	KeyTopicsCSV        string
	PerformanceCodesCSV string

	SubUnits     []domain.SubUnit
	SubUnitLines string
}

// withDefaults returns a copy of req with stage defaults applied.
func withDefaults(req domain.GenerationRequest) domain.GenerationRequest {
	out := req
	if out.Stage == domain.StageStrandDiscovery && out.TotalLessonCount <= 0 {
		out.TotalLessonCount = DefaultDiscoveryTotal
	}
	return out
}

func inputFrom(req domain.GenerationRequest) Input {
	return Input{
		Stage:               req.Stage,
		Subject:             strings.TrimSpace(req.Subject),
		Framework:           strings.TrimSpace(req.Framework),
		Grade:               strings.TrimSpace(req.Grade),
		Region:              strings.TrimSpace(req.Region),
		SectionName:         strings.TrimSpace(req.SectionName),
		SectionCode:         strings.TrimSpace(req.SectionCode),
		StrandCode:          strings.TrimSpace(req.StrandCode),
		StrandName:          strings.TrimSpace(req.StrandName),
		Context:             strings.TrimSpace(req.Context),
		TargetLessonCount:   req.TargetLessonCount,
		TotalLessonCount:    req.TotalLessonCount,
		MaxItems:            req.MaxItems,
		KeyTopicsCSV:        joinNonEmpty(req.KeyTopics),
		PerformanceCodesCSV: joinNonEmpty(req.PerformanceCodes),
		SubUnits:            req.SubUnits,
		SubUnitLines:        subUnitLines(req.SubUnits),
	}
}

func joinNonEmpty(in []string) string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}

func subUnitLines(units []domain.SubUnit) string {
	var b strings.Builder
	for _, u := range units {
		fmt.Fprintf(&b, "- %s: %s (lessons: %d)", strings.TrimSpace(u.Code), strings.TrimSpace(u.Name), u.TargetLessonCount)
		if d := strings.TrimSpace(u.Description); d != "" {
			fmt.Fprintf(&b, "\n  description: %s", d)
		}
		if t := joinNonEmpty(u.KeyTopics); t != "" {
			fmt.Fprintf(&b, "\n  key topics: %s", t)
		}
		if p := joinNonEmpty(u.PerformanceCodes); p != "" {
			fmt.Fprintf(&b, "\n  performance expectations: %s", p)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
