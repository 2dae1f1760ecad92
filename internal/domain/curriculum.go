package domain

// GenerationRequest is the input to one provider call. Only the fields the
// stage needs are read; the rest stay zero.
type GenerationRequest struct {
	Stage             Stage     `json:"stage"`
	Subject           string    `json:"subject,omitempty"`
	Framework         string    `json:"framework,omitempty"`
	Grade             string    `json:"grade,omitempty"`
	Region            string    `json:"region,omitempty"`
	SectionName       string    `json:"sectionName,omitempty"`
	SectionCode       string    `json:"sectionCode,omitempty"`
	StrandCode        string    `json:"strandCode,omitempty"`
	StrandName        string    `json:"strandName,omitempty"`
	TargetLessonCount int       `json:"targetLessonCount,omitempty"`
	TotalLessonCount  int       `json:"totalLessonCount,omitempty"`
	MaxItems          int       `json:"maxItems,omitempty"`
	SubUnits          []SubUnit `json:"subUnits,omitempty"`
	KeyTopics         []string  `json:"keyTopics,omitempty"`
	PerformanceCodes  []string  `json:"performanceCodes,omitempty"`
	Context           string    `json:"context,omitempty"`
}

// SubUnit is a strand or sub-standard that lessons are distributed across.
type SubUnit struct {
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	TargetLessonCount int      `json:"targetLessonCount"`
	KeyTopics         []string `json:"keyTopics"`
	PerformanceCodes  []string `json:"performanceCodes"`
}

type Lesson struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	StandardCode string `json:"standardCode,omitempty"`
	LessonCode   string `json:"lessonCode,omitempty"`
}

type Item struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	Code                   string `json:"code,omitempty"`
	Category               string `json:"category,omitempty"`
	PerformanceExpectation string `json:"performanceExpectation,omitempty"`
}

type DiscoveryResult struct {
	Summary      string    `json:"summary"`
	SubUnits     []SubUnit `json:"subUnits"`
	TotalPlanned int       `json:"totalPlanned"`
}

type ResultKind string

const (
	KindItemList   ResultKind = "item-list"
	KindDiscovery  ResultKind = "discovery"
	KindLessonList ResultKind = "lesson-list"
)

// GenerationResult holds exactly one payload, selected by Kind.
type GenerationResult struct {
	Stage     Stage            `json:"stage"`
	Kind      ResultKind       `json:"kind"`
	Items     []Item           `json:"items,omitempty"`
	Discovery *DiscoveryResult `json:"discovery,omitempty"`
	Lessons   []Lesson         `json:"lessons,omitempty"`
	Raw       string           `json:"-"`
}

func ResultKindFor(s Stage) ResultKind {
	switch s {
	case StageStrandDiscovery:
		return KindDiscovery
	case StageLessonsByStrand, StageLessonsBySubstandards:
		return KindLessonList
	default:
		return KindItemList
	}
}
