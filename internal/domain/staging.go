package domain

// StagingDocument is the persisted working set ("Tables") for one workspace.
type StagingDocument struct {
	Subject               string               `json:"subject,omitempty"`
	Framework             string               `json:"framework,omitempty"`
	Grade                 string               `json:"grade,omitempty"`
	Region                string               `json:"region,omitempty"`
	LessonsBySection      map[string][]Lesson  `json:"lessonsBySection"`
	SubStandardsBySection map[string][]SubUnit `json:"subStandardsBySection"`
	SectionNamesByKey     map[string]string    `json:"sectionNamesByKey"`
	SectionOrder          []string             `json:"sectionOrder"`
	UserCleared           bool                 `json:"userCleared"`
	ClearedSignature      string               `json:"clearedSignature,omitempty"`
}

func NewStagingDocument() StagingDocument {
	return StagingDocument{
		LessonsBySection:      map[string][]Lesson{},
		SubStandardsBySection: map[string][]SubUnit{},
		SectionNamesByKey:     map[string]string{},
		SectionOrder:          []string{},
	}
}

// Empty reports whether the document holds no staged sections.
func (d StagingDocument) Empty() bool {
	return len(d.SectionOrder) == 0 && len(d.LessonsBySection) == 0 && len(d.SubStandardsBySection) == 0
}

// ArchiveEntry is one saved snapshot. SavedAt is ISO-8601.
type ArchiveEntry struct {
	SavedAt string          `json:"savedAt"`
	Data    StagingDocument `json:"data"`
}

type StagingHeader struct {
	Subject   string `json:"subject"`
	Framework string `json:"framework"`
	Grade     string `json:"grade"`
	Region    string `json:"region"`
}
