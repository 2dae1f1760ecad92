package prompts

type PromptName string

const (
	PromptSubjects              PromptName = "subjects"
	PromptFrameworks            PromptName = "frameworks"
	PromptGrades                PromptName = "grades"
	PromptSectionStandards      PromptName = "section_standards"
	PromptStrandDiscovery       PromptName = "strand_discovery"
	PromptLessonsByStrand       PromptName = "lessons_by_strand"
	PromptLessonsBySubstandards PromptName = "lessons_by_substandards"
)
