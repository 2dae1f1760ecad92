package prompts

import "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"

// RegisterAll registers one prompt per generation stage.
func RegisterAll() {
	// ---------- General mode ----------

	RegisterSpec(Spec{
		Name:    PromptSubjects,
		Stage:   domain.StageSubjects,
		Version: 1,
		Mode:    domain.ModeGeneral,
		System: `
You are a curriculum specialist who knows the K-12 school systems of every region.
List the academic subjects taught in schools of the given region.
Return JSON only.`,
		User: `
REGION: {{.Region}}
{{if .Context}}CONTEXT: {{.Context}}
{{end}}
Task:
- List the core academic subjects taught in primary and secondary schools in this region.
{{- if .MaxItems}}
- Return at most {{.MaxItems}} subjects.
{{- end}}
- Use the names teachers in this region use.

Output: a JSON array of objects: [{"name": "...", "description": "one sentence"}]`,
		Validators: []Validator{
			RequireNonEmpty("region", func(in Input) string { return in.Region }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptFrameworks,
		Stage:   domain.StageFrameworks,
		Version: 1,
		Mode:    domain.ModeGeneral,
		System: `
You are a curriculum specialist who maps subjects to the official standards frameworks that govern them.
Only list frameworks that actually exist.
Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
{{if .Region}}REGION: {{.Region}}
{{end}}{{if .Context}}CONTEXT: {{.Context}}
{{end}}
Task:
- List the curriculum or standards frameworks used to teach this subject{{if .Region}} in this region{{end}}.
{{- if .MaxItems}}
- Return at most {{.MaxItems}} frameworks.
{{- end}}

Output: a JSON array of objects: [{"name": "...", "description": "one sentence", "code": "short abbreviation"}]`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptGrades,
		Stage:   domain.StageGrades,
		Version: 1,
		Mode:    domain.ModeGeneral,
		System: `
You are a curriculum specialist. You know which grade levels each standards framework covers.
Exclude adult education levels.
Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
FRAMEWORK: {{.Framework}}
{{if .Region}}REGION: {{.Region}}
{{end}}
Task:
- List the grade levels or grade bands this framework defines for the subject.
- Group them by school level.

Output: a JSON object:
{
  "elementary":    {"grades": [{"name": "...", "description": "..."}]},
  "middle_school": {"grades": [{"name": "...", "description": "..."}]},
  "high_school":   {"grades": [{"name": "...", "description": "..."}]}
}`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
			RequireNonEmpty("framework", func(in Input) string { return in.Framework }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptSectionStandards,
		Stage:   domain.StageSectionStandards,
		Version: 1,
		Mode:    domain.ModeGeneral,
		System: `
You are a standards alignment specialist.
You list the major sections (domains, strands, disciplinary core ideas) of a framework for one grade, with their official codes.
Never invent codes. Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
FRAMEWORK: {{.Framework}}
GRADE: {{.Grade}}
{{if .Region}}REGION: {{.Region}}
{{end}}{{if .Context}}CONTEXT: {{.Context}}
{{end}}
Task:
- List the major sections of the framework for this grade.
- For each, give the official code and the performance expectation codes it contains.
{{- if .MaxItems}}
- Return at most {{.MaxItems}} sections.
{{- end}}

Output: a JSON array of objects:
[{"name": "...", "description": "...", "code": "...", "performance_expectation": "comma separated codes"}]`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
			RequireNonEmpty("framework", func(in Input) string { return in.Framework }),
			RequireNonEmpty("grade", func(in Input) string { return in.Grade }),
		},
	})

	// ---------- Lesson mode ----------

	RegisterSpec(Spec{
		Name:    PromptStrandDiscovery,
		Stage:   domain.StageStrandDiscovery,
		Version: 1,
		Mode:    domain.ModeLesson,
		System: `
You are an instructional designer planning a unit of lessons.
You break a standards section into its strands or sub-standards and plan how many lessons each deserves.
Use official codes. Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
{{if .Framework}}FRAMEWORK: {{.Framework}}
{{end}}GRADE: {{.Grade}}
SECTION: {{.SectionName}}{{if .SectionCode}} ({{.SectionCode}}){{end}}
TOTAL LESSONS: {{.TotalLessonCount}}
{{if .PerformanceCodesCSV}}PERFORMANCE EXPECTATIONS: {{.PerformanceCodesCSV}}
{{end}}{{if .Context}}CONTEXT: {{.Context}}
{{end}}
Task:
- Identify every strand or sub-standard in this section.
- Plan lessons per strand so that the counts add up to {{.TotalLessonCount}}.

Output: a JSON object:
{
  "summary": "2-4 sentences",
  "sub_units": [{"code": "...", "name": "...", "description": "...", "target_lesson_count": 5, "key_topics": ["..."], "performance_codes": ["..."]}],
  "total_planned": {{.TotalLessonCount}}
}`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
			RequireNonEmpty("grade", func(in Input) string { return in.Grade }),
			RequireNonEmpty("sectionName", func(in Input) string { return in.SectionName }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptLessonsByStrand,
		Stage:   domain.StageLessonsByStrand,
		Version: 1,
		Mode:    domain.ModeLesson,
		System: `
You are an experienced classroom teacher writing a lesson sequence for one strand of a standard.
Each lesson covers one teachable idea and builds on the previous one.
Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
{{if .Framework}}FRAMEWORK: {{.Framework}}
{{end}}GRADE: {{.Grade}}
{{if .SectionName}}SECTION: {{.SectionName}}
{{end}}STRAND: {{.StrandCode}}{{if .StrandName}} {{.StrandName}}{{end}}
{{if .KeyTopicsCSV}}KEY TOPICS: {{.KeyTopicsCSV}}
{{end}}{{if .PerformanceCodesCSV}}PERFORMANCE EXPECTATIONS: {{.PerformanceCodesCSV}}
{{end}}{{if .Context}}CONTEXT: {{.Context}}
{{end}}
Task:
- Write exactly {{.TargetLessonCount}} lessons for this strand.
- Use the strand code as standard_code on every lesson.

Output: a JSON array of objects:
[{"title": "...", "description": "2-3 sentences", "standard_code": "{{.StrandCode}}"}]`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
			RequireNonEmpty("grade", func(in Input) string { return in.Grade }),
			RequireNonEmpty("strandCode", func(in Input) string { return in.StrandCode }),
			RequirePositive("targetLessonCount", func(in Input) int { return in.TargetLessonCount }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptLessonsBySubstandards,
		Stage:   domain.StageLessonsBySubstandards,
		Version: 1,
		Mode:    domain.ModeLesson,
		System: `
You are an experienced classroom teacher writing lessons for several sub-standards at once.
Each lesson is tagged with exactly one sub-standard code.
Return JSON only.`,
		User: `
SUBJECT: {{.Subject}}
{{if .Framework}}FRAMEWORK: {{.Framework}}
{{end}}GRADE: {{.Grade}}
{{if .SectionName}}SECTION: {{.SectionName}}
{{end}}{{if .Context}}CONTEXT: {{.Context}}
{{end}}
SUB-STANDARDS:
{{.SubUnitLines}}

Task:
- For each sub-standard write exactly the number of lessons shown.
- Set standard_code to the sub-standard code.

Output: a JSON array of objects:
[{"title": "...", "description": "2-3 sentences", "standard_code": "..."}]`,
		Validators: []Validator{
			RequireNonEmpty("subject", func(in Input) string { return in.Subject }),
			RequireNonEmpty("grade", func(in Input) string { return in.Grade }),
			RequireSubUnits(),
		},
	})
}
