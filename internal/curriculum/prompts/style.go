package prompts

import (
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

const styleMarker = "CURRICULUM_PROMPT_STYLE_V1"

// applyStyle prepends the output rules shared by every stage. It is a no-op on
// an empty prompt or one that already carries the block.
func applyStyle(system string, mode domain.ProviderMode) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, styleMarker) {
		return base
	}

	var b strings.Builder
	b.WriteString(styleMarker)
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nOutput only the JSON described in the task: no markdown, no commentary.")
	b.WriteString("\nUse official names and codes; never invent standard codes.")
	if mode == domain.ModeLesson {
		b.WriteString("\nLesson titles must be distinct and specific to their standard.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
