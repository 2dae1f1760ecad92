package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

var (
	exactlyN   = regexp.MustCompile(`exactly (\d+) lessons`)
	strandLine = regexp.MustCompile(`(?m)^STRAND: (\S+)`)
	subUnitRow = regexp.MustCompile(`(?m)^- (\S+): .*\(lessons: (\d+)\)$`)
)

// Mock produces deterministic, well-formed output for local runs without a
// provider account. It reads the counts and codes back out of the rendered prompt.
type Mock struct{}

func (Mock) Generate(_ context.Context, p Payload, mode domain.ProviderMode) (string, error) {
	if mode == domain.ModeLesson {
		if rows := subUnitRow.FindAllStringSubmatch(p.User, -1); len(rows) > 0 {
			var lessons []map[string]string
			for _, row := range rows {
				n, _ := strconv.Atoi(row[2])
				lessons = append(lessons, mockLessons(row[1], n)...)
			}
			return marshal(lessons)
		}
		if m := exactlyN.FindStringSubmatch(p.User); m != nil {
			n, _ := strconv.Atoi(m[1])
			code := ""
			if s := strandLine.FindStringSubmatch(p.User); s != nil {
				code = s[1]
			}
			return marshal(mockLessons(code, n))
		}
		return marshal(map[string]any{
			"summary": "Mock discovery plan.",
			"sub_units": []map[string]any{
				{"code": "MOCK.1", "name": "First strand", "target_lesson_count": 3},
				{"code": "MOCK.2", "name": "Second strand", "target_lesson_count": 2},
			},
		})
	}
	return marshal([]map[string]string{
		{"name": "Mock item 1", "description": "Generated without a provider."},
		{"name": "Mock item 2", "description": "Generated without a provider."},
	})
}

func mockLessons(code string, n int) []map[string]string {
	out := make([]map[string]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]string{
			"title":         fmt.Sprintf("%s lesson %d", strings.TrimSpace(code), i),
			"description":   "Generated without a provider.",
			"standard_code": code,
		})
	}
	return out
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
