package staging

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

// DedupKey identifies a lesson within a section: normalized code and title.
func DedupKey(l domain.Lesson) string {
	return strings.ToLower(strings.TrimSpace(l.StandardCode)) + "__" + strings.ToLower(strings.TrimSpace(l.Title))
}

func subUnitKey(u domain.SubUnit) string {
	return strings.ToLower(strings.TrimSpace(u.Code))
}

type signedContent struct {
	LessonsBySection      map[string][]domain.Lesson  `json:"lessonsBySection"`
	SubStandardsBySection map[string][]domain.SubUnit `json:"subStandardsBySection"`
	SectionNamesByKey     map[string]string           `json:"sectionNamesByKey"`
	SectionOrder          []string                    `json:"sectionOrder"`
}

// Signature hashes the staged content of doc. Header fields and clear
// bookkeeping are not part of it. Map keys marshal in sorted order, so equal
// content always yields the same signature.
func Signature(doc domain.StagingDocument) string {
	c := signedContent{
		LessonsBySection:      nonNilLessons(doc.LessonsBySection),
		SubStandardsBySection: nonNilSubUnits(doc.SubStandardsBySection),
		SectionNamesByKey:     nonNilNames(doc.SectionNamesByKey),
		SectionOrder:          doc.SectionOrder,
	}
	if c.SectionOrder == nil {
		c.SectionOrder = []string{}
	}
	b, _ := json.Marshal(c)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func nonNilLessons(m map[string][]domain.Lesson) map[string][]domain.Lesson {
	if m == nil {
		return map[string][]domain.Lesson{}
	}
	return m
}

func nonNilSubUnits(m map[string][]domain.SubUnit) map[string][]domain.SubUnit {
	if m == nil {
		return map[string][]domain.SubUnit{}
	}
	return m
}

func nonNilNames(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
