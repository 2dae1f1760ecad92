package staging

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

// UpdateLesson replaces lesson idx of a section. An edit that collides with
// another lesson's dedup key is rejected.
func (s *Store) UpdateLesson(ctx context.Context, ws, sectionKey string, idx int, lesson domain.Lesson) (domain.StagingDocument, error) {
	if strings.TrimSpace(lesson.Title) == "" {
		return domain.StagingDocument{}, apperrors.MissingField("", "title")
	}
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		lessons, ok := doc.LessonsBySection[sectionKey]
		if !ok || idx < 0 || idx >= len(lessons) {
			return fmt.Errorf("%w: lesson %d in section %q", apperrors.ErrNotFound, idx, sectionKey)
		}
		k := DedupKey(lesson)
		for i, l := range lessons {
			if i != idx && DedupKey(l) == k {
				return apperrors.InvalidInput("lesson %q already staged in %s", lesson.Title, sectionKey)
			}
		}
		lessons[idx] = lesson
		return nil
	})
}

func (s *Store) RemoveLesson(ctx context.Context, ws, sectionKey string, idx int) (domain.StagingDocument, error) {
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		lessons, ok := doc.LessonsBySection[sectionKey]
		if !ok || idx < 0 || idx >= len(lessons) {
			return fmt.Errorf("%w: lesson %d in section %q", apperrors.ErrNotFound, idx, sectionKey)
		}
		doc.LessonsBySection[sectionKey] = slices.Delete(lessons, idx, idx+1)
		return nil
	})
}

func (s *Store) RemoveSection(ctx context.Context, ws, sectionKey string) (domain.StagingDocument, error) {
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		i := slices.Index(doc.SectionOrder, sectionKey)
		_, hasLessons := doc.LessonsBySection[sectionKey]
		if i < 0 && !hasLessons {
			return fmt.Errorf("%w: section %q", apperrors.ErrNotFound, sectionKey)
		}
		if i >= 0 {
			doc.SectionOrder = slices.Delete(doc.SectionOrder, i, i+1)
		}
		delete(doc.LessonsBySection, sectionKey)
		delete(doc.SubStandardsBySection, sectionKey)
		delete(doc.SectionNamesByKey, sectionKey)
		return nil
	})
}
