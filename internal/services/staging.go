package services

import (
	"context"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/staging"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

// StagingService is the workspace working set as seen by handlers.
// *staging.Store satisfies it.
type StagingService interface {
	Document(ctx context.Context, ws string) (domain.StagingDocument, error)
	Merge(ctx context.Context, ws, sectionKey, displayName string, lessons []domain.Lesson, subUnits []domain.SubUnit) (staging.MergeResult, error)
	SetHeader(ctx context.Context, ws string, h domain.StagingHeader) (domain.StagingDocument, error)
	FillHeader(ctx context.Context, ws string, h domain.StagingHeader) (domain.StagingDocument, error)
	Archive(ctx context.Context, ws string) (domain.ArchiveEntry, error)
	Archives(ctx context.Context, ws string) ([]domain.ArchiveEntry, error)
	Restore(ctx context.Context, ws string, idx int) (domain.StagingDocument, error)
	DeleteArchive(ctx context.Context, ws string, idx int) ([]domain.ArchiveEntry, error)
	Clear(ctx context.Context, ws string) (domain.StagingDocument, error)
	Repopulate(ctx context.Context, ws string, candidate domain.StagingDocument) (bool, error)
	UpdateLesson(ctx context.Context, ws, sectionKey string, idx int, lesson domain.Lesson) (domain.StagingDocument, error)
	RemoveLesson(ctx context.Context, ws, sectionKey string, idx int) (domain.StagingDocument, error)
	RemoveSection(ctx context.Context, ws, sectionKey string) (domain.StagingDocument, error)
}

var _ StagingService = (*staging.Store)(nil)
