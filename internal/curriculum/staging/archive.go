package staging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

// Archive prepends a snapshot of the current document, keeping the newest MaxArchives.
func (s *Store) Archive(ctx context.Context, ws string) (domain.ArchiveEntry, error) {
	if strings.TrimSpace(ws) == "" {
		return domain.ArchiveEntry{}, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()

	doc, err := s.load(ctx, ws)
	if err != nil {
		return domain.ArchiveEntry{}, err
	}
	if doc.Empty() {
		return domain.ArchiveEntry{}, apperrors.InvalidInput("nothing staged to archive")
	}
	entries, err := s.loadArchives(ctx, ws)
	if err != nil {
		return domain.ArchiveEntry{}, err
	}
	entry := domain.ArchiveEntry{SavedAt: s.now().UTC().Format(time.RFC3339Nano), Data: doc}
	entries = append([]domain.ArchiveEntry{entry}, entries...)
	if len(entries) > MaxArchives {
		entries = entries[:MaxArchives]
	}
	if err := s.saveArchives(ctx, ws, entries); err != nil {
		return domain.ArchiveEntry{}, err
	}
	s.log.Info("Staging archived", "workspace", ws, "archives", len(entries))
	return entry, nil
}

// Archives lists snapshots, most recent first.
func (s *Store) Archives(ctx context.Context, ws string) ([]domain.ArchiveEntry, error) {
	if strings.TrimSpace(ws) == "" {
		return nil, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()
	return s.loadArchives(ctx, ws)
}

// Restore replaces the staged document with archive idx and lifts any tombstone.
func (s *Store) Restore(ctx context.Context, ws string, idx int) (domain.StagingDocument, error) {
	if strings.TrimSpace(ws) == "" {
		return domain.StagingDocument{}, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()

	entries, err := s.loadArchives(ctx, ws)
	if err != nil {
		return domain.StagingDocument{}, err
	}
	if idx < 0 || idx >= len(entries) {
		return domain.StagingDocument{}, fmt.Errorf("%w: archive %d", apperrors.ErrNotFound, idx)
	}
	doc := entries[idx].Data
	doc.UserCleared = false
	doc.ClearedSignature = ""
	if err := s.save(ctx, ws, doc); err != nil {
		return domain.StagingDocument{}, err
	}
	return doc, nil
}

func (s *Store) DeleteArchive(ctx context.Context, ws string, idx int) ([]domain.ArchiveEntry, error) {
	if strings.TrimSpace(ws) == "" {
		return nil, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()

	entries, err := s.loadArchives(ctx, ws)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(entries) {
		return nil, fmt.Errorf("%w: archive %d", apperrors.ErrNotFound, idx)
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	if err := s.saveArchives(ctx, ws, entries); err != nil {
		return nil, err
	}
	return entries, nil
}
