// Package staging keeps the per-workspace working set of generated lessons,
// with dedup on merge, bounded archives and a clear tombstone.
package staging

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

const MaxArchives = 10

type MergeResult struct {
	Added         int `json:"added"`
	Skipped       int `json:"skipped"`
	SubUnitsAdded int `json:"subUnitsAdded"`
}

type Store struct {
	kv  kv.Store
	log *logger.Logger
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(store kv.Store, baseLog *logger.Logger) *Store {
	return &Store{
		kv:    store,
		log:   baseLog.With("service", "StagingStore"),
		now:   time.Now,
		locks: map[string]*sync.Mutex{},
	}
}

func docKey(ws string) string     { return "staging:doc:" + ws }
func archiveKey(ws string) string { return "staging:archive:" + ws }

func (s *Store) lock(ws string) func() {
	s.mu.Lock()
	mu, ok := s.locks[ws]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[ws] = mu
	}
	s.mu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *Store) load(ctx context.Context, ws string) (domain.StagingDocument, error) {
	doc := domain.NewStagingDocument()
	raw, ok, err := s.kv.Get(ctx, docKey(ws))
	if err != nil {
		return doc, fmt.Errorf("load staging document: %w", err)
	}
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode staging document: %w", err)
	}
	fillMaps(&doc)
	return doc, nil
}

func (s *Store) save(ctx context.Context, ws string, doc domain.StagingDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, docKey(ws), raw); err != nil {
		return fmt.Errorf("save staging document: %w", err)
	}
	return nil
}

func (s *Store) loadArchives(ctx context.Context, ws string) ([]domain.ArchiveEntry, error) {
	raw, ok, err := s.kv.Get(ctx, archiveKey(ws))
	if err != nil {
		return nil, fmt.Errorf("load archives: %w", err)
	}
	if !ok {
		return []domain.ArchiveEntry{}, nil
	}
	var out []domain.ArchiveEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode archives: %w", err)
	}
	for i := range out {
		fillMaps(&out[i].Data)
	}
	return out, nil
}

func (s *Store) saveArchives(ctx context.Context, ws string, entries []domain.ArchiveEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, archiveKey(ws), raw); err != nil {
		return fmt.Errorf("save archives: %w", err)
	}
	return nil
}

// update runs fn on the current document and persists the result, all under
// the workspace lock.
func (s *Store) update(ctx context.Context, ws string, fn func(doc *domain.StagingDocument) error) (domain.StagingDocument, error) {
	if strings.TrimSpace(ws) == "" {
		return domain.StagingDocument{}, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()

	doc, err := s.load(ctx, ws)
	if err != nil {
		return domain.StagingDocument{}, err
	}
	if err := fn(&doc); err != nil {
		return domain.StagingDocument{}, err
	}
	if err := s.save(ctx, ws, doc); err != nil {
		return domain.StagingDocument{}, err
	}
	return doc, nil
}

func fillMaps(doc *domain.StagingDocument) {
	if doc.LessonsBySection == nil {
		doc.LessonsBySection = map[string][]domain.Lesson{}
	}
	if doc.SubStandardsBySection == nil {
		doc.SubStandardsBySection = map[string][]domain.SubUnit{}
	}
	if doc.SectionNamesByKey == nil {
		doc.SectionNamesByKey = map[string]string{}
	}
	if doc.SectionOrder == nil {
		doc.SectionOrder = []string{}
	}
}

func clearContent(doc *domain.StagingDocument) {
	doc.LessonsBySection = map[string][]domain.Lesson{}
	doc.SubStandardsBySection = map[string][]domain.SubUnit{}
	doc.SectionNamesByKey = map[string]string{}
	doc.SectionOrder = []string{}
}

func (s *Store) Document(ctx context.Context, ws string) (domain.StagingDocument, error) {
	if strings.TrimSpace(ws) == "" {
		return domain.StagingDocument{}, apperrors.InvalidInput("workspace required")
	}
	unlock := s.lock(ws)
	defer unlock()
	return s.load(ctx, ws)
}

// Merge adds lessons and sub-units to a section, skipping any already present.
func (s *Store) Merge(ctx context.Context, ws, sectionKey, displayName string, lessons []domain.Lesson, subUnits []domain.SubUnit) (MergeResult, error) {
	sectionKey = strings.TrimSpace(sectionKey)
	if sectionKey == "" {
		return MergeResult{}, apperrors.InvalidInput("section key required")
	}
	var res MergeResult
	_, err := s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		if !slices.Contains(doc.SectionOrder, sectionKey) {
			doc.SectionOrder = append(doc.SectionOrder, sectionKey)
		}
		if name := strings.TrimSpace(displayName); name != "" {
			doc.SectionNamesByKey[sectionKey] = name
		} else if _, ok := doc.SectionNamesByKey[sectionKey]; !ok {
			doc.SectionNamesByKey[sectionKey] = sectionKey
		}

		existing := doc.LessonsBySection[sectionKey]
		seen := make(map[string]struct{}, len(existing)+len(lessons))
		for _, l := range existing {
			seen[DedupKey(l)] = struct{}{}
		}
		for _, l := range lessons {
			k := DedupKey(l)
			if _, dup := seen[k]; dup {
				res.Skipped++
				continue
			}
			seen[k] = struct{}{}
			existing = append(existing, l)
			res.Added++
		}
		if existing == nil {
			existing = []domain.Lesson{}
		}
		doc.LessonsBySection[sectionKey] = existing

		units := doc.SubStandardsBySection[sectionKey]
		seenUnits := make(map[string]struct{}, len(units))
		for _, u := range units {
			seenUnits[subUnitKey(u)] = struct{}{}
		}
		for _, u := range subUnits {
			k := subUnitKey(u)
			if k == "" {
				continue
			}
			if _, dup := seenUnits[k]; dup {
				continue
			}
			seenUnits[k] = struct{}{}
			units = append(units, u)
			res.SubUnitsAdded++
		}
		if len(units) > 0 {
			doc.SubStandardsBySection[sectionKey] = units
		}

		if res.Added > 0 || res.SubUnitsAdded > 0 {
			doc.UserCleared = false
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}
	s.log.Debug("Staging merged", "workspace", ws, "section", sectionKey, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

// Clear empties the staged sections and tombstones their signature so the
// same content is not repopulated automatically.
func (s *Store) Clear(ctx context.Context, ws string) (domain.StagingDocument, error) {
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		if !doc.Empty() {
			doc.ClearedSignature = Signature(*doc)
		}
		clearContent(doc)
		doc.UserCleared = true
		return nil
	})
}

// Repopulate replaces the staged content with candidate unless candidate is
// exactly what the user last cleared. It reports whether content was applied.
func (s *Store) Repopulate(ctx context.Context, ws string, candidate domain.StagingDocument) (bool, error) {
	fillMaps(&candidate)
	if candidate.Empty() {
		return false, nil
	}
	applied := false
	_, err := s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		if doc.ClearedSignature != "" && Signature(candidate) == doc.ClearedSignature {
			return nil
		}
		doc.LessonsBySection = candidate.LessonsBySection
		doc.SubStandardsBySection = candidate.SubStandardsBySection
		doc.SectionNamesByKey = candidate.SectionNamesByKey
		doc.SectionOrder = candidate.SectionOrder
		applyHeader(doc, domain.StagingHeader{
			Subject:   candidate.Subject,
			Framework: candidate.Framework,
			Grade:     candidate.Grade,
			Region:    candidate.Region,
		})
		doc.UserCleared = false
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !applied {
		s.log.Info("Repopulate skipped: content matches cleared signature", "workspace", ws)
	}
	return applied, nil
}

func (s *Store) SetHeader(ctx context.Context, ws string, h domain.StagingHeader) (domain.StagingDocument, error) {
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		doc.Subject = strings.TrimSpace(h.Subject)
		doc.Framework = strings.TrimSpace(h.Framework)
		doc.Grade = strings.TrimSpace(h.Grade)
		doc.Region = strings.TrimSpace(h.Region)
		return nil
	})
}

// applyHeader copies only the non-empty header fields.
func applyHeader(doc *domain.StagingDocument, h domain.StagingHeader) {
	if v := strings.TrimSpace(h.Subject); v != "" {
		doc.Subject = v
	}
	if v := strings.TrimSpace(h.Framework); v != "" {
		doc.Framework = v
	}
	if v := strings.TrimSpace(h.Grade); v != "" {
		doc.Grade = v
	}
	if v := strings.TrimSpace(h.Region); v != "" {
		doc.Region = v
	}
}

// FillHeader sets only the header fields h carries, leaving the rest as they are.
func (s *Store) FillHeader(ctx context.Context, ws string, h domain.StagingHeader) (domain.StagingDocument, error) {
	return s.update(ctx, ws, func(doc *domain.StagingDocument) error {
		applyHeader(doc, h)
		return nil
	})
}
