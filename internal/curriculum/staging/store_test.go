package staging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

const ws = "workspace-1"

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(kv.NewMemory(), logger.Nop())
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func lesson(code, title string) domain.Lesson {
	return domain.Lesson{Title: title, Description: "d", StandardCode: code, LessonCode: code + "-L01"}
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	batch := []domain.Lesson{lesson("HS-LS1.A", "Cells"), lesson("HS-LS1.A", "DNA")}
	units := []domain.SubUnit{{Code: "HS-LS1.A", Name: "Structure"}}

	res, err := s.Merge(ctx, ws, "ls1", "From Molecules to Organisms", batch, units)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(MergeResult{Added: 2, SubUnitsAdded: 1}, res); diff != "" {
		t.Fatalf("first merge (-want +got):\n%s", diff)
	}
	first, _ := s.Document(ctx, ws)

	// same content again, with case and whitespace noise
	again := []domain.Lesson{lesson(" hs-ls1.a", "cells "), lesson("HS-LS1.A", "DNA")}
	res, err = s.Merge(ctx, ws, "ls1", "", again, []domain.SubUnit{{Code: "hs-ls1.a"}})
	if err != nil {
		t.Fatalf("Merge again: %v", err)
	}
	if diff := cmp.Diff(MergeResult{Skipped: 2}, res); diff != "" {
		t.Fatalf("second merge (-want +got):\n%s", diff)
	}
	second, _ := s.Document(ctx, ws)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("document changed on repeated merge (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ls1"}, second.SectionOrder); diff != "" {
		t.Fatalf("section order (-want +got):\n%s", diff)
	}
	if second.SectionNamesByKey["ls1"] != "From Molecules to Organisms" {
		t.Fatalf("display name=%q", second.SectionNamesByKey["ls1"])
	}
}

func TestMergeSameTitleDifferentCodeIsKept(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	res, err := s.Merge(ctx, ws, "sec", "Sec", []domain.Lesson{lesson("A.1", "Review"), lesson("A.2", "Review")}, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if res.Added != 2 {
		t.Fatalf("added=%d want 2", res.Added)
	}
}

func TestMergeConcurrent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Merge(ctx, ws, "sec", "Sec", []domain.Lesson{lesson("A", fmt.Sprintf("Lesson %d", i))}, nil); err != nil {
				t.Errorf("Merge: %v", err)
			}
		}(i)
	}
	wg.Wait()

	doc, _ := s.Document(ctx, ws)
	if n := len(doc.LessonsBySection["sec"]); n != 20 {
		t.Fatalf("lessons=%d want 20", n)
	}
}

func TestArchiveKeepsTenMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i := 1; i <= 11; i++ {
		if _, err := s.Merge(ctx, ws, "sec", "Sec", []domain.Lesson{lesson("A", fmt.Sprintf("v%d", i))}, nil); err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if _, err := s.Archive(ctx, ws); err != nil {
			t.Fatalf("Archive %d: %v", i, err)
		}
	}

	entries, err := s.Archives(ctx, ws)
	if err != nil {
		t.Fatalf("Archives: %v", err)
	}
	if len(entries) != MaxArchives {
		t.Fatalf("archives=%d want %d", len(entries), MaxArchives)
	}
	newest := entries[0].Data.LessonsBySection["sec"]
	if len(newest) != 11 || newest[10].Title != "v11" {
		t.Fatalf("newest archive holds %d lessons", len(newest))
	}
	oldest := entries[MaxArchives-1].Data.LessonsBySection["sec"]
	if len(oldest) != 2 {
		t.Fatalf("oldest kept archive holds %d lessons, want 2", len(oldest))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].SavedAt <= entries[i].SavedAt {
			t.Fatalf("archives not most-recent-first: %s then %s", entries[i-1].SavedAt, entries[i].SavedAt)
		}
	}
}

func TestArchiveEmptyIsRejected(t *testing.T) {
	if _, err := newStore(t).Archive(context.Background(), ws); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("Archive: got %v, want ErrInvalidInput", err)
	}
}

func TestClearTombstoneSuppressesRepopulate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.Merge(ctx, ws, "sec", "Sec", []domain.Lesson{lesson("A", "One")}, nil); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	before, _ := s.Document(ctx, ws)

	cleared, err := s.Clear(ctx, ws)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !cleared.UserCleared || cleared.ClearedSignature != Signature(before) || !cleared.Empty() {
		t.Fatalf("Clear: %+v", cleared)
	}

	applied, err := s.Repopulate(ctx, ws, before)
	if err != nil {
		t.Fatalf("Repopulate: %v", err)
	}
	if applied {
		t.Fatalf("Repopulate applied content matching the tombstone")
	}
	if doc, _ := s.Document(ctx, ws); !doc.Empty() {
		t.Fatalf("document repopulated: %+v", doc)
	}

	different := before
	different.LessonsBySection = map[string][]domain.Lesson{"sec": {lesson("A", "One"), lesson("A", "Two")}}
	applied, err = s.Repopulate(ctx, ws, different)
	if err != nil {
		t.Fatalf("Repopulate different: %v", err)
	}
	if !applied {
		t.Fatalf("Repopulate skipped different content")
	}
	doc, _ := s.Document(ctx, ws)
	if doc.UserCleared || len(doc.LessonsBySection["sec"]) != 2 {
		t.Fatalf("after repopulate: %+v", doc)
	}
}

func TestRestoreLiftsTombstone(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.Merge(ctx, ws, "sec", "Sec", []domain.Lesson{lesson("A", "One")}, nil); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if _, err := s.Archive(ctx, ws); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := s.Clear(ctx, ws); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	doc, err := s.Restore(ctx, ws, 0)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if doc.UserCleared || doc.ClearedSignature != "" || len(doc.LessonsBySection["sec"]) != 1 {
		t.Fatalf("Restore: %+v", doc)
	}
	if _, err := s.Restore(ctx, ws, 5); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Restore out of range: got %v, want ErrNotFound", err)
	}
}

func TestEditingOperations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.Merge(ctx, ws, "a", "Section A", []domain.Lesson{lesson("A", "One"), lesson("A", "Two")}, []domain.SubUnit{{Code: "A"}}); err != nil {
		t.Fatalf("Merge a: %v", err)
	}
	if _, err := s.Merge(ctx, ws, "b", "Section B", []domain.Lesson{lesson("B", "One")}, nil); err != nil {
		t.Fatalf("Merge b: %v", err)
	}

	edited := lesson("A", "One, revised")
	doc, err := s.UpdateLesson(ctx, ws, "a", 0, edited)
	if err != nil {
		t.Fatalf("UpdateLesson: %v", err)
	}
	if doc.LessonsBySection["a"][0] != edited {
		t.Fatalf("UpdateLesson: %+v", doc.LessonsBySection["a"])
	}
	if _, err := s.UpdateLesson(ctx, ws, "a", 0, lesson("A", "Two")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("UpdateLesson duplicate: got %v", err)
	}
	if _, err := s.UpdateLesson(ctx, ws, "a", 9, edited); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("UpdateLesson out of range: got %v", err)
	}

	doc, err = s.RemoveLesson(ctx, ws, "a", 1)
	if err != nil {
		t.Fatalf("RemoveLesson: %v", err)
	}
	if len(doc.LessonsBySection["a"]) != 1 {
		t.Fatalf("RemoveLesson: %+v", doc.LessonsBySection["a"])
	}

	doc, err = s.RemoveSection(ctx, ws, "a")
	if err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, doc.SectionOrder); diff != "" {
		t.Fatalf("RemoveSection order (-want +got):\n%s", diff)
	}
	if _, ok := doc.SubStandardsBySection["a"]; ok {
		t.Fatalf("RemoveSection left sub-units behind")
	}
	if _, err := s.RemoveSection(ctx, ws, "a"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("RemoveSection twice: got %v", err)
	}

	doc, err = s.SetHeader(ctx, ws, domain.StagingHeader{Subject: " Science ", Framework: "NGSS", Grade: "HS", Region: "Texas"})
	if err != nil {
		t.Fatalf("SetHeader: %v", err)
	}
	if doc.Subject != "Science" || doc.Region != "Texas" {
		t.Fatalf("SetHeader: %+v", doc)
	}

	if _, err := s.Archive(ctx, ws); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	entries, err := s.DeleteArchive(ctx, ws, 0)
	if err != nil || len(entries) != 0 {
		t.Fatalf("DeleteArchive: entries=%d err=%v", len(entries), err)
	}
}

func TestSignatureIgnoresHeader(t *testing.T) {
	a := domain.NewStagingDocument()
	a.LessonsBySection["s"] = []domain.Lesson{lesson("A", "One")}
	a.SectionOrder = []string{"s"}
	b := a
	b.Subject = "Science"
	b.UserCleared = true
	if Signature(a) != Signature(b) {
		t.Fatalf("signature depends on header fields")
	}
	if Signature(a) == Signature(domain.NewStagingDocument()) {
		t.Fatalf("signature ignores content")
	}
}

func TestWorkspaceRequired(t *testing.T) {
	if _, err := newStore(t).Merge(context.Background(), " ", "sec", "", nil, nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("Merge: got %v, want ErrInvalidInput", err)
	}
}
