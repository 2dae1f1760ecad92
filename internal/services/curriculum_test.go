package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/credit"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/provider"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/staging"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu       sync.Mutex
	statuses []batch.Status
}

func (r *recordingSink) Publish(_ context.Context, p batch.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, p.Status)
	return nil
}

type fixture struct {
	svc     CurriculumService
	store   *staging.Store
	ledger  *credit.Ledger
	sink    *recordingSink
	user    uuid.UUID
	mu      sync.Mutex
	calls   int
	failFor string
}

func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()
	f := &fixture{user: uuid.New(), sink: &recordingSink{}}
	credits := credit.NewMemoryStore()
	if err := credits.SetBalance(context.Background(), f.user, balance); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	f.ledger = credit.NewLedger(credits, logger.Nop())
	f.store = staging.NewStore(kv.NewMemory(), logger.Nop())

	p := provider.Func(func(ctx context.Context, pl provider.Payload, mode domain.ProviderMode) (string, error) {
		f.mu.Lock()
		f.calls++
		failFor := f.failFor
		f.mu.Unlock()
		if failFor != "" && strings.Contains(pl.User, "STRAND: "+failFor+" ") {
			return "", errors.New("upstream timeout")
		}
		return provider.Mock{}.Generate(ctx, pl, mode)
	})
	orch := batch.NewOrchestrator(p, f.ledger, batch.RetryPolicy{MaxAttempts: 2}, logger.Nop())
	f.svc = NewCurriculumService(logger.Nop(), orch, f.ledger, f.store, batch.NewTracker(time.Hour), f.sink)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := f.svc.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return f
}

func (f *fixture) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func strandBatch(total int) domain.GenerationRequest {
	return domain.GenerationRequest{
		Stage:            domain.StageLessonsByStrand,
		Subject:          "Science",
		Framework:        "NGSS",
		Grade:            "5",
		TotalLessonCount: total,
		SubUnits: []domain.SubUnit{
			{Code: "A", Name: "Alpha"},
			{Code: "B", Name: "Beta"},
			{Code: "C", Name: "Gamma"},
		},
	}
}

func TestRunLessonBatchStagesSucceededUnits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)
	f.failFor = "B"

	report, err := f.svc.RunLessonBatch(ctx, f.user, "ws-1", strandBatch(10))
	if err != nil {
		t.Fatalf("RunLessonBatch: %v", err)
	}
	if len(report.Succeeded) != 2 || len(report.FailedUnits) != 1 || report.FailedUnits[0].Code != "B" {
		t.Fatalf("unexpected report: succeeded=%d failed=%+v", len(report.Succeeded), report.FailedUnits)
	}
	if report.Charged != 7 {
		t.Fatalf("charged = %d, want 7", report.Charged)
	}

	doc, err := f.store.Document(ctx, "ws-1")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "C"}, doc.SectionOrder); diff != "" {
		t.Fatalf("section order (-want +got):\n%s", diff)
	}
	if len(doc.LessonsBySection["A"]) != 4 || len(doc.LessonsBySection["C"]) != 3 {
		t.Fatalf("unexpected staged lessons: A=%d C=%d", len(doc.LessonsBySection["A"]), len(doc.LessonsBySection["C"]))
	}
	if _, ok := doc.LessonsBySection["B"]; ok {
		t.Fatalf("failed unit should not be staged")
	}
	if doc.Subject != "Science" || doc.Framework != "NGSS" || doc.Grade != "5" {
		t.Fatalf("header not filled: %+v", doc)
	}

	bal, _ := f.svc.Balance(ctx, f.user)
	if bal != 93 {
		t.Fatalf("balance = %d, want 93", bal)
	}

	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	want := []batch.Status{batch.StatusRunning, batch.StatusRunning, batch.StatusRunning, batch.StatusCompleted}
	if diff := cmp.Diff(want, f.sink.statuses); diff != "" {
		t.Fatalf("published statuses (-want +got):\n%s", diff)
	}
}

func TestRunLessonBatchChecksWholeBatchUpFront(t *testing.T) {
	f := newFixture(t, 5)
	_, err := f.svc.RunLessonBatch(context.Background(), f.user, "ws-1", strandBatch(10))
	var ice *apperrors.InsufficientCreditError
	if !errors.As(err, &ice) || ice.Required != 10 || ice.Balance != 5 {
		t.Fatalf("err = %v, want insufficient credit 10/5", err)
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestRunLessonBatchRejectsBadRequests(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	req := strandBatch(10)
	req.Stage = domain.StageSubjects
	if _, err := f.svc.RunLessonBatch(ctx, f.user, "", req); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("non-lesson stage: err = %v", err)
	}

	req = strandBatch(10)
	req.SubUnits = nil
	if _, err := f.svc.RunLessonBatch(ctx, f.user, "", req); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("no units: err = %v", err)
	}

	req = strandBatch(10)
	req.Subject = ""
	_, err := f.svc.RunLessonBatch(ctx, f.user, "", req)
	var mf *apperrors.MissingFieldError
	if !errors.As(err, &mf) || mf.Field != "subject" {
		t.Fatalf("missing subject: err = %v", err)
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestGenerateLessonStageDebitsAndStages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 20)

	out, err := f.svc.Generate(ctx, f.user, "ws-1", domain.GenerationRequest{
		Stage:             domain.StageLessonsByStrand,
		Subject:           "Science",
		Grade:             "HS",
		SectionCode:       "LS1",
		SectionName:       "From Molecules to Organisms",
		StrandCode:        "HSLS1.A",
		StrandName:        "Structure and Function",
		TargetLessonCount: 3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Result.Lessons) != 3 {
		t.Fatalf("lessons = %d, want 3", len(out.Result.Lessons))
	}
	if out.Balance == nil || *out.Balance != 17 {
		t.Fatalf("balance = %v, want 17", out.Balance)
	}
	if out.Staged == nil || out.Staged.Added != 3 || out.Staged.SubUnitsAdded != 1 {
		t.Fatalf("staged = %+v", out.Staged)
	}
	doc, _ := f.store.Document(ctx, "ws-1")
	if doc.SectionNamesByKey["LS1"] != "From Molecules to Organisms" {
		t.Fatalf("section name = %q", doc.SectionNamesByKey["LS1"])
	}
}

func TestGenerateGeneralStageIsNotGated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	out, err := f.svc.Generate(ctx, f.user, "ws-1", domain.GenerationRequest{Stage: "Subjects", Region: "Kenya"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Result.Kind != domain.KindItemList || out.Balance != nil || out.Staged != nil {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestGenerateLessonStageWithoutCredit(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.svc.Generate(context.Background(), f.user, "", domain.GenerationRequest{
		Stage: domain.StageLessonsByStrand, Subject: "Science", Grade: "5", StrandCode: "5-PS1", TargetLessonCount: 2,
	})
	if !errors.Is(err, apperrors.ErrInsufficientCredit) {
		t.Fatalf("err = %v, want insufficient credit", err)
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestGenerateValidatesBeforeCreditCheck(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.svc.Generate(context.Background(), f.user, "", domain.GenerationRequest{
		Stage: domain.StageLessonsByStrand, Grade: "5", StrandCode: "5-PS1", TargetLessonCount: 2,
	})
	var mf *apperrors.MissingFieldError
	if !errors.As(err, &mf) || mf.Field != "subject" {
		t.Fatalf("err = %v, want missing subject", err)
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestGenerateDiscoveryStagesSubUnits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	out, err := f.svc.Generate(ctx, f.user, "ws-1", domain.GenerationRequest{
		Stage: domain.StageStrandDiscovery, Subject: "Science", Grade: "5", SectionName: "Energy",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Result.Discovery == nil || len(out.Result.Discovery.SubUnits) != 2 {
		t.Fatalf("discovery = %+v", out.Result.Discovery)
	}
	doc, _ := f.store.Document(ctx, "ws-1")
	if got := len(doc.SubStandardsBySection["Energy"]); got != 2 {
		t.Fatalf("staged sub-units = %d, want 2", got)
	}
}

func TestStartLessonBatchRunsInBackground(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)

	p, err := f.svc.StartLessonBatch(ctx, f.user, "ws-1", strandBatch(6))
	if err != nil {
		t.Fatalf("StartLessonBatch: %v", err)
	}
	if p.Status != batch.StatusRunning || p.TotalUnits != 3 {
		t.Fatalf("initial progress = %+v", p)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := f.svc.BatchProgress(ctx, f.user, p.BatchID)
		if err != nil {
			t.Fatalf("BatchProgress: %v", err)
		}
		if got.Status == batch.StatusCompleted {
			if got.Lessons != 6 || got.CompletedUnits != 3 {
				t.Fatalf("final progress = %+v", got)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("batch did not finish: %+v", got)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := f.svc.BatchProgress(ctx, uuid.New(), p.BatchID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("other user: err = %v, want not found", err)
	}
}

func TestStartLessonBatchAfterShutdown(t *testing.T) {
	f := newFixture(t, 100)
	if err := f.svc.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := f.svc.StartLessonBatch(context.Background(), f.user, "", strandBatch(3)); err == nil {
		t.Fatalf("expected error after shutdown")
	}
}
