package batch

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

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/credit"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/distribution"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/provider"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
	calls  map[string]int
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recorder) count(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[code]++
}

func strandOf(user string) string {
	for _, line := range strings.Split(user, "\n") {
		if rest, ok := strings.CutPrefix(line, "STRAND: "); ok {
			return strings.Fields(rest)[0]
		}
	}
	return ""
}

func setup(t *testing.T, balance int64, p provider.Provider) (*Orchestrator, *credit.Ledger, uuid.UUID, *recorder) {
	t.Helper()
	user := uuid.New()
	store := credit.NewMemoryStore()
	if err := store.SetBalance(context.Background(), user, balance); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	ledger := credit.NewLedger(store, logger.Nop())
	rec := &recorder{}
	o := NewOrchestrator(p, ledger, DefaultRetryPolicy(), logger.Nop())
	o.sleep = rec.sleep
	return o, ledger, user, rec
}

func threeUnits(t *testing.T, total int) []Unit {
	t.Helper()
	allocs, err := distribution.Distribute(total, []domain.SubUnit{
		{Code: "A", Name: "Alpha"},
		{Code: "B", Name: "Beta"},
		{Code: "C", Name: "Gamma"},
	})
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	base := domain.GenerationRequest{Stage: domain.StageLessonsByStrand, Subject: "Science", Grade: "HS"}
	return UnitsFor(base, allocs)
}

func TestRunPartialFailure(t *testing.T) {
	rec := &recorder{}
	p := provider.Func(func(ctx context.Context, pl provider.Payload, mode domain.ProviderMode) (string, error) {
		code := strandOf(pl.User)
		rec.count(code)
		if code == "B" {
			return "", errors.New("upstream 503")
		}
		return provider.Mock{}.Generate(ctx, pl, mode)
	})
	o, ledger, user, sleeps := setup(t, 100, p)

	var seen []string
	report, err := o.Run(context.Background(), user, uuid.New(), threeUnits(t, 10), func(_ context.Context, res UnitResult) {
		seen = append(seen, res.Code)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(report.Succeeded); got != 2 {
		t.Fatalf("succeeded=%d want 2", got)
	}
	if len(report.FailedUnits) != 1 || report.FailedUnits[0].Code != "B" || report.FailedUnits[0].Name != "Beta" {
		t.Fatalf("failed units=%+v", report.FailedUnits)
	}
	if !strings.Contains(report.FailedUnits[0].Error, "upstream 503") {
		t.Fatalf("failure reason=%q", report.FailedUnits[0].Error)
	}
	if diff := cmp.Diff([]string{"A", "C"}, seen); diff != "" {
		t.Fatalf("progress callbacks (-want +got):\n%s", diff)
	}
	if rec.calls["B"] != 2 || rec.calls["A"] != 1 || rec.calls["C"] != 1 {
		t.Fatalf("provider calls=%v", rec.calls)
	}
	if len(report.Items) != 7 || report.Charged != 7 {
		t.Fatalf("items=%d charged=%d, want 7/7", len(report.Items), report.Charged)
	}
	if report.Items[0].LessonCode != "A-L01" || report.Items[4].StandardCode != "C" {
		t.Fatalf("unexpected lessons: %+v", report.Items)
	}
	if bal, _ := ledger.Balance(context.Background(), user); bal != 93 {
		t.Fatalf("balance=%d want 93", bal)
	}
	want := []time.Duration{300 * time.Millisecond, 550 * time.Millisecond, 300 * time.Millisecond}
	if diff := cmp.Diff(want, sleeps.sleeps); diff != "" {
		t.Fatalf("sleeps (-want +got):\n%s", diff)
	}
}

func TestRunRetriesParseErrors(t *testing.T) {
	calls := 0
	p := provider.Func(func(ctx context.Context, pl provider.Payload, mode domain.ProviderMode) (string, error) {
		calls++
		if calls == 1 {
			return "I could not produce JSON this time.", nil
		}
		return provider.Mock{}.Generate(ctx, pl, mode)
	})
	o, _, user, _ := setup(t, 100, p)

	units := threeUnits(t, 3)[:1]
	report, err := o.Run(context.Background(), user, uuid.New(), units, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Succeeded) != 1 || report.Succeeded[0].Attempts != 2 {
		t.Fatalf("report=%+v", report)
	}
}

func TestRunMissingFieldIsNotRetried(t *testing.T) {
	calls := 0
	p := provider.Func(func(context.Context, provider.Payload, domain.ProviderMode) (string, error) {
		calls++
		return "[]", nil
	})
	o, _, user, _ := setup(t, 100, p)

	units := UnitsFor(
		domain.GenerationRequest{Stage: domain.StageLessonsByStrand, Subject: "Science", Grade: "HS"},
		[]distribution.Allocation{{Unit: domain.SubUnit{Name: "No code"}, Count: 2}},
	)
	report, err := o.Run(context.Background(), user, uuid.New(), units, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 {
		t.Fatalf("provider called %d times", calls)
	}
	if len(report.FailedUnits) != 1 || !strings.Contains(report.FailedUnits[0].Error, "strandCode") {
		t.Fatalf("failed units=%+v", report.FailedUnits)
	}
}

func TestRunAbortsOnInsufficientCredit(t *testing.T) {
	o, ledger, user, _ := setup(t, 5, provider.Mock{})

	report, err := o.Run(context.Background(), user, uuid.New(), threeUnits(t, 10), nil)
	if !errors.Is(err, apperrors.ErrInsufficientCredit) {
		t.Fatalf("Run: got %v, want ErrInsufficientCredit", err)
	}
	if len(report.Succeeded) != 1 || report.Charged != 4 {
		t.Fatalf("report=%+v", report)
	}
	if bal, _ := ledger.Balance(context.Background(), user); bal != 1 {
		t.Fatalf("balance=%d want 1", bal)
	}
}

func TestRunCancellationKeepsInFlightResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var callCtxErr error
	p := provider.Func(func(callCtx context.Context, pl provider.Payload, mode domain.ProviderMode) (string, error) {
		cancel()
		callCtxErr = callCtx.Err()
		return provider.Mock{}.Generate(callCtx, pl, mode)
	})
	o, _, user, _ := setup(t, 100, p)

	report, err := o.Run(ctx, user, uuid.New(), threeUnits(t, 10), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if callCtxErr != nil {
		t.Fatalf("in-flight call saw cancellation: %v", callCtxErr)
	}
	if !report.Cancelled {
		t.Fatalf("report not marked cancelled")
	}
	if len(report.Succeeded) != 1 || report.Succeeded[0].Code != "A" || report.Charged != 4 {
		t.Fatalf("report=%+v", report)
	}
}

func TestRunSingle(t *testing.T) {
	o, _, _, _ := setup(t, 0, provider.Mock{})
	res, err := o.RunSingle(context.Background(), domain.GenerationRequest{Stage: domain.StageSubjects, Region: "France"})
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	if res.Kind != domain.KindItemList || len(res.Items) != 2 {
		t.Fatalf("result=%+v", res)
	}

	_, err = o.RunSingle(context.Background(), domain.GenerationRequest{Stage: domain.StageGrades, Subject: "Math"})
	if !errors.Is(err, apperrors.ErrMissingField) {
		t.Fatalf("RunSingle: got %v, want ErrMissingField", err)
	}
}

func TestUnitsForSubstandards(t *testing.T) {
	base := domain.GenerationRequest{Stage: domain.StageLessonsBySubstandards, Subject: "Math", Grade: "4"}
	units := UnitsFor(base, []distribution.Allocation{
		{Unit: domain.SubUnit{Code: "4.NF.1", Name: "Equivalence"}, Count: 3},
	})
	if len(units) != 1 {
		t.Fatalf("units=%d", len(units))
	}
	req := units[0].Request
	if req.Stage != domain.StageLessonsBySubstandards || len(req.SubUnits) != 1 || req.SubUnits[0].TargetLessonCount != 3 {
		t.Fatalf("request=%+v", req)
	}
	if units[0].Estimate() != 3 {
		t.Fatalf("estimate=%d", units[0].Estimate())
	}
}
