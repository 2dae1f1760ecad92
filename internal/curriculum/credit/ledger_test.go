package credit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

func newLedger(t *testing.T, userID uuid.UUID, balance int64) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	if err := store.SetBalance(context.Background(), userID, balance); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	return NewLedger(store, logger.Nop()), store
}

func TestPrecheck(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	ledger, _ := newLedger(t, user, 5)

	cases := []struct {
		estimated int
		wantErr   bool
		required  int64
	}{
		{estimated: 5},
		{estimated: 0},
		{estimated: -2},
		{estimated: 6, wantErr: true, required: 6},
	}
	for _, tc := range cases {
		err := ledger.Precheck(ctx, user, tc.estimated)
		if !tc.wantErr {
			if err != nil {
				t.Fatalf("Precheck(%d): %v", tc.estimated, err)
			}
			continue
		}
		var ice *apperrors.InsufficientCreditError
		if !errors.As(err, &ice) || !errors.Is(err, apperrors.ErrInsufficientCredit) {
			t.Fatalf("Precheck(%d): got %v, want InsufficientCreditError", tc.estimated, err)
		}
		if ice.Required != tc.required || ice.Balance != 5 {
			t.Fatalf("Precheck(%d): %+v", tc.estimated, ice)
		}
	}
}

func TestPrecheckUnknownUserHasZero(t *testing.T) {
	ledger := NewLedger(NewMemoryStore(), logger.Nop())
	if err := ledger.Precheck(context.Background(), uuid.New(), 1); !errors.Is(err, apperrors.ErrInsufficientCredit) {
		t.Fatalf("Precheck: got %v, want ErrInsufficientCredit", err)
	}
}

func TestDebitFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		balance int64
		actual  int
		want    int64
	}{
		{"exact", 5, 5, 0},
		{"partial", 10, 3, 7},
		{"overdraw", 2, 5, 0},
		{"zero_is_noop", 4, 0, 4},
		{"negative_is_noop", 4, -3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := uuid.New()
			ledger, store := newLedger(t, user, tc.balance)
			got, err := ledger.Debit(ctx, user, tc.actual)
			if err != nil {
				t.Fatalf("Debit: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Debit returned %d, want %d", got, tc.want)
			}
			stored, _ := store.GetBalance(ctx, user)
			if stored != tc.want {
				t.Fatalf("stored balance %d, want %d", stored, tc.want)
			}
		})
	}
}

func TestDebitConcurrent(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	ledger, _ := newLedger(t, user, 100)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Debit(ctx, user, 2); err != nil {
				t.Errorf("Debit: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := ledger.Balance(ctx, user)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if got != 20 {
		t.Fatalf("balance=%d want 20", got)
	}
}
