package credit

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/testutil"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/dbctx"
)

func TestCreditBalanceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCreditBalanceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	user := uuid.New()

	row, err := repo.GetByUserID(dbc, user)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if row != nil {
		t.Fatalf("GetByUserID: expected nil for unknown user, got %+v", row)
	}

	if err := repo.Upsert(dbc, user, 12); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, user, 7); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	row, err = repo.GetByUserID(dbc, user)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if row == nil || row.Balance != 7 || row.UserID != user.String() {
		t.Fatalf("GetByUserID: unexpected row %+v", row)
	}
}

func TestStoreUnknownUserReadsZero(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(NewCreditBalanceRepo(db, testutil.Logger(t)))
	ctx := context.Background()
	user := uuid.New()

	bal, err := store.GetBalance(ctx, user)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal != 0 {
		t.Fatalf("GetBalance: got %d want 0", bal)
	}
	if err := store.SetBalance(ctx, user, 30); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if bal, _ := store.GetBalance(ctx, user); bal != 30 {
		t.Fatalf("GetBalance after set: got %d want 30", bal)
	}
}
