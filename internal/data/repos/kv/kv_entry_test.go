package kv

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/testutil"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/dbctx"
)

func TestKVEntryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewKVEntryRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	row, err := repo.Get(dbc, "staging:ws-1")
	if err != nil || row != nil {
		t.Fatalf("Get missing: row=%+v err=%v", row, err)
	}

	if err := repo.Upsert(dbc, "staging:ws-1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, "staging:ws-1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	row, err = repo.Get(dbc, "staging:ws-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row == nil || gjson.GetBytes(row.Value, "a").Int() != 2 {
		t.Fatalf("Get: unexpected row %+v", row)
	}

	if err := repo.Delete(dbc, "staging:ws-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if row, _ := repo.Get(dbc, "staging:ws-1"); row != nil {
		t.Fatalf("Get after delete: %+v", row)
	}
}
