package kv

import (
	"context"

	kvrepo "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/dbctx"
)

// DB stores values as JSON rows through the kv_entry repo.
type DB struct {
	repo kvrepo.KVEntryRepo
}

func NewDB(repo kvrepo.KVEntryRepo) *DB {
	return &DB{repo: repo}
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row, err := d.repo.Get(dbctx.New(ctx), key)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		return nil, false, nil
	}
	return []byte(row.Value), true, nil
}

func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	return d.repo.Upsert(dbctx.New(ctx), key, value)
}

func (d *DB) Delete(ctx context.Context, key string) error {
	return d.repo.Delete(dbctx.New(ctx), key)
}
