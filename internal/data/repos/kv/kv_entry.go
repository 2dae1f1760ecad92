package kv

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/dbctx"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

type KVEntryRepo interface {
	// Get returns nil when the key is absent.
	Get(dbc dbctx.Context, key string) (*domain.KVEntry, error)
	Upsert(dbc dbctx.Context, key string, value []byte) error
	Delete(dbc dbctx.Context, key string) error
}

type kvEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKVEntryRepo(db *gorm.DB, baseLog *logger.Logger) KVEntryRepo {
	return &kvEntryRepo{db: db, log: baseLog.With("repo", "KVEntryRepo")}
}

func (r *kvEntryRepo) Get(dbc dbctx.Context, key string) (*domain.KVEntry, error) {
	var row domain.KVEntry
	err := dbc.DB(r.db).Where("entry_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *kvEntryRepo) Upsert(dbc dbctx.Context, key string, value []byte) error {
	row := &domain.KVEntry{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

func (r *kvEntryRepo) Delete(dbc dbctx.Context, key string) error {
	return dbc.DB(r.db).Where("entry_key = ?", key).Delete(&domain.KVEntry{}).Error
}
