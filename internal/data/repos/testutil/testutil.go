package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/db"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database. TEST_POSTGRES_DSN selects a shared
// postgres; otherwise each call gets a private in-memory sqlite.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}
	var (
		gdb *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		name := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		gdb, err = gorm.Open(sqlite.Open(name), cfg)
	}
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
