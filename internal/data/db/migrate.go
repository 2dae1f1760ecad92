package db

import (
	"gorm.io/gorm"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.CreditBalance{},
		&domain.KVEntry{},
	)
}
