package repos

import (
	"gorm.io/gorm"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/credit"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

type CreditBalanceRepo = credit.CreditBalanceRepo
type KVEntryRepo = kv.KVEntryRepo

type Repos struct {
	CreditBalance CreditBalanceRepo
	KVEntry       KVEntryRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		CreditBalance: credit.NewCreditBalanceRepo(db, log),
		KVEntry:       kv.NewKVEntryRepo(db, log),
	}
}
