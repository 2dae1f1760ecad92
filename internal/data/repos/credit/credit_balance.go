package credit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/dbctx"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

type CreditBalanceRepo interface {
	// GetByUserID returns nil when the user has no row.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.CreditBalance, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, balance int64) error
}

type creditBalanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCreditBalanceRepo(db *gorm.DB, baseLog *logger.Logger) CreditBalanceRepo {
	return &creditBalanceRepo{db: db, log: baseLog.With("repo", "CreditBalanceRepo")}
}

func (r *creditBalanceRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.CreditBalance, error) {
	var row domain.CreditBalance
	err := dbc.DB(r.db).Where("user_id = ?", userID.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *creditBalanceRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, balance int64) error {
	now := time.Now().UTC()
	row := &domain.CreditBalance{
		UserID:    userID.String(),
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
		}).
		Create(row).Error
}

// Store adapts the repo to credit.Store.
type Store struct {
	repo CreditBalanceRepo
}

func NewStore(repo CreditBalanceRepo) *Store { return &Store{repo: repo} }

func (s *Store) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	row, err := s.repo.GetByUserID(dbctx.New(ctx), userID)
	if err != nil || row == nil {
		return 0, err
	}
	return row.Balance, nil
}

func (s *Store) SetBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	return s.repo.Upsert(dbctx.New(ctx), userID, balance)
}
