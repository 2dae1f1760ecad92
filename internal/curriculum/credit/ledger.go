// Package credit gates lesson generation on the caller's credit balance.
package credit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

// Store persists one balance per user. Unknown users read as 0.
type Store interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	SetBalance(ctx context.Context, userID uuid.UUID, balance int64) error
}

type Ledger struct {
	store Store
	log   *logger.Logger

	mu    sync.Mutex
	users map[uuid.UUID]*sync.Mutex
}

func NewLedger(store Store, baseLog *logger.Logger) *Ledger {
	return &Ledger{
		store: store,
		log:   baseLog.With("service", "CreditLedger"),
		users: map[uuid.UUID]*sync.Mutex{},
	}
}

// EstimatedCost is the balance required before generating n lessons.
func EstimatedCost(n int) int64 {
	if n < 1 {
		return 1
	}
	return int64(n)
}

// Precheck fails with *errors.InsufficientCreditError when the balance cannot
// cover the estimate. It never mutates the balance.
func (l *Ledger) Precheck(ctx context.Context, userID uuid.UUID, estimated int) error {
	balance, err := l.store.GetBalance(ctx, userID)
	if err != nil {
		return fmt.Errorf("read credit balance: %w", err)
	}
	cost := EstimatedCost(estimated)
	if balance < cost {
		l.log.Info("Credit precheck rejected", "user_id", userID, "required", cost, "balance", balance)
		return &apperrors.InsufficientCreditError{Required: cost, Balance: balance}
	}
	return nil
}

// Debit deducts the number of lessons actually produced, flooring the balance
// at zero. It returns the new balance.
func (l *Ledger) Debit(ctx context.Context, userID uuid.UUID, actual int) (int64, error) {
	if actual <= 0 {
		return l.Balance(ctx, userID)
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	balance, err := l.store.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("read credit balance: %w", err)
	}
	next := balance - int64(actual)
	if next < 0 {
		next = 0
	}
	if err := l.store.SetBalance(ctx, userID, next); err != nil {
		return 0, fmt.Errorf("write credit balance: %w", err)
	}
	l.log.Debug("Credit debited", "user_id", userID, "amount", actual, "balance", next)
	return next, nil
}

func (l *Ledger) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := l.store.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("read credit balance: %w", err)
	}
	return balance, nil
}

func (l *Ledger) userLock(userID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		l.users[userID] = mu
	}
	return mu
}
