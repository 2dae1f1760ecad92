package credit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: map[uuid.UUID]int64{}}
}

func (m *MemoryStore) GetBalance(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[userID], nil
}

func (m *MemoryStore) SetBalance(_ context.Context, userID uuid.UUID, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
	return nil
}
