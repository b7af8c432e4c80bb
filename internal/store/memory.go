package store

import (
	"context"
	"sync"
	"time"

	"PiggyVault/internal/model"
)

// MemoryStore holds the account record in memory. Used in tests and in
// deployments with no writable disk.
type MemoryStore struct {
	mu sync.Mutex
	st *model.AccountState

	// SaveErr, when set, is returned by every Save. Lets tests exercise
	// storage failures.
	SaveErr error
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(_ context.Context) (*model.AccountState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == nil {
		return model.DefaultAccountState(), nil
	}
	return m.st.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, st *model.AccountState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	st.UpdatedAt = time.Now()
	m.st = st.Clone()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
