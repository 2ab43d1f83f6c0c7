package archive

import (
	"context"
	"sync"

	"github.com/park285/btch-engine/internal/domain"
)

// MemoryRepository is used when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]Entry)}
}

func (m *MemoryRepository) SaveResult(_ context.Context, r domain.GameResult) error {
	e := newEntry(r)
	e.Moves = append([]string(nil), r.Moves...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[r.GameID] = e
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, gameID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[gameID]
	if !ok {
		return Entry{}, ErrResultNotFound
	}
	return e, nil
}
