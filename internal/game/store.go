package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/park285/btch-engine/internal/snapshot"
)

// Store persists game records and their append-only snapshot lists.
type Store interface {
	SaveGame(ctx context.Context, rec Record) error
	LoadGame(ctx context.Context, id string) (Record, error)
	// Commit writes rec and, when snap is not nil, appends snap atomically: on any
	// error neither is stored. snap is accepted only when snap.Ply equals the current
	// length of the game's history; anything else is ErrPlyConflict.
	Commit(ctx context.Context, rec Record, snap *snapshot.Snapshot) error
	// Snapshots returns plies from..to inclusive; to < 0 means through the latest.
	Snapshots(ctx context.Context, gameID string, from, to int) ([]snapshot.Snapshot, error)
	Latest(ctx context.Context, gameID string) (snapshot.Snapshot, error)
}

// MemoryStore keeps everything in process. Used by tests and the replay tool.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]Record
	snaps map[string][]snapshot.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]Record), snaps: make(map[string][]snapshot.Snapshot)}
}

func (s *MemoryStore) SaveGame(_ context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return ErrInvalidArgs
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[rec.ID] = rec
	return nil
}

func (s *MemoryStore) LoadGame(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec, nil
}

func (s *MemoryStore) Commit(_ context.Context, rec Record, snap *snapshot.Snapshot) error {
	if strings.TrimSpace(rec.ID) == "" {
		return ErrInvalidArgs
	}
	if snap != nil && snap.GameID != rec.ID {
		return fmt.Errorf("%w: snapshot for %s committed with record %s", ErrInvalidArgs, snap.GameID, rec.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap != nil {
		list := s.snaps[rec.ID]
		if snap.Ply != len(list) {
			return fmt.Errorf("%w: game %s has %d snapshots, got ply %d", ErrPlyConflict, rec.ID, len(list), snap.Ply)
		}
		s.snaps[rec.ID] = append(list, *snap)
	}
	s.games[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Snapshots(_ context.Context, gameID string, from, to int) ([]snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.snaps[gameID]
	lo, hi, ok := clampRange(from, to, len(list))
	if !ok {
		return nil, nil
	}
	return append([]snapshot.Snapshot(nil), list[lo:hi+1]...), nil
}

func (s *MemoryStore) Latest(_ context.Context, gameID string) (snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.snaps[gameID]
	if len(list) == 0 {
		return snapshot.Snapshot{}, fmt.Errorf("%w: game %s", ErrNoSnapshot, gameID)
	}
	return list[len(list)-1], nil
}

func clampRange(from, to, n int) (int, int, bool) {
	if from < 0 {
		from = 0
	}
	if to < 0 || to >= n {
		to = n - 1
	}
	if from > to {
		return 0, 0, false
	}
	return from, to, true
}
