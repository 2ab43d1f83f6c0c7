package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/btch-engine/internal/adapter/viewer"
	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/domain"
	"github.com/park285/btch-engine/internal/snapshot"
)

// ResultSink receives finished games, e.g. the Postgres archive.
type ResultSink interface {
	SaveResult(ctx context.Context, r domain.GameResult) error
}

type entry struct {
	mu   sync.Mutex
	game *Game
}

// Manager serialises mutations per game id. Games never share a lock, so moves in
// different games proceed in parallel.
type Manager struct {
	store   Store
	results ResultSink
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	mu    sync.RWMutex
	games map[string]*entry
}

func NewManager(store Store, results ResultSink, logger *zap.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("game store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		results: results,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
		games:   make(map[string]*entry),
	}, nil
}

// Create opens a waiting game with the creator seated.
func (m *Manager) Create(ctx context.Context, userID string, pref chess.Color) (*Game, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidArgs
	}
	g := New(m.newID(), m.now())
	if _, err := g.AssignSeat(userID, pref); err != nil {
		return nil, err
	}
	if err := m.store.SaveGame(ctx, g.Record); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.games[g.ID] = &entry{game: g}
	m.mu.Unlock()
	m.logger.Info("game_create",
		zap.String("game_id", g.ID),
		zap.String("white_id", g.WhiteID),
		zap.String("black_id", g.BlackID),
	)
	return g.Clone(), nil
}

// Join seats userID and starts the game once both seats are taken.
func (m *Manager) Join(ctx context.Context, gameID, userID string, pref chess.Color) (*Game, chess.Color, error) {
	var (
		out  *Game
		seat chess.Color
	)
	err := m.mutate(ctx, gameID, func(next *Game) (func() error, error) {
		c, err := next.AssignSeat(userID, pref)
		if err != nil {
			return nil, err
		}
		seat = c
		var initial *snapshot.Snapshot
		if next.Status == StatusWaiting && next.IsFull() {
			snap, err := next.Start(m.now())
			if err != nil {
				return nil, err
			}
			initial = &snap
		}
		out = next
		return func() error { return m.store.Commit(ctx, next.Record, initial) }, nil
	})
	if err != nil {
		return nil, chess.NoColor, err
	}
	m.logger.Info("game_join",
		zap.String("game_id", out.ID),
		zap.String("user_id", userID),
		zap.String("color", seat.String()),
		zap.String("status", string(out.Status)),
	)
	return out.Clone(), seat, nil
}

// Move plays from->to for userID and returns the new snapshot with a copy of the game
// after the move.
func (m *Manager) Move(ctx context.Context, gameID, userID, from, to string, promo chess.Kind) (snapshot.Snapshot, *Game, error) {
	var (
		snap snapshot.Snapshot
		out  *Game
	)
	err := m.mutate(ctx, gameID, func(next *Game) (func() error, error) {
		s, err := next.Move(userID, from, to, promo, m.now())
		if err != nil {
			return nil, err
		}
		snap, out = s, next
		return func() error {
			if err := m.store.Commit(ctx, next.Record, &s); err != nil {
				m.logger.Error("snapshot_commit_error", zap.String("game_id", next.ID), zap.Int("ply", s.Ply), zap.Error(err))
				return err
			}
			return nil
		}, nil
	})
	if err != nil {
		return snapshot.Snapshot{}, nil, err
	}
	m.logger.Info("game_move",
		zap.String("game_id", out.ID),
		zap.String("user_id", userID),
		zap.String("move", snap.Move),
		zap.Int("ply", snap.Ply),
		zap.String("status", snap.Status().String()),
	)
	m.finalize(ctx, out)
	return snap, out.Clone(), nil
}

// Resign ends the game in favour of userID's opponent.
func (m *Manager) Resign(ctx context.Context, gameID, userID string) (*Game, error) {
	var out *Game
	err := m.mutate(ctx, gameID, func(next *Game) (func() error, error) {
		if err := next.Resign(userID, m.now()); err != nil {
			return nil, err
		}
		out = next
		return func() error { return m.store.SaveGame(ctx, next.Record) }, nil
	})
	if err != nil {
		return nil, err
	}
	m.finalize(ctx, out)
	return out.Clone(), nil
}

func (m *Manager) LegalDestinations(ctx context.Context, gameID, square string) ([]chess.Square, error) {
	var out []chess.Square
	err := m.read(ctx, gameID, func(g *Game) error {
		var err error
		out, err = g.LegalDestinations(square)
		return err
	})
	return out, err
}

// Turn is the colour to move; NoColor before the start and after the end.
func (m *Manager) Turn(ctx context.Context, gameID string) (chess.Color, error) {
	var c chess.Color
	err := m.read(ctx, gameID, func(g *Game) error {
		c = g.Turn()
		return nil
	})
	return c, err
}

// Snapshot returns the snapshot at ply, or the latest one when ply is negative. The
// latest snapshot of a game this manager has not loaded is read straight from the
// store without loading its history.
func (m *Manager) Snapshot(ctx context.Context, gameID string, ply int) (snapshot.Snapshot, error) {
	if ply < 0 {
		if id, cached := m.cached(gameID); !cached && id != "" {
			_, last, err := m.latest(ctx, id)
			return last, err
		}
	}
	var out snapshot.Snapshot
	err := m.read(ctx, gameID, func(g *Game) error {
		if ply < 0 {
			last, ok := g.Latest()
			if !ok {
				return ErrNoSnapshot
			}
			out = last
			return nil
		}
		var err error
		out, err = g.Snapshot(ply)
		return err
	})
	return out, err
}

func (m *Manager) History(ctx context.Context, gameID string) ([]snapshot.Snapshot, error) {
	var out []snapshot.Snapshot
	err := m.read(ctx, gameID, func(g *Game) error {
		out = g.Snapshots()
		return nil
	})
	return out, err
}

// Game returns a copy of the current game.
func (m *Manager) Game(ctx context.Context, gameID string) (*Game, error) {
	var out *Game
	err := m.read(ctx, gameID, func(g *Game) error {
		out = g.Clone()
		return nil
	})
	return out, err
}

// View presents the latest snapshot to userID. Unseated users see White's side.
func (m *Manager) View(ctx context.Context, gameID, userID string) (viewer.ViewerSnapshot, error) {
	if id, cached := m.cached(gameID); !cached && id != "" {
		rec, last, err := m.latest(ctx, id)
		if err != nil {
			return viewer.ViewerSnapshot{}, err
		}
		g := &Game{Record: rec}
		return viewer.Present(last, g.ColorOf(userID), g.Status != StatusWaiting)
	}
	var out viewer.ViewerSnapshot
	err := m.read(ctx, gameID, func(g *Game) error {
		last, ok := g.Latest()
		if !ok {
			return ErrNoSnapshot
		}
		v, err := viewer.Present(last, g.ColorOf(userID), g.Status != StatusWaiting)
		out = v
		return err
	})
	return out, err
}

// mutate runs fn on a copy of the game under the game's lock. fn returns a persist
// step; the copy replaces the cached game only after that step succeeds.
func (m *Manager) mutate(ctx context.Context, gameID string, fn func(next *Game) (func() error, error)) error {
	e, err := m.entry(ctx, gameID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.game.Clone()
	persist, err := fn(next)
	if err != nil {
		return err
	}
	if err := persist(); err != nil {
		if errors.Is(err, ErrPlyConflict) {
			// Another writer got there first; reload on next access.
			m.evict(gameID, e)
		}
		return err
	}
	e.game = next
	return nil
}

func (m *Manager) read(ctx context.Context, gameID string, fn func(g *Game) error) error {
	e, err := m.entry(ctx, gameID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.game)
}

func (m *Manager) entry(ctx context.Context, gameID string) (*entry, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, ErrInvalidArgs
	}
	m.mu.RLock()
	e, ok := m.games[gameID]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}

	g, err := m.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.games[gameID]; ok {
		return e, nil
	}
	e = &entry{game: g}
	m.games[gameID] = e
	return e, nil
}

func (m *Manager) cached(gameID string) (string, bool) {
	gameID = strings.TrimSpace(gameID)
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.games[gameID]
	return gameID, ok
}

// latest reads the record and the last snapshot without restoring the full game.
func (m *Manager) latest(ctx context.Context, gameID string) (Record, snapshot.Snapshot, error) {
	rec, err := m.store.LoadGame(ctx, gameID)
	if err != nil {
		return Record{}, snapshot.Snapshot{}, err
	}
	last, err := m.store.Latest(ctx, gameID)
	if err != nil {
		return Record{}, snapshot.Snapshot{}, err
	}
	return rec, last, nil
}

func (m *Manager) load(ctx context.Context, gameID string) (*Game, error) {
	rec, err := m.store.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	snaps, err := m.store.Snapshots(ctx, gameID, 0, -1)
	if err != nil {
		return nil, err
	}
	return Restore(rec, snaps)
}

func (m *Manager) evict(gameID string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.games[gameID] == e {
		delete(m.games, gameID)
	}
}

func (m *Manager) finalize(ctx context.Context, g *Game) {
	if g == nil || g.Status != StatusOver {
		return
	}
	m.logger.Info("game_over",
		zap.String("game_id", g.ID),
		zap.String("outcome", g.Outcome),
		zap.String("method", g.Method),
		zap.String("winner", g.Winner),
	)
	if m.results != nil {
		if err := m.results.SaveResult(ctx, ResultOf(g)); err != nil {
			m.logger.Error("game_result_persist_error", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
	// Finished games are read rarely; later reads restore them from the store.
	m.mu.Lock()
	delete(m.games, g.ID)
	m.mu.Unlock()
}

// ResultOf summarises a finished game for archiving.
func ResultOf(g *Game) domain.GameResult {
	r := domain.GameResult{
		GameID:    g.ID,
		WhiteID:   g.WhiteID,
		BlackID:   g.BlackID,
		Result:    g.Outcome,
		Method:    g.Method,
		Winner:    g.Winner,
		Moves:     g.Moves(),
		StartedAt: g.StartedAt,
		EndedAt:   g.UpdatedAt,
	}
	if last, ok := g.Latest(); ok {
		r.FinalText = last.Board
	}
	if d := r.EndedAt.Sub(r.StartedAt); d > 0 {
		r.Duration = d
	}
	return r
}
