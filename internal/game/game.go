package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/snapshot"
)

// Game owns its snapshot history. The current position is always decoded from the
// last snapshot, never kept as a separate board.
type Game struct {
	Record
	snapshots []snapshot.Snapshot
}

// New creates a waiting game with no seats filled.
func New(id string, now time.Time) *Game {
	return &Game{Record: Record{ID: id, Status: StatusWaiting, CreatedAt: now, UpdatedAt: now}}
}

// Restore rebuilds a game from stored parts. The snapshot history wins over a stale
// record: a last snapshot tagged mate or stalemate ends a game still marked started.
func Restore(rec Record, snaps []snapshot.Snapshot) (*Game, error) {
	for i, s := range snaps {
		if s.Ply != i {
			return nil, fmt.Errorf("%w: snapshot %d has ply %d", ErrPlyConflict, i, s.Ply)
		}
	}
	if rec.Status != StatusWaiting && len(snaps) == 0 {
		return nil, fmt.Errorf("%w: %s game %s has no snapshots", ErrNoSnapshot, rec.Status, rec.ID)
	}
	g := &Game{Record: rec, snapshots: append([]snapshot.Snapshot(nil), snaps...)}
	if g.Status == StatusStarted {
		g.settle()
	}
	return g, nil
}

// settle applies the terminal tag of the last snapshot to the record.
func (g *Game) settle() {
	last, ok := g.Latest()
	if !ok {
		return
	}
	switch last.Status() {
	case chess.StatusCheckmate:
		// The side to move is mated, so the previous mover won.
		mover := chess.White
		if last.Ply%2 == 0 {
			mover = chess.Black
		}
		g.finish(MethodCheckmate, colorOutcome(mover), g.seatOf(mover), last.CreatedAt)
	case chess.StatusStalemate:
		g.finish(MethodStalemate, OutcomeDraw, "", last.CreatedAt)
	}
}

// Clone returns a copy that can be changed without affecting g.
func (g *Game) Clone() *Game {
	cp := *g
	cp.snapshots = append([]snapshot.Snapshot(nil), g.snapshots...)
	return &cp
}

func (g *Game) IsFull() bool { return g.WhiteID != "" && g.BlackID != "" }

// ColorOf returns the seat of userID, or NoColor.
func (g *Game) ColorOf(userID string) chess.Color {
	switch {
	case userID == "":
		return chess.NoColor
	case g.WhiteID == userID:
		return chess.White
	case g.BlackID == userID:
		return chess.Black
	default:
		return chess.NoColor
	}
}

// AssignSeat seats userID. The preferred colour is used when free; with no preference
// the seat is drawn at random. Seating an already seated user returns their colour.
func (g *Game) AssignSeat(userID string, pref chess.Color) (chess.Color, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return chess.NoColor, ErrInvalidArgs
	}
	if c := g.ColorOf(userID); c != chess.NoColor {
		return c, nil
	}
	if g.Status != StatusWaiting || g.IsFull() {
		return chess.NoColor, ErrGameFull
	}
	seat := pref
	if seat != chess.White && seat != chess.Black {
		seat = randomColor()
	}
	if g.seatOf(seat) != "" {
		seat = seat.Opponent()
	}
	if seat == chess.White {
		g.WhiteID = userID
	} else {
		g.BlackID = userID
	}
	return seat, nil
}

func (g *Game) seatOf(c chess.Color) string {
	if c == chess.White {
		return g.WhiteID
	}
	return g.BlackID
}

func randomColor() chess.Color {
	if n, _ := rand.Int(rand.Reader, big.NewInt(2)); n != nil && n.Int64() == 1 {
		return chess.Black
	}
	return chess.White
}

// Start binds snapshot 0. It is only valid once both seats are filled.
func (g *Game) Start(now time.Time) (snapshot.Snapshot, error) {
	if g.Status != StatusWaiting {
		return snapshot.Snapshot{}, ErrGameNotActive
	}
	if !g.IsFull() {
		return snapshot.Snapshot{}, ErrSeatsOpen
	}
	snap := snapshot.Initial(g.ID, now)
	g.snapshots = append(g.snapshots, snap)
	g.Status = StatusStarted
	g.StartedAt = now
	g.UpdatedAt = now
	return snap, nil
}

// Move validates and applies a move given as algebraic squares. The new snapshot is
// appended and returned; reaching checkmate or stalemate ends the game.
func (g *Game) Move(userID, from, to string, promo chess.Kind, now time.Time) (snapshot.Snapshot, error) {
	if g.Status != StatusStarted {
		return snapshot.Snapshot{}, ErrGameNotActive
	}
	mover := g.ColorOf(userID)
	if mover == chess.NoColor {
		return snapshot.Snapshot{}, ErrNotInGame
	}
	fromSq, err := chess.FromAlgebraic(strings.TrimSpace(from))
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	toSq, err := chess.FromAlgebraic(strings.TrimSpace(to))
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	board, err := g.Board()
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if board.SideToMove() != mover {
		return snapshot.Snapshot{}, ErrNotYourTurn
	}
	applied, err := board.ApplyMove(fromSq, toSq, promo)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, fromSq, toSq)
	}

	snap := snapshot.New(g.ID, board, applied, now)
	g.snapshots = append(g.snapshots, snap)
	g.UpdatedAt = now
	switch applied.Status {
	case chess.StatusCheckmate:
		g.finish(MethodCheckmate, colorOutcome(mover), g.seatOf(mover), now)
	case chess.StatusStalemate:
		g.finish(MethodStalemate, OutcomeDraw, "", now)
	}
	return snap, nil
}

// Resign ends a started game in favour of the opponent.
func (g *Game) Resign(userID string, now time.Time) error {
	if g.Status != StatusStarted {
		return ErrGameNotActive
	}
	c := g.ColorOf(userID)
	if c == chess.NoColor {
		return ErrNotInGame
	}
	winner := c.Opponent()
	g.finish(MethodResignation, colorOutcome(winner), g.seatOf(winner), now)
	return nil
}

func (g *Game) finish(method, outcome, winner string, now time.Time) {
	g.Status = StatusOver
	g.Method = method
	g.Outcome = outcome
	g.Winner = winner
	g.UpdatedAt = now
}

func colorOutcome(c chess.Color) string {
	if c == chess.White {
		return OutcomeWhite
	}
	return OutcomeBlack
}

// Turn is the colour to move, or NoColor when the game is not running.
func (g *Game) Turn() chess.Color {
	if g.Status != StatusStarted || len(g.snapshots) == 0 {
		return chess.NoColor
	}
	if g.snapshots[len(g.snapshots)-1].Ply%2 == 0 {
		return chess.White
	}
	return chess.Black
}

// LegalDestinations lists where the piece on square may go in the current position.
// A finished game has no destinations.
func (g *Game) LegalDestinations(square string) ([]chess.Square, error) {
	sq, err := chess.FromAlgebraic(strings.TrimSpace(square))
	if err != nil {
		return nil, err
	}
	if g.Status == StatusWaiting {
		return nil, ErrGameNotActive
	}
	if g.Status == StatusOver {
		return nil, nil
	}
	board, err := g.Board()
	if err != nil {
		return nil, err
	}
	return board.LegalDestinations(sq), nil
}

// Board decodes the latest snapshot.
func (g *Game) Board() (*chess.Board, error) {
	last, ok := g.Latest()
	if !ok {
		return nil, ErrNoSnapshot
	}
	return last.State()
}

func (g *Game) Latest() (snapshot.Snapshot, bool) {
	if len(g.snapshots) == 0 {
		return snapshot.Snapshot{}, false
	}
	return g.snapshots[len(g.snapshots)-1], true
}

func (g *Game) Snapshot(ply int) (snapshot.Snapshot, error) {
	if ply < 0 || ply >= len(g.snapshots) {
		return snapshot.Snapshot{}, fmt.Errorf("%w: ply %d", ErrNoSnapshot, ply)
	}
	return g.snapshots[ply], nil
}

// Snapshots returns a copy of the history, ply 0 first.
func (g *Game) Snapshots() []snapshot.Snapshot {
	return append([]snapshot.Snapshot(nil), g.snapshots...)
}

// Moves lists the move descriptors in play order.
func (g *Game) Moves() []string {
	out := make([]string, 0, len(g.snapshots))
	for _, s := range g.snapshots {
		if s.Move != "" {
			out = append(out, s.Move)
		}
	}
	return out
}
