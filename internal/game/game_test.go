package game

import (
	"errors"
	"testing"
	"time"

	"github.com/park285/btch-engine/internal/chess"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func startedGame(t *testing.T) *Game {
	t.Helper()
	g := New("g1", t0)
	if c, err := g.AssignSeat("alice", chess.White); err != nil || c != chess.White {
		t.Fatalf("seat alice: %v %v", c, err)
	}
	if c, err := g.AssignSeat("bob", chess.White); err != nil || c != chess.Black {
		t.Fatalf("seat bob: %v %v", c, err)
	}
	if _, err := g.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

func mustMove(t *testing.T, g *Game, user, from, to string) {
	t.Helper()
	if _, err := g.Move(user, from, to, chess.NoKind, t0); err != nil {
		t.Fatalf("%s %s%s: %v", user, from, to, err)
	}
}

func TestSeatAssignment(t *testing.T) {
	g := New("g1", t0)
	if _, err := g.Start(t0); !errors.Is(err, ErrSeatsOpen) {
		t.Fatalf("start with open seats: %v", err)
	}
	c, err := g.AssignSeat("alice", chess.NoColor)
	if err != nil || (c != chess.White && c != chess.Black) {
		t.Fatalf("random seat: %v %v", c, err)
	}
	again, err := g.AssignSeat("alice", c.Opponent())
	if err != nil || again != c {
		t.Fatalf("re-seat should be idempotent: %v %v", again, err)
	}
	if g.IsFull() {
		t.Fatalf("one player should not fill the game")
	}
	other, err := g.AssignSeat("bob", c)
	if err != nil || other != c.Opponent() {
		t.Fatalf("second seat: %v %v", other, err)
	}
	if _, err := g.AssignSeat("carol", chess.NoColor); !errors.Is(err, ErrGameFull) {
		t.Fatalf("third player: %v", err)
	}
	if _, err := g.AssignSeat("  ", chess.NoColor); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("blank user: %v", err)
	}
}

func TestStartBindsInitialSnapshot(t *testing.T) {
	g := startedGame(t)
	if g.Status != StatusStarted {
		t.Fatalf("status = %s", g.Status)
	}
	snaps := g.Snapshots()
	if len(snaps) != 1 || snaps[0].Ply != 0 {
		t.Fatalf("snapshots = %+v", snaps)
	}
	if g.Turn() != chess.White {
		t.Fatalf("turn = %s", g.Turn())
	}
	if _, err := g.Start(t0); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("second start: %v", err)
	}
}

func TestMoveRejections(t *testing.T) {
	g := New("g1", t0)
	g.AssignSeat("alice", chess.White)
	if _, err := g.Move("alice", "e2", "e4", chess.NoKind, t0); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("move while waiting: %v", err)
	}
	g.AssignSeat("bob", chess.Black)
	g.Start(t0)

	cases := []struct {
		name     string
		user     string
		from, to string
		want     error
	}{
		{"stranger", "carol", "e2", "e4", ErrNotInGame},
		{"wrong turn", "bob", "e7", "e5", ErrNotYourTurn},
		{"bad square", "alice", "e9", "e4", chess.ErrInvalidSquare},
		{"illegal", "alice", "e2", "e5", ErrIllegalMove},
		{"opponent piece", "alice", "e7", "e5", chess.ErrIllegalMove},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.Move(tc.user, tc.from, tc.to, chess.NoKind, t0); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
	if n := len(g.Snapshots()); n != 1 {
		t.Fatalf("rejected moves appended snapshots: %d", n)
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	g := startedGame(t)
	mustMove(t, g, "alice", "f2", "f3")
	mustMove(t, g, "bob", "e7", "e5")
	mustMove(t, g, "alice", "g2", "g4")
	snap, err := g.Move("bob", "d8", "h4", chess.NoKind, t0)
	if err != nil {
		t.Fatalf("d8h4: %v", err)
	}
	if snap.Ply != 4 || snap.Status() != chess.StatusCheckmate {
		t.Fatalf("snapshot = %+v", snap)
	}
	if g.Status != StatusOver || g.Outcome != OutcomeBlack || g.Winner != "bob" || g.Method != MethodCheckmate {
		t.Fatalf("game = %+v", g.Record)
	}
	if g.Turn() != chess.NoColor {
		t.Fatalf("turn after mate = %s", g.Turn())
	}
	if _, err := g.Move("alice", "a2", "a3", chess.NoKind, t0); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("move after mate: %v", err)
	}
	if d, err := g.LegalDestinations("a2"); err != nil || len(d) != 0 {
		t.Fatalf("destinations after mate: %v %v", d, err)
	}
	board, err := g.Board()
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !board.InCheck(chess.White) {
		t.Fatalf("white should be in check")
	}
}

func TestResign(t *testing.T) {
	g := startedGame(t)
	if err := g.Resign("carol", t0); !errors.Is(err, ErrNotInGame) {
		t.Fatalf("stranger resign: %v", err)
	}
	if err := g.Resign("alice", t0); err != nil {
		t.Fatalf("resign: %v", err)
	}
	if g.Status != StatusOver || g.Winner != "bob" || g.Outcome != OutcomeBlack || g.Method != MethodResignation {
		t.Fatalf("game = %+v", g.Record)
	}
	if err := g.Resign("bob", t0); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("second resign: %v", err)
	}
}

func TestHistoryQueries(t *testing.T) {
	g := startedGame(t)
	mustMove(t, g, "alice", "e2", "e4")
	mustMove(t, g, "bob", "e7", "e5")
	if got := g.Moves(); len(got) != 2 || got[0] != "e2e4" || got[1] != "e7e5" {
		t.Fatalf("moves = %v", got)
	}
	s1, err := g.Snapshot(1)
	if err != nil || s1.Move != "e2e4" {
		t.Fatalf("snapshot 1 = %+v, %v", s1, err)
	}
	if _, err := g.Snapshot(5); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("snapshot 5: %v", err)
	}
	list := g.Snapshots()
	list[0].Board = "tampered"
	if s0, _ := g.Snapshot(0); s0.Board == "tampered" {
		t.Fatalf("Snapshots should return a copy")
	}
	d, err := g.LegalDestinations("g1")
	if err != nil || len(d) != 3 {
		t.Fatalf("g1 destinations = %v, %v", d, err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := startedGame(t)
	cp := g.Clone()
	mustMove(t, cp, "alice", "e2", "e4")
	if len(g.Snapshots()) != 1 {
		t.Fatalf("clone move leaked into original")
	}
}

func TestRestoreRejectsGaps(t *testing.T) {
	g := startedGame(t)
	mustMove(t, g, "alice", "e2", "e4")
	snaps := g.Snapshots()
	if _, err := Restore(g.Record, snaps[1:]); !errors.Is(err, ErrPlyConflict) {
		t.Fatalf("restore with gap: %v", err)
	}
	back, err := Restore(g.Record, snaps)
	if err != nil || back.Turn() != chess.Black {
		t.Fatalf("restore: %v %v", back, err)
	}
}

func TestRestoreSettlesTerminalSnapshot(t *testing.T) {
	mated := startedGame(t)
	stale := mated.Record
	for _, mv := range []struct{ user, from, to string }{
		{"alice", "f2", "f3"}, {"bob", "e7", "e5"}, {"alice", "g2", "g4"}, {"bob", "d8", "h4"},
	} {
		mustMove(t, mated, mv.user, mv.from, mv.to)
	}
	back, err := Restore(stale, mated.Snapshots())
	if err != nil {
		t.Fatalf("restore mate: %v", err)
	}
	if back.Status != StatusOver || back.Outcome != OutcomeBlack || back.Winner != "bob" || back.Method != MethodCheckmate {
		t.Fatalf("restored mate = %+v", back.Record)
	}
	if back.Turn() != chess.NoColor {
		t.Fatalf("turn after restored mate = %s", back.Turn())
	}

	drawn := startedGame(t)
	stale = drawn.Record
	users := [2]string{"alice", "bob"}
	for i, mv := range [][2]string{
		{"e2", "e3"}, {"a7", "a5"}, {"d1", "h5"}, {"a8", "a6"}, {"h5", "a5"}, {"h7", "h5"},
		{"h2", "h4"}, {"a6", "h6"}, {"a5", "c7"}, {"f7", "f6"}, {"c7", "d7"}, {"e8", "f7"},
		{"d7", "b7"}, {"d8", "d3"}, {"b7", "b8"}, {"d3", "h7"}, {"b8", "c8"}, {"f7", "g6"},
		{"c8", "e6"},
	} {
		mustMove(t, drawn, users[i%2], mv[0], mv[1])
	}
	if drawn.Status != StatusOver || drawn.Method != MethodStalemate {
		t.Fatalf("live stalemate = %+v", drawn.Record)
	}
	back, err = Restore(stale, drawn.Snapshots())
	if err != nil {
		t.Fatalf("restore stalemate: %v", err)
	}
	if back.Status != StatusOver || back.Outcome != OutcomeDraw || back.Winner != "" || back.Method != MethodStalemate {
		t.Fatalf("restored stalemate = %+v", back.Record)
	}

	// A finished record is taken as stored.
	resigned := startedGame(t)
	if err := resigned.Resign("alice", t0); err != nil {
		t.Fatalf("resign: %v", err)
	}
	back, err = Restore(resigned.Record, resigned.Snapshots())
	if err != nil || back.Method != MethodResignation || back.Winner != "bob" {
		t.Fatalf("restored resign = %+v, %v", back, err)
	}
}
