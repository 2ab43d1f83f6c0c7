package archive

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/park285/btch-engine/internal/domain"
)

func TestSANMoves(t *testing.T) {
	got := SANMoves([]string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1"})
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6", "O-O"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("san = %v, want %v", got, want)
	}
}

func TestAnnotateNamesOpening(t *testing.T) {
	a := Annotate([]string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"})
	if a.ECO == "" || !strings.Contains(a.Opening, "Ruy Lopez") {
		t.Fatalf("opening = %q %q", a.ECO, a.Opening)
	}
	if empty := Annotate(nil); empty.ECO != "" || len(empty.SAN) != 0 {
		t.Fatalf("empty annotation = %+v", empty)
	}
}

func TestSANMovesKeepsUnknownDescriptors(t *testing.T) {
	got := SANMoves([]string{"e2e4", "e2e4", "d7d5"})
	if got[0] != "e4" || got[1] != "e2e4" || got[2] != "d7d5" {
		t.Fatalf("san = %v", got)
	}
}

func TestBuildPGN(t *testing.T) {
	r := domain.GameResult{
		GameID:  "g1",
		WhiteID: `al"ice`,
		BlackID: "bob",
		Result:  "black",
		Method:  "Checkmate",
		Moves:   []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		EndedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	pgn := buildPGN(r, Annotate(r.Moves))
	for _, want := range []string{
		`[Date "2026.03.01"]`,
		`[White "al'ice"]`,
		`[Termination "checkmate"]`,
		`[Result "0-1"]`,
		"1. f3 e5 2. g4 Qh4# 0-1",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
}

func TestMapResultToPGN(t *testing.T) {
	cases := map[string]string{"white": "1-0", "black": "0-1", "draw": "1/2-1/2", "": "*"}
	for in, want := range cases {
		if got := mapResultToPGN(in); got != want {
			t.Fatalf("%q -> %q, want %q", in, got, want)
		}
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Get(ctx, "g1"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("missing: %v", err)
	}
	r := domain.GameResult{GameID: "g1", Result: "white", Method: "resignation", Moves: []string{"e2e4"}}
	if err := repo.SaveResult(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	e, err := repo.Get(ctx, "g1")
	if err != nil || e.MovesSAN[0] != "e4" || !strings.HasSuffix(e.PGN, "1. e4 1-0") {
		t.Fatalf("entry = %+v, %v", e, err)
	}
}
