package gameplay

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/park285/btch-engine/internal/adapter/viewer"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/msgcat"
	"github.com/park285/btch-engine/pkg/gamedto"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	m, err := game.NewManager(game.NewMemoryStore(), nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	s, err := NewService(m, viewer.NewRenderer(24), msgcat.MustDefault(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func meta(id, user string) gamedto.RequestMeta { return gamedto.RequestMeta{GameID: id, UserID: user} }

func TestServiceFlow(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, gamedto.CreateGameRequest{UserID: "alice", Color: "white"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.Game.ID
	if created.Game.Status != "waiting" || created.Game.WhiteID != "alice" {
		t.Fatalf("created = %+v", created.Game)
	}
	joined, err := s.Join(ctx, gamedto.JoinGameRequest{Meta: meta(id, "bob")})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.Seat != "black" || joined.Game.Status != "started" || joined.Game.Turn != "white" {
		t.Fatalf("joined = %+v", joined)
	}

	dest, err := s.Destinations(ctx, gamedto.DestinationsRequest{Meta: meta(id, "alice"), Square: "b1"})
	if err != nil || strings.Join(dest.Squares, ",") != "a3,c3" {
		t.Fatalf("destinations = %v, %v", dest, err)
	}

	moved, err := s.Move(ctx, gamedto.MoveRequest{Meta: meta(id, "alice"), Move: "e2e4"})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.Snapshot.Ply != 1 || moved.Snapshot.Move != "e2e4" || moved.Game.Turn != "black" {
		t.Fatalf("moved = %+v %+v", moved.Snapshot, moved.Game)
	}

	view, err := s.View(ctx, gamedto.ViewRequest{Meta: meta(id, "bob"), WithImage: true})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !view.View.Flipped || view.View.SideToMove != "black" || !strings.Contains(view.View.Text, "1. e2e4") {
		t.Fatalf("view = %+v", view.View)
	}
	if _, err := png.Decode(bytes.NewReader(view.View.Image)); err != nil {
		t.Fatalf("image: %v", err)
	}

	hist, err := s.History(ctx, gamedto.HistoryRequest{Meta: meta(id, "")})
	if err != nil || len(hist.Snapshots) != 2 {
		t.Fatalf("history = %v, %v", hist, err)
	}

	resigned, err := s.Resign(ctx, gamedto.ResignRequest{Meta: meta(id, "bob")})
	if err != nil || resigned.Game.Winner != "alice" || resigned.Game.Status != "over" {
		t.Fatalf("resign = %+v, %v", resigned, err)
	}
}

func TestServiceErrorsAreDomainErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, gamedto.CreateGameRequest{UserID: "alice", Color: "white"})
	id := created.Game.ID
	s.Join(ctx, gamedto.JoinGameRequest{Meta: meta(id, "bob")})

	cases := []struct {
		req  gamedto.MoveRequest
		code string
	}{
		{gamedto.MoveRequest{Meta: meta(id, "alice"), Move: "e2"}, gamedto.CodeInvalidSquare},
		{gamedto.MoveRequest{Meta: meta(id, "alice"), Move: "e2e5"}, gamedto.CodeIllegalMove},
		{gamedto.MoveRequest{Meta: meta(id, "bob"), Move: "e7e5"}, gamedto.CodeNotYourTurn},
		{gamedto.MoveRequest{Meta: meta(id, "carol"), Move: "e2e4"}, gamedto.CodeNotInGame},
		{gamedto.MoveRequest{Meta: meta("missing", "alice"), Move: "e2e4"}, gamedto.CodeGameNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			_, err := s.Move(ctx, tc.req)
			var de gamedto.DomainError
			if !errors.As(err, &de) || de.Code != tc.code {
				t.Fatalf("got %v, want code %s", err, tc.code)
			}
		})
	}
	if _, err := s.Join(ctx, gamedto.JoinGameRequest{Meta: meta(id, "carol")}); err.(gamedto.DomainError).Code != gamedto.CodeGameFull {
		t.Fatalf("third join: %v", err)
	}
}
