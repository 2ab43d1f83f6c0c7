package enginebuilder

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/park285/btch-engine/internal/config"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/pkg/gamedto"
)

func TestNewInMemory(t *testing.T) {
	d, err := New(&config.AppConfig{RenderSquareSize: 32}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if _, ok := d.Store.(*game.MemoryStore); !ok {
		t.Fatalf("store = %T", d.Store)
	}
	if d.Renderer.SquareSize() != 32 {
		t.Fatalf("square size = %d", d.Renderer.SquareSize())
	}
}

func TestNewWithRedisArchivesResult(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	d, err := New(&config.AppConfig{RedisURL: fmt.Sprintf("redis://%s/0", mr.Addr())}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if _, ok := d.Store.(*game.RedisStore); !ok {
		t.Fatalf("store = %T", d.Store)
	}

	ctx := context.Background()
	created, err := d.Service.Create(ctx, gamedto.CreateGameRequest{UserID: "alice", Color: "black"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.Game.ID
	if _, err := d.Service.Join(ctx, gamedto.JoinGameRequest{Meta: gamedto.RequestMeta{GameID: id, UserID: "bob"}}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := d.Service.Resign(ctx, gamedto.ResignRequest{Meta: gamedto.RequestMeta{GameID: id, UserID: "bob"}}); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	e, err := d.Archive.Get(ctx, id)
	if err != nil || e.Result != "black" || e.Winner != "alice" {
		t.Fatalf("archive = %+v, %v", e, err)
	}
}

func TestNewRejectsBadRedisURL(t *testing.T) {
	if _, err := New(&config.AppConfig{RedisURL: "http://nope"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
