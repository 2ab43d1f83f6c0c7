package viewer

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/park285/btch-engine/internal/chess"
)

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(32)
	v, err := Present(snapshotAfter(t, "f2f3", "e7e5", "g2g4", "d8h4"), chess.Black, true)
	if err != nil {
		t.Fatalf("Present: %v", err)
	}
	data, err := r.RenderPNG(context.Background(), v, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 32*8+32 || b.Dy() != 32*8+32+16 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestRendererSquareSizeDefault(t *testing.T) {
	if got := NewRenderer(4).SquareSize(); got != defaultSquareSize {
		t.Fatalf("size = %d", got)
	}
	if got := NewRenderer(48).SquareSize(); got != 48 {
		t.Fatalf("size = %d", got)
	}
}

func TestRenderHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, _ := Present(snapshotAfter(t), chess.White, true)
	if _, err := NewRenderer(32).RenderPNG(ctx, v, RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPieceSVGForEveryPiece(t *testing.T) {
	cat, err := loadPieceCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, k := range []chess.Kind{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen, chess.King} {
		for _, c := range []chess.Color{chess.White, chess.Black} {
			if _, err := pieceSVG(cat, chess.Piece{Kind: k, Color: c}); err != nil {
				t.Fatalf("%s %s: %v", c, k, err)
			}
		}
	}
}
