package viewer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/snapshot"
)

const (
	defaultSquareSize = 64
	minSquareSize     = 16
	maxSquareSize     = 256
)

type RenderOptions struct {
	Header string
	// HideLastMove disables the from/to overlay.
	HideLastMove bool
}

// Renderer draws a ViewerSnapshot as PNG, in the viewer's orientation.
type Renderer struct {
	squareSize int
}

func NewRenderer(squareSize int) *Renderer {
	if squareSize < minSquareSize || squareSize > maxSquareSize {
		squareSize = defaultSquareSize
	}
	return &Renderer{squareSize: squareSize}
}

func (r *Renderer) SquareSize() int { return r.squareSize }

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	lastMoveFill        = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkFill           = color.NRGBA{R: 230, G: 70, B: 70, A: 150}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
	backgroundColor     = color.RGBA{40, 44, 52, 255}
)

func (r *Renderer) RenderPNG(ctx context.Context, v ViewerSnapshot, opts RenderOptions) ([]byte, error) {
	sq := r.squareSize
	margin := sq / 2
	headerHeight := sq / 2
	boardSize := sq * 8
	totalWidth := boardSize + margin*2
	totalHeight := boardSize + margin*2 + headerHeight
	origin := image.Point{X: margin, Y: margin + headerHeight}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawHeader(img, headerText(v, opts.Header), image.Rect(margin, margin/2, margin+boardSize, margin/2+headerHeight))
	drawSquares(img, sq, origin)
	if !opts.HideLastMove {
		if mv, err := snapshot.ParseMove(v.Move); err == nil {
			drawSquareOverlay(img, v.ToScreen(mv.From), sq, origin, lastMoveFill)
			drawSquareOverlay(img, v.ToScreen(mv.To), sq, origin, lastMoveFill)
		}
	}
	if v.Status == chess.StatusCheck || v.Status == chess.StatusCheckmate {
		if k := kingOnScreen(v.Grid, v.SideToMove); k.Valid() {
			drawSquareOverlay(img, k, sq, origin, checkFill)
		}
	}
	if err := drawPieces(img, v.Grid, sq, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, v, sq, origin, margin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func headerText(v ViewerSnapshot, header string) string {
	if h := strings.TrimSpace(header); h != "" {
		return h
	}
	turn := (v.Ply / 2) + 1
	return fmt.Sprintf("%s to move - move %d - %s", v.SideToMove, turn, v.Status)
}

// A 180 degree turn keeps square parity, so both orientations colour by screen position.
func squareColor(s chess.Square) color.Color {
	if (s.Row+s.Col)%2 == 0 {
		return lightSquare
	}
	return darkSquare
}

func drawSquares(dst imagedraw.Image, size int, origin image.Point) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			clr := squareColor(chess.Square{Row: row, Col: col})
			imagedraw.Draw(dst, squareRect(chess.Square{Row: row, Col: col}, size, origin), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, grid [8][8]chess.Piece, size int, origin image.Point) error {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := grid[row][col]
			if p.IsZero() {
				continue
			}
			pimg, err := renderPieceImage(p, size)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, squareRect(chess.Square{Row: row, Col: col}, size, origin), pimg, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func kingOnScreen(grid [8][8]chess.Piece, c chess.Color) chess.Square {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if grid[row][col] == (chess.Piece{Kind: chess.King, Color: c}) {
				return chess.Square{Row: row, Col: col}
			}
		}
	}
	return chess.NoSquare
}

func drawCoordinates(dst imagedraw.Image, v ViewerSnapshot, size int, origin image.Point, margin int) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + 8*size
	for i := 0; i < 8; i++ {
		// Labels follow the board square shown at screen row/col i.
		board := v.ToScreen(chess.Square{Row: i, Col: i})
		rank := string(rune('8' - board.Row))
		file := string(rune('a' + board.Col))
		center := i*size + size/2
		drawCenteredText(drawer, rank, origin.X-margin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, file, origin.X+center, boardEndY+ascent+2)
	}
}

func drawHeader(img *image.RGBA, text string, rect image.Rectangle) {
	drawRoundedPanel(img, rect, rect.Dy()/3, hudPanelColor)
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	drawCenteredString(drawer, rect, text, hudTextPrimary)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func squareRect(s chess.Square, size int, origin image.Point) image.Rectangle {
	x := origin.X + s.Col*size
	y := origin.Y + s.Row*size
	return image.Rect(x, y, x+size, y+size)
}

func drawSquareOverlay(img *image.RGBA, s chess.Square, size int, origin image.Point, clr color.Color) {
	if img == nil || !s.Valid() {
		return
	}
	imagedraw.Draw(img, squareRect(s, size, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if limit := min(rect.Dx(), rect.Dy()) / 2; radius > limit {
		radius = limit
	}
	fill := image.NewUniform(clr)
	if radius <= 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, c := range corners {
		drawDisc(img, c, radius, clr)
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > r2 {
				continue
			}
			if p := (image.Point{X: center.X + x, Y: center.Y + y}); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, clr)
			}
		}
	}
}
