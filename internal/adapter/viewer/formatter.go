package viewer

import (
	"fmt"
	"strings"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/msgcat"
)

// Formatter renders a ViewerSnapshot as plain text: an ASCII diagram followed by a
// status line from the message catalog.
type Formatter struct {
	catalog *msgcat.Catalog
}

func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// Board draws the grid with rank and file labels in the viewer's orientation.
// White pieces are upper case, empty squares are dots.
func (f *Formatter) Board(v ViewerSnapshot) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		rank := v.ToScreen(chess.Square{Row: row, Col: 0}).Row
		sb.WriteByte(byte('8' - rank))
		for col := 0; col < 8; col++ {
			sb.WriteByte(' ')
			sb.WriteByte(pieceGlyph(v.Grid[row][col]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(' ')
	for col := 0; col < 8; col++ {
		file := v.ToScreen(chess.Square{Row: 0, Col: col}).Col
		sb.WriteByte(' ')
		sb.WriteByte(byte('a' + file))
	}
	return sb.String()
}

// Status is the one-line summary for the position.
func (f *Formatter) Status(v ViewerSnapshot) string {
	side := v.SideToMove.String()
	switch v.Status {
	case chess.StatusCheck:
		return f.text("status.check", map[string]any{"Side": side}, side+" to move, in check")
	case chess.StatusCheckmate:
		winner := v.SideToMove.Opponent().String()
		return f.text("status.checkmate", map[string]any{"Winner": winner}, "checkmate")
	case chess.StatusStalemate:
		return f.text("status.stalemate", nil, "stalemate")
	default:
		return f.text("status.none", map[string]any{"Side": side}, side+" to move")
	}
}

// LastMove describes the move that produced v, or "" at ply 0.
func (f *Formatter) LastMove(v ViewerSnapshot) string {
	if v.Move == "" {
		return ""
	}
	captured := ""
	if p, ok := chess.ParsePiece(v.Captured); ok {
		captured = p.Color.String() + " " + p.Kind.String()
	}
	data := map[string]any{"Ply": v.Ply, "Move": v.Move, "Captured": captured}
	return f.text("game.move", data, fmt.Sprintf("%d. %s", v.Ply, v.Move))
}

// Format joins the diagram, the last move and the status line.
func (f *Formatter) Format(v ViewerSnapshot) string {
	parts := []string{f.Board(v)}
	if mv := f.LastMove(v); mv != "" {
		parts = append(parts, mv)
	}
	parts = append(parts, f.Status(v))
	return strings.Join(parts, "\n")
}

func (f *Formatter) text(key string, data any, fallback string) string {
	if f == nil {
		return fallback
	}
	return f.catalog.Text(key, data, fallback)
}

func pieceGlyph(p chess.Piece) byte {
	if p.IsZero() {
		return '.'
	}
	l := p.Kind.Letter()
	if p.Color == chess.White {
		return l - 'a' + 'A'
	}
	return l
}
