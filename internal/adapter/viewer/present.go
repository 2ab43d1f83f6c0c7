package viewer

import (
	"strings"
	"time"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/snapshot"
)

// ViewerSnapshot is a snapshot as one player should see it. Grid row 0 is the top of
// the viewer's screen.
type ViewerSnapshot struct {
	GameID     string
	Ply        int
	Viewer     chess.Color
	Oriented   bool
	Board      string
	Grid       [8][8]chess.Piece
	Move       string
	Captured   string
	Status     chess.Status
	SideToMove chess.Color
	CreatedAt  time.Time
}

// Flipped reports whether the grid is rotated relative to the stored board.
func (v ViewerSnapshot) Flipped() bool { return v.Oriented && v.Viewer == chess.Black }

// ToScreen maps a board square to its position in Grid.
func (v ViewerSnapshot) ToScreen(sq chess.Square) chess.Square {
	if v.Flipped() {
		return sq.Flip()
	}
	return sq
}

// Present derives the view of snap for viewer. Until the game has started the stored
// snapshot is returned as is. Afterwards the grid is oriented so the viewer's own back
// rank is at the bottom; spectators get White's orientation. snap is never modified.
func Present(snap snapshot.Snapshot, viewer chess.Color, started bool) (ViewerSnapshot, error) {
	b, _, err := snapshot.DecodeAt(snap.Board, snap.Ply)
	if err != nil {
		return ViewerSnapshot{}, err
	}
	v := ViewerSnapshot{
		GameID:     snap.GameID,
		Ply:        snap.Ply,
		Viewer:     viewer,
		Oriented:   started,
		Board:      snap.Board,
		Grid:       b.Grid(),
		Move:       snap.Move,
		Captured:   snap.Captured,
		Status:     b.Status(),
		SideToMove: b.SideToMove(),
		CreatedAt:  snap.CreatedAt,
	}
	if !v.Flipped() {
		return v, nil
	}
	var rotated [8][8]chess.Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			rotated[7-row][7-col] = v.Grid[row][col]
		}
	}
	v.Grid = rotated
	v.Board = rotateText(snap.Board)
	return v, nil
}

// rotateText reverses the 64 square tokens and keeps the trailing fields.
func rotateText(text string) string {
	squares, rest, _ := strings.Cut(text, "#")
	tokens := strings.Split(squares, "_")
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return strings.Join(tokens, "_") + "#" + rest
}
