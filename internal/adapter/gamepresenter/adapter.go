package gamepresenter

import (
	"github.com/park285/btch-engine/internal/adapter/viewer"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/snapshot"
	"github.com/park285/btch-engine/pkg/gamedto"
)

func ToDTOGame(g *game.Game) *gamedto.GameSummary {
	if g == nil {
		return nil
	}
	out := &gamedto.GameSummary{
		ID:        g.ID,
		WhiteID:   g.WhiteID,
		BlackID:   g.BlackID,
		Status:    string(g.Status),
		Turn:      g.Turn().String(),
		Outcome:   g.Outcome,
		Method:    g.Method,
		Winner:    g.Winner,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if last, ok := g.Latest(); ok {
		out.Ply = last.Ply
	}
	return out
}

func ToDTOSnapshot(s snapshot.Snapshot) gamedto.Snapshot {
	return gamedto.Snapshot{
		GameID:    s.GameID,
		Ply:       s.Ply,
		Move:      s.Move,
		Captured:  s.Captured,
		Board:     s.Board,
		Status:    s.Status().String(),
		CreatedAt: s.CreatedAt,
	}
}

func ToDTOSnapshots(list []snapshot.Snapshot) []gamedto.Snapshot {
	out := make([]gamedto.Snapshot, 0, len(list))
	for _, s := range list {
		out = append(out, ToDTOSnapshot(s))
	}
	return out
}

// ToDTOView copies the oriented text; Text and Image are filled by the caller.
func ToDTOView(v viewer.ViewerSnapshot) *gamedto.BoardView {
	return &gamedto.BoardView{
		Snapshot: gamedto.Snapshot{
			GameID:    v.GameID,
			Ply:       v.Ply,
			Move:      v.Move,
			Captured:  v.Captured,
			Board:     v.Board,
			Status:    v.Status.String(),
			CreatedAt: v.CreatedAt,
		},
		Viewer:     v.Viewer.String(),
		Flipped:    v.Flipped(),
		SideToMove: v.SideToMove.String(),
	}
}
