package snapshot

import (
	"time"

	"github.com/park285/btch-engine/internal/chess"
)

// Snapshot is the persisted state after a given ply. Values are never mutated once
// created; history only grows by appending new ones.
type Snapshot struct {
	GameID    string    `json:"game_id"`
	Ply       int       `json:"ply"`
	Move      string    `json:"move,omitempty"`
	Captured  string    `json:"captured,omitempty"`
	Board     string    `json:"board"`
	CreatedAt time.Time `json:"created_at"`
}

// Initial is snapshot 0 of a freshly started game.
func Initial(gameID string, now time.Time) Snapshot {
	return Snapshot{
		GameID:    gameID,
		Ply:       0,
		Board:     Encode(chess.NewBoard(), nil),
		CreatedAt: now,
	}
}

// New records b as reached by the accepted move a.
func New(gameID string, b *chess.Board, a chess.Applied, now time.Time) Snapshot {
	last := FromApplied(a)
	return Snapshot{
		GameID:    gameID,
		Ply:       b.Ply(),
		Move:      FormatMove(last.Move),
		Captured:  last.Captured.Code(),
		Board:     Encode(b, &last),
		CreatedAt: now,
	}
}

// State decodes the stored text into a fresh board.
func (s Snapshot) State() (*chess.Board, error) {
	b, _, err := DecodeAt(s.Board, s.Ply)
	return b, err
}

// Status reads the trailing status tag without decoding the whole board.
func (s Snapshot) Status() chess.Status {
	if s.Board == "" {
		return chess.StatusNone
	}
	return chess.Status(s.Board[len(s.Board)-1])
}
