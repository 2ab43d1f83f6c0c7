package domain

import "time"

// GameResult is the archived summary of a finished game.
type GameResult struct {
	GameID    string
	WhiteID   string
	BlackID   string
	Result    string // white, black or draw
	Method    string
	Winner    string
	Moves     []string // coordinate descriptors, e.g. "e2e4", "e7e8q"
	FinalText string   // encoded last snapshot
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

// PlyCount is the number of half-moves played.
func (r GameResult) PlyCount() int { return len(r.Moves) }
