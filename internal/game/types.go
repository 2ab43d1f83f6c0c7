package game

import (
	"strings"
	"time"

	"github.com/park285/btch-engine/internal/chess"
)

// Status is the lifecycle state of a game. It only moves forward.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
	StatusOver    Status = "over"
)

// Outcome values.
const (
	OutcomeWhite = "white"
	OutcomeBlack = "black"
	OutcomeDraw  = "draw"
)

// Termination methods.
const (
	MethodCheckmate   = "checkmate"
	MethodStalemate   = "stalemate"
	MethodResignation = "resignation"
)

// ParseSeatPreference maps "white"/"w" and "black"/"b"; anything else means no
// preference.
func ParseSeatPreference(s string) chess.Color {
	c, ok := chess.ParseColor(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return chess.NoColor
	}
	return c
}

// Record is the persisted game metadata. Snapshots are stored separately.
type Record struct {
	ID        string    `json:"id"`
	WhiteID   string    `json:"white_id,omitempty"`
	BlackID   string    `json:"black_id,omitempty"`
	Status    Status    `json:"status"`
	Winner    string    `json:"winner,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Method    string    `json:"method,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	StartedAt time.Time `json:"started_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
