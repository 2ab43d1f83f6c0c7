package gamedto

import "time"

// GameSummary is the lifecycle record of one game.
type GameSummary struct {
	ID        string    `json:"id"`
	WhiteID   string    `json:"white_id,omitempty"`
	BlackID   string    `json:"black_id,omitempty"`
	Status    string    `json:"status"`
	Turn      string    `json:"turn"`
	Ply       int       `json:"ply"`
	Outcome   string    `json:"outcome,omitempty"`
	Method    string    `json:"method,omitempty"`
	Winner    string    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Snapshot struct {
	GameID    string    `json:"game_id"`
	Ply       int       `json:"ply"`
	Move      string    `json:"move,omitempty"`
	Captured  string    `json:"captured,omitempty"`
	Board     string    `json:"board"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardView is a snapshot oriented for one viewer, with optional text and image.
type BoardView struct {
	Snapshot
	Viewer     string `json:"viewer"`
	Flipped    bool   `json:"flipped"`
	SideToMove string `json:"side_to_move"`
	Text       string `json:"text,omitempty"`
	Image      []byte `json:"image,omitempty"`
}
