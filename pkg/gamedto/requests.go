package gamedto

type RequestMeta struct {
	GameID string
	UserID string
}

type CreateGameRequest struct {
	UserID string
	// Color is "white", "black" or empty for a random seat.
	Color string
}

type CreateGameResponse struct {
	Game *GameSummary
}

type JoinGameRequest struct {
	Meta  RequestMeta
	Color string
}

type JoinGameResponse struct {
	Game *GameSummary
	Seat string
}

type MoveRequest struct {
	Meta RequestMeta
	// Move is a coordinate descriptor such as "e2e4" or "e7e8n".
	Move string
}

type MoveResponse struct {
	Snapshot *Snapshot
	Game     *GameSummary
}

type ResignRequest struct {
	Meta RequestMeta
}

type ResignResponse struct {
	Game *GameSummary
}

type DestinationsRequest struct {
	Meta   RequestMeta
	Square string
}

type DestinationsResponse struct {
	Squares []string
}

type ViewRequest struct {
	Meta      RequestMeta
	WithImage bool
}

type ViewResponse struct {
	View *BoardView
}

type HistoryRequest struct {
	Meta RequestMeta
}

type HistoryResponse struct {
	Snapshots []Snapshot
}
