package gamedto

// Error codes carried by DomainError.
const (
	CodeInvalidSquare     = "invalid_square"
	CodeOutOfBounds       = "out_of_bounds"
	CodeMalformedSnapshot = "malformed_snapshot"
	CodeGameNotActive     = "game_not_active"
	CodeNotYourTurn       = "not_your_turn"
	CodeIllegalMove       = "illegal_move"
	CodeGameFull          = "game_full"
	CodeNotInGame         = "not_in_game"
	CodeGameNotFound      = "game_not_found"
	CodeSnapshotNotFound  = "snapshot_not_found"
	CodePlyConflict       = "ply_conflict"
	CodeInvalidArgs       = "invalid_args"
	CodeInternal          = "internal"
)

type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "game engine error"
}
