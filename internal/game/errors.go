package game

import (
	"errors"
	"fmt"

	"github.com/park285/btch-engine/internal/chess"
)

var (
	ErrGameNotActive = errors.New("game not active")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = fmt.Errorf("game: %w", chess.ErrIllegalMove)
	ErrGameFull      = errors.New("game already has two players")
	ErrSeatsOpen     = errors.New("game still has an open seat")
	ErrNotInGame     = errors.New("user not in game")
	ErrGameNotFound  = errors.New("game not found")
	ErrNoSnapshot    = errors.New("snapshot not found")
	ErrPlyConflict   = errors.New("snapshot ply conflict")
	ErrInvalidArgs   = errors.New("invalid arguments")
)
