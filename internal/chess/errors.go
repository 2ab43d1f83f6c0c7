package chess

import "errors"

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrOutOfBounds   = errors.New("coordinate out of bounds")
	ErrIllegalMove   = errors.New("illegal move")
	ErrInvalidSetup  = errors.New("invalid board setup")
)
