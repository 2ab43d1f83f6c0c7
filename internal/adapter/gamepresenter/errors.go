package gamepresenter

import (
	"errors"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/msgcat"
	"github.com/park285/btch-engine/internal/snapshot"
	"github.com/park285/btch-engine/pkg/gamedto"
)

var errorCodes = []struct {
	target error
	code   string
}{
	{game.ErrGameNotFound, gamedto.CodeGameNotFound},
	{game.ErrNoSnapshot, gamedto.CodeSnapshotNotFound},
	{game.ErrGameNotActive, gamedto.CodeGameNotActive},
	{game.ErrSeatsOpen, gamedto.CodeGameNotActive},
	{game.ErrNotYourTurn, gamedto.CodeNotYourTurn},
	{game.ErrGameFull, gamedto.CodeGameFull},
	{game.ErrNotInGame, gamedto.CodeNotInGame},
	{game.ErrPlyConflict, gamedto.CodePlyConflict},
	{game.ErrInvalidArgs, gamedto.CodeInvalidArgs},
	{snapshot.ErrMalformedSnapshot, gamedto.CodeMalformedSnapshot},
	{chess.ErrInvalidSquare, gamedto.CodeInvalidSquare},
	{chess.ErrOutOfBounds, gamedto.CodeOutOfBounds},
	{chess.ErrIllegalMove, gamedto.CodeIllegalMove},
	{chess.ErrInvalidSetup, gamedto.CodeMalformedSnapshot},
}

// ToDomainError maps engine errors to a DomainError with a catalog message. Errors that
// are already DomainErrors pass through; nil stays nil.
func ToDomainError(err error, cat *msgcat.Catalog) error {
	if err == nil {
		return nil
	}
	var de gamedto.DomainError
	if errors.As(err, &de) {
		return de
	}
	code := gamedto.CodeInternal
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			code = ec.code
			break
		}
	}
	fallback := err.Error()
	if code == gamedto.CodeInternal {
		fallback = "internal error"
	}
	msg := fallback
	if cat != nil {
		msg = cat.Text("error."+code, nil, fallback)
	}
	return gamedto.DomainError{
		Code:      code,
		Message:   msg,
		Retryable: code == gamedto.CodePlyConflict,
	}
}
