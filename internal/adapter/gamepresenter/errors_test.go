package gamepresenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/park285/btch-engine/internal/chess"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/msgcat"
	"github.com/park285/btch-engine/internal/snapshot"
	"github.com/park285/btch-engine/pkg/gamedto"
)

func TestToDomainError(t *testing.T) {
	cat := msgcat.MustDefault()
	cases := []struct {
		err       error
		code      string
		retryable bool
	}{
		{game.ErrIllegalMove, gamedto.CodeIllegalMove, false},
		{fmt.Errorf("wrapped: %w", game.ErrNotYourTurn), gamedto.CodeNotYourTurn, false},
		{game.ErrPlyConflict, gamedto.CodePlyConflict, true},
		{fmt.Errorf("%w: e9", chess.ErrInvalidSquare), gamedto.CodeInvalidSquare, false},
		{fmt.Errorf("%w: %w", snapshot.ErrMalformedSnapshot, chess.ErrInvalidSetup), gamedto.CodeMalformedSnapshot, false},
		{errors.New("disk on fire"), gamedto.CodeInternal, false},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			var de gamedto.DomainError
			if !errors.As(ToDomainError(tc.err, cat), &de) {
				t.Fatalf("not a DomainError")
			}
			if de.Code != tc.code || de.Retryable != tc.retryable || de.Message == "" {
				t.Fatalf("got %+v", de)
			}
		})
	}

	de := ToDomainError(errors.New("secret detail"), nil).(gamedto.DomainError)
	if de.Message != "internal error" {
		t.Fatalf("internal message leaked: %q", de.Message)
	}
	if ToDomainError(nil, cat) != nil {
		t.Fatalf("nil should stay nil")
	}
	orig := gamedto.DomainError{Code: "x"}
	if got := ToDomainError(orig, cat); got != orig {
		t.Fatalf("passthrough = %v", got)
	}
}
