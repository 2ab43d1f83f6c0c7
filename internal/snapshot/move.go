package snapshot

import (
	"fmt"

	"github.com/park285/btch-engine/internal/chess"
)

// FormatMove renders "d2d4", or "e7e8q" with a promotion piece.
func FormatMove(m chess.Move) string {
	return m.String()
}

// ParseMove reads a four-character descriptor with an optional promotion letter.
func ParseMove(s string) (chess.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return chess.Move{}, fmt.Errorf("%w: move %q", chess.ErrInvalidSquare, s)
	}
	from, err := chess.FromAlgebraic(s[:2])
	if err != nil {
		return chess.Move{}, err
	}
	to, err := chess.FromAlgebraic(s[2:4])
	if err != nil {
		return chess.Move{}, err
	}
	mv := chess.Move{From: from, To: to}
	if len(s) == 5 {
		kind, ok := chess.KindFromLetter(s[4])
		if !ok || kind == chess.Pawn || kind == chess.King {
			return chess.Move{}, fmt.Errorf("%w: promotion %q", chess.ErrIllegalMove, s[4:])
		}
		mv.Promotion = kind
	}
	return mv, nil
}

// CoordsToMove converts [fromRow, fromCol, toRow, toCol] into "d2d4" text.
func CoordsToMove(c [4]int) (string, error) {
	from, err := chess.ToAlgebraic(c[0], c[1])
	if err != nil {
		return "", err
	}
	to, err := chess.ToAlgebraic(c[2], c[3])
	if err != nil {
		return "", err
	}
	return from + to, nil
}

// MoveToCoords is the inverse of CoordsToMove. A promotion suffix is ignored.
func MoveToCoords(s string) ([4]int, error) {
	mv, err := ParseMove(s)
	if err != nil {
		return [4]int{}, err
	}
	return [4]int{mv.From.Row, mv.From.Col, mv.To.Row, mv.To.Col}, nil
}
