package chess

import "fmt"

// Square addresses a board cell. Row 0 is rank 8 (Black's back rank), column 0 is file a.
type Square struct {
	Row int
	Col int
}

// NoSquare is returned alongside errors.
var NoSquare = Square{Row: -1, Col: -1}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('a' + s.Col), byte('8' - s.Row)})
}

// Flip rotates the square by 180 degrees.
func (s Square) Flip() Square {
	return Square{Row: 7 - s.Row, Col: 7 - s.Col}
}

// ToAlgebraic converts a (row, column) pair to "e2" style text.
func ToAlgebraic(row, col int) (string, error) {
	sq := Square{Row: row, Col: col}
	if !sq.Valid() {
		return "", fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, row, col)
	}
	return sq.String(), nil
}

// FromAlgebraic parses two-character algebraic text. Only lowercase files are accepted.
func FromAlgebraic(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: int('8' - rank), Col: int(file - 'a')}, nil
}

// MustSquare is FromAlgebraic for constants; it panics on malformed input.
func MustSquare(s string) Square {
	sq, err := FromAlgebraic(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// Mailbox layout: 12x12 with a two-cell sentinel ring, so knight jumps from an edge
// square still land inside the buffer.
const (
	mailboxWidth = 12
	mailboxSize  = mailboxWidth * mailboxWidth
	mailboxPad   = 2
)

func mailbox(s Square) int {
	return (s.Row+mailboxPad)*mailboxWidth + s.Col + mailboxPad
}

func squareOf(idx int) Square {
	return Square{Row: idx/mailboxWidth - mailboxPad, Col: idx%mailboxWidth - mailboxPad}
}
