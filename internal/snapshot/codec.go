package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/btch-engine/internal/chess"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

const (
	fieldSep  = "#"
	tokenSep  = "_"
	fieldNum  = 5
	squareNum = 64
)

// LastMove is the metadata carried in the second field: the move that produced the
// position and the piece it captured, if any.
type LastMove struct {
	Move     chess.Move
	Captured chess.Piece
}

func (l LastMove) String() string {
	s := FormatMove(l.Move)
	if !l.Captured.IsZero() {
		s += "x" + l.Captured.Code()
	}
	return s
}

// FromApplied builds the metadata of an accepted move.
func FromApplied(a chess.Applied) LastMove {
	return LastMove{
		Move:     chess.Move{From: a.From, To: a.To, Promotion: a.Promotion},
		Captured: a.Captured,
	}
}

// Encode renders b. last is nil for the initial position.
//
// Layout: 64 square tokens joined by "_", then "#" separated fields for the last
// move, the six castling slots, the en passant column and the status tag.
func Encode(b *chess.Board, last *LastMove) string {
	var sb strings.Builder
	grid := b.Grid()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if row != 0 || col != 0 {
				sb.WriteString(tokenSep)
			}
			sb.WriteString(grid[row][col].Code())
		}
	}
	sb.WriteString(fieldSep)
	if last != nil {
		sb.WriteString(last.String())
	}
	sb.WriteString(fieldSep)
	for i, f := range chess.CastleFlags {
		if i > 0 {
			sb.WriteString(tokenSep)
		}
		if !b.Moved(f) {
			sb.WriteString(f.String())
		}
	}
	sb.WriteString(fieldSep)
	sb.WriteString(strconv.Itoa(b.EnPassantFile()))
	sb.WriteString(fieldSep)
	sb.WriteByte(byte(b.Status()))
	return sb.String()
}

// DecodeAt parses text as the position after ply half-moves. The side to move is
// restored from ply parity; the last move is nil at ply 0.
func DecodeAt(text string, ply int) (*chess.Board, *LastMove, error) {
	if ply < 0 {
		return nil, nil, fmt.Errorf("%w: negative ply %d", ErrMalformedSnapshot, ply)
	}
	fields := strings.Split(text, fieldSep)
	if len(fields) != fieldNum {
		return nil, nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedSnapshot, fieldNum, len(fields))
	}

	setup := chess.Setup{Ply: ply}
	if err := decodeSquares(fields[0], &setup); err != nil {
		return nil, nil, err
	}
	last, err := decodeLast(fields[1])
	if err != nil {
		return nil, nil, err
	}
	if (last == nil) != (ply == 0) {
		return nil, nil, fmt.Errorf("%w: last move %q does not fit ply %d", ErrMalformedSnapshot, fields[1], ply)
	}
	if err := decodeCastling(fields[2], &setup); err != nil {
		return nil, nil, err
	}
	ep, err := strconv.Atoi(fields[3])
	if err != nil || ep < -1 || ep > 7 {
		return nil, nil, fmt.Errorf("%w: en passant %q", ErrMalformedSnapshot, fields[3])
	}
	setup.EnPassant = ep
	if len(fields[4]) != 1 || !chess.Status(fields[4][0]).Valid() {
		return nil, nil, fmt.Errorf("%w: status %q", ErrMalformedSnapshot, fields[4])
	}
	setup.Status = chess.Status(fields[4][0])

	b, err := chess.FromSetup(setup)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return b, last, nil
}

func decodeSquares(field string, s *chess.Setup) error {
	tokens := strings.Split(field, tokenSep)
	if len(tokens) != squareNum {
		return fmt.Errorf("%w: want %d squares, got %d", ErrMalformedSnapshot, squareNum, len(tokens))
	}
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		p, ok := chess.ParsePiece(tok)
		if !ok {
			return fmt.Errorf("%w: piece code %q at index %d", ErrMalformedSnapshot, tok, i)
		}
		s.Pieces[i/8][i%8] = p
	}
	return nil
}

func decodeCastling(field string, s *chess.Setup) error {
	slots := strings.Split(field, tokenSep)
	if len(slots) != len(chess.CastleFlags) {
		return fmt.Errorf("%w: want %d castling slots, got %d", ErrMalformedSnapshot, len(chess.CastleFlags), len(slots))
	}
	for i, f := range chess.CastleFlags {
		switch slots[i] {
		case f.String():
			s.Moved[i] = false
		case "":
			s.Moved[i] = true
		default:
			return fmt.Errorf("%w: castling slot %d is %q", ErrMalformedSnapshot, i, slots[i])
		}
	}
	return nil
}

func decodeLast(field string) (*LastMove, error) {
	if field == "" {
		return nil, nil
	}
	desc, captured, hasCapture := strings.Cut(field, "x")
	mv, err := ParseMove(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: last move %q: %w", ErrMalformedSnapshot, field, err)
	}
	last := &LastMove{Move: mv}
	if hasCapture {
		p, ok := chess.ParsePiece(captured)
		if !ok {
			return nil, fmt.Errorf("%w: captured piece %q", ErrMalformedSnapshot, captured)
		}
		last.Captured = p
	}
	return last, nil
}
