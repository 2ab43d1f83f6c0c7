package chess

import (
	"fmt"
)

// Status classifies a position for the side to move.
type Status byte

const (
	StatusNone      Status = 'n'
	StatusCheck     Status = 'c'
	StatusCheckmate Status = 'm'
	StatusStalemate Status = 's'
)

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusCheck, StatusCheckmate, StatusStalemate:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further move can be played.
func (s Status) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate
}

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// CastleFlag indexes the six "has this piece ever moved" flags.
type CastleFlag int

const (
	FlagKingBlack CastleFlag = iota
	FlagKingWhite
	FlagRookQueenBlack // a8
	FlagRookKingBlack  // h8
	FlagRookQueenWhite // a1
	FlagRookKingWhite  // h1
	castleFlagCount
)

// CastleFlags lists the flags in their persisted order.
var CastleFlags = [castleFlagCount]CastleFlag{
	FlagKingBlack, FlagKingWhite, FlagRookQueenBlack, FlagRookKingBlack, FlagRookQueenWhite, FlagRookKingWhite,
}

func (f CastleFlag) String() string {
	switch f {
	case FlagKingBlack:
		return "kb"
	case FlagKingWhite:
		return "kw"
	case FlagRookQueenBlack:
		return "rqb"
	case FlagRookKingBlack:
		return "rkb"
	case FlagRookQueenWhite:
		return "rqw"
	case FlagRookKingWhite:
		return "rkw"
	default:
		return "?"
	}
}

// homeSquare is where the flagged piece starts.
func (f CastleFlag) homeSquare() Square {
	switch f {
	case FlagKingBlack:
		return Square{Row: 0, Col: 4}
	case FlagKingWhite:
		return Square{Row: 7, Col: 4}
	case FlagRookQueenBlack:
		return Square{Row: 0, Col: 0}
	case FlagRookKingBlack:
		return Square{Row: 0, Col: 7}
	case FlagRookQueenWhite:
		return Square{Row: 7, Col: 0}
	case FlagRookKingWhite:
		return Square{Row: 7, Col: 7}
	default:
		return NoSquare
	}
}

type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

func kingFlag(c Color) CastleFlag {
	if c == White {
		return FlagKingWhite
	}
	return FlagKingBlack
}

func rookFlag(c Color, side CastleSide) CastleFlag {
	switch {
	case c == White && side == KingSide:
		return FlagRookKingWhite
	case c == White:
		return FlagRookQueenWhite
	case side == KingSide:
		return FlagRookKingBlack
	default:
		return FlagRookQueenBlack
	}
}

func backRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

type cell struct {
	piece Piece
	off   bool
}

// Board is a single position. It is a plain value: copying a Board yields an
// independent position, and two Boards compare equal with == iff they describe the
// same state.
type Board struct {
	cells  [mailboxSize]cell
	side   Color
	moved  [castleFlagCount]bool
	epFile int
	ply    int
	status Status
}

// NewBoard returns the standard initial position.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset sets the standard initial position with White to move.
func (b *Board) Reset() {
	b.clearCells()
	back := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		b.put(Square{Row: 0, Col: col}, Piece{Kind: back[col], Color: Black})
		b.put(Square{Row: 1, Col: col}, Piece{Kind: Pawn, Color: Black})
		b.put(Square{Row: 6, Col: col}, Piece{Kind: Pawn, Color: White})
		b.put(Square{Row: 7, Col: col}, Piece{Kind: back[col], Color: White})
	}
	b.side = White
	b.moved = [castleFlagCount]bool{}
	b.epFile = -1
	b.ply = 0
	b.status = StatusNone
}

func (b *Board) clearCells() {
	for i := range b.cells {
		b.cells[i] = cell{off: !squareOf(i).Valid()}
	}
}

func (b *Board) put(sq Square, p Piece) {
	b.cells[mailbox(sq)].piece = p
}

// At returns the piece on sq; out-of-range squares fail with ErrOutOfBounds.
func (b *Board) At(sq Square) (Piece, error) {
	if !sq.Valid() {
		return Piece{}, fmt.Errorf("%w: %v", ErrOutOfBounds, sq)
	}
	return b.cells[mailbox(sq)].piece, nil
}

func (b *Board) SideToMove() Color { return b.side }

// EnPassantFile is the column a pawn may be captured on, or -1.
func (b *Board) EnPassantFile() int { return b.epFile }

func (b *Board) Ply() int { return b.ply }

func (b *Board) Status() Status { return b.status }

func (b *Board) Moved(f CastleFlag) bool {
	if f < 0 || f >= castleFlagCount {
		return true
	}
	return b.moved[f]
}

// CanCastle reports flag eligibility only; path and attack conditions are checked
// during generation.
func (b *Board) CanCastle(c Color, side CastleSide) bool {
	if side == NoCastle || (c != White && c != Black) {
		return false
	}
	return !b.moved[kingFlag(c)] && !b.moved[rookFlag(c, side)]
}

// KingSquare returns the square of c's king, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	for i := range b.cells {
		p := b.cells[i].piece
		if p.Kind == King && p.Color == c {
			return squareOf(i)
		}
	}
	return NoSquare
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Grid returns the 8x8 piece placement, row 0 first.
func (b *Board) Grid() [8][8]Piece {
	var g [8][8]Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			g[row][col] = b.cells[mailbox(Square{Row: row, Col: col})].piece
		}
	}
	return g
}

// Setup is the decomposed form of a Board used by codecs and tests. The side to move
// is not stored: it follows from Ply parity because White moves at ply 0.
type Setup struct {
	Pieces    [8][8]Piece
	Moved     [6]bool
	EnPassant int
	Ply       int
	Status    Status
}

func (b *Board) Setup() Setup {
	return Setup{
		Pieces:    b.Grid(),
		Moved:     b.moved,
		EnPassant: b.epFile,
		Ply:       b.ply,
		Status:    b.status,
	}
}

// FromSetup builds a Board and validates the structural invariants: exactly one king
// per colour, no pawns on a back rank, en passant within -1..7 and a known status.
// The stored status is kept as given; use Evaluate to recompute it.
func FromSetup(s Setup) (*Board, error) {
	if s.EnPassant < -1 || s.EnPassant > 7 {
		return nil, fmt.Errorf("%w: en passant column %d", ErrInvalidSetup, s.EnPassant)
	}
	if s.Ply < 0 {
		return nil, fmt.Errorf("%w: negative ply %d", ErrInvalidSetup, s.Ply)
	}
	if !s.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidSetup, byte(s.Status))
	}
	b := &Board{}
	b.clearCells()
	kings := map[Color]int{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := s.Pieces[row][col]
			if p.IsZero() {
				continue
			}
			if p.Color != White && p.Color != Black {
				return nil, fmt.Errorf("%w: piece without colour at %v", ErrInvalidSetup, Square{Row: row, Col: col})
			}
			if p.Kind == Pawn && (row == 0 || row == 7) {
				return nil, fmt.Errorf("%w: pawn on back rank at %v", ErrInvalidSetup, Square{Row: row, Col: col})
			}
			if p.Kind == King {
				kings[p.Color]++
			}
			b.put(Square{Row: row, Col: col}, p)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: need one king per colour, got white=%d black=%d", ErrInvalidSetup, kings[White], kings[Black])
	}
	b.moved = s.Moved
	b.epFile = s.EnPassant
	b.ply = s.Ply
	b.side = White
	if s.Ply%2 == 1 {
		b.side = Black
	}
	b.status = s.Status
	return b, nil
}

// Applied describes an accepted move.
type Applied struct {
	From       Square
	To         Square
	Piece      Piece
	Captured   Piece
	CapturedOn Square
	Promotion  Kind
	Castle     CastleSide
	EnPassant  bool
	Status     Status
}

// ApplyMove plays from->to for the side to move. promo selects the promotion piece
// (NoKind means queen) and is ignored for non-promoting moves. Any rejection leaves
// the board unchanged.
func (b *Board) ApplyMove(from, to Square, promo Kind) (Applied, error) {
	if !from.Valid() || !to.Valid() {
		return Applied{}, fmt.Errorf("%w: %v -> %v", ErrOutOfBounds, from, to)
	}
	pc := b.cells[mailbox(from)].piece
	if pc.IsZero() {
		return Applied{}, fmt.Errorf("%w: no piece on %v", ErrIllegalMove, from)
	}
	if pc.Color != b.side {
		return Applied{}, fmt.Errorf("%w: %v belongs to %s", ErrIllegalMove, from, pc.Color)
	}
	switch promo {
	case NoKind, Knight, Bishop, Rook, Queen:
	default:
		return Applied{}, fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, promo)
	}
	legal := false
	for _, dst := range b.LegalDestinations(from) {
		if dst == to {
			legal = true
			break
		}
	}
	if !legal {
		return Applied{}, fmt.Errorf("%w: %v%v", ErrIllegalMove, from, to)
	}

	next := *b
	res := next.play(mailbox(from), mailbox(to), promo)
	next.epFile = -1
	if pc.Kind == Pawn && abs(to.Row-from.Row) == 2 {
		next.epFile = from.Col
	}
	next.ply++
	next.side = b.side.Opponent()
	next.status = next.Evaluate()
	res.Status = next.status
	*b = next
	return res, nil
}

// Move is the soft form of ApplyMove: it reports acceptance and echoes the
// coordinates instead of returning an error.
func (b *Board) Move(fromRow, fromCol, toRow, toCol int) (bool, [4]int) {
	_, err := b.ApplyMove(Square{Row: fromRow, Col: fromCol}, Square{Row: toRow, Col: toCol}, NoKind)
	if err != nil {
		return false, [4]int{}
	}
	return true, [4]int{fromRow, fromCol, toRow, toCol}
}

// play performs the mechanics of a move already known to be pseudo-legal. It updates
// the pieces and the moved flags but not ply, side or en passant.
func (b *Board) play(from, to int, promo Kind) Applied {
	pc := b.cells[from].piece
	res := Applied{From: squareOf(from), To: squareOf(to), Piece: pc}

	if captured := b.cells[to].piece; !captured.IsZero() {
		res.Captured = captured
		res.CapturedOn = squareOf(to)
	} else if pc.Kind == Pawn && squareOf(from).Col != squareOf(to).Col {
		victim := to + mailboxWidth
		if pc.Color == Black {
			victim = to - mailboxWidth
		}
		res.Captured = b.cells[victim].piece
		res.CapturedOn = squareOf(victim)
		res.EnPassant = true
		b.cells[victim].piece = Piece{}
	}

	b.cells[to].piece = pc
	b.cells[from].piece = Piece{}

	if pc.Kind == King {
		switch to - from {
		case 2:
			b.cells[from+1].piece = b.cells[from+3].piece
			b.cells[from+3].piece = Piece{}
			res.Castle = KingSide
		case -2:
			b.cells[from-1].piece = b.cells[from-4].piece
			b.cells[from-4].piece = Piece{}
			res.Castle = QueenSide
		}
	}

	if pc.Kind == Pawn && squareOf(to).Row == backRank(pc.Color.Opponent()) {
		if promo == NoKind {
			promo = Queen
		}
		b.cells[to].piece = Piece{Kind: promo, Color: pc.Color}
		res.Promotion = promo
	}

	for _, f := range CastleFlags {
		home := mailbox(f.homeSquare())
		if home == from || home == to {
			b.moved[f] = true
		}
	}
	return res
}

// Evaluate computes the status tag of the position for the side to move.
func (b *Board) Evaluate() Status {
	check := b.InCheck(b.side)
	moves := b.hasLegalMove()
	switch {
	case check && !moves:
		return StatusCheckmate
	case check:
		return StatusCheck
	case !moves:
		return StatusStalemate
	default:
		return StatusNone
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
