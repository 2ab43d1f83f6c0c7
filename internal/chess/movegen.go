package chess

import "sort"

var (
	knightSteps   = [...]int{-25, -23, -14, -10, 10, 14, 23, 25}
	kingSteps     = [...]int{-13, -12, -11, -1, 1, 11, 12, 13}
	bishopSteps   = [...]int{-13, -11, 11, 13}
	rookSteps     = [...]int{-12, -1, 1, 12}
	pawnStartRow  = map[Color]int{White: 6, Black: 1}
	pawnEPRow     = map[Color]int{White: 3, Black: 4}
	pawnDirection = map[Color]int{White: -mailboxWidth, Black: mailboxWidth}
)

// Move is a from/to pair. Promotion is only set when the caller requests a piece.
type Move struct {
	From      Square
	To        Square
	Promotion Kind
}

func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

// LegalDestinations returns the squares the piece on from may move to, sorted by row
// then column. Empty squares and pieces of the side not to move yield nil.
func (b *Board) LegalDestinations(from Square) []Square {
	if !from.Valid() || b.status.Terminal() {
		return nil
	}
	idx := mailbox(from)
	pc := b.cells[idx].piece
	if pc.IsZero() || pc.Color != b.side {
		return nil
	}
	var out []Square
	for _, to := range b.pseudoMoves(idx) {
		if b.leavesKingSafe(idx, to) {
			out = append(out, squareOf(to))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// LegalMoves lists every legal move for the side to move. Promotions are reported
// once, without a piece.
func (b *Board) LegalMoves() []Move {
	var out []Move
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := Square{Row: row, Col: col}
			for _, to := range b.LegalDestinations(from) {
				out = append(out, Move{From: from, To: to})
			}
		}
	}
	return out
}

func (b *Board) hasLegalMove() bool {
	for i := range b.cells {
		pc := b.cells[i].piece
		if pc.IsZero() || pc.Color != b.side {
			continue
		}
		for _, to := range b.pseudoMoves(i) {
			if b.leavesKingSafe(i, to) {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether c's king is attacked.
func (b *Board) InCheck(c Color) bool {
	k := b.KingSquare(c)
	if k == NoSquare {
		return false
	}
	return b.IsAttacked(k, c.Opponent())
}

// IsAttacked reports whether any piece of colour by attacks sq.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}
	return b.attacked(mailbox(sq), by)
}

func (b *Board) attacked(idx int, by Color) bool {
	for _, d := range knightSteps {
		if p := b.cells[idx+d].piece; p.Kind == Knight && p.Color == by {
			return true
		}
	}
	for _, d := range kingSteps {
		if p := b.cells[idx+d].piece; p.Kind == King && p.Color == by {
			return true
		}
	}
	if b.rayHits(idx, rookSteps[:], by, Rook) || b.rayHits(idx, bishopSteps[:], by, Bishop) {
		return true
	}
	// A pawn of colour by attacks idx from one row behind its direction of travel.
	back := -pawnDirection[by]
	for _, side := range [...]int{-1, 1} {
		if p := b.cells[idx+back+side].piece; p.Kind == Pawn && p.Color == by {
			return true
		}
	}
	return false
}

func (b *Board) rayHits(idx int, steps []int, by Color, slider Kind) bool {
	for _, d := range steps {
		for t := idx + d; !b.cells[t].off; t += d {
			p := b.cells[t].piece
			if p.IsZero() {
				continue
			}
			if p.Color == by && (p.Kind == slider || p.Kind == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// pseudoMoves returns destination indices that obey piece movement but may expose
// the mover's own king.
func (b *Board) pseudoMoves(idx int) []int {
	pc := b.cells[idx].piece
	var out []int
	switch pc.Kind {
	case Pawn:
		out = b.pawnMoves(idx, pc.Color)
	case Knight:
		out = b.stepMoves(idx, pc.Color, knightSteps[:])
	case Bishop:
		out = b.slideMoves(idx, pc.Color, bishopSteps[:])
	case Rook:
		out = b.slideMoves(idx, pc.Color, rookSteps[:])
	case Queen:
		out = b.slideMoves(idx, pc.Color, rookSteps[:])
		out = append(out, b.slideMoves(idx, pc.Color, bishopSteps[:])...)
	case King:
		out = b.stepMoves(idx, pc.Color, kingSteps[:])
		out = append(out, b.castleMoves(idx, pc.Color)...)
	}
	return out
}

func (b *Board) stepMoves(idx int, c Color, steps []int) []int {
	var out []int
	for _, d := range steps {
		t := idx + d
		if b.cells[t].off {
			continue
		}
		if p := b.cells[t].piece; p.IsZero() || p.Color != c {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) slideMoves(idx int, c Color, steps []int) []int {
	var out []int
	for _, d := range steps {
		for t := idx + d; !b.cells[t].off; t += d {
			p := b.cells[t].piece
			if p.IsZero() {
				out = append(out, t)
				continue
			}
			if p.Color != c {
				out = append(out, t)
			}
			break
		}
	}
	return out
}

func (b *Board) pawnMoves(idx int, c Color) []int {
	var out []int
	dir := pawnDirection[c]
	from := squareOf(idx)

	one := idx + dir
	if !b.cells[one].off && b.cells[one].piece.IsZero() {
		out = append(out, one)
		two := one + dir
		if from.Row == pawnStartRow[c] && b.cells[two].piece.IsZero() {
			out = append(out, two)
		}
	}
	for _, side := range [...]int{-1, 1} {
		t := idx + dir + side
		if b.cells[t].off {
			continue
		}
		if p := b.cells[t].piece; !p.IsZero() && p.Color != c {
			out = append(out, t)
			continue
		}
		// En passant is only open on the ply right after the double step.
		if from.Row == pawnEPRow[c] && squareOf(t).Col == b.epFile {
			if p := b.cells[idx+side].piece; p.Kind == Pawn && p.Color == c.Opponent() {
				out = append(out, t)
			}
		}
	}
	return out
}

func (b *Board) castleMoves(idx int, c Color) []int {
	home := mailbox(Square{Row: backRank(c), Col: 4})
	if idx != home || b.moved[kingFlag(c)] {
		return nil
	}
	enemy := c.Opponent()
	if b.attacked(idx, enemy) {
		return nil
	}
	rook := Piece{Kind: Rook, Color: c}
	var out []int
	if !b.moved[rookFlag(c, KingSide)] && b.cells[idx+3].piece == rook &&
		b.cells[idx+1].piece.IsZero() && b.cells[idx+2].piece.IsZero() &&
		!b.attacked(idx+1, enemy) && !b.attacked(idx+2, enemy) {
		out = append(out, idx+2)
	}
	if !b.moved[rookFlag(c, QueenSide)] && b.cells[idx-4].piece == rook &&
		b.cells[idx-1].piece.IsZero() && b.cells[idx-2].piece.IsZero() && b.cells[idx-3].piece.IsZero() &&
		!b.attacked(idx-1, enemy) && !b.attacked(idx-2, enemy) {
		out = append(out, idx-2)
	}
	return out
}

func (b *Board) leavesKingSafe(from, to int) bool {
	next := *b
	mover := next.cells[from].piece.Color
	next.play(from, to, NoKind)
	return !next.InCheck(mover)
}
