package chess

type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Letter is the single-character colour code used in snapshot tokens.
func (c Color) Letter() byte {
	switch c {
	case White:
		return 'w'
	case Black:
		return 'b'
	default:
		return '-'
	}
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return NoColor, false
	}
}

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return '-'
	}
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

func KindFromLetter(b byte) (Kind, bool) {
	switch b {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	default:
		return NoKind, false
	}
}

// Piece is comparable; the zero value means an empty square.
type Piece struct {
	Kind  Kind
	Color Color
}

func (p Piece) IsZero() bool { return p.Kind == NoKind }

// Code returns the two-letter token ("pw", "kb"), or "" for an empty square.
func (p Piece) Code() string {
	if p.IsZero() {
		return ""
	}
	return string([]byte{p.Kind.Letter(), p.Color.Letter()})
}

// ParsePiece is the inverse of Code for non-empty pieces.
func ParsePiece(code string) (Piece, bool) {
	if len(code) != 2 {
		return Piece{}, false
	}
	kind, ok := KindFromLetter(code[0])
	if !ok {
		return Piece{}, false
	}
	var color Color
	switch code[1] {
	case 'w':
		color = White
	case 'b':
		color = Black
	default:
		return Piece{}, false
	}
	return Piece{Kind: kind, Color: color}, true
}
