package archive

import (
	"fmt"
	"strings"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"github.com/park285/btch-engine/internal/domain"
)

// Annotation is what the archive derives from the coordinate move list.
type Annotation struct {
	SAN     []string
	ECO     string
	Opening string
}

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

func openingBook() *opening.BookECO {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	return ecoBook
}

// Annotate converts coordinate descriptors to standard algebraic notation and names
// the opening. Replay stops at the first descriptor the notation library rejects and
// the rest keep their coordinate form, so the archive never loses moves.
func Annotate(moves []string) Annotation {
	out := make([]string, len(moves))
	g := nchess.NewGame()
	uci := nchess.UCINotation{}
	san := nchess.AlgebraicNotation{}
	ok := true
	for i, raw := range moves {
		desc := strings.ToLower(strings.TrimSpace(raw))
		out[i] = desc
		if !ok {
			continue
		}
		pos := g.Position()
		mv, err := uci.Decode(pos, desc)
		if err != nil {
			ok = false
			continue
		}
		if err := g.Move(mv, nil); err != nil {
			ok = false
			continue
		}
		out[i] = san.Encode(pos, mv)
	}
	a := Annotation{SAN: out}
	if book := openingBook(); book != nil && len(g.Moves()) > 0 {
		if eco := book.Find(g.Moves()); eco != nil {
			a.ECO, a.Opening = eco.Code(), eco.Title()
		}
	}
	return a
}

// SANMoves is Annotate without the opening lookup result.
func SANMoves(moves []string) []string { return Annotate(moves).SAN }

func mapResultToPGN(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}

func buildPGN(r domain.GameResult, a Annotation) string {
	sanMoves := a.SAN
	pgnResult := mapResultToPGN(r.Result)
	var b strings.Builder
	date := r.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	b.WriteString("[Event \"Casual game\"]\n")
	b.WriteString("[Site \"btch\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitizePGN(r.WhiteID)))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitizePGN(r.BlackID)))
	if a.ECO != "" {
		b.WriteString(fmt.Sprintf("[ECO \"%s\"]\n", sanitizePGN(a.ECO)))
		b.WriteString(fmt.Sprintf("[Opening \"%s\"]\n", sanitizePGN(a.Opening)))
	}
	if strings.TrimSpace(r.Method) != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitizePGN(strings.ToLower(r.Method))))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", pgnResult))

	for i := 0; i < len(sanMoves); i += 2 {
		b.WriteString(fmt.Sprintf("%d. %s", i/2+1, strings.TrimSpace(sanMoves[i])))
		if i+1 < len(sanMoves) {
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(sanMoves[i+1]))
		}
		b.WriteString(" ")
	}
	b.WriteString(pgnResult)
	return b.String()
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
