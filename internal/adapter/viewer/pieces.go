package viewer

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"gopkg.in/yaml.v3"

	"github.com/park285/btch-engine/internal/chess"
)

//go:embed assets/pieces.yaml
var pieceCatalogYAML []byte

type pieceStyle struct {
	Fill   string `yaml:"fill"`
	Stroke string `yaml:"stroke"`
}

type pieceCatalog struct {
	ViewBox     float64           `yaml:"viewbox"`
	StrokeWidth float64           `yaml:"stroke_width"`
	White       pieceStyle        `yaml:"white"`
	Black       pieceStyle        `yaml:"black"`
	Paths       map[string]string `yaml:"paths"`
}

var (
	catalogOnce sync.Once
	catalog     pieceCatalog
	catalogErr  error
)

func loadPieceCatalog() (pieceCatalog, error) {
	catalogOnce.Do(func() {
		catalogErr = yaml.Unmarshal(pieceCatalogYAML, &catalog)
		if catalogErr == nil && catalog.ViewBox <= 0 {
			catalogErr = fmt.Errorf("piece catalog: viewbox must be positive")
		}
	})
	return catalog, catalogErr
}

// pieceSVG builds a standalone SVG document for p.
func pieceSVG(cat pieceCatalog, p chess.Piece) ([]byte, error) {
	path, ok := cat.Paths[p.Kind.String()]
	if !ok {
		return nil, fmt.Errorf("piece catalog: no outline for %s", p.Kind)
	}
	style := cat.White
	if p.Color == chess.Black {
		style = cat.Black
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`,
		cat.ViewBox, cat.ViewBox, cat.ViewBox, cat.ViewBox)
	fmt.Fprintf(&buf, `<path d="%s" fill="%s" stroke="%s" stroke-width="%g" stroke-linejoin="round" stroke-linecap="round"/>`,
		path, style.Fill, style.Stroke, cat.StrokeWidth)
	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

type pieceCacheKey struct {
	piece chess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func renderPieceImage(p chess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: p, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	cat, err := loadPieceCatalog()
	if err != nil {
		return nil, err
	}
	data, err := pieceSVG(cat, p)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}
