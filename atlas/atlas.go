// Package atlas loads and builds CP437 tile atlases.
//
// An atlas has one background strip holding a tile per palette color, and one
// foreground sheet per palette color. Each sheet holds all 256 glyphs in a 16x16
// grid. Tiles are fixed size and addressed by Metrics.
package atlas

import (
	"errors"
	"fmt"
	"image"

	"github.com/lixenwraith/tilecon/palette"
)

// GlyphColumns is the number of glyph columns per foreground sheet
const GlyphColumns = 16

// GlyphRows is the number of glyph rows per foreground sheet
const GlyphRows = 16

var (
	ErrAtlasSize = errors.New("atlas: image size does not match tile metrics")
	ErrMetrics   = errors.New("atlas: tile metrics must be positive")
)

// Metrics holds tile pixel dimensions
type Metrics struct {
	TileW int
	TileH int
}

// DefaultMetrics are 8x12 pixel tiles
var DefaultMetrics = Metrics{TileW: 8, TileH: 12}

// Valid reports whether both dimensions are positive
func (m Metrics) Valid() bool {
	return m.TileW > 0 && m.TileH > 0
}

// GlyphRect returns the source rectangle of a glyph within a foreground sheet
func (m Metrics) GlyphRect(ord byte) image.Rectangle {
	col := int(ord) % GlyphColumns
	row := int(ord) / GlyphColumns
	return image.Rect(col*m.TileW, row*m.TileH, (col+1)*m.TileW, (row+1)*m.TileH)
}

// BackgroundRect returns the source rectangle of a color within the background strip
func (m Metrics) BackgroundRect(bg palette.Color) image.Rectangle {
	x := int(bg) * m.TileW
	return image.Rect(x, 0, x+m.TileW, m.TileH)
}

// SheetSize returns the minimum pixel size of a foreground sheet
func (m Metrics) SheetSize() image.Point {
	return image.Pt(GlyphColumns*m.TileW, GlyphRows*m.TileH)
}

// StripSize returns the minimum pixel size of the background strip
func (m Metrics) StripSize() image.Point {
	return image.Pt(palette.Count*m.TileW, m.TileH)
}

// Atlas is an immutable set of tile images
type Atlas struct {
	Metrics
	Background image.Image
	Foreground [palette.Count]image.Image
}

// Validate checks every image is present and large enough for the metrics
func (a *Atlas) Validate() error {
	if !a.Metrics.Valid() {
		return ErrMetrics
	}
	if err := checkSize("background", a.Background, a.StripSize()); err != nil {
		return err
	}
	sheet := a.SheetSize()
	for i, img := range a.Foreground {
		if err := checkSize(fmt.Sprintf("foreground %d", i), img, sheet); err != nil {
			return err
		}
	}
	return nil
}

func checkSize(name string, img image.Image, want image.Point) error {
	if img == nil {
		return fmt.Errorf("%s: missing image: %w", name, ErrAtlasSize)
	}
	got := img.Bounds().Size()
	if got.X < want.X || got.Y < want.Y {
		return fmt.Errorf("%s: got %dx%d, need at least %dx%d: %w", name, got.X, got.Y, want.X, want.Y, ErrAtlasSize)
	}
	return nil
}
