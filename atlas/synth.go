package atlas

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/tilecon/cp437"
	"github.com/lixenwraith/tilecon/palette"
)

// Line weights for procedural box drawing
const (
	lineNone   uint8 = 0
	lineSingle uint8 = 1
	lineDouble uint8 = 2
)

// boxLines holds {up, right, down, left} weights for CP437 0xB3-0xDA
var boxLines = map[byte][4]uint8{
	0xb3: {1, 0, 1, 0}, 0xb4: {1, 0, 1, 1}, 0xb5: {1, 0, 1, 2}, 0xb6: {2, 0, 2, 1},
	0xb7: {0, 0, 2, 1}, 0xb8: {0, 0, 1, 2}, 0xb9: {2, 0, 2, 2}, 0xba: {2, 0, 2, 0},
	0xbb: {0, 0, 2, 2}, 0xbc: {2, 0, 0, 2}, 0xbd: {2, 0, 0, 1}, 0xbe: {1, 0, 0, 2},
	0xbf: {0, 0, 1, 1}, 0xc0: {1, 1, 0, 0}, 0xc1: {1, 1, 0, 1}, 0xc2: {0, 1, 1, 1},
	0xc3: {1, 1, 1, 0}, 0xc4: {0, 1, 0, 1}, 0xc5: {1, 1, 1, 1}, 0xc6: {1, 2, 1, 0},
	0xc7: {2, 1, 2, 0}, 0xc8: {2, 2, 0, 0}, 0xc9: {0, 2, 2, 0}, 0xca: {2, 2, 0, 2},
	0xcb: {0, 2, 2, 2}, 0xcc: {2, 2, 2, 0}, 0xcd: {0, 2, 0, 2}, 0xce: {2, 2, 2, 2},
	0xcf: {1, 2, 0, 2}, 0xd0: {2, 1, 0, 1}, 0xd1: {0, 2, 1, 2}, 0xd2: {0, 1, 2, 1},
	0xd3: {2, 1, 0, 0}, 0xd4: {1, 2, 0, 0}, 0xd5: {0, 2, 1, 0}, 0xd6: {0, 1, 2, 0},
	0xd7: {2, 1, 2, 1}, 0xd8: {1, 2, 1, 2}, 0xd9: {1, 0, 0, 1}, 0xda: {0, 1, 1, 0},
}

// Synthesize builds an atlas in memory from the basicfont face and the palette.
// Box, block and shade glyphs are drawn procedurally to fill the tile edge to edge.
func Synthesize(m Metrics, pal palette.Palette) *Atlas {
	if !m.Valid() {
		m = DefaultMetrics
	}
	a := &Atlas{Metrics: m}

	strip := image.NewRGBA(image.Rectangle{Max: m.StripSize()})
	for c := palette.Color(0); c < palette.Count; c++ {
		draw.Draw(strip, m.BackgroundRect(c), image.NewUniform(pal.At(c).RGBA()), image.Point{}, draw.Src)
	}
	a.Background = strip

	for c := palette.Color(0); c < palette.Count; c++ {
		a.Foreground[c] = glyphSheet(m, pal.At(c).RGBA())
	}
	return a
}

// glyphSheet renders all 256 glyphs in one color onto a transparent sheet
func glyphSheet(m Metrics, fg color.RGBA) *image.RGBA {
	sheet := image.NewRGBA(image.Rectangle{Max: m.SheetSize()})
	src := image.NewUniform(fg)
	face := basicfont.Face7x13

	// Baseline sits so the ascent fits the tile; descenders clip on short tiles
	baseline := m.TileH - face.Descent
	if baseline > face.Ascent+1 {
		baseline = face.Ascent + 1
	}
	xoff := (m.TileW - face.Advance) / 2
	if xoff < 0 {
		xoff = 0
	}

	for i := 0; i < GlyphColumns*GlyphRows; i++ {
		ord := byte(i)
		r := m.GlyphRect(ord)
		tile := sheet.SubImage(r).(*image.RGBA)

		if drawBlockGlyph(tile, r, ord, fg) {
			continue
		}

		d := font.Drawer{
			Dst:  tile,
			Src:  src,
			Face: face,
			Dot:  fixed.P(r.Min.X+xoff, r.Min.Y+baseline),
		}
		d.DrawString(string(cp437.Rune(ord)))
	}
	return sheet
}

// drawBlockGlyph draws shades, blocks and box lines; false if ord is none of those
func drawBlockGlyph(tile *image.RGBA, r image.Rectangle, ord byte, fg color.RGBA) bool {
	w, h := r.Dx(), r.Dy()
	set := func(x, y int) {
		if x >= 0 && x < w && y >= 0 && y < h {
			tile.SetRGBA(r.Min.X+x, r.Min.Y+y, fg)
		}
	}
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				set(x, y)
			}
		}
	}

	switch ord {
	case 0xb0, 0xb1, 0xb2:
		// Light, medium, dark shade as ordered dither
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				k := (x + 2*y) % 4
				if (ord == 0xb0 && k == 0) || (ord == 0xb1 && k%2 == 0) || (ord == 0xb2 && k != 3) {
					set(x, y)
				}
			}
		}
	case 0xdb:
		fill(0, 0, w, h)
	case 0xdc:
		fill(0, h/2, w, h)
	case 0xdd:
		fill(0, 0, w/2, h)
	case 0xde:
		fill(w/2, 0, w, h)
	case 0xdf:
		fill(0, 0, w, h/2)
	default:
		lines, ok := boxLines[ord]
		if !ok {
			return false
		}
		drawBoxLines(lines, w, h, set)
	}
	return true
}

// drawBoxLines draws up/right/down/left segments from the tile center to its edges
func drawBoxLines(lines [4]uint8, w, h int, set func(x, y int)) {
	cx, cy := w/2, h/2
	offsets := func(weight uint8) []int {
		switch weight {
		case lineNone:
			return nil
		case lineSingle:
			return []int{0}
		case lineDouble:
			return []int{-1, 1}
		}
		return nil
	}

	for _, dx := range offsets(lines[0]) {
		for y := 0; y <= cy; y++ {
			set(cx+dx, y)
		}
	}
	for _, dy := range offsets(lines[1]) {
		for x := cx; x < w; x++ {
			set(x, cy+dy)
		}
	}
	for _, dx := range offsets(lines[2]) {
		for y := cy; y < h; y++ {
			set(cx+dx, y)
		}
	}
	for _, dy := range offsets(lines[3]) {
		for x := 0; x <= cx; x++ {
			set(x, cy+dy)
		}
	}
}
