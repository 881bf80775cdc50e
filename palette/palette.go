// Package palette defines the sixteen console colors used to index tile atlases.
//
// Color values follow DOS/CGA ordering (1 is blue, 4 is red), not the ANSI SGR order.
// An atlas holds one background tile and one glyph sheet per color, so a Color is
// also a tile index.
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a 4-bit console color index
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// Count is the number of palette entries
const Count = 16

// Alternate spellings
const (
	LightGray = LightGrey
	DarkGray  = DarkGrey
)

var colorNames = [Count]string{
	"BLACK", "BLUE", "GREEN", "CYAN", "RED", "MAGENTA", "BROWN", "LIGHTGREY",
	"DARKGREY", "LIGHTBLUE", "LIGHTGREEN", "LIGHTCYAN", "LIGHTRED", "LIGHTMAGENTA", "YELLOW", "WHITE",
}

// Valid reports whether c indexes a palette entry
func (c Color) Valid() bool {
	return c < Count
}

// String returns the uppercase color name used in rich text markup
func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColor resolves a color name, case-insensitive, accepting GRAY and GREY spellings
func ParseColor(name string) (Color, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "GRAY", "GREY")
	for i, cn := range colorNames {
		if cn == n {
			return Color(i), true
		}
	}
	return Black, false
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBA converts to an opaque color.RGBA
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Palette maps console colors to RGB
type Palette [Count]RGB

// Default holds the standard VGA text-mode values
var Default = Palette{
	Black:        {0x00, 0x00, 0x00},
	Blue:         {0x00, 0x00, 0xaa},
	Green:        {0x00, 0xaa, 0x00},
	Cyan:         {0x00, 0xaa, 0xaa},
	Red:          {0xaa, 0x00, 0x00},
	Magenta:      {0xaa, 0x00, 0xaa},
	Brown:        {0xaa, 0x55, 0x00},
	LightGrey:    {0xaa, 0xaa, 0xaa},
	DarkGrey:     {0x55, 0x55, 0x55},
	LightBlue:    {0x55, 0x55, 0xff},
	LightGreen:   {0x55, 0xff, 0x55},
	LightCyan:    {0x55, 0xff, 0xff},
	LightRed:     {0xff, 0x55, 0x55},
	LightMagenta: {0xff, 0x55, 0xff},
	Yellow:       {0xff, 0xff, 0x55},
	White:        {0xff, 0xff, 0xff},
}

// At returns the RGB value for c, black for out-of-range indices
func (p *Palette) At(c Color) RGB {
	if !c.Valid() {
		return p[Black]
	}
	return p[c]
}
