package tui

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
)

var (
	ErrMalformedData = errors.New("tui: malformed buffer data")
	ErrOutOfRange    = errors.New("tui: cell out of range")
)

// blank is the initial cell of every buffer
var blank = terminal.Cell{FG: palette.Black, BG: palette.Black, Glyph: ' '}

// Target receives drawable blocks; terminal.Terminal satisfies it
type Target interface {
	DrawBuffer(src terminal.Drawable, x, y int)
}

// Node is anything that can be drawn as a child of a Buffer
type Node interface {
	DrawAt(t Target, xoff, yoff int, dirty bool)
}

// CellUpdate changes the non-nil fields of a cell
type CellUpdate struct {
	Glyph *byte
	FG    *palette.Color
	BG    *palette.Color
}

// Glyph, FG and BG build single-field updates
func Glyph(g byte) CellUpdate       { return CellUpdate{Glyph: &g} }
func FG(c palette.Color) CellUpdate { return CellUpdate{FG: &c} }
func BG(c palette.Color) CellUpdate { return CellUpdate{BG: &c} }

// Buffer is a rectangular block of cells with relatively positioned children,
// which are drawn after (on top of) the parent
type Buffer struct {
	width  int
	height int
	cells  []terminal.Cell // row-major

	// X, Y offset from the parent's padded origin, or from (0, 0) when drawn directly
	X, Y int

	// PaddingX, PaddingY shift children inward
	PaddingX, PaddingY int

	Children []Node

	dirty bool
}

// NewBuffer creates a width x height buffer of black-on-black spaces
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.reset(width, height)
	return b
}

// reset reallocates cells as blanks and dirties the buffer
func (b *Buffer) reset(width, height int) {
	width, height = max(width, 0), max(height, 0)
	b.width, b.height = width, height
	b.cells = make([]terminal.Cell, width*height)
	for i := range b.cells {
		b.cells[i] = blank
	}
	b.dirty = true
}

// SetData replaces the buffer contents. rows must hold at least Height rows of at
// least Width cells; extra cells are ignored
func (b *Buffer) SetData(rows [][]terminal.Cell) error {
	if len(rows) < b.height {
		return fmt.Errorf("%w: %d rows, but a height of %d", ErrMalformedData, len(rows), b.height)
	}
	for y, row := range rows[:b.height] {
		if len(row) < b.width {
			return fmt.Errorf("%w: row %d has %d cells, but a width of %d", ErrMalformedData, y, len(row), b.width)
		}
	}
	for y, row := range rows[:b.height] {
		copy(b.cells[y*b.width:(y+1)*b.width], row)
	}
	b.dirty = true
	return nil
}

// setRows resizes the buffer to fit rows exactly; rows must be rectangular
func (b *Buffer) setRows(rows [][]terminal.Cell) {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	b.width, b.height = width, len(rows)
	b.cells = b.cells[:0]
	for _, row := range rows {
		b.cells = append(b.cells, row...)
	}
	b.dirty = true
}

// SetAt modifies the cell at (x, y) and dirties the buffer
func (b *Buffer) SetAt(x, y int, u CellUpdate) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, x, y, b.width, b.height)
	}
	c := &b.cells[y*b.width+x]
	if u.FG != nil {
		c.FG = *u.FG
	}
	if u.BG != nil {
		c.BG = *u.BG
	}
	if u.Glyph != nil {
		c.Glyph = *u.Glyph
	}
	b.dirty = true
	return nil
}

// Move sets the offset and dirties the buffer
func (b *Buffer) Move(x, y int) {
	b.X, b.Y = x, y
	b.dirty = true
}

// Size implements terminal.Drawable
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// CellAt implements terminal.Drawable
func (b *Buffer) CellAt(x, y int) terminal.Cell {
	return b.cells[y*b.width+x]
}

// MarkClean implements terminal.Drawable
func (b *Buffer) MarkClean() { b.dirty = false }

// MarkDirty forces the next draw
func (b *Buffer) MarkDirty() { b.dirty = true }

// Dirty reports whether the buffer changed since it was last drawn
func (b *Buffer) Dirty() bool { return b.dirty }

// InnerWidth is the width available to children
func (b *Buffer) InnerWidth() int { return b.width - 2*b.PaddingX }

// InnerHeight is the height available to children
func (b *Buffer) InnerHeight() int { return b.height - 2*b.PaddingY }

// Draw draws the buffer and its children with no parent offset
func (b *Buffer) Draw(t Target) {
	b.DrawAt(t, 0, 0, false)
}

// DrawAt draws the buffer if it or an ancestor is dirty, then its children at
// the padded origin
func (b *Buffer) DrawAt(t Target, xoff, yoff int, dirty bool) {
	xoff += b.X
	yoff += b.Y
	dirty = dirty || b.dirty

	if dirty {
		t.DrawBuffer(b, xoff, yoff)
		b.dirty = false
	}

	for _, child := range b.Children {
		child.DrawAt(t, xoff+b.PaddingX, yoff+b.PaddingY, dirty)
	}
}
