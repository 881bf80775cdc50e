package tui

import (
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
)

// BoxOpts configures box rendering
type BoxOpts struct {
	// PaddingX, PaddingY are extra child padding inside the border
	PaddingX, PaddingY int

	BorderFG, BorderBG     palette.Color
	InteriorFG, InteriorBG palette.Color

	Type BoxType

	// Corners are only drawn where both adjoining sides are
	DrawTop, DrawBottom, DrawLeft, DrawRight bool
}

// DefaultBoxOpts returns a white double-line box on black with all sides drawn
func DefaultBoxOpts() BoxOpts {
	return BoxOpts{
		BorderFG:   palette.White,
		BorderBG:   palette.Black,
		InteriorFG: palette.White,
		InteriorBG: palette.Black,
		Type:       BoxDouble,
		DrawTop:    true,
		DrawBottom: true,
		DrawLeft:   true,
		DrawRight:  true,
	}
}

// Box is a Buffer with a border; child padding grows by 1 for the border
type Box struct {
	Buffer
	Opts BoxOpts
}

// NewBox creates a box of the given outer dimensions
func NewBox(width, height int, opts BoxOpts) *Box {
	b := &Box{Opts: opts}
	b.reset(width, height)
	b.PaddingX = opts.PaddingX + 1
	b.PaddingY = opts.PaddingY + 1
	b.paint()
	return b
}

// paint fills border and interior cells
func (b *Box) paint() {
	o := b.Opts
	bt := o.Type
	tl, tr, bl, br := bt.TL, bt.TR, bt.BL, bt.BR
	vertLeft, vertRight := bt.Vert, bt.Vert
	if !o.DrawLeft {
		vertLeft = bt.Blank
		tl, bl = bt.Horiz, bt.Horiz
	}
	if !o.DrawRight {
		vertRight = bt.Blank
		tr, br = bt.Horiz, bt.Horiz
	}

	border := func(g byte) terminal.Cell { return terminal.Cell{FG: o.BorderFG, BG: o.BorderBG, Glyph: g} }
	interior := terminal.Cell{FG: o.InteriorFG, BG: o.InteriorBG, Glyph: bt.Blank}

	edge := func(y int, left, right byte) {
		for x := 0; x < b.width; x++ {
			g := bt.Horiz
			switch x {
			case 0:
				g = left
			case b.width - 1:
				g = right
			}
			b.cells[y*b.width+x] = border(g)
		}
	}

	for y := 0; y < b.height; y++ {
		switch {
		case y == 0 && o.DrawTop:
			edge(y, tl, tr)
		case y == b.height-1 && o.DrawBottom:
			edge(y, bl, br)
		default:
			for x := 0; x < b.width; x++ {
				c := interior
				switch x {
				case 0:
					c = border(vertLeft)
				case b.width - 1:
					c = border(vertRight)
				}
				b.cells[y*b.width+x] = c
			}
		}
	}
	b.dirty = true
}

// interiorRows returns the first and one-past-last rows inside the border
func (b *Box) interiorRows() (int, int) {
	top, bottom := 0, b.height
	if b.Opts.DrawTop {
		top++
	}
	if b.Opts.DrawBottom {
		bottom--
	}
	return top, bottom
}
