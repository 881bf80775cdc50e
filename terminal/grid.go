package terminal

import (
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/render"
)

// blankCell is what Clear leaves behind: black on black space
var blankCell = Cell{FG: palette.Black, BG: palette.Black, Glyph: ' '}

// grid is the shadow copy of what the backend currently shows, used to turn
// buffer draws into a minimal change list
type grid struct {
	cells  []Cell
	width  int
	height int
}

// newGrid creates a blank grid
func newGrid(width, height int) *grid {
	g := &grid{}
	g.resize(width, height)
	return g
}

// resize adjusts dimensions, reallocating only if capacity is insufficient
func (g *grid) resize(width, height int) {
	size := width * height
	if cap(g.cells) < size {
		g.cells = make([]Cell, size)
	} else {
		g.cells = g.cells[:size]
	}
	g.width = width
	g.height = height
	g.clear()
}

// clear resets all cells to blank using exponential copy
func (g *grid) clear() {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = blankCell
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

func (g *grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// at returns the cell at (x, y); caller checks bounds
func (g *grid) at(x, y int) Cell {
	return g.cells[y*g.width+x]
}

// set stores c at (x, y) and appends a change if the cell differs
func (g *grid) set(x, y int, c Cell, changes []render.Change) []render.Change {
	idx := y*g.width + x
	if g.cells[idx] == c {
		return changes
	}
	g.cells[idx] = c
	return append(changes, render.Change{Row: y, Col: x, BG: c.BG, FG: c.FG, Glyph: c.Glyph})
}
