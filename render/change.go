package render

import (
	"fmt"

	"github.com/lixenwraith/tilecon/palette"
)

// Change is one cell update for a frame, consumed once by Flip
type Change struct {
	Row   int
	Col   int
	BG    palette.Color
	FG    palette.Color
	Glyph byte
}

// String formats the change as the [row, col, bg, fg, ord] tuple
func (c Change) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d, %d]", c.Row, c.Col, c.BG, c.FG, c.Glyph)
}

// ChangeError reports changes skipped by Flip because they fell outside the grid or palette
type ChangeError struct {
	Skipped int
	First   Change
	Rows    int
	Cols    int
}

func (e *ChangeError) Error() string {
	return fmt.Sprintf("render: skipped %d invalid change(s), first %v on %dx%d grid", e.Skipped, e.First, e.Cols, e.Rows)
}
