package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
)

const (
	testCols = 120
	testRows = 60
)

func newTestTerminal(t *testing.T) terminal.Terminal {
	t.Helper()
	opts := terminal.DefaultOptions()
	opts.Backend = "image"
	opts.Rows, opts.Cols = testRows, testCols
	term, err := terminal.New(opts)
	require.NoError(t, err)
	require.NoError(t, term.Init())
	t.Cleanup(term.Fini)
	return term
}

func glyphAt(t *testing.T, term terminal.Terminal, x, y int) terminal.Cell {
	t.Helper()
	c, err := term.GetAt(x, y)
	require.NoError(t, err)
	return c
}

// recorder is a Target that records draw positions
type recorder struct {
	draws [][2]int
}

func (r *recorder) DrawBuffer(src terminal.Drawable, x, y int) {
	r.draws = append(r.draws, [2]int{x, y})
	src.MarkClean()
}

func TestPlainTextSetFormat(t *testing.T) {
	txt := NewPlainText("abcdef", DefaultTextOpts())
	assert.Equal(t, "abcdef", txt.Message)
	assert.Equal(t, "abcdef", txt.BaseMessage)

	txt.Set("abcdef %s")
	assert.Equal(t, "abcdef %s", txt.Message)
	assert.Equal(t, "abcdef %s", txt.BaseMessage)

	txt.Format("hats!")
	assert.Equal(t, "abcdef hats!", txt.Message)
	assert.Equal(t, "abcdef %s", txt.BaseMessage)

	w, h := txt.Size()
	assert.Equal(t, len("abcdef hats!"), w)
	assert.Equal(t, 1, h)
}

func TestPlainTextCenterAndCrop(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		centerTo int
		maxWidth int
		want     string
	}{
		{"plain", "ab", 0, 0, "ab"},
		{"center even", "ab", 6, 0, "  ab  "},
		{"center odd margin", "ab", 5, 0, "  ab "},
		{"center odd", "abc", 6, 0, " abc  "},
		{"crop", "abcdef", 0, 3, "abc"},
		{"center then crop", "ab", 6, 3, "  a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultTextOpts()
			opts.CenterTo, opts.MaxWidth = tt.centerTo, tt.maxWidth
			txt := NewPlainText(tt.msg, opts)

			w, _ := txt.Size()
			got := make([]byte, w)
			for x := range got {
				got[x] = txt.CellAt(x, 0).Glyph
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestPlainTextDraw(t *testing.T) {
	term := newTestTerminal(t)
	txt := NewPlainText("abcdef", DefaultTextOpts())
	for i := 0; i < 10; i++ {
		txt.Move(i, i)
		txt.Draw(term)
	}
	require.NoError(t, term.Flip())

	assert.Equal(t, byte('a'), glyphAt(t, term, 0, 0).Glyph)
	assert.Equal(t, byte('b'), glyphAt(t, term, 1, 0).Glyph)
	assert.Equal(t, byte('c'), glyphAt(t, term, 4, 2).Glyph)
	assert.Equal(t, palette.LightGrey, glyphAt(t, term, 4, 2).FG)
}

func TestRichTextMarkup(t *testing.T) {
	rt := NewRichText("a<RED>b<GREEN>c</>d</>e", DefaultTextOpts())
	w, h := rt.Size()
	require.Equal(t, 5, w)
	require.Equal(t, 1, h)

	want := []palette.Color{palette.LightGrey, palette.Red, palette.Green, palette.Red, palette.LightGrey}
	for x, fg := range want {
		assert.Equal(t, fg, rt.CellAt(x, 0).FG, "cell %d", x)
	}
}

func TestRichTextRows(t *testing.T) {
	opts := DefaultTextOpts()
	opts.BG = palette.Blue
	rt := NewRichText("abc\nd\n", opts)

	w, h := rt.Size()
	require.Equal(t, 3, w)
	require.Equal(t, 2, h, "trailing newline is stripped")

	pad := rt.CellAt(2, 1)
	assert.Equal(t, byte(' '), pad.Glyph)
	assert.Equal(t, palette.Blue, pad.BG)
}

func TestRichTextWrap(t *testing.T) {
	opts := DefaultTextOpts()
	opts.WrapTo = 4
	rt := NewRichText("abcdefghij", opts)

	w, h := rt.Size()
	require.Equal(t, 4, w)
	require.Equal(t, 3, h)
	assert.Equal(t, byte('e'), rt.CellAt(0, 1).Glyph)
	assert.Equal(t, byte('j'), rt.CellAt(1, 2).Glyph)
	assert.Equal(t, byte(' '), rt.CellAt(2, 2).Glyph)
}

func TestRichTextUnknownTag(t *testing.T) {
	rt := NewRichText("a<NOPE>b", DefaultTextOpts())
	w, _ := rt.Size()
	assert.Equal(t, len("a<NOPE>b"), w)
}

func TestRichTextStrayBracket(t *testing.T) {
	rt := NewRichText("1 < 2 <GREEN>ok</>", DefaultTextOpts())
	w, _ := rt.Size()
	require.Equal(t, len("1 < 2 ok"), w)

	got := make([]byte, w)
	for x := range got {
		got[x] = rt.CellAt(x, 0).Glyph
	}
	assert.Equal(t, "1 < 2 ok", string(got))
	assert.Equal(t, palette.Green, rt.CellAt(6, 0).FG)
}

func TestBoxBorders(t *testing.T) {
	term := newTestTerminal(t)
	box := NewBox(4, 4, DefaultBoxOpts())
	box.Move(10, 10)
	box.Draw(term)
	require.NoError(t, term.Flip())

	assert.Equal(t, byte(' '), glyphAt(t, term, 9, 9).Glyph)
	assert.Equal(t, byte(' '), glyphAt(t, term, 11, 11).Glyph)
	assert.Equal(t, byte(' '), glyphAt(t, term, 15, 15).Glyph)

	assert.Equal(t, BoxDouble.TL, glyphAt(t, term, 10, 10).Glyph)
	assert.Equal(t, BoxDouble.BR, glyphAt(t, term, 13, 13).Glyph)
	assert.Equal(t, BoxDouble.Horiz, glyphAt(t, term, 11, 10).Glyph)
	assert.Equal(t, BoxDouble.Vert, glyphAt(t, term, 10, 11).Glyph)
	assert.Equal(t, 1, box.PaddingX)
	assert.Equal(t, 2, box.InnerWidth())
}

func TestBoxMissingSides(t *testing.T) {
	term := newTestTerminal(t)
	opts := DefaultBoxOpts()
	opts.BorderFG, opts.BorderBG = palette.Red, palette.LightRed
	opts.InteriorBG = palette.DarkGrey
	opts.DrawLeft, opts.DrawTop = false, false

	box := NewBox(6, 6, opts)
	box.Move(6, 6)
	box.Draw(term)
	require.NoError(t, term.Flip())

	// No top row: the first row is interior
	c := glyphAt(t, term, 7, 6)
	assert.Equal(t, byte(' '), c.Glyph)
	assert.Equal(t, palette.DarkGrey, c.BG)

	// Left column is blank border
	c = glyphAt(t, term, 6, 8)
	assert.Equal(t, byte(' '), c.Glyph)
	assert.Equal(t, palette.LightRed, c.BG)

	// Bottom-left corner becomes a horizontal line
	assert.Equal(t, BoxDouble.Horiz, glyphAt(t, term, 6, 11).Glyph)

	c = glyphAt(t, term, 11, 11)
	assert.Equal(t, BoxDouble.BR, c.Glyph)
	assert.Equal(t, palette.Red, c.FG)
	assert.Equal(t, palette.LightRed, c.BG)
}

func TestBufferSetAt(t *testing.T) {
	b := NewBuffer(3, 2)
	b.MarkClean()

	require.NoError(t, b.SetAt(1, 1, Glyph('x')))
	require.NoError(t, b.SetAt(1, 1, FG(palette.Yellow)))
	assert.True(t, b.Dirty())

	c := b.CellAt(1, 1)
	assert.Equal(t, byte('x'), c.Glyph)
	assert.Equal(t, palette.Yellow, c.FG)
	assert.Equal(t, palette.Black, c.BG)

	err := b.SetAt(3, 0, Glyph('y'))
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestBufferSetData(t *testing.T) {
	b := NewBuffer(2, 2)
	cell := terminal.Cell{FG: palette.White, BG: palette.Blue, Glyph: '#'}

	err := b.SetData([][]terminal.Cell{{cell, cell}})
	assert.True(t, errors.Is(err, ErrMalformedData), "too few rows")

	err = b.SetData([][]terminal.Cell{{cell, cell}, {cell}})
	assert.True(t, errors.Is(err, ErrMalformedData), "short row")

	require.NoError(t, b.SetData([][]terminal.Cell{{cell, cell, cell}, {cell, cell}}))
	assert.Equal(t, cell, b.CellAt(1, 1))
}

func TestChildrenDrawAtPaddedOffset(t *testing.T) {
	parent := NewBox(10, 5, DefaultBoxOpts())
	parent.Move(3, 4)
	child := NewPlainText("hi", DefaultTextOpts())
	child.Move(1, 0)
	parent.Children = []Node{child}

	rec := &recorder{}
	parent.Draw(rec)
	require.Len(t, rec.draws, 2)
	assert.Equal(t, [2]int{3, 4}, rec.draws[0])
	assert.Equal(t, [2]int{3 + 1 + 1, 4 + 1}, rec.draws[1])

	// Clean tree draws nothing
	rec.draws = nil
	parent.Draw(rec)
	assert.Empty(t, rec.draws)

	// Dirty parent redraws clean children too
	parent.MarkDirty()
	parent.Draw(rec)
	assert.Len(t, rec.draws, 2)
}

func TestMessageBoxScrolling(t *testing.T) {
	term := newTestTerminal(t)
	box := NewMessageBox(20, 20, DefaultBoxOpts())
	box.Move(5, 5)

	add := func(msg string, scroll bool) {
		box.Add(msg, scroll)
		box.Draw(term)
		require.NoError(t, term.Flip())
	}
	at := func(x, y int) byte { return glyphAt(t, term, x, y).Glyph }

	add("a<RED>A", true)
	add("bb", true)
	add("ccc", true)
	add("dddd", true)
	assert.Equal(t, BoxDouble.TL, at(5, 5))
	assert.Equal(t, byte('a'), at(6, 6))
	assert.Equal(t, palette.Red, glyphAt(t, term, 7, 6).FG)
	assert.Equal(t, byte('b'), at(6, 7))

	twenty := ""
	for i := 0; i < 20; i++ {
		twenty += "twenty\n"
	}
	add(twenty, false)
	assert.Equal(t, byte('b'), at(6, 7), "view stays without scroll")

	add("eeeee", true)
	assert.Equal(t, byte('t'), at(6, 6))
	assert.Equal(t, byte('e'), at(6, 23))
	assert.Equal(t, BoxDouble.ScrollbarBottom, at(24, 23))

	box.ScrollHome()
	box.Draw(term)
	require.NoError(t, term.Flip())
	assert.Equal(t, byte('a'), at(6, 6))
	assert.Equal(t, byte('t'), at(6, 23))
	assert.Equal(t, BoxDouble.Horiz, at(6, 24))
	assert.Equal(t, BoxDouble.ScrollbarCenterBlock, at(24, 7), "thumb at top")

	box.Scroll(-3)
	assert.Equal(t, 0, box.Top(), "clamped at oldest line")
	box.Scroll(1000)
	assert.Equal(t, box.Lines()-box.InnerHeight(), box.Top(), "clamped at newest line")
}
