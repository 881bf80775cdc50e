package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/tilecon/cp437"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
)

// TextOpts configures PlainText and RichText
type TextOpts struct {
	FG, BG palette.Color

	// CenterTo centers plain text within N cells
	CenterTo int
	// MaxWidth crops plain text at N cells
	MaxWidth int
	// WrapTo splits rich text rows longer than N cells; no word tracking
	WrapTo int
}

// DefaultTextOpts returns light grey on black
func DefaultTextOpts() TextOpts {
	return TextOpts{FG: palette.LightGrey, BG: palette.Black}
}

// text holds the message pair shared by PlainText and RichText
type text struct {
	Buffer
	// Message is the rendered text, BaseMessage the format template
	Message     string
	BaseMessage string
	Opts        TextOpts
}

// PlainText is a single row of single-colored text.
// Runes are mapped to CP437, so box and symbol glyphs can be used directly
type PlainText struct {
	text
}

// NewPlainText renders msg into a one-row buffer
func NewPlainText(msg string, opts TextOpts) *PlainText {
	t := &PlainText{text{Message: msg, BaseMessage: msg, Opts: opts}}
	t.update()
	return t
}

// Set replaces both the message and the format template
func (t *PlainText) Set(msg string) {
	t.Message, t.BaseMessage = msg, msg
	t.update()
}

// Format renders the template with args, keeping the template
func (t *PlainText) Format(args ...any) {
	t.Message = fmt.Sprintf(t.BaseMessage, args...)
	t.update()
}

func (t *PlainText) update() {
	glyphs := cp437.Encode(t.Message)
	if t.Opts.CenterTo > 0 {
		glyphs = padCenter(glyphs, t.Opts.CenterTo)
	}
	if t.Opts.MaxWidth > 0 && len(glyphs) > t.Opts.MaxWidth {
		glyphs = glyphs[:t.Opts.MaxWidth]
	}

	row := make([]terminal.Cell, len(glyphs))
	for i, g := range glyphs {
		row[i] = terminal.Cell{FG: t.Opts.FG, BG: t.Opts.BG, Glyph: g}
	}
	t.setRows([][]terminal.Cell{row})
}

// padCenter centers glyphs in width cells. An odd margin puts the spare cell
// on the left only when width is odd
func padCenter(glyphs []byte, width int) []byte {
	marg := width - len(glyphs)
	if marg <= 0 {
		return glyphs
	}
	left := marg/2 + (marg & width & 1)
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	copy(out[left:], glyphs)
	return out
}

// RichText is multi-row text with inline color markup:
//
//	"This text has a <GREEN>word</> inside it!"
//
// A tag is a color name; </> pops back to the previous color. The color stack
// starts at light grey. Newlines split rows
type RichText struct {
	text
}

// NewRichText renders msg, wrapping rows at opts.WrapTo when set
func NewRichText(msg string, opts TextOpts) *RichText {
	t := &RichText{text{Message: msg, BaseMessage: msg, Opts: opts}}
	t.update()
	return t
}

// Set replaces both the message and the format template
func (t *RichText) Set(msg string) {
	t.Message, t.BaseMessage = msg, msg
	t.update()
}

// Format renders the template with args, keeping the template
func (t *RichText) Format(args ...any) {
	t.Message = fmt.Sprintf(t.BaseMessage, args...)
	t.update()
}

func (t *RichText) update() {
	t.setRows(richRows(t.Message, t.Opts))
}

// markupRE matches a run of text followed by a tag
var markupRE = regexp.MustCompile(`([^<]*)<(\w*|/)>`)

// span is a run of text in one color
type span struct {
	fg   palette.Color
	text string
}

// parseMarkup splits msg into colored spans. Unknown tags are kept as literal text
func parseMarkup(msg string) []span {
	var spans []span
	stack := []palette.Color{palette.LightGrey}
	add := func(s string) {
		if s != "" {
			spans = append(spans, span{fg: stack[len(stack)-1], text: s})
		}
	}

	rest := 0
	for _, m := range markupRE.FindAllStringSubmatchIndex(msg, -1) {
		add(msg[rest:m[0]])
		add(msg[m[2]:m[3]])
		tag := msg[m[4]:m[5]]
		switch c, ok := palette.ParseColor(tag); {
		case tag == "/":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case ok:
			stack = append(stack, c)
		default:
			add("<" + tag + ">")
		}
		rest = m[1]
	}
	add(msg[rest:])
	return spans
}

// richRows renders markup into rectangular rows padded with opts colors
func richRows(msg string, opts TextOpts) [][]terminal.Cell {
	rows := [][]terminal.Cell{nil}
	for _, s := range parseMarkup(strings.TrimRight(msg, "\n")) {
		for i, line := range strings.Split(s.text, "\n") {
			if i > 0 {
				rows = append(rows, nil)
			}
			last := len(rows) - 1
			for _, g := range cp437.Encode(line) {
				rows[last] = append(rows[last], terminal.Cell{FG: s.fg, BG: opts.BG, Glyph: g})
			}
		}
	}

	if opts.WrapTo > 0 {
		var wrapped [][]terminal.Cell
		for _, row := range rows {
			if len(row) <= opts.WrapTo {
				wrapped = append(wrapped, row)
				continue
			}
			for i := 0; i < len(row); i += opts.WrapTo {
				wrapped = append(wrapped, row[i:min(i+opts.WrapTo, len(row))])
			}
		}
		rows = wrapped
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	pad := terminal.Cell{FG: opts.FG, BG: opts.BG, Glyph: ' '}
	for i, row := range rows {
		// Copy so wrapped chunks do not share backing arrays when padded
		padded := make([]terminal.Cell, width)
		n := copy(padded, row)
		for x := n; x < width; x++ {
			padded[x] = pad
		}
		rows[i] = padded
	}
	return rows
}
