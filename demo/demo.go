// Package demo draws a showcase screen and echoes key presses
package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
	"github.com/lixenwraith/tilecon/terminal/tui"
)

const (
	titleText = "tilecon: CP437 tile console"

	tableX, tableY = 0, 3
	tableW, tableH = 16*2 + 2, 16 + 2
	sideX          = tableW + 1
)

// DefaultBindings returns the built-in key map
func DefaultBindings() *input.Bindings {
	b := input.NewBindings()
	b.Bind("esc", "quit")
	b.Bind("ctrl_c", "quit")
	b.Bind("b", "bell")
	b.Bind("c", "clear")
	return b
}

// Demo owns the showcase widgets
type Demo struct {
	term     terminal.Terminal
	bindings *input.Bindings

	title *tui.Box
	table *tui.Box
	help  *tui.RichText
	log   *tui.MessageBox
	info  *tui.PlainText
	roots []*tui.Buffer
}

// New lays out the widgets for the terminal's current size
func New(t terminal.Terminal, bindings *input.Bindings) *Demo {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	w, h := t.Size()
	d := &Demo{term: t, bindings: bindings}

	d.title = tui.NewBox(w, 3, tui.DefaultBoxOpts())
	titleOpts := tui.DefaultTextOpts()
	titleOpts.FG = palette.Yellow
	titleOpts.CenterTo = max(w-2, 0)
	titleOpts.MaxWidth = titleOpts.CenterTo
	d.title.Children = []tui.Node{tui.NewPlainText(titleText, titleOpts)}

	tableOpts := tui.DefaultBoxOpts()
	tableOpts.Type = tui.BoxSingle
	tableOpts.BorderFG = palette.LightCyan
	d.table = tui.NewBox(tableW, tableH, tableOpts)
	d.table.Move(tableX, tableY)
	d.table.Children = []tui.Node{glyphTable()}

	d.help = tui.NewRichText(
		"<WHITE>Glyphs</> <DARKGREY>0x00-0xFF, row = high nibble</>\n"+
			"<LIGHTGREEN>esc</> quits  <LIGHTGREEN>b</> bell  <LIGHTGREEN>c</> clear\n"+
			"<RED>R</><BROWN>G</><YELLOW>B</> <LIGHTBLUE>sixteen</> <LIGHTMAGENTA>colors</>",
		textOpts(max(w-sideX, 1)))
	d.help.Move(sideX, tableY)

	logOpts := tui.DefaultBoxOpts()
	logOpts.BorderFG = palette.DarkGrey
	d.log = tui.NewMessageBox(max(w-sideX, 3), max(h-tableY-5, 3), logOpts)
	d.log.Move(sideX, tableY+4)

	d.info = tui.NewPlainText("last key: %-12s", tui.DefaultTextOpts())
	d.info.Move(0, h-1)
	d.info.Format("none")

	d.roots = []*tui.Buffer{&d.title.Buffer, &d.table.Buffer, &d.help.Buffer, &d.log.Buffer, &d.info.Buffer}
	return d
}

func textOpts(wrap int) tui.TextOpts {
	o := tui.DefaultTextOpts()
	o.WrapTo = wrap
	return o
}

// glyphTable lays all 256 ordinals out 16 per row, high nibble down
func glyphTable() *tui.Buffer {
	b := tui.NewBuffer(32, 16)
	for ord := 0; ord < 256; ord++ {
		row, col := ord/16, ord%16
		fg := palette.Color(row%(palette.Count-1) + 1)
		b.SetAt(col*2, row, tui.CellUpdate{Glyph: ptr(byte(ord)), FG: &fg})
	}
	return b
}

func ptr[T any](v T) *T { return &v }

// Draw stages every dirty widget and flips
func (d *Demo) Draw() error {
	for _, b := range d.roots {
		b.Draw(d.term)
	}
	return d.term.Flip()
}

// redraw repaints everything after a clear
func (d *Demo) redraw() error {
	for _, b := range d.roots {
		b.MarkDirty()
	}
	return d.Draw()
}

// Handle applies one key event; it reports whether the demo should stop
func (d *Demo) Handle(ev input.Event) (bool, error) {
	d.info.Format(ev.String())
	d.log.Add(fmt.Sprintf("<LIGHTCYAN>%s</> <DARKGREY>code %d</>", ev, ev.Code), true)

	action, _ := d.bindings.Action(ev)
	switch action {
	case "quit":
		return true, d.Draw()
	case "bell":
		d.term.Bell()
		d.term.SetMessage("bell")
	case "clear":
		if err := d.term.Clear(); err != nil {
			return false, err
		}
		return false, d.redraw()
	}
	return false, d.Draw()
}

// Loop draws the screen and handles keys until quit, interrupt or ctx ends
func (d *Demo) Loop(ctx context.Context) error {
	if err := d.Draw(); err != nil {
		return err
	}
	for {
		ev, err := d.term.GetKey(ctx)
		if errors.Is(err, terminal.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := d.Handle(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Run shows the demo on t with the default bindings
func Run(ctx context.Context, t terminal.Terminal) error {
	return New(t, nil).Loop(ctx)
}
