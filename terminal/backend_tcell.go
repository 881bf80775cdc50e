//go:build !js

package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilecon/cp437"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/render"
)

func init() {
	RegisterBackend("tcell", func(opts Options) (Backend, error) {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		return newTcellBackend(screen, opts), nil
	})
}

// tcellBackend maps each cell change onto one terminal character
type tcellBackend struct {
	mu     sync.Mutex
	screen tcell.Screen
	opts   Options
	keys   *input.Queue
	styles [palette.Count][palette.Count]tcell.Style
	rows   int
	cols   int

	done chan struct{}
	wg   sync.WaitGroup
}

func newTcellBackend(screen tcell.Screen, opts Options) *tcellBackend {
	b := &tcellBackend{
		screen: screen,
		opts:   opts,
		keys:   input.NewQueue(),
	}
	var colors [palette.Count]tcell.Color
	for i := range colors {
		rgb := opts.Palette.At(palette.Color(i))
		colors[i] = tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
	}
	for bg := range colors {
		for fg := range colors {
			b.styles[bg][fg] = tcell.StyleDefault.Background(colors[bg]).Foreground(colors[fg])
		}
	}
	return b
}

func (b *tcellBackend) Init(rows, cols int) error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	if err := b.Resize(rows, cols); err != nil {
		b.screen.Fini()
		return err
	}

	b.done = make(chan struct{})
	b.wg.Add(1)
	go b.pollEvents()
	return nil
}

// pollEvents feeds key events into the queue until Fini
func (b *tcellBackend) pollEvents() {
	defer b.wg.Done()
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-b.done:
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if code, ok := tcellKeyCode(ev.Key(), ev.Rune()); ok {
				if !b.keys.Push(code) {
					b.opts.Logger.Printf("[terminal] key dropped: queue full")
				}
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}
}

func (b *tcellBackend) Fini() {
	if b.done != nil {
		close(b.done)
	}
	// Fini makes PollEvent return nil
	b.screen.Fini()
	b.wg.Wait()
	b.done = nil
}

// Resize verifies the terminal can hold the grid; the terminal owns its own size
func (b *tcellBackend) Resize(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, h := b.screen.Size()
	if w < cols || h < rows {
		return fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTooSmall, cols, rows, w, h)
	}
	b.rows, b.cols = rows, cols
	return nil
}

func (b *tcellBackend) Present(changes []render.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := eachValid(changes, b.rows, b.cols, func(c render.Change) {
		b.screen.SetContent(c.Col, c.Row, cp437.Rune(c.Glyph), nil, b.styles[c.BG][c.FG])
	})
	b.screen.Show()
	return err
}

func (b *tcellBackend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.screen.SetStyle(b.styles[palette.Black][palette.Black])
	b.screen.Clear()
	b.screen.Show()
	return nil
}

func (b *tcellBackend) Keys() *input.Queue { return b.keys }

func (b *tcellBackend) SetTitle(title string) {
	b.screen.SetTitle(title)
}

func (b *tcellBackend) SetCursor(kind CursorType, x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch kind {
	case CursorBlank:
		b.screen.HideCursor()
		return
	case CursorBlock:
		b.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	default:
		b.screen.SetCursorStyle(tcell.CursorStyleDefault)
	}
	b.screen.ShowCursor(x, y)
	b.screen.Show()
}

func (b *tcellBackend) Bell() {
	b.screen.Beep()
}

// tcellKeys maps tcell special keys to DOM codes
var tcellKeys = map[tcell.Key]input.Code{
	tcell.KeyEnter:      input.CodeEnter,
	tcell.KeyEscape:     input.CodeEscape,
	tcell.KeyTab:        input.CodeTab,
	tcell.KeyBackspace:  input.CodeBackspace,
	tcell.KeyBackspace2: input.CodeBackspace,
	tcell.KeyCtrlC:      input.CodeCtrlC,
	tcell.KeyUp:         input.CodeUp,
	tcell.KeyDown:       input.CodeDown,
	tcell.KeyLeft:       input.CodeLeft,
	tcell.KeyRight:      input.CodeRight,
	tcell.KeyHome:       input.CodeHome,
	tcell.KeyEnd:        input.CodeEnd,
	tcell.KeyPgUp:       input.CodePageUp,
	tcell.KeyPgDn:       input.CodePageDown,
	tcell.KeyInsert:     input.CodeInsert,
	tcell.KeyDelete:     input.CodeDelete,
}

// tcellKeyCode converts a tcell key event into a queue code
func tcellKeyCode(k tcell.Key, r rune) (input.Code, bool) {
	if k == tcell.KeyRune {
		return input.RuneCode(r), true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return input.CodeF1 + input.Code(k-tcell.KeyF1), true
	}
	code, ok := tcellKeys[k]
	return code, ok
}
