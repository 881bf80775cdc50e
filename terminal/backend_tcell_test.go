//go:build !js

package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tilecon/cp437"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/palette"
)

func newSimTerminal(t *testing.T, rows, cols int) (Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	RegisterBackend("tcell-sim", func(opts Options) (Backend, error) {
		return newTcellBackend(screen, opts), nil
	})

	term, err := New(quietOptions("tcell-sim", rows, cols))
	require.NoError(t, err)
	require.NoError(t, term.Init())
	t.Cleanup(term.Fini)
	return term, screen
}

func TestTcellBackendPresent(t *testing.T) {
	term, screen := newSimTerminal(t, 20, 40)

	cell := Cell{FG: palette.Yellow, BG: palette.Blue, Glyph: 0xc9}
	term.DrawBuffer(&block{w: 2, h: 1, cell: cell}, 5, 3)
	require.NoError(t, term.Flip())

	mainc, _, style, _ := screen.GetContent(6, 3)
	assert.Equal(t, cp437.Rune(0xc9), mainc)
	assert.Equal(t, '╔', mainc)

	fg, bg, _ := style.Decompose()
	y, b := palette.Default.At(palette.Yellow), palette.Default.At(palette.Blue)
	assert.Equal(t, tcell.NewRGBColor(int32(y.R), int32(y.G), int32(y.B)), fg)
	assert.Equal(t, tcell.NewRGBColor(int32(b.R), int32(b.G), int32(b.B)), bg)
}

func TestTcellBackendKeys(t *testing.T) {
	term, screen := newSimTerminal(t, 20, 40)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	ev, err := term.GetKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, input.KeyRune, ev.Key)
	assert.Equal(t, 'x', ev.Rune)

	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	_, err = term.GetKey(ctx)
	assert.ErrorIs(t, err, ErrInterrupt)
}

func TestTcellBackendTooSmall(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	b := newTcellBackend(screen, quietOptions("tcell", 500, 500))
	err := b.Init(500, 500)
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestTcellKeyCode(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want input.Code
		ok   bool
	}{
		{"rune", tcell.KeyRune, 'q', input.RuneCode('q'), true},
		{"enter", tcell.KeyEnter, 0, input.CodeEnter, true},
		{"escape", tcell.KeyEscape, 0, input.CodeEscape, true},
		{"backspace2", tcell.KeyBackspace2, 0, input.CodeBackspace, true},
		{"ctrl c", tcell.KeyCtrlC, 0, input.CodeCtrlC, true},
		{"left", tcell.KeyLeft, 0, input.CodeLeft, true},
		{"pgdn", tcell.KeyPgDn, 0, input.CodePageDown, true},
		{"f1", tcell.KeyF1, 0, input.CodeF1, true},
		{"f12", tcell.KeyF12, 0, input.CodeF12, true},
		{"f13", tcell.KeyF13, 0, 0, false},
		{"ctrl a", tcell.KeyCtrlA, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tcellKeyCode(tt.key, tt.r)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTcellBackendRegistered(t *testing.T) {
	assert.Contains(t, Backends(), "tcell")
}
