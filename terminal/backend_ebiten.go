//go:build !headless && !js

package terminal

import (
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/audio"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/render"
)

// ebitenStartTimeout bounds the wait for the first frame
const ebitenStartTimeout = 10 * time.Second

func init() {
	RegisterBackend("ebiten", newEbitenBackend)
}

// ebitenBackend presents the tile renderer in a desktop window
type ebitenBackend struct {
	mu       sync.Mutex
	opts     Options
	renderer *render.Renderer
	frame    *image.RGBA // display scaled by opts.Scale
	window   *ebiten.Image
	dirty    bool
	keys     *input.Queue
	bell     *audio.Bell

	running bool
	ready   chan struct{}
	done    chan struct{}
	closing bool
}

func newEbitenBackend(opts Options) (Backend, error) {
	return &ebitenBackend{
		opts: opts,
		keys: input.NewQueue(),
		bell: audio.NewBell(),
	}, nil
}

func (b *ebitenBackend) Init(rows, cols int) error {
	a, err := resolveAtlas(b.opts)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if err := b.setGrid(a, rows, cols); err != nil {
		b.mu.Unlock()
		return err
	}
	b.ready = make(chan struct{})
	b.done = make(chan struct{})
	b.running = true
	b.closing = false
	size := b.frame.Bounds().Size()
	b.mu.Unlock()

	if b.opts.Bell {
		if err := b.bell.Initialize(); err != nil {
			b.opts.Logger.Printf("[terminal] bell unavailable: %v", err)
		}
	}

	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowTitle(b.opts.Title)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowClosingHandled(true)

	go func() {
		defer close(b.done)
		if err := ebiten.RunGame(b); err != nil {
			b.opts.Logger.Printf("[terminal] ebiten error: %v", err)
		}
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	// Wait for first Draw call to ensure ebiten is ready
	select {
	case <-b.ready:
		return nil
	case <-b.done:
		return fmt.Errorf("terminal: ebiten window closed before first frame")
	case <-time.After(ebitenStartTimeout):
		return fmt.Errorf("terminal: ebiten did not start within %s", ebitenStartTimeout)
	}
}

// setGrid rebuilds the renderer and scaled frame; caller holds mu
func (b *ebitenBackend) setGrid(a *atlas.Atlas, rows, cols int) error {
	r, err := render.NewRenderer(a, rows, cols)
	if err != nil {
		return err
	}
	b.renderer = r
	b.frame = image.NewRGBA(image.Rectangle{Max: r.Display().Bounds().Size().Mul(b.opts.Scale)})
	b.window = nil
	b.present()
	return nil
}

func (b *ebitenBackend) Fini() {
	b.mu.Lock()
	b.closing = true
	running := b.running
	b.mu.Unlock()

	if running {
		<-b.done
	}
	b.bell.Cleanup()
}

func (b *ebitenBackend) Resize(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.setGrid(b.renderer.Atlas(), rows, cols); err != nil {
		return err
	}
	size := b.frame.Bounds().Size()
	ebiten.SetWindowSize(size.X, size.Y)
	return nil
}

func (b *ebitenBackend) Present(changes []render.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.renderer.Flip(changes)
	b.present()
	return err
}

func (b *ebitenBackend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.renderer.Reset()
	b.present()
	return nil
}

// present scales the display into the frame; caller holds mu
func (b *ebitenBackend) present() {
	b.renderer.Present(b.frame, b.opts.Scale)
	b.dirty = true
}

func (b *ebitenBackend) Keys() *input.Queue { return b.keys }

func (b *ebitenBackend) SetTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetCursor is recorded only; the tile window has no native text cursor
func (b *ebitenBackend) SetCursor(kind CursorType, x, y int) {
	b.opts.Logger.Printf("[terminal] ebiten cursor %d at (%d, %d) not drawn", kind, x, y)
}

func (b *ebitenBackend) Bell() {
	b.bell.Ring()
}

// Snapshot encodes the visible display as PNG
func (b *ebitenBackend) Snapshot(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer.Snapshot(w)
}

// Update implements ebiten.Game
func (b *ebitenBackend) Update() error {
	b.mu.Lock()
	closing := b.closing
	b.mu.Unlock()

	if closing {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		// Surface as Ctrl-C so GetKey reports interrupt
		b.keys.Push(input.CodeCtrlC)
		return ebiten.Termination
	}

	for _, code := range ebitenKeyCodes(inpututil.AppendJustPressedKeys(nil), ebiten.AppendInputChars(nil), ctrlPressed()) {
		if !b.keys.Push(code) {
			b.opts.Logger.Printf("[terminal] key dropped: queue full")
		}
	}
	return nil
}

// Draw implements ebiten.Game
func (b *ebitenBackend) Draw(screen *ebiten.Image) {
	b.mu.Lock()
	if b.window == nil {
		size := b.frame.Bounds().Size()
		b.window = ebiten.NewImage(size.X, size.Y)
		b.dirty = true
	}
	if b.dirty {
		b.window.WritePixels(b.frame.Pix)
		b.dirty = false
	}
	window := b.window
	b.mu.Unlock()

	screen.DrawImage(window, nil)

	select {
	case <-b.ready:
	default:
		close(b.ready)
	}
}

// Layout implements ebiten.Game
func (b *ebitenBackend) Layout(_, _ int) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	size := b.frame.Bounds().Size()
	return size.X, size.Y
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
}

// ebitenKeys maps ebiten special keys to DOM codes
var ebitenKeys = map[ebiten.Key]input.Code{
	ebiten.KeyEnter:       input.CodeEnter,
	ebiten.KeyNumpadEnter: input.CodeEnter,
	ebiten.KeyEscape:      input.CodeEscape,
	ebiten.KeyTab:         input.CodeTab,
	ebiten.KeyBackspace:   input.CodeBackspace,
	ebiten.KeyArrowUp:     input.CodeUp,
	ebiten.KeyArrowDown:   input.CodeDown,
	ebiten.KeyArrowLeft:   input.CodeLeft,
	ebiten.KeyArrowRight:  input.CodeRight,
	ebiten.KeyHome:        input.CodeHome,
	ebiten.KeyEnd:         input.CodeEnd,
	ebiten.KeyPageUp:      input.CodePageUp,
	ebiten.KeyPageDown:    input.CodePageDown,
	ebiten.KeyInsert:      input.CodeInsert,
	ebiten.KeyDelete:      input.CodeDelete,
	ebiten.KeyF1:          input.CodeF1,
	ebiten.KeyF2:          input.CodeF1 + 1,
	ebiten.KeyF3:          input.CodeF1 + 2,
	ebiten.KeyF4:          input.CodeF1 + 3,
	ebiten.KeyF5:          input.CodeF1 + 4,
	ebiten.KeyF6:          input.CodeF1 + 5,
	ebiten.KeyF7:          input.CodeF1 + 6,
	ebiten.KeyF8:          input.CodeF1 + 7,
	ebiten.KeyF9:          input.CodeF1 + 8,
	ebiten.KeyF10:         input.CodeF1 + 9,
	ebiten.KeyF11:         input.CodeF1 + 10,
	ebiten.KeyF12:         input.CodeF12,
}

// ebitenKeyCodes converts one tick of ebiten input into queue codes: special keys
// first, then typed characters. Ctrl+C becomes code 3
func ebitenKeyCodes(pressed []ebiten.Key, chars []rune, ctrl bool) []input.Code {
	var codes []input.Code
	for _, k := range pressed {
		if ctrl && k == ebiten.KeyC {
			codes = append(codes, input.CodeCtrlC)
			continue
		}
		if code, ok := ebitenKeys[k]; ok {
			codes = append(codes, code)
		}
	}
	if ctrl {
		return codes
	}
	for _, r := range chars {
		codes = append(codes, input.RuneCode(r))
	}
	return codes
}
