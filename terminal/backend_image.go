package terminal

import (
	"io"
	"sync"

	"github.com/lixenwraith/tilecon/audio"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/render"
)

func init() {
	RegisterBackend("image", newImageBackend)
}

// imageBackend renders into an in-memory RGBA display.
// Keys are pushed by the caller through Keys()
type imageBackend struct {
	mu       sync.Mutex
	opts     Options
	renderer *render.Renderer
	keys     *input.Queue
	bell     *audio.Bell
	title    string
	cursor   CursorType
}

func newImageBackend(opts Options) (Backend, error) {
	b := &imageBackend{
		opts: opts,
		keys: input.NewQueue(),
		bell: audio.NewBell(),
	}
	return b, nil
}

func (b *imageBackend) Init(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := resolveAtlas(b.opts)
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(a, rows, cols)
	if err != nil {
		return err
	}
	b.renderer = r

	if b.opts.Bell {
		if err := b.bell.Initialize(); err != nil {
			b.opts.Logger.Printf("[terminal] bell unavailable: %v", err)
		}
	}
	return nil
}

func (b *imageBackend) Fini() {
	b.bell.Cleanup()
}

func (b *imageBackend) Resize(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := render.NewRenderer(b.renderer.Atlas(), rows, cols)
	if err != nil {
		return err
	}
	b.renderer = r
	return nil
}

func (b *imageBackend) Present(changes []render.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer.Flip(changes)
}

func (b *imageBackend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer.Reset()
	return nil
}

func (b *imageBackend) Keys() *input.Queue { return b.keys }

func (b *imageBackend) SetTitle(title string) {
	b.mu.Lock()
	b.title = title
	b.mu.Unlock()
}

func (b *imageBackend) SetCursor(kind CursorType, _, _ int) {
	b.mu.Lock()
	b.cursor = kind
	b.mu.Unlock()
}

func (b *imageBackend) Bell() {
	b.bell.Ring()
}

// Snapshot encodes the visible display as PNG
func (b *imageBackend) Snapshot(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer.Snapshot(w)
}
