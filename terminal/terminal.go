package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/render"
)

var (
	ErrNoBackend      = errors.New("terminal: no suitable console backend")
	ErrNotInitialized = errors.New("terminal: not initialized")
	ErrOutOfRange     = errors.New("terminal: coordinate out of range")
	ErrTooSmall       = errors.New("terminal: surface smaller than requested size")
	ErrInterrupt      = errors.New("terminal: interrupted")
	ErrUnsupported    = errors.New("terminal: operation not supported by backend")
	ErrNoCanvas       = errors.New("terminal: support for HTML5 canvas is required")
)

// Cell is one character position: colors plus a CP437 glyph ordinal
type Cell struct {
	FG    palette.Color
	BG    palette.Color
	Glyph byte
}

// Drawable is a rectangular block of cells that can be drawn onto a Terminal
type Drawable interface {
	Size() (width, height int)
	CellAt(x, y int) Cell
	MarkClean()
}

// CursorType selects the cursor graphic
type CursorType uint8

const (
	CursorBlank CursorType = iota
	CursorNormal
	CursorBlock
)

var cursorNames = map[string]CursorType{
	"blank":  CursorBlank,
	"normal": CursorNormal,
	"block":  CursorBlock,
}

// ParseCursorType accepts "blank", "normal", "block" and their numeric forms 0-2
func ParseCursorType(s string) (CursorType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := cursorNames[s]; ok {
		return c, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= int(CursorBlock) {
		return CursorType(n), nil
	}
	return CursorBlank, fmt.Errorf("terminal: unknown cursor type %q", s)
}

// Options configures a Terminal and its backend
type Options struct {
	// Backend is a registered backend name or "auto"
	Backend string

	Rows int
	Cols int

	Metrics  atlas.Metrics
	Atlas    *atlas.Atlas // Synthesized when nil and AtlasDir is empty
	AtlasDir string       // Directory (or base URL on canvas) holding the DefaultPaths layout
	Palette  palette.Palette

	Title string
	Scale int
	Bell  bool

	Logger *log.Logger
}

// DefaultOptions is a 120x60 console of 8x12 tiles
func DefaultOptions() Options {
	return Options{
		Backend: "auto",
		Rows:    60,
		Cols:    120,
		Metrics: atlas.DefaultMetrics,
		Palette: palette.Default,
		Title:   "tilecon",
		Scale:   1,
	}
}

// Terminal is the console drawing and keyboard API
type Terminal interface {
	// Init prepares the backend and clears the screen
	Init() error

	// Fini restores the backend. Safe to call multiple times
	Fini()

	// Resize changes the grid dimensions, or verifies them on fixed-size backends
	Resize(width, height int) error

	// Size returns grid dimensions in cells
	Size() (width, height int)

	// Clear blanks the screen immediately, without Flip
	Clear() error

	// DrawBuffer stages src at (x, y); changes become visible on Flip
	DrawBuffer(src Drawable, x, y int)

	// Flip presents all staged changes in one batch
	Flip() error

	// GetAt returns the cell last drawn at (x, y)
	GetAt(x, y int) (Cell, error)

	SetCursorType(c CursorType)
	MoveCursor(x, y int)
	SetTitle(title string)
	Bell()

	// SetMessage shows a transient status line where the backend has one
	SetMessage(msg string)

	// RawGetKey blocks for the next key, including Ctrl-C
	RawGetKey(ctx context.Context) (input.Event, error)

	// GetKey blocks for the next key and returns ErrInterrupt on Ctrl-C
	GetKey(ctx context.Context) (input.Event, error)

	// Keys exposes the backend input queue
	Keys() *input.Queue

	// Snapshot encodes the display as PNG when the backend supports it
	Snapshot(w io.Writer) error
}

// termImpl implements Terminal over a Backend
type termImpl struct {
	backend Backend
	opts    Options
	logger  *log.Logger

	mu          sync.Mutex
	grid        *grid
	changes     []render.Change
	cursor      CursorType
	cursorX     int
	cursorY     int
	initialized bool
	finalized   bool
}

// New creates a Terminal on the backend named by opts.Backend
func New(opts Options) (Terminal, error) {
	def := DefaultOptions()
	if opts.Rows <= 0 {
		opts.Rows = def.Rows
	}
	if opts.Cols <= 0 {
		opts.Cols = def.Cols
	}
	if !opts.Metrics.Valid() {
		opts.Metrics = def.Metrics
	}
	if opts.Palette == (palette.Palette{}) {
		opts.Palette = def.Palette
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	name := opts.Backend
	if name == "" || name == "auto" {
		name = detectBackend()
	}
	factory, ok := lookupBackend(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNoBackend, name, strings.Join(Backends(), ", "))
	}
	b, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("terminal: %s backend: %w", name, err)
	}
	opts.Logger.Printf("[terminal] using %s backend", name)

	return &termImpl{
		backend: b,
		opts:    opts,
		logger:  opts.Logger,
	}, nil
}

// Init prepares the backend and clears the screen
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized && !t.finalized {
		return nil
	}
	t.logger.Printf("[terminal] init %dx%d", t.opts.Cols, t.opts.Rows)

	if err := t.backend.Init(t.opts.Rows, t.opts.Cols); err != nil {
		return err
	}
	t.grid = newGrid(t.opts.Cols, t.opts.Rows)
	t.changes = t.changes[:0]
	t.cursor = CursorBlank
	t.backend.SetCursor(CursorBlank, 0, 0)
	if t.opts.Title != "" {
		t.backend.SetTitle(t.opts.Title)
	}
	t.initialized = true
	t.finalized = false

	return t.clearLocked()
}

// Fini restores backend state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.logger.Printf("[terminal] reset")
	t.backend.SetCursor(CursorNormal, t.cursorX, t.cursorY)
	t.backend.Fini()
	t.finalized = true
}

func (t *termImpl) ready() bool {
	return t.initialized && !t.finalized
}

// Resize changes the grid dimensions
func (t *termImpl) Resize(width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.Printf("[terminal] resize: target width=%d, height=%d", width, height)
	if !t.ready() {
		return ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrOutOfRange, width, height)
	}
	if err := t.backend.Resize(height, width); err != nil {
		return err
	}
	t.opts.Cols, t.opts.Rows = width, height
	t.grid.resize(width, height)
	return t.clearLocked()
}

// Size returns grid dimensions in cells
func (t *termImpl) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts.Cols, t.opts.Rows
}

// Clear blanks the screen immediately
func (t *termImpl) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready() {
		return ErrNotInitialized
	}
	return t.clearLocked()
}

func (t *termImpl) clearLocked() error {
	t.grid.clear()
	t.changes = t.changes[:0]
	return t.backend.Reset()
}

// DrawBuffer stages src into the shadow grid, clipped to the screen, recording
// a change for every cell that differs from what is shown
func (t *termImpl) DrawBuffer(src Drawable, x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready() {
		return
	}

	w, h := src.Size()
	for sy := 0; sy < h; sy++ {
		gy := y + sy
		if gy < 0 {
			continue
		}
		if gy >= t.grid.height {
			break
		}
		for sx := 0; sx < w; sx++ {
			gx := x + sx
			if gx < 0 {
				continue
			}
			if gx >= t.grid.width {
				break
			}
			t.changes = t.grid.set(gx, gy, src.CellAt(sx, sy), t.changes)
		}
	}
	src.MarkClean()
}

// Flip presents all staged changes in one batch
func (t *termImpl) Flip() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready() {
		return ErrNotInitialized
	}
	t.logger.Printf("[terminal] flip: %d changes", len(t.changes))

	err := t.backend.Present(t.changes)
	t.changes = t.changes[:0]
	return err
}

// GetAt returns the shadow cell at (x, y)
func (t *termImpl) GetAt(x, y int) (Cell, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready() {
		return Cell{}, ErrNotInitialized
	}
	if !t.grid.inBounds(x, y) {
		return Cell{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return t.grid.at(x, y), nil
}

// SetCursorType changes the cursor graphic
func (t *termImpl) SetCursorType(c CursorType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor = c
	if t.ready() {
		t.backend.SetCursor(c, t.cursorX, t.cursorY)
	}
}

// MoveCursor positions the cursor, clamped to the grid
func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready() {
		return
	}
	x = max(0, min(x, t.grid.width-1))
	y = max(0, min(y, t.grid.height-1))
	t.cursorX, t.cursorY = x, y
	t.backend.SetCursor(t.cursor, x, y)
}

// SetTitle changes the window or page title
func (t *termImpl) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.opts.Title = title
	if t.ready() {
		t.backend.SetTitle(title)
	}
}

// Bell rings the backend bell
func (t *termImpl) Bell() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ready() {
		t.backend.Bell()
	}
}

// SetMessage forwards to the backend status area, or logs when there is none
func (t *termImpl) SetMessage(msg string) {
	if m, ok := t.backend.(Messenger); ok {
		m.SetMessage(msg)
		return
	}
	t.logger.Printf("[terminal] message: %s", msg)
}

// Keys exposes the backend input queue
func (t *termImpl) Keys() *input.Queue {
	return t.backend.Keys()
}

// RawGetKey blocks for the next key
func (t *termImpl) RawGetKey(ctx context.Context) (input.Event, error) {
	code, err := t.backend.Keys().Wait(ctx)
	if err != nil {
		return input.Event{}, err
	}
	ev := input.Translate(code)
	t.logger.Printf("[terminal] key: code=%d key=%s", code, ev)
	return ev, nil
}

// GetKey blocks for the next key, converting Ctrl-C into ErrInterrupt
func (t *termImpl) GetKey(ctx context.Context) (input.Event, error) {
	ev, err := t.RawGetKey(ctx)
	if err != nil {
		return ev, err
	}
	if ev.Key == input.KeyCtrlC {
		return ev, ErrInterrupt
	}
	return ev, nil
}

// Snapshot encodes the display when the backend supports it
func (t *termImpl) Snapshot(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.backend.(Snapshotter)
	if !ok {
		return ErrUnsupported
	}
	return s.Snapshot(w)
}
