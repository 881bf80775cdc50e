package terminal

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/render"
)

// block is a solid Drawable
type block struct {
	w, h  int
	cell  Cell
	clean bool
}

func (b *block) Size() (int, int)     { return b.w, b.h }
func (b *block) CellAt(_, _ int) Cell { return b.cell }
func (b *block) MarkClean()           { b.clean = true }

// recordBackend captures presented batches
type recordBackend struct {
	batches [][]render.Change
	resets  int
	keys    *input.Queue
	title   string
	cursor  CursorType
	bells   int
}

func (r *recordBackend) Init(_, _ int) error   { return nil }
func (r *recordBackend) Fini()                 {}
func (r *recordBackend) Resize(_, _ int) error { return nil }
func (r *recordBackend) Reset() error          { r.resets++; return nil }
func (r *recordBackend) Keys() *input.Queue    { return r.keys }
func (r *recordBackend) SetTitle(t string)     { r.title = t }
func (r *recordBackend) Bell()                 { r.bells++ }
func (r *recordBackend) SetCursor(kind CursorType, _, _ int) {
	r.cursor = kind
}
func (r *recordBackend) Present(changes []render.Change) error {
	r.batches = append(r.batches, append([]render.Change(nil), changes...))
	return nil
}

func quietOptions(backend string, rows, cols int) Options {
	opts := DefaultOptions()
	opts.Backend = backend
	opts.Rows, opts.Cols = rows, cols
	opts.Logger = log.New(io.Discard, "", 0)
	return opts
}

func newRecordTerminal(t *testing.T, rows, cols int) (*termImpl, *recordBackend) {
	t.Helper()
	rec := &recordBackend{keys: input.NewQueue()}
	RegisterBackend("record", func(Options) (Backend, error) { return rec, nil })

	term, err := New(quietOptions("record", rows, cols))
	require.NoError(t, err)
	require.NoError(t, term.Init())
	t.Cleanup(term.Fini)
	return term.(*termImpl), rec
}

func TestInitClears(t *testing.T) {
	term, rec := newRecordTerminal(t, 60, 120)
	assert.Equal(t, 1, rec.resets)
	assert.Equal(t, "tilecon", rec.title)

	for _, p := range []image.Point{{0, 0}, {119, 59}} {
		c, err := term.GetAt(p.X, p.Y)
		require.NoError(t, err)
		assert.Equal(t, blankCell, c)
	}
}

func TestDrawBufferDiffs(t *testing.T) {
	term, rec := newRecordTerminal(t, 10, 10)
	src := &block{w: 2, h: 2, cell: Cell{FG: palette.White, BG: palette.Blue, Glyph: '#'}}

	term.DrawBuffer(src, 3, 4)
	assert.True(t, src.clean)
	require.NoError(t, term.Flip())
	require.Len(t, rec.batches, 1)
	assert.Len(t, rec.batches[0], 4)
	assert.Equal(t, render.Change{Row: 4, Col: 3, BG: palette.Blue, FG: palette.White, Glyph: '#'}, rec.batches[0][0])

	// Unchanged content stages nothing
	term.DrawBuffer(src, 3, 4)
	require.NoError(t, term.Flip())
	assert.Empty(t, rec.batches[1])

	// Overlapping move changes only the new cells
	term.DrawBuffer(src, 4, 4)
	require.NoError(t, term.Flip())
	assert.Len(t, rec.batches[2], 2)

	c, err := term.GetAt(5, 5)
	require.NoError(t, err)
	assert.Equal(t, src.cell, c)
}

func TestDrawBufferClips(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"inside", 0, 0, 9},
		{"negative corner", -1, -1, 4},
		{"bottom right", 9, 9, 1},
		{"far outside", 20, 20, 0},
		{"far negative", -5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, rec := newRecordTerminal(t, 10, 10)
			src := &block{w: 3, h: 3, cell: Cell{FG: palette.Red, BG: palette.Green, Glyph: 'x'}}
			term.DrawBuffer(src, tt.x, tt.y)
			require.NoError(t, term.Flip())
			assert.Len(t, rec.batches[0], tt.want)
		})
	}
}

func TestClearDropsPending(t *testing.T) {
	term, rec := newRecordTerminal(t, 5, 5)
	term.DrawBuffer(&block{w: 1, h: 1, cell: Cell{FG: palette.White, Glyph: 'a'}}, 0, 0)
	require.NoError(t, term.Clear())
	require.NoError(t, term.Flip())

	assert.Empty(t, rec.batches[0])
	assert.Equal(t, 2, rec.resets)
}

func TestGetAtOutOfRange(t *testing.T) {
	term, _ := newRecordTerminal(t, 5, 5)
	for _, p := range []image.Point{{-1, 0}, {5, 0}, {0, 5}} {
		_, err := term.GetAt(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestGetKey(t *testing.T) {
	term, rec := newRecordTerminal(t, 5, 5)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rec.keys.Push(input.CodeLeft)
	rec.keys.Push(input.CodeCtrlC)

	ev, err := term.GetKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, input.KeyLeft, ev.Key)

	ev, err = term.GetKey(ctx)
	assert.ErrorIs(t, err, ErrInterrupt)
	assert.Equal(t, input.KeyCtrlC, ev.Key)

	rec.keys.Push(input.CodeCtrlC)
	ev, err = term.RawGetKey(ctx)
	require.NoError(t, err, "raw read passes ctrl-c through")
	assert.Equal(t, input.KeyCtrlC, ev.Key)

	rec.keys.Push(65)
	ev, err = term.GetKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, input.KeyRune, ev.Key)
	assert.Equal(t, 'A', ev.Rune)
}

func TestGetKeyCanceled(t *testing.T) {
	term, _ := newRecordTerminal(t, 5, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := term.GetKey(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCursorTitleBell(t *testing.T) {
	term, rec := newRecordTerminal(t, 5, 5)
	assert.Equal(t, CursorBlank, rec.cursor, "init hides the cursor")

	term.SetCursorType(CursorBlock)
	assert.Equal(t, CursorBlock, rec.cursor)

	term.SetTitle("other")
	assert.Equal(t, "other", rec.title)

	term.Bell()
	assert.Equal(t, 1, rec.bells)

	term.Fini()
	assert.Equal(t, CursorNormal, rec.cursor, "fini restores the cursor")
	term.Fini()
}

func TestParseCursorType(t *testing.T) {
	tests := []struct {
		in      string
		want    CursorType
		wantErr bool
	}{
		{"blank", CursorBlank, false},
		{"Normal", CursorNormal, false},
		{"block", CursorBlock, false},
		{"0", CursorBlank, false},
		{"1", CursorNormal, false},
		{"2", CursorBlock, false},
		{"3", CursorBlank, true},
		{"underline", CursorBlank, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCursorType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := New(quietOptions("nope", 5, 5))
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestNotInitialized(t *testing.T) {
	term, err := New(quietOptions("image", 5, 5))
	require.NoError(t, err)
	assert.ErrorIs(t, term.Flip(), ErrNotInitialized)
	_, err = term.GetAt(0, 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestImageBackendSnapshot(t *testing.T) {
	term, err := New(quietOptions("image", 4, 6))
	require.NoError(t, err)
	require.NoError(t, term.Init())
	defer term.Fini()

	term.DrawBuffer(&block{w: 1, h: 1, cell: Cell{FG: palette.White, BG: palette.Blue, Glyph: ' '}}, 2, 1)
	require.NoError(t, term.Flip())

	var buf bytes.Buffer
	require.NoError(t, term.Snapshot(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6*8, 4*12), img.Bounds())

	r, g, b, _ := img.At(2*8+3, 1*12+5).RGBA()
	want := palette.Default.At(palette.Blue)
	assert.Equal(t, [3]uint32{uint32(want.R), uint32(want.G), uint32(want.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})

	r, g, b, _ = img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
}

func TestImageBackendResize(t *testing.T) {
	term, err := New(quietOptions("image", 4, 6))
	require.NoError(t, err)
	require.NoError(t, term.Init())
	defer term.Fini()

	require.NoError(t, term.Resize(10, 3))
	w, h := term.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 3, h)

	var buf bytes.Buffer
	require.NoError(t, term.Snapshot(&buf))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 36, cfg.Height)

	assert.ErrorIs(t, term.Resize(0, 3), ErrOutOfRange)
}

func TestEachValid(t *testing.T) {
	var drawn []render.Change
	err := eachValid([]render.Change{
		{Row: 0, Col: 0, BG: palette.Black, FG: palette.White},
		{Row: 5, Col: 0},
		{Row: 0, Col: 0, BG: 16},
	}, 2, 2, func(c render.Change) { drawn = append(drawn, c) })

	assert.Len(t, drawn, 1)
	var cerr *render.ChangeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Skipped)
	assert.Equal(t, 5, cerr.First.Row)
}

func TestBackendsRegistered(t *testing.T) {
	names := Backends()
	assert.Contains(t, names, "image")
}
