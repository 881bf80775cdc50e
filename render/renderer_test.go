package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/palette"
)

func newTestRenderer(t *testing.T, rows, cols int) *Renderer {
	t.Helper()
	r, err := NewRenderer(atlas.Synthesize(atlas.DefaultMetrics, palette.Default), rows, cols)
	require.NoError(t, err)
	return r
}

// tileColor asserts every pixel of a cell's tile on surface equals want
func tileColor(t *testing.T, r *Renderer, surface *image.RGBA, row, col int, want palette.RGB) {
	t.Helper()
	m := r.Metrics()
	o := r.Origin(row, col)
	for y := o.Y; y < o.Y+m.TileH; y++ {
		for x := o.X; x < o.X+m.TileW; x++ {
			if got := surface.RGBAAt(x, y); got != want.RGBA() {
				t.Fatalf("cell (%d,%d) pixel (%d,%d) = %v, want %v", row, col, x, y, got, want.RGBA())
			}
		}
	}
}

func TestNewRendererSize(t *testing.T) {
	r := newTestRenderer(t, 60, 120)
	assert.Equal(t, image.Rect(0, 0, 960, 720), r.Buffer().Bounds())
	assert.Equal(t, r.Buffer().Bounds(), r.Display().Bounds())

	_, err := NewRenderer(atlas.Synthesize(atlas.DefaultMetrics, palette.Default), 0, 10)
	assert.ErrorIs(t, err, ErrGridSize)
}

func TestOrigin(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			assert.Equal(t, image.Pt(col*8, row*12), r.Origin(row, col))
		}
	}
}

func TestFlipBackgroundThenGlyph(t *testing.T) {
	r := newTestRenderer(t, 3, 5)

	err := r.Flip([]Change{
		{Row: 1, Col: 2, BG: palette.Blue, FG: palette.White, Glyph: 0x00},
		{Row: 2, Col: 4, BG: palette.Red, FG: palette.Yellow, Glyph: 0xdb},
	})
	require.NoError(t, err)

	// Blank glyph leaves background showing
	tileColor(t, r, r.Display(), 1, 2, palette.Default[palette.Blue])
	// Full block glyph covers background entirely
	tileColor(t, r, r.Display(), 2, 4, palette.Default[palette.Yellow])
	// Untouched cell stays at reset black
	tileColor(t, r, r.Display(), 0, 0, palette.Default[palette.Black])
}

func TestFlipGlyphOverwritesPreviousCell(t *testing.T) {
	r := newTestRenderer(t, 1, 1)
	require.NoError(t, r.Flip([]Change{{BG: palette.Green, FG: palette.Red, Glyph: 0xdb}}))
	require.NoError(t, r.Flip([]Change{{BG: palette.Cyan, FG: palette.Red, Glyph: ' '}}))
	tileColor(t, r, r.Display(), 0, 0, palette.Default[palette.Cyan])
}

func TestFlipCopiesWholeBuffer(t *testing.T) {
	r := newTestRenderer(t, 2, 2)
	require.NoError(t, r.Flip([]Change{
		{Row: 0, Col: 0, BG: palette.Magenta, Glyph: 0},
		{Row: 1, Col: 1, BG: palette.Brown, Glyph: 0},
	}))
	assert.Equal(t, r.Buffer().Pix, r.Display().Pix)
}

func TestFlipSkipsInvalidChanges(t *testing.T) {
	r := newTestRenderer(t, 2, 2)

	err := r.Flip([]Change{
		{Row: 0, Col: 0, BG: palette.White, Glyph: 0},
		{Row: 2, Col: 0, BG: palette.White},
		{Row: 0, Col: -1, BG: palette.White},
		{Row: 1, Col: 1, BG: palette.Color(16)},
	})

	var cerr *ChangeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 3, cerr.Skipped)
	assert.Equal(t, 2, cerr.First.Row)
	tileColor(t, r, r.Display(), 0, 0, palette.Default[palette.White])
	tileColor(t, r, r.Display(), 1, 1, palette.Default[palette.Black])
}

func TestReset(t *testing.T) {
	r := newTestRenderer(t, 2, 3)
	require.NoError(t, r.Flip([]Change{{Row: 1, Col: 2, BG: palette.LightGreen, FG: palette.White, Glyph: 0xdb}}))

	r.Reset()
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			tileColor(t, r, r.Buffer(), row, col, palette.Default[palette.Black])
			tileColor(t, r, r.Display(), row, col, palette.Default[palette.Black])
		}
	}
}

func TestPresentScaled(t *testing.T) {
	r := newTestRenderer(t, 1, 2)
	require.NoError(t, r.Flip([]Change{{Row: 0, Col: 1, BG: palette.Red, Glyph: 0}}))

	dst := image.NewRGBA(image.Rect(0, 0, 32, 24))
	r.Present(dst, 2)
	assert.Equal(t, palette.Default[palette.Black].RGBA(), dst.RGBAAt(15, 23))
	assert.Equal(t, palette.Default[palette.Red].RGBA(), dst.RGBAAt(16, 0))
	assert.Equal(t, palette.Default[palette.Red].RGBA(), dst.RGBAAt(31, 23))

	same := image.NewRGBA(r.Display().Bounds())
	r.Present(same, 0)
	assert.Equal(t, r.Display().Pix, same.Pix)
}

func TestSnapshot(t *testing.T) {
	r := newTestRenderer(t, 2, 2)
	var buf bytes.Buffer
	require.NoError(t, r.Snapshot(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, r.Display().Bounds(), img.Bounds())
}
