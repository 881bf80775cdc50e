// @lixen: #focus{sys[render,blit]}
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/lixenwraith/tilecon/atlas"
)

var ErrGridSize = errors.New("render: grid dimensions must be positive")

// opaqueBlack is the reset fill
var opaqueBlack = image.NewUniform(color.RGBA{A: 0xff})

// Renderer blits atlas tiles into an off-screen buffer and copies the buffer to the
// display surface once per batch. It owns both surfaces; callers own the Renderer.
type Renderer struct {
	atlas   *atlas.Atlas
	rows    int
	cols    int
	buffer  *image.RGBA
	display *image.RGBA
}

// NewRenderer creates same-sized buffer and display surfaces for a rows x cols grid
func NewRenderer(a *atlas.Atlas, rows, cols int) (*Renderer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrGridSize
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, cols*a.TileW, rows*a.TileH)
	r := &Renderer{
		atlas:   a,
		rows:    rows,
		cols:    cols,
		buffer:  image.NewRGBA(bounds),
		display: image.NewRGBA(bounds),
	}
	r.Reset()
	return r, nil
}

// Size returns grid dimensions in cells
func (r *Renderer) Size() (rows, cols int) {
	return r.rows, r.cols
}

// Atlas returns the tile source
func (r *Renderer) Atlas() *atlas.Atlas {
	return r.atlas
}

// Metrics returns the tile dimensions in use
func (r *Renderer) Metrics() atlas.Metrics {
	return r.atlas.Metrics
}

// Origin returns the pixel position of a cell's top-left corner
func (r *Renderer) Origin(row, col int) image.Point {
	return image.Pt(col*r.atlas.TileW, row*r.atlas.TileH)
}

// Buffer returns the off-screen surface
func (r *Renderer) Buffer() *image.RGBA {
	return r.buffer
}

// Display returns the visible surface
func (r *Renderer) Display() *image.RGBA {
	return r.display
}

func (r *Renderer) valid(c Change) bool {
	return c.Row >= 0 && c.Row < r.rows && c.Col >= 0 && c.Col < r.cols && c.BG.Valid() && c.FG.Valid()
}

// Flip draws each change's background tile, then its glyph, into the buffer, then
// copies the whole buffer to the display. Invalid changes are skipped and reported
// through *ChangeError; the copy happens regardless.
func (r *Renderer) Flip(changes []Change) error {
	var cerr *ChangeError
	m := r.atlas.Metrics

	for _, c := range changes {
		if !r.valid(c) {
			if cerr == nil {
				cerr = &ChangeError{First: c, Rows: r.rows, Cols: r.cols}
			}
			cerr.Skipped++
			continue
		}

		dst := image.Rectangle{Min: r.Origin(c.Row, c.Col)}
		dst.Max = dst.Min.Add(image.Pt(m.TileW, m.TileH))

		bg := m.BackgroundRect(c.BG)
		draw.Draw(r.buffer, dst, r.atlas.Background, bg.Min.Add(r.atlas.Background.Bounds().Min), draw.Src)

		fg := r.atlas.Foreground[c.FG]
		glyph := m.GlyphRect(c.Glyph)
		draw.Draw(r.buffer, dst, fg, glyph.Min.Add(fg.Bounds().Min), draw.Over)
	}

	r.copyToDisplay()

	if cerr != nil {
		return cerr
	}
	return nil
}

// Reset clears the buffer to opaque black and propagates it to the display
func (r *Renderer) Reset() {
	draw.Draw(r.buffer, r.buffer.Bounds(), opaqueBlack, image.Point{}, draw.Src)
	r.copyToDisplay()
}

func (r *Renderer) copyToDisplay() {
	copy(r.display.Pix, r.buffer.Pix)
}

// Present copies the display into dst scaled by a whole factor, nearest neighbor
func (r *Renderer) Present(dst draw.Image, scale int) {
	if scale < 1 {
		scale = 1
	}
	sr := r.display.Bounds()
	dr := image.Rectangle{Min: dst.Bounds().Min}
	dr.Max = dr.Min.Add(sr.Size().Mul(scale))
	if scale == 1 {
		draw.Draw(dst, dr, r.display, sr.Min, draw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dr, r.display, sr, xdraw.Src, nil)
}

// Snapshot encodes the display as PNG
func (r *Renderer) Snapshot(w io.Writer) error {
	return png.Encode(w, r.display)
}
