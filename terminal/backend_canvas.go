//go:build js && wasm

package terminal

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strings"
	"sync"
	"syscall/js"
	"time"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/render"
)

const (
	canvasID       = "Screen"
	messageZoneID  = "message_zone"
	messageTimeout = 10 * time.Second
	noCanvasText   = "Support for HTML5 Canvas is required."
	noMouseText    = "This is a text console game. It does not use the mouse."
)

func init() {
	RegisterBackend("canvas", newCanvasBackend)
}

// canvasBackend blits atlas tiles onto an off-screen canvas and copies it to
// the visible canvas once per batch
type canvasBackend struct {
	mu   sync.Mutex
	opts Options
	keys *input.Queue

	doc       js.Value
	screen    js.Value
	buffer    js.Value
	screenCtx js.Value
	bufferCtx js.Value

	background js.Value    // drawImage source for backgrounds
	foreground [16]js.Value // drawImage sources, one per color
	images     []js.Value   // hidden <img> elements to remove on Fini

	rows, cols int
	callbacks  []js.Func
}

func newCanvasBackend(opts Options) (Backend, error) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return nil, fmt.Errorf("%w: no document", ErrNoCanvas)
	}
	return &canvasBackend{
		opts: opts,
		keys: input.NewQueue(),
		doc:  doc,
	}, nil
}

func (b *canvasBackend) Init(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setMessage("Loading Images...")
	if err := b.loadImages(); err != nil {
		b.setMessage(err.Error())
		return err
	}

	b.setMessage("Creating screen...")
	if err := b.createScreen(rows, cols); err != nil {
		return err
	}

	b.setMessage("Setting up input handlers...")
	b.listen(b.doc, "keydown", func(ev js.Value) {
		code := input.Code(ev.Get("which").Int())
		if !b.keys.Push(code) {
			b.opts.Logger.Printf("[terminal] key dropped: queue full")
		}
	})
	b.listen(b.doc, "click", func(js.Value) {
		b.setMessage(noMouseText)
	})
	return nil
}

// listen registers a document event handler released on Fini
func (b *canvasBackend) listen(target js.Value, event string, fn func(ev js.Value)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	b.callbacks = append(b.callbacks, cb)
	target.Call("addEventListener", event, cb)
}

// loadImages resolves the atlas: tile images from AtlasDir as a base URL,
// otherwise an in-memory atlas uploaded to off-screen canvases
func (b *canvasBackend) loadImages() error {
	if b.opts.AtlasDir != "" && b.opts.Atlas == nil {
		return b.preloadImages(strings.TrimSuffix(b.opts.AtlasDir, "/"))
	}

	a := b.opts.Atlas
	if a == nil {
		a = atlas.Synthesize(b.opts.Metrics, b.opts.Palette)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	b.background = b.uploadImage(a.Background)
	for i, img := range a.Foreground {
		b.foreground[i] = b.uploadImage(img)
	}
	return nil
}

// preloadImages appends hidden <img> elements and waits for all of them to load
func (b *canvasBackend) preloadImages(base string) error {
	paths := atlas.DefaultPaths()
	ctx, cancel := context.WithTimeout(context.Background(), atlasLoadTimeout)
	defer cancel()

	results := make(chan error, len(paths.All()))
	img := func(src string) js.Value {
		el := b.doc.Call("createElement", "img")
		el.Get("style").Set("height", "0px")
		el.Get("style").Set("width", "0px")

		var onload, onerror js.Func
		release := func() {
			onload.Release()
			onerror.Release()
		}
		onload = js.FuncOf(func(js.Value, []js.Value) any {
			release()
			results <- nil
			return nil
		})
		onerror = js.FuncOf(func(js.Value, []js.Value) any {
			release()
			results <- fmt.Errorf("terminal: load image %s", src)
			return nil
		})
		el.Set("onload", onload)
		el.Set("onerror", onerror)
		el.Set("src", src)

		b.doc.Get("body").Call("appendChild", el)
		b.images = append(b.images, el)
		return el
	}

	b.background = img(base + "/" + paths.Background)
	for i, p := range paths.Foreground {
		b.foreground[i] = img(base + "/" + p)
	}

	for range paths.All() {
		select {
		case err := <-results:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return fmt.Errorf("terminal: waiting for tile images: %w", ctx.Err())
		}
	}
	return b.checkImageSizes()
}

// checkImageSizes compares natural image dimensions with the metrics
func (b *canvasBackend) checkImageSizes() error {
	m := b.opts.Metrics
	check := func(name string, el js.Value, want image.Point) error {
		w, h := el.Get("naturalWidth").Int(), el.Get("naturalHeight").Int()
		if w < want.X || h < want.Y {
			return fmt.Errorf("%w: %s is %dx%d, need at least %dx%d", atlas.ErrAtlasSize, name, w, h, want.X, want.Y)
		}
		return nil
	}
	paths := atlas.DefaultPaths()
	if err := check(paths.Background, b.background, m.StripSize()); err != nil {
		return err
	}
	for i, el := range b.foreground {
		if err := check(paths.Foreground[i], el, m.SheetSize()); err != nil {
			return err
		}
	}
	return nil
}

// uploadImage copies img into a new off-screen canvas usable as a drawImage source
func (b *canvasBackend) uploadImage(img image.Image) js.Value {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewRGBA(image.Rectangle{Max: bounds.Size()})
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	c := b.doc.Call("createElement", "canvas")
	c.Set("width", w)
	c.Set("height", h)
	ctx := c.Call("getContext", "2d")

	data := ctx.Call("createImageData", w, h)
	js.CopyBytesToJS(data.Get("data"), rgba.Pix)
	ctx.Call("putImageData", data, 0, 0)
	return c
}

// createScreen builds the visible canvas and its off-screen buffer
func (b *canvasBackend) createScreen(rows, cols int) error {
	m := b.opts.Metrics

	scr := b.doc.Call("getElementById", canvasID)
	if scr.IsNull() {
		scr = b.doc.Call("createElement", "canvas")
		scr.Set("id", canvasID)
		scr.Set("textContent", noCanvasText)
		b.doc.Get("body").Call("appendChild", scr)
	}
	if scr.Get("getContext").IsUndefined() {
		js.Global().Call("alert", noCanvasText)
		return ErrNoCanvas
	}

	b.screen = scr
	b.screenCtx = scr.Call("getContext", "2d")
	b.buffer = b.doc.Call("createElement", "canvas")
	b.bufferCtx = b.buffer.Call("getContext", "2d")
	b.setSize(rows, cols)

	if b.opts.Scale > 1 {
		style := scr.Get("style")
		style.Set("width", fmt.Sprintf("%dpx", cols*m.TileW*b.opts.Scale))
		style.Set("height", fmt.Sprintf("%dpx", rows*m.TileH*b.opts.Scale))
		style.Set("imageRendering", "pixelated")
	}
	return nil
}

// setSize sizes both canvases; resizing a canvas clears it
func (b *canvasBackend) setSize(rows, cols int) {
	m := b.opts.Metrics
	w, h := cols*m.TileW, rows*m.TileH
	b.screen.Set("width", w)
	b.screen.Set("height", h)
	b.buffer.Set("width", w)
	b.buffer.Set("height", h)
	b.rows, b.cols = rows, cols
}

// setMessage appends a line to the message zone that disappears after a while
func (b *canvasBackend) setMessage(msg string) {
	zone := b.doc.Call("getElementById", messageZoneID)
	if zone.IsNull() {
		b.opts.Logger.Printf("[terminal] message: %s", msg)
		return
	}
	div := b.doc.Call("createElement", "div")
	div.Set("textContent", msg)
	zone.Call("appendChild", div)

	var remove js.Func
	remove = js.FuncOf(func(js.Value, []js.Value) any {
		div.Call("remove")
		remove.Release()
		return nil
	})
	js.Global().Call("setTimeout", remove, messageTimeout.Milliseconds())
}

func (b *canvasBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, cb := range b.callbacks {
		cb.Release()
	}
	b.callbacks = nil
	for _, el := range b.images {
		el.Call("remove")
	}
	b.images = nil
}

func (b *canvasBackend) Resize(rows, cols int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSize(rows, cols)
	return nil
}

// Present draws each change's background tile, then its glyph, into the
// buffer canvas and copies the buffer to the screen
func (b *canvasBackend) Present(changes []render.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.opts.Metrics
	w, h := m.TileW, m.TileH
	err := eachValid(changes, b.rows, b.cols, func(c render.Change) {
		dx, dy := c.Col*w, c.Row*h
		bg := m.BackgroundRect(c.BG)
		b.bufferCtx.Call("drawImage", b.background, bg.Min.X, bg.Min.Y, w, h, dx, dy, w, h)
		glyph := m.GlyphRect(c.Glyph)
		b.bufferCtx.Call("drawImage", b.foreground[c.FG], glyph.Min.X, glyph.Min.Y, w, h, dx, dy, w, h)
	})
	b.screenCtx.Call("drawImage", b.buffer, 0, 0)
	return err
}

func (b *canvasBackend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bufferCtx.Set("fillStyle", "#000")
	b.bufferCtx.Call("fillRect", 0, 0, b.buffer.Get("width"), b.buffer.Get("height"))
	b.screenCtx.Call("drawImage", b.buffer, 0, 0)
	return nil
}

func (b *canvasBackend) Keys() *input.Queue { return b.keys }

func (b *canvasBackend) SetTitle(title string) {
	b.doc.Set("title", title)
}

func (b *canvasBackend) SetCursor(kind CursorType, x, y int) {
	b.opts.Logger.Printf("[terminal] canvas cursor %d at (%d, %d) not drawn", kind, x, y)
}

func (b *canvasBackend) Bell() {}

// SetMessage shows msg in the page message zone
func (b *canvasBackend) SetMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setMessage(msg)
}
