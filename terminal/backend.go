package terminal

import (
	"context"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/render"
)

// Backend abstracts the surface a Terminal draws on.
// Implementations exist for an in-memory image, a tcell terminal, an ebiten
// window and a browser canvas (js/wasm).
type Backend interface {
	// Lifecycle
	Init(rows, cols int) error
	Fini()

	// Resize changes or verifies the surface grid size
	Resize(rows, cols int) error

	// Present draws one batch of cell changes and makes it visible
	Present(changes []render.Change) error

	// Reset clears the surface to black and makes it visible
	Reset() error

	// Keys returns the queue fed by the backend's keyboard handler
	Keys() *input.Queue

	SetTitle(title string)
	SetCursor(kind CursorType, x, y int)
	Bell()
}

// Snapshotter is implemented by backends whose display can be encoded as an image
type Snapshotter interface {
	Snapshot(w io.Writer) error
}

// Messenger is implemented by backends with a status area outside the grid
type Messenger interface {
	SetMessage(msg string)
}

// BackendFactory constructs a backend from terminal options
type BackendFactory func(opts Options) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]BackendFactory)
)

// RegisterBackend makes a backend available by name; later registrations replace earlier ones
func RegisterBackend(name string, f BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Backends lists registered backend names in sorted order
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBackend(name string) (BackendFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// atlasLoadTimeout bounds how long backends wait for tile images
const atlasLoadTimeout = 30 * time.Second

// resolveAtlas returns the preloaded atlas, loads one from AtlasDir, or
// synthesizes one from the built-in font
func resolveAtlas(opts Options) (*atlas.Atlas, error) {
	if opts.Atlas != nil {
		return opts.Atlas, opts.Atlas.Validate()
	}
	if opts.AtlasDir == "" {
		return atlas.Synthesize(opts.Metrics, opts.Palette), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), atlasLoadTimeout)
	defer cancel()
	return atlas.Load(ctx, os.DirFS(opts.AtlasDir), opts.Metrics, atlas.DefaultPaths())
}

// eachValid calls fn for every change inside a rows x cols grid with valid colors.
// Invalid changes are skipped and reported through *render.ChangeError
func eachValid(changes []render.Change, rows, cols int, fn func(render.Change)) error {
	var cerr *render.ChangeError
	for _, c := range changes {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols || !c.BG.Valid() || !c.FG.Valid() {
			if cerr == nil {
				cerr = &render.ChangeError{First: c, Rows: rows, Cols: cols}
			}
			cerr.Skipped++
			continue
		}
		fn(c)
	}
	if cerr != nil {
		return cerr
	}
	return nil
}
