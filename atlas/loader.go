package atlas

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/tilecon/palette"
)

// Paths lists atlas image files, relative to the loader filesystem
type Paths struct {
	Background string
	Foreground [palette.Count]string
}

// DefaultPaths returns the images/colors.png plus images/char/N.png layout
func DefaultPaths() Paths {
	p := Paths{Background: "images/colors.png"}
	for i := range p.Foreground {
		p.Foreground[i] = fmt.Sprintf("images/char/%d.png", i)
	}
	return p
}

// All returns every path, background first
func (p Paths) All() []string {
	all := make([]string, 0, 1+len(p.Foreground))
	all = append(all, p.Background)
	all = append(all, p.Foreground[:]...)
	return all
}

// Load decodes all atlas images concurrently and returns once every decode finished.
// Any failed image fails the load.
func Load(ctx context.Context, fsys fs.FS, m Metrics, paths Paths) (*Atlas, error) {
	a := &Atlas{Metrics: m}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		img, err := decodeFile(ctx, fsys, paths.Background)
		a.Background = img
		return err
	})
	for i, p := range paths.Foreground {
		i, p := i, p
		g.Go(func() error {
			img, err := decodeFile(ctx, fsys, p)
			a.Foreground[i] = img
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeFile(ctx context.Context, fsys fs.FS, name string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("atlas: open %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("atlas: decode %s: %w", name, err)
	}
	return img, nil
}

// Save writes the atlas under dir as PNG files in the DefaultPaths layout
func Save(dir string, a *Atlas) error {
	paths := DefaultPaths()
	images := make([]image.Image, 0, 1+len(a.Foreground))
	images = append(images, a.Background)
	images = append(images, a.Foreground[:]...)

	for i, name := range paths.All() {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("atlas: %w", err)
		}
		if err := writePNG(full, images[i]); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("atlas: create %s: %w", path.Base(name), err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("atlas: encode %s: %w", path.Base(name), err)
	}
	return f.Close()
}
