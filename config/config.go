// Package config loads tilecon settings from TOML
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/input"
	"github.com/lixenwraith/tilecon/terminal"
)

const (
	// DefaultPath is checked when no config path is given
	DefaultPath = "tilecon.toml"
)

var ErrInvalid = errors.New("config: invalid value")

// Actions are the key binding actions the demo understands
var Actions = []string{"quit", "bell", "clear"}

//go:embed default.toml
var defaultTOML string

// Config is the root configuration
type Config struct {
	Backend string              `toml:"backend"`
	Screen  ScreenConfig        `toml:"screen"`
	Tile    TileConfig          `toml:"tile"`
	Log     LogConfig           `toml:"log"`
	Audio   AudioConfig         `toml:"audio"`
	Keys    map[string][]string `toml:"keys"`
}

// ScreenConfig sizes the cell grid
type ScreenConfig struct {
	Rows   int    `toml:"rows"`
	Cols   int    `toml:"cols"`
	Title  string `toml:"title"`
	Cursor string `toml:"cursor"`
}

// TileConfig selects tile metrics and source images
type TileConfig struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	AtlasDir string `toml:"atlas_dir"`
	Scale    int    `toml:"scale"`
}

// LogConfig controls the debug log file
type LogConfig struct {
	Debug     bool   `toml:"debug"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// AudioConfig enables the bell tone
type AudioConfig struct {
	Bell bool `toml:"bell"`
}

// Default returns the embedded defaults: 120x60 cells of 8x12 tiles
func Default() Config {
	var c Config
	if _, err := toml.Decode(defaultTOML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return c
}

// Parse decodes data over the defaults. Keys present in data but unknown to
// Config are returned so callers can warn about them
func Parse(data string) (Config, []string, error) {
	c := Default()
	md, err := toml.Decode(data, &c)
	if err != nil {
		return c, nil, fmt.Errorf("config: parse: %w", err)
	}

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return c, unknown, c.Validate()
}

// LoadFile reads and parses the file at path
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	c, unknown, err := Parse(string(data))
	for _, k := range unknown {
		log.Printf("[config] %s: unknown key %q ignored", path, k)
	}
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadAuto loads config with priority: customPath > DefaultPath > embedded defaults
func LoadAuto(customPath string) (Config, error) {
	if customPath != "" {
		return LoadFile(customPath)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return LoadFile(DefaultPath)
	}
	return Default(), nil
}

// Validate rejects values no backend can honor
func (c Config) Validate() error {
	var errs []string
	if c.Screen.Rows <= 0 || c.Screen.Cols <= 0 {
		errs = append(errs, fmt.Sprintf("screen %dx%d must be positive", c.Screen.Cols, c.Screen.Rows))
	}
	if c.Tile.Width < 1 || c.Tile.Height < 1 {
		errs = append(errs, fmt.Sprintf("tile %dx%d must be at least 1x1", c.Tile.Width, c.Tile.Height))
	}
	if c.Tile.Scale < 1 {
		errs = append(errs, fmt.Sprintf("tile scale %d must be at least 1", c.Tile.Scale))
	}
	if c.Backend == "" {
		errs = append(errs, "backend must be set")
	}
	if _, err := terminal.ParseCursorType(c.Screen.Cursor); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log max_size_mb %d must not be negative", c.Log.MaxSizeMB))
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// Metrics returns the tile metrics
func (c Config) Metrics() atlas.Metrics {
	return atlas.Metrics{TileW: c.Tile.Width, TileH: c.Tile.Height}
}

// Cursor returns the parsed cursor type, blank when invalid
func (c Config) Cursor() terminal.CursorType {
	ct, _ := terminal.ParseCursorType(c.Screen.Cursor)
	return ct
}

// Bindings parses the [keys] section
func (c Config) Bindings() (*input.Bindings, error) {
	return input.ParseBindings(c.Keys, Actions)
}

// TerminalOptions converts the config into terminal options
func (c Config) TerminalOptions(logger *log.Logger) terminal.Options {
	opts := terminal.DefaultOptions()
	opts.Backend = c.Backend
	opts.Rows = c.Screen.Rows
	opts.Cols = c.Screen.Cols
	opts.Title = c.Screen.Title
	opts.Metrics = c.Metrics()
	opts.AtlasDir = c.Tile.AtlasDir
	opts.Scale = c.Tile.Scale
	opts.Bell = c.Audio.Bell
	opts.Logger = logger
	return opts
}
