// Command tilecon runs the tile console demo, renders snapshots and exports
// the synthesized tile atlas
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lixenwraith/tilecon/atlas"
	"github.com/lixenwraith/tilecon/config"
	"github.com/lixenwraith/tilecon/demo"
	"github.com/lixenwraith/tilecon/palette"
	"github.com/lixenwraith/tilecon/terminal"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML config file (default: ./" + config.DefaultPath + " if present)",
	}
	backendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "console backend: auto, image, tcell, ebiten",
	}
	rowsFlag = &cli.IntFlag{
		Name:  "rows",
		Usage: "grid height in cells",
	}
	colsFlag = &cli.IntFlag{
		Name:  "cols",
		Usage: "grid width in cells",
	}
	scaleFlag = &cli.IntFlag{
		Name:  "scale",
		Usage: "integer pixel scale for window backends",
	}
	atlasDirFlag = &cli.StringFlag{
		Name:  "atlas-dir",
		Usage: "directory holding images/colors.png and images/char/0-15.png",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "write the debug log file",
	}
	bellFlag = &cli.BoolFlag{
		Name:  "bell",
		Usage: "play a tone on bell",
	}
	outFlag = &cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "output path",
		Required: true,
	}
)

func main() {
	// Panic recovery: put the tty back before printing
	defer func() {
		if r := recover(); r != nil {
			terminal.RestoreTTY()
			fmt.Fprintf(os.Stderr, "\r\ntilecon crashed: %v\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tilecon: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "tilecon",
		Usage:  "CP437 tile console",
		Flags:  []cli.Flag{configFlag, backendFlag, rowsFlag, colsFlag, scaleFlag, atlasDirFlag, debugFlag, bellFlag},
		Action: runDemo,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "show the interactive demo",
				Action: runDemo,
			},
			{
				Name:   "snapshot",
				Usage:  "render the demo screen to a PNG file",
				Flags:  []cli.Flag{outFlag},
				Action: runSnapshot,
			},
			{
				Name:   "atlas",
				Usage:  "write the synthesized tile images to a directory",
				Flags:  []cli.Flag{outFlag},
				Action: runAtlas,
			},
			{
				Name:  "backends",
				Usage: "list registered backends",
				Action: func(ctx *cli.Context) error {
					for _, name := range terminal.Backends() {
						fmt.Fprintln(ctx.App.Writer, name)
					}
					return nil
				},
			},
		},
	}
}

// loadConfig resolves the config file and applies flag overrides
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.LoadAuto(ctx.String(configFlag.Name))
	if err != nil {
		return cfg, err
	}
	if ctx.IsSet(backendFlag.Name) {
		cfg.Backend = ctx.String(backendFlag.Name)
	}
	if ctx.IsSet(rowsFlag.Name) {
		cfg.Screen.Rows = ctx.Int(rowsFlag.Name)
	}
	if ctx.IsSet(colsFlag.Name) {
		cfg.Screen.Cols = ctx.Int(colsFlag.Name)
	}
	if ctx.IsSet(scaleFlag.Name) {
		cfg.Tile.Scale = ctx.Int(scaleFlag.Name)
	}
	if ctx.IsSet(atlasDirFlag.Name) {
		cfg.Tile.AtlasDir = ctx.String(atlasDirFlag.Name)
	}
	if ctx.IsSet(debugFlag.Name) {
		cfg.Log.Debug = ctx.Bool(debugFlag.Name)
	}
	if ctx.IsSet(bellFlag.Name) {
		cfg.Audio.Bell = ctx.Bool(bellFlag.Name)
	}
	return cfg, cfg.Validate()
}

func runDemo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if closer := setupLogging(cfg.Log); closer != nil {
		defer closer.Close()
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return err
	}

	term, err := terminal.New(cfg.TerminalOptions(log.Default()))
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	// Normal exit terminal cleanup
	defer term.Fini()
	term.SetCursorType(cfg.Cursor())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return demo.New(term, bindings).Loop(sigCtx)
}

func runSnapshot(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if closer := setupLogging(cfg.Log); closer != nil {
		defer closer.Close()
	}
	cfg.Backend = "image"

	term, err := terminal.New(cfg.TerminalOptions(log.Default()))
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Fini()

	if err := demo.New(term, nil).Draw(); err != nil {
		return err
	}

	out := ctx.String(outFlag.Name)
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := term.Snapshot(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("[main] snapshot written to %s", out)
	return nil
}

func runAtlas(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if closer := setupLogging(cfg.Log); closer != nil {
		defer closer.Close()
	}
	out := ctx.String(outFlag.Name)
	if err := atlas.Save(out, atlas.Synthesize(cfg.Metrics(), palette.Default)); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "atlas written to %s\n", out)
	return nil
}
