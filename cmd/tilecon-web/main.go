//go:build js && wasm

// Command tilecon-web runs the demo on an HTML5 canvas. Build with
// GOOS=js GOARCH=wasm and serve next to index.html and wasm_exec.js
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"syscall/js"

	"github.com/lixenwraith/tilecon/config"
	"github.com/lixenwraith/tilecon/demo"
	"github.com/lixenwraith/tilecon/terminal"
)

func main() {
	cfg := config.Default()
	cfg.Backend = "canvas"
	// Page may set window.tileconAtlas to a base URL of tile images
	if base := js.Global().Get("tileconAtlas"); base.Type() == js.TypeString {
		cfg.Tile.AtlasDir = base.String()
	}

	logger := log.New(os.Stderr, "", 0)
	if !cfg.Log.Debug {
		logger.SetOutput(io.Discard)
	}

	term, err := terminal.New(cfg.TerminalOptions(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilecon: %v\n", err)
		return
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "tilecon: %v\n", err)
		return
	}
	defer term.Fini()

	bindings, err := cfg.Bindings()
	if err != nil {
		term.SetMessage(err.Error())
		return
	}
	term.SetMessage("Press keys; Escape stops the demo.")
	if err := demo.New(term, bindings).Loop(context.Background()); err != nil {
		term.SetMessage(err.Error())
		return
	}
	term.SetMessage("Demo finished.")
}
