//go:build !linux && !js

package terminal

import (
	"os"

	"golang.org/x/term"
)

// detectBackend picks tcell when stdout is an interactive terminal
func detectBackend() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if _, ok := lookupBackend("tcell"); ok {
			return "tcell"
		}
	}
	return "image"
}

// RestoreTTY is a no-op where termios does not exist
func RestoreTTY() {}
