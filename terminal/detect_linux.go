//go:build linux && !js

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// detectBackend picks tcell when stdout is an interactive terminal, otherwise
// the in-memory image backend
func detectBackend() string {
	if term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb" {
		if _, ok := lookupBackend("tcell"); ok {
			return "tcell"
		}
	}
	return "image"
}

// RestoreTTY attempts to put the controlling terminal back into cooked mode.
// Best-effort for crash recovery; errors ignored
func RestoreTTY() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if termios, err := unix.IoctlGetTermios(fd, unix.TCGETS); err == nil {
		termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
		termios.Iflag |= unix.ICRNL
		unix.IoctlSetTermios(fd, unix.TCSETS, termios)
	}
	// Show cursor and leave the alternate screen
	tty.WriteString("\x1b[?25h\x1b[?1049l")
}
