//go:build js && wasm

package terminal

// detectBackend always selects the browser canvas
func detectBackend() string {
	return "canvas"
}

// RestoreTTY is a no-op for WASM; termios does not exist
func RestoreTTY() {}
