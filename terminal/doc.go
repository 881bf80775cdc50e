// @lixen: #focus{sys[term]}
// Package terminal provides a fixed-grid CP437 console with double-buffered output.
//
// A Terminal keeps a shadow grid of what is on screen. DrawBuffer diffs a
// Drawable against the grid and stages only the cells that changed; Flip hands
// the staged batch to the backend, which paints backgrounds then glyphs and
// makes the whole frame visible at once.
//
// Backends:
//   - image: in-memory tile renderer, always available, supports Snapshot
//   - tcell: terminal output through tcell (not on js)
//   - ebiten: desktop window (not with the headless tag)
//   - canvas: browser canvas through syscall/js
//
// Keyboard input from every backend arrives as DOM-style key codes in a
// bounded input.Queue.
package terminal
