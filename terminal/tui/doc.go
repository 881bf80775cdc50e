// Package tui provides retained drawable buffers for the terminal package.
//
// A Buffer is a rectangle of CP437 cells with an offset and children. Drawing
// a Buffer hands it to a Target (normally a terminal.Terminal) only when it or
// an ancestor is dirty; children follow at the parent's padded origin.
//
// Usage pattern:
//
//	box := tui.NewBox(40, 10, tui.DefaultBoxOpts())
//	box.Move(2, 2)
//	title := tui.NewPlainText("Hello", tui.DefaultTextOpts())
//	box.Children = append(box.Children, title)
//
//	box.Draw(term)
//	term.Flip()
package tui
