package tui

import "github.com/lixenwraith/tilecon/terminal"

// MessageBox is a bordered, scrollable log of rich-text messages
type MessageBox struct {
	Box
	lines [][]terminal.Cell
	top   int // first visible line
}

// NewMessageBox creates an empty message box of the given outer dimensions
func NewMessageBox(width, height int, opts BoxOpts) *MessageBox {
	m := &MessageBox{}
	m.Opts = opts
	m.reset(width, height)
	m.PaddingX = opts.PaddingX + 1
	m.PaddingY = opts.PaddingY + 1
	m.render()
	return m
}

// Lines returns the number of stored lines
func (m *MessageBox) Lines() int { return len(m.lines) }

// Top returns the index of the first visible line
func (m *MessageBox) Top() int { return m.top }

// Add appends msg, wrapped to the inner width. With scroll the view follows
// the newest line; otherwise it stays put
func (m *MessageBox) Add(msg string, scroll bool) {
	opts := TextOpts{FG: m.Opts.InteriorFG, BG: m.Opts.InteriorBG, WrapTo: max(m.InnerWidth(), 1)}
	m.lines = append(m.lines, richRows(msg, opts)...)
	if scroll {
		m.top = m.maxTop()
	}
	m.render()
}

// Scroll moves the view by delta lines, clamped to the content
func (m *MessageBox) Scroll(delta int) {
	m.top = max(0, min(m.top+delta, m.maxTop()))
	m.render()
}

// ScrollHome shows the oldest line
func (m *MessageBox) ScrollHome() {
	m.top = 0
	m.render()
}

// ScrollEnd shows the newest line
func (m *MessageBox) ScrollEnd() {
	m.top = m.maxTop()
	m.render()
}

func (m *MessageBox) maxTop() int {
	return max(0, len(m.lines)-m.InnerHeight())
}

// render repaints the border, the visible lines and the scrollbar
func (m *MessageBox) render() {
	m.paint()

	viewW, viewH := m.InnerWidth(), m.InnerHeight()
	for row := 0; row < viewH && m.top+row < len(m.lines); row++ {
		line := m.lines[m.top+row]
		y := m.PaddingY + row
		for x := 0; x < viewW && x < len(line); x++ {
			m.cells[y*m.width+m.PaddingX+x] = line[x]
		}
	}

	if len(m.lines) > viewH && m.Opts.DrawRight {
		m.scrollbar()
	}
}

// scrollbar replaces the right border with arrows, a track and a thumb
func (m *MessageBox) scrollbar() {
	r0, r1 := m.interiorRows()
	if r1-r0 < 2 {
		return
	}
	bt := m.Opts.Type
	x := m.width - 1
	set := func(y int, g byte) {
		m.cells[y*m.width+x] = terminal.Cell{FG: m.Opts.BorderFG, BG: m.Opts.BorderBG, Glyph: g}
	}

	set(r0, bt.ScrollbarTop)
	set(r1-1, bt.ScrollbarBottom)
	track := r1 - r0 - 2
	for y := r0 + 1; y < r1-1; y++ {
		set(y, bt.ScrollbarCenter)
	}
	if track > 0 {
		thumb := r0 + 1
		if mt := m.maxTop(); mt > 0 {
			thumb += m.top * (track - 1) / mt
		}
		set(thumb, bt.ScrollbarCenterBlock)
	}
}
