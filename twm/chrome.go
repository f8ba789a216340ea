// SPDX-License-Identifier: Unlicense OR MIT

package twm

import (
	"fmt"
	"time"

	"trixie.run/pixelui"
)

// cell is one ratatui-style character cell: a glyph plus fg/bg and a
// couple of style bits. Grounded on the original_source twm_drop_in.rs
// Buffer/Cell pair, adapted from a terminal emulator's screen buffer to a
// compositor's offscreen chrome layer.
type cell struct {
	Ch        rune
	Fg, Bg    Color
	Bold, Dim bool
}

// buffer is a dense row-major cell grid sized cols*rows. Nil bg (the zero
// Color, which equals pixelui.Reset) marks a cell as a hole: the pixel UI
// renderer skips painting it, letting an embedded client's texture show
// through.
type buffer struct {
	cols, rows int
	cells      []cell
}

func newBuffer(cols, rows int) *buffer {
	return &buffer{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

func (b *buffer) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return nil
	}
	return &b.cells[y*b.cols+x]
}

func (b *buffer) clear(bg Color) {
	for i := range b.cells {
		b.cells[i] = cell{Ch: ' ', Bg: bg}
	}
}

func (b *buffer) setStr(x, y int, s string, fg, bg Color, bold, dim bool) {
	for _, r := range s {
		c := b.at(x, y)
		if c == nil {
			return
		}
		*c = cell{Ch: r, Fg: fg, Bg: bg, Bold: bold, Dim: dim}
		x++
	}
}

// hole marks a rectangular cell region as transparent (for embedded panes).
func (b *buffer) hole(x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if c := b.at(x, y); c != nil {
				*c = cell{Ch: ' '}
			}
		}
	}
}

func truncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func sigilFor(c PaneContent) string {
	switch c.Kind {
	case ContentShell:
		return "$"
	case ContentEmbedded:
		return "▣"
	default:
		return " "
	}
}

// BuildFrameCmds recomputes cols/rows from the viewport and cell size,
// resizes and reflows if needed, rasterises the active workspace's panes
// (bordered blocks, titles, embedded holes) and the status bar into the
// cell buffer, then flattens the buffer into pixelui draw commands.
func (s *State) BuildFrameCmds(cellW, cellH, vpW, vpH int) []pixelui.DrawCmd {
	cols := vpW / cellW
	rows := vpH / cellH
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols != s.cols || rows != s.rows || s.cellBuf == nil {
		s.Resize(cols, rows)
	}
	s.Reflow(cellH, float64(vpW), float64(vpH))

	if s.cellBuf == nil {
		s.cellBuf = newBuffer(cols, rows)
	}
	buf := s.cellBuf
	buf.clear(s.theme.PaneBg)

	now := s.now()
	ws := s.active()
	barRows := 0
	if s.barVisible {
		barRows = 1
	}
	barAtTop := s.barVisible && !s.barAtBottom

	paneTop := 0
	if barAtTop {
		paneTop = barRows
	}
	paneRows := rows - barRows

	var cmds []pixelui.DrawCmd

	for _, id := range ws.Panes {
		p := s.panes[id]
		if p == nil {
			continue
		}
		r := p.Anim.At(now)
		x0 := int(r.X) / cellW
		y0 := int(r.Y) / cellH // Reflow already offsets r.Y past a top bar
		w := int(r.W) / cellW
		h := int(r.H) / cellH
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		if y0+h > paneTop+paneRows {
			h = paneTop + paneRows - y0
		}
		if h < 1 {
			continue
		}

		focused := ws.Focused != nil && *ws.Focused == id
		border := s.theme.InactiveBorder
		if focused {
			border = s.theme.ActiveBorder
		}

		drawBoxBorder(buf, x0, y0, w, h, border)

		label := paneLabel(p.Content)
		sigil := sigilFor(p.Content)
		title := fmt.Sprintf(" %s [%d] %s ", label, id, sigil)
		title = truncateLabel(title, w-2)
		if w > 2 {
			buf.setStr(x0+1, y0, title, s.theme.TextFg, border, focused, !focused)
		}

		switch p.Content.Kind {
		case ContentEmbedded:
			if w > 2 && h > 2 {
				buf.hole(x0+1, y0+1, w-2, h-2)
			}
		case ContentShell:
			if w > 2 && h > 3 {
				buf.setStr(x0+1, y0+2, "[terminal]", s.theme.TextFg, s.theme.PaneBg, false, true)
			}
		}
	}

	if s.barVisible {
		barY := 0
		if s.barAtBottom {
			barY = rows - 1
		}
		drawBar(buf, barY, cols, s, now)
	}

	cmds = append(cmds, flattenBuffer(buf, cellW, cellH)...)
	return cmds
}

func paneLabel(c PaneContent) string {
	switch c.Kind {
	case ContentShell:
		return c.Title
	case ContentEmbedded:
		return c.AppID
	default:
		return "empty"
	}
}

func drawBoxBorder(buf *buffer, x0, y0, w, h int, fg Color) {
	for x := x0; x < x0+w; x++ {
		buf.setStr(x, y0, "─", fg, Color{}, false, false)
		buf.setStr(x, y0+h-1, "─", fg, Color{}, false, false)
	}
	for y := y0; y < y0+h; y++ {
		buf.setStr(x0, y, "│", fg, Color{}, false, false)
		buf.setStr(x0+w-1, y, "│", fg, Color{}, false, false)
	}
	buf.setStr(x0, y0, "┌", fg, Color{}, false, false)
	buf.setStr(x0+w-1, y0, "┐", fg, Color{}, false, false)
	buf.setStr(x0, y0+h-1, "└", fg, Color{}, false, false)
	buf.setStr(x0+w-1, y0+h-1, "┘", fg, Color{}, false, false)
}

// drawBar renders workspace tabs, a pane-count badge, a layout-change
// flash, a centred layout label, and a right-aligned clock.
func drawBar(buf *buffer, y, cols int, s *State, now time.Time) {
	bg := s.theme.BarBg
	for x := 0; x < cols; x++ {
		buf.setStr(x, y, " ", s.theme.TextFg, bg, false, false)
	}

	x := 0
	for i := 0; i < NumWorkspaces; i++ {
		ws := &s.workspaces[i]
		fg := s.theme.EmptyTab
		if len(ws.Panes) > 0 {
			fg = s.theme.OccupiedTab
		}
		bold := i == s.activeWS
		label := fmt.Sprintf(" %d ", i+1)
		buf.setStr(x, y, label, fg, bg, bold, false)
		x += len([]rune(label))
	}

	active := s.active()
	badge := fmt.Sprintf(" %d panes ", len(active.Panes))
	buf.setStr(x+1, y, badge, s.theme.TextFg, bg, false, true)

	layoutLabel := active.Layout.String()
	if now.Sub(s.lastLayoutChange) < 700*time.Millisecond {
		layoutLabel = "[" + layoutLabel + "]"
	}
	centreX := cols/2 - len([]rune(layoutLabel))/2
	if centreX > x {
		buf.setStr(centreX, y, layoutLabel, s.theme.TextFg, bg, false, false)
	}

	clock := now.Format("15:04")
	clockX := cols - len([]rune(clock)) - 1
	if clockX > 0 {
		buf.setStr(clockX, y, clock, s.theme.TextFg, bg, false, false)
	}
}

// flattenBuffer converts the cell grid into draw commands: one filled
// background rect per run of identical bg colour, one Text command per
// non-space run sharing fg/style, skipping pure-black-bg/space holes
// entirely so the renderer leaves the embedded client's texture visible.
func flattenBuffer(buf *buffer, cellW, cellH int) []pixelui.DrawCmd {
	var cmds []pixelui.DrawCmd
	for y := 0; y < buf.rows; y++ {
		x := 0
		for x < buf.cols {
			c := buf.at(x, y)
			if c == nil {
				x++
				continue
			}
			if c.Ch == ' ' && c.Bg == (Color{}) {
				x++
				continue
			}
			runStart := x
			bg := c.Bg
			for x < buf.cols {
				cc := buf.at(x, y)
				if cc == nil || cc.Bg != bg {
					break
				}
				x++
			}
			runEnd := x
			w := float32((runEnd - runStart) * cellW)
			h := float32(cellH)
			if bg != (Color{}) {
				px := float32(runStart * cellW)
				py := float32(y * cellH)
				cmds = append(cmds, pixelui.FillRect(pixelui.Rect{X: px, Y: py, W: w, H: h}, pixelui.Color(bg)))
			}
			// Sub-group the bg run by fg/bold so adjacent cells that only
			// differ in style (e.g. an occupied vs. empty workspace tab)
			// don't collapse onto the first cell's style.
			for tx := runStart; tx < runEnd; {
				tc := buf.at(tx, y)
				fg, bold := tc.Fg, tc.Bold
				subStart := tx
				var text []rune
				for tx < runEnd {
					sc := buf.at(tx, y)
					if sc == nil || sc.Fg != fg || sc.Bold != bold {
						break
					}
					text = append(text, sc.Ch)
					tx++
				}
				s := string(text)
				if trimmed := trimRight(s); trimmed != "" {
					px := float32(subStart * cellW)
					py := float32(y * cellH)
					style := pixelui.TextStyle{Fg: pixelui.Color(fg), Bg: pixelui.Color(bg), Bold: bold}
					cmds = append(cmds, pixelui.Text(px, py, s, style, 0))
				}
			}
		}
	}
	return cmds
}

func trimRight(s string) string {
	r := []rune(s)
	i := len(r)
	for i > 0 && r[i-1] == ' ' {
		i--
	}
	return string(r[:i])
}
