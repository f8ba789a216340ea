// SPDX-License-Identifier: Unlicense OR MIT

// Package pixelui draws the TWM chrome: a GL-instanced renderer that
// turns a flat list of DrawCmds into background and glyph quad instances
// against a persistent glyph atlas texture. Grounded on the teacher's
// op/paint immediate-mode drawing model (a flat command list consumed
// once per frame) and internal/gl for the instanced-quad GL calls.
package pixelui

// Rect is a pixel-space rectangle, top-left origin.
type Rect struct {
	X, Y, W, H float32
}

// Color is a straight-alpha RGBA colour in [0,1].
type Color struct {
	R, G, B, A float32
}

// Reset is the sentinel "no background" colour: a Text command whose
// Style.Bg equals Reset paints no background quad, letting whatever is
// beneath (an embedded client's texture) show through — this is how the
// chrome punches "holes" for embedded panes.
var Reset = Color{}

// TextStyle carries the per-run styling for a Text command.
type TextStyle struct {
	Fg, Bg       Color
	Bold, Italic bool
}

// DrawCmd is a closed tagged variant — background fills, strokes, text,
// and single-pixel rule lines. No state is carried between commands.
type DrawCmd struct {
	Kind      CmdKind
	Rect      Rect
	Color     Color
	Thickness float32
	X, Y      float32
	Text      string
	Style     TextStyle
	MaxWidth  float32 // 0 = unconstrained
}

type CmdKind int

const (
	CmdFillRect CmdKind = iota
	CmdStrokeRect
	CmdText
	CmdHLine
	CmdVLine
)

func FillRect(r Rect, c Color) DrawCmd { return DrawCmd{Kind: CmdFillRect, Rect: r, Color: c} }

func StrokeRect(r Rect, c Color, thickness float32) DrawCmd {
	return DrawCmd{Kind: CmdStrokeRect, Rect: r, Color: c, Thickness: thickness}
}

func Text(x, y float32, text string, style TextStyle, maxWidth float32) DrawCmd {
	return DrawCmd{Kind: CmdText, X: x, Y: y, Text: text, Style: style, MaxWidth: maxWidth}
}

func HLine(x, y, w float32, c Color, thickness float32) DrawCmd {
	return DrawCmd{Kind: CmdHLine, Rect: Rect{X: x, Y: y, W: w}, Color: c, Thickness: thickness}
}

func VLine(x, y, h float32, c Color, thickness float32) DrawCmd {
	return DrawCmd{Kind: CmdVLine, Rect: Rect{X: x, Y: y, H: h}, Color: c, Thickness: thickness}
}

// strokeToFills expands a StrokeRect into its four bar FillRects
// (top/bottom/left/right), per spec §4.3 step 1.
func strokeToFills(r Rect, thickness float32) []DrawCmd {
	t := thickness
	return []DrawCmd{
		{Rect: Rect{r.X, r.Y, r.W, t}},             // top
		{Rect: Rect{r.X, r.Y + r.H - t, r.W, t}},    // bottom
		{Rect: Rect{r.X, r.Y, t, r.H}},              // left
		{Rect: Rect{r.X + r.W - t, r.Y, t, r.H}},    // right
	}
}
