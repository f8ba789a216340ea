// SPDX-License-Identifier: Unlicense OR MIT

package glyphatlas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// IsSynthetic reports whether r must bypass the font entirely: box
// drawing, block elements, braille, and Powerline glyphs are generated
// pixel-perfect so they tile the cell grid exactly (spec §4.1.2).
func IsSynthetic(r rune) bool {
	switch {
	case r >= 0x2500 && r <= 0x257F: // box drawing
		return true
	case r >= 0x2580 && r <= 0x259F: // block elements
		return true
	case r >= 0x2800 && r <= 0x28FF: // braille
		return true
	case r >= 0xE0B0 && r <= 0xE0B3: // powerline
		return true
	}
	return false
}

// renderSynthetic draws a cell_w x cell_h bitmap for r and packs it like
// any other glyph. Synthetic glyphs always tile seamlessly: bearing_x=0,
// bearing_y=ascender, advance=cell_w.
func (a *Atlas) renderSynthetic(r rune) *GlyphInfo {
	w, h := a.CellW, a.CellH
	if a.cursorX+w+gap > Size {
		a.cursorX = 0
		a.cursorY += a.rowH + gap
		a.rowH = 0
	}
	if a.cursorY+h+gap > Size {
		a.full = true
		return &GlyphInfo{BearingX: 0, BearingY: a.Ascender, Advance: a.CellW}
	}
	cell := image.NewRGBA(image.Rect(0, 0, w, h))
	paintSynthetic(cell, r, w, h)
	dst := image.Rect(a.cursorX, a.cursorY, a.cursorX+w, a.cursorY+h)
	draw.Draw(&a.img, dst, cell, image.Point{}, draw.Over)

	g := &GlyphInfo{
		UvX:      (float32(a.cursorX) + 0.5) / Size,
		UvY:      (float32(a.cursorY) + 0.5) / Size,
		UvW:      (float32(w) - 1) / Size,
		UvH:      (float32(h) - 1) / Size,
		Width:    w,
		Height:   h,
		BearingX: 0,
		BearingY: a.Ascender,
		Advance:  a.CellW,
	}
	if h > a.rowH {
		a.rowH = h
	}
	a.cursorX += w + gap
	if a.cursorY+h > a.dirtyMaxY {
		a.dirtyMaxY = a.cursorY + h + 1
	}
	a.dirty = true
	return g
}

// paintSynthetic dispatches to the four codepoint families. Thickness
// constants track spec §4.1.2: norm ~= 0.08*cell_h, thk ~= 0.18*cell_h,
// both clamped >= 1/2 px.
func paintSynthetic(img *image.RGBA, r rune, w, h int) {
	norm := math.Max(float64(h)*0.08, 0.5)
	thk := math.Max(float64(h)*0.18, 0.5)

	switch {
	case r >= 0x2800 && r <= 0x28FF:
		paintBraille(img, r, w, h)
	case r >= 0x2580 && r <= 0x259F:
		paintBlock(img, r, w, h)
	case r >= 0xE0B0 && r <= 0xE0B3:
		paintPowerline(img, r, w, h)
	case r >= 0x2500 && r <= 0x257F:
		paintBoxDrawing(img, r, w, h, norm, thk)
	}
}

func hline(img *image.RGBA, y, x0, x1 int, thickness float64) {
	t := int(math.Round(thickness))
	if t < 1 {
		t = 1
	}
	top := y - t/2
	fillRect(img, x0, top, x1, top+t)
}

func vline(img *image.RGBA, x, y0, y1 int, thickness float64) {
	t := int(math.Round(thickness))
	if t < 1 {
		t = 1
	}
	left := x - t/2
	fillRect(img, left, y0, left+t, y1)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int) {
	b := img.Bounds()
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, whiteRGBA)
		}
	}
}

var whiteRGBA = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// paintBoxDrawing draws part of U+2500..U+257F: the light and heavy
// straight lines, the light corners and tees, the light cross, the double
// straight lines, the double-dash lines (U+254C..U+254F) and the
// diagonals. Every other codepoint in the range, including the heavy,
// double, mixed and rounded corners and the triple/quadruple-dash lines,
// is drawn as a light cross, so every codepoint in range stays drawable.
func paintBoxDrawing(img *image.RGBA, r rune, w, h int, norm, thk float64) {
	cx, cy := w/2, h/2
	switch r {
	case 0x2500: // ─
		hline(img, cy, 0, w, norm)
	case 0x2501: // ━
		hline(img, cy, 0, w, thk)
	case 0x2502: // │
		vline(img, cx, 0, h, norm)
	case 0x2503: // ┃
		vline(img, cx, 0, h, thk)
	case 0x250C: // ┌
		hline(img, cy, cx, w, norm)
		vline(img, cx, cy, h, norm)
	case 0x2510: // ┐
		hline(img, cy, 0, cx, norm)
		vline(img, cx, cy, h, norm)
	case 0x2514: // └
		hline(img, cy, cx, w, norm)
		vline(img, cx, 0, cy, norm)
	case 0x2518: // ┘
		hline(img, cy, 0, cx, norm)
		vline(img, cx, 0, cy, norm)
	case 0x251C: // ├
		vline(img, cx, 0, h, norm)
		hline(img, cy, cx, w, norm)
	case 0x2524: // ┤
		vline(img, cx, 0, h, norm)
		hline(img, cy, 0, cx, norm)
	case 0x252C: // ┬
		hline(img, cy, 0, w, norm)
		vline(img, cx, cy, h, norm)
	case 0x2534: // ┴
		hline(img, cy, 0, w, norm)
		vline(img, cx, 0, cy, norm)
	case 0x253C: // ┼
		hline(img, cy, 0, w, norm)
		vline(img, cx, 0, h, norm)
	case 0x2550: // ═
		doubleHLine(img, cy, 0, w, thk)
	case 0x2551: // ║
		doubleVLine(img, cx, 0, h, thk)
	case 0x254C, 0x254D: // dashed horizontal
		dashedHLine(img, cy, w, norm)
	case 0x254E, 0x254F: // dashed vertical
		dashedVLine(img, cx, h, norm)
	case 0x2571: // diagonal
		diagonal(img, w, h, false)
	case 0x2572:
		diagonal(img, w, h, true)
	case 0x2573:
		diagonal(img, w, h, false)
		diagonal(img, w, h, true)
	default:
		hline(img, cy, 0, w, norm)
		vline(img, cx, 0, h, norm)
	}
}

func doubleHLine(img *image.RGBA, y, x0, x1 int, thk float64) {
	gapPx := int(math.Max(thk*2, 3))
	hline(img, y-gapPx/2-int(thk), x0, x1, thk)
	hline(img, y+gapPx/2+int(thk), x0, x1, thk)
}

func doubleVLine(img *image.RGBA, x, y0, y1 int, thk float64) {
	gapPx := int(math.Max(thk*2, 3))
	vline(img, x-gapPx/2-int(thk), y0, y1, thk)
	vline(img, x+gapPx/2+int(thk), y0, y1, thk)
}

func dashedHLine(img *image.RGBA, y, w int, thickness float64) {
	dash := w / 6
	if dash < 1 {
		dash = 1
	}
	for x := 0; x < w; x += dash * 2 {
		hline(img, y, x, min(x+dash, w), thickness)
	}
}

func dashedVLine(img *image.RGBA, x, h int, thickness float64) {
	dash := h / 6
	if dash < 1 {
		dash = 1
	}
	for y := 0; y < h; y += dash * 2 {
		vline(img, x, y, min(y+dash, h), thickness)
	}
}

func diagonal(img *image.RGBA, w, h int, flip bool) {
	for x := 0; x < w; x++ {
		t := float64(x) / float64(w)
		y := int(t * float64(h))
		if flip {
			y = h - 1 - y
		}
		if y >= 0 && y < h {
			img.SetRGBA(x, y, whiteRGBA)
			if x+1 < w {
				img.SetRGBA(x+1, y, whiteRGBA)
			}
		}
	}
}

// paintBlock covers U+2580..U+259F: halves, eighth-blocks, quadrants and
// shade patterns.
func paintBlock(img *image.RGBA, r rune, w, h int) {
	switch {
	case r == 0x2580: // upper half
		fillRect(img, 0, 0, w, h/2)
	case r == 0x2584: // lower half
		fillRect(img, 0, h/2, w, h)
	case r == 0x2588: // full block
		fillRect(img, 0, 0, w, h)
	case r == 0x258C: // left half
		fillRect(img, 0, 0, w/2, h)
	case r == 0x2590: // right half
		fillRect(img, w/2, 0, w, h)
	case r >= 0x2581 && r <= 0x2588: // eighth blocks, bottom-up
		n := int(r-0x2580) // 1..8
		top := h - h*n/8
		fillRect(img, 0, top, w, h)
	case r >= 0x2589 && r <= 0x258F: // left eighth blocks, widest first
		n := int(0x2590 - r) // 7..1
		fillRect(img, 0, 0, w*n/8, h)
	case r == 0x2594: // upper one eighth
		fillRect(img, 0, 0, w, h/8)
	case r == 0x2595: // right one eighth
		fillRect(img, w-w/8, 0, w, h)
	case r >= 0x2596 && r <= 0x259F: // quadrants
		paintQuadrant(img, r, w, h)
	case r == 0x2591: // light shade
		shade(img, w, h, 4)
	case r == 0x2592: // medium shade
		shade(img, w, h, 2)
	case r == 0x2593: // dark shade
		shade(img, w, h, 1)
	default:
		fillRect(img, 0, 0, w, h)
	}
}

func paintQuadrant(img *image.RGBA, r rune, w, h int) {
	// Bit 1 = upper left, 2 = upper right, 4 = lower left, 8 = lower
	// right, indexed by r-0x2596 (▖ ▗ ▘ ▙ ▚ ▛ ▜ ▝ ▞ ▟).
	masks := [10]int{4, 8, 1, 13, 9, 7, 11, 2, 6, 14}
	bits := masks[r-0x2596]
	hw, hh := w/2, h/2
	if bits&1 != 0 {
		fillRect(img, 0, 0, hw, hh)
	}
	if bits&2 != 0 {
		fillRect(img, hw, 0, w, hh)
	}
	if bits&4 != 0 {
		fillRect(img, 0, hh, hw, h)
	}
	if bits&8 != 0 {
		fillRect(img, hw, hh, w, h)
	}
}

func shade(img *image.RGBA, w, h, every int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%every == 0 {
				img.SetRGBA(x, y, whiteRGBA)
			}
		}
	}
}

// paintBraille covers U+2800..U+28FF: the low 8 bits of (r-0x2800) select
// which of the 2x4 dot positions are filled.
func paintBraille(img *image.RGBA, r rune, w, h int) {
	bits := int(r - 0x2800)
	radius := math.Max(float64(w)*0.10, 1)
	cols := []int{w / 4, 3 * w / 4}
	rows := []int{h / 8, 3 * h / 8, 5 * h / 8, 7 * h / 8}
	// Dot numbering matches the canonical braille cell layout: 1,2,3,7 on
	// the left column (top to bottom), 4,5,6,8 on the right.
	order := [8][2]int{
		{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {0, 3}, {1, 3},
	}
	for i, pos := range order {
		if bits&(1<<i) == 0 {
			continue
		}
		drawDot(img, cols[pos[0]], rows[pos[1]], radius)
	}
}

func drawDot(img *image.RGBA, cx, cy int, radius float64) {
	r2 := radius * radius
	minX, maxX := cx-int(radius)-1, cx+int(radius)+1
	minY, maxY := cy-int(radius)-1, cy+int(radius)+1
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= r2 {
				b := img.Bounds()
				if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
					img.SetRGBA(x, y, whiteRGBA)
				}
			}
		}
	}
}

// paintPowerline covers U+E0B0..U+E0B3: solid/hollow right/left arrows.
func paintPowerline(img *image.RGBA, r rune, w, h int) {
	switch r {
	case 0xE0B0: // solid right-pointing triangle
		fillTriangle(img, w, h, false, true)
	case 0xE0B1: // hollow right chevron (outline only)
		outlineTriangle(img, w, h, false)
	case 0xE0B2: // solid left-pointing triangle
		fillTriangle(img, w, h, true, true)
	case 0xE0B3: // hollow left chevron
		outlineTriangle(img, w, h, true)
	}
}

func fillTriangle(img *image.RGBA, w, h int, flip, solid bool) {
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		width := int(t * float64(w) * 2)
		if y > h/2 {
			width = int((1 - t) * float64(w) * 2)
		}
		x0 := 0
		x1 := width
		if flip {
			x0, x1 = w-width, w
		}
		fillRect(img, x0, y, x1, y+1)
	}
}

func outlineTriangle(img *image.RGBA, w, h int, flip bool) {
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		width := int(t * float64(w) * 2)
		if y > h/2 {
			width = int((1 - t) * float64(w) * 2)
		}
		x := width - 1
		if flip {
			x = w - width
		}
		if x >= 0 && x < w {
			img.SetRGBA(x, y, whiteRGBA)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
