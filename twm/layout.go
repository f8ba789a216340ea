// SPDX-License-Identifier: Unlicense OR MIT

package twm

// layoutRects computes N target rects for ids within content per the
// active Layout. Order of the returned slice matches ids.
func layoutRects(l Layout, content RectF, ids []PaneID, mainRatio float32, gap float64) []RectF {
	n := len(ids)
	if n == 0 {
		return nil
	}
	switch l {
	case LayoutMonocle:
		rects := make([]RectF, n)
		for i := range rects {
			rects[i] = content
		}
		return rects
	case LayoutColumns:
		return columnsLayout(content, n, mainRatio, gap)
	case LayoutRows:
		return rowsLayout(content, n, mainRatio, gap)
	default:
		return bspLayout(content, n, gap)
	}
}

func columnsLayout(content RectF, n int, mainRatio float32, gap float64) []RectF {
	if n == 1 {
		return []RectF{content}
	}
	mainW := content.W * float64(mainRatio)
	if mainW < 4 {
		mainW = 4
	}
	rects := make([]RectF, n)
	rects[0] = RectF{content.X, content.Y, mainW, content.H}
	restX := content.X + mainW + gap
	restW := content.W - mainW - gap
	if restW < 0 {
		restW = 0
	}
	m := n - 1
	share := (content.H - gap*float64(m-1)) / float64(m)
	y := content.Y
	for i := 1; i < n; i++ {
		rects[i] = RectF{restX, y, restW, share}
		y += share + gap
	}
	return rects
}

func rowsLayout(content RectF, n int, mainRatio float32, gap float64) []RectF {
	if n == 1 {
		return []RectF{content}
	}
	mainH := content.H * float64(mainRatio)
	if mainH < 4 {
		mainH = 4
	}
	rects := make([]RectF, n)
	rects[0] = RectF{content.X, content.Y, content.W, mainH}
	restY := content.Y + mainH + gap
	restH := content.H - mainH - gap
	if restH < 0 {
		restH = 0
	}
	m := n - 1
	share := (content.W - gap*float64(m-1)) / float64(m)
	x := content.X
	for i := 1; i < n; i++ {
		rects[i] = RectF{x, restY, share, restH}
		x += share + gap
	}
	return rects
}

// bspLayout recursively halves content, alternating split orientation
// starting with vertical if content is wider than tall.
func bspLayout(content RectF, n int, gap float64) []RectF {
	out := make([]RectF, 0, n)
	startVertical := content.W >= content.H
	bspRecurse(content, n, startVertical, gap, &out)
	return out
}

func bspRecurse(content RectF, n int, vertical bool, gap float64, out *[]RectF) {
	if n <= 1 {
		*out = append(*out, content)
		return
	}
	left := n / 2
	right := n - left
	if vertical {
		w := (content.W - gap) / 2
		a := RectF{content.X, content.Y, w, content.H}
		b := RectF{content.X + w + gap, content.Y, content.W - w - gap, content.H}
		bspRecurse(a, left, !vertical, gap, out)
		bspRecurse(b, right, !vertical, gap, out)
	} else {
		h := (content.H - gap) / 2
		a := RectF{content.X, content.Y, content.W, h}
		b := RectF{content.X, content.Y + h + gap, content.W, content.H - h - gap}
		bspRecurse(a, left, !vertical, gap, out)
		bspRecurse(b, right, !vertical, gap, out)
	}
}
