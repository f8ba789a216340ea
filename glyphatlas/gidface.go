// SPDX-License-Identifier: Unlicense OR MIT

package glyphatlas

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// GIDFace is implemented by a Face that can also rasterise a glyph
// directly by its font-internal glyph index. HarfBuzz-shaped runs
// (shaper.Shape) report glyph ids, not runes, and a glyph id only
// coincidentally equals a Unicode code point — GlyphByID goes through
// this path instead of reusing the rune-keyed Glyph method.
type GIDFace interface {
	GlyphByIndex(gid uint32) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool)
}

// gidFace pairs a rasterised font.Face with the parsed sfnt.Font it came
// from, so the same font can be looked up either by rune (ASCII
// prewarm and other unshaped lookups) or by glyph index (shaped
// runs) without a second font parse.
type gidFace struct {
	font.Face
	sfnt *sfnt.Font
	ppem fixed.Int26_6
	buf  sfnt.Buffer
}

// NewFaceFromSFNT wraps a rasterised face together with the sfnt.Font it
// was built from so the result satisfies GIDFace in addition to Face.
func NewFaceFromSFNT(face font.Face, f *sfnt.Font, sizePx float64) Face {
	return &gidFace{Face: face, sfnt: f, ppem: fixed.Int26_6(sizePx*64 + 0.5)}
}

func (g *gidFace) GlyphByIndex(gid uint32) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	idx := sfnt.GlyphIndex(gid)
	advance, err := g.sfnt.GlyphAdvance(&g.buf, idx, g.ppem, font.HintingNone)
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	segs, err := g.sfnt.LoadGlyph(&g.buf, idx, g.ppem, nil)
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	if len(segs) == 0 {
		// Whitespace and other ink-less glyphs: no mask, real advance.
		return image.Rectangle{}, nil, image.Point{}, advance, true
	}

	bounds := segmentBounds(segs)
	x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	x1, y1 := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, nil, image.Point{}, advance, true
	}

	originX := fixed.Int26_6(x0 * 64)
	originY := fixed.Int26_6(y0 * 64)
	toXY := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X-originX) / 64, float32(p.Y-originY) / 64
	}

	rast := vector.NewRasterizer(w, h)
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				rast.ClosePath()
			}
			x, y := toXY(seg.Args[0])
			rast.MoveTo(x, y)
			open = true
		case sfnt.SegmentOpLineTo:
			x, y := toXY(seg.Args[0])
			rast.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := toXY(seg.Args[0])
			x, y := toXY(seg.Args[1])
			rast.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c0x, c0y := toXY(seg.Args[0])
			c1x, c1y := toXY(seg.Args[1])
			x, y := toXY(seg.Args[2])
			rast.CubeTo(c0x, c0y, c1x, c1y, x, y)
		}
	}
	if open {
		rast.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return image.Rect(x0, y0, x1, y1), mask, image.Point{}, advance, true
}

// segmentBounds returns the control-point bounding box of segs. Control
// points always enclose a quadratic or cubic curve's extent, so this is
// a safe, if occasionally slightly loose, glyph bounding box.
func segmentBounds(segs sfnt.Segments) fixed.Rectangle26_6 {
	var rect fixed.Rectangle26_6
	first := true
	consider := func(p fixed.Point26_6) {
		if first {
			rect = fixed.Rectangle26_6{Min: p, Max: p}
			first = false
			return
		}
		if p.X < rect.Min.X {
			rect.Min.X = p.X
		}
		if p.Y < rect.Min.Y {
			rect.Min.Y = p.Y
		}
		if p.X > rect.Max.X {
			rect.Max.X = p.X
		}
		if p.Y > rect.Max.Y {
			rect.Max.Y = p.Y
		}
	}
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for i := 0; i < n; i++ {
			consider(seg.Args[i])
		}
	}
	return rect
}
