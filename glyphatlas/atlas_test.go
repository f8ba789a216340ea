// SPDX-License-Identifier: Unlicense OR MIT

package glyphatlas

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// fakeFace is a minimal Face for testing metric derivation and the
// rasterisation/caching contract without a real font backend.
type fakeFace struct {
	size fixed.Int26_6
}

func (f fakeFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	if r == ' ' {
		return image.Rectangle{}, nil, image.Point{}, f.size / 2, true
	}
	dr := image.Rect(0, 0, 6, 10)
	mask := image.NewAlpha(dr)
	for i := range mask.Pix {
		mask.Pix[i] = 0xFF
	}
	return dr, mask, image.Point{}, f.size / 2, true
}

func (f fakeFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return f.size / 2, true
}

func (f fakeFace) Metrics() font.Metrics {
	return font.Metrics{
		Height:  f.size,
		Ascent:  f.size * 4 / 5,
		Descent: f.size / 5,
	}
}

func (f fakeFace) Close() error { return nil }

// fakeGIDFace is a Face that also satisfies GIDFace, with a glyph index
// space deliberately disjoint from its rune space: GlyphByIndex(id) only
// succeeds for ids >= gidBase, so a test that accidentally routes a
// glyph id through the rune-keyed Glyph method fails loudly instead of
// silently rendering a coincidentally-matching rune.
type fakeGIDFace struct {
	fakeFace
}

const gidBase = 10000

func (f fakeGIDFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	if uint32(r) >= gidBase {
		// A caller that casts a glyph id to rune and reaches this method
		// instead of GlyphByIndex must not get a plausible glyph back.
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	return f.fakeFace.Glyph(dot, r)
}

func (f fakeGIDFace) GlyphByIndex(gid uint32) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	if gid < gidBase {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	dr := image.Rect(0, 0, 8, 12)
	mask := image.NewAlpha(dr)
	for i := range mask.Pix {
		mask.Pix[i] = 0xFF
	}
	return dr, mask, image.Point{}, f.size / 2, true
}

func newTestAtlas(t *testing.T) *Atlas {
	t.Helper()
	a, err := New(fakeFace{size: fixed.I(16)}, nil, nil, 16, 1.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// P3: atlas lookups are monotone — a second lookup for the same key
// returns identical UVs to the first.
func TestP3AtlasMonotonicity(t *testing.T) {
	a := newTestAtlas(t)
	g1 := a.Glyph('Q', false, false)
	g2 := a.Glyph('Q', false, false)
	if g1 != g2 {
		t.Fatalf("expected identical cached GlyphInfo pointer, got distinct")
	}
	if g1.UvX != g2.UvX || g1.UvY != g2.UvY {
		t.Fatalf("UVs changed between lookups")
	}
}

// P5: every synthetic codepoint has bearing_x=0, bearing_y=ascender,
// advance=cell_w.
func TestP5SyntheticBearings(t *testing.T) {
	a := newTestAtlas(t)
	ranges := [][2]rune{{0x2500, 0x257F}, {0x2580, 0x259F}, {0x2800, 0x28FF}, {0xE0B0, 0xE0B3}}
	for _, rg := range ranges {
		for r := rg[0]; r <= rg[1]; r++ {
			g := a.Glyph(r, false, false)
			if g.BearingX != 0 {
				t.Fatalf("%U: bearing_x = %d, want 0", r, g.BearingX)
			}
			if g.BearingY != a.Ascender {
				t.Fatalf("%U: bearing_y = %d, want %d", r, g.BearingY, a.Ascender)
			}
			if g.Advance != a.CellW {
				t.Fatalf("%U: advance = %d, want %d", r, g.Advance, a.CellW)
			}
		}
	}
}

func TestSpaceGlyphHasNoPixelsButAdvances(t *testing.T) {
	a := newTestAtlas(t)
	g := a.Glyph(' ', false, false)
	if g.Width != 0 || g.Height != 0 {
		t.Fatalf("space glyph should have zero extent, got %dx%d", g.Width, g.Height)
	}
	if g.Advance == 0 {
		t.Fatalf("space glyph must still advance the pen")
	}
}

// GlyphByID must rasterise via the glyph-id-keyed path, not by casting
// the id to a rune and reusing Glyph — HarfBuzz glyph ids are
// font-internal indices with no general relationship to code points.
func TestGlyphByIDUsesIndexPathNotRune(t *testing.T) {
	a, err := New(fakeGIDFace{fakeFace{size: fixed.I(16)}}, nil, nil, 16, 1.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g := a.GlyphByID(gidBase+1, false, false)
	if g == nil || g.Width != 8 || g.Height != 12 {
		t.Fatalf("GlyphByID did not use the glyph-index path: %+v", g)
	}
}

// A Face that only implements the rune-keyed Glyph method (no GIDFace)
// must not silently misrender shaped glyphs; GlyphByID degrades to an
// empty (but non-nil) GlyphInfo rather than guessing via rune(id).
func TestGlyphByIDWithoutGIDFaceIsEmpty(t *testing.T) {
	a := newTestAtlas(t)
	g := a.GlyphByID(uint32('Q'), false, false)
	if g == nil {
		t.Fatalf("GlyphByID returned nil")
	}
	if g.Width != 0 || g.Height != 0 {
		t.Fatalf("expected empty glyph when face lacks GIDFace, got %dx%d", g.Width, g.Height)
	}
}

// variableSizeFace hands back a wide-but-short 24x4 bitmap for 'Ŵ' and a
// narrow-but-tall 4x20 one for 'Ť' (neither is prewarmed by New), so
// packing both into the same row gives a row height of 20 when height is
// tracked and 24 when width is tracked instead.
type variableSizeFace struct {
	fakeFace
}

func (f variableSizeFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	var dr image.Rectangle
	switch r {
	case 'Ŵ':
		dr = image.Rect(0, 0, 24, 4)
	case 'Ť':
		dr = image.Rect(0, 0, 4, 20)
	default:
		return f.fakeFace.Glyph(dot, r)
	}
	mask := image.NewAlpha(dr)
	for i := range mask.Pix {
		mask.Pix[i] = 0xFF
	}
	return dr, mask, image.Point{}, f.size / 2, true
}

// blit must track the tallest glyph packed into a row, not the widest,
// or the next row starts too close and overlaps the row above it.
func TestRowHeightTracksTallestGlyphNotWidest(t *testing.T) {
	a, err := New(variableSizeFace{fakeFace{size: fixed.I(16)}}, nil, nil, 16, 1.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Glyph('Ŵ', false, false)
	a.Glyph('Ť', false, false)
	if a.rowH != 20 {
		t.Fatalf("rowH = %d, want 20 (height of the tallest glyph in the row, not the widest)", a.rowH)
	}
}

func TestCellMetricsFrozenAfterConstruction(t *testing.T) {
	a := newTestAtlas(t)
	w, h := a.CellW, a.CellH
	a.Glyph('x', false, false)
	if a.CellW != w || a.CellH != h {
		t.Fatalf("cell metrics must not change after construction")
	}
}
