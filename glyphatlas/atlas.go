// SPDX-License-Identifier: Unlicense OR MIT

// Package glyphatlas rasterises and packs glyphs into a single 2048x2048
// RGBA texture shared by every cell the pixel UI renderer draws. It is
// grounded on the teacher's font/opentype face loading and
// golang.org/x/image/font metric conventions, generalised from gio's
// per-rune text-layout cache to the atlas-plus-synthetic-glyph model the
// TWM chrome needs.
package glyphatlas

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// Size is the fixed atlas texture dimension in both axes.
	Size = 2048
	gap  = 2
)

// GlyphInfo describes one packed glyph's location in the atlas and its
// layout metrics, all in physical pixels except the UV rect.
type GlyphInfo struct {
	UvX, UvY, UvW, UvH                     float32
	Width, Height                          int
	BearingX, BearingY                     int
	Advance                                int
}

type glyphKey struct {
	r           rune
	bold, ital  bool
}

type glyphIDKey struct {
	id         uint32
	bold, ital bool
}

// Face is the minimal outline-rasterisation contract the atlas needs from
// a font backend; golang.org/x/image/font.Face satisfies it directly.
type Face interface {
	Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool)
	GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool)
	Metrics() font.Metrics
	Close() error
}

// Atlas packs glyphs into one RGBA8 image top-left to bottom-right,
// leaving a 2px gap between entries so NEAREST sampling never bleeds
// across neighbours even though the atlas is never linearly filtered.
type Atlas struct {
	img image.RGBA

	regular, bold, italic Face
	hasBold, hasItalic    bool

	cursorX, cursorY, rowH int
	full                   bool
	dirty                  bool
	dirtyMaxY              int

	glyphs   map[glyphKey]*GlyphInfo
	byID     map[glyphIDKey]*GlyphInfo

	// Frozen cell metrics, derived once at construction (§4.1).
	CellW, CellH int
	Ascender     int
	Descender    int
	PxScale      float64
}

// New derives cell metrics from the regular face per the em_ratio
// algorithm in spec §4.1 and pre-warms ASCII + synthetic ranges.
func New(regular, bold, italic Face, sizePx float64, lineSpacing float64) (*Atlas, error) {
	if regular == nil {
		return nil, fmt.Errorf("glyphatlas: regular face required")
	}
	a := &Atlas{
		img:     *image.NewRGBA(image.Rect(0, 0, Size, Size)),
		regular: regular,
		bold:    bold,
		italic:  italic,
		glyphs:  make(map[glyphKey]*GlyphInfo),
		byID:    make(map[glyphIDKey]*GlyphInfo),
	}
	a.hasBold = bold != nil
	a.hasItalic = italic != nil

	m := regular.Metrics()
	unitsPerEm := float64(m.Height.Ceil())
	if unitsPerEm == 0 {
		unitsPerEm = 1
	}
	// em_ratio derivation: the face already reports metrics scaled to its
	// rasterisation size; we treat that as "ascent+|descent|=size" and
	// convert to "em=size" by ratio, per spec.
	ascentUnscaled := float64(m.Ascent.Ceil())
	descentUnscaled := -float64(m.Descent.Ceil()) // x/image reports Descent as a positive distance
	emRatio := (ascentUnscaled - descentUnscaled) / unitsPerEm
	if emRatio <= 0 {
		emRatio = 1
	}
	a.PxScale = sizePx * emRatio
	a.Ascender = int(math.Ceil(ascentUnscaled * a.PxScale / unitsPerEm))
	a.Descender = int(math.Ceil(math.Abs(descentUnscaled) * a.PxScale / unitsPerEm))
	lineGap := float64(m.Height.Ceil()) - ascentUnscaled + descentUnscaled
	a.CellH = int(math.Round(float64(a.Ascender+a.Descender) + lineGap*lineSpacing))
	if a.CellH < 1 {
		a.CellH = 1
	}

	adv0, ok := regular.GlyphAdvance('0')
	if !ok || adv0 == 0 {
		adv0, ok = regular.GlyphAdvance(' ')
	}
	var cellW int
	if ok && adv0 != 0 {
		ratio := float64(adv0.Ceil()) / sizePx
		cellW = int(math.Round(ratio * float64(a.CellH)))
	} else {
		cellW = int(math.Round(float64(a.CellH) * 0.6))
	}
	if cellW < 4 {
		cellW = 4
	}
	a.CellW = cellW

	a.prewarm()
	return a, nil
}

func (a *Atlas) prewarm() {
	for r := rune(' '); r <= '~'; r++ {
		a.Glyph(r, false, false)
		if a.hasBold {
			a.Glyph(r, true, false)
		}
		if a.hasItalic {
			a.Glyph(r, false, true)
		}
	}
	for _, rg := range [][2]rune{{0x2500, 0x259F}, {0x2800, 0x28FF}, {0xE0B0, 0xE0B3}} {
		for r := rg[0]; r <= rg[1]; r++ {
			a.Glyph(r, false, false)
		}
	}
}

// Dirty reports whether the atlas texture needs a GL patch, and the
// (exclusive) max-Y of the dirty sub-rect rows 0..dirtyMaxY.
func (a *Atlas) Dirty() (bool, int) { return a.dirty, a.dirtyMaxY }

// ClearDirty is called by the pixel UI renderer once it has uploaded the
// dirty sub-rect.
func (a *Atlas) ClearDirty() { a.dirty = false }

// Image exposes the backing RGBA image for GL upload.
func (a *Atlas) Image() *image.RGBA { return &a.img }

// Glyph looks up (and rasterises + caches on miss) the glyph for a
// character in the given style. Synthetic codepoints never touch the
// font; see synthetic.go.
func (a *Atlas) Glyph(r rune, bold, italic bool) *GlyphInfo {
	key := glyphKey{r, bold, italic}
	if g, ok := a.glyphs[key]; ok {
		return g
	}
	var g *GlyphInfo
	if IsSynthetic(r) {
		g = a.renderSynthetic(r)
	} else {
		g = a.renderOutline(r, bold, italic)
	}
	a.glyphs[key] = g
	return g
}

// GlyphByID bypasses character lookup for shaped runs with ligature glyph
// ids that have no single backing rune.
func (a *Atlas) GlyphByID(id uint32, bold, italic bool) *GlyphInfo {
	key := glyphIDKey{id, bold, italic}
	if g, ok := a.byID[key]; ok {
		return g
	}
	g := a.renderOutlineByID(id, bold, italic)
	a.byID[key] = g
	return g
}

func (a *Atlas) faceFor(bold, italic bool) Face {
	switch {
	case bold && italic:
		if a.bold != nil {
			return a.bold
		}
	case bold:
		if a.bold != nil {
			return a.bold
		}
	case italic:
		if a.italic != nil {
			return a.italic
		}
	}
	return a.regular
}

func (a *Atlas) renderOutline(r rune, bold, italic bool) *GlyphInfo {
	face := a.faceFor(bold, italic)
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok && face != a.regular {
		face = a.regular
		dr, mask, maskp, advance, ok = face.Glyph(fixed.Point26_6{}, r)
	}
	if !ok {
		return nil
	}
	return a.blit(dr, mask, maskp, advance)
}

func (a *Atlas) renderOutlineByID(id uint32, bold, italic bool) *GlyphInfo {
	// HarfBuzz glyph ids are font-internal indices, not Unicode code
	// points — a glyph id only coincidentally equals a rune — so shaped
	// lookups need a face that can rasterise by index directly rather
	// than the rune-keyed Glyph method.
	face := a.faceFor(bold, italic)
	gf, ok := face.(GIDFace)
	if !ok {
		return &GlyphInfo{}
	}
	dr, mask, maskp, advance, ok := gf.GlyphByIndex(id)
	if !ok {
		return &GlyphInfo{}
	}
	return a.blit(dr, mask, maskp, advance)
}

func (a *Atlas) blit(dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6) *GlyphInfo {
	w, h := dr.Dx(), dr.Dy()
	adv := advance.Ceil()
	if w == 0 || h == 0 {
		return &GlyphInfo{Advance: adv}
	}
	if a.cursorX+w+gap > Size {
		a.cursorX = 0
		a.cursorY += a.rowH + gap
		a.rowH = 0
	}
	if a.cursorY+h+gap > Size {
		a.full = true
		return &GlyphInfo{Advance: adv}
	}
	dst := image.Rect(a.cursorX, a.cursorY, a.cursorX+w, a.cursorY+h)
	draw.DrawMask(&a.img, dst, image.NewUniform(whiteOpaque), image.Point{}, mask, maskp, draw.Over)
	g := &GlyphInfo{
		UvX:      (float32(a.cursorX) + 0.5) / Size,
		UvY:      (float32(a.cursorY) + 0.5) / Size,
		UvW:      (float32(w) - 1) / Size,
		UvH:      (float32(h) - 1) / Size,
		Width:    w,
		Height:   h,
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  adv,
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

var whiteOpaque = whiteMaskColor{}

// whiteMaskColor makes draw.DrawMask write solid white with the source
// mask's alpha as coverage, matching "write RGBA(0xFF,0xFF,0xFF,coverage)".
type whiteMaskColor struct{}

func (whiteMaskColor) RGBA() (r, g, b, a uint32) { return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF }
