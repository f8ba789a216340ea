// SPDX-License-Identifier: Unlicense OR MIT

// Package shaper segments styled strings into uniform runs and shapes
// non-synthetic runs into positioned glyph sequences. It is grounded on
// the teacher's text/shaper.go run/Face model (Parameters, FontFace) and
// wires github.com/benoitkugler/textlayout/harfbuzz as the HarfBuzz
// shaping engine the glyph pipeline needs; run segmentation only needs
// to split on a style or synthetic-glyph boundary, both already known
// per character, so it stays a direct rune scan rather than reaching
// for a general Unicode segmentation library.
package shaper

import (
	"github.com/benoitkugler/textlayout/fonts"
	"github.com/benoitkugler/textlayout/harfbuzz"

	"trixie.run/glyphatlas"
)

// Run is a maximal substring sharing style and synthetic-ness.
type Run struct {
	StartCol int
	Text     string
	Bold     bool
	Italic   bool
	Synth    bool
}

// ShapedGlyph is one output glyph from Shape: a font glyph id and the
// number of input characters its cluster covers.
type ShapedGlyph struct {
	GlyphID      uint32
	ClusterWidth int
}

// Shaper shapes non-synthetic runs via HarfBuzz; synthetic runs are never
// passed to Shape (callers draw each char directly via the atlas).
type Shaper struct {
	font *harfbuzz.Font
}

// New wraps a parsed font face (via benoitkugler/textlayout/fonts) as a
// harfbuzz.Font ready to shape.
func New(face fonts.FaceMetrics) *Shaper {
	return &Shaper{font: harfbuzz.NewFont(face)}
}

// SegmentStr splits text into runs of uniform (bold, italic, synthetic).
// Every run carries the call's bold and italic bits; a new run starts
// whenever the synthetic classification changes between adjacent
// characters.
func SegmentStr(text string, bold, italic bool) []Run {
	if text == "" {
		return nil
	}
	var runs []Run
	runes := []rune(text)
	start := 0
	synth := glyphatlas.IsSynthetic(runes[0])
	for i := 1; i <= len(runes); i++ {
		boundary := i == len(runes)
		if !boundary {
			s := glyphatlas.IsSynthetic(runes[i])
			boundary = s != synth
		}
		if boundary {
			runs = append(runs, Run{
				StartCol: start,
				Text:     string(runes[start:i]),
				Bold:     bold,
				Italic:   italic,
				Synth:    synth,
			})
			if i < len(runes) {
				start = i
				synth = glyphatlas.IsSynthetic(runes[i])
			}
		}
	}
	return runs
}

// Shape shapes one non-synthetic run's text. Empty input returns an empty
// (nil) result. Callers must never pass a synthetic run (Run.Synth==true)
// — the atlas renders those glyph-by-glyph directly.
func (s *Shaper) Shape(runText string) []ShapedGlyph {
	if runText == "" {
		return nil
	}
	runes := []rune(runText)

	buf := harfbuzz.NewBuffer()
	buf.AddRunes([]rune(runText), 0, -1)
	buf.GuessSegmentProperties()
	buf.Shape(s.font, nil)

	infos := buf.Info
	positions := buf.Pos
	_ = positions

	clusters := make([]int, len(infos))
	glyphIDs := make([]uint32, len(infos))
	for i, info := range infos {
		clusters[i] = int(info.Cluster)
		glyphIDs[i] = uint32(info.Glyph)
	}
	widths := clusterWidths(clusters, runes, runText)

	out := make([]ShapedGlyph, len(infos))
	for i := range infos {
		out[i] = ShapedGlyph{GlyphID: glyphIDs[i], ClusterWidth: widths[i]}
	}
	return out
}

// clusterWidths computes, for each glyph's cluster start byte offset, the
// number of characters up to the next glyph's cluster start (or end of
// input), minimum 1. Pulled out of Shape so the ligature/cluster-width
// arithmetic (spec §4.2, property S6) is testable without a real
// HarfBuzz font.
func clusterWidths(clusters []int, runes []rune, text string) []int {
	widths := make([]int, len(clusters))
	for i, start := range clusters {
		end := len(text)
		if i+1 < len(clusters) {
			end = clusters[i+1]
		}
		w := runeLenBetweenByteOffsets(runes, text, start, end)
		if w < 1 {
			w = 1
		}
		widths[i] = w
	}
	return widths
}

// runeLenBetweenByteOffsets counts the characters of s between two byte
// offsets, matching HarfBuzz's byte-cluster convention while exposing
// cluster_width in characters as spec §4.2 requires.
func runeLenBetweenByteOffsets(runes []rune, s string, startByte, endByte int) int {
	if endByte <= startByte {
		return 0
	}
	n := 0
	b := 0
	for _, r := range s {
		if b >= startByte && b < endByte {
			n++
		}
		b += runeByteLen(r)
		if b >= endByte {
			break
		}
	}
	return n
}

func runeByteLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
