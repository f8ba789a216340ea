// SPDX-License-Identifier: Unlicense OR MIT

package shaper

import "testing"

func TestSegmentStrSplitsOnSyntheticBoundary(t *testing.T) {
	// 'a','b' regular, U+2500 synthetic, 'c' regular again.
	runs := SegmentStr("ab─c", false, false)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "ab" || runs[0].Synth {
		t.Fatalf("run0 = %+v", runs[0])
	}
	if runs[1].Text != "─" || !runs[1].Synth {
		t.Fatalf("run1 = %+v", runs[1])
	}
	if runs[2].Text != "c" || runs[2].Synth {
		t.Fatalf("run2 = %+v", runs[2])
	}
}

func TestSegmentStrTagsRunsWithCallStyle(t *testing.T) {
	// segment_str is called per (bold,italic) combination by the caller;
	// within one call the whole string shares style, so a style-bit
	// change only ever happens across separate SegmentStr calls. Verify
	// that a single call tags every run with the requested style.
	runs := SegmentStr("hello", true, false)
	for _, r := range runs {
		if !r.Bold || r.Italic {
			t.Fatalf("run %+v does not carry requested style", r)
		}
	}
}

func TestSegmentStrEmpty(t *testing.T) {
	if runs := SegmentStr("", false, false); runs != nil {
		t.Fatalf("expected nil for empty input, got %+v", runs)
	}
}

// S6: a two-character run shaped to one ligature glyph reports
// cluster_width=2.
func TestS6LigatureClusterWidth(t *testing.T) {
	text := "=>"
	runes := []rune(text)
	// Single HarfBuzz cluster covering both input characters: one glyph
	// (the ligature) whose cluster starts at byte 0.
	clusters := []int{0}
	widths := clusterWidths(clusters, runes, text)
	if len(widths) != 1 {
		t.Fatalf("expected one shaped glyph, got %d", len(widths))
	}
	if widths[0] != 2 {
		t.Fatalf("cluster_width = %d, want 2", widths[0])
	}
}

func TestClusterWidthMinimumOne(t *testing.T) {
	text := "ab"
	runes := []rune(text)
	clusters := []int{0, 1}
	widths := clusterWidths(clusters, runes, text)
	if widths[0] != 1 || widths[1] != 1 {
		t.Fatalf("widths = %v, want [1 1]", widths)
	}
}
