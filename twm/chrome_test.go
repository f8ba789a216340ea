// SPDX-License-Identifier: Unlicense OR MIT

package twm

import (
	"testing"

	"trixie.run/pixelui"
)

// flattenBuffer groups cells into a background fill per bg run, but text
// commands must be sub-grouped further by fg/bold: two adjacent cells
// sharing a bg colour (e.g. an occupied and an empty workspace tab on the
// status bar) must not collapse onto a single Text command carrying only
// the first cell's style.
func TestFlattenBufferSplitsTextRunsOnStyleChange(t *testing.T) {
	buf := newBuffer(8, 1)
	buf.clear(Color{R: 0, G: 0, B: 0, A: 0})
	bg := Color{R: 1, G: 1, B: 1, A: 1}
	fgA := Color{R: 2, G: 2, B: 2, A: 1}
	fgB := Color{R: 3, G: 3, B: 3, A: 1}
	buf.setStr(0, 0, "ab", fgA, bg, false, false)
	buf.setStr(2, 0, "cd", fgB, bg, true, false)

	cmds := flattenBuffer(buf, 10, 16)

	var texts []pixelui.DrawCmd
	for _, c := range cmds {
		if c.Kind == pixelui.CmdText {
			texts = append(texts, c)
		}
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 Text commands (one per style run), got %d: %+v", len(texts), texts)
	}
	if texts[0].Text != "ab" || texts[0].Style.Fg != fgA || texts[0].Style.Bold {
		t.Fatalf("first run = %+v, want text=ab fg=%v bold=false", texts[0], fgA)
	}
	if texts[1].Text != "cd" || texts[1].Style.Fg != fgB || !texts[1].Style.Bold {
		t.Fatalf("second run = %+v, want text=cd fg=%v bold=true", texts[1], fgB)
	}
}
