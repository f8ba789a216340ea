// SPDX-License-Identifier: Unlicense OR MIT

package pixelui

import "testing"

func TestStrokeRectExpandsToFourBars(t *testing.T) {
	bars := strokeToFills(Rect{X: 10, Y: 10, W: 100, H: 50}, 2)
	if len(bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(bars))
	}
	top, bottom, left, right := bars[0].Rect, bars[1].Rect, bars[2].Rect, bars[3].Rect
	if top.Y != 10 || top.H != 2 {
		t.Fatalf("top bar wrong: %+v", top)
	}
	if bottom.Y != 58 || bottom.H != 2 {
		t.Fatalf("bottom bar wrong: %+v", bottom)
	}
	if left.X != 10 || left.W != 2 {
		t.Fatalf("left bar wrong: %+v", left)
	}
	if right.X != 108 || right.W != 2 {
		t.Fatalf("right bar wrong: %+v", right)
	}
}

func TestResetIsZeroColor(t *testing.T) {
	if Reset != (Color{}) {
		t.Fatalf("Reset must be the zero Color")
	}
}

func TestThreadLocalInstallCurrentUninstall(t *testing.T) {
	r := &Renderer{}
	Install(42, r)
	if Current(42) != r {
		t.Fatalf("Current did not return installed renderer")
	}
	Uninstall(42)
	if Current(42) != nil {
		t.Fatalf("expected nil after Uninstall")
	}
}
