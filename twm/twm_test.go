// SPDX-License-Identifier: Unlicense OR MIT

package twm

import "testing"

func TestP4ChromeTilesViewportExactly(t *testing.T) {
	s := New(80, 24)
	s.OpenShellPane("b")
	s.OpenShellPane("c")
	cmds := s.BuildFrameCmds(8, 16, 800, 400)
	if len(cmds) == 0 {
		t.Fatal("expected non-empty draw command list")
	}
	var maxX, maxY float32
	for _, c := range cmds {
		right := c.Rect.X + c.Rect.W
		bottom := c.Rect.Y + c.Rect.H
		if right > maxX {
			maxX = right
		}
		if bottom > maxY {
			maxY = bottom
		}
	}
	if maxX > 800 || maxY > 400 {
		t.Fatalf("chrome drew outside viewport: maxX=%v maxY=%v", maxX, maxY)
	}
}

func TestP6PaneFocusValidAfterActions(t *testing.T) {
	s := New(80, 24)
	s.OpenShellPane("b")
	s.OpenShellPane("c")
	acts := []Action{
		{Kind: ActionFocusLeft},
		{Kind: ActionFocusRight},
		{Kind: ActionClose},
		{Kind: ActionNextLayout},
		{Kind: ActionMoveLeft},
		{Kind: ActionWorkspace, Arg: 3},
		{Kind: ActionWorkspace, Arg: 1},
	}
	for _, a := range acts {
		s.Dispatch(a)
		ws := s.active()
		if ws.Focused != nil {
			if _, ok := s.panes[*ws.Focused]; !ok {
				t.Fatalf("focused pane id %d does not exist in panes map after action %v", *ws.Focused, a)
			}
			found := false
			for _, id := range ws.Panes {
				if id == *ws.Focused {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("focused pane id %d not a member of its own workspace after action %v", *ws.Focused, a)
			}
		}
	}
}

func TestR1NextLayoutFourTimesIsIdentity(t *testing.T) {
	l := LayoutBsp
	start := l
	for i := 0; i < 4; i++ {
		l = l.Next()
	}
	if l != start {
		t.Fatalf("NextLayout^4 = %v, want %v", l, start)
	}
}

func TestR2GrowShrinkMainApproxNoOp(t *testing.T) {
	s := New(80, 24)
	before := s.active().MainRatio
	s.Dispatch(Action{Kind: ActionGrowMain})
	s.Dispatch(Action{Kind: ActionShrinkMain})
	after := s.active().MainRatio
	diff := before - after
	if diff < -0.0001 || diff > 0.0001 {
		t.Fatalf("GrowMain;ShrinkMain not a no-op: before=%v after=%v", before, after)
	}
}

func TestR3WorkspaceRoundTrip(t *testing.T) {
	s := New(80, 24)
	start := s.activeWS
	s.Dispatch(Action{Kind: ActionWorkspace, Arg: 5})
	s.Dispatch(Action{Kind: ActionWorkspace, Arg: start + 1})
	if s.activeWS != start {
		t.Fatalf("workspace round trip failed: got %d want %d", s.activeWS, start)
	}
}

func TestR4MoveLeftMoveRightRoundTrip(t *testing.T) {
	s := New(80, 24)
	s.OpenShellPane("b")
	s.OpenShellPane("c")
	ws := s.active()
	before := append([]PaneID(nil), ws.Panes...)

	s.Dispatch(Action{Kind: ActionMoveLeft})
	s.Dispatch(Action{Kind: ActionMoveRight})

	after := s.active().Panes
	if len(before) != len(after) {
		t.Fatalf("pane count changed: before=%v after=%v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("move left;right not a round trip: before=%v after=%v", before, after)
		}
	}
}

func TestGrowShrinkClamped(t *testing.T) {
	s := New(80, 24)
	for i := 0; i < 50; i++ {
		s.Dispatch(Action{Kind: ActionGrowMain})
	}
	if r := s.active().MainRatio; r > 0.9 {
		t.Fatalf("MainRatio exceeded clamp: %v", r)
	}
	for i := 0; i < 50; i++ {
		s.Dispatch(Action{Kind: ActionShrinkMain})
	}
	if r := s.active().MainRatio; r < 0.1 {
		t.Fatalf("MainRatio exceeded clamp: %v", r)
	}
}

func TestAssignEmbeddedUpgradesEmptyShellInPlace(t *testing.T) {
	s := New(80, 24)
	before, _ := s.FocusedID()
	after := s.AssignEmbedded("term.app")
	if before != after {
		t.Fatalf("AssignEmbedded should upgrade focused Shell pane in place, got new id %d != %d", after, before)
	}
	c, _ := s.FocusedContent()
	if c.Kind != ContentEmbedded || c.AppID != "term.app" {
		t.Fatalf("pane content not upgraded to Embedded: %+v", c)
	}
}

func TestClosePaneByAppIDRemovesEmbeddedPane(t *testing.T) {
	s := New(80, 24)
	s.AssignEmbedded("term.app")
	s.ClosePaneByAppID("term.app")
	if _, ok := s.EmbeddedCellRect("term.app"); ok {
		t.Fatal("expected embedded pane to be gone after ClosePaneByAppID")
	}
}

// The "focus" IPC command must be able to bring an embedded pane into
// focus (and its workspace into view) purely from its app_id.
func TestFocusPaneByAppIDSwitchesWorkspaceAndFocus(t *testing.T) {
	s := New(80, 24)
	s.Dispatch(Action{Kind: ActionWorkspace, Arg: 2})
	s.AssignEmbedded("term.app")
	s.Dispatch(Action{Kind: ActionWorkspace, Arg: 1})

	if !s.FocusPaneByAppID("term.app") {
		t.Fatal("expected FocusPaneByAppID to find the claimed pane")
	}
	if s.activeWS != 1 {
		t.Fatalf("active workspace = %d, want 1 (0-based index of workspace 2)", s.activeWS)
	}
	c, ok := s.FocusedContent()
	if !ok || c.Kind != ContentEmbedded || c.AppID != "term.app" {
		t.Fatalf("focused content after FocusPaneByAppID = %+v, ok=%v", c, ok)
	}
}

func TestFocusPaneByAppIDUnknownReportsFalse(t *testing.T) {
	s := New(80, 24)
	if s.FocusPaneByAppID("nonexistent") {
		t.Fatal("expected false for an app_id with no claimed pane")
	}
}

// Reflow must reserve a full cell row (cellH physical pixels) for the
// status bar, not a single pixel — the bar occupies barHeight cell rows
// of chrome, and content below must start exactly where the bar ends.
func TestReflowReservesFullCellRowForBar(t *testing.T) {
	s := New(80, 24)
	const cellH = 16
	s.dirty = true
	s.Reflow(cellH, 800, 400)

	ws := s.active()
	id := ws.Panes[0]
	p := s.panes[id]
	target := p.Anim.Dst
	if target.Y != float64(s.barHeight)*cellH {
		t.Fatalf("content top = %v, want %v (barHeight=%d * cellH=%d)", target.Y, float64(s.barHeight)*cellH, s.barHeight, cellH)
	}
	if target.H != 400-float64(s.barHeight)*cellH {
		t.Fatalf("content height = %v, want %v", target.H, 400-float64(s.barHeight)*cellH)
	}
}
