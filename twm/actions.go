// SPDX-License-Identifier: Unlicense OR MIT

package twm

import "math"

// ActionKind tags the closed set of dispatchable actions.
type ActionKind int

const (
	ActionFocusLeft ActionKind = iota
	ActionFocusRight
	ActionFocusUp
	ActionFocusDown
	ActionMoveLeft
	ActionMoveRight
	ActionClose
	ActionWorkspace
	ActionMoveToWorkspace
	ActionNextLayout
	ActionGrowMain
	ActionShrinkMain
	ActionNextWorkspace
	ActionPrevWorkspace
	ActionToggleBar
	ActionFullscreen
	ActionOpenShell
)

// Action is a closed tagged variant; Arg carries the workspace index
// (1..9, 1-based as in the IPC/keybinding surface) and Title the shell
// title.
type Action struct {
	Kind  ActionKind
	Arg   int
	Title string
}

// Dispatch mutates state per the action and marks it dirty (causing the
// next build_frame_cmds call to reflow).
func (s *State) Dispatch(a Action) {
	switch a.Kind {
	case ActionFocusLeft:
		s.focusDirectional(-1, 0)
	case ActionFocusRight:
		s.focusDirectional(1, 0)
	case ActionFocusUp:
		s.focusDirectional(0, -1)
	case ActionFocusDown:
		s.focusDirectional(0, 1)
	case ActionMoveLeft:
		s.moveFocused(-1)
	case ActionMoveRight:
		s.moveFocused(1)
	case ActionClose:
		s.CloseFocused()
	case ActionWorkspace:
		s.switchWorkspace(a.Arg)
	case ActionMoveToWorkspace:
		s.moveFocusedToWorkspace(a.Arg)
	case ActionNextLayout:
		ws := s.active()
		ws.Layout = ws.Layout.Next()
		s.lastLayoutChange = s.now()
	case ActionGrowMain:
		ws := s.active()
		ws.MainRatio = clampMainRatio(ws.MainRatio + 0.05)
	case ActionShrinkMain:
		ws := s.active()
		ws.MainRatio = clampMainRatio(ws.MainRatio - 0.05)
	case ActionNextWorkspace:
		s.switchWorkspace(((s.activeWS+1)%NumWorkspaces)+1)
	case ActionPrevWorkspace:
		s.switchWorkspace(((s.activeWS-1+NumWorkspaces)%NumWorkspaces)+1)
	case ActionToggleBar:
		s.barVisible = !s.barVisible
	case ActionFullscreen:
		s.toggleFullscreen()
	case ActionOpenShell:
		s.OpenShellPane(a.Title)
		return // OpenShellPane already marks dirty
	}
	s.dirty = true
}

func (s *State) switchWorkspace(oneBased int) {
	idx := oneBased - 1
	if idx < 0 || idx >= NumWorkspaces {
		return
	}
	s.activeWS = idx
}

func (s *State) moveFocusedToWorkspace(oneBased int) {
	idx := oneBased - 1
	if idx < 0 || idx >= NumWorkspaces || idx == s.activeWS {
		return
	}
	ws := s.active()
	if ws.Focused == nil {
		return
	}
	id := *ws.Focused
	ws.Panes = removePaneID(ws.Panes, id)
	if len(ws.Panes) > 0 {
		last := ws.Panes[len(ws.Panes)-1]
		ws.Focused = &last
	} else {
		ws.Focused = nil
	}
	dst := &s.workspaces[idx]
	dst.Panes = append(dst.Panes, id)
	dst.Focused = &id
}

func (s *State) toggleFullscreen() {
	ws := s.active()
	if ws.Focused == nil {
		return
	}
	p := s.panes[*ws.Focused]
	if p != nil {
		p.Fullscreen = !p.Fullscreen
	}
}

// moveFocused swaps the focused pane with its forward (+1) or backward
// (-1) sibling in the workspace's pane list.
func (s *State) moveFocused(dir int) {
	ws := s.active()
	if ws.Focused == nil {
		return
	}
	idx := -1
	for i, id := range ws.Panes {
		if id == *ws.Focused {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	other := idx + dir
	if other < 0 || other >= len(ws.Panes) {
		return
	}
	ws.Panes[idx], ws.Panes[other] = ws.Panes[other], ws.Panes[idx]
}

// focusDirectional picks the pane whose animated-rect centre lies in the
// halfplane (dx,dy) points toward, nearest by centre distance and
// tie-broken by Manhattan distance.
func (s *State) focusDirectional(dx, dy int) {
	ws := s.active()
	if ws.Focused == nil || len(ws.Panes) < 2 {
		return
	}
	now := s.now()
	cur := s.panes[*ws.Focused]
	if cur == nil {
		return
	}
	curRect := cur.Anim.At(now)
	cx, cy := curRect.X+curRect.W/2, curRect.Y+curRect.H/2

	var best PaneID
	haveBest := false
	bestDist := math.Inf(1)
	bestManhattan := math.Inf(1)

	for _, id := range ws.Panes {
		if id == *ws.Focused {
			continue
		}
		p := s.panes[id]
		if p == nil {
			continue
		}
		r := p.Anim.At(now)
		px, py := r.X+r.W/2, r.Y+r.H/2
		ddx, ddy := px-cx, py-cy
		if dx != 0 && sign(ddx) != float64(dx) {
			continue
		}
		if dy != 0 && sign(ddy) != float64(dy) {
			continue
		}
		dist := math.Hypot(ddx, ddy)
		manhattan := math.Abs(ddx) + math.Abs(ddy)
		if !haveBest || dist < bestDist || (dist == bestDist && manhattan < bestManhattan) {
			best = id
			haveBest = true
			bestDist = dist
			bestManhattan = manhattan
		}
	}
	if haveBest {
		ws.Focused = &best
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Reflow recomputes target rects for the active workspace (or all
// workspaces' panes, fullscreen honoured) and starts new animations from
// each pane's *current* interpolated rect — never the previous
// animation's stale source — toward the new target. Runs on any
// structural or focus change when State is dirty. cellH is the render
// loop's physical cell height in pixels, the unit barHeight (in cell
// rows) is reserved in.
func (s *State) Reflow(cellH int, vpW, vpH float64) {
	if !s.dirty {
		return
	}
	now := s.now()
	for wi := range s.workspaces {
		ws := &s.workspaces[wi]
		if len(ws.Panes) == 0 {
			continue
		}
		content := RectF{0, 0, vpW, vpH}
		barH := float64(s.barHeight) * float64(cellH)
		if s.barVisible {
			content.H -= barH
			if s.barAtBottom {
				content.Y += 0
			} else {
				content.Y += barH
			}
		}

		var fullscreenID *PaneID
		for _, id := range ws.Panes {
			p := s.panes[id]
			if p != nil && p.Fullscreen {
				fullscreenID = &id
				break
			}
		}

		var ids []PaneID
		var targets []RectF
		if fullscreenID != nil {
			ids = []PaneID{*fullscreenID}
			targets = []RectF{content}
		} else {
			ids = ws.Panes
			targets = layoutRects(ws.Layout, content, ids, ws.MainRatio, float64(ws.Gap))
		}

		for i, id := range ids {
			p := s.panes[id]
			if p == nil {
				continue
			}
			target := targets[i]
			cur := p.Anim.At(now)
			if cur == target {
				continue
			}
			p.Anim = AnimRect{
				Src:   cur,
				Dst:   target,
				Start: now,
				DurMS: s.anim.DurMS,
				Ease:  s.anim.Ease,
			}
		}
	}
	s.dirty = false
}
