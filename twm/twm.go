// SPDX-License-Identifier: Unlicense OR MIT

package twm

import "time"

// Theme holds the colours the chrome rasteriser uses. Kept minimal and
// opaque to callers; see chrome.go for where each field is used.
type Theme struct {
	PaneBg, BarBg               Color
	TextFg                      Color
	ActiveBorder, InactiveBorder Color
	OccupiedTab, EmptyTab       Color
}

// Color is a straight RGBA colour in [0,1] with the same layout as
// pixelui.Color; chrome.go converts it to pixelui.Color directly.
type Color struct{ R, G, B, A float32 }

func DefaultTheme() Theme {
	return Theme{
		PaneBg:          Color{0.05, 0.05, 0.07, 1},
		BarBg:           Color{0.1, 0.1, 0.13, 1},
		TextFg:          Color{0.85, 0.85, 0.85, 1},
		ActiveBorder:    Color{0.30, 0.65, 0.95, 1},
		InactiveBorder:  Color{0.35, 0.35, 0.4, 1},
		OccupiedTab:     Color{0.7, 0.7, 0.3, 1},
		EmptyTab:        Color{0.3, 0.3, 0.3, 1},
	}
}

// AnimConfig controls reflow animation duration/easing.
type AnimConfig struct {
	DurMS float64
	Ease  Easing
}

func DefaultAnimConfig() AnimConfig { return AnimConfig{DurMS: 180, Ease: EaseOutCubic} }

// State is the TWM engine: pane storage, 9 workspaces, chrome config.
// All public methods are the compositor-facing surface; everything else
// is internal.
type State struct {
	panes      map[PaneID]*Pane
	nextID     PaneID
	workspaces [NumWorkspaces]Workspace
	activeWS   int

	cols, rows      int
	barVisible      bool
	barHeight       uint16
	barAtBottom     bool
	anim            AnimConfig
	theme           Theme

	dirty bool
	now   func() time.Time

	lastLayoutChange time.Time

	cellBuf *buffer
}

// New seeds workspace 0 with one Shell pane so the screen is never empty.
func New(cols, rows int) *State {
	s := &State{
		panes: make(map[PaneID]*Pane),
		cols:  cols, rows: rows,
		barVisible: true,
		barHeight:  1,
		anim:       DefaultAnimConfig(),
		theme:      DefaultTheme(),
		now:        time.Now,
	}
	for i := range s.workspaces {
		s.workspaces[i] = Workspace{Layout: LayoutBsp, MainRatio: 0.55, Gap: 1}
	}
	id := s.newPane(PaneContent{Kind: ContentShell, Title: "shell"})
	s.workspaces[0].Panes = append(s.workspaces[0].Panes, id)
	s.workspaces[0].Focused = &id
	s.dirty = true
	return s
}

func (s *State) newPane(c PaneContent) PaneID {
	s.nextID++
	id := s.nextID
	s.panes[id] = &Pane{ID: id, Content: c}
	return id
}

func (s *State) active() *Workspace { return &s.workspaces[s.activeWS] }

// Resize reallocates cell/character buffers and marks dirty; called by
// build_frame_cmds whenever the derived cols/rows change.
func (s *State) Resize(cols, rows int) {
	s.cols, s.rows = cols, rows
	s.cellBuf = nil
	s.dirty = true
}

// OpenShellPane appends a new Shell pane to the active workspace and
// focuses it.
func (s *State) OpenShellPane(title string) PaneID {
	id := s.newPane(PaneContent{Kind: ContentShell, Title: title})
	ws := s.active()
	ws.Panes = append(ws.Panes, id)
	ws.Focused = &id
	s.dirty = true
	return id
}

// AssignEmbedded upgrades the focused pane in place if it is Empty or
// Shell; otherwise appends a new Embedded pane. Returns the PaneID that
// now carries the content.
func (s *State) AssignEmbedded(appID string) PaneID {
	ws := s.active()
	if ws.Focused != nil {
		p := s.panes[*ws.Focused]
		if p != nil && (p.Content.Kind == ContentEmpty || p.Content.Kind == ContentShell) {
			p.Content = PaneContent{Kind: ContentEmbedded, AppID: appID}
			s.dirty = true
			return p.ID
		}
	}
	id := s.newPane(PaneContent{Kind: ContentEmbedded, AppID: appID})
	ws.Panes = append(ws.Panes, id)
	ws.Focused = &id
	s.dirty = true
	return id
}

func removePaneID(list []PaneID, id PaneID) []PaneID {
	out := list[:0]
	for _, p := range list {
		if p != id {
			out = append(out, p)
		}
	}
	return out
}

// ClosePane removes a pane from the map and every workspace's pane list;
// if it was focused, re-focuses the last remaining pane in its
// workspace.
func (s *State) ClosePane(id PaneID) {
	if _, ok := s.panes[id]; !ok {
		return
	}
	delete(s.panes, id)
	for i := range s.workspaces {
		ws := &s.workspaces[i]
		before := len(ws.Panes)
		ws.Panes = removePaneID(ws.Panes, id)
		if len(ws.Panes) != before && ws.Focused != nil && *ws.Focused == id {
			if n := len(ws.Panes); n > 0 {
				last := ws.Panes[n-1]
				ws.Focused = &last
			} else {
				ws.Focused = nil
			}
		}
	}
	s.dirty = true
}

// CloseFocused closes the active workspace's focused pane, if any.
func (s *State) CloseFocused() {
	ws := s.active()
	if ws.Focused != nil {
		s.ClosePane(*ws.Focused)
	}
}

// ClosePaneByAppID closes whichever pane currently holds this embedded
// app_id, if any.
func (s *State) ClosePaneByAppID(appID string) {
	for id, p := range s.panes {
		if p.Content.Kind == ContentEmbedded && p.Content.AppID == appID {
			s.ClosePane(id)
			return
		}
	}
}

// FocusPaneByAppID focuses whichever pane currently holds this embedded
// app_id, switching the active workspace to the one that owns it.
// Reports whether a matching pane was found.
func (s *State) FocusPaneByAppID(appID string) bool {
	for id, p := range s.panes {
		if p.Content.Kind != ContentEmbedded || p.Content.AppID != appID {
			continue
		}
		for wi := range s.workspaces {
			ws := &s.workspaces[wi]
			for _, pid := range ws.Panes {
				if pid != id {
					continue
				}
				focused := id
				ws.Focused = &focused
				s.activeWS = wi
				s.dirty = true
				return true
			}
		}
	}
	return false
}

// FocusedContent returns the focused pane's content in the active
// workspace, if any.
func (s *State) FocusedContent() (PaneContent, bool) {
	ws := s.active()
	if ws.Focused == nil {
		return PaneContent{}, false
	}
	p, ok := s.panes[*ws.Focused]
	if !ok {
		return PaneContent{}, false
	}
	return p.Content, true
}

// FocusedID returns the active workspace's focused pane id, if any.
func (s *State) FocusedID() (PaneID, bool) {
	ws := s.active()
	if ws.Focused == nil {
		return 0, false
	}
	return *ws.Focused, true
}

// EmbeddedCellRect returns the current animated rect of the pane holding
// appID, if mapped in any workspace.
func (s *State) EmbeddedCellRect(appID string) (RectF, bool) {
	now := s.now()
	for _, p := range s.panes {
		if p.Content.Kind == ContentEmbedded && p.Content.AppID == appID {
			return p.Anim.At(now), true
		}
	}
	return RectF{}, false
}

// AllEmbeddedCellRects returns every embedded pane's current rect keyed
// by app_id.
func (s *State) AllEmbeddedCellRects() map[string]RectF {
	now := s.now()
	out := make(map[string]RectF)
	for _, p := range s.panes {
		if p.Content.Kind == ContentEmbedded {
			out[p.Content.AppID] = p.Anim.At(now)
		}
	}
	return out
}
