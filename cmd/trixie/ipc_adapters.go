// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"log/slog"

	"trixie.run/embedded"
	"trixie.run/internal/gl"
	"trixie.run/ipc"
	"trixie.run/shaderpass"
	"trixie.run/twm"
)

// noopConfigurer stands in for the Wayland protocol glue that would send
// xdg_toplevel configure events; that protocol layer is an external
// collaborator out of scope for this build (spec §6), so claims succeed
// but no real client handshake occurs.
type noopConfigurer struct{}

func (noopConfigurer) Configure(embedded.SurfaceID, int, int) {}

// embeddedActions bridges the embedded-window IPC socket to the TWM and
// embedded manager: "spawn" gives the app_id an Embedded pane through
// twm.AssignEmbedded, "close" tears the pane and any claimed embedded
// entry down, "move" records a placement with RequestPlacement, and
// "focus" focuses the pane holding the app_id with FocusPaneByAppID.
type embeddedActions struct {
	mgr *embedded.Manager
	twm *twm.State
	log *slog.Logger
}

func (a *embeddedActions) Snapshot() []ipc.WindowSnapshot {
	entries := a.mgr.Entries()
	out := make([]ipc.WindowSnapshot, 0, len(entries))
	for appID, e := range entries {
		out = append(out, ipc.WindowSnapshot{
			AppID:  appID,
			X:      e.Placement.X,
			Y:      e.Placement.Y,
			W:      e.Placement.W,
			H:      e.Placement.H,
			Mapped: e.Mapped,
		})
	}
	return out
}

func (a *embeddedActions) Enqueue(cmd ipc.EmbeddedCommand) {
	switch cmd.Cmd {
	case "spawn":
		a.twm.AssignEmbedded(cmd.AppID)
	case "close":
		a.twm.ClosePaneByAppID(cmd.AppID)
		a.mgr.Close(cmd.AppID)
	case "move":
		a.mgr.RequestPlacement(cmd.AppID, embedded.Placement{X: cmd.X, Y: cmd.Y, W: cmd.W, H: cmd.H})
	case "focus":
		if !a.twm.FocusPaneByAppID(cmd.AppID) {
			a.log.Warn("focus: no pane claims this app_id", "app_id", cmd.AppID)
		}
	}
}

// shaderIPCActions bridges the shader IPC socket to shaderpass.Registry.
type shaderIPCActions struct {
	reg *shaderpass.Registry
	gl  *gl.Functions
}

func (a *shaderIPCActions) List() []ipc.ShaderSnapshot {
	out := make([]ipc.ShaderSnapshot, 0, len(a.reg.Entries))
	for _, e := range a.reg.Entries {
		out = append(out, ipc.ShaderSnapshot{Name: e.Name, Enabled: e.Enabled, Path: e.Path})
	}
	return out
}

func (a *shaderIPCActions) Toggle(name string) bool  { return a.reg.Toggle(name) }
func (a *shaderIPCActions) Enable(name string) bool  { return a.reg.Enable(name) }
func (a *shaderIPCActions) Disable(name string) bool { return a.reg.Disable(name) }
func (a *shaderIPCActions) Reload() bool {
	a.reg.RecompileIfChanged(a.gl)
	return true
}
