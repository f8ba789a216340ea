// SPDX-License-Identifier: Unlicense OR MIT

// Package config holds the immutable values the render-loop core reads at
// start. The core never parses files itself (file watching, TOML/YAML
// parsing, and CLI flags are the config layer's job, out of scope per the
// top-level spec); this package only defines the shape, the defaults, and
// a Watcher seam for reloads. Nothing in this module calls
// Watcher.Reload, so the render loop keeps the Config it started with.
package config

import "time"

// Vsync selects the swap-interval strategy for a Context.
type Vsync int

const (
	VsyncOn Vsync = iota
	VsyncOff
	VsyncAdaptive
)

// RGBA is a linear-space clear colour, matching the convention used
// throughout the render pipeline (glyphatlas, pixelui, shaderpass all work
// in linear-then-sRGB-encode, never the reverse).
type RGBA struct {
	R, G, B, A float32
}

// WindowRule pairs an app_id shell glob (as in path.Match) with a
// placement hint. Nothing in this module matches the pattern against an
// app_id or applies the hint.
type WindowRule struct {
	AppIDPattern string
	Workspace    *int // nil = no forced workspace
	Floating     bool
}

// Config is the render loop's read-only view of user configuration.
type Config struct {
	BackgroundColor RGBA
	TargetHz        *uint64 // nil = use the connector's reported rate
	Vsync           Vsync
	WindowRules     []WindowRule
	Shaders         []ShaderConfig
}

// ShaderConfig is the on-disk shape of one shaderpass.Entry before it is
// compiled; see shaderpass.Registry.Sync.
type ShaderConfig struct {
	Name     string
	Enabled  bool
	Path     string
	Uniforms map[string]float32
}

// Watcher is the seam an external config layer implements to deliver a
// reloaded Config (e.g. on SIGHUP or an inotify event on the config
// file). No code in this module calls Reload or swaps a reloaded Config
// into the render loop.
type Watcher interface {
	Reload() (Config, error)
}

// Default returns the configuration used when no config file is present,
// matching the "screen is never empty" guarantee the TWM itself provides.
func Default() Config {
	return Config{
		BackgroundColor: RGBA{R: 0.05, G: 0.05, B: 0.07, A: 1},
		Vsync:           VsyncOn,
	}
}

// FrameInterval returns the pacing interval for a connector reporting
// connHz, honoring an optional target cap. Matches the render loop's
// frame_duration derivation in spec §4.7.
func FrameInterval(connHz uint64, target *uint64) time.Duration {
	hz := connHz
	if hz == 0 {
		hz = 60
	}
	if target != nil && *target > 0 && *target < hz {
		hz = *target
	}
	return time.Duration(float64(time.Second) / float64(hz))
}
