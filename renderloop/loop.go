// SPDX-License-Identifier: Unlicense OR MIT

package renderloop

import "time"

// Loop drives one or more OutputStates against a ticking clock,
// delegating actual frame work to a caller-supplied render function.
// The real event loop (cmd/trixie) drives this from a poll-based
// multiplexer; tests drive it with a synthetic clock.
type Loop struct {
	Outputs []*OutputState
	Render  func(o *OutputState, now time.Time) (hadContent bool)
	running bool
}

// Tick runs one iteration: for every output whose pacing timer has
// fired, render and advance. Returns the number of outputs rendered.
func (l *Loop) Tick(now time.Time) int {
	n := 0
	for _, o := range l.Outputs {
		if !o.ShouldRender(now) {
			continue
		}
		hadContent := l.Render(o, now)
		if hadContent {
			o.QueueFrame()
		}
		o.Advance(now)
		n++
	}
	return n
}

// VBlank is the VBlank handler (frame_finish): clears pending_frame for
// the named output.
func (l *Loop) VBlank(name string) {
	for _, o := range l.Outputs {
		if o.Name == name {
			o.FrameFinish()
			return
		}
	}
}

// Pause clears pending_frame on every output.
func (l *Loop) Pause() {
	for _, o := range l.Outputs {
		o.Pause()
	}
}

// Resume re-phase-locks every output's next_frame_time to now plus one
// frame duration. It renders nothing itself and returns nothing; each
// output's first render after it happens on the first Tick at or after
// that next_frame_time.
func (l *Loop) Resume(now time.Time) {
	for _, o := range l.Outputs {
		o.Resume(now)
	}
}
