// SPDX-License-Identifier: Unlicense OR MIT

// Package renderloop drives the per-output frame-pacing state machine
// (C7): VBlank-paced scheduling, drift recovery, and the per-frame
// render_surface sequence that stitches together the TWM chrome, the
// embedded manager, and the shader pass. Grounded on the teacher's
// gpu package render-loop idiom (frame callback driven by GPU.Collect
// /GPU.Frame) generalised from a single-window present loop to a
// multi-output, VBlank-synchronised one.
package renderloop

import "time"

// OutputState is the per-CRTC frame-pacing record.
type OutputState struct {
	Name           string
	FrameDuration  time.Duration
	NextFrameTime  time.Time
	PendingFrame   bool
}

// FrameDurationFor computes 1e6/min(targetHz, connectorHz) microseconds,
// floored at 1Hz, per spec §4.7.
func FrameDurationFor(targetHz *uint64, connectorHz uint64) time.Duration {
	hz := connectorHz
	if targetHz != nil && *targetHz < hz {
		hz = *targetHz
	}
	if hz < 1 {
		hz = 1
	}
	return time.Duration(1e6/hz) * time.Microsecond
}

// NewOutputState seeds next_frame_time one duration past now, per the
// phase-lock behaviour used both at startup and on resume.
func NewOutputState(name string, dur time.Duration, now time.Time) *OutputState {
	return &OutputState{Name: name, FrameDuration: dur, NextFrameTime: now.Add(dur)}
}

// ShouldRender reports whether the pacing timer has fired: not already
// pending a submitted frame, and now has reached next_frame_time.
func (o *OutputState) ShouldRender(now time.Time) bool {
	return !o.PendingFrame && !now.Before(o.NextFrameTime)
}

// Advance moves next_frame_time forward by one frame_duration after
// every render attempt (empty or not), snapping forward to now+duration
// if it has drifted into the past — this is P7 and the VT-switch
// recovery behaviour.
func (o *OutputState) Advance(now time.Time) {
	o.NextFrameTime = o.NextFrameTime.Add(o.FrameDuration)
	if o.NextFrameTime.Before(now) {
		o.NextFrameTime = now.Add(o.FrameDuration)
	}
}

// QueueFrame marks a non-empty frame as submitted-but-unacknowledged.
func (o *OutputState) QueueFrame() { o.PendingFrame = true }

// FrameFinish is the VBlank handler: clears pending_frame so the next
// timer fire can render again.
func (o *OutputState) FrameFinish() { o.PendingFrame = false }

// Pause clears pending_frame (a paused session can't receive VBlank
// acks) so a stale pending flag doesn't block rendering forever once
// resumed.
func (o *OutputState) Pause() { o.PendingFrame = false }

// Resume re-phase-locks next_frame_time to now+duration, per spec: "On
// resume, every next_frame_time is reset... then one idle render is
// queued" (the caller is responsible for queuing that first render).
func (o *OutputState) Resume(now time.Time) {
	o.NextFrameTime = now.Add(o.FrameDuration)
}
