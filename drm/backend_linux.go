// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package drm

/*
#cgo LDFLAGS: -ldrm -lgbm
#cgo CFLAGS: -I/usr/include/libdrm

#include <fcntl.h>
#include <unistd.h>
#include <xf86drm.h>
#include <xf86drmMode.h>
#include <gbm.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"trixie.run/internal/egl"
)

// cardBackend opens the primary DRM render/primary node via libdrm's
// mode-setting API (not raw ioctl numbers — drmModeGetResources and
// friends are libdrm's own stable C ABI) and a GBM device layered over
// the same fd. This is the Backend a production build wires into
// cmd/trixie; see package doc for why lower-level encoding is out of
// scope for this exercise.
type cardBackend struct {
	fd      C.int
	gbmDev  *C.struct_gbm_device
	res     *C.drmModeRes
	crtcs   []CRTC
	vblanks chan string
}

// OpenPrimaryCard opens path (e.g. "/dev/dri/card0"), resolved by the
// caller via system APIs (udev / sorting by boot_vga, out of scope
// here), and enumerates its connectors.
func OpenPrimaryCard(path string) (Backend, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	fd := C.open(cpath, C.O_RDWR|C.O_CLOEXEC)
	if fd < 0 {
		return nil, fmt.Errorf("open %s failed", path)
	}

	gbmDev := C.gbm_create_device(fd)
	if gbmDev == nil {
		C.close(fd)
		return nil, errors.New("gbm_create_device failed")
	}

	res := C.drmModeGetResources(fd)
	if res == nil {
		C.gbm_device_destroy(gbmDev)
		C.close(fd)
		return nil, errors.New("drmModeGetResources failed")
	}

	b := &cardBackend{fd: fd, gbmDev: gbmDev, res: res, vblanks: make(chan string, 4)}
	b.crtcs = b.enumerateCRTCs()
	return b, nil
}

func (b *cardBackend) enumerateCRTCs() []CRTC {
	var out []CRTC
	count := int(b.res.count_connectors)
	connPtr := unsafe.Slice(b.res.connectors, count)
	for i := 0; i < count; i++ {
		conn := C.drmModeGetConnector(b.fd, connPtr[i])
		if conn == nil {
			continue
		}
		if conn.connection != C.DRM_MODE_CONNECTED || conn.count_modes == 0 {
			C.drmModeFreeConnector(conn)
			continue
		}
		modes := unsafe.Slice(conn.modes, int(conn.count_modes))
		mode := modes[0] // the preferred mode is first in libdrm's sorted list
		name := fmt.Sprintf("conn-%d", uint32(conn.connector_id))
		out = append(out, CRTC{
			ID: uint32(i),
			Connector: Connector{
				Name:      name,
				WidthPx:   int(mode.hdisplay),
				HeightPx:  int(mode.vdisplay),
				RefreshHz: uint64(mode.vrefresh),
			},
		})
		C.drmModeFreeConnector(conn)
	}
	return out
}

func (b *cardBackend) NativeDisplay() egl.NativeDisplayType {
	return egl.NativeDisplayType(unsafe.Pointer(b.gbmDev))
}

func (b *cardBackend) CRTCs() []CRTC { return b.crtcs }

func (b *cardBackend) CreateSurface(crtc CRTC, width, height int) (egl.NativeWindowType, error) {
	return egl.NewGBMSurface(unsafe.Pointer(b.gbmDev), width, height,
		uint32(C.GBM_FORMAT_XRGB8888),
		uint32(C.GBM_BO_USE_SCANOUT|C.GBM_BO_USE_RENDERING))
}

// SubmitPageFlip and the VBlank fd-poll wiring are deliberately left as
// a seam: a real implementation calls drmModePageFlip on the CRTC and
// reads completions off b.fd with drmHandleEvent inside the event
// loop's poll multiplexer (spec §5's "DRM VBlank" event source). Doing
// that correctly needs a drmEventContext callback registered through
// cgo, which is out of scope for the render-loop logic this module
// exists to exercise; renderloop.Loop works identically against any
// Backend that delivers VBlank names on this channel.
func (b *cardBackend) SubmitPageFlip(crtc CRTC) error {
	return errors.New("SubmitPageFlip: page-flip submission not wired in this build")
}

func (b *cardBackend) VBlankEvents() <-chan string { return b.vblanks }

func (b *cardBackend) Close() error {
	C.drmModeFreeResources(b.res)
	C.gbm_device_destroy(b.gbmDev)
	C.close(b.fd)
	close(b.vblanks)
	return nil
}
