// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package egl

/*
#cgo LDFLAGS: -lEGL -lgbm

#include <EGL/egl.h>
#include <gbm.h>
*/
import "C"
import "unsafe"

type (
	_EGLDisplay = C.EGLDisplay
	_EGLConfig  = C.EGLConfig
	_EGLContext = C.EGLContext
	_EGLSurface = C.EGLSurface
	_EGLint     = C.EGLint

	// NativeDisplayType wraps a gbm_device* (the DRM backend owns the
	// device and hands it to NewContext once at startup).
	NativeDisplayType = C.EGLNativeDisplayType
	// NativeWindowType wraps a gbm_surface*.
	NativeWindowType = C.EGLNativeWindowType
)

func eglGetDisplay(disp NativeDisplayType) _EGLDisplay {
	return C.eglGetDisplay(disp)
}

func eglInitialize(disp _EGLDisplay) bool {
	var major, minor C.EGLint
	return C.eglInitialize(disp, &major, &minor) == C.EGL_TRUE
}

func eglChooseConfig(disp _EGLDisplay, attribs []_EGLint) (_EGLConfig, bool) {
	var cfg C.EGLConfig
	var numCfg C.EGLint
	ok := C.eglChooseConfig(disp, &attribs[0], &cfg, 1, &numCfg) == C.EGL_TRUE
	return cfg, ok && numCfg > 0
}

func eglCreateContext(disp _EGLDisplay, cfg _EGLConfig, shareCtx _EGLContext, attribs []_EGLint) _EGLContext {
	return C.eglCreateContext(disp, cfg, shareCtx, &attribs[0])
}

func eglCreateWindowSurface(disp _EGLDisplay, cfg _EGLConfig, win NativeWindowType, attribs []_EGLint) _EGLSurface {
	return C.eglCreateWindowSurface(disp, cfg, win, &attribs[0])
}

func eglMakeCurrent(disp _EGLDisplay, draw, read _EGLSurface, ctx _EGLContext) bool {
	return C.eglMakeCurrent(disp, draw, read, ctx) == C.EGL_TRUE
}

func eglSwapBuffers(disp _EGLDisplay, surf _EGLSurface) bool {
	return C.eglSwapBuffers(disp, surf) == C.EGL_TRUE
}

func eglSwapInterval(disp _EGLDisplay, interval int) bool {
	return C.eglSwapInterval(disp, C.EGLint(interval)) == C.EGL_TRUE
}

func eglDestroySurface(disp _EGLDisplay, surf _EGLSurface) {
	C.eglDestroySurface(disp, surf)
}

func eglDestroyContext(disp _EGLDisplay, ctx _EGLContext) {
	C.eglDestroyContext(disp, ctx)
}

func eglTerminate(disp _EGLDisplay) {
	C.eglTerminate(disp)
}

func eglReleaseThread() {
	C.eglReleaseThread()
}

func eglGetError() int {
	return int(C.eglGetError())
}

func eglQueryString(disp _EGLDisplay, name _EGLint) string {
	cstr := C.eglQueryString(disp, C.EGLint(name))
	if cstr == nil {
		return ""
	}
	return C.GoString(cstr)
}

// NewGBMSurface creates the gbm_surface the Context renders into. Nothing
// in this module locks its buffers with gbm_surface_lock_front_buffer or
// hands them to KMS.
func NewGBMSurface(gbmDev unsafe.Pointer, width, height int, format uint32, flags uint32) (NativeWindowType, error) {
	surf := C.gbm_surface_create(
		(*C.struct_gbm_device)(gbmDev),
		C.uint32_t(width), C.uint32_t(height),
		C.uint32_t(format), C.uint32_t(flags),
	)
	if surf == nil {
		return nil, errGBMSurfaceCreate
	}
	return NativeWindowType(unsafe.Pointer(surf)), nil
}

var errGBMSurfaceCreate = gbmSurfaceError{}

type gbmSurfaceError struct{}

func (gbmSurfaceError) Error() string { return "gbm_surface_create failed" }
