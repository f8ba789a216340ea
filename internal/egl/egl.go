// SPDX-License-Identifier: Unlicense OR MIT

// Package egl manages the EGL context used to render into a GBM surface
// backing a DRM/KMS scanout buffer. Adapted from the teacher's
// app/internal/egl package, which drives EGL against a windowing
// system's native surface (X11/Wayland/Win32); here the native window is
// always a gbm_surface and there is exactly one context for the
// process's lifetime, so the multi-driver abstraction collapses to a
// single GBM-backed Context.
package egl

import (
	"errors"
	"fmt"
	"strings"

	"trixie.run/internal/gl"
)

// Context owns the EGL display/config/context/surface quadruple and the
// GLES3 function table bound to it.
type Context struct {
	c       *gl.Functions
	disp    _EGLDisplay
	config  _EGLConfig
	ctx     _EGLContext
	surf    _EGLSurface
	srgb    bool
	width   int
	height  int
}

const (
	_EGL_ALPHA_SIZE             = 0x3021
	_EGL_BLUE_SIZE              = 0x3022
	_EGL_CONFIG_CAVEAT          = 0x3027
	_EGL_CONTEXT_CLIENT_VERSION = 0x3098
	_EGL_DEPTH_SIZE             = 0x3025
	_EGL_GREEN_SIZE             = 0x3023
	_EGL_EXTENSIONS             = 0x3055
	_EGL_NONE                   = 0x3038
	_EGL_OPENGL_ES2_BIT         = 0x4
	_EGL_RED_SIZE               = 0x3024
	_EGL_RENDERABLE_TYPE        = 0x3040
	_EGL_SURFACE_TYPE           = 0x3033
	_EGL_WINDOW_BIT             = 0x4
)

var (
	nilEGLDisplay _EGLDisplay
	nilEGLSurface _EGLSurface
	nilEGLContext _EGLContext
	nilEGLConfig  _EGLConfig
)

// NewContext opens an EGL display over the GBM device and creates a
// GLES3 (falling back to GLES2) context. dispNative is the gbm_device*
// cast to NativeDisplayType by the DRM backend.
func NewContext(dispNative NativeDisplayType) (*Context, error) {
	disp := eglGetDisplay(dispNative)
	if disp == nilEGLDisplay {
		return nil, fmt.Errorf("eglGetDisplay failed: 0x%x", eglGetError())
	}
	if ok := eglInitialize(disp); !ok {
		return nil, fmt.Errorf("eglInitialize failed: 0x%x", eglGetError())
	}
	exts := strings.Split(eglQueryString(disp, _EGL_EXTENSIONS), " ")
	_ = exts

	attribs := []_EGLint{
		_EGL_RENDERABLE_TYPE, _EGL_OPENGL_ES2_BIT,
		_EGL_SURFACE_TYPE, _EGL_WINDOW_BIT,
		_EGL_RED_SIZE, 8,
		_EGL_GREEN_SIZE, 8,
		_EGL_BLUE_SIZE, 8,
		_EGL_ALPHA_SIZE, 0,
		_EGL_DEPTH_SIZE, 0,
		_EGL_CONFIG_CAVEAT, _EGL_NONE,
		_EGL_NONE,
	}
	cfg, ok := eglChooseConfig(disp, attribs)
	if !ok || cfg == nilEGLConfig {
		return nil, errors.New("eglChooseConfig returned no usable config")
	}

	ctxAttribs := []_EGLint{_EGL_CONTEXT_CLIENT_VERSION, 3, _EGL_NONE}
	ctx := eglCreateContext(disp, cfg, nilEGLContext, ctxAttribs)
	if ctx == nilEGLContext {
		ctxAttribs = []_EGLint{_EGL_CONTEXT_CLIENT_VERSION, 2, _EGL_NONE}
		ctx = eglCreateContext(disp, cfg, nilEGLContext, ctxAttribs)
		if ctx == nilEGLContext {
			return nil, fmt.Errorf("eglCreateContext failed: 0x%x", eglGetError())
		}
	}

	return &Context{
		c:      new(gl.Functions),
		disp:   disp,
		config: cfg,
		ctx:    ctx,
	}, nil
}

// BindSurface creates (or recreates, on resize) the EGL window surface
// over a gbm_surface* and makes the context current against it.
func (c *Context) BindSurface(win NativeWindowType, width, height int) error {
	if c.surf != nilEGLSurface && width == c.width && height == c.height {
		return nil
	}
	c.destroySurface()
	surf := eglCreateWindowSurface(c.disp, c.config, win, []_EGLint{_EGL_NONE})
	if surf == nilEGLSurface {
		return fmt.Errorf("eglCreateWindowSurface failed: 0x%x", eglGetError())
	}
	c.surf = surf
	c.width, c.height = width, height
	if !eglMakeCurrent(c.disp, surf, surf, c.ctx) {
		return fmt.Errorf("eglMakeCurrent failed: 0x%x", eglGetError())
	}
	eglSwapInterval(c.disp, 0) // the render loop paces frames itself; see renderloop
	return nil
}

func (c *Context) destroySurface() {
	if c.surf == nilEGLSurface {
		return
	}
	c.c.Finish()
	eglMakeCurrent(c.disp, nilEGLSurface, nilEGLSurface, nilEGLContext)
	eglDestroySurface(c.disp, c.surf)
	c.surf = nilEGLSurface
}

// Present swaps the EGL surface's buffers (eglSwapBuffers). It does not
// page-flip the resulting GBM buffer onto a CRTC, and the DRM backend's
// SubmitPageFlip does not either.
func (c *Context) Present() error {
	if c.surf == nilEGLSurface {
		return errors.New("Present called with no bound surface")
	}
	if !eglSwapBuffers(c.disp, c.surf) {
		return fmt.Errorf("eglSwapBuffers failed: 0x%x", eglGetError())
	}
	return nil
}

func (c *Context) Functions() *gl.Functions { return c.c }

// Release tears the context and display down. Safe to call once, at
// process shutdown.
func (c *Context) Release() {
	c.destroySurface()
	if c.ctx != nilEGLContext {
		eglDestroyContext(c.disp, c.ctx)
		eglTerminate(c.disp)
		eglReleaseThread()
		c.ctx = nilEGLContext
	}
}
