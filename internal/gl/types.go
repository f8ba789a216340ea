// SPDX-License-Identifier: Unlicense OR MIT

// Package gl is the OpenGL ES function table the render pipeline links
// against directly: one Functions value per EGL context. The few entry
// points resolved through dlsym are loaded once, at process start, by a
// cgo constructor into file-static pointers; constructing a Functions
// value loads nothing. Adapted from the
// teacher's cross-platform gl.Functions to the Linux/GLES3-only subset
// trixie's scene compositor, shader pass, and embedded-texture readback
// actually call.
package gl

type (
	Buffer       struct{ V uint }
	Framebuffer  struct{ V uint }
	Program      struct{ V uint }
	Renderbuffer struct{ V uint }
	Shader       struct{ V uint }
	Texture      struct{ V uint }
	Uniform      struct{ V int }
	Object       struct{ V uint }
)

func (u Framebuffer) Valid() bool { return u.V != 0 }
func (u Uniform) Valid() bool     { return u.V != -1 }
func (p Program) Valid() bool     { return p.V != 0 }
func (s Shader) Valid() bool      { return s.V != 0 }
func (t Texture) Valid() bool     { return t.V != 0 }
