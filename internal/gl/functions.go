// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package gl

import (
	"unsafe"
)

/*
#cgo LDFLAGS: -lGLESv2 -ldl
#cgo CFLAGS: -Werror

#define __USE_GNU
#include <dlfcn.h>
#include <stdlib.h>
#include <GLES2/gl2.h>
#include <GLES3/gl3.h>

static void (*_glBlitFramebuffer)(GLint, GLint, GLint, GLint, GLint, GLint, GLint, GLint, GLbitfield, GLenum);
static void (*_glDrawArraysInstanced)(GLenum, GLint, GLsizei, GLsizei);
static void (*_glVertexAttribDivisor)(GLuint, GLuint);
static void (*_glInvalidateFramebuffer)(GLenum, GLsizei, const GLenum *);

__attribute__ ((visibility ("hidden"))) void gio_glVertexAttribPointer(GLuint index, GLint size, GLenum type, GLboolean normalized, GLsizei stride, uintptr_t offset) {
	glVertexAttribPointer(index, size, type, normalized, stride, (const GLvoid *)offset);
}

__attribute__ ((visibility ("hidden"))) void gio_glBlitFramebuffer(GLint sx0, GLint sy0, GLint sx1, GLint sy1, GLint dx0, GLint dy0, GLint dx1, GLint dy1, GLbitfield mask, GLenum filter) {
	if (_glBlitFramebuffer != NULL) {
		_glBlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, mask, filter);
	}
}

__attribute__ ((visibility ("hidden"))) void gio_glDrawArraysInstanced(GLenum mode, GLint first, GLsizei count, GLsizei instancecount) {
	if (_glDrawArraysInstanced != NULL) {
		_glDrawArraysInstanced(mode, first, count, instancecount);
	}
}

__attribute__ ((visibility ("hidden"))) void gio_glVertexAttribDivisor(GLuint index, GLuint divisor) {
	if (_glVertexAttribDivisor != NULL) {
		_glVertexAttribDivisor(index, divisor);
	}
}

__attribute__ ((visibility ("hidden"))) void gio_glInvalidateFramebuffer(GLenum target, GLenum attachment) {
	if (_glInvalidateFramebuffer != NULL) {
		_glInvalidateFramebuffer(target, 1, &attachment);
	}
}

__attribute__((constructor)) static void trixie_loadGLFunctions() {
	dlopen("libGLESv3.so", RTLD_NOW | RTLD_GLOBAL);
	_glBlitFramebuffer = dlsym(RTLD_DEFAULT, "glBlitFramebuffer");
	_glDrawArraysInstanced = dlsym(RTLD_DEFAULT, "glDrawArraysInstanced");
	if (_glDrawArraysInstanced == NULL)
		_glDrawArraysInstanced = dlsym(RTLD_DEFAULT, "glDrawArraysInstancedEXT");
	_glVertexAttribDivisor = dlsym(RTLD_DEFAULT, "glVertexAttribDivisor");
	if (_glVertexAttribDivisor == NULL)
		_glVertexAttribDivisor = dlsym(RTLD_DEFAULT, "glVertexAttribDivisorEXT");
	_glInvalidateFramebuffer = dlsym(RTLD_DEFAULT, "glInvalidateFramebuffer");
}
*/
import "C"

// Functions calls GLES entry points that are either linked directly or
// resolved through dlsym once at process start (by the cgo constructor
// above, into file-static pointers). A Functions value holds only scratch
// space for query results, so constructing one per EGL context loads
// nothing.
type Functions struct {
	uints [4]C.GLuint
	ints  [4]C.GLint
}

func (f *Functions) ActiveTexture(texture Enum) { C.glActiveTexture(C.GLenum(texture)) }

func (f *Functions) AttachShader(p Program, s Shader) {
	C.glAttachShader(C.GLuint(p.V), C.GLuint(s.V))
}

func (f *Functions) BindBuffer(target Enum, b Buffer) { C.glBindBuffer(C.GLenum(target), C.GLuint(b.V)) }

func (f *Functions) BindFramebuffer(target Enum, fb Framebuffer) {
	C.glBindFramebuffer(C.GLenum(target), C.GLuint(fb.V))
}

func (f *Functions) BindTexture(target Enum, t Texture) {
	C.glBindTexture(C.GLenum(target), C.GLuint(t.V))
}

func (f *Functions) BlendFunc(sfactor, dfactor Enum) {
	C.glBlendFunc(C.GLenum(sfactor), C.GLenum(dfactor))
}

func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	C.glBlendFuncSeparate(C.GLenum(srcRGB), C.GLenum(dstRGB), C.GLenum(srcA), C.GLenum(dstA))
}

func (f *Functions) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask Enum, filter Enum) {
	C.gio_glBlitFramebuffer(C.GLint(sx0), C.GLint(sy0), C.GLint(sx1), C.GLint(sy1),
		C.GLint(dx0), C.GLint(dy0), C.GLint(dx1), C.GLint(dy1), C.GLbitfield(mask), C.GLenum(filter))
}

func (f *Functions) BufferData(target Enum, src []byte, usage Enum) {
	var p unsafe.Pointer
	if len(src) > 0 {
		p = unsafe.Pointer(&src[0])
	}
	C.glBufferData(C.GLenum(target), C.GLsizeiptr(len(src)), p, C.GLenum(usage))
}

func (f *Functions) CheckFramebufferStatus(target Enum) Enum {
	return Enum(C.glCheckFramebufferStatus(C.GLenum(target)))
}

func (f *Functions) Clear(mask Enum) { C.glClear(C.GLbitfield(mask)) }

func (f *Functions) ClearColor(r, g, b, a float32) {
	C.glClearColor(C.GLfloat(r), C.GLfloat(g), C.GLfloat(b), C.GLfloat(a))
}

func (f *Functions) CompileShader(s Shader) { C.glCompileShader(C.GLuint(s.V)) }

func (f *Functions) CreateBuffer() Buffer {
	C.glGenBuffers(1, &f.uints[0])
	return Buffer{uint(f.uints[0])}
}

func (f *Functions) CreateFramebuffer() Framebuffer {
	C.glGenFramebuffers(1, &f.uints[0])
	return Framebuffer{uint(f.uints[0])}
}

func (f *Functions) CreateProgram() Program { return Program{uint(C.glCreateProgram())} }

func (f *Functions) CreateShader(ty Enum) Shader { return Shader{uint(C.glCreateShader(C.GLenum(ty)))} }

func (f *Functions) CreateTexture() Texture {
	C.glGenTextures(1, &f.uints[0])
	return Texture{uint(f.uints[0])}
}

func (f *Functions) DeleteBuffer(v Buffer) {
	f.uints[0] = C.GLuint(v.V)
	C.glDeleteBuffers(1, &f.uints[0])
}

func (f *Functions) DeleteFramebuffer(v Framebuffer) {
	f.uints[0] = C.GLuint(v.V)
	C.glDeleteFramebuffers(1, &f.uints[0])
}

func (f *Functions) DeleteProgram(p Program) { C.glDeleteProgram(C.GLuint(p.V)) }
func (f *Functions) DeleteShader(s Shader)   { C.glDeleteShader(C.GLuint(s.V)) }

func (f *Functions) DeleteTexture(v Texture) {
	f.uints[0] = C.GLuint(v.V)
	C.glDeleteTextures(1, &f.uints[0])
}

func (f *Functions) DisableVertexAttribArray(a Attrib) { C.glDisableVertexAttribArray(C.GLuint(a)) }
func (f *Functions) Disable(cap Enum)                  { C.glDisable(C.GLenum(cap)) }
func (f *Functions) Enable(cap Enum)                   { C.glEnable(C.GLenum(cap)) }
func (f *Functions) EnableVertexAttribArray(a Attrib)   { C.glEnableVertexAttribArray(C.GLuint(a)) }
func (f *Functions) Finish()                           { C.glFinish() }

func (f *Functions) DrawArrays(mode Enum, first, count int) {
	C.glDrawArrays(C.GLenum(mode), C.GLint(first), C.GLsizei(count))
}

func (f *Functions) DrawArraysInstanced(mode Enum, first, count, instances int) {
	C.gio_glDrawArraysInstanced(C.GLenum(mode), C.GLint(first), C.GLsizei(count), C.GLsizei(instances))
}

func (f *Functions) VertexAttribDivisor(a Attrib, divisor int) {
	C.gio_glVertexAttribDivisor(C.GLuint(a), C.GLuint(divisor))
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	C.glFramebufferTexture2D(C.GLenum(target), C.GLenum(attachment), C.GLenum(texTarget), C.GLuint(t.V), C.GLint(level))
}

func (f *Functions) GetError() Enum { return Enum(C.glGetError()) }

func (f *Functions) GetProgrami(p Program, pname Enum) int {
	C.glGetProgramiv(C.GLuint(p.V), C.GLenum(pname), &f.ints[0])
	return int(f.ints[0])
}

func (f *Functions) GetProgramInfoLog(p Program) string {
	n := f.GetProgrami(p, INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	C.glGetProgramInfoLog(C.GLuint(p.V), C.GLsizei(len(buf)), nil, (*C.GLchar)(unsafe.Pointer(&buf[0])))
	return string(buf)
}

func (f *Functions) GetShaderi(s Shader, pname Enum) int {
	C.glGetShaderiv(C.GLuint(s.V), C.GLenum(pname), &f.ints[0])
	return int(f.ints[0])
}

func (f *Functions) GetShaderInfoLog(s Shader) string {
	n := f.GetShaderi(s, INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	C.glGetShaderInfoLog(C.GLuint(s.V), C.GLsizei(len(buf)), nil, (*C.GLchar)(unsafe.Pointer(&buf[0])))
	return string(buf)
}

func (f *Functions) GetUniformLocation(p Program, name string) Uniform {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return Uniform{int(C.glGetUniformLocation(C.GLuint(p.V), cname))}
}

func (f *Functions) InvalidateFramebuffer(target, attachment Enum) {
	C.gio_glInvalidateFramebuffer(C.GLenum(target), C.GLenum(attachment))
}

func (f *Functions) LinkProgram(p Program) { C.glLinkProgram(C.GLuint(p.V)) }

func (f *Functions) PixelStorei(pname Enum, param int32) {
	C.glPixelStorei(C.GLenum(pname), C.GLint(param))
}

func (f *Functions) ReadPixels(x, y, width, height int, format, ty Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	C.glReadPixels(C.GLint(x), C.GLint(y), C.GLsizei(width), C.GLsizei(height), C.GLenum(format), C.GLenum(ty), p)
}

func (f *Functions) ShaderSource(s Shader, src string) {
	csrc := C.CString(src)
	defer C.free(unsafe.Pointer(csrc))
	strlen := C.GLint(len(src))
	C.glShaderSource(C.GLuint(s.V), 1, &csrc, &strlen)
}

func (f *Functions) TexImage2D(target Enum, level, internalFormat, width, height int, format, ty Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	C.glTexImage2D(C.GLenum(target), C.GLint(level), C.GLint(internalFormat), C.GLsizei(width), C.GLsizei(height), 0, C.GLenum(format), C.GLenum(ty), p)
}

func (f *Functions) TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	C.glTexSubImage2D(C.GLenum(target), C.GLint(level), C.GLint(x), C.GLint(y), C.GLsizei(width), C.GLsizei(height), C.GLenum(format), C.GLenum(ty), p)
}

func (f *Functions) TexParameteri(target, pname Enum, param int) {
	C.glTexParameteri(C.GLenum(target), C.GLenum(pname), C.GLint(param))
}

func (f *Functions) Uniform1f(dst Uniform, v float32) { C.glUniform1f(C.GLint(dst.V), C.GLfloat(v)) }
func (f *Functions) Uniform1i(dst Uniform, v int)     { C.glUniform1i(C.GLint(dst.V), C.GLint(v)) }

func (f *Functions) Uniform2f(dst Uniform, v0, v1 float32) {
	C.glUniform2f(C.GLint(dst.V), C.GLfloat(v0), C.GLfloat(v1))
}

func (f *Functions) Uniform4f(dst Uniform, v0, v1, v2, v3 float32) {
	C.glUniform4f(C.GLint(dst.V), C.GLfloat(v0), C.GLfloat(v1), C.GLfloat(v2), C.GLfloat(v3))
}

func (f *Functions) UseProgram(p Program) { C.glUseProgram(C.GLuint(p.V)) }

func (f *Functions) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	var n C.GLboolean = C.GL_FALSE
	if normalized {
		n = C.GL_TRUE
	}
	C.gio_glVertexAttribPointer(C.GLuint(dst), C.GLint(size), C.GLenum(ty), n, C.GLsizei(stride), C.uintptr_t(offset))
}

func (f *Functions) Viewport(x, y, width, height int) {
	C.glViewport(C.GLint(x), C.GLint(y), C.GLsizei(width), C.GLsizei(height))
}
