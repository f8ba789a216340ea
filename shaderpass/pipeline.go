// SPDX-License-Identifier: Unlicense OR MIT

package shaderpass

import "trixie.run/internal/gl"

// fboTarget is one RGBA8 texture + framebuffer sized to the viewport.
type fboTarget struct {
	tex gl.Texture
	fbo gl.Framebuffer
	w, h int
}

func newFBOTarget(c *gl.Functions, w, h int, filter gl.Enum) fboTarget {
	tex := c.CreateTexture()
	c.BindTexture(gl.TEXTURE_2D, tex)
	c.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int(filter))
	c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int(filter))
	c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	fbo := c.CreateFramebuffer()
	c.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	c.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	return fboTarget{tex: tex, fbo: fbo, w: w, h: h}
}

func (t *fboTarget) release(c *gl.Functions) {
	if t.fbo.Valid() {
		c.DeleteFramebuffer(t.fbo)
	}
	if t.tex.Valid() {
		c.DeleteTexture(t.tex)
	}
	*t = fboTarget{}
}

// Pipeline owns the lazily-allocated SceneFbo and PingPongPair and runs
// the begin/end sequence around one compositor frame.
type Pipeline struct {
	c *gl.Functions

	scene    fboTarget
	pingpong [2]fboTarget
	w, h     int

	savedFBO gl.Framebuffer
	active   bool
	startedAt timeSource
}

type timeSource func() float64

func NewPipeline(c *gl.Functions, startedAt timeSource) *Pipeline {
	return &Pipeline{c: c, startedAt: startedAt}
}

func (p *Pipeline) ensureResources(w, h int) {
	if p.w == w && p.h == h && p.scene.fbo.Valid() {
		return
	}
	p.scene.release(p.c)
	p.pingpong[0].release(p.c)
	p.pingpong[1].release(p.c)
	p.scene = newFBOTarget(p.c, w, h, gl.NEAREST)
	p.pingpong[0] = newFBOTarget(p.c, w, h, gl.LINEAR)
	p.pingpong[1] = newFBOTarget(p.c, w, h, gl.LINEAR)
	p.w, p.h = w, h
}

// SceneFramebuffer exposes the scene FBO so render_frame can target it
// once Begin has returned true.
func (p *Pipeline) SceneFramebuffer() gl.Framebuffer { return p.scene.fbo }

// Begin ensures resources, saves the caller's current draw FBO binding
// (the scanout FBO), and binds the scene FBO. Returns false (and does
// nothing) if no shader is enabled.
func (p *Pipeline) Begin(vpW, vpH int, reg *Registry, currentDrawFBO gl.Framebuffer) bool {
	if !reg.AnyEnabled() {
		return false
	}
	p.ensureResources(vpW, vpH)
	p.savedFBO = currentDrawFBO
	p.active = true
	p.c.BindFramebuffer(gl.FRAMEBUFFER, p.scene.fbo)
	return true
}

// End restores the saved FBO binding, blits the scene into ping-pong[0],
// runs every enabled shader in order, and blits the final result back
// into the scanout FBO.
func (p *Pipeline) End(vpW, vpH int, mouseX, mouseY float32, reg *Registry) {
	if !p.active {
		return
	}
	p.active = false
	c := p.c

	c.BindFramebuffer(gl.FRAMEBUFFER, p.savedFBO)

	c.BindFramebuffer(gl.READ_FRAMEBUFFER, p.scene.fbo)
	c.BindFramebuffer(gl.DRAW_FRAMEBUFFER, p.pingpong[0].fbo)
	c.BlitFramebuffer(0, 0, vpW, vpH, 0, 0, vpW, vpH, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	src, dst := 0, 1
	for _, e := range reg.Entries {
		if !e.Enabled || !e.Program.Valid() {
			continue
		}
		c.BindFramebuffer(gl.FRAMEBUFFER, p.pingpong[dst].fbo)
		c.UseProgram(e.Program)
		c.ActiveTexture(gl.TEXTURE0)
		c.BindTexture(gl.TEXTURE_2D, p.pingpong[src].tex)
		if e.uTex.Valid() {
			c.Uniform1i(e.uTex, 0)
		}
		if e.uTime.Valid() {
			c.Uniform1f(e.uTime, float32(p.startedAt()))
		}
		if e.uRes.Valid() {
			c.Uniform2f(e.uRes, float32(vpW), float32(vpH))
		}
		if e.uMouse.Valid() {
			c.Uniform2f(e.uMouse, mouseX, mouseY)
		}
		for _, name := range e.userUnis {
			loc, ok := e.uniforms[name]
			if !ok || !loc.Valid() {
				continue
			}
			c.Uniform1f(loc, e.userVals[name])
		}
		c.DrawArrays(gl.TRIANGLES, 0, 3)
		src, dst = dst, src
	}

	// src now holds the last pass's output (it was dst when drawn, then
	// swapped at the end of that iteration); with no passes run it still
	// holds the blitted scene.
	c.BindFramebuffer(gl.READ_FRAMEBUFFER, p.pingpong[src].fbo)
	c.BindFramebuffer(gl.DRAW_FRAMEBUFFER, p.savedFBO)
	c.BlitFramebuffer(0, 0, vpW, vpH, 0, 0, vpW, vpH, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	c.UseProgram(gl.Program{})
	c.BindTexture(gl.TEXTURE_2D, gl.Texture{})
}
