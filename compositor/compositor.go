// SPDX-License-Identifier: Unlicense OR MIT

// Package compositor is the renderloop.Compositor implementation: it
// turns one output's render-element list into GL draw calls, batching
// chrome through pixelui.Renderer and blitting each embedded texture
// with a small fixed pipeline of its own. Window-surface elements
// (direct Wayland client buffers) are accepted but left unimplemented,
// since the Wayland protocol handler that would populate them is an
// external collaborator out of scope for this build; see the doc on
// renderloop.Compositor.
package compositor

import (
	"log/slog"
	"unsafe"

	"trixie.run/config"
	"trixie.run/embedded"
	"trixie.run/internal/gl"
	"trixie.run/pixelui"
	"trixie.run/renderloop"
	"trixie.run/shaper"
)

// Surface draws chrome and embedded-client render elements for one
// output. Grounded on the teacher's gpu/path.go fullscreen-quad draw
// (a fixed vertex attribute buffer bound once, DrawArrays per quad)
// generalised to per-element texture rebinding and an output-space
// rect uniform instead of a static clip transform.
type Surface struct {
	gl       *gl.Functions
	renderer *pixelui.Renderer
	shaper   *shaper.Shaper
	log      *slog.Logger

	quadProgram gl.Program
	quadVBO     gl.Buffer
	aUV         gl.Attrib
	uRect       gl.Uniform
	uViewport   gl.Uniform
	vpW, vpH    int
}

const quadVS = `#version 300 es
layout(location=0) in vec2 a_uv;
uniform vec4 u_rect;
uniform vec2 u_viewport;
out vec2 v_uv;
void main() {
	vec2 px = u_rect.xy + a_uv * u_rect.zw;
	vec2 ndc = (px / u_viewport) * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	v_uv = a_uv;
}
`

const quadFS = `#version 300 es
precision mediump float;
in vec2 v_uv;
uniform sampler2D u_tex;
out vec4 fragColor;
void main() { fragColor = texture(u_tex, v_uv); }
`

// New builds the textured-quad pipeline used for embedded-client
// elements; chrome is drawn through the shared renderer/shaper pair.
func New(f *gl.Functions, renderer *pixelui.Renderer, sh *shaper.Shaper, log *slog.Logger) (*Surface, error) {
	s := &Surface{gl: f, renderer: renderer, shaper: sh, log: log}

	vs := f.CreateShader(gl.VERTEX_SHADER)
	f.ShaderSource(vs, quadVS)
	f.CompileShader(vs)
	fs := f.CreateShader(gl.FRAGMENT_SHADER)
	f.ShaderSource(fs, quadFS)
	f.CompileShader(fs)
	p := f.CreateProgram()
	f.AttachShader(p, vs)
	f.AttachShader(p, fs)
	f.LinkProgram(p)
	f.DeleteShader(vs)
	f.DeleteShader(fs)
	s.quadProgram = p
	s.uRect = f.GetUniformLocation(p, "u_rect")
	s.uViewport = f.GetUniformLocation(p, "u_viewport")

	s.quadVBO = f.CreateBuffer()
	verts := []float32{0, 0, 1, 0, 0, 1, 1, 1}
	f.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	f.BufferData(gl.ARRAY_BUFFER, flattenF32(verts), gl.STATIC_DRAW)

	return s, nil
}

func flattenF32(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// Resize updates the viewport used to map embedded placements into NDC.
func (s *Surface) Resize(w, h int) { s.vpW, s.vpH = w, h }

// RenderFrame implements renderloop.Compositor: clears the bound
// framebuffer, draws chrome DrawCmds through the pixel-UI renderer, and
// blits each embedded texture as an output-space quad, in z-order.
func (s *Surface) RenderFrame(elements []renderloop.RenderElement, clear config.RGBA) error {
	s.gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	s.gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	for _, el := range elements {
		switch el.Kind {
		case renderloop.ElementChrome:
			s.renderer.Flush(el.Chrome, s.shaper)
		case renderloop.ElementEmbedded:
			s.drawEmbedded(el.Embedded)
		case renderloop.ElementWindow:
			// Direct client window surfaces: no protocol glue wired in
			// this build (see package doc). Dropping the element keeps
			// the frame sequence correct for the elements this build
			// does own.
		}
	}
	return nil
}

func (s *Surface) drawEmbedded(em embedded.RenderElement) {
	if !em.Texture.Valid() || s.vpW == 0 || s.vpH == 0 {
		return
	}
	s.gl.UseProgram(s.quadProgram)
	s.gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	s.gl.EnableVertexAttribArray(s.aUV)
	s.gl.VertexAttribPointer(s.aUV, 2, gl.FLOAT, false, 0, 0)

	s.gl.Uniform4f(s.uRect, float32(em.Placement.X), float32(em.Placement.Y), float32(em.Placement.W), float32(em.Placement.H))
	s.gl.Uniform2f(s.uViewport, float32(s.vpW), float32(s.vpH))

	s.gl.ActiveTexture(gl.TEXTURE0)
	s.gl.BindTexture(gl.TEXTURE_2D, em.Texture)
	s.gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	s.gl.DisableVertexAttribArray(s.aUV)
}

// FrameSubmitted implements renderloop.Compositor.
func (s *Surface) FrameSubmitted() {}

// WindowElements implements renderloop.Compositor; always empty since
// no Wayland protocol glue is wired in this build.
func (s *Surface) WindowElements() []renderloop.RenderElement { return nil }
