// SPDX-License-Identifier: Unlicense OR MIT

package pixelui

import (
	"fmt"
	"math"

	"trixie.run/glyphatlas"
	"trixie.run/internal/gl"
	"trixie.run/shaper"
)

// Reserved for a future cursor overlay — never wired into any render
// element set (spec §9 open question).
const (
	CursorW = 2
	CursorH = 16
)

const (
	bgInstanceFloats    = 8 // rect[4] + color[4]
	glyphInstanceFloats = 12 // glyph_rect[4] + uv_rect[4] + fg[4]
)

type bgInstance [bgInstanceFloats]float32
type glyphInstance [glyphInstanceFloats]float32

// Renderer owns the two GL programs, the atlas texture, and instance
// buffers needed to flush a DrawCmd list in one frame. It must only be
// touched from the thread owning the EGL context; see threadlocal.go for
// how external render-element callbacks reach it safely.
type Renderer struct {
	gl *gl.Functions

	bgProg, glyphProg gl.Program
	uVpBg, uVpGlyph   gl.Uniform
	uTex              gl.Uniform

	bgBuf, glyphBuf gl.Buffer
	bgCap, glyphCap int

	atlasTex        gl.Texture
	atlasUploaded   bool

	atlas *glyphatlas.Atlas

	vpW, vpH int
}

// New compiles the background and glyph programs and allocates the atlas
// texture. Must run on the GL thread.
func New(f *gl.Functions, atlas *glyphatlas.Atlas) (*Renderer, error) {
	r := &Renderer{gl: f, atlas: atlas}

	bg, err := compileProgram(f, bgVertexSrc, bgFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("pixelui: background program: %w", err)
	}
	r.bgProg = bg
	r.uVpBg = f.GetUniformLocation(bg, "u_vp")

	gp, err := compileProgram(f, glyphVertexSrc, glyphFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("pixelui: glyph program: %w", err)
	}
	r.glyphProg = gp
	r.uVpGlyph = f.GetUniformLocation(gp, "u_vp")
	r.uTex = f.GetUniformLocation(gp, "u_tex")

	r.bgBuf = f.CreateBuffer()
	r.glyphBuf = f.CreateBuffer()
	r.atlasTex = f.CreateTexture()
	f.BindTexture(gl.TEXTURE_2D, r.atlasTex)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return r, nil
}

// Resize stores the physical viewport used to convert pixel-space
// DrawCmds to NDC. The caller must keep this synchronised with the real
// GL viewport or everything stretches.
func (r *Renderer) Resize(w, h int) { r.vpW, r.vpH = w, h }

// Flush runs the full per-frame algorithm from spec §4.3: partition
// commands, shape text via the Shaper, patch the dirty atlas rect, then
// issue two instanced draws.
func (r *Renderer) Flush(cmds []DrawCmd, sh *shaper.Shaper) {
	var bgInsts []bgInstance
	var glyphInsts []glyphInstance

	emit := func(rect Rect, c Color) {
		bgInsts = append(bgInsts, bgInstance{rect.X, rect.Y, rect.W, rect.H, c.R, c.G, c.B, c.A})
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdFillRect:
			emit(cmd.Rect, cmd.Color)
		case CmdStrokeRect:
			for _, bar := range strokeToFills(cmd.Rect, cmd.Thickness) {
				emit(bar.Rect, cmd.Color)
			}
		case CmdHLine:
			emit(Rect{cmd.Rect.X, cmd.Rect.Y - cmd.Thickness/2, cmd.Rect.W, cmd.Thickness}, cmd.Color)
		case CmdVLine:
			emit(Rect{cmd.Rect.X - cmd.Thickness/2, cmd.Rect.Y, cmd.Thickness, cmd.Rect.H}, cmd.Color)
		case CmdText:
			r.emitText(cmd, sh, emit, &glyphInsts)
		}
	}

	r.patchAtlasIfDirty()

	r.gl.Enable(gl.BLEND)
	r.gl.BlendFuncSeparate(gl.ONE, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	r.drawBackground(bgInsts)
	r.drawGlyphs(glyphInsts)
}

func (r *Renderer) emitText(cmd DrawCmd, sh *shaper.Shaper, emitBg func(Rect, Color), glyphInsts *[]glyphInstance) {
	estWidth := estimateWidth(cmd.Text, r.atlas)
	if cmd.MaxWidth > 0 && estWidth > cmd.MaxWidth {
		estWidth = cmd.MaxWidth
	}
	if cmd.Style.Bg != Reset {
		emitBg(Rect{cmd.X, cmd.Y, estWidth, float32(r.atlas.CellH)}, cmd.Style.Bg)
	}

	pen := float64(cmd.X)
	maxX := math.MaxFloat64
	if cmd.MaxWidth > 0 {
		maxX = float64(cmd.X) + float64(cmd.MaxWidth)
	}

	for _, run := range shaper.SegmentStr(cmd.Text, cmd.Style.Bold, cmd.Style.Italic) {
		if run.Synth {
			for _, ch := range run.Text {
				if pen >= maxX {
					return
				}
				g := r.atlas.Glyph(ch, run.Bold, run.Italic)
				r.appendGlyphQuad(g, pen, float64(cmd.Y), cmd.Style.Fg, glyphInsts)
				pen += float64(r.atlas.CellW)
			}
			continue
		}
		for _, sg := range sh.Shape(run.Text) {
			if pen >= maxX {
				return
			}
			g := r.atlas.GlyphByID(sg.GlyphID, run.Bold, run.Italic)
			if g != nil {
				x := math.Round(pen + float64(g.BearingX))
				y := math.Round(float64(cmd.Y) + float64(r.atlas.Ascender) - float64(g.BearingY))
				r.appendGlyphQuad(g, x, y, cmd.Style.Fg, glyphInsts)
			}
			adv := float64(r.atlas.CellW)
			if g != nil {
				adv = float64(g.Advance)
			}
			pen += adv * float64(sg.ClusterWidth)
		}
	}
}

func (r *Renderer) appendGlyphQuad(g *glyphatlas.GlyphInfo, x, y float64, fg Color, glyphInsts *[]glyphInstance) {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return
	}
	*glyphInsts = append(*glyphInsts, glyphInstance{
		float32(x), float32(y), float32(g.Width), float32(g.Height),
		g.UvX, g.UvY, g.UvW, g.UvH,
		fg.R, fg.G, fg.B, fg.A,
	})
}

func estimateWidth(text string, atlas *glyphatlas.Atlas) float32 {
	return float32(len([]rune(text)) * atlas.CellW)
}

func (r *Renderer) patchAtlasIfDirty() {
	dirty, maxY := r.atlas.Dirty()
	if !dirty {
		return
	}
	f := r.gl
	f.BindTexture(gl.TEXTURE_2D, r.atlasTex)
	img := r.atlas.Image()
	if !r.atlasUploaded {
		f.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, glyphatlas.Size, glyphatlas.Size, gl.RGBA, gl.UNSIGNED_BYTE, img.Pix)
		r.atlasUploaded = true
	} else {
		rowBytes := glyphatlas.Size * 4
		if maxY > glyphatlas.Size {
			maxY = glyphatlas.Size
		}
		f.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, glyphatlas.Size, maxY, gl.RGBA, gl.UNSIGNED_BYTE, img.Pix[:maxY*rowBytes])
	}
	r.atlas.ClearDirty()
}

func (r *Renderer) drawBackground(insts []bgInstance) {
	if len(insts) == 0 {
		return
	}
	f := r.gl
	f.UseProgram(r.bgProg)
	f.Uniform2f(r.uVpBg, float32(r.vpW), float32(r.vpH))
	r.uploadInstances(r.bgBuf, insts, &r.bgCap, bgInstanceFloats)
	f.DrawArraysInstanced(gl.TRIANGLES, 0, 6, len(insts))
}

func (r *Renderer) drawGlyphs(insts []glyphInstance) {
	if len(insts) == 0 {
		return
	}
	f := r.gl
	f.UseProgram(r.glyphProg)
	f.Uniform2f(r.uVpGlyph, float32(r.vpW), float32(r.vpH))
	f.ActiveTexture(gl.TEXTURE0)
	f.BindTexture(gl.TEXTURE_2D, r.atlasTex)
	f.Uniform1i(r.uTex, 0)
	r.uploadInstances(r.glyphBuf, insts, &r.glyphCap, glyphInstanceFloats)
	f.DrawArraysInstanced(gl.TRIANGLES, 0, 6, len(insts))
}

// uploadInstances doubles the recorded capacity *cap_ whenever the
// instance count exceeds it, but re-specifies the GL buffer with
// BufferData at exactly the size of data on every call; the GL
// allocation follows the instance count, not *cap_.
func (r *Renderer) uploadInstances(buf gl.Buffer, data any, cap_ *int, floatsPerInst int) {
	var n int
	var bytes []byte
	switch v := data.(type) {
	case []bgInstance:
		n = len(v)
		bytes = flatten(v[:])
	case []glyphInstance:
		n = len(v)
		bytes = flattenGlyph(v[:])
	}
	r.gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if n > *cap_ {
		newCap := n
		if *cap_ > 0 {
			newCap = *cap_ * 2
			if newCap < n {
				newCap = n
			}
		}
		*cap_ = newCap
	}
	r.gl.BufferData(gl.ARRAY_BUFFER, bytes, gl.DYNAMIC_DRAW)
}

func compileProgram(f *gl.Functions, vsrc, fsrc string) (gl.Program, error) {
	vs := f.CreateShader(gl.VERTEX_SHADER)
	f.ShaderSource(vs, vsrc)
	f.CompileShader(vs)

	fs := f.CreateShader(gl.FRAGMENT_SHADER)
	f.ShaderSource(fs, fsrc)
	f.CompileShader(fs)

	p := f.CreateProgram()
	f.AttachShader(p, vs)
	f.AttachShader(p, fs)
	f.LinkProgram(p)
	if f.GetProgrami(p, gl.LINK_STATUS) == 0 {
		return gl.Program{}, fmt.Errorf("link failed: %s", f.GetProgramInfoLog(p))
	}
	return p, nil
}
