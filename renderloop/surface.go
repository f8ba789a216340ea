// SPDX-License-Identifier: Unlicense OR MIT

package renderloop

import (
	"log/slog"
	"time"

	"trixie.run/config"
	"trixie.run/embedded"
	"trixie.run/internal/gl"
	"trixie.run/pixelui"
	"trixie.run/shaderpass"
	"trixie.run/twm"
)

// Compositor is the surface-state machinery this package calls back
// into for window-space render elements and commit/frame bookkeeping.
// compositor.Surface implements it; the Wayland protocol glue that would
// feed it window surfaces is out of scope here (see
// spec §6 — "Wayland protocol handler glue... treated as an external
// collaborator").
type Compositor interface {
	RenderFrame(elements []RenderElement, clear config.RGBA) error
	FrameSubmitted()
	WindowElements() []RenderElement
}

// RenderElement is a z-ordered, output-space quad: either an opaque
// chrome draw-command batch, an embedded texture, or a compositor
// window surface. The renderer backend interprets Kind to pick its
// draw path.
type RenderElement struct {
	Kind      ElementKind
	Chrome    []pixelui.DrawCmd
	Embedded  embedded.RenderElement
}

type ElementKind int

const (
	ElementChrome ElementKind = iota
	ElementEmbedded
	ElementWindow
)

// Engine wires the TWM, the embedded manager, and the shader pass
// together for one output's per-frame work (render_surface, §4.7).
type Engine struct {
	Comp      Compositor
	TWM       *twm.State
	Embedded  *embedded.Manager
	Shaders   *shaderpass.Registry
	Pass      *shaderpass.Pipeline
	GL        *gl.Functions
	Cfg       config.Config
	Log       *slog.Logger
	StartedAt time.Time

	cellW, cellH int
	mouseX, mouseY float32
}

// SetCellSize configures the pixel size of one TWM cell; the glyph
// atlas owns the font metrics this derives from (the caller passes its
// CellW/CellH).
func (e *Engine) SetCellSize(w, h int) { e.cellW, e.cellH = w, h }

func (e *Engine) SetMouse(x, y float32) { e.mouseX, e.mouseY = x, y }

// RenderSurface runs one output's per-frame sequence. Returns whether
// the resulting frame had content (the caller queues a KMS page flip
// only if so).
func (e *Engine) RenderSurface(vpW, vpH int, scanoutFBO gl.Framebuffer) bool {
	// Step 2: TWM chrome build.
	chromeCmds := e.TWM.BuildFrameCmds(e.cellW, e.cellH, vpW, vpH)

	// Step 3: sync embedded placements from the TWM's embedded cell rects,
	// inset by one cell on each edge. The chrome cuts its hole with
	// per-axis insets (cellW horizontally, cellH vertically — see
	// twm/chrome.go's buf.hole call), so the placement must match axis
	// for axis rather than insetting both by whichever cell dimension is
	// larger.
	for appID, rect := range e.TWM.AllEmbeddedCellRects() {
		insetX := float64(e.cellW)
		insetY := float64(e.cellH)
		px := embedded.Placement{
			X: int32(rect.X + insetX),
			Y: int32(rect.Y + insetY),
			W: int32(rect.W - 2*insetX),
			H: int32(rect.H - 2*insetY),
		}
		if px.W < 0 {
			px.W = 0
		}
		if px.H < 0 {
			px.H = 0
		}
		e.Embedded.UpdatePlacement(appID, px)
	}

	// Step 4: collect render elements bottom-to-top: chrome, embedded,
	// window surfaces.
	var elements []RenderElement
	if len(chromeCmds) > 0 {
		elements = append(elements, RenderElement{Kind: ElementChrome, Chrome: chromeCmds})
	}
	for _, em := range e.Embedded.RenderElements() {
		elements = append(elements, RenderElement{Kind: ElementEmbedded, Embedded: em})
	}
	elements = append(elements, e.Comp.WindowElements()...)

	// Step 5: shader pass begin, if any shader is enabled.
	shaderActive := e.Pass.Begin(vpW, vpH, e.Shaders, scanoutFBO)

	// Step 6: compositor renders all elements into whichever FBO is
	// currently bound (scene FBO if shaderActive, else the scanout FBO).
	if err := e.Comp.RenderFrame(elements, e.Cfg.BackgroundColor); err != nil {
		e.Log.Warn("render_frame failed, dropping frame", "err", err)
		if shaderActive {
			e.Pass.End(vpW, vpH, e.mouseX, e.mouseY, e.Shaders)
		}
		return false
	}

	// Step 7: shader pass end, if active.
	if shaderActive {
		e.Pass.End(vpW, vpH, e.mouseX, e.mouseY, e.Shaders)
	}

	return len(elements) > 0
}
