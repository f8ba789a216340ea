// SPDX-License-Identifier: Unlicense OR MIT

// Command trixie is the compositor entrypoint: it opens the primary
// DRM/GBM device, binds an EGL context to it, builds the seven core
// components, and drives renderloop.Loop from a poll-based event
// multiplexer until the DRM backend's VBlank event channel closes; there
// is no other quit path. Grounded on the teacher's cmd/gio
// entrypoint idiom (flag-driven setup feeding a long-lived run loop)
// generalised from a GUI-toolkit CLI to a standalone server process.
package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	bkfonts "github.com/benoitkugler/textlayout/fonts"
	bktruetype "github.com/benoitkugler/textlayout/fonts/truetype"

	"trixie.run/compositor"
	"trixie.run/config"
	"trixie.run/drm"
	"trixie.run/embedded"
	"trixie.run/glyphatlas"
	"trixie.run/internal/egl"
	"trixie.run/internal/gl"
	"trixie.run/ipc"
	"trixie.run/pixelui"
	"trixie.run/renderloop"
	"trixie.run/shaderpass"
	"trixie.run/shaper"
	"trixie.run/twm"
)

func main() {
	// The EGL context is made current on this thread and every GL call and
	// the event loop run here, so the goroutine stays on it.
	runtime.LockOSThread()
	card := flag.String("card", "/dev/dri/card0", "DRM primary node")
	cellPx := flag.Float64("cell-size", 18, "monospace cell font size in px")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Default()

	backend, err := drm.OpenPrimaryCard(*card)
	if err != nil {
		log.Error("failed to open primary GPU", "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	crtcs := backend.CRTCs()
	if len(crtcs) == 0 {
		log.Error("no connected connector found")
		os.Exit(1)
	}
	primary := crtcs[0]

	eglCtx, err := egl.NewContext(backend.NativeDisplay())
	if err != nil {
		log.Error("failed to create EGL display/context", "err", err)
		os.Exit(1)
	}
	defer eglCtx.Release()

	win, err := backend.CreateSurface(primary, primary.Connector.WidthPx, primary.Connector.HeightPx)
	if err != nil {
		log.Error("failed to create GBM scanout surface", "err", err)
		os.Exit(1)
	}
	if err := eglCtx.BindSurface(win, primary.Connector.WidthPx, primary.Connector.HeightPx); err != nil {
		log.Error("failed to bind EGL surface", "err", err)
		os.Exit(1)
	}
	gf := eglCtx.Functions()

	regular, err := rasterFace(gomono.TTF, *cellPx)
	if err != nil {
		log.Error("failed to load regular face", "err", err)
		os.Exit(1)
	}
	bold, err := rasterFace(gobold.TTF, *cellPx)
	if err != nil {
		log.Error("failed to load bold face", "err", err)
		os.Exit(1)
	}
	italic, err := rasterFace(goitalic.TTF, *cellPx)
	if err != nil {
		log.Error("failed to load italic face", "err", err)
		os.Exit(1)
	}
	atlas, err := glyphatlas.New(regular, bold, italic, *cellPx, 1.2)
	if err != nil {
		log.Error("failed to build glyph atlas", "err", err)
		os.Exit(1)
	}

	hbFace, err := shapeFace(gomono.TTF)
	if err != nil {
		log.Error("failed to load shaping face", "err", err)
		os.Exit(1)
	}
	sh := shaper.New(hbFace)

	renderer, err := pixelui.New(gf, atlas)
	if err != nil {
		log.Error("failed to build pixel-ui renderer", "err", err)
		os.Exit(1)
	}
	renderer.Resize(primary.Connector.WidthPx, primary.Connector.HeightPx)

	surface, err := compositor.New(gf, renderer, sh, log)
	if err != nil {
		log.Error("failed to build compositor surface", "err", err)
		os.Exit(1)
	}
	surface.Resize(primary.Connector.WidthPx, primary.Connector.HeightPx)

	cellW := int(atlas.CellW)
	cellH := int(atlas.CellH)
	twmState := twm.New(primary.Connector.WidthPx/cellW, primary.Connector.HeightPx/cellH)

	embMgr := embedded.New(noopConfigurer{}, log)
	shaderReg := shaderpass.NewRegistry(log)
	syncShaders(gf, shaderReg, cfg.Shaders)

	started := time.Now()
	pass := shaderpass.NewPipeline(gf, func() float64 { return time.Since(started).Seconds() })

	engine := &renderloop.Engine{
		Comp:      surface,
		TWM:       twmState,
		Embedded:  embMgr,
		Shaders:   shaderReg,
		Pass:      pass,
		GL:        gf,
		Cfg:       cfg,
		Log:       log,
		StartedAt: started,
	}
	engine.SetCellSize(cellW, cellH)

	embActions := &embeddedActions{mgr: embMgr, twm: twmState, log: log}
	embSrv, err := ipc.NewEmbeddedServer(embActions, log)
	if err != nil {
		log.Warn("embedded IPC socket unavailable", "err", err)
	} else {
		defer embSrv.Close()
		go embSrv.Serve()
	}
	shAct := &shaderIPCActions{reg: shaderReg, gl: gf}
	shaderSrv, err := ipc.NewShaderServer(shAct, log)
	if err != nil {
		log.Warn("shader IPC socket unavailable", "err", err)
	} else {
		defer shaderSrv.Close()
		go shaderSrv.Serve()
	}

	dur := config.FrameInterval(primary.Connector.RefreshHz, cfg.TargetHz)
	out := renderloop.NewOutputState(primary.Connector.Name, dur, time.Now())
	loop := &renderloop.Loop{
		Outputs: []*renderloop.OutputState{out},
		Render: func(o *renderloop.OutputState, now time.Time) bool {
			hadContent := engine.RenderSurface(primary.Connector.WidthPx, primary.Connector.HeightPx, gl.Framebuffer{})
			if hadContent {
				if err := backend.SubmitPageFlip(primary); err != nil {
					log.Warn("page flip submission failed", "err", err)
				}
			}
			if err := eglCtx.Present(); err != nil {
				log.Warn("eglSwapBuffers failed", "err", err)
			}
			return hadContent
		},
	}

	log.Info("trixie running", "output", primary.Connector.Name, "frame_duration", dur)
	runEventLoop(loop, backend)
}

// runEventLoop is the poll-based multiplexer described in spec §5: DRM
// VBlank events and the pacing timer are the only two sources wired
// here; Wayland client dispatch and libinput are external collaborators
// (see spec §1/§6) not implemented by this exercise.
func runEventLoop(loop *renderloop.Loop, backend drm.Backend) {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case name, ok := <-backend.VBlankEvents():
			if !ok {
				return
			}
			loop.VBlank(name)
		case now := <-ticker.C:
			loop.Tick(now)
		}
	}
}

// rasterFace parses ttf for glyph outline rasterization, the form
// glyphatlas.Face (and so golang.org/x/image/font.Face) needs. The
// result also satisfies glyphatlas.GIDFace, since shaped runs (see
// shaper.Shape) hand the atlas glyph indices rather than runes.
func rasterFace(ttf []byte, sizePx float64) (glyphatlas.Face, error) {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePx, DPI: 72})
	if err != nil {
		return nil, err
	}
	return glyphatlas.NewFaceFromSFNT(face, f, sizePx), nil
}

// shapeFace parses ttf into the benoitkugler/textlayout/fonts.FaceMetrics
// form harfbuzz shaping needs; a separate parse from rasterFace's since
// the two font abstractions share no common loader in the pack.
func shapeFace(ttf []byte) (bkfonts.FaceMetrics, error) {
	return bktruetype.Parse(bytes.NewReader(ttf))
}

// syncShaders adapts config.ShaderConfig (the on-disk shape) into
// shaderpass.Config (the registry's own shape), kept distinct per
// shaderpass.Config's doc comment.
func syncShaders(gf *gl.Functions, reg *shaderpass.Registry, in []config.ShaderConfig) {
	cfgs := make([]shaderpass.Config, len(in))
	for i, c := range in {
		cfgs[i] = shaderpass.Config{Name: c.Name, Path: c.Path, Enabled: c.Enabled, Uniforms: c.Uniforms}
	}
	reg.Sync(gf, cfgs)
}
