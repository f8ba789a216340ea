// SPDX-License-Identifier: Unlicense OR MIT

package embedded

import (
	"log/slog"

	"trixie.run/internal/gl"
)

// Placement is a sub-rectangle in physical pixels on the primary output.
type Placement struct{ X, Y, W, H int32 }

func (p Placement) logicalSize() (w, h int) { return int(p.W), int(p.H) }

// SurfaceID is an opaque owning handle to a Wayland surface object,
// supplied by the protocol glue outside this module (see spec §6 — the
// Wayland protocol layer is an external collaborator).
type SurfaceID uint64

// ToplevelConfigurer is implemented by the protocol glue; try_claim and
// update_placement call it to send configure events.
type ToplevelConfigurer interface {
	Configure(toplevel SurfaceID, w, h int)
}

// Entry is an embedded client with a reserved placement. Texture is nil
// until the client's first commit produces one.
type Entry struct {
	AppID         string
	Surface       SurfaceID
	Toplevel      SurfaceID
	Placement     Placement
	Texture       gl.Texture // zero value means "absent"
	CommitCounter uint64
	Mapped        bool
	PendingConfig bool
	shm           *shmWriter
}

// Manager owns placements, claimed entries, and the deferred-claim
// tracking table. Not safe for concurrent use; it is only ever touched
// from the render-loop thread (see spec §5).
type Manager struct {
	pending            map[string]Placement
	entries            map[string]*Entry
	unclaimedToplevels map[SurfaceID]string // keyed by surface object id, value = app_id at registration time (may be empty)
	cfg                ToplevelConfigurer
	log                *slog.Logger
}

func New(cfg ToplevelConfigurer, log *slog.Logger) *Manager {
	return &Manager{
		pending:            make(map[string]Placement),
		entries:            make(map[string]*Entry),
		unclaimedToplevels: make(map[SurfaceID]string),
		cfg:                cfg,
		log:                log,
	}
}

// RequestPlacement reserves placement for app_id, overwriting any
// existing reservation (entry or pending).
func (m *Manager) RequestPlacement(appID string, p Placement) {
	if e, ok := m.entries[appID]; ok {
		m.log.Warn("placement requested for already-connected app", "app_id", appID)
		e.Placement = p
		if e.PendingConfig {
			m.cfg.Configure(e.Toplevel, p.logicalSize())
		}
		return
	}
	m.pending[appID] = p
}

// TryClaim attempts to claim surface/toplevel for appID against a
// pending reservation. Returns false if the caller should fall back to
// mapping the surface as a normal window.
func (m *Manager) TryClaim(appID string, surface, toplevel SurfaceID) bool {
	p, ok := m.pending[appID]
	if !ok {
		return false
	}
	delete(m.pending, appID)

	w, h := p.logicalSize()
	m.cfg.Configure(toplevel, w, h)

	writer, err := newShmWriter(appID)
	if err != nil {
		m.log.Warn("shm writer create failed, readback disabled", "app_id", appID, "err", err)
		writer = nil
	}

	m.entries[appID] = &Entry{
		AppID:         appID,
		Surface:       surface,
		Toplevel:      toplevel,
		Placement:     p,
		Mapped:        false,
		PendingConfig: true,
		shm:           writer,
	}
	return true
}

// RegisterUnclaimed records a freshly-mapped toplevel that had an empty
// app_id or no matching reservation at creation time, per the deferred
// claim path.
func (m *Manager) RegisterUnclaimed(surface SurfaceID) {
	m.unclaimedToplevels[surface] = ""
}

// ReconsiderOnCommit re-checks a surface registered as unclaimed against
// the now-current app_id. It reports whether the caller must unmap the
// surface from the window space and hand toplevel/surface to TryClaim.
func (m *Manager) ReconsiderOnCommit(surface, toplevel SurfaceID, appID string) (shouldClaim bool) {
	if _, tracked := m.unclaimedToplevels[surface]; !tracked {
		return false
	}
	if appID == "" {
		return false
	}
	if _, hasPending := m.pending[appID]; !hasPending {
		delete(m.unclaimedToplevels, surface)
		return false
	}
	delete(m.unclaimedToplevels, surface)
	return true
}

// UpdatePlacement stores a new placement for an existing entry or
// pending reservation and configures the toplevel if appropriate.
func (m *Manager) UpdatePlacement(appID string, p Placement) {
	if e, ok := m.entries[appID]; ok {
		e.Placement = p
		if e.PendingConfig {
			m.cfg.Configure(e.Toplevel, p.logicalSize())
		}
		return
	}
	m.pending[appID] = p
}

// entryForSurface finds the entry owning a given surface, if any.
func (m *Manager) entryForSurface(surface SurfaceID) *Entry {
	for _, e := range m.entries {
		if e.Surface == surface {
			return e
		}
	}
	return nil
}

// TextureSource supplies the GL texture the compositor's surface-state
// machinery imported for a surface (external to this module).
type TextureSource interface {
	TextureFor(surface SurfaceID) (tex gl.Texture, w, h int, ok bool)
}

// Reader performs the GL-side scratch-FBO readback; grounded on
// internal/gl's Framebuffer/Texture wrappers, extended here with the
// row-flip loop spec'd for C5.
type Reader struct {
	c   *gl.Functions
	fbo gl.Framebuffer
}

func NewReader(c *gl.Functions) *Reader {
	return &Reader{c: c, fbo: c.CreateFramebuffer()}
}

// readback reads tex (w x h, RGBA8) one row at a time from GL's top row
// (h-1) down to row 0 and writes the rows top-to-bottom into a freshly
// allocated w*h*4 buffer, flipping GL's bottom-origin convention to the
// top-origin convention shm readers expect.
func (r *Reader) readback(tex gl.Texture, w, h int) []byte {
	r.c.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	r.c.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	stride := w * 4
	out := make([]byte, stride*h)
	row := make([]byte, stride)
	for y := 0; y < h; y++ {
		// GL row 0 is the bottom; destination row y takes GL row h-1-y,
		// so the top GL row lands in the first destination row and GL
		// row 0 in the last.
		r.c.ReadPixels(0, h-1-y, w, 1, gl.RGBA, gl.UNSIGNED_BYTE, row)
		copy(out[y*stride:(y+1)*stride], row)
	}
	return out
}

// OnCommit imports the surface's current texture (if any), reads it
// back to shm if a writer exists, and marks the entry mapped.
func (m *Manager) OnCommit(textures TextureSource, reader *Reader, surface SurfaceID) {
	e := m.entryForSurface(surface)
	if e == nil {
		return
	}
	tex, w, h, ok := textures.TextureFor(surface)
	if !ok {
		return
	}
	e.Texture = tex
	if e.shm != nil && w > 0 && h > 0 {
		pixels := reader.readback(tex, w, h)
		e.shm.write(uint32(w), uint32(h), pixels)
	}
	e.CommitCounter++
	e.Mapped = true
}

// RenderElement is one textured quad the compositor's C7 render pass
// draws for a mapped embedded entry.
type RenderElement struct {
	Texture       gl.Texture
	Placement     Placement
	CommitCounter uint64
}

// RenderElements yields one element per mapped entry.
func (m *Manager) RenderElements() []RenderElement {
	var out []RenderElement
	for _, e := range m.entries {
		if !e.Mapped {
			continue
		}
		out = append(out, RenderElement{Texture: e.Texture, Placement: e.Placement, CommitCounter: e.CommitCounter})
	}
	return out
}

// Close removes the entry and pending reservation for appID (both, per
// R5), unlinking its shm segment.
func (m *Manager) Close(appID string) {
	if e, ok := m.entries[appID]; ok {
		if e.shm != nil {
			e.shm.close()
		}
		delete(m.entries, appID)
	}
	delete(m.pending, appID)
}

// Entries exposes the manager's live entry map (not a copy) for IPC
// listing.
func (m *Manager) Entries() map[string]*Entry {
	return m.entries
}
