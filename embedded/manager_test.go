// SPDX-License-Identifier: Unlicense OR MIT

package embedded

import (
	"io"
	"log/slog"
	"testing"
)

type fakeConfigurer struct {
	calls []SurfaceID
}

func (f *fakeConfigurer) Configure(toplevel SurfaceID, w, h int) {
	f.calls = append(f.calls, toplevel)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTryClaimFailsWithoutPendingReservation(t *testing.T) {
	m := New(&fakeConfigurer{}, testLogger())
	if m.TryClaim("firefox", 1, 2) {
		t.Fatal("TryClaim should fail with no pending reservation")
	}
}

func TestS1ImmediateClaim(t *testing.T) {
	cfg := &fakeConfigurer{}
	m := New(cfg, testLogger())
	m.RequestPlacement("firefox", Placement{X: 0, Y: 0, W: 1920, H: 1080})

	ok := m.TryClaim("firefox", 1, 2)
	if !ok {
		t.Fatal("expected TryClaim to succeed")
	}
	if _, stillPending := m.pending["firefox"]; stillPending {
		t.Fatal("pending reservation should be consumed on claim")
	}
	e, ok := m.entries["firefox"]
	if !ok {
		t.Fatal("expected entries[firefox] to exist")
	}
	if e.Placement.W != 1920 || e.Placement.H != 1080 {
		t.Fatalf("unexpected placement: %+v", e.Placement)
	}
	if len(cfg.calls) != 1 {
		t.Fatalf("expected exactly one configure call, got %d", len(cfg.calls))
	}
}

func TestS2DeferredClaim(t *testing.T) {
	cfg := &fakeConfigurer{}
	m := New(cfg, testLogger())
	m.RequestPlacement("firefox", Placement{W: 1920, H: 1080})

	// new_toplevel: empty app_id, mapped normally and tracked.
	m.RegisterUnclaimed(SurfaceID(7))

	// first commit: app_id now known and matches a pending reservation.
	if !m.ReconsiderOnCommit(SurfaceID(7), SurfaceID(8), "firefox") {
		t.Fatal("expected ReconsiderOnCommit to signal a claim")
	}
	if _, tracked := m.unclaimedToplevels[SurfaceID(7)]; tracked {
		t.Fatal("surface should be removed from unclaimedToplevels after claim")
	}
	if !m.TryClaim("firefox", SurfaceID(7), SurfaceID(8)) {
		t.Fatal("expected the deferred TryClaim to succeed")
	}
}

func TestReconsiderOnCommitDropsNormalWindow(t *testing.T) {
	m := New(&fakeConfigurer{}, testLogger())
	m.RegisterUnclaimed(SurfaceID(1))
	if m.ReconsiderOnCommit(SurfaceID(1), SurfaceID(2), "some-normal-app") {
		t.Fatal("no pending reservation should mean no claim")
	}
	if _, tracked := m.unclaimedToplevels[SurfaceID(1)]; tracked {
		t.Fatal("surface should be permanently dropped from tracking once resolved as normal")
	}
}

func TestR5CloseRemovesFromBothMaps(t *testing.T) {
	cfg := &fakeConfigurer{}
	m := New(cfg, testLogger())
	m.RequestPlacement("firefox", Placement{W: 800, H: 600})
	m.TryClaim("firefox", 1, 2)

	m.Close("firefox")

	if _, ok := m.entries["firefox"]; ok {
		t.Fatal("entries should not contain firefox after Close")
	}
	if _, ok := m.pending["firefox"]; ok {
		t.Fatal("pending should not contain firefox after Close")
	}
}

func TestRenderElementsOnlyIncludeMappedEntries(t *testing.T) {
	cfg := &fakeConfigurer{}
	m := New(cfg, testLogger())
	m.RequestPlacement("firefox", Placement{W: 800, H: 600})
	m.TryClaim("firefox", 1, 2)

	if got := m.RenderElements(); len(got) != 0 {
		t.Fatalf("expected no render elements before first commit, got %d", len(got))
	}
}
