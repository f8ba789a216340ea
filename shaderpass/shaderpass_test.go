// SPDX-License-Identifier: Unlicense OR MIT

package shaderpass

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryAnyEnabledRequiresCompiledProgram(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Entries = []*ShaderEntry{{Name: "crt", Enabled: true}} // Program still zero value
	if r.AnyEnabled() {
		t.Fatal("an enabled entry with no compiled program must not count as active")
	}
}

func TestToggleEnableDisableUnknownNameIsNoOp(t *testing.T) {
	r := NewRegistry(testLogger())
	if r.Toggle("missing") || r.Enable("missing") || r.Disable("missing") {
		t.Fatal("operations on an unknown shader name must report failure")
	}
}

func TestHotReloadSkipsUnchangedMtime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crt.frag")
	if err := os.WriteFile(path, []byte("fragColor = texture(u_tex, v_uv);"), 0644); err != nil {
		t.Fatal(err)
	}
	fi, _ := os.Stat(path)

	r := NewRegistry(testLogger())
	e := &ShaderEntry{Name: "crt", Path: path, source: "fragColor = texture(u_tex, v_uv);", mtime: fi.ModTime()}
	r.Entries = []*ShaderEntry{e}

	// No mtime change: RecompileIfChanged must not touch source/program.
	r.RecompileIfChanged(nil)
	if e.Program.Valid() {
		t.Fatal("should not have attempted compilation without a real GL context")
	}
}

func TestUserUniformNamesSkipsReservedAndNonFloat(t *testing.T) {
	src := `
uniform float intensity;
uniform sampler2D u_tex;
uniform float u_time;
uniform vec2 offset;
uniform float wobble;
void main() {}
`
	got := userUniformNames(src)
	want := []string{"intensity", "wobble"}
	if len(got) != len(want) {
		t.Fatalf("userUniformNames = %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != name {
			t.Fatalf("userUniformNames[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestFindIsCaseSensitiveExactMatch(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Entries = []*ShaderEntry{{Name: "CRT"}}
	if r.find("crt") != nil {
		t.Fatal("shader names should match exactly, not case-insensitively")
	}
}
