// SPDX-License-Identifier: Unlicense OR MIT

package ipc

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeShaderActions struct {
	shaders map[string]bool
	reloaded bool
}

func (f *fakeShaderActions) List() []ShaderSnapshot {
	var out []ShaderSnapshot
	for name, enabled := range f.shaders {
		out = append(out, ShaderSnapshot{Name: name, Enabled: enabled, Path: name + ".frag"})
	}
	return out
}

func (f *fakeShaderActions) Toggle(name string) bool {
	v, ok := f.shaders[name]
	if !ok {
		return false
	}
	f.shaders[name] = !v
	return true
}

func (f *fakeShaderActions) Enable(name string) bool {
	if _, ok := f.shaders[name]; !ok {
		return false
	}
	f.shaders[name] = true
	return true
}

func (f *fakeShaderActions) Disable(name string) bool {
	if _, ok := f.shaders[name]; !ok {
		return false
	}
	f.shaders[name] = false
	return true
}

func (f *fakeShaderActions) Reload() bool { f.reloaded = true; return true }

func roundTrip(t *testing.T, s *Server, req any) map[string]any {
	t.Helper()
	conn, err := net.DialTimeout("unix", s.ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	enc := json.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		t.Fatalf("encode: %v", err)
	}
	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		t.Fatalf("no reply: %v", sc.Err())
	}
	var out map[string]any
	if err := json.Unmarshal(sc.Bytes(), &out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return out
}

func TestS5ShaderToggleViaIPC(t *testing.T) {
	actions := &fakeShaderActions{shaders: map[string]bool{"crt": false}}
	s, err := NewShaderServer(actions, testLogger())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()
	go s.Serve()

	reply := roundTrip(t, s, ShaderCommand{Cmd: "toggle", Name: "crt"})
	if ok, _ := reply["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %+v", reply)
	}
	if !actions.shaders["crt"] {
		t.Fatal("toggle should have flipped crt to enabled")
	}
}

func TestUnknownShaderNameReturnsError(t *testing.T) {
	actions := &fakeShaderActions{shaders: map[string]bool{}}
	s, err := NewShaderServer(actions, testLogger())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()
	go s.Serve()

	reply := roundTrip(t, s, ShaderCommand{Cmd: "enable", Name: "nope"})
	if ok, _ := reply["ok"].(bool); ok {
		t.Fatal("expected ok=false for unknown shader name")
	}
}

func TestMalformedJSONReturnsParseError(t *testing.T) {
	actions := &fakeShaderActions{}
	s, err := NewShaderServer(actions, testLogger())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()
	go s.Serve()

	conn, err := net.DialTimeout("unix", s.ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.Write([]byte("{not json\n"))
	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		t.Fatalf("no reply: %v", sc.Err())
	}
	var out map[string]any
	json.Unmarshal(sc.Bytes(), &out)
	if ok, _ := out["ok"].(bool); ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
}
