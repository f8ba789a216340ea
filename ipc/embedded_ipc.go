// SPDX-License-Identifier: Unlicense OR MIT

// Package ipc implements the two Unix-socket, newline-terminated JSON
// control planes: embedded-window management and shader control.
// Grounded on the teacher's io/event package for the "external request,
// applied on the next tick" idiom (here: the socket handler only ever
// enqueues a Command; Engine drains the queue once per render_surface
// call, per spec §5's ordering guarantees), generalised to an
// accept-loop-per-socket design since the teacher has no IPC surface of
// its own.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// socketPath resolves name under $XDG_RUNTIME_DIR, falling back to /tmp.
func socketPath(name string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = "/tmp"
	}
	return filepath.Join(dir, name)
}

// Server owns one Unix listener and hands each accepted connection's
// single decoded command to handle, writing back whatever it returns.
type Server struct {
	ln     net.Listener
	log    *slog.Logger
	handle func(raw json.RawMessage) (reply any, err error)
}

// listen binds the Unix socket name; NewEmbeddedServer and
// NewShaderServer open the two concrete sockets through it (see
// embedded_ipc.go / shader_ipc.go for their handle functions).
func listen(name string, log *slog.Logger, handle func(json.RawMessage) (any, error)) (*Server, error) {
	path := socketPath(name)
	os.Remove(path) // stale socket from a prior crashed run
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, log: log, handle: handle}, nil
}

// Serve accepts connections until the listener is closed; each
// connection handles exactly one command, per spec §6.1/§6.2 ("one
// command per connection").
func (s *Server) Serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("ipc accept failed", "err", err)
			continue
		}
		go s.serveOne(conn)
	}
}

func (s *Server) serveOne(conn net.Conn) {
	defer conn.Close()
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	if !sc.Scan() {
		return
	}
	line := sc.Bytes()

	reply, err := s.handle(append(json.RawMessage(nil), line...))
	var out any
	if err != nil {
		out = errorReply{OK: false, Error: err.Error()}
	} else {
		out = reply
	}
	enc := json.NewEncoder(conn)
	if werr := enc.Encode(out); werr != nil {
		s.log.Warn("ipc reply write failed", "err", werr)
	}
}

func (s *Server) Close() error { return s.ln.Close() }

type errorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// EmbeddedCommand is the decoded request grammar for §6.1.
type EmbeddedCommand struct {
	Cmd   string   `json:"cmd"`
	AppID string   `json:"app_id,omitempty"`
	Args  []string `json:"args,omitempty"`
	X     int32    `json:"x,omitempty"`
	Y     int32    `json:"y,omitempty"`
	W     int32    `json:"w,omitempty"`
	H     int32    `json:"h,omitempty"`
}

// WindowSnapshot is one entry in the cached window list the embedded
// socket replies with.
type WindowSnapshot struct {
	AppID  string `json:"app_id"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	W      int32  `json:"w"`
	H      int32  `json:"h"`
	Mapped bool   `json:"mapped"`
}

type embeddedReply struct {
	OK      bool             `json:"ok"`
	Windows []WindowSnapshot `json:"windows"`
}

// EmbeddedActions is the seam the render loop implements so commands
// apply on the next tick rather than inline in the IPC handler (spec
// §5: "ACKed immediately with the current window list and applied on
// the next render tick").
type EmbeddedActions interface {
	Snapshot() []WindowSnapshot
	Enqueue(cmd EmbeddedCommand)
}

// NewEmbeddedServer listens on $XDG_RUNTIME_DIR/trixie-embed.sock.
func NewEmbeddedServer(actions EmbeddedActions, log *slog.Logger) (*Server, error) {
	var mu sync.Mutex
	return listen("trixie-embed.sock", log, func(raw json.RawMessage) (any, error) {
		var cmd EmbeddedCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, errParse(err)
		}
		mu.Lock()
		defer mu.Unlock()
		switch cmd.Cmd {
		case "spawn", "move", "focus", "close":
			actions.Enqueue(cmd)
			return embeddedReply{OK: true, Windows: actions.Snapshot()}, nil
		case "list":
			return embeddedReply{OK: true, Windows: actions.Snapshot()}, nil
		default:
			return nil, unknownCommand(cmd.Cmd)
		}
	})
}
