// SPDX-License-Identifier: Unlicense OR MIT

package ipc

import (
	"encoding/json"
	"log/slog"
)

// ShaderCommand is the decoded request grammar for §6.2.
type ShaderCommand struct {
	Cmd  string `json:"cmd"`
	Name string `json:"name,omitempty"`
}

// ShaderSnapshot is one entry in the shader list reply.
type ShaderSnapshot struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type shaderReply struct {
	OK      bool             `json:"ok"`
	Shaders []ShaderSnapshot `json:"shaders"`
}

// ShaderActions is implemented by shaderpass.Registry's owner (the
// render loop), which performs the mutation synchronously — unlike the
// embedded socket, toggling a shader has no layout cost, so there is no
// need to defer it to the next tick.
type ShaderActions interface {
	List() []ShaderSnapshot
	Toggle(name string) bool
	Enable(name string) bool
	Disable(name string) bool
	Reload() bool
}

// NewShaderServer listens on $XDG_RUNTIME_DIR/trixie-shader.sock.
func NewShaderServer(actions ShaderActions, log *slog.Logger) (*Server, error) {
	return listen("trixie-shader.sock", log, func(raw json.RawMessage) (any, error) {
		var cmd ShaderCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, errParse(err)
		}
		switch cmd.Cmd {
		case "list":
			return shaderReply{OK: true, Shaders: actions.List()}, nil
		case "toggle":
			if !actions.Toggle(cmd.Name) {
				return nil, unknownShader(cmd.Name)
			}
			return shaderReply{OK: true, Shaders: actions.List()}, nil
		case "enable":
			if !actions.Enable(cmd.Name) {
				return nil, unknownShader(cmd.Name)
			}
			return shaderReply{OK: true, Shaders: actions.List()}, nil
		case "disable":
			if !actions.Disable(cmd.Name) {
				return nil, unknownShader(cmd.Name)
			}
			return shaderReply{OK: true, Shaders: actions.List()}, nil
		case "reload":
			actions.Reload()
			return shaderReply{OK: true, Shaders: actions.List()}, nil
		default:
			return nil, unknownCommand(cmd.Cmd)
		}
	})
}

func unknownShader(name string) error { return unknownCommand("shader:" + name) }
