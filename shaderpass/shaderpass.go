// SPDX-License-Identifier: Unlicense OR MIT

// Package shaderpass implements the optional post-processing pipeline
// (C6): a registry of user fragment shaders run in sequence over
// ping-pong FBOs between the compositor's scene render and the scanout
// framebuffer. Grounded on the teacher's gpu/gl package (program
// compile/link, uniform location caching) and gioui.org/shader for the
// fixed fullscreen-triangle vertex stage.
package shaderpass

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"trixie.run/internal/gl"
)

const fragPreamble = `
uniform sampler2D u_tex;
uniform float u_time;
uniform vec2 u_resolution;
uniform vec2 u_mouse;
in vec2 v_uv;
out vec4 fragColor;
`

// fullscreen-triangle vertex stage: no vertex buffer, 3 gl_VertexID
// vertices cover the viewport; v_uv is UV-flipped so (0,0) is top-left.
const vertexSrc = `#version 300 es
out vec2 v_uv;
void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	v_uv = vec2(pos.x, 1.0 - pos.y);
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

// ShaderEntry is one loaded shader: its config identity plus compiled
// program state. Program is the zero Program until first successful
// compile.
type ShaderEntry struct {
	Name    string
	Path    string
	Enabled bool
	Program gl.Program

	source    string
	mtime     time.Time
	uniforms  map[string]gl.Uniform
	uTex      gl.Uniform
	uTime     gl.Uniform
	uRes      gl.Uniform
	uMouse    gl.Uniform
	userUnis  []string
	userVals  map[string]float32
}

// Registry is the ordered, config-loaded shader list. Enabled entries
// run in program order.
type Registry struct {
	Entries []*ShaderEntry
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry { return &Registry{log: log} }

func (r *Registry) AnyEnabled() bool {
	for _, e := range r.Entries {
		if e.Enabled && e.Program.Valid() {
			return true
		}
	}
	return false
}

func (r *Registry) find(name string) *ShaderEntry {
	for _, e := range r.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Toggle/Enable/Disable are the direct IPC mutations; see ipc/shader_ipc.go.
func (r *Registry) Toggle(name string) bool {
	e := r.find(name)
	if e == nil {
		return false
	}
	e.Enabled = !e.Enabled
	return true
}

func (r *Registry) Enable(name string) bool {
	e := r.find(name)
	if e == nil {
		return false
	}
	e.Enabled = true
	return true
}

func (r *Registry) Disable(name string) bool {
	e := r.find(name)
	if e == nil {
		return false
	}
	e.Enabled = false
	return true
}

// userUniformRe matches a `uniform float NAME;` declaration in a
// shader's own source (not the fixed preamble), the only user-uniform
// type config.ShaderConfig.Uniforms carries (map[string]float32).
var userUniformRe = regexp.MustCompile(`(?m)^\s*uniform\s+float\s+(\w+)\s*;`)

var reservedUniformNames = map[string]bool{
	"u_tex": true, "u_time": true, "u_resolution": true, "u_mouse": true,
}

// userUniformNames extracts the user-declared float uniform names out of
// a shader's own source, skipping anything that shadows a reserved name.
func userUniformNames(src string) []string {
	var names []string
	for _, m := range userUniformRe.FindAllStringSubmatch(src, -1) {
		if reservedUniformNames[m[1]] {
			continue
		}
		names = append(names, m[1])
	}
	return names
}

// compile parses userUniformNames out of the source (any `uniform float NAME;`
// line whose NAME isn't one of the reserved names) and links a program
// against the fixed vertex stage and the preamble-wrapped fragment body.
func compile(c *gl.Functions, src string) (gl.Program, map[string]gl.Uniform, []string, error) {
	vs := c.CreateShader(gl.VERTEX_SHADER)
	c.ShaderSource(vs, vertexSrc)
	c.CompileShader(vs)
	if c.GetShaderi(vs, gl.COMPILE_STATUS) == 0 {
		return gl.Program{}, nil, nil, fmt.Errorf("vertex stage: %s", c.GetShaderInfoLog(vs))
	}
	defer c.DeleteShader(vs)

	fs := c.CreateShader(gl.FRAGMENT_SHADER)
	full := "#version 300 es\nprecision highp float;\n" + fragPreamble + src
	c.ShaderSource(fs, full)
	c.CompileShader(fs)
	if c.GetShaderi(fs, gl.COMPILE_STATUS) == 0 {
		msg := c.GetShaderInfoLog(fs)
		c.DeleteShader(fs)
		return gl.Program{}, nil, nil, fmt.Errorf("fragment stage: %s", msg)
	}
	defer c.DeleteShader(fs)

	p := c.CreateProgram()
	c.AttachShader(p, vs)
	c.AttachShader(p, fs)
	c.LinkProgram(p)
	if c.GetProgrami(p, gl.LINK_STATUS) == 0 {
		msg := c.GetProgramInfoLog(p)
		c.DeleteProgram(p)
		return gl.Program{}, nil, nil, fmt.Errorf("link: %s", msg)
	}

	uniforms := map[string]gl.Uniform{
		"u_tex":        c.GetUniformLocation(p, "u_tex"),
		"u_time":       c.GetUniformLocation(p, "u_time"),
		"u_resolution": c.GetUniformLocation(p, "u_resolution"),
		"u_mouse":      c.GetUniformLocation(p, "u_mouse"),
	}
	userNames := userUniformNames(src)
	for _, name := range userNames {
		uniforms[name] = c.GetUniformLocation(p, name)
	}
	return p, uniforms, userNames, nil
}

// Sync rebuilds the registry from config entries, compiling every
// entry's shader afresh. Failures are logged and leave that entry without a
// program; Pipeline.End skips such entries.
func (r *Registry) Sync(c *gl.Functions, configs []Config) {
	r.Entries = r.Entries[:0]
	for _, cfg := range configs {
		e := &ShaderEntry{Name: cfg.Name, Path: cfg.Path, Enabled: cfg.Enabled, userVals: cfg.Uniforms}
		r.compileEntry(c, e)
		r.Entries = append(r.Entries, e)
	}
}

// Config is the on-disk shape a caller reads from config.ShaderConfig;
// duplicated here (rather than importing config) to keep this package
// free of a dependency on config's file-watching concerns. Uniforms
// holds the caller's per-shader user uniform values, set every frame
// alongside the reserved u_tex/u_time/u_resolution/u_mouse set.
type Config struct {
	Name, Path string
	Enabled    bool
	Uniforms   map[string]float32
}

func (r *Registry) compileEntry(c *gl.Functions, e *ShaderEntry) {
	src, err := os.ReadFile(e.Path)
	if err != nil {
		r.log.Error("shader read failed", "name", e.Name, "path", e.Path, "err", err)
		return
	}
	e.source = string(src)
	prog, unis, userNames, err := compile(c, e.source)
	if err != nil {
		r.log.Error("shader compile failed", "name", e.Name, "err", err)
		return
	}
	e.Program = prog
	e.uniforms = unis
	e.uTex, e.uTime, e.uRes, e.uMouse = unis["u_tex"], unis["u_time"], unis["u_resolution"], unis["u_mouse"]
	e.userUnis = userNames
	if fi, statErr := os.Stat(e.Path); statErr == nil {
		e.mtime = fi.ModTime()
	}
}

// RecompileIfChanged implements hot reload: polls mtime and, if the file
// on disk has a newer mtime AND its text differs from the cached copy,
// recompiles. Deletes the old program regardless of outcome.
func (r *Registry) RecompileIfChanged(c *gl.Functions) {
	for _, e := range r.Entries {
		fi, err := os.Stat(e.Path)
		if err != nil || !fi.ModTime().After(e.mtime) {
			continue
		}
		src, err := os.ReadFile(e.Path)
		if err != nil || string(src) == e.source {
			continue
		}
		r.recompile(c, e)
	}
}

// Recompile forces recompilation of a single named entry, whether or
// not its file changed. The IPC reload command uses RecompileIfChanged
// instead.
func (r *Registry) Recompile(c *gl.Functions, name string) bool {
	e := r.find(name)
	if e == nil {
		return false
	}
	r.recompile(c, e)
	return true
}

func (r *Registry) recompile(c *gl.Functions, e *ShaderEntry) {
	if e.Program.Valid() {
		c.DeleteProgram(e.Program)
		e.Program = gl.Program{}
	}
	r.compileEntry(c, e)
}
