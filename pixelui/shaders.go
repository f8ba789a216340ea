// SPDX-License-Identifier: Unlicense OR MIT

package pixelui

import "unsafe"

// Both programs draw an instanced full-screen-quad-shaped rectangle (6
// vertices, no vertex buffer — gl_VertexID selects a corner) and convert
// the per-instance pixel rect to NDC via u_vp, the physical viewport.

const bgVertexSrc = `#version 300 es
uniform vec2 u_vp;
in vec4 i_rect;
in vec4 i_color;
out vec4 v_color;
void main() {
	vec2 corners[6] = vec2[6](vec2(0,0), vec2(1,0), vec2(0,1), vec2(0,1), vec2(1,0), vec2(1,1));
	vec2 corner = corners[gl_VertexID];
	vec2 px = i_rect.xy + corner * i_rect.zw;
	vec2 ndc = (px / u_vp) * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0, 1);
	v_color = i_color;
}
`

const bgFragmentSrc = `#version 300 es
precision mediump float;
in vec4 v_color;
out vec4 fragColor;
void main() { fragColor = vec4(v_color.rgb * v_color.a, v_color.a); }
`

const glyphVertexSrc = `#version 300 es
uniform vec2 u_vp;
in vec4 i_rect;
in vec4 i_uv;
in vec4 i_fg;
out vec2 v_uv;
out vec4 v_fg;
void main() {
	vec2 corners[6] = vec2[6](vec2(0,0), vec2(1,0), vec2(0,1), vec2(0,1), vec2(1,0), vec2(1,1));
	vec2 corner = corners[gl_VertexID];
	vec2 px = i_rect.xy + corner * i_rect.zw;
	vec2 ndc = (px / u_vp) * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0, 1);
	v_uv = i_uv.xy + corner * i_uv.zw;
	v_fg = i_fg;
}
`

// The fragment shader converts the outline rasteriser's linear alpha
// coverage to sRGB via pow(a, 1/2.2) before blending, per spec §4.1.1 —
// without it thin text looks too light on an sRGB framebuffer.
const glyphFragmentSrc = `#version 300 es
precision mediump float;
uniform sampler2D u_tex;
in vec2 v_uv;
in vec4 v_fg;
out vec4 fragColor;
void main() {
	float coverage = texture(u_tex, v_uv).a;
	float a_srgb = pow(coverage, 1.0/2.2) * v_fg.a;
	fragColor = vec4(v_fg.rgb * a_srgb, a_srgb);
}
`

func flatten(insts []bgInstance) []byte {
	if len(insts) == 0 {
		return nil
	}
	n := len(insts) * bgInstanceFloats * 4
	return unsafe.Slice((*byte)(unsafe.Pointer(&insts[0])), n)
}

func flattenGlyph(insts []glyphInstance) []byte {
	if len(insts) == 0 {
		return nil
	}
	n := len(insts) * glyphInstanceFloats * 4
	return unsafe.Slice((*byte)(unsafe.Pointer(&insts[0])), n)
}
