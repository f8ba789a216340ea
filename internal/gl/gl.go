// SPDX-License-Identifier: Unlicense OR MIT

package gl

type (
	Attrib uint
	Enum   uint
)

// This set is trimmed to the constants internal/gl/functions.go,
// compositor/compositor.go, shaderpass/*.go, pixelui/*.go and embedded/*.go actually
// reference; see DESIGN.md for what the teacher's fuller GLES3+desktop
// constant table dropped and why.
const (
	ARRAY_BUFFER        = 0x8892
	BLEND               = 0xbe2
	CLAMP_TO_EDGE       = 0x812f
	COLOR_ATTACHMENT0   = 0x8ce0
	COLOR_BUFFER_BIT    = 0x4000
	COMPILE_STATUS      = 0x8b81
	DEPTH_BUFFER_BIT    = 0x100
	DRAW_FRAMEBUFFER    = 0x8CA9
	DYNAMIC_DRAW        = 0x88E8
	FLOAT               = 0x1406
	FRAGMENT_SHADER     = 0x8b30
	FRAMEBUFFER         = 0x8d40
	INFO_LOG_LENGTH     = 0x8B84
	LINEAR              = 0x2601
	LINK_STATUS         = 0x8b82
	NEAREST             = 0x2600
	ONE                 = 0x1
	ONE_MINUS_SRC_ALPHA = 0x303
	READ_FRAMEBUFFER    = 0x8ca8
	RGBA                = 0x1908
	STATIC_DRAW         = 0x88e4
	TEXTURE_2D          = 0xde1
	TEXTURE_MAG_FILTER  = 0x2800
	TEXTURE_MIN_FILTER  = 0x2801
	TEXTURE_WRAP_S      = 0x2802
	TEXTURE_WRAP_T      = 0x2803
	TEXTURE0            = 0x84c0
	TRIANGLE_STRIP      = 0x5
	TRIANGLES           = 0x4
	UNSIGNED_BYTE       = 0x1401
	VERTEX_SHADER       = 0x8b31
)
