// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

// DepthFunc selects the early depth comparison.
type DepthFunc uint8

// Depth functions. DepthOff disables the early test.
const (
	DepthOff DepthFunc = iota
	DepthNever
	DepthLess
	DepthLessEqual
	DepthEqual
	DepthGreater
	DepthNotEqual
	DepthGreaterEqual
	DepthAlways
)

// String returns the function name.
func (f DepthFunc) String() string {
	switch f {
	case DepthOff:
		return "off"
	case DepthNever:
		return "never"
	case DepthLess:
		return "less"
	case DepthLessEqual:
		return "lequal"
	case DepthEqual:
		return "equal"
	case DepthGreater:
		return "greater"
	case DepthNotEqual:
		return "notequal"
	case DepthGreaterEqual:
		return "gequal"
	case DepthAlways:
		return "always"
	}
	return "unknown"
}

// Early reports whether f is evaluated before shading. The remaining
// functions pass unconditionally here. Early rejection is only an
// accelerant, and the final depth test after shading applies them exactly.
func (f DepthFunc) Early() bool {
	switch f {
	case DepthNever, DepthLess, DepthLessEqual:
		return true
	}
	return false
}

// MaxDepth returns the largest depth value of a depth buffer with the given
// byte width (2, 3 or 4). It returns 0 for any other width.
func MaxDepth(width int) uint32 {
	switch width {
	case 2:
		return 0xFFFF
	case 3:
		return 0xFFFFFF
	case 4:
		return 0xFFFFFFFF
	}
	return 0
}

// ValidDepthWidth reports whether width is a supported depth byte width.
func ValidDepthWidth(width int) bool {
	return MaxDepth(width) != 0
}

// depthTest compares a fragment depth against the depth buffer entry at
// offset off.
type depthTest func(buf []byte, off int, z uint32) bool

// selectDepthTest returns the predicate for f and a depth buffer of the given
// byte width, or nil when the fragment always passes at this stage.
func selectDepthTest(f DepthFunc, width int) depthTest {
	switch f {
	case DepthNever:
		return func([]byte, int, uint32) bool { return false }
	case DepthLess:
		switch width {
		case 2:
			return func(b []byte, o int, z uint32) bool { return z < uint32(b[o])|uint32(b[o+1])<<8 }
		case 3:
			return func(b []byte, o int, z uint32) bool {
				return z < uint32(b[o])|uint32(b[o+1])<<8|uint32(b[o+2])<<16
			}
		case 4:
			return func(b []byte, o int, z uint32) bool {
				return z < uint32(b[o])|uint32(b[o+1])<<8|uint32(b[o+2])<<16|uint32(b[o+3])<<24
			}
		}
	case DepthLessEqual:
		switch width {
		case 2:
			return func(b []byte, o int, z uint32) bool { return z <= uint32(b[o])|uint32(b[o+1])<<8 }
		case 3:
			return func(b []byte, o int, z uint32) bool {
				return z <= uint32(b[o])|uint32(b[o+1])<<8|uint32(b[o+2])<<16
			}
		case 4:
			return func(b []byte, o int, z uint32) bool {
				return z <= uint32(b[o])|uint32(b[o+1])<<8|uint32(b[o+2])<<16|uint32(b[o+3])<<24
			}
		}
	}
	return nil
}
