// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fragment provides the columnar fragment batch filled by the
// triangle rasterizer and drained by shading and blending.
//
// Fragments arrive in 2x2 quads (top-left, top-right, bottom-left,
// bottom-right) so shaders can take screen-space derivatives. Only some
// fragments of a quad may be live; the live ones are linked into an
// execution chain that consumers walk to skip helper fragments.
package fragment

// Mask is the per-fragment validity mask.
type Mask uint8

// Mask bits. A fragment is live when all three are set.
const (
	// Covered is set when the pixel center is inside the triangle.
	Covered Mask = 1 << iota

	// InScissor is set when the pixel lies inside the scissor rectangle.
	InScissor

	// DepthPassed is set when the early depth test passed or was disabled.
	DepthPassed

	// Live is the mask of a fragment that must be shaded.
	Live = Covered | InScissor | DepthPassed
)

// IsLive reports whether every validity bit is set.
func (m Mask) IsLive() bool { return m&Live == Live }

// End terminates the execution chain.
const End int32 = 0

// QuadSize is the number of fragments in a quad.
const QuadSize = 4

// Fragment is one row of a batch.
type Fragment struct {
	// Mask is the validity mask.
	Mask Mask

	// X and Y are the integer pixel coordinates, top-left origin.
	X, Y int32

	// ColorOffset, DepthOffset and StencilOffset are byte offsets of the
	// pixel in the destination surfaces.
	ColorOffset   int
	DepthOffset   int
	StencilOffset int

	// Edge holds the three edge function values at the pixel center,
	// normalized so that Edge[0]+Edge[1]+Edge[2] equals the primitive's
	// doubled area. Edge[i]/area is the barycentric weight of vertex i.
	Edge [3]int64

	// Z is the quantized depth after polygon offset.
	Z uint32

	// Prim identifies the primitive the fragment belongs to.
	Prim uint32
}
