// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrDepthWidth is returned for a depth byte width other than 2, 3 or 4.
	ErrDepthWidth = errors.New("raster: unsupported depth width")

	// ErrDepthBuffer is returned when early depth testing is enabled without
	// a depth buffer large enough for the target.
	ErrDepthBuffer = errors.New("raster: depth buffer too small")

	// ErrTarget is returned for negative target dimensions or strides.
	ErrTarget = errors.New("raster: invalid target")

	// ErrBusy is returned when the configuration changes while a triangle
	// is suspended.
	ErrBusy = errors.New("raster: triangle in flight")
)

// Target describes the destination surfaces. The rasterizer only computes
// byte offsets into them and, for early depth tests, reads Depth.
type Target struct {
	Width, Height int

	ColorStride     int
	ColorPixelBytes int

	// Depth is the depth buffer, read by the early test only.
	Depth       []byte
	DepthStride int

	StencilStride int
}

// Bounds returns the target rectangle.
func (t Target) Bounds() Rect {
	return Rect{X1: t.Width, Y1: t.Height}
}

// Config is the per-draw rasterizer state.
type Config struct {
	Target Target

	// Scissor restricts live fragments when ScissorEnabled is set.
	Scissor        Rect
	ScissorEnabled bool

	// Orientations is the mask of windings that produce fragments.
	Orientations Orientation

	// DepthFunc selects the early depth test.
	DepthFunc DepthFunc

	// DepthWidth is the depth buffer entry size in bytes (2, 3 or 4).
	DepthWidth int

	// OffsetFactor scales the triangle's largest per-pixel depth slope.
	// OffsetUnits is added in depth buffer units.
	OffsetFactor float32
	OffsetUnits  float32
}

// DefaultConfig returns a configuration for a target of the given size with
// a 3-byte depth buffer, both windings and no early depth test.
func DefaultConfig(width, height int) Config {
	return Config{
		Target: Target{
			Width:           width,
			Height:          height,
			ColorStride:     width * 4,
			ColorPixelBytes: 4,
			DepthStride:     width * 3,
			StencilStride:   width,
		},
		Orientations: BothOrientations,
		DepthWidth:   3,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	t := c.Target
	if t.Width < 0 || t.Height < 0 || t.ColorStride < 0 || t.DepthStride < 0 || t.StencilStride < 0 {
		return fmt.Errorf("%w: %dx%d", ErrTarget, t.Width, t.Height)
	}
	if !ValidDepthWidth(c.DepthWidth) {
		return fmt.Errorf("%w: %d", ErrDepthWidth, c.DepthWidth)
	}
	if selectDepthTest(c.DepthFunc, c.DepthWidth) != nil && c.DepthFunc != DepthNever && t.Width > 0 && t.Height > 0 {
		need := (t.Height-1)*t.DepthStride + t.Width*c.DepthWidth
		if len(t.Depth) < need {
			return fmt.Errorf("%w: have %d bytes, need %d", ErrDepthBuffer, len(t.Depth), need)
		}
	}
	return nil
}

// clipRect returns the rectangle that receives live fragments.
func (c *Config) clipRect() Rect {
	r := c.Target.Bounds()
	if c.ScissorEnabled {
		r = r.Intersect(c.Scissor)
	}
	return r
}
