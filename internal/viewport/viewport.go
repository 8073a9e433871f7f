// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package viewport converts clipped clip-space vertices to screen space.
//
// Divide replaces a vertex's W with 1/W. Attributes are left undivided; the
// shading stage interpolates them together with 1/W. A Transform then maps the
// normalized device coordinates to fixed-point window positions with 8
// fractional bits, flipping y to a top-left origin, and quantizes depth into
// the integer domain of the depth buffer.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/softraster/internal/clip"
	"github.com/gogpu/softraster/internal/raster"
)

var (
	// ErrViewport is returned for a viewport with a non-positive or
	// non-finite extent.
	ErrViewport = errors.New("viewport: invalid viewport")

	// ErrDepthWidth is returned for a depth width other than 2, 3 or 4 bytes.
	ErrDepthWidth = errors.New("viewport: unsupported depth width")
)

// Viewport describes the window rectangle and depth range.
//
// X and Y locate the lower-left corner in window coordinates, where y grows
// upward. SurfaceHeight is the height of the render target; window y is
// flipped against it to produce top-left-origin screen coordinates.
type Viewport struct {
	X, Y          float32
	Width, Height float32

	// Near and Far are the depth range, each clamped to [0, 1].
	Near, Far float32

	SurfaceHeight int

	// DepthWidth is the depth buffer entry size in bytes.
	DepthWidth int
}

// Transform is a validated viewport with precomputed scale factors.
type Transform struct {
	vp Viewport

	halfW, halfH        float64
	centerX, centerY    float64
	halfDepth, midDepth float64
	maxZ                float64
}

// New validates vp and returns its transform.
func New(vp Viewport) (*Transform, error) {
	if !(vp.Width > 0 && vp.Height > 0) || !finite(vp.X, vp.Y, vp.Width, vp.Height, vp.Near, vp.Far) {
		return nil, fmt.Errorf("%w: %gx%g at (%g, %g)", ErrViewport, vp.Width, vp.Height, vp.X, vp.Y)
	}
	if vp.SurfaceHeight < 0 {
		return nil, fmt.Errorf("%w: surface height %d", ErrViewport, vp.SurfaceHeight)
	}
	maxZ := raster.MaxDepth(vp.DepthWidth)
	if maxZ == 0 {
		return nil, fmt.Errorf("%w: %d", ErrDepthWidth, vp.DepthWidth)
	}
	near := clamp01(float64(vp.Near))
	far := clamp01(float64(vp.Far))
	return &Transform{
		vp:        vp,
		halfW:     float64(vp.Width) / 2,
		halfH:     float64(vp.Height) / 2,
		centerX:   float64(vp.X) + float64(vp.Width)/2,
		centerY:   float64(vp.Y) + float64(vp.Height)/2,
		halfDepth: (far - near) / 2,
		midDepth:  (far + near) / 2,
		maxZ:      float64(maxZ),
	}, nil
}

// Viewport returns the viewport t was built from.
func (t *Transform) Viewport() Viewport { return t.vp }

// MaxZ returns the largest quantized depth value.
func (t *Transform) MaxZ() uint32 { return uint32(t.maxZ) }

// Divide replaces v[W] with 1/W. It reports false, leaving v unchanged,
// when W is zero or not finite.
func Divide(v []float32) bool {
	w := v[clip.W]
	if w == 0 || math.IsInf(float64(w), 0) || math.IsNaN(float64(w)) {
		return false
	}
	v[clip.W] = 1 / w
	return true
}

// Window returns the window position of a divided vertex: x and y in pixels
// with a top-left origin, z in [0, 1].
func (t *Transform) Window(v []float32) (x, y, z float64) {
	rw := float64(v[clip.W])
	x = t.centerX + t.halfW*float64(v[clip.X])*rw
	y = float64(t.vp.SurfaceHeight) - (t.centerY + t.halfH*float64(v[clip.Y])*rw)
	z = clamp01(t.halfDepth*float64(v[clip.Z])*rw + t.midDepth)
	return x, y, z
}

// Vertex returns the fixed-point screen vertex of a divided vertex.
func (t *Transform) Vertex(v []float32) raster.Vertex {
	x, y, z := t.Window(v)
	return raster.Vertex{
		X: fixed(x),
		Y: fixed(y),
		Z: t.quantize(z),
	}
}

// ScreenPoint returns the integer pixel containing a divided vertex.
func (t *Transform) ScreenPoint(v []float32) (px, py int) {
	x, y, _ := t.Window(v)
	return int(math.Floor(x)), int(math.Floor(y))
}

// QuantizeDepth maps a window depth in [0, 1] to the depth buffer domain,
// rounding to nearest. Values outside [0, 1] clamp.
func (t *Transform) QuantizeDepth(z float64) uint32 {
	return t.quantize(clamp01(z))
}

func (t *Transform) quantize(z float64) uint32 {
	return uint32(math.Round(z * t.maxZ))
}

// fixed converts a pixel coordinate to sub-pixel units. Values the
// rasterizer cannot accept saturate at its limit, which it then rejects.
func fixed(v float64) int32 {
	const limit = raster.MaxCoord
	s := math.Round(v * raster.SubpixelOne)
	switch {
	case math.IsNaN(s):
		return limit
	case s >= limit:
		return limit
	case s <= -limit:
		return -limit
	}
	return int32(s)
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	}
	// Negative and NaN.
	return 0
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
