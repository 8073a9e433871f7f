// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/softraster/internal/raster"
)

// Option configures a Pipeline or TiledPipeline during creation.
//
// Example:
//
//	p, err := softraster.NewPipeline(target, shade,
//	    softraster.WithCulling(gputypes.CullModeBack, gputypes.FrontFaceCCW),
//	    softraster.WithEarlyDepth(gputypes.CompareFunctionLess),
//	)
type Option func(*options)

// options holds the pipeline configuration before it is resolved against
// the target.
type options struct {
	viewport    *Rect
	near, far   float32
	scissor     *Rect
	cullMode    gputypes.CullMode
	frontFace   gputypes.FrontFace
	depthFormat gputypes.TextureFormat
	depthFunc   gputypes.CompareFunction
	depthWrite  bool
	factor      float32
	units       float32
	batchSize   int
	varyings    int
	workers     int
}

// DefaultBatchSize is the fragment batch capacity used without WithBatchSize.
const DefaultBatchSize = 1024

func defaultOptions() options {
	return options{
		far:        1,
		cullMode:   gputypes.CullModeNone,
		frontFace:  gputypes.FrontFaceCCW,
		depthFunc:  gputypes.CompareFunctionUndefined,
		depthWrite: true,
		batchSize:  DefaultBatchSize,
	}
}

// WithViewport sets the viewport rectangle in window coordinates with a
// lower-left origin. The default covers the whole target.
func WithViewport(x, y, width, height int) Option {
	return func(o *options) {
		o.viewport = &Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
	}
}

// WithDepthRange sets the depth range that NDC z in [-1, 1] maps to. Both
// values are clamped to [0, 1]. The default is [0, 1].
func WithDepthRange(near, far float32) Option {
	return func(o *options) {
		o.near, o.far = near, far
	}
}

// WithScissor restricts fragments to the pixel rectangle r, given with a
// top-left origin.
func WithScissor(r Rect) Option {
	return func(o *options) {
		o.scissor = &r
	}
}

// WithCulling discards triangles by facing. The front face is determined in
// window coordinates (y up), matching WebGPU.
func WithCulling(mode gputypes.CullMode, front gputypes.FrontFace) Option {
	return func(o *options) {
		o.cullMode, o.frontFace = mode, front
	}
}

// WithDepthFormat sets the depth quantization of a target without a depth
// plane. For targets with depth the format must match the target's.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.depthFormat = f
	}
}

// WithEarlyDepth enables depth testing with fn. Never, Less and LessEqual
// reject fragments before shading; ResolveDepth applies every function
// exactly after shading.
func WithEarlyDepth(fn gputypes.CompareFunction) Option {
	return func(o *options) {
		o.depthFunc = fn
	}
}

// WithDepthWrite controls whether ResolveDepth stores passing depth values.
// Enabled by default.
func WithDepthWrite(enabled bool) Option {
	return func(o *options) {
		o.depthWrite = enabled
	}
}

// WithPolygonOffset biases depth by factor times the triangle's largest
// depth slope plus units, in depth buffer units.
func WithPolygonOffset(factor, units float32) Option {
	return func(o *options) {
		o.factor, o.units = factor, units
	}
}

// WithBatchSize sets the fragment batch capacity. It is rounded up to whole
// quads.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithVaryings sets the number of per-vertex attributes following the
// clip-space position.
func WithVaryings(n int) Option {
	return func(o *options) {
		o.varyings = n
	}
}

// WithWorkers sets the worker count of a TiledPipeline. Zero uses
// GOMAXPROCS. Pipeline ignores it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// depthFunc maps a WebGPU comparison to the rasterizer's.
func depthFunc(fn gputypes.CompareFunction) raster.DepthFunc {
	switch fn {
	case gputypes.CompareFunctionNever:
		return raster.DepthNever
	case gputypes.CompareFunctionLess:
		return raster.DepthLess
	case gputypes.CompareFunctionLessEqual:
		return raster.DepthLessEqual
	case gputypes.CompareFunctionEqual:
		return raster.DepthEqual
	case gputypes.CompareFunctionGreater:
		return raster.DepthGreater
	case gputypes.CompareFunctionNotEqual:
		return raster.DepthNotEqual
	case gputypes.CompareFunctionGreaterEqual:
		return raster.DepthGreaterEqual
	case gputypes.CompareFunctionAlways:
		return raster.DepthAlways
	}
	return raster.DepthOff
}

// orientations returns the screen windings that survive culling. The
// viewport flip mirrors the triangle and the y-down screen mirrors the
// winding labels, so a counter-clockwise window triangle stays raster.CCW.
func orientations(mode gputypes.CullMode, front gputypes.FrontFace) Orientation {
	frontOrient := raster.CCW
	if front == gputypes.FrontFaceCW {
		frontOrient = raster.CW
	}
	backOrient := raster.BothOrientations &^ frontOrient

	switch mode {
	case gputypes.CullModeFront:
		return backOrient
	case gputypes.CullModeBack:
		return frontOrient
	}
	return raster.BothOrientations
}
