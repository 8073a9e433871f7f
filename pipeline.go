// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/internal/raster"
	"github.com/gogpu/softraster/internal/viewport"
	"github.com/gogpu/softraster/surface"
)

// Pipeline errors.
var (
	// ErrNoTarget is returned when a pipeline is created without a target.
	ErrNoTarget = errors.New("softraster: nil target")

	// ErrNoShader is returned when a pipeline is created without a ShadeFunc.
	ErrNoShader = errors.New("softraster: nil shade function")

	// ErrNoDepth is returned when depth testing is requested for a target
	// without a depth plane.
	ErrNoDepth = errors.New("softraster: depth test without depth buffer")

	// ErrDepthFormat is returned for a depth format that is not supported or
	// does not match the target.
	ErrDepthFormat = errors.New("softraster: depth format mismatch")

	// ErrVertexSize is returned for a vertex shorter than 4 + varyings floats.
	ErrVertexSize = errors.New("softraster: vertex too short")
)

// ShadeFunc consumes a batch of fragments. It is called when the batch is
// full and on Flush. Fragment row i belongs to prims.Get(b.Prim[i]).
// The batch and the table are reused after the call returns.
type ShadeFunc func(b *fragment.Batch, prims *Primitives)

// Stats counts pipeline work since creation.
type Stats struct {
	Triangles        int // triangles submitted
	Lines            int // lines submitted
	Points           int // points submitted
	ClippedTriangles int // triangles leaving the clipper
	Rejected         int // screen triangles that produced no quad
	Fragments        int // live fragments delivered to the ShadeFunc
	Batches          int // ShadeFunc calls
}

// Pipeline is a single-threaded geometry-to-fragment pipeline for one target.
//
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	target *surface.Target
	shade  ShadeFunc

	geo   *geometry
	rast  *raster.Rasterizer
	batch *fragment.Batch
	prims *Primitives
	depth depthState

	stats Stats
}

// resolved is the options worked out against a target.
type resolved struct {
	raster   raster.Config
	viewport viewport.Viewport
	depth    depthState
	opts     options
}

func resolve(target *surface.Target, opt []Option) (resolved, error) {
	if target == nil {
		return resolved{}, ErrNoTarget
	}
	o := defaultOptions()
	for _, fn := range opt {
		fn(&o)
	}

	width := 3
	switch {
	case target.Depth != nil:
		width = target.DepthWidth()
		if o.depthFormat != gputypes.TextureFormatUndefined {
			if w, ok := surface.DepthWidth(o.depthFormat); !ok || w != width {
				return resolved{}, fmt.Errorf("%w: %v for a %d-byte target", ErrDepthFormat, o.depthFormat, width)
			}
		}
	case o.depthFormat != gputypes.TextureFormatUndefined:
		w, ok := surface.DepthWidth(o.depthFormat)
		if !ok {
			return resolved{}, fmt.Errorf("%w: %v", ErrDepthFormat, o.depthFormat)
		}
		width = w
	}

	fn := depthFunc(o.depthFunc)
	if fn != raster.DepthOff && target.Depth == nil {
		return resolved{}, fmt.Errorf("%w: %v", ErrNoDepth, o.depthFunc)
	}

	vp := Rect{X1: target.Width(), Y1: target.Height()}
	if o.viewport != nil {
		vp = *o.viewport
	}

	rc := raster.Config{
		Target: raster.Target{
			Width:           target.Width(),
			Height:          target.Height(),
			ColorStride:     target.ColorStride,
			ColorPixelBytes: surface.ColorPixelBytes,
			Depth:           target.Depth,
			DepthStride:     target.DepthStride,
			StencilStride:   target.StencilStride,
		},
		Orientations: orientations(o.cullMode, o.frontFace),
		DepthFunc:    fn,
		DepthWidth:   width,
		OffsetFactor: o.factor,
		OffsetUnits:  o.units,
	}
	if o.scissor != nil {
		rc.Scissor, rc.ScissorEnabled = *o.scissor, true
	}
	if target.Depth == nil {
		rc.Target.DepthStride = target.Width() * width
	}
	if err := rc.Validate(); err != nil {
		return resolved{}, err
	}

	return resolved{
		raster: rc,
		viewport: viewport.Viewport{
			X:             float32(vp.X0),
			Y:             float32(vp.Y0),
			Width:         float32(vp.X1 - vp.X0),
			Height:        float32(vp.Y1 - vp.Y0),
			Near:          o.near,
			Far:           o.far,
			SurfaceHeight: target.Height(),
			DepthWidth:    width,
		},
		depth: depthState{fn: fn, width: width, write: o.depthWrite, buf: target.Depth},
		opts:  o,
	}, nil
}

// NewPipeline creates a pipeline drawing into target.
func NewPipeline(target *surface.Target, shade ShadeFunc, opts ...Option) (*Pipeline, error) {
	if shade == nil {
		return nil, ErrNoShader
	}
	res, err := resolve(target, opts)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		target: target,
		shade:  shade,
		batch:  fragment.NewBatch(res.opts.batchSize),
		depth:  res.depth,
	}
	if p.rast, err = raster.New(res.raster); err != nil {
		return nil, err
	}
	if p.geo, err = newGeometry(res.opts.varyings, res.viewport, res.raster.Orientations, &p.stats); err != nil {
		return nil, err
	}
	p.prims = newPrimitives(p.geo.stride)

	slogger().Debug("softraster: pipeline created",
		"width", target.Width(),
		"height", target.Height(),
		"depth_width", res.raster.DepthWidth,
		"depth_func", res.raster.DepthFunc.String(),
		"orientations", res.raster.Orientations.String(),
		"batch", p.batch.Cap())
	return p, nil
}

// Target returns the render target.
func (p *Pipeline) Target() *surface.Target { return p.target }

// Stride returns the number of floats per vertex: 4 + varyings.
func (p *Pipeline) Stride() int { return p.geo.stride }

// Stats returns the work counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// DrawTriangle draws a clip-space triangle. Each vertex holds x, y, z, w
// followed by the varyings.
func (p *Pipeline) DrawTriangle(v0, v1, v2 []float32) error {
	return p.geo.triangle(v0, v1, v2, p.rasterize)
}

// DrawLine draws a clip-space line width pixels wide.
func (p *Pipeline) DrawLine(v0, v1 []float32, width float32) error {
	return p.geo.line(v0, v1, width, p.rasterize)
}

// DrawPoint draws a size x size pixel square centered on a clip-space vertex.
func (p *Pipeline) DrawPoint(v []float32, size float32) error {
	return p.geo.pointSprite(v, size, p.rasterize)
}

// rasterize scans one screen triangle, handing full batches to the shader.
func (p *Pipeline) rasterize(screen [3]ScreenVertex, v0, v1, v2 []float32) {
	prim := p.prims.add(screen, v0, v1, v2)
	tri := raster.Triangle{V: screen, ID: prim.ID}

	before := p.batch.Len()
	flushed := false
	for o := p.rast.Rasterize(&tri, p.batch); o != 0; o = p.rast.Resume(p.batch) {
		p.flush(true)
		flushed = true
	}
	if !flushed && p.batch.Len() == before {
		p.prims.pop()
		p.stats.Rejected++
	}
}

// Flush hands any buffered fragments to the ShadeFunc.
func (p *Pipeline) Flush() {
	p.flush(false)
}

func (p *Pipeline) flush(inFlight bool) {
	if p.batch.Len() > 0 {
		p.stats.Batches++
		p.stats.Fragments += p.batch.LiveCount()
		p.shade(p.batch, p.prims)
		p.batch.Reset()
	}
	p.prims.retainLast(inFlight)
}

// ResolveDepth applies the configured depth function exactly to fragment
// row i and writes its depth when it passes. Without depth testing it
// returns true. Call it from the ShadeFunc after any discard.
func (p *Pipeline) ResolveDepth(b *fragment.Batch, i int) bool {
	return p.depth.resolve(b, i)
}

// Close releases the clip buffers. The pipeline must not be used afterwards.
func (p *Pipeline) Close() {
	p.geo.release()
}
