// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/softraster/fragment"
)

// Sink receives fragment quads.
type Sink interface {
	// Remaining returns the number of fragments that still fit.
	Remaining() int

	// Push appends one fragment.
	Push(f *fragment.Fragment)
}

// phase is the scan state machine position.
type phase uint8

const (
	// phaseDone: no triangle in flight.
	phaseDone phase = iota

	// phaseRowScan: about to start the quad row at qy.
	phaseRowScan

	// phaseColumnScan: about to evaluate the quad at (qx, qy).
	phaseColumnScan

	// phaseSuspended: the quad at (qx, qy) did not fit the sink.
	phaseSuspended
)

// scanState is everything the scan loop needs to continue. It is copied into
// locals while scanning and written back on suspension.
type scanState struct {
	phase  phase
	qx, qy int

	// Edge values at the top-left pixel of the row's first quad and of the
	// current quad.
	eRow, e [3]int64

	// Depth at the same two pixels.
	zRow, zq depthDDA
}

// Rasterizer converts one triangle at a time into fragment quads.
//
// A Rasterizer owns its resume state; only one triangle can be in flight.
// Independent Rasterizers share nothing and may run concurrently.
type Rasterizer struct {
	cfg  Config
	tri  triangleSetup
	st   scanState
	quad [fragment.QuadSize]fragment.Fragment
}

// New returns a Rasterizer for cfg.
func New(cfg Config) (*Rasterizer, error) {
	r := &Rasterizer{}
	if err := r.SetConfig(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// SetConfig replaces the configuration. It fails with ErrBusy while a
// triangle is suspended.
func (r *Rasterizer) SetConfig(cfg Config) error {
	if r.Pending() {
		return ErrBusy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DepthFunc != DepthOff && !cfg.DepthFunc.Early() {
		slogger().Warn("raster: depth function not testable before shading, passing all fragments",
			"func", cfg.DepthFunc.String())
	}
	r.cfg = cfg
	return nil
}

// Config returns the current configuration.
func (r *Rasterizer) Config() Config { return r.cfg }

// Pending reports whether a suspended triangle awaits Resume.
func (r *Rasterizer) Pending() bool { return r.st.phase != phaseDone }

// Reset abandons any suspended triangle.
func (r *Rasterizer) Reset() { r.st = scanState{} }

// Area returns the absolute doubled area of the last triangle that passed
// setup. Dividing a fragment's edge values by it gives barycentric weights.
func (r *Rasterizer) Area() int64 { return r.tri.area }

// Rasterize sets up tri and scans it into sink. It returns 0 when the
// triangle is finished or rejected, and the triangle's orientation when the
// sink filled up. In that case drain the sink and call Resume.
//
// Rejected triangles (degenerate, disallowed winding, outside the scissor
// rectangle, or beyond MaxCoord) touch nothing. Starting a new triangle while
// one is suspended abandons the suspended one.
func (r *Rasterizer) Rasterize(tri *Triangle, sink Sink) Orientation {
	if r.Pending() {
		slogger().Debug("raster: abandoning suspended triangle", "id", r.tri.id)
		r.Reset()
	}
	if !r.setup(tri) {
		return 0
	}
	return r.run(sink)
}

// Resume continues the suspended triangle. Its return value has the same
// meaning as Rasterize's. Without a suspended triangle it returns 0.
func (r *Rasterizer) Resume(sink Sink) Orientation {
	if !r.Pending() {
		return 0
	}
	return r.run(sink)
}

// reject logs why setup refused a triangle.
func (r *Rasterizer) reject(tri *Triangle, reason string) bool {
	if debugEnabled() {
		slogger().Debug("raster: triangle rejected", "id", tri.ID, "reason", reason)
	}
	return false
}

// run drives the scan state machine until the triangle is done or the sink
// is full.
func (r *Rasterizer) run(sink Sink) Orientation {
	t := &r.tri
	st := r.st

	for {
		switch st.phase {
		case phaseRowScan:
			if st.qy > t.y1 {
				r.st = scanState{}
				return 0
			}
			st.qx = t.x0
			st.e = st.eRow
			st.zq = st.zRow
			st.phase = phaseColumnScan

		case phaseSuspended:
			st.phase = phaseColumnScan

		case phaseColumnScan:
			if st.qx > t.x1 {
				st.qy += 2
				for i := range 3 {
					st.eRow[i] += 2 * t.dy[i]
				}
				st.zRow.add(t.z2y, t.area)
				st.phase = phaseRowScan
				continue
			}

			if r.buildQuad(&st) {
				if sink.Remaining() < fragment.QuadSize {
					st.phase = phaseSuspended
					r.st = st
					return t.orient
				}
				for i := range r.quad {
					sink.Push(&r.quad[i])
				}
			}

			st.qx += 2
			for i := range 3 {
				st.e[i] += 2 * t.dx[i]
			}
			st.zq.add(t.z2x, t.area)

		default:
			r.st = scanState{}
			return 0
		}
	}
}

// buildQuad fills r.quad for the quad at (st.qx, st.qy) and reports whether
// any of its fragments is live.
func (r *Rasterizer) buildQuad(st *scanState) bool {
	t := &r.tri
	tgt := &r.cfg.Target
	live := false

	for c := range fragment.QuadSize {
		ox, oy := c&1, c>>1
		px, py := st.qx+ox, st.qy+oy
		f := &r.quad[c]

		covered := true
		for i := range 3 {
			e := st.e[i]
			if ox != 0 {
				e += t.dx[i]
			}
			if oy != 0 {
				e += t.dy[i]
			}
			f.Edge[i] = e
			if e < t.bias[i] {
				covered = false
			}
		}

		z := st.zq
		if ox != 0 {
			z.add(t.zx, t.area)
		}
		if oy != 0 {
			z.add(t.zy, t.area)
		}
		f.Z = t.finalDepth(z.z)

		f.X, f.Y = int32(px), int32(py)
		f.ColorOffset = py*tgt.ColorStride + px*tgt.ColorPixelBytes
		f.DepthOffset = py*tgt.DepthStride + px*r.cfg.DepthWidth
		f.StencilOffset = py*tgt.StencilStride + px
		f.Prim = t.id

		var m fragment.Mask
		inScissor := t.clip.Contains(px, py)
		if covered {
			m |= fragment.Covered
		}
		if inScissor {
			m |= fragment.InScissor
		}
		if t.test == nil || (covered && inScissor && t.test(tgt.Depth, f.DepthOffset, f.Z)) {
			m |= fragment.DepthPassed
		}
		f.Mask = m
		live = live || m.IsLive()
	}
	return live
}

// String describes the in-flight state for diagnostics.
func (r *Rasterizer) String() string {
	if !r.Pending() {
		return "raster.Rasterizer{idle}"
	}
	return fmt.Sprintf("raster.Rasterizer{id=%d orient=%s quad=(%d,%d)}", r.tri.id, r.tri.orient, r.st.qx, r.st.qy)
}

// logSetup emits the per-triangle setup diagnostics.
func (r *Rasterizer) logSetup() {
	t := &r.tri
	slogger().Debug("raster: triangle setup",
		"id", t.id,
		"orient", t.orient.String(),
		"area", t.area,
		slog.Group("bbox", "x0", t.x0, "y0", t.y0, "x1", t.x1, "y1", t.y1),
		"offset", t.offset)
}
