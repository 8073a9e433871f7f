// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"math"

	"github.com/gogpu/softraster/internal/int128"
)

// depthDDA is an exact depth value floor(N/D) kept as a quotient and a
// remainder in [0, D). The quotient is kept modulo 2^64: it is only
// meaningful inside the triangle, where the exact depth is a convex
// combination of the vertex depths and therefore fits easily.
type depthDDA struct {
	z uint64
	r int64
}

// add advances d by step s for denominator den, carrying the remainder.
func (d *depthDDA) add(s depthDDA, den int64) {
	d.z += s.z
	d.r += s.r
	if d.r >= den {
		d.r -= den
		d.z++
	}
}

// splitDepth returns floor(n/den) for den > 0.
func splitDepth(n int128.Int128, den int64) depthDDA {
	q, r, _, err := int128.FloorDivRem(n, den)
	if err != nil {
		return depthDDA{}
	}
	return depthDDA{z: q.Lo, r: r}
}

// triangleSetup holds the per-triangle constants derived in setup.
type triangleSetup struct {
	id     uint32
	orient Orientation

	// area is |D012|. Edge coefficients are normalized so that interior
	// points have non-negative edge values summing to area.
	area    int64
	a, b, c [3]int64
	bias    [3]int64
	z       [3]int64

	// Edge value deltas for one pixel step.
	dx, dy [3]int64

	// Depth steps for one and two pixels.
	zx, zy, z2x, z2y depthDDA

	offset int64
	maxZ   int64

	// Quad-aligned scan origin and inclusive pixel bounds.
	x0, y0, x1, y1 int

	clip Rect
	test depthTest
}

// finalDepth applies polygon offset and clamps to the depth range.
func (t *triangleSetup) finalDepth(z uint64) uint32 {
	v := int64(z)
	if t.offset != 0 {
		v += t.offset
	}
	if v < 0 {
		return 0
	}
	if v > t.maxZ {
		return uint32(t.maxZ)
	}
	return uint32(v)
}

// edgeAt evaluates edge i at the center of pixel (px, py).
func (t *triangleSetup) edgeAt(i, px, py int) int64 {
	cx := int64(px)<<SubpixelBits + subpixelHalf
	cy := int64(py)<<SubpixelBits + subpixelHalf
	return t.a[i]*cx + t.b[i]*cy + t.c[i]
}

// numeratorAt returns sum(E_i * z_i) at pixel (px, py); dividing it by area
// gives the exact depth.
func (t *triangleSetup) numeratorAt(px, py int) int128.Int128 {
	var n int128.Int128
	for i := range 3 {
		n = n.Add(int128.MulS64(t.edgeAt(i, px, py), t.z[i]))
	}
	return n
}

// setup derives the triangle constants and the initial scan state. It
// returns false when the triangle produces no fragments.
func (r *Rasterizer) setup(tri *Triangle) bool {
	var xs, ys [3]int64
	for i, v := range tri.V {
		if v.X <= -MaxCoord || v.X >= MaxCoord || v.Y <= -MaxCoord || v.Y >= MaxCoord {
			return r.reject(tri, "out of range")
		}
		xs[i], ys[i] = int64(v.X), int64(v.Y)
	}

	area := DoubledArea(tri.V)
	if area == 0 {
		return r.reject(tri, "degenerate")
	}
	orient := CW
	if area < 0 {
		orient = CCW
	}
	if r.cfg.Orientations&orient == 0 {
		return r.reject(tri, "culled "+orient.String())
	}

	// Pixels whose centers can lie inside the triangle.
	minX, maxX := min(xs[0], xs[1], xs[2]), max(xs[0], xs[1], xs[2])
	minY, maxY := min(ys[0], ys[1], ys[2]), max(ys[0], ys[1], ys[2])
	px0 := int((minX - subpixelHalf + SubpixelOne - 1) >> SubpixelBits)
	px1 := int((maxX - subpixelHalf) >> SubpixelBits)
	py0 := int((minY - subpixelHalf + SubpixelOne - 1) >> SubpixelBits)
	py1 := int((maxY - subpixelHalf) >> SubpixelBits)

	clip := r.cfg.clipRect()
	bx0, bx1 := max(px0, clip.X0), min(px1, clip.X1-1)
	by0, by1 := max(py0, clip.Y0), min(py1, clip.Y1-1)
	if bx0 > bx1 || by0 > by1 {
		return r.reject(tri, "outside scissor")
	}

	t := &r.tri
	*t = triangleSetup{
		id:     tri.ID,
		orient: orient,
		x0:     bx0 &^ 1,
		y0:     by0 &^ 1,
		x1:     bx1,
		y1:     by1,
		clip:   clip,
		maxZ:   int64(MaxDepth(r.cfg.DepthWidth)),
		test:   selectDepthTest(r.cfg.DepthFunc, r.cfg.DepthWidth),
	}

	sign := int64(1)
	if area < 0 {
		sign, area = -1, -area
	}
	t.area = area

	for i := range 3 {
		j, k := (i+1)%3, (i+2)%3
		t.a[i] = sign * (ys[j] - ys[k])
		t.b[i] = sign * (xs[k] - xs[j])
		t.c[i] = sign * (xs[j]*ys[k] - xs[k]*ys[j])
		t.dx[i] = t.a[i] * SubpixelOne
		t.dy[i] = t.b[i] * SubpixelOne
		t.z[i] = int64(tri.V[i].Z)

		// Top-left rule: a zero edge value covers the pixel only on left
		// edges (interior to the right) and top edges (interior below).
		if t.a[i] > 0 || (t.a[i] == 0 && t.b[i] > 0) {
			t.bias[i] = 0
		} else {
			t.bias[i] = 1
		}
	}

	var nx, ny int128.Int128
	for i := range 3 {
		nx = nx.Add(int128.MulS64(t.dx[i], t.z[i]))
		ny = ny.Add(int128.MulS64(t.dy[i], t.z[i]))
	}
	t.zx = splitDepth(nx, area)
	t.zy = splitDepth(ny, area)
	t.z2x = splitDepth(int128.MulS128x64(nx, 2), area)
	t.z2y = splitDepth(int128.MulS128x64(ny, 2), area)
	t.offset = r.polygonOffset(nx, ny, area, t.maxZ)

	r.st = scanState{
		phase: phaseRowScan,
		qy:    t.y0,
		zRow:  splitDepth(t.numeratorAt(t.x0, t.y0), area),
	}
	for i := range 3 {
		r.st.eRow[i] = t.edgeAt(i, t.x0, t.y0)
	}

	if debugEnabled() {
		r.logSetup()
	}
	return true
}

// polygonOffset returns the depth bias for a triangle whose depth changes by
// nx/area and ny/area per pixel: the larger slope scaled by OffsetFactor plus
// OffsetUnits, each rounded away from zero.
func (r *Rasterizer) polygonOffset(nx, ny int128.Int128, area, maxZ int64) int64 {
	factor, units := float64(r.cfg.OffsetFactor), float64(r.cfg.OffsetUnits)
	if factor == 0 && units == 0 {
		return 0
	}
	slope := math.Max(math.Abs(nx.Float64()), math.Abs(ny.Float64())) / float64(area)
	off := roundAway(factor*slope) + roundAway(units)
	return max(-maxZ, min(maxZ, off))
}

// roundAway rounds v to an integer away from zero, saturating far outside
// the depth range.
func roundAway(v float64) int64 {
	const limit = 1 << 40
	switch {
	case math.IsNaN(v):
		return 0
	case v >= limit:
		return limit
	case v <= -limit:
		return -limit
	case v < 0:
		return -int64(math.Ceil(-v))
	}
	return int64(math.Ceil(v))
}

// DepthAt evaluates the exact interpolated depth of the last set-up triangle
// at the center of pixel (px, py), before polygon offset and clamping. It
// returns false when no triangle has been set up.
func (r *Rasterizer) DepthAt(px, py int) (int64, bool) {
	t := &r.tri
	if t.area == 0 {
		return 0, false
	}
	return int64(splitDepth(t.numeratorAt(px, py), t.area).z), true
}

// Bounds returns the inclusive pixel bounds scanned for the last set-up
// triangle, already aligned to quads at the top-left.
func (r *Rasterizer) Bounds() (x0, y0, x1, y1 int) {
	t := &r.tri
	return t.x0, t.y0, t.x1, t.y1
}
