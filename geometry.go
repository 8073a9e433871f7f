// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"fmt"
	"math"

	"github.com/gogpu/softraster/internal/clip"
	"github.com/gogpu/softraster/internal/raster"
	"github.com/gogpu/softraster/internal/viewport"
)

// emitFunc receives one screen triangle and its divided vertices.
type emitFunc func(screen [3]ScreenVertex, v0, v1, v2 []float32)

// geometry is the per-vertex front end: clipping, perspective division and
// the viewport transform.
type geometry struct {
	clipper *clip.Clipper
	xform   *viewport.Transform
	stride  int

	// allowed is the orientation mask of the rasterizer. Lines and points
	// are emitted in a permitted winding so culling never drops them.
	allowed Orientation

	// point holds a divided copy of a point vertex.
	point []float32

	stats *Stats
}

func newGeometry(varyings int, vp viewport.Viewport, allowed Orientation, stats *Stats) (*geometry, error) {
	c, err := clip.New(varyings)
	if err != nil {
		return nil, err
	}
	xf, err := viewport.New(vp)
	if err != nil {
		return nil, err
	}
	return &geometry{
		clipper: c,
		xform:   xf,
		stride:  c.Stride(),
		allowed: allowed,
		point:   make([]float32, c.Stride()),
		stats:   stats,
	}, nil
}

func (g *geometry) checkVertex(v []float32) error {
	if len(v) < g.stride {
		return fmt.Errorf("%w: %d floats, want %d", ErrVertexSize, len(v), g.stride)
	}
	return nil
}

// triangle clips a clip-space triangle and emits every visible piece.
func (g *geometry) triangle(v0, v1, v2 []float32, emit emitFunc) error {
	for _, v := range [...][]float32{v0, v1, v2} {
		if err := g.checkVertex(v); err != nil {
			return err
		}
	}
	g.stats.Triangles++

	copy(g.clipper.Input(0), v0[:g.stride])
	copy(g.clipper.Input(1), v1[:g.stride])
	copy(g.clipper.Input(2), v2[:g.stride])
	n := g.clipper.ClipTriangle()
	g.stats.ClippedTriangles += n

	for i := range n {
		a, b, c := g.clipper.Triangle(i)
		if !viewport.Divide(a) || !viewport.Divide(b) || !viewport.Divide(c) {
			continue
		}
		emit([3]ScreenVertex{g.xform.Vertex(a), g.xform.Vertex(b), g.xform.Vertex(c)}, a, b, c)
	}
	return nil
}

// line clips a clip-space line and emits it as a width-pixel wide quad.
func (g *geometry) line(v0, v1 []float32, width float32, emit emitFunc) error {
	if err := g.checkVertex(v0); err != nil {
		return err
	}
	if err := g.checkVertex(v1); err != nil {
		return err
	}
	g.stats.Lines++

	copy(g.clipper.Input(0), v0[:g.stride])
	copy(g.clipper.Input(1), v1[:g.stride])
	if g.clipper.ClipLine() == 0 {
		return nil
	}
	a, b := g.clipper.Line()
	if !viewport.Divide(a) || !viewport.Divide(b) {
		return nil
	}
	sa, sb := g.xform.Vertex(a), g.xform.Vertex(b)

	dx, dy := float64(sb.X-sa.X), float64(sb.Y-sa.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	half := float64(width) / 2 * raster.SubpixelOne
	nx := int32(math.Round(-dy / length * half))
	ny := int32(math.Round(dx / length * half))

	aPlus := ScreenVertex{X: sa.X + nx, Y: sa.Y + ny, Z: sa.Z}
	aMinus := ScreenVertex{X: sa.X - nx, Y: sa.Y - ny, Z: sa.Z}
	bPlus := ScreenVertex{X: sb.X + nx, Y: sb.Y + ny, Z: sb.Z}
	bMinus := ScreenVertex{X: sb.X - nx, Y: sb.Y - ny, Z: sb.Z}

	g.emitSolid([3]ScreenVertex{aPlus, bPlus, aMinus}, [3][]float32{a, b, a}, emit)
	g.emitSolid([3]ScreenVertex{aMinus, bPlus, bMinus}, [3][]float32{a, b, b}, emit)
	return nil
}

// pointSprite emits a size x size pixel square centered on a clip-space vertex.
// Points outside the view volume are discarded.
func (g *geometry) pointSprite(v []float32, size float32, emit emitFunc) error {
	if err := g.checkVertex(v); err != nil {
		return err
	}
	g.stats.Points++

	if !clip.Inside(v) {
		return nil
	}
	p := g.point
	copy(p, v[:g.stride])
	if !viewport.Divide(p) {
		return nil
	}
	s := g.xform.Vertex(p)
	h := int32(math.Round(float64(size) / 2 * raster.SubpixelOne))
	if h <= 0 {
		return nil
	}

	tl := ScreenVertex{X: s.X - h, Y: s.Y - h, Z: s.Z}
	tr := ScreenVertex{X: s.X + h, Y: s.Y - h, Z: s.Z}
	bl := ScreenVertex{X: s.X - h, Y: s.Y + h, Z: s.Z}
	br := ScreenVertex{X: s.X + h, Y: s.Y + h, Z: s.Z}

	verts := [3][]float32{p, p, p}
	g.emitSolid([3]ScreenVertex{tl, tr, bl}, verts, emit)
	g.emitSolid([3]ScreenVertex{bl, tr, br}, verts, emit)
	return nil
}

// emitSolid emits a triangle of a line or point, reversing its winding
// when culling would drop it.
func (g *geometry) emitSolid(screen [3]ScreenVertex, v [3][]float32, emit emitFunc) {
	area := raster.DoubledArea(screen)
	o := raster.CW
	if area < 0 {
		o = raster.CCW
	}
	if g.allowed&o == 0 {
		screen[1], screen[2] = screen[2], screen[1]
		v[1], v[2] = v[2], v[1]
	}
	emit(screen, v[0], v[1], v[2])
}

func (g *geometry) release() {
	g.clipper.Release()
}
