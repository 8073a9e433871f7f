// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/internal/raster"
)

// Primitive is a rasterized triangle as seen by a ShadeFunc.
type Primitive struct {
	// ID matches the Prim column of the primitive's fragments.
	ID uint32

	Orientation Orientation

	// Area is the absolute doubled screen area. A fragment's edge values
	// divided by Area are its barycentric weights.
	Area int64

	Screen [3]ScreenVertex

	// Vertices hold the divided clip-space vertices: x, y, z, 1/w and then
	// the varyings, still undivided.
	Vertices [3][]float32
}

// Weights returns the screen-space barycentric weights of fragment row i.
func (p *Primitive) Weights(b *fragment.Batch, i int) (w0, w1, w2 float64) {
	a := float64(p.Area)
	return float64(b.E0[i]) / a, float64(b.E1[i]) / a, float64(b.E2[i]) / a
}

// Interpolate returns the perspective-correct value of varying k (0-based,
// after the position) at fragment row i.
func (p *Primitive) Interpolate(b *fragment.Batch, i, k int) float32 {
	w0, w1, w2 := p.Weights(b, i)
	const rw = 3
	v0, v1, v2 := p.Vertices[0], p.Vertices[1], p.Vertices[2]
	q0, q1, q2 := w0*float64(v0[rw]), w1*float64(v1[rw]), w2*float64(v2[rw])
	den := q0 + q1 + q2
	if den == 0 {
		return 0
	}
	slot := 4 + k
	return float32((q0*float64(v0[slot]) + q1*float64(v1[slot]) + q2*float64(v2[slot])) / den)
}

// Primitives is the table of primitives referenced by a batch. IDs are
// consecutive starting at Base. The table and the vertex slices of its
// entries are only valid during the ShadeFunc call.
type Primitives struct {
	base   uint32
	list   []Primitive
	arena  []float32
	stride int
}

func newPrimitives(stride int) *Primitives {
	return &Primitives{stride: stride}
}

// Get returns the primitive with the given ID, or nil if it is not in the
// table.
func (ps *Primitives) Get(id uint32) *Primitive {
	i := int(id - ps.base)
	if id < ps.base || i >= len(ps.list) {
		return nil
	}
	return &ps.list[i]
}

// Len returns the number of primitives in the table.
func (ps *Primitives) Len() int { return len(ps.list) }

// Base returns the ID of the first primitive in the table.
func (ps *Primitives) Base() uint32 { return ps.base }

// next returns the ID the next added primitive will receive.
func (ps *Primitives) next() uint32 { return ps.base + uint32(len(ps.list)) }

// add copies the three vertices into the table and returns the new entry.
func (ps *Primitives) add(screen [3]ScreenVertex, v0, v1, v2 []float32) *Primitive {
	oldCap := cap(ps.arena)
	ps.arena = append(ps.arena, v0[:ps.stride]...)
	ps.arena = append(ps.arena, v1[:ps.stride]...)
	ps.arena = append(ps.arena, v2[:ps.stride]...)

	area := raster.DoubledArea(screen)
	o := raster.CW
	if area < 0 {
		o, area = raster.CCW, -area
	}
	ps.list = append(ps.list, Primitive{
		ID:          ps.next(),
		Orientation: o,
		Area:        area,
		Screen:      screen,
	})
	if cap(ps.arena) != oldCap {
		ps.relink(0)
	} else {
		ps.relink(len(ps.list) - 1)
	}
	return &ps.list[len(ps.list)-1]
}

// relink points the vertex slices of primitives from on into the arena.
// Primitive i owns arena[i*3*stride : (i+1)*3*stride].
func (ps *Primitives) relink(from int) {
	s := ps.stride
	for i := from; i < len(ps.list); i++ {
		p := &ps.list[i]
		for c := range 3 {
			lo := (i*3 + c) * s
			p.Vertices[c] = ps.arena[lo : lo+s : lo+s]
		}
	}
}

// pop removes the last primitive.
func (ps *Primitives) pop() {
	ps.list = ps.list[:len(ps.list)-1]
	ps.arena = ps.arena[:len(ps.list)*3*ps.stride]
}

// retainLast drops every primitive but the last, which keeps its ID. With
// keep false the table is emptied and the next ID is preserved.
func (ps *Primitives) retainLast(keep bool) {
	n := len(ps.list)
	if n == 0 {
		return
	}
	if !keep {
		ps.base += uint32(n)
		ps.list = ps.list[:0]
		ps.arena = ps.arena[:0]
		return
	}
	last := ps.list[n-1]
	ps.base = last.ID
	s := 3 * ps.stride
	copy(ps.arena, ps.arena[(n-1)*s:n*s])
	ps.arena = ps.arena[:s]
	ps.list = append(ps.list[:0], last)
	ps.relink(0)
}
