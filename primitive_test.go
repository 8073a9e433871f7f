// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"testing"

	"github.com/gogpu/softraster/fragment"
)

func screenTri(x0, y0, x1, y1, x2, y2 int32) [3]ScreenVertex {
	return [3]ScreenVertex{
		{X: x0 * SubpixelOne, Y: y0 * SubpixelOne},
		{X: x1 * SubpixelOne, Y: y1 * SubpixelOne},
		{X: x2 * SubpixelOne, Y: y2 * SubpixelOne},
	}
}

func TestPrimitivesTable(t *testing.T) {
	ps := newPrimitives(5)
	vert := func(f float32) []float32 { return []float32{f, f, f, 1, f} }

	for i := range 100 {
		f := float32(i)
		p := ps.add(screenTri(0, 0, 10, 0, 0, 10), vert(f), vert(f+0.25), vert(f+0.5))
		if p.ID != uint32(i) {
			t.Fatalf("add #%d: ID = %d", i, p.ID)
		}
	}
	// Arena growth must not leave stale vertex slices behind.
	for i := range 100 {
		p := ps.Get(uint32(i))
		if p == nil {
			t.Fatalf("Get(%d) = nil", i)
		}
		if got := p.Vertices[2][4]; got != float32(i)+0.5 {
			t.Fatalf("primitive %d vertex 2 varying = %g", i, got)
		}
		if len(p.Vertices[0]) != 5 || cap(p.Vertices[0]) != 5 {
			t.Fatalf("primitive %d vertex slice len %d cap %d", i, len(p.Vertices[0]), cap(p.Vertices[0]))
		}
	}
	if ps.Get(100) != nil {
		t.Error("Get past the end returned a primitive")
	}

	ps.pop()
	if ps.Len() != 99 || ps.next() != 99 {
		t.Fatalf("after pop: Len %d, next %d", ps.Len(), ps.next())
	}

	ps.retainLast(true)
	if ps.Base() != 98 || ps.Len() != 1 {
		t.Fatalf("retainLast(true): Base %d, Len %d", ps.Base(), ps.Len())
	}
	if p := ps.Get(98); p == nil || p.Vertices[1][4] != 98.25 {
		t.Fatalf("retained primitive = %+v", p)
	}
	if ps.Get(97) != nil {
		t.Error("dropped primitive still reachable")
	}

	ps.retainLast(false)
	if ps.Len() != 0 || ps.next() != 99 {
		t.Fatalf("retainLast(false): Len %d, next %d", ps.Len(), ps.next())
	}
	if p := ps.add(screenTri(0, 0, 0, 10, 10, 0), vert(0), vert(0), vert(0)); p.ID != 99 {
		t.Errorf("ID after reset = %d, want 99", p.ID)
	}
}

func TestPrimitiveOrientation(t *testing.T) {
	ps := newPrimitives(4)
	v := []float32{0, 0, 0, 1}

	// y grows downward: right then down is clockwise on screen.
	cw := ps.add(screenTri(0, 0, 10, 0, 0, 10), v, v, v)
	if cw.Orientation != CW || cw.Area != 100*SubpixelOne*SubpixelOne {
		t.Errorf("cw: orientation %v, area %d", cw.Orientation, cw.Area)
	}
	ccw := ps.add(screenTri(0, 0, 0, 10, 10, 0), v, v, v)
	if ccw.Orientation != CCW || ccw.Area != 100*SubpixelOne*SubpixelOne {
		t.Errorf("ccw: orientation %v, area %d", ccw.Orientation, ccw.Area)
	}
}

func TestPrimitiveWeights(t *testing.T) {
	p := Primitive{Area: 8}
	p.Vertices[0] = []float32{0, 0, 0, 1, 10}
	p.Vertices[1] = []float32{0, 0, 0, 1, 20}
	p.Vertices[2] = []float32{0, 0, 0, 0.5, 30}

	b := fragment.NewBatch(4)
	b.Push(&fragment.Fragment{Mask: fragment.Live, Edge: [3]int64{2, 2, 4}})

	w0, w1, w2 := p.Weights(b, 0)
	if w0 != 0.25 || w1 != 0.25 || w2 != 0.5 {
		t.Fatalf("Weights() = %g, %g, %g", w0, w1, w2)
	}
	// (0.25*10 + 0.25*20 + 0.25*30) / (0.25 + 0.25 + 0.25)
	if got := p.Interpolate(b, 0, 0); got != 20 {
		t.Errorf("Interpolate() = %g, want 20", got)
	}
}
