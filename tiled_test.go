// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"bytes"
	"image/color"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/surface"
)

// drawer is the draw surface shared by both pipelines.
type drawer interface {
	DrawTriangle(v0, v1, v2 []float32) error
	ResolveDepth(b *fragment.Batch, i int) bool
	Flush()
}

// shadeVarying colors a fragment from its interpolated varying and keeps
// it only when it passes the depth test.
func shadeVarying(target *surface.Target, d *drawer) ShadeFunc {
	return func(b *fragment.Batch, prims *Primitives) {
		b.ForEachLive(func(i int) {
			prim := prims.Get(b.Prim[i])
			if !(*d).ResolveDepth(b, i) {
				return
			}
			v := prim.Interpolate(b, i, 0)
			target.SetRGBA(b.ColorOffset[i], color.RGBA{
				R: uint8(v * 255),
				G: uint8(prim.Screen[0].X),
				B: uint8(prim.Screen[1].Y),
				A: 255,
			})
		})
	}
}

func renderScene(t *testing.T, tiled bool, scene [][3][]float32, opts ...Option) *surface.Target {
	t.Helper()
	target := newTarget(t, 200, 150, gputypes.TextureFormatDepth24Plus)
	target.ClearDepth(target.MaxDepth())

	var d drawer
	opts = append([]Option{WithVaryings(1), WithEarlyDepth(gputypes.CompareFunctionLess)}, opts...)
	if tiled {
		tp, err := NewTiledPipeline(target, shadeVarying(target, &d), append(opts, WithWorkers(4))...)
		if err != nil {
			t.Fatal(err)
		}
		defer tp.Close()
		d = tp
	} else {
		p, err := NewPipeline(target, shadeVarying(target, &d), opts...)
		if err != nil {
			t.Fatal(err)
		}
		defer p.Close()
		d = p
	}

	for i, tri := range scene {
		if err := d.DrawTriangle(tri[0], tri[1], tri[2]); err != nil {
			t.Fatal(err)
		}
		// Split the scene over several frames.
		if i%25 == 24 {
			d.Flush()
		}
	}
	d.Flush()
	return target
}

func TestTiledMatchesSingle(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"small batches", []Option{WithBatchSize(8)}},
		{"culling", []Option{WithCulling(gputypes.CullModeBack, gputypes.FrontFaceCW)}},
		{"scissor", []Option{WithScissor(Rect{X0: 30, Y0: 10, X1: 150, Y1: 100})}},
		{"polygon offset", []Option{WithPolygonOffset(1, 4)}},
	}
	scene := randomScene(rand.New(rand.NewPCG(11, 3)), 120)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := renderScene(t, false, scene, tt.opts...)
			got := renderScene(t, true, scene, tt.opts...)
			if !bytes.Equal(got.Color, want.Color) {
				t.Error("color planes differ")
			}
			if !bytes.Equal(got.Depth, want.Depth) {
				t.Error("depth planes differ")
			}
		})
	}
}

func TestTiledShadesEveryPixelOnce(t *testing.T) {
	const w, h = 150, 70
	target := newTarget(t, w, h, gputypes.TextureFormatUndefined)
	hits := make([]atomic.Int32, w*h)
	tp, err := NewTiledPipeline(target, func(b *fragment.Batch, prims *Primitives) {
		b.ForEachLive(func(i int) {
			if prims.Get(b.Prim[i]) == nil {
				t.Errorf("primitive %d missing", b.Prim[i])
			}
			hits[int(b.Y[i])*w+int(b.X[i])].Add(1)
		})
	}, WithBatchSize(4))
	if err != nil {
		t.Fatal(err)
	}
	defer tp.Close()

	tp.DrawTriangle(vtx(-1, -1, 0, 1), vtx(1, -1, 0, 1), vtx(1, 1, 0, 1))
	tp.DrawTriangle(vtx(-1, -1, 0, 1), vtx(1, 1, 0, 1), vtx(-1, 1, 0, 1))
	tp.Flush()

	for i := range hits {
		if n := hits[i].Load(); n != 1 {
			t.Fatalf("pixel (%d, %d) shaded %d times, want 1", i%w, i/w, n)
		}
	}
	s := tp.Stats()
	if s.Fragments != w*h || s.Triangles != 2 {
		t.Errorf("Stats() = %+v", s)
	}
	if got := len(tp.DirtyRects()); got != 3*2 {
		t.Errorf("DirtyRects() = %d tiles, want 6", got)
	}
}

func TestTiledDirtyRects(t *testing.T) {
	target := newTarget(t, 200, 150, gputypes.TextureFormatUndefined)
	tp, err := NewTiledPipeline(target, func(*fragment.Batch, *Primitives) {})
	if err != nil {
		t.Fatal(err)
	}
	defer tp.Close()

	if got := tp.DirtyRects(); len(got) != 0 {
		t.Fatalf("fresh pipeline dirty: %v", got)
	}

	// A small triangle near the window's top-left corner: pixels 4..10.
	tp.DrawTriangle(vtx(-0.96, 0.96, 0, 1), vtx(-0.9, 0.96, 0, 1), vtx(-0.96, 0.9, 0, 1))
	tp.Flush()
	got := tp.DirtyRects()
	if want := (Rect{X0: 0, Y0: 0, X1: 64, Y1: 64}); len(got) != 1 || got[0] != want {
		t.Errorf("DirtyRects() = %v, want [%v]", got, want)
	}

	tp.ClearDirty()
	if got := tp.DirtyRects(); len(got) != 0 {
		t.Errorf("after ClearDirty: %v", got)
	}

	// The bottom-right tile is clipped to the target.
	tp.DrawTriangle(vtx(0.96, -0.96, 0, 1), vtx(0.94, -0.96, 0, 1), vtx(0.96, -0.94, 0, 1))
	tp.Flush()
	got = tp.DirtyRects()
	if want := (Rect{X0: 192, Y0: 128, X1: 200, Y1: 150}); len(got) != 1 || got[0] != want {
		t.Errorf("DirtyRects() = %v, want [%v]", got, want)
	}
}

func TestTiledClosedPoolStillRenders(t *testing.T) {
	target := newTarget(t, 70, 70, gputypes.TextureFormatUndefined)
	var n atomic.Int64
	tp, err := NewTiledPipeline(target, func(b *fragment.Batch, _ *Primitives) {
		n.Add(int64(b.LiveCount()))
	}, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	tp.pool.Close()
	tp.DrawTriangle(vtx(-1, -1, 0, 1), vtx(1, -1, 0, 1), vtx(1, 1, 0, 1))
	tp.Flush()
	if n.Load() == 0 {
		t.Error("no fragments with a closed pool")
	}
	tp.geo.release()
}
