// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/internal/parallel"
	"github.com/gogpu/softraster/internal/raster"
	"github.com/gogpu/softraster/surface"
)

// TiledPipeline rasterizes on all cores. Draw calls run the geometry stage
// on the calling goroutine and bin screen triangles into 64x64 tiles; Flush
// rasterizes the tiles concurrently, each with its own rasterizer scissored
// to the tile, and waits for them.
//
// Within a tile, triangles are rasterized in submission order, so every
// pixel sees the same fragment sequence as with a Pipeline. The ShadeFunc is
// called concurrently for different tiles; each call only carries fragments
// of one tile.
//
// Draw calls and Flush must not be called concurrently.
type TiledPipeline struct {
	target *surface.Target
	shade  ShadeFunc

	geo       *geometry
	prims     *Primitives
	grid      *parallel.TileGrid
	pool      *parallel.WorkerPool
	dirty     *parallel.DirtyRegion
	tiles     []*raster.Rasterizer
	batchSize int
	batches   sync.Pool
	depth     depthState

	stats     Stats
	fragments atomic.Int64
	delivered atomic.Int64
}

// NewTiledPipeline creates a tiled pipeline drawing into target. It accepts
// the same options as NewPipeline plus WithWorkers.
func NewTiledPipeline(target *surface.Target, shade ShadeFunc, opts ...Option) (*TiledPipeline, error) {
	if shade == nil {
		return nil, ErrNoShader
	}
	res, err := resolve(target, opts)
	if err != nil {
		return nil, err
	}

	tp := &TiledPipeline{
		target:    target,
		shade:     shade,
		grid:      parallel.NewTileGrid(target.Width(), target.Height()),
		batchSize: res.opts.batchSize,
		depth:     res.depth,
	}
	tp.batches.New = func() any { return fragment.NewBatch(tp.batchSize) }

	// One rasterizer per tile, scissored to the tile within the user scissor.
	tp.tiles = make([]*raster.Rasterizer, tp.grid.TileCount())
	var tileErr error
	i := 0
	tp.grid.ForEach(func(t *parallel.Tile) {
		cfg := res.raster
		clipRect := t.Rect
		if cfg.ScissorEnabled {
			clipRect = clipRect.Intersect(cfg.Scissor)
		}
		cfg.Scissor, cfg.ScissorEnabled = clipRect, true
		r, err := raster.New(cfg)
		if err != nil && tileErr == nil {
			tileErr = err
		}
		tp.tiles[i] = r
		i++
	})
	if tileErr != nil {
		return nil, tileErr
	}

	if tp.geo, err = newGeometry(res.opts.varyings, res.viewport, res.raster.Orientations, &tp.stats); err != nil {
		return nil, err
	}
	tp.prims = newPrimitives(tp.geo.stride)
	tp.pool = parallel.NewWorkerPool(res.opts.workers)
	tp.dirty = parallel.NewDirtyRegion(tp.grid.TilesX(), tp.grid.TilesY())

	slogger().Debug("softraster: tiled pipeline created",
		"width", target.Width(),
		"height", target.Height(),
		"tiles", tp.grid.TileCount(),
		"workers", tp.pool.Workers())
	return tp, nil
}

// Target returns the render target.
func (tp *TiledPipeline) Target() *surface.Target { return tp.target }

// Stride returns the number of floats per vertex: 4 + varyings.
func (tp *TiledPipeline) Stride() int { return tp.geo.stride }

// DrawTriangle queues a clip-space triangle.
func (tp *TiledPipeline) DrawTriangle(v0, v1, v2 []float32) error {
	return tp.geo.triangle(v0, v1, v2, tp.bin)
}

// DrawLine queues a clip-space line width pixels wide.
func (tp *TiledPipeline) DrawLine(v0, v1 []float32, width float32) error {
	return tp.geo.line(v0, v1, width, tp.bin)
}

// DrawPoint queues a size x size pixel square centered on a clip-space vertex.
func (tp *TiledPipeline) DrawPoint(v []float32, size float32) error {
	return tp.geo.pointSprite(v, size, tp.bin)
}

// bin records a screen triangle in every tile its bounding box touches.
func (tp *TiledPipeline) bin(screen [3]ScreenVertex, v0, v1, v2 []float32) {
	prim := tp.prims.add(screen, v0, v1, v2)
	if tp.grid.Bin(prim.ID, screenBounds(screen)) == 0 {
		tp.prims.pop()
		tp.stats.Rejected++
	}
}

// screenBounds returns a pixel rectangle enclosing every pixel whose center
// the triangle can cover.
func screenBounds(v [3]ScreenVertex) Rect {
	minX, maxX := min(v[0].X, v[1].X, v[2].X), max(v[0].X, v[1].X, v[2].X)
	minY, maxY := min(v[0].Y, v[1].Y, v[2].Y), max(v[0].Y, v[1].Y, v[2].Y)
	return Rect{
		X0: int(minX >> raster.SubpixelBits),
		Y0: int(minY >> raster.SubpixelBits),
		X1: int(maxX>>raster.SubpixelBits) + 1,
		Y1: int(maxY>>raster.SubpixelBits) + 1,
	}
}

// Flush rasterizes and shades everything queued since the last Flush.
func (tp *TiledPipeline) Flush() {
	tiles := parallel.Dispatch(tp.pool, tp.grid, tp.dirty, tp.renderTile)
	if tiles > 0 {
		slogger().Debug("softraster: frame flushed", "tiles", tiles, "primitives", tp.prims.Len())
	}
	tp.grid.ResetBins()
	tp.prims.retainLast(false)
}

// renderTile rasterizes the bin of one tile and reports whether any
// fragment reached the ShadeFunc.
func (tp *TiledPipeline) renderTile(t *parallel.Tile) bool {
	r := tp.tiles[t.Y*tp.grid.TilesX()+t.X]
	b := tp.batches.Get().(*fragment.Batch)
	defer tp.batches.Put(b)
	b.Reset()

	produced := false
	deliver := func() {
		if b.Len() == 0 {
			return
		}
		produced = true
		tp.delivered.Add(1)
		tp.fragments.Add(int64(b.LiveCount()))
		tp.shade(b, tp.prims)
		b.Reset()
	}

	for _, id := range t.Bin {
		prim := tp.prims.Get(id)
		tri := raster.Triangle{V: prim.Screen, ID: id}
		for o := r.Rasterize(&tri, b); o != 0; o = r.Resume(b) {
			deliver()
		}
	}
	deliver()
	return produced
}

// ResolveDepth applies the configured depth function exactly to fragment
// row i and writes its depth when it passes.
func (tp *TiledPipeline) ResolveDepth(b *fragment.Batch, i int) bool {
	return tp.depth.resolve(b, i)
}

// Stats returns the work counters.
func (tp *TiledPipeline) Stats() Stats {
	s := tp.stats
	s.Fragments = int(tp.fragments.Load())
	s.Batches = int(tp.delivered.Load())
	return s
}

// DirtyRects returns the tiles that received fragments since the last
// ClearDirty, in row-major order.
func (tp *TiledPipeline) DirtyRects() []Rect {
	var rects []Rect
	if tp.dirty == nil {
		return rects
	}
	tp.dirty.ForEachDirty(func(tx, ty int) {
		rects = append(rects, tp.grid.TileAt(tx, ty).Rect)
	})
	return rects
}

// ClearDirty forgets the dirty tiles.
func (tp *TiledPipeline) ClearDirty() {
	if tp.dirty != nil {
		tp.dirty.Clear()
	}
}

// Close stops the workers and releases the clip buffers.
func (tp *TiledPipeline) Close() {
	tp.pool.Close()
	tp.geo.release()
}
