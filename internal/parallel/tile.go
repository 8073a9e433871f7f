// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel runs independent rasterizers over screen tiles.
//
// The target is divided into 64x64 pixel tiles. Primitives are binned into
// every tile their screen bounding box touches, then each tile is processed
// on a WorkerPool with its own rasterizer whose scissor is the tile rectangle.
// Tiles share no mutable state, so the result of a tile is identical to a
// single rasterizer restricted to that tile.
//
// Thread safety: TileGrid binning is NOT thread-safe and happens on the
// submitting goroutine. DirtyRegion and WorkerPool are safe for concurrent use.
package parallel

import "github.com/gogpu/softraster/internal/raster"

// Tile size in pixels. Both are even so tile edges fall on quad boundaries.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is one screen region and the primitives binned into it.
type Tile struct {
	// X and Y are the tile column and row.
	X, Y int

	// Rect is the tile's pixel rectangle. Edge tiles may be smaller than
	// TileWidth x TileHeight.
	Rect raster.Rect

	// Bin lists the primitive indices touching the tile, in submission order.
	Bin []uint32
}

// Empty reports whether no primitive is binned into t.
func (t *Tile) Empty() bool { return len(t.Bin) == 0 }

// Reset drops the binned primitives and keeps the storage.
func (t *Tile) Reset() { t.Bin = t.Bin[:0] }

// Contains reports whether pixel (px, py) lies in the tile.
func (t *Tile) Contains(px, py int) bool { return t.Rect.Contains(px, py) }
