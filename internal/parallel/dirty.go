// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"math/bits"
	"sync/atomic"
)

// DirtyRegion is a lock-free bitmap of tiles that received live fragments.
// Bit index ty*tilesX + tx lives in word index/64.
type DirtyRegion struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

// NewDirtyRegion creates a clean region for a tilesX x tilesY grid. It
// returns nil for an empty grid.
func NewDirtyRegion(tilesX, tilesY int) *DirtyRegion {
	if tilesX <= 0 || tilesY <= 0 {
		return nil
	}
	return &DirtyRegion{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark sets the bit of tile (tx, ty). Out-of-range tiles are ignored.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// IsDirty reports whether tile (tx, ty) is marked.
func (d *DirtyRegion) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return false
	}
	idx := ty*d.tilesX + tx
	return d.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// Count returns the number of marked tiles.
func (d *DirtyRegion) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// Clear unmarks every tile.
func (d *DirtyRegion) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// ForEachDirty calls fn for each marked tile in row-major order.
func (d *DirtyRegion) ForEachDirty(fn func(tx, ty int)) {
	for w := range d.words {
		word := d.words[w].Load()
		for word != 0 {
			idx := w*64 + bits.TrailingZeros64(word)
			fn(idx%d.tilesX, idx/d.tilesX)
			word &= word - 1
		}
	}
}

// TilesX returns the number of tile columns.
func (d *DirtyRegion) TilesX() int { return d.tilesX }

// TilesY returns the number of tile rows.
func (d *DirtyRegion) TilesY() int { return d.tilesY }
