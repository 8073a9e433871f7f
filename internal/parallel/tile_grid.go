// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import "github.com/gogpu/softraster/internal/raster"

// TileGrid covers a target with tiles stored row-major: index = ty*tilesX + tx.
type TileGrid struct {
	tiles          []*Tile
	tilesX, tilesY int
	width, height  int
}

// NewTileGrid creates a grid covering a width x height target. A non-positive
// size gives an empty grid.
func NewTileGrid(width, height int) *TileGrid {
	g := &TileGrid{}
	g.Resize(width, height)
	return g
}

// Resize rebuilds the grid for a new target size. Binned primitives are
// dropped. Resizing to the current size keeps the tiles and their bins.
func (g *TileGrid) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		*g = TileGrid{}
		return
	}
	if g.width == width && g.height == height {
		return
	}

	g.width, g.height = width, height
	g.tilesX = (width + TileWidth - 1) / TileWidth
	g.tilesY = (height + TileHeight - 1) / TileHeight
	g.tiles = make([]*Tile, g.tilesX*g.tilesY)

	for ty := range g.tilesY {
		for tx := range g.tilesX {
			x0, y0 := tx*TileWidth, ty*TileHeight
			g.tiles[ty*g.tilesX+tx] = &Tile{
				X: tx,
				Y: ty,
				Rect: raster.Rect{
					X0: x0,
					Y0: y0,
					X1: min(x0+TileWidth, width),
					Y1: min(y0+TileHeight, height),
				},
			}
		}
	}
}

// TileAt returns the tile at column tx, row ty, or nil.
func (g *TileGrid) TileAt(tx, ty int) *Tile {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return nil
	}
	return g.tiles[ty*g.tilesX+tx]
}

// TileAtPixel returns the tile containing pixel (px, py), or nil.
func (g *TileGrid) TileAtPixel(px, py int) *Tile {
	if px < 0 || px >= g.width || py < 0 || py >= g.height {
		return nil
	}
	return g.tiles[(py/TileHeight)*g.tilesX+px/TileWidth]
}

// tileSpan converts a pixel rectangle to the inclusive tile range it touches.
func (g *TileGrid) tileSpan(r raster.Rect) (tx0, ty0, tx1, ty1 int, ok bool) {
	r = r.Intersect(raster.Rect{X1: g.width, Y1: g.height})
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	return r.X0 / TileWidth, r.Y0 / TileHeight, (r.X1 - 1) / TileWidth, (r.Y1 - 1) / TileHeight, true
}

// TilesInRect returns the tiles intersecting the pixel rectangle r.
func (g *TileGrid) TilesInRect(r raster.Rect) []*Tile {
	tx0, ty0, tx1, ty1, ok := g.tileSpan(r)
	if !ok {
		return nil
	}
	result := make([]*Tile, 0, (tx1-tx0+1)*(ty1-ty0+1))
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			result = append(result, g.tiles[ty*g.tilesX+tx])
		}
	}
	return result
}

// Bin appends primitive prim to every tile intersecting r and returns the
// number of tiles it landed in.
func (g *TileGrid) Bin(prim uint32, r raster.Rect) int {
	tx0, ty0, tx1, ty1, ok := g.tileSpan(r)
	if !ok {
		return 0
	}
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			t := g.tiles[ty*g.tilesX+tx]
			t.Bin = append(t.Bin, prim)
		}
	}
	return (tx1 - tx0 + 1) * (ty1 - ty0 + 1)
}

// ResetBins empties every tile's bin.
func (g *TileGrid) ResetBins() {
	for _, t := range g.tiles {
		t.Reset()
	}
}

// Occupied returns the tiles with a non-empty bin in row-major order.
func (g *TileGrid) Occupied() []*Tile {
	var result []*Tile
	for _, t := range g.tiles {
		if !t.Empty() {
			result = append(result, t)
		}
	}
	return result
}

// ForEach calls fn for each tile in row-major order.
func (g *TileGrid) ForEach(fn func(t *Tile)) {
	for _, t := range g.tiles {
		fn(t)
	}
}

// TileCount returns the number of tiles.
func (g *TileGrid) TileCount() int { return len(g.tiles) }

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }

// Width returns the target width in pixels.
func (g *TileGrid) Width() int { return g.width }

// Height returns the target height in pixels.
func (g *TileGrid) Height() int { return g.height }
