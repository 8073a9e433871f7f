// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

// Dispatch runs fn once for every tile with a non-empty bin, spread over the
// pool, and waits for all of them. Tiles for which fn reports fragment
// output are marked in dirty, which may be nil. It returns the number of
// tiles processed.
//
// fn runs concurrently for different tiles and must only touch pixels inside
// its tile.
func Dispatch(p *WorkerPool, g *TileGrid, dirty *DirtyRegion, fn func(t *Tile) bool) int {
	tiles := g.Occupied()
	if len(tiles) == 0 {
		return 0
	}

	jobs := make([]func(), len(tiles))
	for i, t := range tiles {
		jobs[i] = func() {
			if fn(t) && dirty != nil {
				dirty.Mark(t.X, t.Y)
			}
		}
	}
	p.ExecuteAll(jobs)

	if debugEnabled() {
		binned := 0
		for _, t := range tiles {
			binned += len(t.Bin)
		}
		slogger().Debug("parallel: tiles dispatched", "tiles", len(tiles), "binned", binned, "workers", p.Workers())
	}
	return len(tiles)
}
