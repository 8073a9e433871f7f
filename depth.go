// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/internal/raster"
	"github.com/gogpu/softraster/surface"
)

// depthState is the post-shading depth test shared by both pipelines.
type depthState struct {
	fn    raster.DepthFunc
	width int
	write bool
	buf   []byte
}

// compare applies fn exactly: z is the fragment depth, stored the buffer's.
func compare(fn raster.DepthFunc, z, stored uint32) bool {
	switch fn {
	case raster.DepthNever:
		return false
	case raster.DepthLess:
		return z < stored
	case raster.DepthLessEqual:
		return z <= stored
	case raster.DepthEqual:
		return z == stored
	case raster.DepthGreater:
		return z > stored
	case raster.DepthNotEqual:
		return z != stored
	case raster.DepthGreaterEqual:
		return z >= stored
	}
	// DepthOff and DepthAlways.
	return true
}

// resolve tests fragment row i and stores its depth when it passes and
// writes are enabled.
func (d *depthState) resolve(b *fragment.Batch, i int) bool {
	if d.fn == raster.DepthOff || d.buf == nil {
		return true
	}
	off, z := b.DepthOffset[i], b.Z[i]
	if !compare(d.fn, z, surface.ReadDepth(d.buf, off, d.width)) {
		return false
	}
	if d.write {
		surface.WriteDepth(d.buf, off, d.width, z)
	}
	return true
}
