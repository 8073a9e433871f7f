// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// ReadDepth decodes the width-byte little-endian depth value at buf[off:].
func ReadDepth(buf []byte, off, width int) uint32 {
	switch width {
	case 2:
		return uint32(buf[off]) | uint32(buf[off+1])<<8
	case 3:
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
	case 4:
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}
	return 0
}

// WriteDepth encodes z as a width-byte little-endian value at buf[off:].
// Bits above the width are dropped.
func WriteDepth(buf []byte, off, width int, z uint32) {
	for i := range width {
		buf[off+i] = byte(z >> (8 * i))
	}
}

// DepthAt returns the depth value of pixel (x, y), or 0 without depth.
func (t *Target) DepthAt(x, y int) uint32 {
	if t.Depth == nil {
		return 0
	}
	return ReadDepth(t.Depth, t.DepthOffset(x, y), t.depthWidth)
}

// SetDepth stores z for pixel (x, y).
func (t *Target) SetDepth(x, y int, z uint32) {
	if t.Depth == nil {
		return
	}
	WriteDepth(t.Depth, t.DepthOffset(x, y), t.depthWidth, z)
}

// ClearDepth fills the depth plane with z, clamped to MaxDepth.
func (t *Target) ClearDepth(z uint32) {
	if t.Depth == nil {
		return
	}
	z = min(z, t.MaxDepth())
	w := t.depthWidth
	if len(t.Depth) < w {
		return
	}
	WriteDepth(t.Depth, 0, w, z)
	// Doubling copy of the first entry.
	for n := w; n < len(t.Depth); n *= 2 {
		copy(t.Depth[n:], t.Depth[:n])
	}
}
