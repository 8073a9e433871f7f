// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface provides render targets for the software rasterizer.
//
// A Target owns up to three planes of the same size:
//
//   - Color: RGBA8, 4 bytes per pixel, shared with an *image.RGBA view.
//   - Depth: 2, 3 or 4 byte little-endian unsigned integers, selected by a
//     gputypes depth TextureFormat.
//   - Stencil: 1 byte per pixel, present for stencil-carrying formats.
//
// Fragments address the planes through byte offsets computed from the
// strides, so a Target exposes its raw buffers and strides directly.
//
// # Usage
//
//	t, err := surface.New(640, 480, gputypes.TextureFormatDepth24PlusStencil8)
//	if err != nil {
//	    return err
//	}
//	t.Clear(color.Black)
//	t.ClearDepth(t.MaxDepth())
//	// ... rasterize into t ...
//	img := t.Snapshot()
//
// Targets are NOT thread-safe. Tiled rendering may write disjoint pixel
// regions from different goroutines.
package surface
