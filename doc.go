// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package softraster is the geometry-to-fragment core of a software renderer.
//
// # Overview
//
// A Pipeline takes clip-space vertices (x, y, z, w followed by varyings),
// clips them against the view volume, performs perspective division and the
// viewport transform, and rasterizes the resulting screen-space triangles
// into 2x2 fragment quads. Fragments are collected in a columnar
// fragment.Batch; whenever the batch fills, and on Flush, it is handed to a
// ShadeFunc together with the primitives its fragments belong to.
//
// # Quick Start
//
//	target, _ := surface.New(320, 240, gputypes.TextureFormatDepth24Plus)
//	target.ClearDepth(target.MaxDepth())
//
//	var p *softraster.Pipeline
//	p, _ = softraster.NewPipeline(target, func(b *fragment.Batch, prims *softraster.Primitives) {
//	    b.ForEachLive(func(i int) {
//	        if p.ResolveDepth(b, i) {
//	            target.SetRGBA(b.ColorOffset[i], color.RGBA{R: 255, A: 255})
//	        }
//	    })
//	}, softraster.WithEarlyDepth(gputypes.CompareFunctionLess))
//
//	p.DrawTriangle(v0, v1, v2)
//	p.Flush()
//
// # Coordinate System
//
// Screen space has its origin at the top-left with y growing down. Positions
// are fixed point with 8 fractional bits and pixel (x, y) is sampled at its
// center. Depth is an integer in the range of the depth buffer width.
//
// # Exactness
//
// Per-fragment depth is floor(sum(E_i*z_i)/area), computed incrementally with
// 128-bit intermediates and no accumulated error. Shared triangle edges
// follow the top-left fill rule and are rasterized exactly once.
//
// # Parallelism
//
// A Pipeline is single-threaded. TiledPipeline bins triangles into 64x64
// tiles and rasterizes tiles concurrently, one independent rasterizer each.
package softraster
