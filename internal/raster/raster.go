// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster scan-converts screen-space triangles into 2x2 fragment
// quads with exact integer depth.
//
// A triangle goes through setup (bounding box, orientation, edge functions,
// depth interpolation constants), then a row scan over quad rows and a column
// scan over quads. Quads with at least one live fragment are pushed into a
// Sink. When the sink cannot take another quad the rasterizer saves its scan
// state and returns the triangle's orientation; calling Resume after the sink
// has been drained continues at the exact next quad. A return value of zero
// means the triangle is finished or was rejected.
//
// Positions use 8 fractional bits. Pixel (px, py) is sampled at its center
// (px*256+128, py*256+128). The y axis points down.
package raster

// Sub-pixel precision of vertex positions.
const (
	SubpixelBits = 8
	SubpixelOne  = 1 << SubpixelBits
	subpixelHalf = SubpixelOne / 2
)

// MaxCoord bounds vertex positions in sub-pixel units. Triangles with
// |X| or |Y| >= MaxCoord are rejected, which keeps every edge function value
// inside 50 bits.
const MaxCoord = 1 << 23

// Vertex is a screen-space vertex.
type Vertex struct {
	// X and Y are sub-pixel positions with SubpixelBits fractional bits.
	X, Y int32

	// Z is the quantized depth in [0, MaxDepth(width)].
	Z uint32
}

// Triangle is the rasterizer input.
type Triangle struct {
	V [3]Vertex

	// ID is copied into every fragment's Prim field.
	ID uint32
}

// Orientation is a triangle winding, or a set of windings when used as a mask.
type Orientation uint8

// Windings on a y-down screen. A positive doubled area is clockwise.
const (
	CCW Orientation = 1 << iota
	CW

	// BothOrientations permits every winding.
	BothOrientations = CCW | CW
)

// String returns "ccw", "cw", "both" or "none".
func (o Orientation) String() string {
	switch o {
	case CCW:
		return "ccw"
	case CW:
		return "cw"
	case BothOrientations:
		return "both"
	}
	return "none"
}

// Rect is a half-open pixel rectangle [X0, X1) x [Y0, Y1), top-left origin.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether r contains no pixels.
func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// Intersect returns the intersection of r and s.
func (r Rect) Intersect(s Rect) Rect {
	return Rect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
}

// Contains reports whether pixel (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// DoubledArea returns the signed doubled area D012 of the triangle in
// sub-pixel units squared. Positive is clockwise.
func DoubledArea(v [3]Vertex) int64 {
	x0, y0 := int64(v[0].X), int64(v[0].Y)
	x1, y1 := int64(v[1].X), int64(v[1].Y)
	x2, y2 := int64(v[2].X), int64(v[2].Y)
	return (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
}
