// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package clip clips homogeneous clip-space primitives against the view volume.
//
// A vertex is a flat []float32 attribute vector. The first four slots are the
// clip-space position X, Y, Z, W, followed by the varyings of the draw call.
// A vertex is visible when -W <= X, Y, Z <= W. Each bound is one closed
// half-space, so a vertex exactly on a plane is inside.
package clip

// Position slots of an attribute vector.
const (
	X = 0
	Y = 1
	Z = 2
	W = 3

	// PositionSize is the number of position slots preceding the varyings.
	PositionSize = 4
)

// Plane is one of the six view-volume half-spaces.
type Plane uint8

// Planes in clipping order.
const (
	PlaneFar    Plane = iota // -Z+W >= 0
	PlaneNear                // Z+W >= 0
	PlaneBottom              // -Y+W >= 0
	PlaneTop                 // Y+W >= 0
	PlaneRight               // -X+W >= 0
	PlaneLeft                // X+W >= 0

	planeCount = 6
)

// planeTable gives the coordinate slot and sign of each plane's distance
// d = sign*v[coord] + v[W].
var planeTable = [planeCount]struct {
	coord int
	sign  float32
}{
	PlaneFar:    {Z, -1},
	PlaneNear:   {Z, 1},
	PlaneBottom: {Y, -1},
	PlaneTop:    {Y, 1},
	PlaneRight:  {X, -1},
	PlaneLeft:   {X, 1},
}

// String returns the plane's name.
func (p Plane) String() string {
	switch p {
	case PlaneFar:
		return "far"
	case PlaneNear:
		return "near"
	case PlaneBottom:
		return "bottom"
	case PlaneTop:
		return "top"
	case PlaneRight:
		return "right"
	case PlaneLeft:
		return "left"
	}
	return "unknown"
}

// Distance returns the signed distance of v from the plane. Non-negative
// values are inside.
func (p Plane) Distance(v []float32) float32 {
	e := planeTable[p]
	return e.sign*v[e.coord] + v[W]
}

// Outcode returns a bit mask with bit p set for every plane p that v is
// strictly outside of. Zero means v is inside the view volume.
func Outcode(v []float32) uint8 {
	var code uint8
	for p := Plane(0); p < planeCount; p++ {
		if p.Distance(v) < 0 {
			code |= 1 << p
		}
	}
	return code
}

// Inside reports whether v lies in the closed view volume.
func Inside(v []float32) bool {
	return Outcode(v) == 0
}
