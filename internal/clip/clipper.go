// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clip

import (
	"errors"
	"fmt"
)

// MaxTriangles is the largest number of triangles one input triangle can
// become. Every plane at most doubles the count.
const MaxTriangles = 1 << planeCount

// MaxVaryings bounds the varying count a Clipper accepts.
const MaxVaryings = 1024

// Configuration errors.
var (
	// ErrInvalidVaryings is returned for a negative varying count.
	ErrInvalidVaryings = errors.New("clip: invalid varying count")

	// ErrTooManyVaryings is returned when the clip buffers for the requested
	// varying count cannot be allocated.
	ErrTooManyVaryings = errors.New("clip: too many varyings")
)

// Clipper clips one triangle or line at a time against the view volume.
//
// It owns two vertex buffers sized for the worst case of MaxTriangles
// triangles and alternates between them, one plane per pass. Planes that no
// vertex violates are skipped without a swap, so the result may live in
// either buffer; Current reports which.
//
// Usage:
//
//	c, err := clip.New(2)
//	copy(c.Input(0), v0)
//	copy(c.Input(1), v1)
//	copy(c.Input(2), v2)
//	for i := range c.ClipTriangle() {
//	    a, b, c := c.Triangle(i)
//	}
//
// A Clipper is not safe for concurrent use.
type Clipper struct {
	varyings int
	stride   int
	buf      [2][]float32
	cur      int
	count    int
	line     bool
	ready    bool
}

// New returns a Clipper for vertices with the given number of varyings.
func New(varyings int) (*Clipper, error) {
	c := &Clipper{}
	if err := c.Configure(varyings); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure resizes the clip buffers for a new varying count. Reconfiguring
// with the current count keeps the existing buffers. After a failed call the
// Clipper rejects every primitive until it is configured successfully.
func (c *Clipper) Configure(varyings int) error {
	if c.ready && varyings == c.varyings {
		return nil
	}
	c.ready = false
	c.buf = [2][]float32{}
	c.count = 0
	c.cur = 0

	switch {
	case varyings < 0:
		return fmt.Errorf("%w: %d", ErrInvalidVaryings, varyings)
	case varyings > MaxVaryings:
		return fmt.Errorf("%w: %d > %d", ErrTooManyVaryings, varyings, MaxVaryings)
	}

	c.varyings = varyings
	c.stride = PositionSize + varyings
	size := MaxTriangles * 3 * c.stride
	c.buf[0] = make([]float32, size)
	c.buf[1] = make([]float32, size)
	c.ready = true
	return nil
}

// Release drops the clip buffers. The Clipper must be configured again
// before further use.
func (c *Clipper) Release() {
	c.buf = [2][]float32{}
	c.ready = false
	c.count = 0
}

// Varyings returns the configured varying count.
func (c *Clipper) Varyings() int { return c.varyings }

// Stride returns the number of float32 slots per vertex.
func (c *Clipper) Stride() int { return c.stride }

// Input returns the attribute vector of input vertex i (0..2 for triangles,
// 0..1 for lines) for the caller to fill in.
// Input vertices share storage with results, so read the previous result
// before writing new input.
func (c *Clipper) Input(i int) []float32 {
	if !c.ready {
		return nil
	}
	return c.buf[0][i*c.stride : (i+1)*c.stride : (i+1)*c.stride]
}

// Count returns the number of triangles (or lines) produced by the last clip.
func (c *Clipper) Count() int { return c.count }

// Current returns the index of the buffer holding the last result.
func (c *Clipper) Current() int { return c.cur }

// Buffer returns the raw storage of buffer i.
func (c *Clipper) Buffer(i int) []float32 { return c.buf[i] }

// Vertex returns vertex corner of result primitive prim.
func (c *Clipper) Vertex(prim, corner int) []float32 {
	n := 3
	if c.line {
		n = 2
	}
	off := (prim*n + corner) * c.stride
	return c.buf[c.cur][off : off+c.stride : off+c.stride]
}

// Triangle returns the three vertices of result triangle i.
func (c *Clipper) Triangle(i int) (v0, v1, v2 []float32) {
	return c.Vertex(i, 0), c.Vertex(i, 1), c.Vertex(i, 2)
}

// Line returns the two endpoints of the clipped line.
func (c *Clipper) Line() (v0, v1 []float32) {
	return c.Vertex(0, 0), c.Vertex(0, 1)
}

// ClipTriangle clips the input triangle and returns the number of result
// triangles, 0 to MaxTriangles. Results keep the input winding.
func (c *Clipper) ClipTriangle() int {
	c.line = false
	c.cur = 0
	c.count = 0
	if !c.ready {
		return 0
	}

	v0, v1, v2 := c.Input(0), c.Input(1), c.Input(2)
	o0, o1, o2 := Outcode(v0), Outcode(v1), Outcode(v2)
	c.count = 1
	if o0|o1|o2 == 0 {
		return 1
	}
	if o0&o1&o2 != 0 {
		c.count = 0
		return 0
	}

	for p := Plane(0); p < planeCount; p++ {
		if !c.anyOutside(p) {
			continue
		}
		c.count = c.clipPass(p)
		c.cur = 1 - c.cur
		if c.count == 0 {
			return 0
		}
	}
	return c.count
}

// anyOutside reports whether a current result vertex is outside p.
func (c *Clipper) anyOutside(p Plane) bool {
	src := c.buf[c.cur]
	for i := 0; i < c.count*3; i++ {
		if p.Distance(src[i*c.stride:]) < 0 {
			return true
		}
	}
	return false
}

// clipPass clips every current triangle against p into the other buffer and
// returns the new triangle count.
func (c *Clipper) clipPass(p Plane) int {
	src, dst := c.buf[c.cur], c.buf[1-c.cur]
	s := c.stride
	n := 0

	for t := 0; t < c.count; t++ {
		var v [3][]float32
		var d [3]float32
		var mask int
		for k := range 3 {
			off := (t*3 + k) * s
			v[k] = src[off : off+s]
			d[k] = p.Distance(v[k])
			if d[k] >= 0 {
				mask |= 1 << k
			}
		}

		switch mask {
		case 0:
			// Entirely outside.
		case 7:
			copy(dst[n*3*s:], src[t*3*s:(t+1)*3*s])
			n++
		case 1, 2, 4:
			// One vertex inside: keep it, replace the other two by the
			// intersections of its edges.
			k := insideIndex(mask)
			a, b, cc := k, (k+1)%3, (k+2)%3
			out := dst[n*3*s:]
			copy(out[0:s], v[a])
			c.intersect(out[s:2*s], p, v[a], d[a], v[b], d[b])
			c.intersect(out[2*s:3*s], p, v[a], d[a], v[cc], d[cc])
			n++
		default:
			// Two vertices inside: the quad a, b, I(b,c), I(a,c) becomes
			// two triangles.
			k := insideIndex(^mask & 7)
			cc, a, b := k, (k+1)%3, (k+2)%3
			out := dst[n*3*s:]
			copy(out[0:s], v[a])
			copy(out[s:2*s], v[b])
			c.intersect(out[2*s:3*s], p, v[b], d[b], v[cc], d[cc])
			copy(out[3*s:4*s], v[a])
			copy(out[4*s:5*s], out[2*s:3*s])
			c.intersect(out[5*s:6*s], p, v[a], d[a], v[cc], d[cc])
			n += 2
		}
	}
	return n
}

// insideIndex returns the index of the single bit set in mask.
func insideIndex(mask int) int {
	switch mask {
	case 1:
		return 0
	case 2:
		return 1
	}
	return 2
}

// intersect writes into dst the point where the edge from in (distance
// dIn >= 0) to out (distance dOut < 0) crosses p. Every attribute is
// interpolated as (dIn*out - dOut*in) / (dIn - dOut), which equals
// in + t*(out-in) for t = dIn/(dIn-dOut). The clipped coordinate is then
// placed exactly on the plane.
func (c *Clipper) intersect(dst []float32, p Plane, in []float32, dIn float32, out []float32, dOut float32) {
	inv := 1 / (dIn - dOut)
	for k := range dst {
		dst[k] = (dIn*out[k] - dOut*in[k]) * inv
	}
	e := planeTable[p]
	dst[e.coord] = -e.sign * dst[W]
}

// ClipLine clips the input line (vertices 0 and 1) and returns 1 when part of
// it is visible, 0 otherwise. Endpoints are replaced in place.
func (c *Clipper) ClipLine() int {
	c.line = true
	c.cur = 0
	c.count = 0
	if !c.ready {
		return 0
	}

	v0, v1 := c.Input(0), c.Input(1)
	o0, o1 := Outcode(v0), Outcode(v1)
	if o0&o1 != 0 {
		return 0
	}

	for p := Plane(0); p < planeCount; p++ {
		if (o0|o1)&(1<<p) == 0 {
			continue
		}
		d0, d1 := p.Distance(v0), p.Distance(v1)
		switch {
		case d0 >= 0 && d1 >= 0:
		case d0 < 0 && d1 < 0:
			return 0
		case d0 < 0:
			c.intersect(v0, p, v1, d1, v0, d0)
		default:
			c.intersect(v1, p, v0, d0, v1, d1)
		}
	}
	c.count = 1
	return 1
}
