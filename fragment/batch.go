// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fragment

// Batch is a fixed-capacity columnar fragment buffer.
//
// Each column holds one field of Fragment. Next links live rows: Next[i] is
// the distance from row i to the next live row, or End. Head returns the first
// live row.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	n    int
	head int
	last int

	Next          []int32
	Mask          []Mask
	X, Y          []int32
	ColorOffset   []int
	DepthOffset   []int
	StencilOffset []int
	E0, E1, E2    []int64
	Z             []uint32
	Prim          []uint32
}

// NewBatch creates a batch holding up to capacity fragments. The capacity is
// rounded up to a whole number of quads, with a minimum of one quad.
func NewBatch(capacity int) *Batch {
	if capacity < QuadSize {
		capacity = QuadSize
	}
	capacity = (capacity + QuadSize - 1) &^ (QuadSize - 1)
	b := &Batch{
		Next:          make([]int32, capacity),
		Mask:          make([]Mask, capacity),
		X:             make([]int32, capacity),
		Y:             make([]int32, capacity),
		ColorOffset:   make([]int, capacity),
		DepthOffset:   make([]int, capacity),
		StencilOffset: make([]int, capacity),
		E0:            make([]int64, capacity),
		E1:            make([]int64, capacity),
		E2:            make([]int64, capacity),
		Z:             make([]uint32, capacity),
		Prim:          make([]uint32, capacity),
	}
	b.Reset()
	return b
}

// Len returns the number of rows.
func (b *Batch) Len() int { return b.n }

// Cap returns the row capacity.
func (b *Batch) Cap() int { return len(b.Mask) }

// Remaining returns the number of free rows.
func (b *Batch) Remaining() int { return len(b.Mask) - b.n }

// Full reports whether no quad fits anymore.
func (b *Batch) Full() bool { return b.Remaining() < QuadSize }

// Reset empties the batch for reuse.
func (b *Batch) Reset() {
	b.n = 0
	b.head = -1
	b.last = -1
}

// Head returns the first live row, or -1.
func (b *Batch) Head() int { return b.head }

// Push appends f. It panics if the batch is full; producers check Remaining.
func (b *Batch) Push(f *Fragment) {
	i := b.n
	b.n++

	b.Next[i] = End
	b.Mask[i] = f.Mask
	b.X[i], b.Y[i] = f.X, f.Y
	b.ColorOffset[i] = f.ColorOffset
	b.DepthOffset[i] = f.DepthOffset
	b.StencilOffset[i] = f.StencilOffset
	b.E0[i], b.E1[i], b.E2[i] = f.Edge[0], f.Edge[1], f.Edge[2]
	b.Z[i] = f.Z
	b.Prim[i] = f.Prim

	if !f.Mask.IsLive() {
		return
	}
	if b.last < 0 {
		b.head = i
	} else {
		b.Next[b.last] = int32(i - b.last)
	}
	b.last = i
}

// Row returns row i as a Fragment.
func (b *Batch) Row(i int) Fragment {
	return Fragment{
		Mask:          b.Mask[i],
		X:             b.X[i],
		Y:             b.Y[i],
		ColorOffset:   b.ColorOffset[i],
		DepthOffset:   b.DepthOffset[i],
		StencilOffset: b.StencilOffset[i],
		Edge:          [3]int64{b.E0[i], b.E1[i], b.E2[i]},
		Z:             b.Z[i],
		Prim:          b.Prim[i],
	}
}

// ForEachLive calls fn for every live row in chain order.
func (b *Batch) ForEachLive(fn func(i int)) {
	for i := b.head; i >= 0; {
		fn(i)
		if b.Next[i] == End {
			return
		}
		i += int(b.Next[i])
	}
}

// LiveCount returns the number of live rows.
func (b *Batch) LiveCount() int {
	n := 0
	b.ForEachLive(func(int) { n++ })
	return n
}
