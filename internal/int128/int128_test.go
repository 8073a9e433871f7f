// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package int128

import (
	"errors"
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

func bigU(u Uint128) *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func bigS(a Int128) *big.Int {
	b := bigU(Uint128(a))
	if a.IsNeg() {
		b.Sub(b, two128)
	}
	return b
}

func randU128(r *rand.Rand) Uint128 {
	return Uint128{Hi: r.Uint64(), Lo: r.Uint64()}
}

// =============================================================================
// Add / Sub
// =============================================================================

func TestAddCarry(t *testing.T) {
	tests := []struct {
		name string
		a, b Uint128
		want Uint128
	}{
		{"zero", Uint128{}, Uint128{}, Uint128{}},
		{"low carry", Uint128{Lo: math.MaxUint64}, U64(1), Uint128{Hi: 1}},
		{"wraps", Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}, U64(1), Uint128{}},
		{"no carry", Uint128{Hi: 1, Lo: 2}, Uint128{Hi: 3, Lo: 4}, Uint128{Hi: 4, Lo: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Add(tt.a, tt.b); got != tt.want {
				t.Errorf("Add(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubBorrow(t *testing.T) {
	if got := Sub(Uint128{Hi: 1}, U64(1)); got != (Uint128{Lo: math.MaxUint64}) {
		t.Errorf("Sub(2^64, 1) = %v, want {0, MaxUint64}", got)
	}
	if got := Sub(Uint128{}, U64(1)); got != (Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}) {
		t.Errorf("Sub(0, 1) = %v, want all ones", got)
	}
}

func TestAddSubInverse(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10000; i++ {
		a, b := randU128(r), randU128(r)
		if got := Sub(Add(a, b), b); got != a {
			t.Fatalf("Sub(Add(%v, %v), b) = %v, want a", a, b, got)
		}
		want := new(big.Int).Add(bigU(a), bigU(b))
		want.Mod(want, two128)
		if got := bigU(Add(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("Add(%v, %v) = %v, want %v", a, b, got, want)
		}
	}
}

// =============================================================================
// Multiplication
// =============================================================================

func TestMulU64(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 10000; i++ {
		a, b := r.Uint64(), r.Uint64()
		want := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		if got := bigU(MulU64(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("MulU64(%d, %d) = %v, want %v", a, b, got, want)
		}
	}
}

func TestMulS64(t *testing.T) {
	edge := []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 1 << 62, -(1 << 62)}
	for _, a := range edge {
		for _, b := range edge {
			want := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
			if got := bigS(MulS64(a, b)); got.Cmp(want) != 0 {
				t.Errorf("MulS64(%d, %d) = %v, want %v", a, b, got, want)
			}
		}
	}

	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 10000; i++ {
		a, b := int64(r.Uint64()), int64(r.Uint64())
		want := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
		if got := bigS(MulS64(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("MulS64(%d, %d) = %v, want %v", a, b, got, want)
		}
	}
}

func TestMul128x64Low(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 10000; i++ {
		a, b := randU128(r), r.Uint64()
		want := new(big.Int).Mul(bigU(a), new(big.Int).SetUint64(b))
		want.Mod(want, two128)
		if got := bigU(MulU128x64(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("MulU128x64(%v, %d) = %v, want %v", a, b, got, want)
		}

		sa, sb := Int128(a), int64(b)
		swant := new(big.Int).Mul(bigS(sa), big.NewInt(sb))
		swant.Mod(swant, two128)
		sgot := bigU(Uint128(MulS128x64(sa, sb)))
		if sgot.Cmp(swant) != 0 {
			t.Fatalf("MulS128x64(%v, %d) = %v, want %v (mod 2^128)", sa, sb, sgot, swant)
		}
	}
}

// =============================================================================
// Division
// =============================================================================

func TestDivRemU128ZeroDivisor(t *testing.T) {
	_, _, _, err := DivRemU128(U64(10), 0)
	if !errors.Is(err, ErrDivideByZero) {
		t.Errorf("DivRemU128(10, 0) err = %v, want ErrDivideByZero", err)
	}
	_, _, _, err = DivRemS128(I64(10), 0)
	if !errors.Is(err, ErrDivideByZero) {
		t.Errorf("DivRemS128(10, 0) err = %v, want ErrDivideByZero", err)
	}
}

func TestDivRemU128RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 20000; i++ {
		a, b := r.Uint64(), r.Uint64()
		switch i % 3 {
		case 1:
			a >>= 33 // exercise the single-digit path
		case 2:
			a >>= r.UintN(63)
		}
		if a == 0 {
			a = 1
		}
		q, rem, wide, err := DivRemU128(MulU64(a, b), a)
		if err != nil {
			t.Fatalf("DivRemU128 err = %v", err)
		}
		if q != U64(b) || rem != 0 || wide {
			t.Fatalf("DivRemU128(%d*%d, %d) = (%v, %d, %v), want (%d, 0, false)", a, b, a, q, rem, wide, b)
		}
	}
}

func TestDivRemU128MatchesBig(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 20000; i++ {
		n := randU128(r)
		d := r.Uint64() >> r.UintN(64)
		if d == 0 {
			d = 3
		}
		q, rem, wide, err := DivRemU128(n, d)
		if err != nil {
			t.Fatalf("DivRemU128 err = %v", err)
		}
		wq, wr := new(big.Int).QuoRem(bigU(n), new(big.Int).SetUint64(d), new(big.Int))
		if bigU(q).Cmp(wq) != 0 || wr.Uint64() != rem {
			t.Fatalf("DivRemU128(%v, %d) = (%v, %d), want (%v, %v)", n, d, q, rem, wq, wr)
		}
		if wide != (q.Hi != 0) {
			t.Fatalf("DivRemU128(%v, %d) wide = %v, want %v", n, d, wide, q.Hi != 0)
		}
	}
}

func TestDivRemS128MatchesBig(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	for i := 0; i < 20000; i++ {
		n := Int128(randU128(r))
		if i%2 == 0 {
			n = MulS64(int64(r.Uint64())>>r.UintN(40), int64(r.Uint64())>>r.UintN(40))
		}
		d := int64(r.Uint64()) >> r.UintN(63)
		if d == 0 {
			d = -7
		}
		q, rem, wide, err := DivRemS128(n, d)
		if err != nil {
			t.Fatalf("DivRemS128 err = %v", err)
		}
		// big.Int.QuoRem truncates toward zero, the same as DivRemS128.
		wq, wr := new(big.Int).QuoRem(bigS(n), big.NewInt(d), new(big.Int))
		if bigS(q).Cmp(wq) != 0 || wr.Int64() != rem {
			t.Fatalf("DivRemS128(%v, %d) = (%v, %d), want (%v, %v)", bigS(n), d, bigS(q), rem, wq, wr)
		}
		if wide == wq.IsInt64() {
			t.Fatalf("DivRemS128(%v, %d) wide = %v, quotient %v", bigS(n), d, wide, wq)
		}
	}
}

func TestFloorDivRem(t *testing.T) {
	tests := []struct {
		n, d  int64
		q, r  int64
		isErr bool
	}{
		{7, 2, 3, 1, false},
		{-7, 2, -4, 1, false},
		{-8, 2, -4, 0, false},
		{0, 5, 0, 0, false},
		{-1, 1 << 40, -1, 1<<40 - 1, false},
		{1, 0, 0, 0, true},
		{1, -3, 0, 0, true},
	}
	for _, tt := range tests {
		q, r, _, err := FloorDivRem(I64(tt.n), tt.d)
		if tt.isErr {
			if err == nil {
				t.Errorf("FloorDivRem(%d, %d) err = nil, want error", tt.n, tt.d)
			}
			continue
		}
		if err != nil || q.Low64() != tt.q || r != tt.r {
			t.Errorf("FloorDivRem(%d, %d) = (%d, %d, %v), want (%d, %d)", tt.n, tt.d, q.Low64(), r, err, tt.q, tt.r)
		}
	}
}

func TestInt128Helpers(t *testing.T) {
	if !I64(-5).IsNeg() || I64(5).IsNeg() {
		t.Error("IsNeg sign mismatch")
	}
	if I64(0).Sign() != 0 || I64(-3).Sign() != -1 || I64(3).Sign() != 1 {
		t.Error("Sign mismatch")
	}
	if got := I64(-5).Abs(); got != U64(5) {
		t.Errorf("Abs(-5) = %v, want 5", got)
	}
	if !I64(math.MinInt64).FitsInt64() || MulS64(math.MaxInt64, 4).FitsInt64() {
		t.Error("FitsInt64 mismatch")
	}
	if got := MulS64(-3, 1<<62).Float64(); got != -3*float64(1<<62) {
		t.Errorf("Float64() = %v, want %v", got, -3*float64(1<<62))
	}
}
