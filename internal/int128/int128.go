// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package int128 implements the exact 128-bit integer arithmetic used by the
// triangle rasterizer's depth interpolation setup.
//
// Values are (Hi, Lo) pairs of native 64-bit words. Uint128 is unsigned,
// Int128 holds the same bits interpreted as two's complement. Addition,
// subtraction and truncating multiplication are defined modulo 2^128 and are
// total functions. Division is the only operation that can fail, and only for
// a zero divisor.
package int128

import (
	"errors"
	"math"
	"math/bits"
)

// ErrDivideByZero is returned by the division routines for a zero divisor.
var ErrDivideByZero = errors.New("int128: division by zero")

// ErrNegativeDivisor is returned by FloorDivRem for a negative divisor.
var ErrNegativeDivisor = errors.New("int128: negative divisor")

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi, Lo uint64
}

// U64 widens v to 128 bits.
func U64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// I64 sign-extends v to 128 bits.
func I64(v int64) Int128 {
	return Int128{Hi: uint64(v >> 63), Lo: uint64(v)}
}

// Add returns a+b mod 2^128.
func Add(a, b Uint128) Uint128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, _ := bits.Add64(a.Hi, b.Hi, carry)
	return Uint128{Hi: hi, Lo: lo}
}

// Sub returns a-b mod 2^128.
func Sub(a, b Uint128) Uint128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, _ := bits.Sub64(a.Hi, b.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

// MulU64 returns the full 128-bit product of a and b.
func MulU64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{Hi: hi, Lo: lo}
}

// MulS64 returns the full 128-bit signed product of a and b.
func MulS64(a, b int64) Int128 {
	p := MulU64(abs64(a), abs64(b))
	if (a < 0) != (b < 0) {
		return Int128(p).Neg()
	}
	return Int128(p)
}

// MulU128x64 returns the low 128 bits of a*b.
func MulU128x64(a Uint128, b uint64) Uint128 {
	hi, lo := bits.Mul64(a.Lo, b)
	hi += a.Hi * b
	return Uint128{Hi: hi, Lo: lo}
}

// MulS128x64 returns the low 128 bits of the signed product a*b.
func MulS128x64(a Int128, b int64) Int128 {
	p := MulU128x64(a.Abs(), abs64(b))
	if a.IsNeg() != (b < 0) {
		return Int128(p).Neg()
	}
	return Int128(p)
}

// IsZero reports whether u == 0.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp compares u and v and returns -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Float64 returns the nearest float64 to u.
func (u Uint128) Float64() float64 {
	return float64(u.Hi)*(1<<64) + float64(u.Lo)
}

// Add returns a+b mod 2^128.
func (a Int128) Add(b Int128) Int128 {
	return Int128(Add(Uint128(a), Uint128(b)))
}

// Sub returns a-b mod 2^128.
func (a Int128) Sub(b Int128) Int128 {
	return Int128(Sub(Uint128(a), Uint128(b)))
}

// Neg returns -a mod 2^128.
func (a Int128) Neg() Int128 {
	return Int128(Sub(Uint128{}, Uint128(a)))
}

// IsNeg reports whether a < 0.
func (a Int128) IsNeg() bool {
	return int64(a.Hi) < 0
}

// Sign returns -1, 0 or +1.
func (a Int128) Sign() int {
	switch {
	case a.IsNeg():
		return -1
	case a.Hi == 0 && a.Lo == 0:
		return 0
	}
	return 1
}

// Abs returns |a| as an unsigned value. The magnitude of -2^127 is 2^127.
func (a Int128) Abs() Uint128 {
	if a.IsNeg() {
		return Uint128(a.Neg())
	}
	return Uint128(a)
}

// Low64 returns the low 64 bits of a as a signed value.
func (a Int128) Low64() int64 {
	return int64(a.Lo)
}

// FitsInt64 reports whether a is representable as an int64.
func (a Int128) FitsInt64() bool {
	return a.Hi == uint64(int64(a.Lo)>>63)
}

// Float64 returns the nearest float64 to a.
func (a Int128) Float64() float64 {
	if a.IsNeg() {
		return -a.Abs().Float64()
	}
	return Uint128(a).Float64()
}

func abs64(v int64) uint64 {
	if v < 0 {
		return -uint64(v)
	}
	return uint64(v)
}

// fitsMagnitude reports whether a quotient with magnitude m and the given
// sign fits an int64.
func fitsMagnitude(m Uint128, neg bool) bool {
	if m.Hi != 0 {
		return false
	}
	if neg {
		return m.Lo <= 1<<63
	}
	return m.Lo <= math.MaxInt64
}
