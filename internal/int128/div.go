// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package int128

import "math/bits"

const (
	digitBits = 32
	digitBase = 1 << digitBits
	digitMask = digitBase - 1
)

// DivRemU128 divides n by d and returns the 128-bit quotient and the
// remainder. wide reports whether the quotient needs more than 64 bits.
//
// The division is Knuth's Algorithm D over base 2^32 digits. Numerator and
// divisor are shifted left until the divisor's leading digit has its top bit
// set, which bounds every quotient digit estimate to at most two corrections.
func DivRemU128(n Uint128, d uint64) (q Uint128, r uint64, wide bool, err error) {
	if d == 0 {
		return Uint128{}, 0, false, ErrDivideByZero
	}
	if d < digitBase {
		q, r = divSmall(n, d)
		return q, r, q.Hi != 0, nil
	}

	s := uint(bits.LeadingZeros64(d))
	dn := d << s
	vn := [2]uint64{dn & digitMask, dn >> digitBits}

	hi := n.Hi<<s | n.Lo>>(64-s)
	lo := n.Lo << s
	top := n.Hi >> (64 - s)
	un := [5]uint64{lo & digitMask, lo >> digitBits, hi & digitMask, hi >> digitBits, top}

	var qd [3]uint64
	for j := 2; j >= 0; j-- {
		num := un[j+2]<<digitBits | un[j+1]
		qhat := num / vn[1]
		rhat := num % vn[1]
		for qhat >= digitBase || qhat*vn[0] > rhat<<digitBits|un[j] {
			qhat--
			rhat += vn[1]
			if rhat >= digitBase {
				break
			}
		}

		// Multiply and subtract qhat*v from the current window of un.
		var k, t int64
		for i := 0; i < 2; i++ {
			p := qhat * vn[i]
			t = int64(un[i+j]) - k - int64(p&digitMask)
			un[i+j] = uint64(t) & digitMask
			k = int64(p>>digitBits) - (t >> digitBits)
		}
		t = int64(un[j+2]) - k
		un[j+2] = uint64(t) & digitMask

		qd[j] = qhat
		if t < 0 {
			// Estimate was one too large: add v back.
			qd[j]--
			var c uint64
			for i := 0; i < 2; i++ {
				sum := un[i+j] + vn[i] + c
				un[i+j] = sum & digitMask
				c = sum >> digitBits
			}
			un[j+2] = (un[j+2] + c) & digitMask
		}
	}

	q = Uint128{Hi: qd[2], Lo: qd[1]<<digitBits | qd[0]}
	r = (un[1]<<digitBits | un[0]) >> s
	return q, r, q.Hi != 0, nil
}

// divSmall is short division by a single base 2^32 digit.
func divSmall(n Uint128, d uint64) (Uint128, uint64) {
	u := [4]uint64{n.Lo & digitMask, n.Lo >> digitBits, n.Hi & digitMask, n.Hi >> digitBits}
	var q [4]uint64
	var r uint64
	for i := 3; i >= 0; i-- {
		cur := r<<digitBits | u[i]
		q[i] = cur / d
		r = cur % d
	}
	return Uint128{Hi: q[3]<<digitBits | q[2], Lo: q[1]<<digitBits | q[0]}, r
}

// DivRemS128 divides n by d, truncating toward zero like Go's integer
// division. The remainder has the sign of n. wide reports whether the
// quotient does not fit an int64.
func DivRemS128(n Int128, d int64) (q Int128, r int64, wide bool, err error) {
	if d == 0 {
		return Int128{}, 0, false, ErrDivideByZero
	}
	qm, rm, _, err := DivRemU128(n.Abs(), abs64(d))
	if err != nil {
		return Int128{}, 0, false, err
	}
	neg := n.IsNeg() != (d < 0)
	wide = !fitsMagnitude(qm, neg)
	q = Int128(qm)
	if neg {
		q = q.Neg()
	}
	r = int64(rm)
	if n.IsNeg() {
		r = -r
	}
	return q, r, wide, nil
}

// FloorDivRem divides n by a positive d, rounding the quotient toward
// negative infinity so the remainder is always in [0, d).
func FloorDivRem(n Int128, d int64) (q Int128, r int64, wide bool, err error) {
	switch {
	case d == 0:
		return Int128{}, 0, false, ErrDivideByZero
	case d < 0:
		return Int128{}, 0, false, ErrNegativeDivisor
	}
	q, r, wide, err = DivRemS128(n, d)
	if err != nil {
		return q, r, wide, err
	}
	if r < 0 {
		q = q.Sub(I64(1))
		r += d
		wide = !q.FitsInt64()
	}
	return q, r, wide, nil
}
