// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// GCD sets z = gcd(|x|, |y|) using the binary GCD algorithm (Stein's
// algorithm) and returns z. GCD(0, 0) = 0; GCD(x, 0) = |x|.
func (z *Int) GCD(x, y *Int) *Int {
	a := New().Abs(x)
	b := New().Abs(y)

	if a.isZero() {
		z.Set(b)
		return z
	}
	if b.isZero() {
		z.Set(a)
		return z
	}

	shift := uint(0)
	for a.Bit(0) == 0 && b.Bit(0) == 0 {
		a.Rsh(a, 1)
		b.Rsh(b, 1)
		shift++
	}

	for a.Bit(0) == 0 {
		a.Rsh(a, 1)
	}

	for !b.isZero() {
		for b.Bit(0) == 0 {
			b.Rsh(b, 1)
		}
		if a.CmpAbs(b) > 0 {
			a, b = b, a
		}
		b.Sub(b, a)
	}

	z.Set(a)
	z.Lsh(z, shift)
	return z
}

// ModInverse sets z to the multiplicative inverse of x modulo n, using the
// extended Euclidean algorithm, and returns (z, true) if gcd(x, n) == 1.
// If gcd(x, n) != 1, no inverse exists and ModInverse returns (z, false)
// with z left unspecified.
func (z *Int) ModInverse(x, n *Int) (*Int, bool) {
	if n.Sign() <= 0 {
		return z, false
	}

	// Extended Euclidean algorithm on (x mod n, n).
	r0 := New().Mod(x, n)
	r1 := New().Set(n)
	s0 := NewFromUint64(1)
	s1 := New()

	for !r1.isZero() {
		var q, r Int
		q.QuoRem(r0, r1, &r)

		t := New().Mul(&q, s1)
		t.Sub(s0, t)

		r0, r1 = r1, &r
		s0, s1 = s1, t
	}

	if r0.CmpAbs(NewFromUint64(1)) != 0 {
		return z, false
	}

	z.Mod(s0, n)
	return z, true
}
