// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// windowBitsFor reports the sliding-window width to use for an exponent of
// the given bit length: 6 above 671 bits, 5 above 239, 4 above 79, 3 above
// 23, else 1 (plain square-and-multiply). Each width precomputes
// 2^(width-1) odd powers of the base.
func windowBitsFor(expBitLen int) int {
	switch {
	case expBitLen > 671:
		return 6
	case expBitLen > 239:
		return 5
	case expBitLen > 79:
		return 4
	case expBitLen > 23:
		return 3
	default:
		return 1
	}
}

// montgomery holds the precomputed constants for Montgomery multiplication
// modulo an odd modulus: R = 2^(32*n) where n is the modulus's limb count.
type montgomery struct {
	mod   *Int
	n     int
	rBits uint
	nInv  *Int // -mod^-1 mod R
	rr    *Int // R^2 mod mod
}

// MontgomeryScratch caches a modulus's Montgomery setup, notably R^2 mod N,
// across repeated Exp calls against the same modulus (e.g. repeated
// Miller-Rabin witness exponentiations for one candidate). Passing the same
// scratch to ExpWithScratch across calls against the same m skips
// recomputing R^2 mod N each time; a zero-value MontgomeryScratch is ready
// to use.
type MontgomeryScratch struct {
	mod *Int
	ctx *montgomery
}

// forModulus returns ctx's Montgomery setup for mod, reusing s's cached
// setup when mod is unchanged from the previous call.
func (s *MontgomeryScratch) forModulus(mod *Int) *montgomery {
	if s.ctx != nil && s.mod != nil && s.mod.Cmp(mod) == 0 {
		return s.ctx
	}
	ctx := newMontgomery(mod)
	s.mod = New().Set(mod)
	s.ctx = ctx
	return ctx
}

func newMontgomery(mod *Int) *montgomery {
	n := len(mod.limbs)
	rBits := uint(n * limbBits)
	r := New().Lsh(NewFromUint64(1), rBits)

	modInv, ok := New().ModInverse(mod, r)
	if !ok {
		panic("bignum: Montgomery setup requires an odd modulus")
	}
	nInv := New().Sub(r, modInv)

	rr := New().Mod(r, mod)
	rr.Mul(rr, rr)
	rr.Mod(rr, mod)

	return &montgomery{mod: mod, n: n, rBits: rBits, nInv: nInv, rr: rr}
}

// lowLimbs returns a new Int holding only z's low n limbs, equivalent to
// z mod 2^(32*n). z must be non-negative.
func (z *Int) lowLimbs(n int) *Int {
	if len(z.limbs) <= n {
		return New().Set(z)
	}
	out := append([]uint32(nil), z.limbs[:n]...)
	return &Int{limbs: trimSlice(out)}
}

// redc computes the Montgomery reduction of t (0 <= t < mod*R): t*R^-1 mod
// mod, following the standard REDC construction.
func (ctx *montgomery) redc(t *Int) *Int {
	m := New().Mul(t, ctx.nInv).lowLimbs(ctx.n)

	u := New().Mul(m, ctx.mod)
	u.Add(u, t)
	u.Rsh(u, ctx.rBits)

	if u.Cmp(ctx.mod) >= 0 {
		u.Sub(u, ctx.mod)
	}
	return u
}

// toMont converts x (0 <= x < mod) into Montgomery form: x*R mod mod.
func (ctx *montgomery) toMont(x *Int) *Int {
	return ctx.redc(New().Mul(x, ctx.rr))
}

// extractBits returns the unsigned integer formed by bits [l, h] of x
// (inclusive, h >= l), with bit l as the least significant bit of the
// result.
func extractBits(x *Int, l, h int) int {
	v := 0
	for k := h; k >= l; k-- {
		v = v<<1 | int(x.Bit(k))
	}
	return v
}

// expMontgomerySliding computes base^exponent mod ctx.mod using a
// sliding-window Montgomery ladder (Handbook of Applied Cryptography,
// Algorithm 14.85), where base is already reduced mod ctx.mod and exponent
// is non-negative.
func expMontgomerySliding(base, exponent *Int, ctx *montgomery) *Int {
	oneM := ctx.toMont(NewFromUint64(1))
	if exponent.isZero() {
		return ctx.redc(oneM)
	}

	wbits := windowBitsFor(exponent.BitLen())

	baseM := ctx.toMont(base)
	numOdd := 1 << (wbits - 1)
	oddPowers := make([]*Int, numOdd)
	oddPowers[0] = baseM
	baseSquared := ctx.redc(New().Mul(baseM, baseM))
	for i := 1; i < numOdd; i++ {
		oddPowers[i] = ctx.redc(New().Mul(oddPowers[i-1], baseSquared))
	}

	result := New().Set(oneM)

	i := exponent.BitLen() - 1
	for i >= 0 {
		if exponent.Bit(i) == 0 {
			result = ctx.redc(New().Mul(result, result))
			i--
			continue
		}

		l := i - wbits + 1
		if l < 0 {
			l = 0
		}
		for exponent.Bit(l) == 0 {
			l++
		}

		for k := 0; k < i-l+1; k++ {
			result = ctx.redc(New().Mul(result, result))
		}

		windowVal := extractBits(exponent, l, i)
		result = ctx.redc(New().Mul(result, oddPowers[(windowVal-1)/2]))
		i = l - 1
	}

	return ctx.redc(result)
}

// expBinary computes base^exponent mod m by plain square-and-multiply, used
// when m is even (Montgomery reduction requires an odd modulus).
func expBinary(base, exponent, m *Int) *Int {
	result := NewFromUint64(1)
	if m.Cmp(NewFromUint64(1)) == 0 {
		return result.SetZero()
	}

	b := New().Mod(base, m)
	e := New().Set(exponent)
	bits := e.BitLen()
	for i := 0; i < bits; i++ {
		if e.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result
}

// Exp sets z = base^exponent mod m and returns z. exponent may be
// negative, in which case base must be invertible mod m. It panics if
// m <= 0.
func (z *Int) Exp(base, exponent, m *Int) *Int {
	return z.ExpWithScratch(base, exponent, m, nil)
}

// ExpWithScratch is Exp, but an odd modulus's Montgomery setup (notably
// R^2 mod N) is cached in scratch and reused across calls against the same
// m instead of recomputed every time. Pass nil for one-off exponentiations.
func (z *Int) ExpWithScratch(base, exponent, m *Int, scratch *MontgomeryScratch) *Int {
	if m.Sign() <= 0 {
		panic("bignum: modulus must be positive")
	}

	b := New().Mod(base, m)
	e := exponent
	if exponent.Sign() < 0 {
		inv, ok := New().ModInverse(b, m)
		if !ok {
			panic("bignum: base has no inverse mod m")
		}
		b = inv
		e = New().Neg(exponent)
	}

	if m.Bit(0) == 0 {
		z.Set(expBinary(b, e, m))
		return z
	}

	var ctx *montgomery
	if scratch != nil {
		ctx = scratch.forModulus(m)
	} else {
		ctx = newMontgomery(m)
	}
	z.Set(expMontgomerySliding(b, e, ctx))
	return z
}
