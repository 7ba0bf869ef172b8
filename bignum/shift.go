// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// Lsh sets z = x << n and returns z.
func (z *Int) Lsh(x *Int, n uint) *Int {
	if x.isZero() || n == 0 {
		z.Set(x)
		return z
	}
	limbShift := int(n / limbBits)
	bitShift := n % limbBits

	src := x.limbs
	out := make([]uint32, len(src)+limbShift+1)

	shifted := shlLimbs(src, bitShift, len(src)+1)
	copy(out[limbShift:], shifted)

	z.limbs = trimSlice(out)
	z.neg = x.neg
	return z
}

// Rsh sets z = x >> n (arithmetic shift toward zero on the magnitude,
// i.e. floor division by 2^n applied to the magnitude only) and returns z.
func (z *Int) Rsh(x *Int, n uint) *Int {
	if x.isZero() || n == 0 {
		z.Set(x)
		return z
	}
	limbShift := int(n / limbBits)
	bitShift := n % limbBits

	src := x.limbs
	if limbShift >= len(src) {
		z.SetZero()
		return z
	}
	src = src[limbShift:]

	out := shrLimbs(src, bitShift)
	z.limbs = trimSlice(out)
	z.neg = x.neg && len(z.limbs) > 0
	return z
}
