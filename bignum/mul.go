// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// karatsubaThreshold is the operand length (in limbs) above which Mul
// switches from schoolbook to Karatsuba multiplication.
const karatsubaThreshold = 32

// schoolbookMulAbs computes the absolute-value product of x and y using
// the classic O(n*m) digit-by-digit algorithm.
func schoolbookMulAbs(x, y []uint32) []uint32 {
	if len(x) == 0 || len(y) == 0 {
		return nil
	}
	out := make([]uint32, len(x)+len(y))
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		var carry uint64
		for j, yj := range y {
			prod := uint64(xi)*uint64(yj) + uint64(out[i+j]) + carry
			out[i+j] = uint32(prod)
			carry = prod >> limbBits
		}
		k := i + len(y)
		for carry != 0 {
			sum := uint64(out[k]) + carry
			out[k] = uint32(sum)
			carry = sum >> limbBits
			k++
		}
	}
	return trimSlice(out)
}

// karatsubaMulAbs computes the absolute-value product of x and y using
// Karatsuba's divide-and-conquer algorithm, falling back to schoolbook
// multiplication below karatsubaThreshold limbs.
func karatsubaMulAbs(x, y []uint32) []uint32 {
	n := len(x)
	m := len(y)
	if n < karatsubaThreshold || m < karatsubaThreshold {
		return schoolbookMulAbs(x, y)
	}

	half := (maxOf(n, m) + 1) / 2

	x0, x1 := splitAt(x, half)
	y0, y1 := splitAt(y, half)

	z0 := karatsubaMulAbs(x0, y0)
	z2 := karatsubaMulAbs(x1, y1)

	sx := addAbsInto(nil, x0, x1)
	sy := addAbsInto(nil, y0, y1)
	z1 := karatsubaMulAbs(sx, sy)

	// z1 := z1 - z0 - z2 (z1 is guaranteed >= z0+z2 since all operands are
	// non-negative sums of sub-products).
	z1 = subAbsInto(nil, z1, z0)
	z1 = subAbsInto(nil, z1, z2)

	result := make([]uint32, 0, n+m)
	result = addShifted(result, z0, 0)
	result = addShifted(result, z1, half)
	result = addShifted(result, z2, 2*half)
	return trimSlice(result)
}

// splitAt splits limb slice s into (low, high) at limb index k: low holds
// s[:k] (trimmed), high holds s[k:] (trimmed).
func splitAt(s []uint32, k int) (low, high []uint32) {
	if k > len(s) {
		k = len(s)
	}
	return trimSlice(s[:k]), trimSlice(s[k:])
}

// addShifted adds src, shifted left by shift limbs, into dst (growing dst
// as needed) and returns the updated dst.
func addShifted(dst []uint32, src []uint32, shift int) []uint32 {
	need := shift + len(src) + 1
	for len(dst) < need {
		dst = append(dst, 0)
	}
	var carry uint64
	i := 0
	for ; i < len(src); i++ {
		sum := uint64(dst[shift+i]) + uint64(src[i]) + carry
		dst[shift+i] = uint32(sum)
		carry = sum >> limbBits
	}
	for carry != 0 {
		sum := uint64(dst[shift+i]) + carry
		dst[shift+i] = uint32(sum)
		carry = sum >> limbBits
		i++
	}
	return dst
}

// Mul sets z = x * y and returns z, choosing schoolbook or Karatsuba
// multiplication based on operand size.
func (z *Int) Mul(x, y *Int) *Int {
	z.limbs = karatsubaMulAbs(x.limbs, y.limbs)
	z.neg = (x.neg != y.neg) && len(z.limbs) > 0
	return z
}

// MulUint64 sets z = x * v and returns z.
func (z *Int) MulUint64(x *Int, v uint64) *Int {
	return z.Mul(x, NewFromUint64(v))
}
