// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// addAbsInto computes x+y over absolute magnitudes into dst, returning the
// resulting trimmed slice. dst may alias x or y's backing array only if the
// caller has already grown it to the required length.
func addAbsInto(dst []uint32, x, y []uint32) []uint32 {
	if len(x) < len(y) {
		x, y = y, x
	}
	n := len(x)
	if cap(dst) < n+1 {
		dst = make([]uint32, n+1)
	} else {
		dst = dst[:n+1]
	}

	var carry uint64
	for i := 0; i < n; i++ {
		var yi uint64
		if i < len(y) {
			yi = uint64(y[i])
		}
		sum := uint64(x[i]) + yi + carry
		dst[i] = uint32(sum)
		carry = sum >> limbBits
	}
	dst[n] = uint32(carry)

	return trimSlice(dst)
}

// subAbsInto computes x-y over absolute magnitudes into dst, assuming
// x >= y; returns the resulting trimmed slice.
func subAbsInto(dst []uint32, x, y []uint32) []uint32 {
	n := len(x)
	if cap(dst) < n {
		dst = make([]uint32, n)
	} else {
		dst = dst[:n]
	}

	var borrow int64
	for i := 0; i < n; i++ {
		var yi int64
		if i < len(y) {
			yi = int64(y[i])
		}
		d := int64(x[i]) - yi - borrow
		if d < 0 {
			d += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		dst[i] = uint32(d)
	}

	return trimSlice(dst)
}

func trimSlice(s []uint32) []uint32 {
	n := len(s)
	for n > 0 && s[n-1] == 0 {
		n--
	}
	return s[:n]
}

// Add sets z = x + y and returns z.
func (z *Int) Add(x, y *Int) *Int {
	switch {
	case x.neg == y.neg:
		z.limbs = addAbsInto(nil, x.limbs, y.limbs)
		z.neg = x.neg && len(z.limbs) > 0
	case cmpAbs(x.limbs, y.limbs) >= 0:
		z.limbs = subAbsInto(nil, x.limbs, y.limbs)
		z.neg = x.neg && len(z.limbs) > 0
	default:
		z.limbs = subAbsInto(nil, y.limbs, x.limbs)
		z.neg = y.neg && len(z.limbs) > 0
	}
	return z
}

// Sub sets z = x - y and returns z.
func (z *Int) Sub(x, y *Int) *Int {
	negY := New().Neg(y)
	return z.Add(x, negY)
}

// Neg sets z = -x and returns z.
func (z *Int) Neg(x *Int) *Int {
	z.limbs = append(z.limbs[:0], x.limbs...)
	z.neg = !x.neg && len(z.limbs) > 0
	return z
}

// Abs sets z = |x| and returns z.
func (z *Int) Abs(x *Int) *Int {
	z.limbs = append(z.limbs[:0], x.limbs...)
	z.neg = false
	return z
}

// AddUint64 sets z = x + v and returns z.
func (z *Int) AddUint64(x *Int, v uint64) *Int {
	return z.Add(x, NewFromUint64(v))
}
