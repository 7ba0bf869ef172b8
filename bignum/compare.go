// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

// cmpAbs compares the absolute magnitudes represented by two trimmed limb
// slices: -1 if x<y, 0 if equal, +1 if x>y.
func cmpAbs(x, y []uint32) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CmpAbs compares |z| to |y|: -1, 0, or +1.
func (z *Int) CmpAbs(y *Int) int { return cmpAbs(z.limbs, y.limbs) }

// Cmp compares z to y: -1, 0, or +1.
func (z *Int) Cmp(y *Int) int {
	zz, zs := z.isZero(), z.neg
	yz, ys := y.isZero(), y.neg
	switch {
	case zz && yz:
		return 0
	case zz:
		if ys {
			return 1
		}
		return -1
	case yz:
		if zs {
			return -1
		}
		return 1
	case zs != ys:
		if zs {
			return -1
		}
		return 1
	}
	c := cmpAbs(z.limbs, y.limbs)
	if zs {
		return -c
	}
	return c
}

// Equal reports whether z == y.
func (z *Int) Equal(y *Int) bool { return z.Cmp(y) == 0 }
