// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

import (
	"fmt"
	"strings"
)

const digits = "0123456789abcdef"

// SetString parses s in the given base (2..16), with an optional leading
// '-' or '+' sign, and sets z to the parsed value. It returns (z, true) on
// success, or (nil, false) if s contains no digits or an invalid digit for
// the base.
func (z *Int) SetString(s string, base int) (*Int, bool) {
	if base < 2 || base > 16 {
		return nil, false
	}

	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return nil, false
	}

	z.SetZero()
	radix := NewFromUint64(uint64(base))
	digit := New()
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'a' && c <= 'f':
			v = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = int(c-'A') + 10
		default:
			return nil, false
		}
		if v >= base {
			return nil, false
		}
		z.Mul(z, radix)
		z.Add(z, digit.SetUint64(uint64(v)))
	}
	z.neg = neg && !z.isZero()
	return z, true
}

// Text returns the base-b (2..16) string representation of z, with a
// leading '-' for negative values. base outside [2,16] returns an error.
func (z *Int) Text(base int) (string, error) {
	if base < 2 || base > 16 {
		return "", fmt.Errorf("bignum: unsupported base %d", base)
	}
	if z.isZero() {
		return "0", nil
	}

	var sb strings.Builder
	if z.neg {
		sb.WriteByte('-')
	}

	tmp := New().Abs(z)
	radix := NewFromUint64(uint64(base))
	var digitsRev []byte
	rem := New()
	for !tmp.isZero() {
		tmp.QuoRem(tmp, radix, rem)
		digitsRev = append(digitsRev, digits[rem.limbOrZero()])
	}
	for i := len(digitsRev) - 1; i >= 0; i-- {
		sb.WriteByte(digitsRev[i])
	}
	return sb.String(), nil
}

// limbOrZero returns z's value as a small uint32, assuming z fits in one
// limb (used internally by Text for single-digit remainders).
func (z *Int) limbOrZero() uint32 {
	if len(z.limbs) == 0 {
		return 0
	}
	return z.limbs[0]
}
