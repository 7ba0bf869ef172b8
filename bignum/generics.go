// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

import "golang.org/x/exp/constraints"

// maxOf returns the larger of a and b, used where limb counts are compared
// during Karatsuba splitting.
func maxOf[T constraints.Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}
