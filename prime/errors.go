// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prime

import "errors"

var (
	// ErrBitSizeTooSmall is returned when a candidate or target bit length
	// is below the minimum this package will test or generate: IsProbablePrime
	// returns it for candidates below 3, the generators for bit sizes below 32.
	ErrBitSizeTooSmall = errors.New("prime: candidate below 3 or bit size below 32 bits")

	// ErrEntropySource is returned when the caller-supplied random reader
	// fails to fill a requested buffer.
	ErrEntropySource = errors.New("prime: entropy source failed")
)
