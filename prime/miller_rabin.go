// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package prime implements Miller-Rabin probabilistic primality testing and
// probable-prime generation (with an optional safe-prime constraint) over
// bignum.Int, driven by a caller-supplied random byte source such as one of
// this module's DRBG package-level Readers.
package prime

import (
	"fmt"
	"io"

	"github.com/vibhav950/Xrand/bignum"
)

// IsProbablePrime runs the Miller-Rabin test (FIPS 186-5 B.3.1) on w for
// iter rounds, drawing witness candidates from rng. It returns false for
// any w < 3 (ErrBitSizeTooSmall) or any even w, and true if w survives
// every round without a compositeness witness.
func IsProbablePrime(w *bignum.Int, iter int, rng io.Reader) (bool, error) {
	wlen := w.BitLen()
	if w.Cmp(bignum.NewFromUint64(3)) < 0 {
		return false, ErrBitSizeTooSmall
	}
	if w.Bit(0) == 0 {
		return false, nil
	}

	one := bignum.NewFromUint64(1)
	two := bignum.NewFromUint64(2)

	wMinus1 := bignum.New().Sub(w, one)

	// Find the largest a such that 2^a divides w-1; m := (w-1)/2^a.
	m := bignum.New().Set(wMinus1)
	a := 0
	for m.Bit(0) == 0 {
		a++
		m.Rsh(m, 1)
	}

	buf := make([]byte, (wlen+7)/8)

	// w is the modulus for every Exp call across all iter rounds; caching
	// its Montgomery setup (R^2 mod w) once here avoids recomputing it per
	// round.
	var scratch bignum.MontgomeryScratch

	for round := 0; round < iter; round++ {
		b, err := randomWitness(rng, buf, wlen, wMinus1, two)
		if err != nil {
			return false, err
		}

		z := bignum.New().ExpWithScratch(b, m, w, &scratch)
		if z.Cmp(one) == 0 || z.Cmp(wMinus1) == 0 {
			continue
		}

		composite := true
		for j := 1; j <= a-1; j++ {
			z.Mul(z, z)
			z.Mod(z, w)
			if z.Cmp(one) == 0 {
				return false, nil
			}
			if z.Cmp(wMinus1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false, nil
		}
	}

	return true, nil
}

// randomWitness draws a candidate witness b with bit length exactly wlen
// and 1 < b < wMinus1, re-drawing from rng until the bound is satisfied.
func randomWitness(rng io.Reader, buf []byte, wlen int, wMinus1, two *bignum.Int) (*bignum.Int, error) {
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
		}

		b := bignum.New().SetBytes(buf)
		blen := b.BitLen()
		switch {
		case blen < wlen:
			b.Lsh(b, uint(wlen-blen))
		case blen > wlen:
			b.Rsh(b, uint(blen-wlen))
		}
		if b.Bit(1) == 0 {
			b.Add(b, two)
		}

		if b.Cmp(wMinus1) < 0 {
			return b, nil
		}
	}
}
