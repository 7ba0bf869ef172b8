// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prime

import (
	"io"

	"github.com/vibhav950/Xrand/bignum"
)

// GenerateProbablePrime samples a uniformly random nbits-bit odd candidate
// and searches forward from it for a probable prime (Handbook of Applied
// Cryptography, Algorithm 4.44), drawing all randomness from rng. If safe
// is true, the search additionally requires (result-1)/2 to be probably
// prime, suitable for Diffie-Hellman parameter generation.
func GenerateProbablePrime(nbits int, safe bool, rng io.Reader) (*bignum.Int, error) {
	if nbits < 32 {
		return nil, ErrBitSizeTooSmall
	}

	t := millerRabinRounds(nbits)

	for {
		x, err := randomOddCandidate(rng, nbits)
		if err != nil {
			return nil, err
		}

		var result *bignum.Int
		if safe {
			result, err = generateSafeFrom(x, nbits, t, rng)
		} else {
			result, err = generateOrdinaryFrom(x, nbits, t, rng)
		}
		if err != nil {
			return nil, err
		}

		// The search advances the candidate by a fixed step each round; a
		// carry out of the top bit (or, for small nbits, a chain of them)
		// can drift the final bit length away from nbits. Start over with
		// a fresh candidate rather than return an under- or over-sized
		// result.
		if result.BitLen() == nbits {
			return result, nil
		}
	}
}

// randomOddCandidate draws an nbits-bit random odd integer from rng.
func randomOddCandidate(rng io.Reader, nbits int) (*bignum.Int, error) {
	buf := make([]byte, (nbits+7)/8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, ErrEntropySource
	}

	x := bignum.New().SetBytes(buf)
	blen := x.BitLen()
	switch {
	case blen < nbits:
		x.Lsh(x, uint(nbits-blen))
	case blen > nbits:
		x.Rsh(x, uint(blen-nbits))
	}
	if x.Bit(0) == 0 {
		x.Add(x, bignum.NewFromUint64(1))
	}
	return x, nil
}

// generateOrdinaryFrom searches forward from x in steps of 2, trial-dividing
// each candidate against the small-prime table before running Miller-Rabin,
// until IsProbablePrime accepts it.
func generateOrdinaryFrom(x *bignum.Int, nbits, t int, rng io.Reader) (*bignum.Int, error) {
	two := bignum.NewFromUint64(2)
	trials := numTrialDivisions(nbits)
	for {
		if !passesTrialDivisionSingle(x, trials) {
			x.Add(x, two)
			continue
		}

		ok, err := IsProbablePrime(x, t, rng)
		if err != nil {
			return nil, err
		}
		if ok {
			return x, nil
		}
		x.Add(x, two)
	}
}

// generateSafeFrom searches forward from x (adjusted so x = 3 mod 4 and
// x = 2 mod 3, a necessary condition for x and y = (x-1)/2 to both be
// prime) in steps of 12 for x and 6 for y, trial-dividing against the
// small-prime table before each Miller-Rabin pair.
func generateSafeFrom(x *bignum.Int, nbits, t int, rng io.Reader) (*bignum.Int, error) {
	two := bignum.NewFromUint64(2)
	three := bignum.NewFromUint64(3)
	four := bignum.NewFromUint64(4)
	six := bignum.NewFromUint64(6)
	eight := bignum.NewFromUint64(8)
	twelve := bignum.NewFromUint64(12)

	if x.Bit(1) == 0 {
		x.Add(x, two)
	}

	switch r := bignum.New().Mod(x, three); {
	case r.Sign() == 0:
		x.Add(x, eight)
	case r.Cmp(bignum.NewFromUint64(1)) == 0:
		x.Add(x, four)
	}

	y := bignum.New().Rsh(x, 1)

	trials := numTrialDivisions(nbits)

	for {
		if !passesTrialDivision(x, y, trials) {
			x.Add(x, twelve)
			y.Add(y, six)
			continue
		}

		xPrime, err := IsProbablePrime(x, t, rng)
		if err != nil {
			return nil, err
		}
		if xPrime {
			yPrime, err := IsProbablePrime(y, t, rng)
			if err != nil {
				return nil, err
			}
			if yPrime {
				return x, nil
			}
		}

		x.Add(x, twelve)
		y.Add(y, six)
	}
}

// passesTrialDivision reports whether neither x nor y is divisible by any
// of the first trials small primes.
func passesTrialDivision(x, y *bignum.Int, trials int) bool {
	return passesTrialDivisionSingle(x, trials) && passesTrialDivisionSingle(y, trials)
}

// passesTrialDivisionSingle reports whether x is divisible by none of the
// first trials small primes, stopping early once x no longer exceeds the
// prime under test.
func passesTrialDivisionSingle(x *bignum.Int, trials int) bool {
	for i := 0; i < trials; i++ {
		p := smallPrimesBN[i]
		if x.Cmp(p) <= 0 {
			break
		}
		if bignum.New().Mod(x, p).Sign() == 0 {
			return false
		}
	}
	return true
}
