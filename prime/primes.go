// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prime

import "github.com/vibhav950/Xrand/bignum"

// smallPrimeCount is the size of the trial-division sieve: the largest
// table numTrialDivisions can request.
const smallPrimeCount = 1024

// smallPrimes holds the first smallPrimeCount odd primes (2 is omitted
// since every candidate tested here is already forced odd), computed once
// at package initialization by a simple sieve rather than hand-transcribed
// as a literal table.
var smallPrimes = sieveSmallPrimes(smallPrimeCount)

// smallPrimesBN is smallPrimes pre-converted to bignum.Int, so the trial
// division loop in passesTrialDivisionSingle (used by both the ordinary and
// the safe-prime search) doesn't re-allocate one per candidate per small
// prime.
var smallPrimesBN = bignumifyPrimes(smallPrimes)

func bignumifyPrimes(ps []uint32) []*bignum.Int {
	out := make([]*bignum.Int, len(ps))
	for i, p := range ps {
		out[i] = bignum.NewFromUint64(uint64(p))
	}
	return out
}

// sieveSmallPrimes returns the first n odd primes via trial division
// against primes already found, testing successive odd candidates from 3
// until n are collected.
func sieveSmallPrimes(n int) []uint32 {
	out := make([]uint32, 0, n)
	for candidate := uint32(3); len(out) < n; candidate += 2 {
		isPrime := true
		for _, p := range out {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			out = append(out, candidate)
		}
	}
	return out
}

// numTrialDivisions reports how many entries of smallPrimes to trial-divide
// a candidate of the given bit length against before running Miller-Rabin,
// following the classic trial-division-before-Miller-Rabin sizing table.
func numTrialDivisions(nbits int) int {
	switch {
	case nbits <= 512:
		return 128
	case nbits <= 1024:
		return 256
	case nbits <= 2048:
		return 512
	default:
		return smallPrimeCount
	}
}

// millerRabinRounds reports the number of Miller-Rabin rounds needed for a
// false-positive rate of 2^-80 at the given bit length (Handbook of Applied
// Cryptography, Table 4.4).
func millerRabinRounds(nbits int) int {
	switch {
	case nbits >= 1300:
		return 2
	case nbits >= 850:
		return 3
	case nbits >= 550:
		return 5
	case nbits >= 350:
		return 8
	case nbits >= 250:
		return 12
	case nbits >= 150:
		return 18
	default:
		return 27
	}
}
