// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrdrbg implements the NIST SP 800-90A §10.2.1 AES-256 CTR_DRBG
// construction without a derivation function, following the pool-backed,
// atomically-rekeyed io.Reader shape of sixafter/nanoid's
// x/crypto/ctrdrbg package. DRBG carries the exact instantiate/reseed/
// generate/uninstantiate state machine required for CAVS conformance;
// Reader (in reader.go) wraps a pool of DRBG instances the same way that
// package wraps AES-CTR keystreams, for callers that just want an io.Reader.
package ctrdrbg

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/vibhav950/Xrand/drbg"
)

const (
	// KeyLen is the AES-256 key size in bytes.
	KeyLen = 32
	// OutLen is the AES block size in bytes.
	OutLen = 16
	// SeedLen is K||V's combined length, the unit entropy/additional-input
	// material is zero-padded or truncated to.
	SeedLen = KeyLen + OutLen

	// MaxBytesPerRequest bounds a single Generate call to 2^16 bytes.
	MaxBytesPerRequest = 1 << 16
	// MaxReseedInterval bounds reseed_counter before Generate must fail
	// with ErrReseedRequired, at 2^48 generate calls.
	MaxReseedInterval = uint64(1) << 48
)

// DRBG is a NIST SP 800-90A AES-256 CTR_DRBG instance (no derivation
// function). It is not safe for concurrent use; each consumer owns and
// synchronizes its own instance independently.
type DRBG struct {
	k             [KeyLen]byte
	v             [OutLen]byte
	reseedCounter uint64
	state         drbg.State
}

var _ drbg.Interface = (*DRBG)(nil)

// New returns an uninstantiated CTR_DRBG.
func New() *DRBG { return &DRBG{} }

// Instantiate seeds the DRBG: K := 0^32, V := 0^16,
// seed := entropy XOR personalization (zero-padded to SeedLen), update(seed),
// reseed_counter := 1. entropy must be exactly SeedLen bytes.
func (d *DRBG) Instantiate(entropy, _ /* nonce: unused by CTR_DRBG */, personalization []byte) error {
	if len(entropy) != SeedLen {
		return fmt.Errorf("%w: entropy must be %d bytes, got %d", drbg.ErrBadArguments, SeedLen, len(entropy))
	}

	var seed [SeedLen]byte
	copy(seed[:], entropy)
	xorIn(seed[:], personalization)

	d.k = [KeyLen]byte{}
	d.v = [OutLen]byte{}
	if err := d.update(seed[:]); err != nil {
		return err
	}
	d.reseedCounter = 1
	d.state = drbg.StateOperational
	return nil
}

// Reseed XORs additionalInput into entropy (seedlen-bounded) and calls
// update on the result, resetting reseed_counter to 1.
func (d *DRBG) Reseed(entropy, additionalInput []byte) error {
	if d.state != drbg.StateOperational {
		return drbg.ErrNotInitialized
	}
	if len(entropy) != SeedLen {
		return fmt.Errorf("%w: entropy must be %d bytes, got %d", drbg.ErrBadArguments, SeedLen, len(entropy))
	}

	var seed [SeedLen]byte
	copy(seed[:], entropy)
	xorIn(seed[:], additionalInput)

	if err := d.update(seed[:]); err != nil {
		return err
	}
	d.reseedCounter = 1
	return nil
}

// Generate produces len(out) bytes. Preconditions: len <=
// 2^16, |ai| <= SeedLen, reseed_counter <= 2^48; if ai is present, update(ai)
// is applied first; blocks are produced by incrementing V and encrypting;
// finally update(ai) runs again for backtracking resistance, and
// reseed_counter is incremented.
func (d *DRBG) Generate(out []byte, additionalInput []byte) error {
	if d.state != drbg.StateOperational {
		return drbg.ErrNotInitialized
	}
	if out == nil {
		return drbg.ErrNullInput
	}
	if len(out) > MaxBytesPerRequest {
		return fmt.Errorf("%w: requested %d bytes exceeds max %d", drbg.ErrBadArguments, len(out), MaxBytesPerRequest)
	}
	if len(additionalInput) > SeedLen {
		return fmt.Errorf("%w: additional input exceeds %d bytes", drbg.ErrBadArguments, SeedLen)
	}
	if d.reseedCounter > MaxReseedInterval {
		return drbg.ErrReseedRequired
	}

	if len(additionalInput) > 0 {
		if err := d.update(additionalInput); err != nil {
			return err
		}
	}

	block, err := aes.NewCipher(d.k[:])
	if err != nil {
		return fmt.Errorf("%w: %v", drbg.ErrInternalFailure, err)
	}

	produced := 0
	var tmp [OutLen]byte
	for produced < len(out) {
		incLowWord(&d.v)
		block.Encrypt(tmp[:], d.v[:])
		n := copy(out[produced:], tmp[:])
		produced += n
	}

	if err := d.update(additionalInput); err != nil {
		return err
	}
	d.reseedCounter++
	return nil
}

// Uninstantiate wipes K, V, and the reseed counter.
func (d *DRBG) Uninstantiate() {
	d.k = [KeyLen]byte{}
	d.v = [OutLen]byte{}
	d.reseedCounter = 0
	d.state = drbg.StateUninstantiated
}

// update implements the CTR_DRBG update step update(data[<=48]): with the current K
// expanded, three output blocks are produced by incrementing the low
// 32-bit word of V and encrypting V before each block read, concatenated
// into a 48-byte temp; data is XORed into temp's first len(data) bytes;
// K := temp[0:32], V := temp[32:48].
func (d *DRBG) update(data []byte) error {
	if len(data) > SeedLen {
		return fmt.Errorf("%w: update input exceeds %d bytes", drbg.ErrBadArguments, SeedLen)
	}

	block, err := aes.NewCipher(d.k[:])
	if err != nil {
		return fmt.Errorf("%w: %v", drbg.ErrInternalFailure, err)
	}

	var temp [SeedLen]byte
	for off := 0; off < SeedLen; off += OutLen {
		incLowWord(&d.v)
		block.Encrypt(temp[off:off+OutLen], d.v[:])
	}
	xorIn(temp[:], data)

	copy(d.k[:], temp[:KeyLen])
	copy(d.v[:], temp[KeyLen:])
	return nil
}

// incLowWord increments the low 32-bit word of a 16-byte counter, treated
// big-endian, modulo 2^32. This is deliberately not a full 128-bit
// increment: SP 800-90A's CTR_DRBG increments only the counter's low
// word.
func incLowWord(v *[OutLen]byte) {
	ctr := binary.BigEndian.Uint32(v[12:16])
	ctr++
	binary.BigEndian.PutUint32(v[12:16], ctr)
}

// xorIn XORs src into the first len(src) bytes of dst (zero-extending src
// is implicit: bytes of dst beyond len(src) are left untouched).
func xorIn(dst, src []byte) {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}
