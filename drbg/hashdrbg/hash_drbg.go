// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hashdrbg implements the NIST SP 800-90A §10.1.1 SHA-512 Hash_DRBG
// construction, in the style of sixafter/nanoid's pool-backed DRBG
// packages: a pure core (DRBG) plus, elsewhere in this module, the same
// consumer-facing shape as ctrdrbg and hmacdrbg.
package hashdrbg

import (
	"crypto/sha512"
	"fmt"

	"github.com/vibhav950/Xrand/drbg"
)

const (
	// SeedLen is the Hash_DRBG seed length for SHA-512, per SP 800-90A
	// Table 2.
	SeedLen = 111

	// outLen is the SHA-512 digest size in bytes.
	outLen = 64

	// maxHashDfOutLen bounds Hash_df's outlen parameter: requests above
	// 255*64 bytes are rejected.
	maxHashDfOutLen = 255 * outLen

	// MaxBytesPerRequest bounds a single Generate call, per SP 800-90A
	// Table 2 for SHA-512 (2^19 bits = 2^16 bytes).
	MaxBytesPerRequest = 1 << 16

	// MaxReseedInterval bounds reseed_counter before Generate must fail
	// with ErrReseedRequired, per SP 800-90A Table 2.
	MaxReseedInterval = uint64(1) << 48
)

// DRBG is a NIST SP 800-90A SHA-512 Hash_DRBG instance. It is not safe for
// concurrent use; each consumer owns and synchronizes its own instance
// independently.
type DRBG struct {
	v             [SeedLen]byte
	c             [SeedLen]byte
	reseedCounter uint64
	state         drbg.State
}

var _ drbg.Interface = (*DRBG)(nil)

// New returns an uninstantiated Hash_DRBG.
func New() *DRBG { return &DRBG{} }

// Instantiate sets V := Hash_df(entropy||nonce||pers, SeedLen),
// C := Hash_df(0x00||V, SeedLen), reseed_counter := 1.
func (d *DRBG) Instantiate(entropy, nonce, personalization []byte) error {
	if len(entropy) == 0 {
		return fmt.Errorf("%w: empty entropy", drbg.ErrBadArguments)
	}

	seedMaterial := concat(entropy, nonce, personalization)
	v, err := hashDf(seedMaterial, SeedLen)
	if err != nil {
		return err
	}
	c, err := hashDf(concat([]byte{0x00}, v), SeedLen)
	if err != nil {
		return err
	}

	copy(d.v[:], v)
	copy(d.c[:], c)
	d.reseedCounter = 1
	d.state = drbg.StateOperational
	return nil
}

// Reseed sets V := Hash_df(0x01||V||entropy||ai, SeedLen),
// C := Hash_df(0x00||V, SeedLen), reseed_counter := 1.
func (d *DRBG) Reseed(entropy, additionalInput []byte) error {
	if d.state != drbg.StateOperational {
		return drbg.ErrNotInitialized
	}
	if len(entropy) == 0 {
		return fmt.Errorf("%w: empty entropy", drbg.ErrBadArguments)
	}

	seedMaterial := concat([]byte{0x01}, d.v[:], entropy, additionalInput)
	v, err := hashDf(seedMaterial, SeedLen)
	if err != nil {
		return err
	}
	c, err := hashDf(concat([]byte{0x00}, v), SeedLen)
	if err != nil {
		return err
	}

	copy(d.v[:], v)
	copy(d.c[:], c)
	d.reseedCounter = 1
	return nil
}

// Generate produces output: if ai is non-empty,
// w := SHA-512(0x02||V||ai), V := (V+w) mod 2^888; hashgen produces len(out)
// bytes into out; then H := SHA-512(0x03||V), V := (V+H+C+reseed_counter)
// mod 2^888; reseed_counter += 1.
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
	if d.reseedCounter > MaxReseedInterval {
		return drbg.ErrReseedRequired
	}

	if len(additionalInput) > 0 {
		w := sha512.Sum512(concat([]byte{0x02}, d.v[:], additionalInput))
		addModIn(d.v[:], w[:])
	}

	hashgen(d.v[:], out)

	h := sha512.Sum512(concat([]byte{0x03}, d.v[:]))
	addModIn(d.v[:], h[:])
	addModIn(d.v[:], d.c[:])
	addModIn(d.v[:], be64(d.reseedCounter))
	d.reseedCounter++
	return nil
}

// Uninstantiate wipes V, C, and the reseed counter.
func (d *DRBG) Uninstantiate() {
	d.v = [SeedLen]byte{}
	d.c = [SeedLen]byte{}
	d.reseedCounter = 0
	d.state = drbg.StateUninstantiated
}

// hashDf implements the Hash_df derivation function: iterate
// counter in {1,2,...}; per iteration, hash counter||(outlen*8)_be32||input
// and append until outlen bytes are produced.
func hashDf(input []byte, outLenBytes int) ([]byte, error) {
	if outLenBytes > maxHashDfOutLen {
		return nil, fmt.Errorf("%w: Hash_df outlen %d exceeds max %d", drbg.ErrBadArguments, outLenBytes, maxHashDfOutLen)
	}

	out := make([]byte, 0, outLenBytes)
	var bitLen [4]byte
	be32(uint32(outLenBytes)*8, bitLen[:])

	for counter := byte(1); len(out) < outLenBytes; counter++ {
		h := sha512.New()
		h.Write([]byte{counter})
		h.Write(bitLen[:])
		h.Write(input)
		out = append(out, h.Sum(nil)...)
	}
	return out[:outLenBytes], nil
}

// hashgen implements hashgen(len): output len bytes by
// iteratively hashing a working value initially equal to V, incrementing
// it mod 2^(SeedLen*8) after each full digest-sized block. V itself is
// left unmodified; hashgen works on a local copy.
func hashgen(v []byte, out []byte) {
	data := make([]byte, SeedLen)
	copy(data, v)

	produced := 0
	for produced < len(out) {
		h := sha512.Sum512(data)
		n := copy(out[produced:], h[:])
		produced += n
		if produced < len(out) {
			incMod(data)
		}
	}
}

// concat returns the byte-wise concatenation of its arguments, skipping
// nils, without mutating any of them.
func concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// addModIn performs dst := (dst + src) mod 2^(len(dst)*8) in place, both
// interpreted as big-endian unsigned integers. src may be shorter than dst
// (it is treated as zero-extended on the left); src must not be longer.
func addModIn(dst, src []byte) {
	carry := uint16(0)
	n := len(dst)
	m := len(src)
	for i := 0; i < n; i++ {
		var sb byte
		si := m - 1 - i
		if si >= 0 {
			sb = src[si]
		}
		di := n - 1 - i
		sum := uint16(dst[di]) + uint16(sb) + carry
		dst[di] = byte(sum)
		carry = sum >> 8
	}
	// Overflow beyond 2^(n*8) is discarded, matching "mod 2^(SeedLen*8)".
}

// incMod increments a big-endian byte slice by one, modulo 2^(len*8).
func incMod(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}

func be32(v uint32, out []byte) {
	out[0] = byte(v >> 24)
	out[1] = byte(v >> 16)
	out[2] = byte(v >> 8)
	out[3] = byte(v)
}

func be64(v uint64) []byte {
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
