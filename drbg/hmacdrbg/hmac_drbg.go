// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hmacdrbg implements the NIST SP 800-90A §10.1.2 HMAC-SHA-512
// HMAC_DRBG construction, in the same pure-core shape as this module's
// ctrdrbg and hashdrbg packages.
package hmacdrbg

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"

	"github.com/vibhav950/Xrand/drbg"
)

const (
	// KVLen is the length of both K and V: one SHA-512 digest.
	KVLen = 64

	// MaxBytesPerRequest bounds a single Generate call, per SP 800-90A
	// Table 2 for SHA-512 (2^16 bytes).
	MaxBytesPerRequest = 1 << 16

	// MaxReseedInterval bounds reseed_counter before Generate must fail
	// with ErrReseedRequired, per SP 800-90A Table 2.
	MaxReseedInterval = uint64(1) << 48
)

// DRBG is a NIST SP 800-90A HMAC_DRBG (SHA-512) instance. It is not safe
// for concurrent use; each consumer owns and synchronizes its own instance
// independently.
type DRBG struct {
	k             [KVLen]byte
	v             [KVLen]byte
	reseedCounter uint64
	state         drbg.State
}

var _ drbg.Interface = (*DRBG)(nil)

// New returns an uninstantiated HMAC_DRBG.
func New() *DRBG { return &DRBG{} }

// Instantiate sets K := 0^64, V := 0x01^64, then update(entropy||nonce||pers),
// reseed_counter := 1.
func (d *DRBG) Instantiate(entropy, nonce, personalization []byte) error {
	if len(entropy) == 0 {
		return fmt.Errorf("%w: empty entropy", drbg.ErrBadArguments)
	}

	for i := range d.k {
		d.k[i] = 0x00
	}
	for i := range d.v {
		d.v[i] = 0x01
	}

	d.update(concat(entropy, nonce, personalization))
	d.reseedCounter = 1
	d.state = drbg.StateOperational
	return nil
}

// Reseed runs update(entropy||ai) and resets reseed_counter to 1.
func (d *DRBG) Reseed(entropy, additionalInput []byte) error {
	if d.state != drbg.StateOperational {
		return drbg.ErrNotInitialized
	}
	if len(entropy) == 0 {
		return fmt.Errorf("%w: empty entropy", drbg.ErrBadArguments)
	}

	d.update(concat(entropy, additionalInput))
	d.reseedCounter = 1
	return nil
}

// Generate generates output bytes: if ai is non-empty, update(ai)
// runs first; output is emitted by repeatedly setting V := HMAC(K, V) and
// copying V until len(out) bytes are produced; then update(ai) (or
// update(nil) if ai was empty) runs again for backtracking resistance, and
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
	if d.reseedCounter > MaxReseedInterval {
		return drbg.ErrReseedRequired
	}

	if len(additionalInput) > 0 {
		d.update(additionalInput)
	}

	produced := 0
	for produced < len(out) {
		d.hmacInto(d.v[:], d.v[:])
		n := copy(out[produced:], d.v[:])
		produced += n
	}

	d.update(additionalInput)
	d.reseedCounter++
	return nil
}

// Uninstantiate wipes K, V, and the reseed counter.
func (d *DRBG) Uninstantiate() {
	d.k = [KVLen]byte{}
	d.v = [KVLen]byte{}
	d.reseedCounter = 0
	d.state = drbg.StateUninstantiated
}

// update runs the HMAC_DRBG update step: K := HMAC(K, V||0x00||data);
// V := HMAC(K, V); if data is non-empty, K := HMAC(K, V||0x01||data);
// V := HMAC(K, V).
func (d *DRBG) update(data []byte) {
	d.hmacInto(d.k[:], concat(d.v[:], []byte{0x00}, data))
	d.hmacInto(d.v[:], d.v[:])

	if len(data) > 0 {
		d.hmacInto(d.k[:], concat(d.v[:], []byte{0x01}, data))
		d.hmacInto(d.v[:], d.v[:])
	}
}

// hmacInto computes HMAC-SHA-512(d.k, msg) and writes it into dst (which
// may alias d.k or d.v; the key is read before dst is overwritten since
// hmac.New copies the key).
func (d *DRBG) hmacInto(dst []byte, msg []byte) {
	mac := hmac.New(sha512.New, d.k[:])
	mac.Write(msg)
	sum := mac.Sum(nil)
	copy(dst, sum)
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
