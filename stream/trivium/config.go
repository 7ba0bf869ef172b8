// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package trivium

// embeddedKey is the fixed, implementation-chosen 80-bit Trivium key
// embedded in the binary. Reader never draws a fresh key: only the 80-bit
// IV is redrawn on each rekey, which is what gives Trivium its specified
// 2^80 indistinguishability per reseed epoch (the constant key plus a fresh
// IV is the NIST-style "reseed" operation, distinct from XORKeyStream's
// per-byte step).
var embeddedKey = [KeyLen]byte{
	0xfc, 0xd0, 0xdf, 0x7d, 0x9d, 0xe4, 0x80, 0xac, 0xf8, 0xa2,
}

// EntropySource supplies a fresh 80-bit IV for a rekey. The default,
// DefaultConfig, draws from pool.Default (component D feeding H); callers
// wanting a different source pass an Option wrapping their own pool.Pool or
// crypto/rand directly.
type EntropySource func(buf []byte) error

// Config defines the tunable parameters of a pool-backed Reader.
type Config struct {
	// Entropy supplies a fresh IVLen-byte IV on construction and on each
	// periodic rekey. Defaults to pool.Default().Source().
	Entropy EntropySource

	// ReseedBytes bounds how many keystream bytes a single Cipher emits
	// before the Reader transparently rekeys it from fresh entropy.
	ReseedBytes int64

	// MaxInitRetries bounds Cipher pool-entry initialization retries.
	MaxInitRetries int

	// Shards is the number of independent Cipher pool shards; defaults to
	// runtime.GOMAXPROCS(0) when <= 0.
	Shards int
}

const (
	defaultInitRetries = 3

	// defaultReseedBytes rekeys every 2^20 bytes of keystream, bounding
	// the amount of output produced from a single key/IV pair.
	defaultReseedBytes = 1 << 20
)

// DefaultConfig returns a Config with pool-backed entropy (Entropy is left
// nil and NewReader falls back to pool.Default), a 2^20-byte reseed budget,
// 3 init retries, and GOMAXPROCS-sized sharding.
func DefaultConfig() Config {
	return Config{
		ReseedBytes:    defaultReseedBytes,
		MaxInitRetries: defaultInitRetries,
	}
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithEntropySource overrides the source of IV entropy (the key is always
// embeddedKey), e.g. to draw from crypto/rand or a caller-owned pool.Pool
// instead of pool.Default.
func WithEntropySource(s EntropySource) Option { return func(c *Config) { c.Entropy = s } }

// WithReseedBytes overrides the per-Cipher reseed budget.
func WithReseedBytes(n int64) Option { return func(c *Config) { c.ReseedBytes = n } }

// WithMaxInitRetries overrides the Cipher pool-entry initialization retry
// count.
func WithMaxInitRetries(n int) Option { return func(c *Config) { c.MaxInitRetries = n } }

// WithShards overrides the number of Cipher pool shards.
func WithShards(n int) Option { return func(c *Config) { c.Shards = n } }
