// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package hmacdrbg

// EntropySource supplies n bytes of fresh entropy for instantiation and
// reseeding. The default, DefaultConfig, draws from the package-level
// entropy pool (pool.Default); callers wanting a different source pass an
// Option wrapping it.
type EntropySource func(buf []byte) error

// Config defines the tunable parameters of a pool-backed HMAC_DRBG Reader,
// following the functional-options pattern used throughout this module.
type Config struct {
	// Personalization is mixed into the initial seed for domain
	// separation.
	Personalization []byte

	// Entropy supplies fresh entropy on instantiate and reseed. Defaults
	// to the package-level entropy pool.
	Entropy EntropySource

	// MaxInitRetries bounds DRBG pool-entry initialization retries.
	MaxInitRetries int

	// Shards is the number of independent DRBG pool shards; defaults to
	// runtime.GOMAXPROCS(0) when <= 0.
	Shards int
}

const defaultInitRetries = 3

// DefaultConfig returns a Config with pool-backed entropy, 3 init retries,
// and GOMAXPROCS-sized sharding.
func DefaultConfig() Config {
	return Config{
		MaxInitRetries: defaultInitRetries,
	}
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithPersonalization sets the per-instance personalization string.
func WithPersonalization(p []byte) Option { return func(c *Config) { c.Personalization = p } }

// WithEntropySource overrides the source of seed entropy, e.g. to draw directly from
// a specific pool.Pool instead of the package-level default.
func WithEntropySource(s EntropySource) Option { return func(c *Config) { c.Entropy = s } }

// WithMaxInitRetries overrides the DRBG pool-entry initialization retry
// count.
func WithMaxInitRetries(n int) Option { return func(c *Config) { c.MaxInitRetries = n } }

// WithShards overrides the number of DRBG pool shards.
func WithShards(n int) Option { return func(c *Config) { c.Shards = n } }
