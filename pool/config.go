// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config defines the tunable parameters of an entropy Pool.
//
// It follows the functional-options pattern used throughout this module:
// start from DefaultConfig and layer Option values to override individual
// fields.
type Config struct {
	// Logger receives soft-failure and lifecycle diagnostics. Defaults to
	// logrus.StandardLogger() when nil.
	Logger *logrus.Logger

	// FastPollInterval is the period of the background collector thread's
	// fast poll. Defaults to 500ms.
	FastPollInterval time.Duration

	// Size is the pool's fixed byte-array length N. Must be a multiple of
	// HashOutputLen (64). Defaults to 384.
	Size int

	// UserEventBudget bounds the number of keyboard/mouse events mixed into
	// a single fetch when user-event collection is enabled. Defaults to 256.
	UserEventBudget int

	// Strict, when true, makes any unavailable entropy source abort the
	// poll that encountered it instead of logging and continuing.
	Strict bool

	// UserEvents enables the keyboard/mouse hook collector.
	UserEvents bool
}

const (
	// HashOutputLen is the SHA-512 digest size in bytes; the pool size must
	// always be a multiple of it, the pool's core mix invariant.
	HashOutputLen = 64

	defaultSize             = 384
	defaultFastPollInterval = 500 * time.Millisecond
	defaultUserEventBudget  = 256
)

// DefaultConfig returns a Config populated with sensible defaults: a
// 384-byte pool, a 500ms fast-poll cadence, a 256-event user-input budget,
// and non-strict soft-failure handling.
func DefaultConfig() Config {
	return Config{
		Size:             defaultSize,
		FastPollInterval: defaultFastPollInterval,
		UserEventBudget:  defaultUserEventBudget,
		Strict:           false,
		UserEvents:       false,
		Logger:           logrus.StandardLogger(),
	}
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithSize overrides the pool size in bytes. The value is checked at Start
// time (not here): Start returns ErrBadArguments if it is not a positive
// multiple of HashOutputLen.
func WithSize(n int) Option { return func(c *Config) { c.Size = n } }

// WithFastPollInterval overrides the background collector's poll cadence.
func WithFastPollInterval(d time.Duration) Option {
	return func(c *Config) { c.FastPollInterval = d }
}

// WithUserEventBudget overrides the maximum number of input events mixed
// into a single fetch.
func WithUserEventBudget(n int) Option { return func(c *Config) { c.UserEventBudget = n } }

// WithStrict enables or disables strict mode, in which any unavailable
// entropy source fails the poll instead of being logged and skipped.
func WithStrict(strict bool) Option { return func(c *Config) { c.Strict = strict } }

// WithUserEvents enables or disables the keyboard/mouse hook collector.
func WithUserEvents(enable bool) Option { return func(c *Config) { c.UserEvents = enable } }

// WithLogger overrides the logger used for soft-failure and lifecycle
// diagnostics.
func WithLogger(l *logrus.Logger) Option { return func(c *Config) { c.Logger = l } }
