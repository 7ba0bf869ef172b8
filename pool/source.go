// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package pool implements an entropy pool: a fixed-size byte buffer fed by
// pluggable entropy sources, mixed with SHA-512, and drained through a
// leak-resistant extraction path (fast-poll -> extract -> invert ->
// fast-poll -> extract-xor -> mix).
package pool

// Status is the outcome of a single Source.Fill attempt.
type Status int

const (
	// StatusOK indicates the source filled the requested bytes.
	StatusOK Status = iota
	// StatusUnavailable indicates the source could not run (e.g. the
	// underlying OS facility or CPU instruction is absent). Soft-fails
	// outside strict mode.
	StatusUnavailable
	// StatusError indicates the source attempted to run and failed.
	// Soft-fails outside strict mode, except Jitter during slow_poll,
	// which is always fatal to that poll.
	StatusError
)

// Source is the entropy-source plugin contract.
//
// Implementations must be safe to call repeatedly and must not block
// indefinitely; Fill should return StatusUnavailable quickly rather than
// hang when the underlying facility cannot service the request.
type Source interface {
	// Name identifies the source for logging and diagnostics.
	Name() string

	// Available reports whether the source can currently be used. Pool
	// does not call it; it calls Fill directly, and Fill reports
	// StatusUnavailable when the source cannot run. Fill may return
	// StatusUnavailable even when Available reported true.
	Available() bool

	// Fill attempts to write exactly len(buf) bytes of source-specific
	// entropy into buf, returning the outcome.
	Fill(buf []byte) Status
}
