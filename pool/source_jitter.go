// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"crypto/sha512"
	"encoding/binary"
	"runtime"
	"time"
)

// jitterOversamplingRatio is the oversampling ratio for the slow poll's
// timing-jitter draw. Fill folds 8*ratio raw timing samples per output
// byte, so at ratio 1 each output bit is backed by one sample.
const jitterOversamplingRatio = 1

// jitterSource is a timing-jitter entropy collector used exclusively during
// slow poll. It samples scheduler/clock jitter between tight,
// data-dependent loop iterations and folds the samples through SHA-512,
// the same conditioning primitive used throughout the rest of the pool.
type jitterSource struct{}

// NewJitterSource returns the timing-jitter entropy source used exclusively
// during slow_poll.
func NewJitterSource() Source { return jitterSource{} }

func (jitterSource) Name() string { return "jitter" }

func (jitterSource) Available() bool { return true }

func (jitterSource) Fill(buf []byte) Status {
	if len(buf) == 0 {
		return StatusOK
	}

	acc := sha512.New()
	var tsBuf [8]byte
	prev := time.Now().UnixNano()

	// Oversample: for every output byte, run a small data-dependent loop
	// and fold the nanosecond delta between scheduler-visible timestamps.
	// Forcing a Gosched() periodically widens the jitter by exposing
	// scheduling noise in addition to raw clock-read noise.
	for i := 0; i < len(buf)*8*jitterOversamplingRatio; i++ {
		x := uint64(1)
		for j := 0; j < 8+(i&0xf); j++ {
			x = x*2862933555777941757 + 3037000493
		}
		if i&0x3f == 0 {
			runtime.Gosched()
		}
		now := time.Now().UnixNano()
		delta := uint64(now-prev) ^ x
		prev = now

		binary.LittleEndian.PutUint64(tsBuf[:], delta)
		acc.Write(tsBuf[:])
	}

	digest := acc.Sum(nil)
	offset := 0
	for offset < len(buf) {
		n := copy(buf[offset:], digest)
		offset += n
		if offset < len(buf) {
			digest = sha512.Sum512(digest)[:]
		}
	}
	return StatusOK
}
