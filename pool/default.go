// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"fmt"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the package-level Pool shared by this module's DRBG and
// stream-cipher readers, starting it on first use. Pool initialization
// failure is fatal to every component that draws from it.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New()
		if err := defaultPool.Start(); err != nil {
			fatal("pool: default pool failed to start", err)
		}
	})
	return defaultPool
}

// Source adapts p.Fetch to the func(buf []byte) error shape every DRBG and
// stream-cipher package in this module accepts as an EntropySource, so a
// Pool can be passed directly as a drop-in default (data flow D -> E/F/G/H).
func (p *Pool) Source() func([]byte) error {
	return func(buf []byte) error {
		n, err := p.Fetch(buf, false)
		if err != nil {
			return err
		}
		if n != len(buf) {
			return fmt.Errorf("%w: pool fetch returned %d of %d bytes", ErrInternalFailure, n, len(buf))
		}
		return nil
	}
}
