// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package trivium

import (
	"fmt"
	"io"
	mrand "math/rand/v2"
	"runtime"
	"sync"

	"github.com/vibhav950/Xrand/pool"
)

// Reader is a package-level keystream source backed by a pool of Trivium
// ciphers, initialized at package load time.
var Reader io.Reader

func init() {
	r, err := NewReader()
	if err != nil {
		panic(fmt.Sprintf("trivium: package Reader init failed: %v", err))
	}
	Reader = r
}

// Instance is the consumer-facing contract of a pool-backed Trivium
// keystream source.
type Instance interface {
	io.Reader
	Config() Config
}

// entry pairs a Cipher with how many keystream bytes it has emitted since
// its last rekey.
type entry struct {
	cipher   *Cipher
	produced int64
}

// reader wraps a sync.Pool of keyed Cipher entries per shard so that
// concurrent callers each get exclusive access to one instance at a time.
type reader struct {
	config Config
	pools  []*sync.Pool
}

// NewReader constructs a Reader backed by a pool of Trivium ciphers, each
// keyed from fresh entropy (the package-level pool by default, or the
// source supplied via WithEntropySource).
func NewReader(opts ...Option) (Instance, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Entropy == nil {
		cfg.Entropy = defaultEntropy
	}
	if cfg.Shards <= 0 {
		cfg.Shards = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxInitRetries <= 0 {
		cfg.MaxInitRetries = 1
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		cfg := cfg
		pools[i] = &sync.Pool{
			New: func() interface{} {
				e, err := newEntry(&cfg)
				if err != nil {
					return nil
				}
				return e
			},
		}
		var seeded *entry
		var err error
		for attempt := 0; attempt < cfg.MaxInitRetries; attempt++ {
			if seeded, err = newEntry(&cfg); err == nil {
				break
			}
		}
		if err != nil {
			return nil, fmt.Errorf("trivium: pool initialization failed after %d attempts: %v", cfg.MaxInitRetries, err)
		}
		pools[i].Put(seeded)
	}

	return &reader{config: cfg, pools: pools}, nil
}

// Config returns a copy of the Reader's non-secret configuration.
func (r *reader) Config() Config { return r.config }

func shardIndex(n int) int {
	if n <= 1 {
		return 0
	}
	return mrand.IntN(n)
}

// Read fills b with keystream bytes from a pooled Cipher, transparently
// rekeying it from fresh entropy once it has produced Config.ReseedBytes
// bytes.
func (r *reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	shard := shardIndex(len(r.pools))
	e := r.pools[shard].Get().(*entry)
	defer r.pools[shard].Put(e)

	produced := 0
	for produced < len(b) {
		if e.produced >= r.config.ReseedBytes {
			if err := rekey(e, &r.config); err != nil {
				return produced, err
			}
		}

		n := len(b) - produced
		remaining := r.config.ReseedBytes - e.produced
		if int64(n) > remaining {
			n = int(remaining)
		}
		if n <= 0 {
			n = 1
		}

		nn, _ := e.cipher.Read(b[produced : produced+n])
		e.produced += int64(nn)
		produced += nn
	}
	return produced, nil
}

// newEntry builds a fresh Cipher from the embedded constant key and an IV
// drawn from cfg's entropy source.
func newEntry(cfg *Config) (*entry, error) {
	var iv [IVLen]byte
	if err := cfg.Entropy(iv[:]); err != nil {
		return nil, err
	}
	c, err := New(embeddedKey[:], iv[:])
	wipe(iv[:])
	if err != nil {
		return nil, err
	}
	return &entry{cipher: c}, nil
}

// rekey draws a fresh IV, re-inits e's Cipher with the embedded constant
// key and that IV, and wipes the IV buffer.
func rekey(e *entry, cfg *Config) error {
	var iv [IVLen]byte
	if err := cfg.Entropy(iv[:]); err != nil {
		return err
	}
	e.cipher.Reset(embeddedKey[:], iv[:])
	wipe(iv[:])
	e.produced = 0
	return nil
}

// wipe zeroes b in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// defaultEntropy draws len(buf) bytes from the package-level entropy pool
// (component D feeding H).
func defaultEntropy(buf []byte) error {
	return pool.Default().Source()(buf)
}
