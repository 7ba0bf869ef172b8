// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"fmt"
	"io"
	mrand "math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/vibhav950/Xrand/drbg"
	"github.com/vibhav950/Xrand/pool"
)

// maxShards bounds the pool fan-out NewReader will attempt to allocate;
// beyond this a caller-supplied Shards count is treated as a request for an
// unreasonable amount of memory rather than honored.
const maxShards = 1 << 16

// Reader is a package-level, cryptographically secure random source backed
// by a pool of CTR_DRBG instances, initialized at package load time (see
// init below), following x/crypto/ctrdrbg's Reader.
var Reader io.Reader

func init() {
	r, err := NewReader()
	if err != nil {
		panic(fmt.Sprintf("ctrdrbg: package Reader init failed: %v", err))
	}
	Reader = r
}

// Instance is the consumer-facing contract of a pool-backed CTR_DRBG
// random source.
type Instance interface {
	io.Reader
	Config() Config
}

// reader wraps a sync.Pool of instantiated DRBG entries so that concurrent
// callers each get exclusive access to one instance's Generate call,
// mirroring x/crypto/ctrdrbg.reader.
type reader struct {
	config Config
	pools  []*sync.Pool
}

// NewReader constructs a Reader backed by a pool of CTR_DRBG instances, each
// instantiated from fresh entropy (the package-level pool by default, or
// the source supplied via WithEntropySource).
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
	if cfg.Shards > maxShards {
		return nil, fmt.Errorf("%w: %d shards exceeds sane bound %d", drbg.ErrOutOfMemory, cfg.Shards, maxShards)
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		cfg := cfg
		pools[i] = &sync.Pool{
			New: func() interface{} {
				d, err := newInstantiated(&cfg)
				if err != nil {
					return nil
				}
				return d
			},
		}
		var seeded *DRBG
		var err error
		for attempt := 0; attempt < cfg.MaxInitRetries; attempt++ {
			if seeded, err = newInstantiated(&cfg); err == nil {
				break
			}
			time.Sleep(defaultRekeyBackoff)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ctrdrbg pool initialization failed after %d attempts: %v", drbg.ErrInternalFailure, cfg.MaxInitRetries, err)
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

// Read fills b with output from a pooled CTR_DRBG instance, reseeding it
// transparently from fresh entropy whenever Generate reports
// drbg.ErrReseedRequired, and chunking requests larger than
// MaxBytesPerRequest.
func (r *reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	shard := shardIndex(len(r.pools))
	d := r.pools[shard].Get().(*DRBG)
	defer r.pools[shard].Put(d)

	offset := 0
	for offset < len(b) {
		n := len(b) - offset
		if n > MaxBytesPerRequest {
			n = MaxBytesPerRequest
		}
		if err := d.Generate(b[offset:offset+n], nil); err != nil {
			if err == drbg.ErrReseedRequired {
				var seed [SeedLen]byte
				if rerr := r.config.Entropy(seed[:]); rerr != nil {
					return offset, fmt.Errorf("%w: %v", drbg.ErrInternalFailure, rerr)
				}
				if rerr := d.Reseed(seed[:], nil); rerr != nil {
					return offset, rerr
				}
				continue
			}
			return offset, err
		}
		offset += n
	}
	return offset, nil
}

// newInstantiated builds and instantiates a fresh DRBG from cfg's entropy
// source and personalization string.
func newInstantiated(cfg *Config) (*DRBG, error) {
	var seed [SeedLen]byte
	if err := cfg.Entropy(seed[:]); err != nil {
		return nil, err
	}
	d := New()
	if err := d.Instantiate(seed[:], nil, cfg.Personalization); err != nil {
		return nil, err
	}
	return d, nil
}

// defaultEntropy draws SeedLen bytes from the package-level entropy pool,
// the D-feeds-E data flow this module's DRBGs draw seed material from.
func defaultEntropy(buf []byte) error {
	return pool.Default().Source()(buf)
}
