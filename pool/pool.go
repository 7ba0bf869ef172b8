// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"crypto/sha512"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pool is a fixed-size entropy accumulator fed by heterogeneous sources,
// mixed with SHA-512, and drained through a leak-resistant extraction path.
//
// A Pool is a single value owned by the consumer's top-level context:
// construct one with New, Start it, and Stop it when done. It is safe for
// concurrent use once started.
type Pool struct {
	cfg Config

	mu sync.Mutex // guards everything below

	p    []byte
	w    int // write cursor
	r    int // read cursor
	sinceLastMix int

	slowDone bool
	started  bool

	fastSources []Source
	slowSources []Source
	userEvents  *userEventSource

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New constructs a Pool from the given options but does not allocate or
// start the collector thread; call Start for that.
func New(opts ...Option) *Pool {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	ue := NewUserEventSource(cfg.UserEventBudget)

	return &Pool{
		cfg: cfg,
		fastSources: []Source{
			NewOSCSPRNGSource(),
			NewHardwareRNGSource(),
			NewProbeSource(),
		},
		slowSources: []Source{
			NewJitterSource(),
		},
		userEvents: ue,
	}
}

// Push feeds one platform keyboard/mouse event to the user-event collector.
// It is a no-op unless user-event collection is enabled (Config.UserEvents).
func (pl *Pool) Push(ev InputEvent) {
	if pl.cfg.UserEvents {
		pl.userEvents.Push(ev)
	}
}

// Start allocates the pool buffer, initializes cursors, and spins up the
// background fast-poll collector thread. Start fails iff the pool size is
// invalid or is already started; it never returns success with a partially
// constructed pool.
func (pl *Pool) Start() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if pl.started {
		return ErrAlreadyStarted
	}
	if pl.cfg.Size <= 0 || pl.cfg.Size%HashOutputLen != 0 {
		return fmt.Errorf("%w: pool size %d is not a positive multiple of %d", ErrBadArguments, pl.cfg.Size, HashOutputLen)
	}

	pl.p = make([]byte, pl.cfg.Size)
	pl.w = 0
	pl.r = 0
	pl.sinceLastMix = 0
	pl.slowDone = false
	pl.started = true
	pl.stopCh = make(chan struct{})

	pl.wg.Add(1)
	go pl.collectLoop()

	return nil
}

// Stop signals the collector thread to exit cooperatively, joins it, and
// wipes the pool buffer. Stop is idempotent; calling it on a pool that was
// never started is a no-op.
func (pl *Pool) Stop() {
	pl.mu.Lock()
	if !pl.started {
		pl.mu.Unlock()
		return
	}
	close(pl.stopCh)
	pl.mu.Unlock()

	pl.wg.Wait()

	pl.mu.Lock()
	defer pl.mu.Unlock()
	for i := range pl.p {
		pl.p[i] = 0
	}
	pl.p = nil
	pl.started = false
}

// SetStrict toggles strict failure handling: when true, any unavailable or
// erroring entropy source aborts the poll that encountered it.
func (pl *Pool) SetStrict(strict bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.cfg.Strict = strict
}

// SetUserEvents enables or disables the keyboard/mouse hook collector.
func (pl *Pool) SetUserEvents(enable bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.cfg.UserEvents = enable
}

// MixNow forces an out-of-band mix of the pool, without extracting bytes.
func (pl *Pool) MixNow() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if !pl.started {
		return ErrNotStarted
	}
	pl.mix()
	return nil
}

func (pl *Pool) collectLoop() {
	defer pl.wg.Done()
	t := time.NewTicker(pl.cfg.FastPollInterval)
	defer t.Stop()
	for {
		select {
		case <-pl.stopCh:
			return
		case <-t.C:
			pl.mu.Lock()
			if pl.started {
				if err := pl.fastPollLocked(); err != nil {
					pl.cfg.Logger.WithError(err).Debug("pool: fast poll failed")
				}
			}
			pl.mu.Unlock()
		}
	}
}

// add appends one byte to the pool: mix is invoked every 32 bytes written
// (before the 33rd), the write cursor wraps at N, and the byte is XORed
// into P[w] (never overwritten). Caller must hold pl.mu.
func (pl *Pool) addLocked(b byte) {
	if pl.sinceLastMix >= 32 {
		pl.mix()
	}
	if pl.w >= len(pl.p) {
		pl.w = 0
	}
	pl.p[pl.w] ^= b
	pl.w++
	pl.sinceLastMix++
}

func (pl *Pool) addBytesLocked(data []byte) {
	for _, b := range data {
		pl.addLocked(b)
	}
}

// mix applies SHA-512 over the whole pool once per 64-byte block, XORing
// the freshly recomputed digest into that block, in block order. N mod 64
// == 0 is a precondition; violating it is fatal. Caller must hold pl.mu.
func (pl *Pool) mix() {
	n := len(pl.p)
	if n%HashOutputLen != 0 {
		for i := range pl.p {
			pl.p[i] = 0
		}
		fatal("pool: mix invariant violated", fmt.Errorf("pool size %d not a multiple of %d", n, HashOutputLen))
	}
	for i := 0; i < n; i += HashOutputLen {
		h := sha512.Sum512(pl.p)
		for j := 0; j < HashOutputLen; j++ {
			pl.p[i+j] ^= h[j]
		}
	}
	pl.sinceLastMix = 0
}

// fastPollLocked reads from the OS CSPRNG, hardware RNG, and system probes,
// concluding with a full mix. Caller must hold pl.mu.
func (pl *Pool) fastPollLocked() error {
	return pl.runSourcesLocked(pl.fastSources, true)
}

// slowPollLocked runs the slow-only sources (the Jitter-RNG collector) and
// any queued user events, concluding with a mix; disk, memory and process
// counters come from the probe source, which runs in every fast poll
// instead. The first success flips slowDone. Jitter failure is always fatal
// to this poll.
func (pl *Pool) slowPollLocked() error {
	for _, src := range pl.slowSources {
		buf := make([]byte, 32)
		status := src.Fill(buf)
		if status == StatusError {
			if src.Name() == "jitter" {
				return ErrJitterFailed
			}
		}
		if status != StatusUnavailable {
			pl.addBytesLocked(buf)
		}
	}
	if err := pl.runSourcesLocked(nil, false); err != nil {
		return err
	}
	pl.mix()
	pl.slowDone = true
	return nil
}

// runSourcesLocked drives each source in order, adding its bytes to the
// pool unless it reported StatusUnavailable, and returns a non-nil error
// only when Strict is enabled and a source reported unavailable or errored.
func (pl *Pool) runSourcesLocked(sources []Source, concludeMix bool) error {
	var firstErr error
	for _, src := range sources {
		buf := make([]byte, 32)
		status := src.Fill(buf)
		if status != StatusUnavailable {
			pl.addBytesLocked(buf)
		}
		if status != StatusOK {
			pl.cfg.Logger.WithFields(logrus.Fields{"source": src.Name(), "status": status}).Debug("pool: source soft-failed")
			if pl.cfg.Strict && firstErr == nil {
				firstErr = fmt.Errorf("%w: source %q status %v", ErrEntropyTooLow, src.Name(), status)
			}
		}
	}
	if pl.cfg.UserEvents {
		buf := make([]byte, HashOutputLen)
		if status := pl.userEvents.Fill(buf); status == StatusOK {
			pl.addBytesLocked(buf)
		}
	}
	if concludeMix {
		pl.mix()
	}
	return firstErr
}

// Fetch runs a slow poll before the first fetch (or whenever force_slow is
// requested), optionally drains user-event collection, runs a fast poll,
// extracts bytes by XOR, inverts the pool, runs a second fast poll,
// extracts again by XOR continuing the cursor, and concludes with a mix.
// It returns the number of bytes produced, which always equals len(buf) on
// success.
//
// Fetch is fatal if called before Start.
func (pl *Pool) Fetch(buf []byte, forceSlow bool) (int, error) {
	if buf == nil {
		return 0, ErrNullInput
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()

	if !pl.started {
		fatal("pool: fetch before start", ErrNotStarted)
	}
	if len(buf) > len(pl.p) {
		return 0, ErrRequestTooLarge
	}

	if !pl.slowDone || forceSlow {
		if err := pl.slowPollLocked(); err != nil {
			return 0, err
		}
	}

	if err := pl.fastPollLocked(); err != nil && pl.cfg.Strict {
		return 0, err
	}

	n := len(buf)
	pl.xorExtractLocked(buf)

	pl.invertLocked()

	if err := pl.fastPollLocked(); err != nil && pl.cfg.Strict {
		return 0, err
	}
	pl.xorExtractIntoLocked(buf)

	pl.mix()

	return n, nil
}

// xorExtractLocked XORs len(buf) pool bytes (starting at r, wrapping at N)
// into buf. It advances r.
func (pl *Pool) xorExtractLocked(buf []byte) {
	for i := range buf {
		buf[i] ^= pl.p[pl.r]
		pl.r++
		if pl.r >= len(pl.p) {
			pl.r = 0
		}
	}
}

// xorExtractIntoLocked XORs len(buf) further pool bytes into the existing
// contents of buf, continuing from the current r.
func (pl *Pool) xorExtractIntoLocked(buf []byte) {
	for i := range buf {
		buf[i] ^= pl.p[pl.r]
		pl.r++
		if pl.r >= len(pl.p) {
			pl.r = 0
		}
	}
}

// invertLocked performs a bitwise NOT of every byte of the pool.
func (pl *Pool) invertLocked() {
	for i := range pl.p {
		pl.p[i] = ^pl.p[i]
	}
}

// fatal handles the two conditions that are unrecoverable for this process:
// a broken pool-mix invariant and fetching before start. It logs a single-line
// crash record and terminates, since no caller-reachable typed error can
// safely express "the pool's core invariant no longer holds".
func fatal(msg string, err error) {
	log.Fatalf("xrand: fatal: %s: %v (at %s)", msg, err, time.Now().UTC().Format(time.RFC3339Nano))
}
