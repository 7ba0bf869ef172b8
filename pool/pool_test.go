// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"bytes"
	"crypto/sha512"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_StartFetchStop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New(WithFastPollInterval(10 * time.Millisecond))
	require.NoError(t, p.Start())
	defer p.Stop()

	buf := make([]byte, 64)
	n, err := p.Fetch(buf, true)
	is.NoError(err)
	is.Equal(64, n)
	is.False(bytes.Equal(buf, make([]byte, 64)), "fetched bytes should not be all zero")
}

func TestPool_FetchBeforeSizeMultipleRejected(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New(WithSize(100)) // not a multiple of 64
	err := p.Start()
	is.ErrorIs(err, ErrBadArguments)
}

func TestPool_FetchTooLarge(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New()
	require.NoError(t, p.Start())
	defer p.Stop()

	buf := make([]byte, defaultSize+1)
	_, err := p.Fetch(buf, false)
	is.ErrorIs(err, ErrRequestTooLarge)
}

func TestPool_TwoFetchesDiffer(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New()
	require.NoError(t, p.Start())
	defer p.Stop()

	a := make([]byte, 64)
	b := make([]byte, 64)
	_, err := p.Fetch(a, false)
	is.NoError(err)
	_, err = p.Fetch(b, false)
	is.NoError(err)
	is.False(bytes.Equal(a, b), "consecutive fetches must not repeat")
}

func TestPool_ConcurrentFetch(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New()
	require.NoError(t, p.Start())
	defer p.Stop()

	const goroutines = 8
	done := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			buf := make([]byte, 32)
			_, err := p.Fetch(buf, false)
			done <- err
		}()
	}
	for i := 0; i < goroutines; i++ {
		is.NoError(<-done)
	}
}

func TestPool_MixEveryBlockIsHashOfWholePool(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New(WithSize(128))
	require.NoError(t, p.Start())
	defer p.Stop()

	is.Equal(128, len(p.p))

	// Load a deterministic pool state and compare mix against an
	// independent recomputation: each 64-byte block, in order, is XORed
	// with SHA-512 of the whole pool as it stands after the previous
	// block's XOR.
	p.mu.Lock()
	for i := range p.p {
		p.p[i] = byte(i)
	}
	want := make([]byte, len(p.p))
	copy(want, p.p)
	for i := 0; i < len(want); i += HashOutputLen {
		h := sha512.Sum512(want)
		for j := 0; j < HashOutputLen; j++ {
			want[i+j] ^= h[j]
		}
	}
	p.mix()
	got := make([]byte, len(p.p))
	copy(got, p.p)
	p.mu.Unlock()

	is.Equal(want, got)
}

func TestPool_StopWipesBuffer(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New()
	require.NoError(t, p.Start())
	buf := make([]byte, 32)
	_, err := p.Fetch(buf, true)
	is.NoError(err)

	p.Stop()
	is.Nil(p.p)
}

func TestPool_StrictModeSurfacesUnavailableSource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	p := New(WithStrict(true))
	// Replace the fast sources with one guaranteed to be unavailable.
	p.fastSources = []Source{stubSource{status: StatusUnavailable}}
	p.slowSources = []Source{stubSource{status: StatusOK}}
	require.NoError(t, p.Start())
	defer p.Stop()

	buf := make([]byte, 16)
	_, err := p.Fetch(buf, true)
	is.Error(err)
}

type stubSource struct {
	status Status
}

func (s stubSource) Name() string    { return "stub" }
func (s stubSource) Available() bool { return s.status != StatusUnavailable }
func (s stubSource) Fill(buf []byte) Status {
	for i := range buf {
		buf[i] = byte(i + 1)
	}
	return s.status
}
