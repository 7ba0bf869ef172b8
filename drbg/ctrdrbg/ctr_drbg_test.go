// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibhav950/Xrand/drbg"
)

func fixedSeed(b byte) []byte {
	seed := make([]byte, SeedLen)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestDRBG_GenerateNotInitialized(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	out := make([]byte, 16)
	err := d.Generate(out, nil)
	is.ErrorIs(err, drbg.ErrNotInitialized)
}

func TestDRBG_InstantiateRejectsWrongEntropyLength(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	err := d.Instantiate(make([]byte, SeedLen-1), nil, nil)
	is.ErrorIs(err, drbg.ErrBadArguments)
}

func TestDRBG_DeterministicFromSameSeed(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	seed := fixedSeed(0x42)

	d1 := New()
	require.NoError(t, d1.Instantiate(seed, nil, nil))
	out1 := make([]byte, 64)
	require.NoError(t, d1.Generate(out1, nil))

	d2 := New()
	require.NoError(t, d2.Instantiate(seed, nil, nil))
	out2 := make([]byte, 64)
	require.NoError(t, d2.Generate(out2, nil))

	is.True(bytes.Equal(out1, out2), "identical seed must produce identical output")
}

func TestDRBG_ConsecutiveGeneratesDiffer(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x01), nil, nil))

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	require.NoError(t, d.Generate(out1, nil))
	require.NoError(t, d.Generate(out2, nil))

	is.False(bytes.Equal(out1, out2), "backtracking-resistance update must change state between calls")
}

func TestDRBG_GenerateZeroLengthIsNoOpButAdvancesCounter(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x07), nil, nil))

	before := d.reseedCounter
	err := d.Generate(make([]byte, 0), nil)
	is.NoError(err)
	is.Equal(before+1, d.reseedCounter)
}

func TestDRBG_GenerateRejectsOversizedRequest(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x09), nil, nil))

	err := d.Generate(make([]byte, MaxBytesPerRequest+1), nil)
	is.ErrorIs(err, drbg.ErrBadArguments)
}

func TestDRBG_GenerateMaxLengthIsLegal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x0a), nil, nil))

	out := make([]byte, MaxBytesPerRequest)
	is.NoError(d.Generate(out, nil))
}

func TestDRBG_ReseedRequiredBeyondLimit(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x0b), nil, nil))
	d.reseedCounter = MaxReseedInterval + 1

	err := d.Generate(make([]byte, 1), nil)
	is.ErrorIs(err, drbg.ErrReseedRequired)
}

func TestDRBG_ReseedResetsCounterAndChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x0c), nil, nil))

	out1 := make([]byte, 16)
	require.NoError(t, d.Generate(out1, nil))

	require.NoError(t, d.Reseed(fixedSeed(0xff), nil))
	is.Equal(uint64(1), d.reseedCounter)

	out2 := make([]byte, 16)
	require.NoError(t, d.Generate(out2, nil))
	is.False(bytes.Equal(out1, out2))
}

func TestDRBG_PersonalizationChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	seed := fixedSeed(0x55)

	d1 := New()
	require.NoError(t, d1.Instantiate(seed, nil, []byte("context-a")))
	out1 := make([]byte, 32)
	require.NoError(t, d1.Generate(out1, nil))

	d2 := New()
	require.NoError(t, d2.Instantiate(seed, nil, []byte("context-b")))
	out2 := make([]byte, 32)
	require.NoError(t, d2.Generate(out2, nil))

	is.False(bytes.Equal(out1, out2))
}

func TestDRBG_Uninstantiate(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(fixedSeed(0x99), nil, nil))
	d.Uninstantiate()

	err := d.Generate(make([]byte, 1), nil)
	is.ErrorIs(err, drbg.ErrNotInitialized)
}

func TestReader_ReadProducesNonZero(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	r, err := NewReader()
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	is.NoError(err)
	is.Equal(64, n)
	is.False(bytes.Equal(buf, make([]byte, 64)))
}

func TestReader_LargeReadChunks(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	r, err := NewReader()
	require.NoError(t, err)

	buf := make([]byte, MaxBytesPerRequest*2+17)
	n, err := r.Read(buf)
	is.NoError(err)
	is.Equal(len(buf), n)
}
