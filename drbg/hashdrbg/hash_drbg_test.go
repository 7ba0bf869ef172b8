// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package hashdrbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibhav950/Xrand/drbg"
)

func TestDRBG_GenerateNotInitialized(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	err := d.Generate(make([]byte, 16), nil)
	is.ErrorIs(err, drbg.ErrNotInitialized)
}

func TestDRBG_InstantiateRejectsEmptyEntropy(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	err := d.Instantiate(nil, []byte("nonce"), nil)
	is.ErrorIs(err, drbg.ErrBadArguments)
}

func TestDRBG_DeterministicFromSameSeed(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy := bytes.Repeat([]byte{0x11}, 32)
	nonce := bytes.Repeat([]byte{0x22}, 16)

	d1 := New()
	require.NoError(t, d1.Instantiate(entropy, nonce, nil))
	out1 := make([]byte, 96)
	require.NoError(t, d1.Generate(out1, nil))

	d2 := New()
	require.NoError(t, d2.Instantiate(entropy, nonce, nil))
	out2 := make([]byte, 96)
	require.NoError(t, d2.Generate(out2, nil))

	is.True(bytes.Equal(out1, out2))
}

func TestDRBG_ConsecutiveGeneratesDiffer(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(bytes.Repeat([]byte{0x33}, 32), bytes.Repeat([]byte{0x44}, 16), nil))

	out1 := make([]byte, 48)
	out2 := make([]byte, 48)
	require.NoError(t, d.Generate(out1, nil))
	require.NoError(t, d.Generate(out2, nil))

	is.False(bytes.Equal(out1, out2))
}

func TestDRBG_AdditionalInputChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy := bytes.Repeat([]byte{0x55}, 32)
	nonce := bytes.Repeat([]byte{0x66}, 16)

	d1 := New()
	require.NoError(t, d1.Instantiate(entropy, nonce, nil))
	out1 := make([]byte, 32)
	require.NoError(t, d1.Generate(out1, []byte("a")))

	d2 := New()
	require.NoError(t, d2.Instantiate(entropy, nonce, nil))
	out2 := make([]byte, 32)
	require.NoError(t, d2.Generate(out2, []byte("b")))

	is.False(bytes.Equal(out1, out2))
}

func TestDRBG_ReseedRequiredBeyondLimit(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(bytes.Repeat([]byte{0x77}, 32), bytes.Repeat([]byte{0x88}, 16), nil))
	d.reseedCounter = MaxReseedInterval + 1

	err := d.Generate(make([]byte, 1), nil)
	is.ErrorIs(err, drbg.ErrReseedRequired)
}

func TestDRBG_ReseedResetsCounter(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(bytes.Repeat([]byte{0x99}, 32), bytes.Repeat([]byte{0xaa}, 16), nil))
	require.NoError(t, d.Generate(make([]byte, 8), nil))

	require.NoError(t, d.Reseed(bytes.Repeat([]byte{0xbb}, 32), nil))
	is.Equal(uint64(1), d.reseedCounter)
}

func TestHashDf_RejectsOversizedOutlen(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := hashDf([]byte("x"), maxHashDfOutLen+1)
	is.ErrorIs(err, drbg.ErrBadArguments)
}

func TestHashDf_ProducesRequestedLength(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	out, err := hashDf([]byte("seed material"), SeedLen)
	is.NoError(err)
	is.Len(out, SeedLen)
}

func TestDRBG_Uninstantiate(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	d := New()
	require.NoError(t, d.Instantiate(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 16), nil))
	d.Uninstantiate()

	err := d.Generate(make([]byte, 1), nil)
	is.ErrorIs(err, drbg.ErrNotInitialized)
}

func TestAddModIn_WrapsModulo(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	dst := bytes.Repeat([]byte{0xff}, 4)
	addModIn(dst, []byte{0x00, 0x00, 0x00, 0x01})
	is.Equal([]byte{0x00, 0x00, 0x00, 0x00}, dst, "addition must wrap modulo 2^(n*8)")
}

func TestReader_ReadProducesNonZero(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	r, err := NewReader()
	require.NoError(t, err)

	out := make([]byte, 128)
	n, err := r.Read(out)
	require.NoError(t, err)
	is.Equal(128, n)

	allZero := true
	for _, b := range out {
		if b != 0 {
			allZero = false
			break
		}
	}
	is.False(allZero, "reader output should not be all zero")
}

func TestReader_LargeReadChunks(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	r, err := NewReader()
	require.NoError(t, err)

	out := make([]byte, MaxBytesPerRequest+1024)
	n, err := r.Read(out)
	require.NoError(t, err)
	is.Equal(len(out), n)
}
