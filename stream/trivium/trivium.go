// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package trivium implements the Trivium 80/80 stream cipher (De Canniere
// and Preneel, eSTREAM portfolio): an 80-bit key, 80-bit IV, and a 288-bit
// shift-register state split across three feedback registers.
package trivium

import "fmt"

const (
	// KeyLen is the Trivium key length in bytes (80 bits).
	KeyLen = 10

	// IVLen is the Trivium IV length in bytes (80 bits).
	IVLen = 10

	// warmupRounds is the number of state-update rounds run before any
	// keystream bit is used, per the Trivium specification (4 * 288).
	warmupRounds = 4 * 288
)

// Cipher is a Trivium 80/80 keystream generator. It is not safe for
// concurrent use; each consumer owns and synchronizes its own instance.
type Cipher struct {
	s1 [93]bool
	s2 [84]bool
	s3 [111]bool
}

// New constructs a Cipher initialized from an 80-bit key and 80-bit IV.
func New(key, iv []byte) (*Cipher, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("trivium: key must be %d bytes, got %d", KeyLen, len(key))
	}
	if len(iv) != IVLen {
		return nil, fmt.Errorf("trivium: iv must be %d bytes, got %d", IVLen, len(iv))
	}

	c := &Cipher{}
	c.Reset(key, iv)
	return c, nil
}

// Reset reloads the key and IV and re-runs the warm-up schedule, discarding
// all previously generated keystream.
func (c *Cipher) Reset(key, iv []byte) {
	c.s1 = [93]bool{}
	c.s2 = [84]bool{}
	c.s3 = [111]bool{}

	unpackBitsLSB(key, c.s1[:80])
	unpackBitsLSB(iv, c.s2[:80])

	c.s3[108] = true
	c.s3[109] = true
	c.s3[110] = true

	for i := 0; i < warmupRounds; i++ {
		c.step()
	}
}

// step advances the internal state by one round and returns the keystream
// bit produced before the update, following the Trivium specification's
// three-register nonlinear feedback construction.
func (c *Cipher) step() bool {
	t1 := c.s1[65] != c.s1[92]
	t2 := c.s2[68] != c.s2[83]
	t3 := c.s3[65] != c.s3[110]

	z := t1 != t2
	z = z != t3

	t1 = t1 != (c.s1[90] && c.s1[91])
	t1 = t1 != c.s2[77]

	t2 = t2 != (c.s2[81] && c.s2[82])
	t2 = t2 != c.s3[86]

	t3 = t3 != (c.s3[108] && c.s3[109])
	t3 = t3 != c.s1[68]

	copy(c.s1[1:], c.s1[:92])
	c.s1[0] = t3

	copy(c.s2[1:], c.s2[:83])
	c.s2[0] = t1

	copy(c.s3[1:], c.s3[:110])
	c.s3[0] = t2

	return z
}

// XORKeyStream XORs each byte of src with the next keystream byte, writing
// the len(src) results to dst; it panics if dst is shorter than src. src and
// dst may overlap exactly like cipher.Stream implementations in the standard
// library.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("trivium: dst shorter than src")
	}

	for i, b := range src {
		dst[i] = b ^ c.keystreamByte()
	}
}

// keystreamByte produces one byte of keystream, packing bits MSB-first: the
// first bit step() produces becomes the most significant bit of the byte.
func (c *Cipher) keystreamByte() byte {
	var b byte
	for i := 0; i < 8; i++ {
		b <<= 1
		if c.step() {
			b |= 1
		}
	}
	return b
}

// Rand8 returns one keystream byte.
func (c *Cipher) Rand8() uint8 {
	return c.keystreamByte()
}

// Rand16 returns two keystream bytes as a little-endian uint16.
func (c *Cipher) Rand16() uint16 {
	lo := c.keystreamByte()
	hi := c.keystreamByte()
	return uint16(lo) | uint16(hi)<<8
}

// Rand32 returns four keystream bytes as a little-endian uint32.
func (c *Cipher) Rand32() uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(c.keystreamByte()) << (8 * uint(i))
	}
	return v
}

// Rand64 returns eight keystream bytes as a little-endian uint64.
func (c *Cipher) Rand64() uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(c.keystreamByte()) << (8 * uint(i))
	}
	return v
}

// Read fills p with keystream bytes. It always returns len(p), nil,
// satisfying io.Reader.
func (c *Cipher) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = c.keystreamByte()
	}
	return len(p), nil
}

// unpackBitsLSB unpacks len(dst) bits from src (least-significant bit of
// src[0] first) into dst.
func unpackBitsLSB(src []byte, dst []bool) {
	for i := range dst {
		byteIdx := i / 8
		bitIdx := uint(i % 8)
		dst[i] = (src[byteIdx]>>bitIdx)&1 == 1
	}
}
