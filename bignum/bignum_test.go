// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBytes_BytesRoundTrip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	cases := [][]byte{
		{},
		{0x00},
		{0x01},
		{0xff},
		{0x01, 0x00, 0x00, 0x00},
		{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05},
	}
	for _, c := range cases {
		z := New().SetBytes(c)
		got := z.Bytes()

		want := new(big.Int).SetBytes(c).Bytes()
		if len(want) == 0 {
			want = []byte{}
		}
		is.Equal(want, got, "input %x", c)
	}
}

func TestSetString_TextRoundTrip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, s := range []string{"0", "1", "123456789012345678901234567890", "-42", "999999999999999999999999999999999999"} {
		z, ok := New().SetString(s, 10)
		require.True(t, ok)

		want, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)

		is.Equal(want.String(), z.String())
	}
}

func TestSetString_Hex(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	z, ok := New().SetString("deadbeefcafe", 16)
	require.True(t, ok)

	want, _ := new(big.Int).SetString("deadbeefcafe", 16)
	got, err := z.Text(16)
	require.NoError(t, err)
	is.Equal(want.Text(16), got)
}

func TestSetString_RejectsInvalidDigit(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, ok := New().SetString("12g", 16)
	is.False(ok)

	_, ok = New().SetString("", 10)
	is.False(ok)
}

func refBig(v string) *big.Int {
	b, _ := new(big.Int).SetString(v, 10)
	return b
}

func TestAddSub_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	pairs := [][2]string{
		{"12345678901234567890", "98765432109876543210"},
		{"-12345678901234567890", "98765432109876543210"},
		{"12345678901234567890", "-98765432109876543210"},
		{"-12345678901234567890", "-98765432109876543210"},
		{"0", "123"},
		{"123", "0"},
		{"1", "-1"},
	}

	for _, p := range pairs {
		x, _ := New().SetString(p[0], 10)
		y, _ := New().SetString(p[1], 10)

		sum := New().Add(x, y)
		diff := New().Sub(x, y)

		bx, by := refBig(p[0]), refBig(p[1])
		bsum := new(big.Int).Add(bx, by)
		bdiff := new(big.Int).Sub(bx, by)

		is.Equal(bsum.String(), sum.String(), "sum of %v", p)
		is.Equal(bdiff.String(), diff.String(), "diff of %v", p)
	}
}

func TestMul_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	pairs := [][2]string{
		{"12345678901234567890123456789012345678901234567890", "98765432109876543210"},
		{"-123456789", "987654321"},
		{"0", "123456789"},
		{"2", "2"},
	}
	for _, p := range pairs {
		x, _ := New().SetString(p[0], 10)
		y, _ := New().SetString(p[1], 10)
		got := New().Mul(x, y)

		want := new(big.Int).Mul(refBig(p[0]), refBig(p[1]))
		is.Equal(want.String(), got.String(), "product of %v", p)
	}
}

func TestMul_KaratsubaMatchesSchoolbookForLargeOperands(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	// x is 284 hex digits (36 limbs) and y is 256 hex digits (32 limbs), so
	// neither is below karatsubaThreshold (32 limbs).
	xs := "f1e2d3c4b5a6978869504132a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d" +
		"4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3" +
		"d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c" +
		"3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2" +
		"c3d4e5f60718293a4b5c6d7e8f90a1b2"
	ys := "112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
		"112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
		"112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
		"112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
		"11223344"

	x, _ := New().SetString(xs, 16)
	y, _ := New().SetString(ys, 16)

	got := karatsubaMulAbs(x.limbs, y.limbs)
	want := schoolbookMulAbs(x.limbs, y.limbs)

	is.Equal(want, got)
}

func TestQuoRem_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	pairs := [][2]string{
		{"123456789012345678901234567890", "98765432109"},
		{"-123456789012345678901234567890", "98765432109"},
		{"123456789012345678901234567890", "-98765432109"},
		{"1", "123456789012345678901234567890"},
		{"123456789012345678901234567890123456789", "987654321098765432109876543210"},
	}
	for _, p := range pairs {
		x, _ := New().SetString(p[0], 10)
		y, _ := New().SetString(p[1], 10)

		var rem Int
		quo := New().QuoRem(x, y, &rem)

		bx, by := refBig(p[0]), refBig(p[1])
		bq, br := new(big.Int).QuoRem(bx, by, new(big.Int))

		is.Equal(bq.String(), quo.String(), "quo of %v", p)
		is.Equal(br.String(), rem.String(), "rem of %v", p)
	}
}

func TestQuoRem_PanicsOnDivideByZero(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on division by zero")
		}
	}()

	var rem Int
	New().QuoRem(NewFromUint64(5), New(), &rem)
}

func TestMod_AlwaysNonNegative(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	x := NewFromInt64(-7)
	m := NewFromUint64(3)
	got := New().Mod(x, m)
	is.Equal(int64(2), mustInt64(got))
}

func mustInt64(z *Int) int64 {
	v := int64(0)
	for i := len(z.limbs) - 1; i >= 0; i-- {
		v = v<<32 | int64(z.limbs[i])
	}
	if z.neg {
		v = -v
	}
	return v
}

func TestLshRsh_RoundTrip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	x, _ := New().SetString("123456789012345678901234567890", 10)
	for _, n := range []uint{0, 1, 7, 31, 32, 33, 100, 257} {
		shifted := New().Lsh(x, n)
		back := New().Rsh(shifted, n)
		is.Equal(x.String(), back.String(), "shift %d", n)
	}
}

func TestCmp_Ordering(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := NewFromInt64(-5)
	b := NewFromInt64(0)
	c := NewFromInt64(5)

	is.True(a.Cmp(b) < 0)
	is.True(b.Cmp(c) < 0)
	is.True(a.Cmp(c) < 0)
	is.Equal(0, a.Cmp(NewFromInt64(-5)))
}

func TestSqrt_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, v := range []string{"0", "1", "2", "3", "4", "99999999999999999999999999999999999999", "123456789012345678901234567890"} {
		x, _ := New().SetString(v, 10)
		got := New().Sqrt(x)
		want := new(big.Int).Sqrt(refBig(v))
		is.Equal(want.String(), got.String(), "sqrt(%s)", v)
	}
}

func TestSqrt_PanicsOnNegative(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on negative sqrt")
		}
	}()
	New().Sqrt(NewFromInt64(-1))
}

func TestGCD_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	pairs := [][2]string{
		{"123456789", "987654321"},
		{"0", "42"},
		{"42", "0"},
		{"17", "13"},
		{"1071", "462"},
	}
	for _, p := range pairs {
		x, _ := New().SetString(p[0], 10)
		y, _ := New().SetString(p[1], 10)
		got := New().GCD(x, y)

		want := new(big.Int).GCD(nil, nil, refBig(p[0]), refBig(p[1]))
		is.Equal(want.String(), got.String(), "gcd of %v", p)
	}
}

func TestModInverse_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	x, _ := New().SetString("3", 10)
	n, _ := New().SetString("11", 10)
	got, ok := New().ModInverse(x, n)
	require.True(t, ok)

	want := new(big.Int).ModInverse(refBig("3"), refBig("11"))
	is.Equal(want.String(), got.String())
}

func TestModInverse_FailsWhenNotCoprime(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	x := NewFromUint64(4)
	n := NewFromUint64(8)
	_, ok := New().ModInverse(x, n)
	is.False(ok)
}

func TestExp_MatchesMathBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	cases := []struct{ base, exp, mod string }{
		{"4", "13", "497"},
		{"2", "10", "1000"},
		{"123456789", "65537", "987654321098765432129"},
		{"5", "0", "7"},
		{"0", "0", "7"},
	}
	for _, c := range cases {
		base, _ := New().SetString(c.base, 10)
		exp, _ := New().SetString(c.exp, 10)
		mod, _ := New().SetString(c.mod, 10)

		got := New().Exp(base, exp, mod)
		want := new(big.Int).Exp(refBig(c.base), refBig(c.exp), refBig(c.mod))
		is.Equal(want.String(), got.String(), "case %+v", c)
	}
}

func TestExp_EvenModulus(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	base, _ := New().SetString("7", 10)
	exp, _ := New().SetString("20", 10)
	mod, _ := New().SetString("100", 10)

	got := New().Exp(base, exp, mod)
	want := new(big.Int).Exp(refBig("7"), refBig("20"), refBig("100"))
	is.Equal(want.String(), got.String())
}

func TestExpWithScratch_MatchesExpAcrossRepeatedCalls(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	mod, _ := New().SetString("987654321098765432129", 10)
	exps := []string{"3", "65537", "123456", "999999999"}

	var scratch MontgomeryScratch
	base, _ := New().SetString("123456789", 10)
	for _, e := range exps {
		exp, _ := New().SetString(e, 10)

		got := New().ExpWithScratch(base, exp, mod, &scratch)
		want := New().Exp(base, exp, mod)
		is.Equal(want.String(), got.String(), "exponent %s", e)
	}
}

func TestWindowBitsFor_Tiers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal(1, windowBitsFor(10))
	is.Equal(3, windowBitsFor(24))
	is.Equal(4, windowBitsFor(80))
	is.Equal(5, windowBitsFor(240))
	is.Equal(6, windowBitsFor(672))
}
