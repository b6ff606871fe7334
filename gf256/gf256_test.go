// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var f = NewField(0x11d, 2)

func TestExpLog(t *testing.T) {
	for x := 1; x < 256; x++ {
		require.Equal(t, byte(x), f.Exp(f.Log(byte(x))), "x=%d", x)
	}
	seen := make(map[byte]bool)
	for i := 0; i < 255; i++ {
		e := f.Exp(i)
		require.False(t, seen[e], "α^%d repeats", i)
		seen[e] = true
		require.Equal(t, i, f.Log(e))
	}
	// The exp table repeats past 254 so that products of two logs
	// need no reduction.
	for i := 255; i < 512; i++ {
		require.Equal(t, f.exp[i-255], f.exp[i], "i=%d", i)
	}
}

var mulSample = []byte{0, 1, 2, 3, 17, 29, 100, 142, 200, 255}

func TestMul(t *testing.T) {
	for _, x := range mulSample {
		require.Equal(t, byte(0), f.Mul(0, x))
		require.Equal(t, byte(0), f.Mul(x, 0))
		require.Equal(t, x, f.Mul(1, x))
		require.Equal(t, x, f.Mul(x, 1))
	}
	require.Equal(t, byte(4), f.Mul(2, 2))
	// α^8 = α^4+α^3+α^2+1 by the field polynomial
	require.Equal(t, byte(0x1d), f.Exp(8))
	for _, a := range mulSample {
		for _, b := range mulSample {
			require.Equal(t, f.Mul(a, b), f.Mul(b, a))
			for _, c := range mulSample {
				require.Equal(t,
					f.Mul(a, f.Mul(b, c)),
					f.Mul(f.Mul(a, b), c),
					"a=%d b=%d c=%d", a, b, c)
			}
		}
	}
}

func TestPolyMul(t *testing.T) {
	α, α2, α3 := f.Exp(1), f.Exp(2), f.Exp(3)
	// (x + α)(x + α²) = x² + (α+α²)x + α³
	require.Equal(t, []byte{1, α ^ α2, α3},
		f.PolyMul([]byte{1, α}, []byte{1, α2}))
	require.Equal(t, []byte{1, 3, 2},
		f.PolyMul([]byte{1, 1}, []byte{1, 2}))
}

func TestGen(t *testing.T) {
	require.Equal(t, []byte{1}, f.Gen(0))
	require.Equal(t, []byte{1, 1}, f.Gen(1))
	require.Equal(t, []byte{1, 3, 2}, f.Gen(2))
	for e := 0; e <= MaxECC; e++ {
		gen := f.Gen(e)
		require.Len(t, gen, e+1)
		require.Equal(t, byte(1), gen[0], "degree %d not monic", e)
		// α^0 .. α^(e-1) are the roots of the generator.
		for i := 0; i < e; i++ {
			x := f.Exp(i)
			var val byte
			for _, coeff := range gen {
				val = f.Mul(val, x) ^ coeff
			}
			require.Equal(t, byte(0), val,
				"gen(%d) at α^%d", e, i)
		}
	}
}

func TestPolyMod(t *testing.T) {
	gen := f.Gen(4)
	p := f.PolyMul(gen, []byte{7, 0, 13, 200})
	require.Empty(t, f.PolyMod(p, gen))
	rem := f.PolyMod([]byte{1, 2, 3, 4, 5, 6, 7, 8}, gen)
	require.Less(t, len(rem), len(gen))
	if len(rem) > 0 {
		require.NotEqual(t, byte(0), rem[0])
	}
	require.Empty(t, f.PolyMod([]byte{0, 0, 0}, []byte{1, 1}))
}

func TestECC(t *testing.T) {
	// x·d mod (x+1) = d
	rs := NewRSEncoder(f, 1)
	check := make([]byte, 1)
	rs.ECC([]byte{0x55}, check)
	require.Equal(t, []byte{0x55}, check)

	// x² mod (x² + 3x + 2) = 3x + 2
	rs = NewRSEncoder(f, 2)
	check = make([]byte, 2)
	rs.ECC([]byte{1}, check)
	require.Equal(t, []byte{3, 2}, check)

	// Known vector: version 1-M data codewords.
	data := []byte{
		32, 91, 11, 120, 209, 114, 220, 77,
		67, 64, 236, 17, 236, 17, 236, 17,
	}
	rs = NewRSEncoder(f, 10)
	check = make([]byte, 10)
	rs.ECC(data, check)
	require.Equal(t,
		[]byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23},
		check)
}

func TestECCResidue(t *testing.T) {
	for _, e := range []int{7, 10, 13, 17, 22, 30, 68} {
		rs := NewRSEncoder(f, e)
		data := make([]byte, 40)
		for i := range data {
			data[i] = byte(i*7 + e)
		}
		check := make([]byte, e)
		rs.ECC(data, check)
		// data‖check is divisible by the generator
		require.Empty(t,
			f.PolyMod(append(append([]byte(nil), data...), check...),
				f.Gen(e)),
			"degree %d", e)
	}
}
