// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois field GF(256).
package gf256

import (
	"strconv"
	"sync"
)

// MaxECC is the largest supported Reed-Solomon generator degree.
const MaxECC = 68

// A Field represents an instance of GF(256) defined by a generator
// polynomial.
type Field struct {
	exp  [512]byte // exp[i] = α^i, repeating past index 254
	log  [256]byte // log[exp[i]] = i; log[0] is a sentinel
	once sync.Once
	gen  [MaxECC + 1][]byte // gen[e] = ∏ (x + α^i) for 0 ≤ i < e
}

// mul returns the product x·y mod poly, a carry-less multiplication.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The Reed-Solomon encoding used by QR codes is
// over the field with polynomial x⁸+x⁴+x³+x²+1 (0x11d) and
// generator 2.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}
	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: " + strconv.Itoa(α) + " is not a generator")
		}
		f.exp[i] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	for i := 255; i < len(f.exp); i++ {
		f.exp[i] = f.exp[i-255]
	}
	f.log[0] = 255
	return &f
}

// Add returns the sum of x and y in the field.
// Addition in GF(256) is XOR.
func (f *Field) Add(x, y byte) byte { return x ^ y }

// Exp returns α^e in the field.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		panic("gf256: negative exponent")
	}
	return f.exp[e%255]
}

// Log returns log base α of x in the field.  It panics if x == 0.
func (f *Field) Log(x byte) int {
	if x == 0 {
		panic("gf256: log(0)")
	}
	return int(f.log[x])
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// PolyMul returns the product of the polynomials p and q.
// Coefficients are stored most significant first.
func (f *Field) PolyMul(p, q []byte) []byte {
	r := make([]byte, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			r[i+j] ^= f.Mul(a, b)
		}
	}
	return r
}

// PolyMod returns the remainder of the polynomial p divided by the
// monic polynomial m, computed by synthetic division.  Leading zero
// coefficients are stripped from the remainder, so the zero
// polynomial is returned as an empty slice.
func (f *Field) PolyMod(p, m []byte) []byte {
	if len(m) == 0 || m[0] != 1 {
		panic("gf256: divisor not monic")
	}
	r := append([]byte(nil), p...)
	for len(r) >= len(m) {
		if c := r[0]; c != 0 {
			for i, v := range m {
				r[i] ^= f.Mul(v, c)
			}
		}
		r = r[1:]
	}
	for len(r) > 0 && r[0] == 0 {
		r = r[1:]
	}
	return r
}

// Gen returns the Reed-Solomon generator polynomial of degree e,
// ∏ (x + α^i) for 0 ≤ i < e, with coefficients most significant
// first.  The returned slice is shared and must not be modified.
func (f *Field) Gen(e int) []byte {
	if e < 0 || e > MaxECC {
		panic("gf256: invalid generator degree " + strconv.Itoa(e))
	}
	f.once.Do(f.initGen)
	return f.gen[e]
}

// initGen builds the generator polynomials iteratively:
// gen[d] = gen[d-1] · (x + α^(d-1)).
func (f *Field) initGen() {
	p := []byte{1}
	f.gen[0] = p
	for d := 1; d <= MaxECC; d++ {
		p = f.PolyMul(p, []byte{1, f.Exp(d - 1)})
		f.gen[d] = p
	}
}

// An RSEncoder computes Reed-Solomon error correction bytes.
type RSEncoder struct {
	f   *Field
	c   int
	gen []byte
	p   []byte
}

// NewRSEncoder returns an encoder generating c error correction
// bytes per call.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	return &RSEncoder{f: f, c: c, gen: f.Gen(c)}
}

// ECC writes the c error correction bytes for data into check, which
// must have length at least c.  The check bytes are the remainder of
// data·x^c divided by the degree c generator polynomial, left padded
// with zeros to length c.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	if len(check) < rs.c {
		panic("gf256: invalid check byte length")
	}
	if rs.c == 0 {
		return
	}
	n := len(data) + rs.c
	if cap(rs.p) < n {
		rs.p = make([]byte, n)
	}
	p := rs.p[:n]
	copy(p, data)
	for i := len(data); i < n; i++ {
		p[i] = 0
	}
	rem := rs.f.PolyMod(p, rs.gen)
	check = check[:rs.c]
	for i := range check {
		check[i] = 0
	}
	copy(check[rs.c-len(rem):], rem)
}
