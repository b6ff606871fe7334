// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/qrforge/qr/coding"

import (
	"errors"
	"strconv"

	"github.com/qrforge/qr/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")

	// ErrCapacity is returned when the data does not fit in the
	// requested version, or in any version when selecting one
	// automatically.
	ErrCapacity = errors.New("Message exceeds data capacity. " +
		"Increase version, decrease error correction level or shorten message.")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// The larger the version, the more information the code can store.
type Version int

// Code versions.
const (
	Auto       Version = 0  // pick the smallest version the data fits in
	MinVersion Version = 1  // minimum QR version
	MaxVersion Version = 40 // maximum QR version
)

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// Size returns the number of modules on a side of a QR code with the
// given version.
func (v Version) Size() int {
	return int(v)*4 + 17
}

// dataBytes returns the number of data codewords that can be stored
// in a QR code with the given version and level.
func (v Version) dataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be stored in a
// QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.dataBytes(l) * 8
}

// blockLayout returns the error correction block layout for the
// given version and level: count1 blocks of size1 data codewords
// followed by count2 blocks of size2.  Blocks differ in size by at
// most one, so size2 is either 0 or size1+1.
func (v Version) blockLayout(l Level) (size1, count1, size2, count2 int) {
	lev := &vtab[v].level[l]
	nd := v.dataBytes(l)
	size1 = nd / lev.nblock
	count2 = nd % lev.nblock
	count1 = lev.nblock - count2
	if count2 > 0 {
		size2 = size1 + 1
	}
	return
}

// countLength returns the length in bits of the byte mode character
// count field for the given version.
func (v Version) countLength() int {
	if v <= 9 {
		return 8
	}
	return 16
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Bits appends bits to a byte buffer, most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// Bits returns the number of bits written to b.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the bytes written to b.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Write appends the low nbit bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	for nbit > 0 {
		if b.nbit%8 == 0 {
			b.b = append(b.b, 0)
		}
		free := 8 - b.nbit%8
		n := min(free, nbit)
		top := v >> (nbit - n) & (1<<n - 1)
		b.b[len(b.b)-1] |= byte(top << (free - n))
		b.nbit += n
		nbit -= n
	}
}

// eciUTF8 is the ECI assignment number for UTF-8, encoded in the
// single byte form.
const eciUTF8 = 26

// writeHeader writes the ECI designator and the byte mode header for
// a payload of n bytes.
func (b *Bits) writeHeader(v Version, n int) {
	b.Write(7, 4)       // ECI mode indicator
	b.Write(eciUTF8, 8) // ECI assignment number, single byte form
	b.Write(4, 4)       // byte mode indicator
	b.Write(uint32(n), v.countLength())
}

// headerBits returns the length in bits of the ECI and byte mode
// header at the given version.
func (v Version) headerBits() int {
	return 16 + v.countLength()
}

// pad appends up to four terminator bits to b, pads it to a byte
// boundary and fills the remaining capacity of n bits with the
// alternating pad codewords ec 11.
func (b *Bits) pad(n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.Write(0, min(4, n-b.nbit))
	if r := b.nbit % 8; r != 0 {
		b.Write(0, 8-r)
	}
	for i := 0; b.nbit < n; i++ {
		b.b = append(b.b, [2]byte{0xec, 0x11}[i&1])
		b.nbit += 8
	}
}

// addCheckBytes splits the data codewords into blocks, computes the
// error correction codewords of each block and returns the final
// interleaved codeword stream.
func addCheckBytes(data []byte, v Version, l Level) []byte {
	lev := &vtab[v].level[l]
	if len(data) != v.dataBytes(l) {
		panic("qr: wrong data length")
	}
	size1, count1, size2, count2 := v.blockLayout(l)
	blocks := make([][]byte, 0, count1+count2)
	for i, size := 0, size1; i < count1+count2; i++ {
		if i == count1 {
			size = size2
		}
		blocks = append(blocks, data[:size])
		data = data[size:]
	}
	rs := gf256.NewRSEncoder(Field, lev.check)
	check := make([][]byte, len(blocks))
	for i, blk := range blocks {
		check[i] = make([]byte, lev.check)
		rs.ECC(blk, check[i])
	}
	out := make([]byte, 0, vtab[v].bytes)
	out = interleave(out, blocks)
	out = interleave(out, check)
	if len(out) != vtab[v].bytes {
		panic("qr: internal error")
	}
	return out
}

// interleave appends the blocks to out column by column: codeword i
// of every block that has one, in block order, for increasing i.
func interleave(out []byte, blocks [][]byte) []byte {
	for i := 0; ; i++ {
		done := true
		for _, blk := range blocks {
			if i < len(blk) {
				out = append(out, blk[i])
				done = false
			}
		}
		if done {
			return out
		}
	}
}

// A BitStream reads bits from an underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Next returns the next bit from s as 0 or 1.
// Past the end of the buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// findVersion returns the smallest version whose data capacity at
// level l fits a payload of n bytes.
func findVersion(n int, l Level) (Version, error) {
	for v := MinVersion; v <= MaxVersion; v++ {
		if v.headerBits()+n*8 <= v.DataBits(l) {
			return v, nil
		}
	}
	return 0, ErrCapacity
}

// Encode encodes text as a QR code with the given version and error
// correction level.  Version Auto selects the smallest version the
// text fits in.  The text is encoded as a byte mode segment preceded
// by a UTF-8 ECI designator.
func Encode(version Version, level Level, text string) (*Code, error) {
	if level < L || level > H {
		return nil, ErrLevel
	}
	switch {
	case version == Auto:
		v, err := findVersion(len(text), level)
		if err != nil {
			return nil, err
		}
		version = v
	case version < MinVersion || version > MaxVersion:
		return nil, ErrVersion
	case version.headerBits()+len(text)*8 > version.DataBits(level):
		return nil, ErrCapacity
	}

	b := new(Bits)
	b.writeHeader(version, len(text))
	for i := 0; i < len(text); i++ {
		b.Write(uint32(text[i]), 8)
	}
	b.pad(version.DataBits(level))

	c := newCode(version, level)
	c.build()
	stream := NewBitStream(addCheckBytes(b.Bytes(), version, level))
	c.place(&stream)
	c.selectMask()
	return c, nil
}
