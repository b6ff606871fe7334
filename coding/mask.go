// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// maskBit reports whether mask m inverts the codeword module at
// (x, y).
func maskBit(m, x, y int) bool {
	switch m {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (x/3+y/2)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	case 7:
		return ((x+y)%2+x*y%3)%2 == 0
	}
	panic("qr: invalid mask " + strconv.Itoa(m))
}

// applyMask toggles every codeword module selected by mask m.
// Masks are involutions on codeword modules: applying one twice
// restores the matrix.
func (c *Code) applyMask(m int) {
	for y := 0; y < c.Size; y++ {
		row := c.m[y*c.Size : (y+1)*c.Size]
		for x := range row {
			if row[x]&flagFunc == 0 && maskBit(m, x, y) {
				row[x] ^= flagDark
			}
		}
	}
}

// selectMask scores all eight masks and keeps the one with the
// lowest penalty, preferring the lower index on ties, then stamps
// the matching format information.
func (c *Code) selectMask() {
	best, pen := 0, 1<<30 // largest penalty is well under 1<<30
	for m := 0; m < 8; m++ {
		c.applyMask(m)
		if p := c.penalty(); p < pen {
			best, pen = m, p
		}
		c.applyMask(m)
	}
	c.applyMask(best)
	c.stampFormat(best)
	c.Mask = best
}

// Penalty scoring, ISO/IEC 18004:
//
//   - runs of 5 or more same-coloured modules in a row or column
//     score 3 + (length - 5)
//   - 2×2 blocks of one colour score 3, overlapping blocks counted
//   - the 11 module finder-like sequence (1:1:3:1:1 with 4 light
//     modules on one side) scores 40 per occurrence and orientation
//   - dark module proportion scores 10 for every full 5% away from
//     an even split
const (
	penaltyRun    = 3
	penaltyBox    = 3
	penaltyFinder = 40
	penaltyBal    = 10
)

// The finder-like sequence dark/light bits in scan order, and its
// reverse.  The newest module scanned sits in bit 0 of the window.
const (
	finderSeq  = 0b10111010000
	finderSeqR = 0b00001011101
	seqMask    = 1<<11 - 1
)

// penalty returns the penalty score of the symbol.
func (c *Code) penalty() int {
	n := c.Size
	p := 0
	ndark := 0

	// Rows: runs, finder-like sequences, dark module count.
	for y := 0; y < n; y++ {
		run, window, prev := 0, 0, false
		for x := 0; x < n; x++ {
			d := c.dark(x, y)
			if d {
				ndark++
			}
			if x > 0 && d != prev {
				if run >= 5 {
					p += penaltyRun + run - 5
				}
				run = 0
			}
			run++
			prev = d
			window = window << 1 & seqMask
			if d {
				window |= 1
			}
			if x >= 10 {
				if window == finderSeq {
					p += penaltyFinder
				}
				if window == finderSeqR {
					p += penaltyFinder
				}
			}
		}
		if run >= 5 {
			p += penaltyRun + run - 5
		}
	}

	// Columns: runs and finder-like sequences.
	for x := 0; x < n; x++ {
		run, window, prev := 0, 0, false
		for y := 0; y < n; y++ {
			d := c.dark(x, y)
			if y > 0 && d != prev {
				if run >= 5 {
					p += penaltyRun + run - 5
				}
				run = 0
			}
			run++
			prev = d
			window = window << 1 & seqMask
			if d {
				window |= 1
			}
			if y >= 10 {
				if window == finderSeq {
					p += penaltyFinder
				}
				if window == finderSeqR {
					p += penaltyFinder
				}
			}
		}
		if run >= 5 {
			p += penaltyRun + run - 5
		}
	}

	// 2×2 blocks of one colour.
	for y := 1; y < n; y++ {
		for x := 1; x < n; x++ {
			d := c.dark(x, y)
			if d == c.dark(x-1, y) && d == c.dark(x, y-1) &&
				d == c.dark(x-1, y-1) {
				p += penaltyBox
			}
		}
	}

	// Dark module proportion, in exact 5% steps away from 50%.
	sq := n * n
	d2 := 2*ndark - sq
	if d2 < 0 {
		d2 = -d2
	}
	p += penaltyBal * (d2 * 10 / sq)

	return p
}
