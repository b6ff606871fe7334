// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// calcFormat extends the 5 bit value in bits 10-14 of fb by its
// (15,5) BCH remainder over x¹⁰+x⁸+x⁵+x⁴+x²+x+1.
func calcFormat(fb uint16) uint16 {
	const poly = 0x537
	rem := fb
	for i := 4; i >= 0; i-- {
		if rem&(1<<10<<i) != 0 {
			rem ^= poly << i
		}
	}
	return fb | rem
}

func TestFormatTable(t *testing.T) {
	for l := L; l <= H; l++ {
		// ec bits: L=01, M=00, Q=11, H=10
		for m := 0; m < 8; m++ {
			fb := uint16(l^1)<<13 | uint16(m)<<10
			require.Equal(t, calcFormat(fb)^0x5412, ftab[l][m],
				"level %v mask %d", l, m)
		}
	}
}

func TestVersionInfoTable(t *testing.T) {
	for v := Version(7); v <= MaxVersion; v++ {
		const poly = 0x1f25
		rem := uint32(v) << 12
		for i := 5; i >= 0; i-- {
			if rem&(1<<12<<i) != 0 {
				rem ^= poly << i
			}
		}
		require.Equal(t, uint32(v)<<12|rem, vptab[v-7], "version %v", v)
	}
}

// Alignment pattern centres per ISO/IEC 18004 Annex E.
var wantAlignments = map[Version][]int{
	1:  nil,
	2:  {6, 18},
	3:  {6, 22},
	4:  {6, 26},
	5:  {6, 30},
	6:  {6, 34},
	7:  {6, 22, 38},
	8:  {6, 24, 42},
	9:  {6, 26, 46},
	10: {6, 28, 50},
	11: {6, 30, 54},
	12: {6, 32, 58},
	13: {6, 34, 62},
	14: {6, 26, 46, 66},
	15: {6, 26, 48, 70},
	16: {6, 26, 50, 74},
	17: {6, 30, 54, 78},
	18: {6, 30, 56, 82},
	19: {6, 30, 58, 86},
	20: {6, 34, 62, 90},
	21: {6, 28, 50, 72, 94},
	22: {6, 26, 50, 74, 98},
	23: {6, 30, 54, 78, 102},
	24: {6, 28, 54, 80, 106},
	25: {6, 32, 58, 84, 110},
	26: {6, 30, 58, 86, 114},
	27: {6, 34, 62, 90, 118},
	28: {6, 26, 50, 74, 98, 122},
	29: {6, 30, 54, 78, 102, 126},
	30: {6, 26, 52, 78, 104, 130},
	31: {6, 30, 56, 82, 108, 134},
	32: {6, 34, 60, 86, 112, 138},
	33: {6, 30, 58, 86, 114, 142},
	34: {6, 34, 62, 90, 118, 146},
	35: {6, 30, 54, 78, 102, 126, 150},
	36: {6, 24, 50, 76, 102, 128, 154},
	37: {6, 28, 54, 80, 106, 132, 158},
	38: {6, 32, 58, 84, 110, 136, 162},
	39: {6, 26, 54, 82, 110, 138, 166},
	40: {6, 30, 58, 86, 114, 142, 170},
}

func TestAlignments(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		pos := v.alignments()
		require.Equal(t, wantAlignments[v], pos, "version %v", v)
		if len(pos) > 0 {
			require.Equal(t, v.Size()-7, pos[len(pos)-1],
				"version %v last centre", v)
		}
	}
}

func TestBlockLayout(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			lev := vtab[v].level[l]
			size1, count1, size2, count2 := v.blockLayout(l)
			require.Equal(t, lev.nblock, count1+count2)
			require.Equal(t, v.dataBytes(l),
				size1*count1+size2*count2)
			if count2 > 0 {
				require.Equal(t, size1+1, size2)
			} else {
				require.Zero(t, size2)
			}
			require.Equal(t, vtab[v].bytes,
				v.dataBytes(l)+lev.nblock*lev.check,
				"version %v level %v", v, l)
			require.Positive(t, v.DataBits(l))
		}
	}
	// Spot checks against the standard tables.
	s1, c1, s2, c2 := Version(5).blockLayout(Q)
	require.Equal(t, []int{15, 2, 16, 2}, []int{s1, c1, s2, c2})
	s1, c1, s2, c2 = Version(7).blockLayout(Q)
	require.Equal(t, []int{14, 2, 15, 4}, []int{s1, c1, s2, c2})
	s1, c1, s2, c2 = Version(1).blockLayout(H)
	require.Equal(t, []int{9, 1, 0, 0}, []int{s1, c1, s2, c2})
	s1, c1, s2, c2 = Version(40).blockLayout(L)
	require.Equal(t, []int{118, 19, 119, 6}, []int{s1, c1, s2, c2})
}

func TestDataCapacities(t *testing.T) {
	// Data codeword counts for a few well-known entries.
	require.Equal(t, 19, Version(1).dataBytes(L))
	require.Equal(t, 9, Version(1).dataBytes(H))
	require.Equal(t, 28, Version(2).dataBytes(M))
	require.Equal(t, 88, Version(7).dataBytes(Q))
	require.Equal(t, 2956, Version(40).dataBytes(L))
	require.Equal(t, 1276, Version(40).dataBytes(H))
}
