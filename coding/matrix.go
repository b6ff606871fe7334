// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// Module flags.
const (
	flagDark = 1 << iota // module is dark
	flagFunc             // functional pattern, exempt from masking
	flagSet              // module has been written
)

// A Code is a QR code symbol: a square grid of modules.
type Code struct {
	Version Version // QR code version
	Level   Level   // QR error correction level
	Mask    int     // chosen mask index, 0 to 7
	Size    int     // number of modules on a side
	m       []uint8
}

func newCode(v Version, l Level) *Code {
	siz := v.Size()
	return &Code{Version: v, Level: l, Size: siz, m: make([]uint8, siz*siz)}
}

// Black reports whether the module at (x, y) is dark.
// Outside the symbol Black returns false.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.m[y*c.Size+x]&flagDark != 0
}

// IsCodeword reports whether the module at (x, y) carries a data or
// check bit and is subject to masking.
func (c *Code) IsCodeword(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.m[y*c.Size+x]&flagFunc == 0
}

// A Module is one cell of the symbol.
type Module struct {
	Dark     bool // true is dark
	Codeword bool // subject to masking
}

// At returns the module at (x, y).
func (c *Code) At(x, y int) Module {
	return Module{c.Black(x, y), c.IsCodeword(x, y)}
}

func (c *Code) dark(x, y int) bool {
	return c.m[y*c.Size+x]&flagDark != 0
}

func (c *Code) isSet(x, y int) bool {
	return c.m[y*c.Size+x]&flagSet != 0
}

// setFunc writes a functional module.  Writing any module twice is a
// layout bug.
func (c *Code) setFunc(x, y int, dark bool) {
	i := y*c.Size + x
	if c.m[i]&flagSet != 0 {
		panic("qr: module (" + strconv.Itoa(x) + "," + strconv.Itoa(y) +
			") written twice")
	}
	f := uint8(flagFunc | flagSet)
	if dark {
		f |= flagDark
	}
	c.m[i] = f
}

// build draws the functional patterns and reserves the format
// information area, leaving only codeword modules unset.
func (c *Code) build() {
	c.finders()
	c.alignments()
	c.versionInfo()
	c.timing()
	c.reserveFormat()
}

// finder is the canonical 7×7 finder pattern, one row per byte, the
// leftmost module in bit 6.
var finder = [7]byte{0x7f, 0x41, 0x5d, 0x5d, 0x5d, 0x41, 0x7f}

// alignment is the canonical 5×5 alignment pattern, one row per
// byte, the leftmost module in bit 4.
var alignment = [5]byte{0x1f, 0x11, 0x15, 0x11, 0x1f}

func (c *Code) finderAt(x0, y0 int) {
	for dy, row := range finder {
		for dx := 0; dx < 7; dx++ {
			c.setFunc(x0+dx, y0+dy, row>>(6-dx)&1 != 0)
		}
	}
}

// finders draws the three finder patterns and their light
// separators.
func (c *Code) finders() {
	n := c.Size
	c.finderAt(0, 0)
	c.finderAt(n-7, 0)
	c.finderAt(0, n-7)
	for i := 0; i < 8; i++ {
		c.setFunc(7, i, false)       // top left, vertical
		c.setFunc(n-8, i, false)     // top right, vertical
		c.setFunc(7, n-1-i, false)   // bottom left, vertical
	}
	for i := 0; i < 7; i++ {
		c.setFunc(i, 7, false)       // top left, horizontal
		c.setFunc(n-1-i, 7, false)   // top right, horizontal
		c.setFunc(i, n-8, false)     // bottom left, horizontal
	}
}

func (c *Code) alignBox(x0, y0 int) {
	for dy, row := range alignment {
		for dx := 0; dx < 5; dx++ {
			c.setFunc(x0-2+dx, y0-2+dy, row>>(4-dx)&1 != 0)
		}
	}
}

// alignments draws the alignment patterns at every crossing of the
// version's centre coordinates, except the three overlapping the
// finder patterns.
func (c *Code) alignments() {
	pos := c.Version.alignments()
	last := len(pos) - 1
	for i, y := range pos {
		for j, x := range pos {
			if i == 0 && (j == 0 || j == last) || i == last && j == 0 {
				continue
			}
			c.alignBox(x, y)
		}
	}
}

// versionInfo stamps the 18 bit version information into its two
// 3×6 regions: beside the top right finder and above the bottom
// left one.  Stamped before codeword placement so that the walker
// skips the region.
func (c *Code) versionInfo() {
	if c.Version < 7 {
		return
	}
	n := c.Size
	v := vptab[c.Version-7]
	for k := 0; k < 18; k++ {
		dark := v>>k&1 != 0
		x, y := n-11+k%3, k/3
		c.setFunc(x, y, dark)
		c.setFunc(y, x, dark)
	}
}

// timing draws the horizontal and vertical timing patterns in row
// and column 6, skipping modules already claimed by finder,
// separator or alignment patterns.
func (c *Code) timing() {
	for i := 0; i < c.Size; i++ {
		dark := i%2 == 0
		if !c.isSet(i, 6) {
			c.setFunc(i, 6, dark)
		}
		if !c.isSet(6, i) {
			c.setFunc(6, i, dark)
		}
	}
}

// formatCells returns the two module coordinates carrying format bit
// k, where k is the bit weight within the 15 bit format string.
// One copy wraps around the top left finder; the other is split
// between the top right and bottom left finders.  Row and column 6
// hold timing modules and are skipped.
func (c *Code) formatCells(k int) [2][2]int {
	n := c.Size
	var a, b [2]int
	switch {
	case k < 6:
		a = [2]int{8, k}
	case k < 8:
		a = [2]int{8, k + 1}
	case k == 8:
		a = [2]int{7, 8}
	default:
		a = [2]int{14 - k, 8}
	}
	if k < 8 {
		b = [2]int{n - 1 - k, 8}
	} else {
		b = [2]int{8, n - 15 + k}
	}
	return [2][2]int{a, b}
}

// reserveFormat writes light functional modules into all format
// information positions so that the codeword walker treats them as
// occupied, and draws the dark module.
func (c *Code) reserveFormat() {
	for k := 0; k < 15; k++ {
		for _, p := range c.formatCells(k) {
			c.setFunc(p[0], p[1], false)
		}
	}
	c.setFunc(8, c.Size-8, true) // dark module
}

// stampFormat writes the format information for the chosen mask over
// the reserved positions.
func (c *Code) stampFormat(mask int) {
	fb := ftab[c.Level][mask]
	for k := 0; k < 15; k++ {
		if fb>>k&1 != 0 {
			for _, p := range c.formatCells(k) {
				c.m[p[1]*c.Size+p[0]] |= flagDark
			}
		}
	}
}

// place writes the codeword stream into the matrix in zigzag scan
// order: two-column strips from the right edge leftward, alternating
// upward and downward, skipping the vertical timing column.  Modules
// left over once the stream is exhausted are the remainder bits and
// stay light.
func (c *Code) place(s *BitStream) {
	n := c.Size
	for right := n - 1; right >= 1; right -= 2 {
		if right == 6 {
			// Column 6 is the timing column at every version.
			right = 5
		}
		upward := (right+1)&2 == 0
		for i := 0; i < n; i++ {
			y := i
			if upward {
				y = n - 1 - i
			}
			for _, x := range [2]int{right, right - 1} {
				if x == 6 {
					panic("qr: codeword walker on timing column")
				}
				if c.isSet(x, y) {
					continue
				}
				f := uint8(flagSet)
				if s.Next() != 0 {
					f |= flagDark
				}
				c.m[y*n+x] = f
			}
		}
	}
}
