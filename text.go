// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

// Terminal output.  Half block art draws light modules as full or
// half blocks, which reads correctly on the usual dark terminal
// background; set c.Reverse for the opposite.

import (
	"io"
	"strings"
)

var blocks = [4]string{"█", "▀", "▄", " "}

// String returns the code as UTF-8 half block art, one module per
// half character cell, including the quiet zone.
func (c *Code) String() string {
	var b strings.Builder
	siz, bord := c.Size, c.Border
	b.Grow((siz + 2*bord) * (siz/2 + bord + 1) * 3)
	for y := -bord; y < siz+bord; y += 2 {
		for x := -bord; x < siz+bord; x++ {
			n := 0
			if c.black(x, y) {
				n = 2
			}
			if c.black(x, y+1) {
				n++
			}
			b.WriteString(blocks[n&3])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeUTF8 writes the code to w as UTF-8 half block art.
func (c *Code) EncodeUTF8(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	_, err := io.WriteString(w, c.String())
	return err
}

// EncodeASCII writes the code to w as ASCII art, two characters per
// module.
func (c *Code) EncodeASCII(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	siz, bord := c.Size, c.Border
	pix := siz + 2*bord
	b := make([]byte, 0, (pix*2+1)*pix)
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			var p byte = ' '
			if c.black(x, y) {
				p = '#'
			}
			b = append(b, p, p)
		}
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
