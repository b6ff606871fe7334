// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.
*/
package qr // import "github.com/qrforge/qr"

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/qrforge/qr/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

// ErrArgs is returned by renderers called on an invalid Code.
var ErrArgs = errors.New("qr: invalid arguments")

// A Code is a square pixel grid with rendering options.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white
	Size    int             // number of pixels on a side
	Stride  int             // number of bytes per row
	Version int             // QR version of the code
	Mask    int             // data mask chosen by the encoder
	Scale   int             // image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Reverse bool            // render with colours swapped
	Palette *[2]color.Color // background, foreground colour
}

// Encode returns an encoding of text at the given error correction
// level, using the smallest QR version the text fits in.
func Encode(text string, level Level) (*Code, error) {
	return EncodeVersion(coding.Auto, level, text)
}

// EncodeVersion returns an encoding of text at the given version and
// error correction level.  Version coding.Auto selects the smallest
// version the text fits in.
func EncodeVersion(version coding.Version, level Level, text string) (*Code, error) {
	cc, err := coding.Encode(version, coding.Level(level), text)
	if err != nil {
		return nil, err
	}
	siz := cc.Size
	stride := (siz + 7) / 8
	c := &Code{
		Bitmap:  make([]byte, siz*stride),
		Size:    siz,
		Stride:  stride,
		Version: int(cc.Version),
		Mask:    cc.Mask,
		Scale:   8,
		Border:  4,
	}
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if cc.Black(x, y) {
				c.Bitmap[y*stride+x/8] |= 0x80 >> (x & 7)
			}
		}
	}
	return c, nil
}

// Black reports whether the pixel at (x, y) is black.
// Outside the code Black returns false.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// black reports whether the pixel at (x, y) is rendered in the
// foreground colour, honouring c.Reverse.
func (c *Code) black(x, y int) bool {
	return c.Black(x, y) != c.Reverse
}

func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Scale > 0 && c.Border >= 0 &&
		c.Stride >= (c.Size+7)/8 && len(c.Bitmap) >= c.Size*c.Stride
}

// colors returns the background and foreground colours,
// honouring c.Palette and c.Reverse.
func (c *Code) colors() (bg, fg color.Color) {
	bg, fg = whiteColor, blackColor
	if c.Palette != nil {
		bg, fg = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		bg, fg = fg, bg
	}
	return bg, fg
}

// Image returns an image displaying the code, c.Scale pixels per
// module with a quiet zone of c.Border modules.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	return png.Encode(w, c.Image())
}

// codeImage implements image.Image.
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	bg, fg := c.colors()
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return fg
	}
	return bg
}

func (c *codeImage) ColorModel() color.Model {
	if c.Palette == nil {
		return color.GrayModel
	}
	return color.RGBAModel
}
