// Copyright 2025 The qrforge Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qr generates QR codes.
package main

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/qrforge/qr"
	"github.com/qrforge/qr/coding"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // output filename
	lev     qr.Level        // QR correction level
	ver     coding.Version  // QR version, 0 is auto
	format  int             // output file format
	charset string          // input character set
	bg, fg  rgba            // colour
	colSet  bool            // colour set
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QR code generator\nUsage: ", cl.Program(),
		" ", cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  Input is UTF-8 unless -c is given.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println("qr version 1.0.0")
	os.Exit(0)
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	switch strings.ToLower(s) {
	case "black":
		*c = rgba{0x00, 0x00, 0x00, 0xff}
		return nil
	case "white":
		*c = rgba{0xff, 0xff, 0xff, 0xff}
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	(*qr.Code).EncodeUTF8,
	(*qr.Code).EncodeASCII,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B',
		"background colour as 3, 4, 6 or 8 hex digits, black or white",
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F',
		"foreground colour; only for types png[i]", "RGB[A]|name")
	getopt.FlagLong(&g.charset, "charset", 'c',
		"decode input from the named IANA character set", "name")
	getopt.Flag(&g.border, 'm', "quiet zone width in modules [4]",
		"margin")
	fno := getopt.Flag(&g.fn, 'o',
		`output file, or "-" for standard output`, "file")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 picks the smallest that fits", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 4, &getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 16},
		"image pixels per QR module; ignored for types utf8[i] "+
			"and ascii[i]", "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.ver = coding.Version(*ver)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(os.Stdout.Fd()) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

// decodeInput converts s from the character set named by -c to
// UTF-8.  With no -c flag the input is used as is.
func decodeInput(s string) (string, error) {
	if g.charset == "" {
		return s, nil
	}
	enc, err := ianaindex.IANA.Encoding(g.charset)
	if err != nil || enc == nil {
		return "", fmt.Errorf("%q: unknown character set", g.charset)
	}
	out, _, err := transform.String(enc.NewDecoder(), s)
	if err != nil {
		return "", fmt.Errorf("%q: %v", g.charset, err)
	}
	return out, nil
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	s, err := decodeInput(s)
	if err != nil {
		log.Fatalln(err)
	}

	c, err := qr.EncodeVersion(g.ver, g.lev, s)
	if err != nil {
		log.Fatalln(err)
	}
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}

	w := os.Stdout
	if g.fn != "" {
		if w, err = os.OpenFile(g.fn,
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666); err != nil {
			log.Fatalln(err)
		}
	}
	err = encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}
