// Package imageprint draws images on a terminal.
package imageprint

import (
	"bufio"
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels are drawn.
type Mode int

const (
	// TrueColor paints each pixel as two cells with a 24 bit background.
	TrueColor Mode = iota
	// Palette leaves colour conversion to the terminal's capabilities.
	Palette
	// ASCII shades pixels with characters and no colour at all.
	ASCII
	// Graphics uses the terminal's inline image protocol, if it has one.
	Graphics
)

// ErrUnsupported is returned for Graphics on terminals without an image
// protocol.
var ErrUnsupported = errors.New("terminal cannot draw images")

// ParseMode accepts "truecolor", "256", "ascii" and "graphics".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "truecolor":
		return TrueColor, nil
	case "256":
		return Palette, nil
	case "ascii":
		return ASCII, nil
	case "graphics":
		return Graphics, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

// Print draws img to w.
func Print(w io.Writer, img image.Image, mode Mode) error {
	if mode == Graphics {
		return printGraphics(w, img)
	}
	bw := bufio.NewWriter(w)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(bw, img.At(x, y), mode)
		}
		if mode != ASCII {
			bw.WriteString("\x1b[0m")
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func shade(w *bufio.Writer, col ic.Color, mode Mode) {
	c := ic.NRGBAModel.Convert(col).(ic.NRGBA)
	if c.A == 0 {
		if mode == ASCII {
			w.WriteString("  ")
		} else {
			w.WriteString("\x1b[0m  ")
		}
		return
	}
	switch mode {
	case TrueColor:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
	case Palette:
		w.WriteString(color.RGB(c.R, c.G, c.B, true).Sprint("  "))
	default:
		switch a := (int(c.R) + int(c.G) + int(c.B)) / 3; {
		case a < 32:
			w.WriteString("..")
		case a < 64:
			w.WriteString("--")
		case a < 128:
			w.WriteString("==")
		default:
			w.WriteString("##")
		}
	}
}
