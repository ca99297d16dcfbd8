//go:build !windows

package imageprint

import (
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

func printGraphics(w io.Writer, img image.Image) error {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, img); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, img); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		paletted := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(paletted, img.Bounds(), img, img.Bounds().Min)
		if err := (rasterm.Settings{}).SixelWriteImage(w, paletted); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	return ErrUnsupported
}
