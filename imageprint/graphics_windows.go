package imageprint

import (
	"image"
	"io"
)

func printGraphics(io.Writer, image.Image) error {
	return ErrUnsupported
}
