// Package icon prepares the server icon shown in client server lists.
package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

const (
	// Size is the width and height clients expect.
	Size = 64
	// MaxDataURLLength keeps the status document well within the protocol's
	// string limit.
	MaxDataURLLength = 24 * 1024

	mediaType = "image/png"
)

// Load reads an image file and returns its data URL.
func Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", path)
	}
	glog.V(1).Infof("icon %s: %s %v", path, format, img.Bounds().Size())
	return Encode(img)
}

// Encode scales img to Size and renders it as a PNG data URL. Images
// whose PNG would be too long are reduced to a 256 colour palette first.
func Encode(img image.Image) (string, error) {
	if b := img.Bounds(); b.Dx() != Size || b.Dy() != Size {
		img = resize.Resize(Size, Size, img, resize.Lanczos3)
	}
	u, err := encode(img)
	if err != nil {
		return "", err
	}
	if len(u) <= MaxDataURLLength {
		return u, nil
	}

	glog.V(1).Infof("icon data URL is %d bytes, reducing colours", len(u))
	u, err = encode(Paletted(img, 256))
	if err != nil {
		return "", err
	}
	if len(u) > MaxDataURLLength {
		return "", errors.Errorf("icon data URL is %d bytes, limit %d", len(u), MaxDataURLLength)
	}
	return u, nil
}

func encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "encoding icon")
	}
	return dataurl.New(buf.Bytes(), mediaType).String(), nil
}

// Paletted maps img onto a median cut palette of at most n colours.
func Paletted(img image.Image, n int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, n), img)
	out := image.NewPaletted(img.Bounds(), palette)
	draw.FloydSteinberg.Draw(out, img.Bounds(), img, img.Bounds().Min)
	return out
}

// Decode reverses Encode.
func Decode(u string) (image.Image, error) {
	d, err := dataurl.DecodeString(u)
	if err != nil {
		return nil, errors.Wrap(err, "parsing data URL")
	}
	if d.ContentType() != mediaType {
		return nil, errors.Errorf("icon is %s, want %s", d.ContentType(), mediaType)
	}
	return png.Decode(bytes.NewReader(d.Data))
}
