package icon

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vincent-petithory/dataurl"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEncodeDecode(t *testing.T) {
	orange := color.NRGBA{R: 0xff, G: 0x80, A: 0xff}
	u, err := Encode(solid(Size, Size, orange))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "data:image/png;base64,"), u)

	img, err := Decode(u)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, Size, Size), img.Bounds())
	assert.Equal(t, orange, color.NRGBAModel.Convert(img.At(10, 10)))
}

func TestEncodeResizes(t *testing.T) {
	u, err := Encode(solid(200, 100, color.White))
	require.NoError(t, err)
	img, err := Decode(u)
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())
	assert.Equal(t, Size, img.Bounds().Dy())
}

func TestEncodeNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	rng.Read(img.Pix)
	u, err := Encode(img)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(u), MaxDataURLLength)
	_, err = Decode(u)
	assert.NoError(t, err)
}

func TestPaletted(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	rng.Read(img.Pix)
	p := Paletted(img, 16)
	assert.Equal(t, img.Bounds(), p.Bounds())
	assert.LessOrEqual(t, len(p.Palette), 16)
	assert.NotEmpty(t, p.Palette)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(128, 128, color.Black)))
	require.NoError(t, f.Close())

	u, err := Load(path)
	require.NoError(t, err)
	img, err := Decode(u)
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0644))
	_, err = Load(filepath.Join(dir, "bad.png"))
	assert.Error(t, err)
}

func TestDecodeRejectsOtherTypes(t *testing.T) {
	_, err := Decode(dataurl.New([]byte("hi"), "text/plain").String())
	assert.Error(t, err)
	_, err = Decode("not a url")
	assert.Error(t, err)
}
