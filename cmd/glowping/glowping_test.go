package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-glowstone/icon"
	"badc0de.net/pkg/go-glowstone/server"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 32), uint8(y * 32), 0x80, 0xff})
		}
	}
	return img
}

func withIconMode(t *testing.T, mode string) {
	old := *iconMode
	*iconMode = mode
	t.Cleanup(func() { *iconMode = old })
}

func TestPing(t *testing.T) {
	withIconMode(t, "ascii")
	favicon, err := icon.Encode(testImage())
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := server.New(server.Options{MOTD: "ping me", MaxPlayers: 5, Favicon: favicon}, server.NewRegistry(), nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go srv.Serve(ctx, l)

	var out bytes.Buffer
	require.NoError(t, ping(ctx, &out, l.Addr().String()))
	s := out.String()
	assert.Contains(t, s, "ping me\n")
	assert.Contains(t, s, "players:  0/5\n")
	assert.Contains(t, s, "(protocol 4)")
	assert.Greater(t, strings.Count(s, "\n"), 5, "icon is drawn")
}

func TestPreviewFile(t *testing.T) {
	withIconMode(t, "none")
	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage()))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	require.NoError(t, previewFile(&out, path))
	assert.True(t, strings.HasPrefix(out.String(), "data:image/png;base64,"), out.String())

	_, err = icon.Decode(strings.TrimSpace(out.String()))
	assert.NoError(t, err)
}
