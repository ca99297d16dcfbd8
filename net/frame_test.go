package net

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-glowstone/ttesting"
)

func TestFrameRoundTrip(t *testing.T) {
	stream := &bytes.Buffer{}
	require.NoError(t, WriteFrame(stream, 0x00, []byte{0x04, 0x09}))
	require.NoError(t, WriteFrame(stream, 0x21, bytes.Repeat([]byte{0xab}, 300)))

	ttesting.AssertEqualBytes(t, "first frame", stream.Bytes()[:4], []byte{0x03, 0x00, 0x04, 0x09})

	r := bufio.NewReader(stream)
	f, err := ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, &Frame{Length: 3, Opcode: 0x00, Body: []byte{0x04, 0x09}}, f)

	f, err = ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x21), f.Opcode)
	assert.Equal(t, 301, f.Length)
	assert.Len(t, f.Body, 300)

	_, err = ReadFrame(r)
	assert.Equal(t, io.EOF, err)
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"truncated body", []byte{0x05, 0x00, 0x01}, ErrTruncatedInput},
		{"truncated length", []byte{0x80}, ErrTruncatedInput},
		{"empty frame", []byte{0x00}, ErrEmptyFrame},
		{"too large", []byte{0x80, 0x80, 0x80, 0x01}, ErrFrameTooLarge},
		{"malformed opcode", []byte{0x01, 0x80}, ErrTruncatedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bufio.NewReader(bytes.NewReader(tt.in)))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAppendFrameTooLarge(t *testing.T) {
	_, err := AppendFrame(nil, 0x21, make([]byte, MaxFrameLength))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}
