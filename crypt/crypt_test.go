package crypt

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	tnet "badc0de.net/pkg/go-glowstone/net"
	"badc0de.net/pkg/go-glowstone/ttesting"
)

// NIST SP 800-38A, F.3.7 CFB8-AES128.
func TestCFB8KnownVector(t *testing.T) {
	key := ttesting.Hex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	iv := ttesting.Hex(t, "000102030405060708090a0b0c0d0e0f")
	plain := ttesting.Hex(t, "6bc1bee22e409f96e93d7e117393172aae2d")
	want := ttesting.Hex(t, "3b79424c9c0dd436bace9e0ed4586a4f32b9")

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	got := make([]byte, len(plain))
	newCFB8(block, iv, false).XORKeyStream(got, plain)
	ttesting.AssertEqualBytes(t, "encrypt", got, want)

	back := make([]byte, len(want))
	dec := newCFB8(block, iv, true)
	dec.XORKeyStream(back[:5], want[:5])
	dec.XORKeyStream(back[5:], want[5:])
	ttesting.AssertEqualBytes(t, "decrypt in pieces", back, plain)
}

func TestNewStreams(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, 16)
	for _, algo := range Algorithms {
		t.Run(algo, func(t *testing.T) {
			enc, dec, err := NewStreams(algo, secret)
			require.NoError(t, err)
			plain := []byte("the quick brown fox")
			ct := make([]byte, len(plain))
			enc.XORKeyStream(ct, plain)
			assert.NotEqual(t, plain, ct)
			pt := make([]byte, len(ct))
			dec.XORKeyStream(pt, ct)
			assert.Equal(t, plain, pt)
		})
	}

	_, _, err := NewStreams("rot13", secret)
	assert.Error(t, err)
	_, _, err = NewStreams("aes", []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestBufferReadEmpty(t *testing.T) {
	p, err := NewProcessor("aes", make([]byte, 16), 16)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Decoder().Read(make([]byte, 4)))
}

func TestBufferFIFO(t *testing.T) {
	secret := bytes.Repeat([]byte{7}, 16)
	rapid.Check(t, func(t *rapid.T) {
		enc, _, err := NewStreams("aes", secret)
		if err != nil {
			t.Fatal(err)
		}
		ref, _, _ := NewStreams("aes", secret)
		buf := NewBuffer(enc, 32)

		chunks := rapid.SliceOfN(rapid.SliceOfN(rapid.Byte(), 1, 100), 1, 10).Draw(t, "chunks")
		for _, chunk := range chunks {
			want := make([]byte, len(chunk))
			ref.XORKeyStream(want, chunk)

			buf.Write(chunk)
			var got []byte
			for buf.Pending() > 0 {
				piece := make([]byte, rapid.IntRange(1, 16).Draw(t, "piece"))
				n := buf.Read(piece)
				got = append(got, piece[:n]...)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("got % x; want % x", got, want)
			}
			if n := buf.Read(make([]byte, 1)); n != 0 {
				t.Fatalf("drained buffer returned %d bytes", n)
			}
		}
	})
}

func TestBufferReuseViolation(t *testing.T) {
	p, err := NewProcessor("aes", make([]byte, 16), 16)
	require.NoError(t, err)
	buf := p.Encoder()
	buf.Write([]byte{1, 2, 3, 4})
	buf.Read(make([]byte, 2))

	defer func() {
		r := recover()
		reuse, ok := r.(*BufferReuseError)
		if assert.True(t, ok, "panic value %v", r) {
			assert.Equal(t, 2, reuse.Pending)
		}
	}()
	buf.Write([]byte{5})
	t.Fatal("write into undrained buffer did not panic")
}

func TestProcessorDirectionsIndependent(t *testing.T) {
	secret := bytes.Repeat([]byte{9}, 16)
	server, err := NewProcessor("aes", secret, 64)
	require.NoError(t, err)
	client, err := NewProcessor("aes", secret, 64)
	require.NoError(t, err)
	assert.NotSame(t, server.Encoder(), server.Decoder())

	toClient := []byte("server to client")
	toServer := []byte("client to server")

	server.Encoder().Write(toClient)
	client.Encoder().Write(toServer)

	wire1 := make([]byte, 64)
	wire1 = wire1[:server.Encoder().Read(wire1)]
	wire2 := make([]byte, 64)
	wire2 = wire2[:client.Encoder().Read(wire2)]

	client.Decoder().Write(wire1)
	server.Decoder().Write(wire2)

	got := make([]byte, 64)
	assert.Equal(t, toClient, got[:client.Decoder().Read(got)])
	assert.Equal(t, toServer, got[:server.Decoder().Read(got)])
}

func TestActivationBoundary(t *testing.T) {
	secret := bytes.Repeat([]byte{3}, 16)
	client, err := NewProcessor("aes", secret, 16)
	require.NoError(t, err)

	// One plaintext frame, immediately followed by an encrypted one, both
	// already sitting in the socket buffer.
	wire := &bytes.Buffer{}
	require.NoError(t, tnet.WriteFrame(wire, 0x01, []byte("plain")))
	cw := NewWriter(wire)
	cw.Enable(client.Encoder())
	require.NoError(t, tnet.WriteFrame(cw, 0x02, bytes.Repeat([]byte("secret "), 10)))

	server, err := NewProcessor("aes", secret, 16)
	require.NoError(t, err)
	r := NewReader(bufio.NewReader(wire))

	f, err := tnet.ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), f.Body)

	r.Enable(server.Decoder())
	f, err = tnet.ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x02), f.Opcode)
	assert.Equal(t, bytes.Repeat([]byte("secret "), 10), f.Body)
}

func TestWriterPassThrough(t *testing.T) {
	out := &bytes.Buffer{}
	w := NewWriter(out)
	assert.False(t, w.Enabled())
	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", out.String())
}
