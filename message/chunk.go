package message

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	tnet "badc0de.net/pkg/go-glowstone/net"
)

// ChunkData carries one chunk column. Data is the uncompressed section
// payload; an empty Data unloads the column on the client.
type ChunkData struct {
	X, Z        int32
	Continuous  bool
	PrimaryMask uint16
	AddMask     uint16
	Data        []byte
}

func (ChunkData) Kind() Kind { return KindChunkData }

// UnloadChunk builds the message telling the client to forget a column.
func UnloadChunk(x, z int32) ChunkData {
	return ChunkData{X: x, Z: z, Continuous: true}
}

// ChunkDataCodec only encodes; the client never sends chunk data.
var ChunkDataCodec = codecOf(encodeChunkData, func(*tnet.Buffer) (ChunkData, error) {
	return ChunkData{}, ErrOutboundOnly
})

func encodeChunkData(buf *tnet.Buffer, m ChunkData) error {
	for _, v := range []int32{m.X, m.Z} {
		if err := buf.WriteInt32(v); err != nil {
			return err
		}
	}
	if err := buf.WriteBool(m.Continuous); err != nil {
		return err
	}
	for _, v := range []uint16{m.PrimaryMask, m.AddMask} {
		if err := buf.WriteUint16(v); err != nil {
			return err
		}
	}
	if len(m.Data) == 0 {
		return buf.WriteInt32(0)
	}

	compressed, err := DeflateChunk(m.Data)
	if err != nil {
		return err
	}
	glog.V(3).Infof("chunk %d,%d: deflated %d bytes to %d", m.X, m.Z, len(m.Data), len(compressed))
	if err := buf.WriteInt32(int32(len(compressed))); err != nil {
		return err
	}
	_, err = buf.Write(compressed)
	return err
}

// CompressionError carries the zlib error behind a chunk payload failure.
// It matches ErrCompressionFailure with errors.Is and unwraps to the cause.
type CompressionError struct {
	Op  string
	Err error
}

func (e *CompressionError) Error() string {
	return ErrCompressionFailure.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *CompressionError) Unwrap() error { return e.Err }

func (e *CompressionError) Is(target error) bool { return target == ErrCompressionFailure }

// DeflateChunk compresses a chunk payload with zlib at the default level.
func DeflateChunk(data []byte) ([]byte, error) {
	out := &bytes.Buffer{}
	w, err := zlib.NewWriterLevel(out, zlib.DefaultCompression)
	if err != nil {
		return nil, &CompressionError{Op: "deflate", Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return nil, &CompressionError{Op: "deflate", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, &CompressionError{Op: "deflate", Err: err}
	}
	if out.Len() == 0 {
		return nil, &CompressionError{Op: "deflate", Err: errors.New("no output")}
	}
	return out.Bytes(), nil
}

// InflateChunk reverses DeflateChunk.
func InflateChunk(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &CompressionError{Op: "inflate", Err: err}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &CompressionError{Op: "inflate", Err: err}
	}
	return data, nil
}

// ParseChunkData reads a chunk data body the way a client would, inflating
// the payload. The server never needs this; it exists for tooling and tests.
func ParseChunkData(body []byte) (ChunkData, error) {
	buf := tnet.NewBuffer(body)
	var m ChunkData
	var err error
	if m.X, err = buf.ReadInt32(); err != nil {
		return m, err
	}
	if m.Z, err = buf.ReadInt32(); err != nil {
		return m, err
	}
	if m.Continuous, err = buf.ReadBool(); err != nil {
		return m, err
	}
	if m.PrimaryMask, err = buf.ReadUint16(); err != nil {
		return m, err
	}
	if m.AddMask, err = buf.ReadUint16(); err != nil {
		return m, err
	}
	n, err := buf.ReadInt32()
	if err != nil {
		return m, err
	}
	if n < 0 || int(n) > buf.Len() {
		return m, errors.Wrapf(tnet.ErrTruncatedInput, "compressed length %d, %d remaining", n, buf.Len())
	}
	if n == 0 {
		return m, nil
	}
	m.Data, err = InflateChunk(buf.Next(int(n)))
	return m, err
}
