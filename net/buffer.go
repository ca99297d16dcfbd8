package net

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MaxStringLength is the maximum number of characters in a varint-prefixed string.
const MaxStringLength = 32767

// Buffer is a cursor over a message payload. All fixed-width numbers are
// big-endian.
type Buffer struct {
	bytes.Buffer
}

// NewBuffer creates a Buffer reading from b. A nil b produces an empty
// buffer ready for writing.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{Buffer: *bytes.NewBuffer(b)}
}

func (buf *Buffer) read(v interface{}) error {
	if err := binary.Read(&buf.Buffer, binary.BigEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncatedInput
		}
		return err
	}
	return nil
}

func (buf *Buffer) write(v interface{}) error {
	return binary.Write(&buf.Buffer, binary.BigEndian, v)
}

func (buf *Buffer) ReadVarInt() (uint32, error) {
	return ReadVarInt(&buf.Buffer)
}

func (buf *Buffer) WriteVarInt(v uint32) error {
	return WriteVarInt(&buf.Buffer, v)
}

func (buf *Buffer) ReadUint8() (uint8, error) {
	var v uint8
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteUint8(v uint8) error {
	return buf.WriteByte(v)
}

func (buf *Buffer) ReadInt8() (int8, error) {
	var v int8
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteInt8(v int8) error {
	return buf.WriteByte(byte(v))
}

func (buf *Buffer) ReadBool() (bool, error) {
	b, err := buf.ReadUint8()
	return b != 0, err
}

func (buf *Buffer) WriteBool(v bool) error {
	if v {
		return buf.WriteByte(1)
	}
	return buf.WriteByte(0)
}

func (buf *Buffer) ReadUint16() (uint16, error) {
	var v uint16
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteUint16(v uint16) error {
	return buf.write(v)
}

func (buf *Buffer) ReadInt16() (int16, error) {
	var v int16
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteInt16(v int16) error {
	return buf.write(v)
}

func (buf *Buffer) ReadInt32() (int32, error) {
	var v int32
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteInt32(v int32) error {
	return buf.write(v)
}

func (buf *Buffer) ReadInt64() (int64, error) {
	var v int64
	err := buf.read(&v)
	return v, err
}

func (buf *Buffer) WriteInt64(v int64) error {
	return buf.write(v)
}

func (buf *Buffer) ReadFloat32() (float32, error) {
	var v uint32
	err := buf.read(&v)
	return math.Float32frombits(v), err
}

func (buf *Buffer) WriteFloat32(v float32) error {
	return buf.write(math.Float32bits(v))
}

func (buf *Buffer) ReadFloat64() (float64, error) {
	var v uint64
	err := buf.read(&v)
	return math.Float64frombits(v), err
}

func (buf *Buffer) WriteFloat64(v float64) error {
	return buf.write(math.Float64bits(v))
}

// ReadVarString reads a varint byte length followed by that many bytes of
// UTF-8.
func (buf *Buffer) ReadVarString() (string, error) {
	n, err := buf.ReadVarInt()
	if err != nil {
		return "", errors.Wrap(err, "reading string length")
	}
	if n > MaxStringLength*utf8.UTFMax {
		return "", errors.Wrapf(ErrStringTooLong, "%d bytes", n)
	}
	if int(n) > buf.Len() {
		return "", errors.Wrapf(ErrTruncatedInput, "string of %d bytes, %d remaining", n, buf.Len())
	}
	b := buf.Next(int(n))
	if !utf8.Valid(b) {
		return "", ErrInvalidEncoding
	}
	s := string(b)
	if utf8.RuneCountInString(s) > MaxStringLength {
		return "", errors.Wrapf(ErrStringTooLong, "%d characters", utf8.RuneCountInString(s))
	}
	return s, nil
}

func (buf *Buffer) WriteVarString(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	if n := utf8.RuneCountInString(s); n > MaxStringLength {
		return errors.Wrapf(ErrStringTooLong, "%d characters", n)
	}
	if err := buf.WriteVarInt(uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

// ReadShortBytes reads an int16 length followed by that many bytes.
func (buf *Buffer) ReadShortBytes() ([]byte, error) {
	n, err := buf.ReadInt16()
	if err != nil {
		return nil, errors.Wrap(err, "reading array length")
	}
	if n < 0 {
		return nil, errors.Errorf("negative array length %d", n)
	}
	if int(n) > buf.Len() {
		return nil, errors.Wrapf(ErrTruncatedInput, "array of %d bytes, %d remaining", n, buf.Len())
	}
	b := make([]byte, n)
	copy(b, buf.Next(int(n)))
	return b, nil
}

func (buf *Buffer) WriteShortBytes(b []byte) error {
	if len(b) > math.MaxInt16 {
		return errors.Errorf("array of %d bytes does not fit an int16 length", len(b))
	}
	if err := buf.WriteInt16(int16(len(b))); err != nil {
		return err
	}
	_, err := buf.Write(b)
	return err
}

// Rest consumes and returns everything left in the buffer.
func (buf *Buffer) Rest() []byte {
	b := make([]byte, buf.Len())
	n, _ := buf.Buffer.Read(b)
	glog.V(3).Infof("consumed remaining %d bytes", n)
	return b[:n]
}
