package net

import (
	"bytes"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MaxFrameLength is the largest frame length accepted, the largest value a
// three byte varint can hold.
const MaxFrameLength = 1<<21 - 1

// Reader is what ReadFrame consumes; *bufio.Reader satisfies it.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Frame is one length-delimited unit of the stream.
//
// Length counts the opcode varint and the body.
type Frame struct {
	Length int
	Opcode uint32
	Body   []byte
}

// ReadFrame blocks until one whole frame is available on r.
//
// io.EOF is returned unchanged only when the stream ends cleanly between
// frames.
func ReadFrame(r Reader) (*Frame, error) {
	length, n, err := readVarInt(r)
	if err != nil {
		if n == 0 && err == ErrTruncatedInput {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "reading frame length")
	}
	if length == 0 {
		return nil, ErrEmptyFrame
	}
	if length > MaxFrameLength {
		return nil, errors.Wrapf(ErrFrameTooLarge, "length %d", length)
	}

	glog.V(3).Infof("incoming frame len: %d", length)

	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrTruncatedInput, "frame body of %d bytes", length)
		}
		return nil, errors.Wrap(err, "reading frame body")
	}

	body := bytes.NewReader(b)
	opcode, err := ReadVarInt(body)
	if err != nil {
		return nil, errors.Wrap(err, "reading opcode")
	}
	return &Frame{
		Length: int(length),
		Opcode: opcode,
		Body:   b[len(b)-body.Len():],
	}, nil
}

// AppendFrame appends the encoded frame for opcode and body to dst.
func AppendFrame(dst []byte, opcode uint32, body []byte) ([]byte, error) {
	length := VarIntLen(opcode) + len(body)
	if length > MaxFrameLength {
		return dst, errors.Wrapf(ErrFrameTooLarge, "length %d", length)
	}
	buf := bytes.NewBuffer(dst)
	WriteVarInt(buf, uint32(length))
	WriteVarInt(buf, opcode)
	buf.Write(body)
	return buf.Bytes(), nil
}

// WriteFrame writes a single frame to w with one Write call.
func WriteFrame(w io.Writer, opcode uint32, body []byte) error {
	b, err := AppendFrame(nil, opcode, body)
	if err != nil {
		return err
	}
	n, err := w.Write(b)
	if err != nil {
		return errors.Wrap(err, "writing frame")
	}
	glog.V(3).Infof("written frame of %d bytes", n)
	return nil
}
