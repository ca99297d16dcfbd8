package crypt

import (
	"io"
)

// ByteReader is the source a Reader decrypts. Decrypting above a buffered
// reader means nothing past the current frame has been consumed at the
// moment encryption is enabled.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// Reader passes bytes through from its source until Enable is called, and
// decrypts them afterwards. It must only be used from one goroutine.
type Reader struct {
	src     ByteReader
	buf     *Buffer
	scratch []byte
	one     [1]byte
}

func NewReader(src ByteReader) *Reader {
	return &Reader{src: src}
}

// Enable decrypts every byte read from now on through buf.
func (r *Reader) Enable(buf *Buffer) {
	r.buf = buf
	r.scratch = make([]byte, len(buf.processed))
}

func (r *Reader) Enabled() bool {
	return r.buf != nil
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.buf == nil {
		return r.src.Read(p)
	}
	if n := r.buf.Read(p); n > 0 {
		return n, nil
	}
	want := len(p)
	if want > len(r.scratch) {
		want = len(r.scratch)
	}
	n, err := r.src.Read(r.scratch[:want])
	if n == 0 {
		return 0, err
	}
	r.buf.Write(r.scratch[:n])
	return r.buf.Read(p), err
}

func (r *Reader) ReadByte() (byte, error) {
	if r.buf == nil {
		return r.src.ReadByte()
	}
	if r.buf.Read(r.one[:]) == 1 {
		return r.one[0], nil
	}
	c, err := r.src.ReadByte()
	if err != nil {
		return 0, err
	}
	r.one[0] = c
	r.buf.Write(r.one[:])
	r.buf.Read(r.one[:])
	return r.one[0], nil
}

// Writer passes bytes through to its destination until Enable is called,
// and encrypts them afterwards. It must only be used from one goroutine.
type Writer struct {
	dst io.Writer
	buf *Buffer
	out []byte
}

func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Enable encrypts every byte written from now on through buf.
func (w *Writer) Enable(buf *Buffer) {
	w.buf = buf
	w.out = make([]byte, len(buf.processed))
}

func (w *Writer) Enabled() bool {
	return w.buf != nil
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.buf == nil {
		return w.dst.Write(p)
	}
	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > len(w.out) {
			chunk = chunk[:len(w.out)]
		}
		w.buf.Write(chunk)
		n := w.buf.Read(w.out)
		if _, err := w.dst.Write(w.out[:n]); err != nil {
			return written, err
		}
		written += n
		p = p[n:]
	}
	return written, nil
}
