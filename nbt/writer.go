package nbt

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Writer writes tag trees to an underlying stream.
type Writer struct {
	bw *bufio.Writer
	gz *gzip.Writer
}

// NewWriter creates a Writer. When compressed is set the output is wrapped
// in a gzip container.
func NewWriter(w io.Writer, compressed bool) *Writer {
	if compressed {
		gz := gzip.NewWriter(w)
		return &Writer{bw: bufio.NewWriter(gz), gz: gz}
	}
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteTag writes root under name.
func (w *Writer) WriteTag(name string, root *Compound) error {
	if err := w.header(TagCompound, name); err != nil {
		return err
	}
	if err := w.payload(root, 0); err != nil {
		return err
	}
	return w.bw.Flush()
}

// Close flushes the writer and finishes the gzip container, if any. The
// underlying stream is not closed.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

func (w *Writer) header(t TagType, name string) error {
	if err := w.bw.WriteByte(byte(t)); err != nil {
		return err
	}
	return w.string(name)
}

func (w *Writer) string(s string) error {
	if !utf8.ValidString(s) {
		return errors.Errorf("string %q is not valid UTF-8", s)
	}
	if len(s) > math.MaxUint16 {
		return errors.Errorf("string of %d bytes is too long", len(s))
	}
	if err := binary.Write(w.bw, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.bw.WriteString(s)
	return err
}

func (w *Writer) num(v interface{}) error {
	return binary.Write(w.bw, binary.BigEndian, v)
}

func (w *Writer) payload(t Tag, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	switch t := t.(type) {
	case Byte:
		return w.num(int8(t))
	case Short:
		return w.num(int16(t))
	case Int:
		return w.num(int32(t))
	case Long:
		return w.num(int64(t))
	case Float:
		return w.num(float32(t))
	case Double:
		return w.num(float64(t))
	case ByteArray:
		if err := w.num(int32(len(t))); err != nil {
			return err
		}
		_, err := w.bw.Write(t)
		return err
	case String:
		return w.string(string(t))
	case IntArray:
		if err := w.num(int32(len(t))); err != nil {
			return err
		}
		return w.num([]int32(t))
	case *List:
		if err := w.bw.WriteByte(byte(t.elemType)); err != nil {
			return err
		}
		if err := w.num(int32(len(t.elems))); err != nil {
			return err
		}
		for i, e := range t.elems {
			if e.Type() != t.elemType {
				return &TypeMismatchError{Name: fmt.Sprintf("[%d]", i), Want: t.elemType, Got: e.Type()}
			}
			if err := w.payload(e, depth+1); err != nil {
				return err
			}
		}
		return nil
	case *Compound:
		for _, name := range t.names {
			child := t.tags[name]
			if err := w.header(child.Type(), name); err != nil {
				return err
			}
			if err := w.payload(child, depth+1); err != nil {
				return errors.Wrapf(err, "writing %q", name)
			}
		}
		return w.bw.WriteByte(byte(TagEnd))
	default:
		return errors.Errorf("cannot encode %T", t)
	}
}
