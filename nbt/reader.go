package nbt

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// MaxDepth bounds how deeply lists and compounds may nest.
	MaxDepth = 512
	// MaxArrayLength bounds the element count of arrays and lists.
	MaxArrayLength = 1 << 24
)

// Reader reads tag trees from an underlying stream.
type Reader struct {
	br *bufio.Reader
	gz *gzip.Reader
}

// NewReader creates a Reader. When compressed is set the input must be a
// gzip container.
func NewReader(r io.Reader, compressed bool) (*Reader, error) {
	if !compressed {
		return &Reader{br: bufio.NewReader(r)}, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening gzip stream")
	}
	return &Reader{br: bufio.NewReader(gz), gz: gz}, nil
}

// ReadTag reads the next named root Compound.
func (r *Reader) ReadTag() (string, *Compound, error) {
	t, err := r.tagType()
	if err != nil {
		return "", nil, err
	}
	if t != TagCompound {
		return "", nil, &TypeMismatchError{Name: "root", Want: TagCompound, Got: t}
	}
	name, err := r.string()
	if err != nil {
		return "", nil, err
	}
	glog.V(3).Infof("reading root tag %q", name)
	c, err := r.compound(0)
	if err != nil {
		return "", nil, err
	}
	return name, c, nil
}

func (r *Reader) Close() error {
	if r.gz != nil {
		return r.gz.Close()
	}
	return nil
}

func unexpected(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEnd
	}
	return err
}

func (r *Reader) tagType() (TagType, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, unexpected(err)
	}
	t := TagType(b)
	if !t.valid() {
		return 0, &InvalidTagTypeError{Type: b}
	}
	return t, nil
}

func (r *Reader) num(v interface{}) error {
	return unexpected(binary.Read(r.br, binary.BigEndian, v))
}

func (r *Reader) length() (int, error) {
	var n int32
	if err := r.num(&n); err != nil {
		return 0, err
	}
	if n < 0 || n > MaxArrayLength {
		return 0, errors.Errorf("invalid length %d", n)
	}
	return int(n), nil
}

func (r *Reader) string() (string, error) {
	var n uint16
	if err := r.num(&n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.br, b); err != nil {
		return "", unexpected(err)
	}
	if !utf8.Valid(b) {
		return "", errors.New("string is not valid UTF-8")
	}
	return string(b), nil
}

func (r *Reader) compound(depth int) (*Compound, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	c := NewCompound()
	for {
		t, err := r.tagType()
		if err != nil {
			return nil, err
		}
		if t == TagEnd {
			return c, nil
		}
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		child, err := r.payload(t, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", name)
		}
		c.Set(name, child)
	}
}

func (r *Reader) payload(t TagType, depth int) (Tag, error) {
	switch t {
	case TagByte:
		var v int8
		err := r.num(&v)
		return Byte(v), err
	case TagShort:
		var v int16
		err := r.num(&v)
		return Short(v), err
	case TagInt:
		var v int32
		err := r.num(&v)
		return Int(v), err
	case TagLong:
		var v int64
		err := r.num(&v)
		return Long(v), err
	case TagFloat:
		var v uint32
		err := r.num(&v)
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		var v uint64
		err := r.num(&v)
		return Double(math.Float64frombits(v)), err
	case TagByteArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r.br, b); err != nil {
			return nil, unexpected(err)
		}
		return ByteArray(b), nil
	case TagString:
		s, err := r.string()
		return String(s), err
	case TagIntArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		v := make([]int32, n)
		if err := r.num(v); err != nil {
			return nil, err
		}
		return IntArray(v), nil
	case TagList:
		return r.list(depth)
	case TagCompound:
		return r.compound(depth)
	default:
		return nil, &InvalidTagTypeError{Type: uint8(t)}
	}
}

func (r *Reader) list(depth int) (*List, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	elemType, err := r.tagType()
	if err != nil {
		return nil, err
	}
	n, err := r.length()
	if err != nil {
		return nil, err
	}
	if elemType == TagEnd && n > 0 {
		return nil, errors.Wrapf(&InvalidTagTypeError{Type: uint8(TagEnd)}, "list of %d elements", n)
	}
	l := &List{elemType: elemType}
	if n > 0 {
		l.elems = make([]Tag, 0, n)
	}
	for i := 0; i < n; i++ {
		e, err := r.payload(elemType, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "reading element %d", i)
		}
		l.elems = append(l.elems, e)
	}
	return l, nil
}
