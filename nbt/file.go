package nbt

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Compression selects the container of a tag file.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	// LZ4 is an LZ4 frame around an uncompressed tag stream.
	LZ4 Compression = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression accepts the names of the Compression constants.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case None, Gzip, LZ4:
		return c, nil
	}
	return "", errors.Errorf("unknown compression %q", s)
}

// DetectCompression guesses the container from a file's leading bytes.
func DetectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// ReadFile reads the root tag of a file, detecting its compression from
// the leading bytes.
func ReadFile(path string) (string, *Compound, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(len(lz4Magic))
	if len(head) == 0 {
		return "", nil, errors.Wrapf(unexpected(err), "reading %s", path)
	}

	var src io.Reader = br
	compression := DetectCompression(head)
	if compression == LZ4 {
		src = lz4.NewReader(br)
	}
	r, err := NewReader(src, compression == Gzip)
	if err != nil {
		return "", nil, errors.Wrapf(err, "reading %s", path)
	}
	defer r.Close()

	name, root, err := r.ReadTag()
	if err != nil {
		return "", nil, errors.Wrapf(err, "reading %s", path)
	}
	return name, root, nil
}

// WriteFile replaces path with root. The file is written to a temporary
// name in the same directory and renamed into place.
func WriteFile(path, name string, root *Compound, compression Compression) error {
	if _, err := ParseCompression(string(compression)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var dst io.Writer = tmp
	var zw *lz4.Writer
	if compression == LZ4 {
		zw = lz4.NewWriter(tmp)
		dst = zw
	}
	w := NewWriter(dst, compression == Gzip)
	err = w.WriteTag(name, root)
	if err == nil {
		err = w.Close()
	}
	if err == nil && zw != nil {
		err = zw.Close()
	}
	if err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
