package crypt

import (
	"crypto/cipher"
	"fmt"

	"github.com/golang/glog"
)

// BufferReuseError is the panic value raised when a Buffer is written to
// before its previous contents were read out. It indicates a bug in the
// caller, never bad input.
type BufferReuseError struct {
	Pending int
}

func (e *BufferReuseError) Error() string {
	return fmt.Sprintf("crypt buffer written with %d bytes still unread", e.Pending)
}

// Buffer transforms one chunk at a time through a cipher stream and holds
// the result until it is read.
type Buffer struct {
	stream    cipher.Stream
	processed []byte
	stored    int
	position  int
}

// NewBuffer creates a Buffer whose slot initially holds capacity bytes. The
// slot grows if a larger chunk is written.
func NewBuffer(stream cipher.Stream, capacity int) *Buffer {
	return &Buffer{
		stream:    stream,
		processed: make([]byte, capacity),
	}
}

// Write transforms p into the slot. It panics with *BufferReuseError if the
// previous result has not been drained.
func (b *Buffer) Write(p []byte) {
	if b.stored > b.position {
		err := &BufferReuseError{Pending: b.stored - b.position}
		glog.Errorf("%v", err)
		panic(err)
	}
	if len(p) > len(b.processed) {
		b.processed = make([]byte, len(p))
	}
	b.stream.XORKeyStream(b.processed[:len(p)], p)
	b.stored = len(p)
	b.position = 0
}

// Read copies up to len(dest) transformed bytes into dest. It returns 0 when
// nothing is pending. Draining the slot completely makes it writable again.
func (b *Buffer) Read(dest []byte) int {
	if b.position >= b.stored {
		return 0
	}
	n := copy(dest, b.processed[b.position:b.stored])
	b.position += n
	if b.position == b.stored {
		b.stored, b.position = 0, 0
	}
	return n
}

// Pending reports how many transformed bytes are waiting to be read.
func (b *Buffer) Pending() int {
	return b.stored - b.position
}
