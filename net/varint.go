package net

import (
	"io"
)

// MaxVarIntLen is the longest encoding of a 32-bit varint.
const MaxVarIntLen = 5

// WriteVarInt writes v using 7 bits per byte, least significant group first.
// The high bit of each byte marks that another byte follows.
func WriteVarInt(w io.ByteWriter, v uint32) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// ReadVarInt reads a varint written by WriteVarInt.
func ReadVarInt(r io.ByteReader) (uint32, error) {
	v, _, err := readVarInt(r)
	return v, err
}

// readVarInt additionally reports how many bytes were consumed, so that
// callers can tell a clean end of stream from one inside a value.
func readVarInt(r io.ByteReader) (uint32, int, error) {
	var v uint32
	for i := 0; i < MaxVarIntLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, i, ErrTruncatedInput
			}
			return 0, i, err
		}
		if i == MaxVarIntLen-1 && b > 0x0f {
			return 0, i + 1, ErrMalformedVarint
		}
		v |= uint32(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, MaxVarIntLen, ErrMalformedVarint
}

// VarIntLen returns the number of bytes WriteVarInt would emit for v.
func VarIntLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
