package net

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedVarint is returned when a varint does not terminate within
	// MaxVarIntLen bytes, or carries bits beyond the 32-bit domain.
	ErrMalformedVarint = errors.New("malformed varint")
	// ErrTruncatedInput is returned when the input ends in the middle of a value.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrInvalidEncoding is returned for strings which are not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid string encoding")
	ErrStringTooLong   = errors.New("string too long")
	ErrFrameTooLarge   = errors.New("frame too large")
	ErrEmptyFrame      = errors.New("empty frame")
)
