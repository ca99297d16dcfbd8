// Package ttesting has small assertion helpers for table-driven wire tests.
// Each assertion runs as a named subtest.
package ttesting

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func AssertEqual[T comparable](t *testing.T, name string, got, want T) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualBytes(t *testing.T, name string, got, want []byte) {
	t.Run(name, func(t *testing.T) {
		if !bytes.Equal(got, want) {
			t.Errorf("got % x; want % x", got, want)
		}
	})
}

// Hex decodes a hex string, ignoring spaces. It fails the test on bad input.
func Hex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}
