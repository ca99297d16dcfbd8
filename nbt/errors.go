package nbt

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEnd is returned when the stream ends inside a tag.
	ErrUnexpectedEnd = errors.New("unexpected end of tag stream")
	// ErrTooDeep is returned for trees nested deeper than MaxDepth.
	ErrTooDeep = errors.New("tag nesting too deep")
)

// InvalidTagTypeError reports a type byte outside the known range.
type InvalidTagTypeError struct {
	Type uint8
}

func (e *InvalidTagTypeError) Error() string {
	return fmt.Sprintf("invalid tag type %d", e.Type)
}

// TypeMismatchError reports a tag of an unexpected type: a list element
// disagreeing with the list, or a typed Compound accessor.
type TypeMismatchError struct {
	Name      string
	Want, Got TagType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("tag %q: got %s, want %s", e.Name, e.Got, e.Want)
}

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found", e.Name)
}
