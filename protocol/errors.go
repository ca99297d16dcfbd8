package protocol

import (
	"fmt"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
	tnet "badc0de.net/pkg/go-glowstone/net"
)

// UnknownOpcodeError is returned when a frame's opcode has no inbound
// registration in the current phase.
type UnknownOpcodeError struct {
	Phase  Phase
	Opcode uint32
	Length int
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02x in phase %s (frame length %d)", e.Opcode, e.Phase, e.Length)
}

// UnregisteredMessageError is returned when sending a message kind which
// has no outbound registration in the current phase.
type UnregisteredMessageError struct {
	Phase Phase
	Kind  message.Kind
}

func (e *UnregisteredMessageError) Error() string {
	return fmt.Sprintf("%s cannot be sent in phase %s", e.Kind, e.Phase)
}

// TransitionError is an invalid phase change, either requested by the
// client through the handshake or attempted by a handler.
type TransitionError struct {
	From, To  Phase
	NextState uint32
}

func (e *TransitionError) Error() string {
	if e.From == Handshake && e.To == Handshake {
		return fmt.Sprintf("invalid handshake next state %d", e.NextState)
	}
	return fmt.Sprintf("invalid phase transition %s -> %s", e.From, e.To)
}

// DecodeError wraps a codec failure with the frame it occurred in.
type DecodeError struct {
	Phase  Phase
	Opcode uint32
	Kind   message.Kind
	Length int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s (opcode 0x%02x, length %d) in phase %s: %v", e.Kind, e.Opcode, e.Length, e.Phase, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsProtocolError reports whether err was caused by the peer violating the
// protocol, as opposed to the connection failing.
func IsProtocolError(err error) bool {
	var (
		unknown    *UnknownOpcodeError
		transition *TransitionError
		decode     *DecodeError
	)
	return errors.As(err, &unknown) || errors.As(err, &transition) || errors.As(err, &decode) ||
		errors.Is(err, tnet.ErrMalformedVarint) || errors.Is(err, tnet.ErrFrameTooLarge) || errors.Is(err, tnet.ErrEmptyFrame)
}
