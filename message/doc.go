// Package message defines the typed messages exchanged with clients, and the
// codecs which translate each of them to and from a frame body.
//
// Messages are immutable values. A codec is bound to a message Kind, not to
// an opcode; opcodes are assigned per phase by package protocol.
package message
