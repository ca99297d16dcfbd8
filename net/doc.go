// Package net implements the wire primitives shared by every protocol phase.
//
// This includes the variable-length integer codec, a byte cursor used by
// message codecs to read and write fields (Buffer), and the length-prefixed
// frame which carries a single opcode and its payload.
package net
