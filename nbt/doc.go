// Package nbt reads and writes named binary tags: a self-describing tree of
// typed values used for persisted world state.
//
// Every tag on the wire is a type byte, a name (unsigned 16-bit length
// followed by UTF-8) and a payload. Numbers are fixed-width big-endian.
// Compound tags hold named children terminated by an End tag. List tags
// hold unnamed payloads of a single element type. A stream carries one
// named root Compound and is normally gzip-compressed.
//
// In this package names are not part of a Tag value: a Compound owns the
// names of its children and the root name is passed to Writer.WriteTag. A
// List element therefore cannot have a name.
package nbt
