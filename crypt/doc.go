// Package crypt implements the stream encryption applied to a connection
// once login has established a shared secret.
//
// Each direction owns a Buffer: a single slot which holds the result of
// transforming one chunk of bytes until it has been read out completely.
// Reader and Writer wrap a connection and start transforming bytes from the
// moment Enable is called; before that they pass bytes through unmodified.
package crypt
