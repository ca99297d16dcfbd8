// Package server accepts client connections and runs a Session for each,
// wiring the frame layer, phase tables, stream encryption and handlers
// together. It also answers the handshake and status phases itself.
package server
