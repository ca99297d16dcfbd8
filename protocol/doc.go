// Package protocol maps opcodes to message codecs and handlers for each of
// the four connection phases, and reads and writes typed messages as frames.
//
// A Protocol is one phase's pair of tables (inbound and outbound). The four
// tables are plain configuration values fed to a single engine, New. A Set
// bundles the four phases with handlers attached and is shared, read-only,
// by every session.
package protocol

const (
	// Version is the protocol version spoken by the server.
	Version = 4
	// VersionName is the client release matching Version.
	VersionName = "1.7.2"
	// DefaultPort is where clients connect unless told otherwise.
	DefaultPort = 25565
)
