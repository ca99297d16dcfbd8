package protocol

import (
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
)

// ErrIdentitySet is returned when assigning an identity twice.
var ErrIdentitySet = errors.New("identity already set")

// Identity is the authenticated player behind a session.
type Identity struct {
	Name string
	UUID uuid.UUID
}

// CompactUUID renders the UUID without hyphens.
func (i Identity) CompactUUID() string {
	return strings.ReplaceAll(i.UUID.String(), "-", "")
}

// Session is what handlers see of a connection.
type Session interface {
	ID() uint64
	RemoteAddr() net.Addr

	Phase() Phase
	// SetPhase moves the session to another phase, subject to CheckTransition.
	// Subsequent frames in both directions use the new phase's tables.
	SetPhase(Phase) error

	// ProtocolVersion is the version announced in the handshake.
	ProtocolVersion() uint32
	SetProtocolVersion(uint32)

	// Send queues msg for writing. It is encoded with the current phase's
	// outbound table at the time of the call.
	Send(msg message.Message) error
	// EnableEncryption turns on the stream cipher for both directions. Frames
	// queued before the call are written in plaintext.
	EnableEncryption(secret []byte) error
	Encrypted() bool

	// SetIdentity may be called once.
	SetIdentity(Identity) error
	Identity() (Identity, bool)

	// Value and SetValue hold per-session state for handlers.
	Value(key string) interface{}
	SetValue(key string, v interface{})

	// Kick sends a kick message, if the phase has one, and closes the session.
	Kick(reason string)
	Close() error
}
