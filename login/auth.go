package login

import (
	"context"
	"crypto/md5"

	"github.com/google/uuid"

	"badc0de.net/pkg/go-glowstone/protocol"
)

// KeyExchanger holds the server's key pair for the encryption handshake.
// secrets.KeyPair implements it.
type KeyExchanger interface {
	// PublicKey is sent to the client, DER encoded.
	PublicKey() []byte
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Authenticator resolves a username to an identity. serverHash is empty
// when the connection is not encrypted.
type Authenticator interface {
	Authenticate(ctx context.Context, name, serverHash string) (protocol.Identity, error)
}

// OfflineAuthenticator accepts every name and derives its UUID from it.
type OfflineAuthenticator struct{}

func (OfflineAuthenticator) Authenticate(_ context.Context, name, _ string) (protocol.Identity, error) {
	return protocol.Identity{Name: name, UUID: OfflineUUID(name)}, nil
}

// OfflineUUID is the version 3 UUID of the MD5 of "OfflinePlayer:"+name,
// which is what clients expect of servers that do not authenticate.
func OfflineUUID(name string) uuid.UUID {
	h := md5.Sum([]byte("OfflinePlayer:" + name))
	h[6] = h[6]&0x0f | 0x30
	h[8] = h[8]&0x3f | 0x80
	return uuid.UUID(h)
}
