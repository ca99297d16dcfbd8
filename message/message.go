package message

import (
	"fmt"

	"github.com/pkg/errors"

	tnet "badc0de.net/pkg/go-glowstone/net"
)

// Kind identifies a message variant.
type Kind int

const (
	KindHandshake Kind = iota + 1

	KindStatusRequest
	KindStatusResponse
	KindStatusPing

	KindLoginStart
	KindEncryptionKeyRequest
	KindEncryptionKeyResponse
	KindLoginSuccess

	KindKick
	KindKeepAlive
	KindJoinGame
	KindChat
	KindIncomingChat
	KindPositionRotation
	KindPlayerPositionLook
	KindPlayerUpdate
	KindChunkData
)

var kindNames = map[Kind]string{
	KindHandshake:             "Handshake",
	KindStatusRequest:         "StatusRequest",
	KindStatusResponse:        "StatusResponse",
	KindStatusPing:            "StatusPing",
	KindLoginStart:            "LoginStart",
	KindEncryptionKeyRequest:  "EncryptionKeyRequest",
	KindEncryptionKeyResponse: "EncryptionKeyResponse",
	KindLoginSuccess:          "LoginSuccess",
	KindKick:                  "Kick",
	KindKeepAlive:             "KeepAlive",
	KindJoinGame:              "JoinGame",
	KindChat:                  "Chat",
	KindIncomingChat:          "IncomingChat",
	KindPositionRotation:      "PositionRotation",
	KindPlayerPositionLook:    "PlayerPositionLook",
	KindPlayerUpdate:          "PlayerUpdate",
	KindChunkData:             "ChunkData",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message is implemented by every message variant.
type Message interface {
	Kind() Kind
}

var (
	// ErrOutboundOnly is returned when decoding a message the server only ever sends.
	ErrOutboundOnly = errors.New("message is outbound only")
	// ErrCompressionFailure is returned when a compressed payload cannot be
	// produced or inflated.
	ErrCompressionFailure = errors.New("compression failure")
)

// Codec translates one message kind to and from a frame body.
type Codec struct {
	Encode func(buf *tnet.Buffer, msg Message) error
	Decode func(buf *tnet.Buffer) (Message, error)
}

func codecOf[M Message](encode func(*tnet.Buffer, M) error, decode func(*tnet.Buffer) (M, error)) Codec {
	return Codec{
		Encode: func(buf *tnet.Buffer, msg Message) error {
			m, ok := msg.(M)
			if !ok {
				var want M
				return errors.Errorf("codec for %s cannot encode %s", want.Kind(), msg.Kind())
			}
			return encode(buf, m)
		},
		Decode: func(buf *tnet.Buffer) (Message, error) {
			m, err := decode(buf)
			if err != nil {
				var want M
				return nil, errors.Wrapf(err, "decoding %s", want.Kind())
			}
			return m, nil
		},
	}
}

// EncodeBytes encodes msg into a fresh byte slice.
func (c Codec) EncodeBytes(msg Message) ([]byte, error) {
	buf := tnet.NewBuffer(nil)
	if err := c.Encode(buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
