package protocol

import (
	"badc0de.net/pkg/go-glowstone/message"
)

func handshakeTables() (inbound, outbound []Registration) {
	inbound = []Registration{
		{Opcode: 0x00, Kind: message.KindHandshake, Codec: message.HandshakeCodec},
	}
	return inbound, nil
}
