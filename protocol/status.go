package protocol

import (
	"badc0de.net/pkg/go-glowstone/message"
)

func statusTables() (inbound, outbound []Registration) {
	inbound = []Registration{
		{Opcode: 0x00, Kind: message.KindStatusRequest, Codec: message.StatusRequestCodec},
		{Opcode: 0x01, Kind: message.KindStatusPing, Codec: message.StatusPingCodec},
	}
	outbound = []Registration{
		{Opcode: 0x00, Kind: message.KindStatusResponse, Codec: message.StatusResponseCodec},
		{Opcode: 0x01, Kind: message.KindStatusPing, Codec: message.StatusPingCodec},
	}
	return inbound, outbound
}
