package protocol

import (
	"badc0de.net/pkg/go-glowstone/message"
)

func playTables() (inbound, outbound []Registration) {
	inbound = []Registration{
		{Opcode: 0x00, Kind: message.KindKeepAlive, Codec: message.KeepAliveCodec},
		{Opcode: 0x01, Kind: message.KindIncomingChat, Codec: message.IncomingChatCodec},
		{Opcode: 0x03, Kind: message.KindPlayerUpdate, Codec: message.PlayerUpdateCodec},
		{Opcode: 0x06, Kind: message.KindPlayerPositionLook, Codec: message.PlayerPositionLookCodec},
	}
	outbound = []Registration{
		{Opcode: 0x00, Kind: message.KindKeepAlive, Codec: message.KeepAliveCodec},
		{Opcode: 0x01, Kind: message.KindJoinGame, Codec: message.JoinGameCodec},
		{Opcode: 0x02, Kind: message.KindChat, Codec: message.ChatCodec},
		{Opcode: 0x08, Kind: message.KindPositionRotation, Codec: message.PositionRotationCodec},
		{Opcode: 0x21, Kind: message.KindChunkData, Codec: message.ChunkDataCodec},
		{Opcode: 0x40, Kind: message.KindKick, Codec: message.KickCodec},
	}
	return inbound, outbound
}
