package protocol

import (
	"badc0de.net/pkg/go-glowstone/message"
)

func loginTables() (inbound, outbound []Registration) {
	inbound = []Registration{
		{Opcode: 0x00, Kind: message.KindLoginStart, Codec: message.LoginStartCodec},
		{Opcode: 0x01, Kind: message.KindEncryptionKeyResponse, Codec: message.EncryptionKeyResponseCodec},
	}
	outbound = []Registration{
		{Opcode: 0x00, Kind: message.KindKick, Codec: message.KickCodec},
		{Opcode: 0x01, Kind: message.KindEncryptionKeyRequest, Codec: message.EncryptionKeyRequestCodec},
		{Opcode: 0x02, Kind: message.KindLoginSuccess, Codec: message.LoginSuccessCodec},
	}
	return inbound, outbound
}
