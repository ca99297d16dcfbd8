package message

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tnet "badc0de.net/pkg/go-glowstone/net"
	"badc0de.net/pkg/go-glowstone/ttesting"
)

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		codec Codec
		msg   Message
	}{
		{HandshakeCodec, Handshake{ProtocolVersion: 4, Address: "localhost", Port: 25565, NextState: 2}},
		{StatusRequestCodec, StatusRequest{}},
		{StatusResponseCodec, StatusResponse{JSON: `{"description":{"text":"hi"}}`}},
		{StatusPingCodec, StatusPing{Time: 1392498574821}},
		{LoginStartCodec, LoginStart{Username: "Notch"}},
		{EncryptionKeyRequestCodec, EncryptionKeyRequest{ServerID: "", PublicKey: []byte{0x30, 0x81}, VerifyToken: []byte{1, 2, 3, 4}}},
		{EncryptionKeyResponseCodec, EncryptionKeyResponse{SharedSecret: bytes.Repeat([]byte{7}, 128), VerifyToken: bytes.Repeat([]byte{9}, 128)}},
		{LoginSuccessCodec, LoginSuccess{UUID: "069a79f444e94726a5befca90e38aaf5", Username: "Notch"}},
		{KickCodec, NewKick("Outdated client!")},
		{KeepAliveCodec, KeepAlive{ID: -42}},
		{JoinGameCodec, JoinGame{EntityID: 1, GameMode: 1, Dimension: -1, Difficulty: 2, MaxPlayers: 20, LevelType: "flat"}},
		{ChatCodec, NewChat("<Notch> hi")},
		{IncomingChatCodec, IncomingChat{Text: "héllo"}},
		{PositionRotationCodec, PositionRotation{X: 0.5, Y: 65, Z: -0.5, Yaw: 90, Pitch: -10, OnGround: true}},
		{PlayerPositionLookCodec, PlayerPositionLook{X: 1, FeetY: 64, HeadY: 65.62, Z: 3, Yaw: 1, Pitch: 2}},
		{PlayerUpdateCodec, PlayerUpdate{OnGround: true}},
	}
	for _, tt := range tests {
		t.Run(tt.msg.Kind().String(), func(t *testing.T) {
			b, err := tt.codec.EncodeBytes(tt.msg)
			require.NoError(t, err)
			got, err := tt.codec.Decode(tnet.NewBuffer(b))
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestCodecRejectsWrongKind(t *testing.T) {
	_, err := HandshakeCodec.EncodeBytes(KeepAlive{})
	assert.Error(t, err)
}

func TestHandshakeWireFormat(t *testing.T) {
	b, err := HandshakeCodec.EncodeBytes(Handshake{ProtocolVersion: 4, Address: "a", Port: 25565, NextState: 1})
	require.NoError(t, err)
	ttesting.AssertEqualBytes(t, "handshake", b, []byte{0x04, 0x01, 'a', 0x63, 0xdd, 0x01})
}

func TestPlayWireFormat(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		msg   Message
		want  string
	}{
		{"join game", JoinGameCodec,
			JoinGame{EntityID: 1, GameMode: 1, Dimension: -1, Difficulty: 2, MaxPlayers: 20, LevelType: "flat"},
			"00000001 01 ff 02 14 04 666c6174"},
		{"position rotation", PositionRotationCodec,
			PositionRotation{X: 0.5, Y: 64, Z: -1, Yaw: 90, OnGround: true},
			"3fe0000000000000 4050000000000000 bff0000000000000 42b40000 00000000 01"},
		{"player position look", PlayerPositionLookCodec,
			PlayerPositionLook{X: 1, FeetY: 2, HeadY: 3.5, Z: 4, Yaw: -90, Pitch: 45},
			"3ff0000000000000 4000000000000000 400c000000000000 4010000000000000 c2b40000 42340000 00"},
		{"chunk header", ChunkDataCodec,
			ChunkData{X: -1, Z: 2, PrimaryMask: 0x0003, AddMask: 0x8000},
			"ffffffff 00000002 00 0003 8000 00000000"},
	}
	for _, tt := range tests {
		b, err := tt.codec.EncodeBytes(tt.msg)
		require.NoError(t, err, tt.name)
		ttesting.AssertEqualBytes(t, tt.name, b, ttesting.Hex(t, tt.want))
	}
}

func TestKickJSON(t *testing.T) {
	assert.Equal(t, `{"text":"say \"hi\""}`, NewKick(`say "hi"`).JSON)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := JoinGameCodec.Decode(tnet.NewBuffer([]byte{0, 0, 0, 1, 1}))
	assert.ErrorIs(t, err, tnet.ErrTruncatedInput)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ChunkData", KindChunkData.String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}
