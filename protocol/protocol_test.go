package protocol

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-glowstone/message"
	tnet "badc0de.net/pkg/go-glowstone/net"
)

var samples = map[message.Kind]message.Message{
	message.KindHandshake:             message.Handshake{ProtocolVersion: 4, Address: "example.org", Port: 25565, NextState: 2},
	message.KindStatusRequest:         message.StatusRequest{},
	message.KindStatusResponse:        message.StatusResponse{JSON: `{"players":{"max":20,"online":0}}`},
	message.KindStatusPing:            message.StatusPing{Time: 12345},
	message.KindLoginStart:            message.LoginStart{Username: "jeb_"},
	message.KindEncryptionKeyRequest:  message.EncryptionKeyRequest{ServerID: "x", PublicKey: []byte{1, 2}, VerifyToken: []byte{3, 4, 5, 6}},
	message.KindEncryptionKeyResponse: message.EncryptionKeyResponse{SharedSecret: []byte{1}, VerifyToken: []byte{2}},
	message.KindLoginSuccess:          message.LoginSuccess{UUID: "853c80ef3c3749fdaa49938b674adae6", Username: "jeb_"},
	message.KindKick:                  message.NewKick("bye"),
	message.KindKeepAlive:             message.KeepAlive{ID: 99},
	message.KindJoinGame:              message.JoinGame{EntityID: 3, MaxPlayers: 20, LevelType: "default"},
	message.KindChat:                  message.NewChat("hello"),
	message.KindIncomingChat:          message.IncomingChat{Text: "hello"},
	message.KindPositionRotation:      message.PositionRotation{X: 1, Y: 2, Z: 3},
	message.KindPlayerPositionLook:    message.PlayerPositionLook{X: 1, FeetY: 2, HeadY: 3.62, Z: 4},
	message.KindPlayerUpdate:          message.PlayerUpdate{OnGround: true},
	message.KindChunkData:             message.ChunkData{X: 1, Z: 1, Continuous: true, PrimaryMask: 1, Data: bytes.Repeat([]byte{7}, 100)},
}

func TestEveryRegistrationRoundTrips(t *testing.T) {
	set := NewSet(nil)
	for _, phase := range []Phase{Handshake, Status, Login, Play} {
		p := set.Get(phase)
		for _, dir := range []Direction{Inbound, Outbound} {
			for _, r := range p.Registrations(dir) {
				t.Run(phase.String()+"/"+dir.String()+"/"+r.Kind.String(), func(t *testing.T) {
					msg, ok := samples[r.Kind]
					require.True(t, ok, "no sample for %s", r.Kind)

					body, err := r.Codec.EncodeBytes(msg)
					require.NoError(t, err)
					stream := &bytes.Buffer{}
					require.NoError(t, tnet.WriteFrame(stream, r.Opcode, body))

					f, err := tnet.ReadFrame(bufio.NewReader(stream))
					require.NoError(t, err)
					assert.Equal(t, r.Opcode, f.Opcode)

					if r.Kind == message.KindChunkData {
						got, err := message.ParseChunkData(f.Body)
						require.NoError(t, err)
						assert.Equal(t, msg, got)
						return
					}
					got, err := r.Codec.Decode(tnet.NewBuffer(f.Body))
					require.NoError(t, err)
					assert.Equal(t, msg, got)
				})
			}
		}
	}
}

func TestReadWriteMessage(t *testing.T) {
	set := NewSet(nil)
	stream := &bytes.Buffer{}
	require.NoError(t, WriteMessage(stream, set.Get(Login), message.LoginSuccess{UUID: "u", Username: "n"}))
	assert.Equal(t, byte(0x02), stream.Bytes()[1], "LoginSuccess opcode")

	// Inbound and outbound tables are independent; reading what we wrote
	// through the inbound table of the play phase must fail.
	_, _, err := ReadMessage(bufio.NewReader(bytes.NewReader(stream.Bytes())), set.Get(Play))
	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, Play, unknown.Phase)
}

func TestPhaseGating(t *testing.T) {
	set := NewSet(nil)

	// PlayerPositionLook's opcode in the handshake phase.
	f := &tnet.Frame{Opcode: 0x06, Length: 42}
	_, _, err := set.Get(Handshake).Decode(f)
	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, &UnknownOpcodeError{Phase: Handshake, Opcode: 0x06, Length: 42}, unknown)
	assert.True(t, IsProtocolError(err))

	_, _, err = set.Get(Handshake).Decode(&tnet.Frame{Opcode: 0x01, Length: 9})
	assert.ErrorAs(t, err, &unknown, "status ping opcode must not fall back across phases")
}

func TestUnregisteredOutbound(t *testing.T) {
	_, err := NewSet(nil).Get(Login).EncodeFrame(message.ChunkData{})
	var unreg *UnregisteredMessageError
	require.ErrorAs(t, err, &unreg)
	assert.Equal(t, message.KindChunkData, unreg.Kind)
}

func TestDecodeErrorWrapsCause(t *testing.T) {
	_, _, err := NewSet(nil).Get(Play).Decode(&tnet.Frame{Opcode: 0x00, Length: 3, Body: []byte{0, 0}})
	var decode *DecodeError
	require.ErrorAs(t, err, &decode)
	assert.Equal(t, message.KindKeepAlive, decode.Kind)
	assert.ErrorIs(t, err, tnet.ErrTruncatedInput)
	assert.True(t, IsProtocolError(err))
}

func TestNewPanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		New(Play, []Registration{
			{Opcode: 0x00, Kind: message.KindKeepAlive, Codec: message.KeepAliveCodec},
			{Opcode: 0x00, Kind: message.KindIncomingChat, Codec: message.IncomingChatCodec},
		}, nil)
	}, "duplicate opcode")
	assert.Panics(t, func() {
		New(Play, nil, []Registration{
			{Opcode: 0x00, Kind: message.KindKick, Codec: message.KickCodec},
			{Opcode: 0x40, Kind: message.KindKick, Codec: message.KickCodec},
		})
	}, "duplicate kind")
	assert.NotPanics(t, func() {
		New(Play, []Registration{
			{Opcode: 0x00, Kind: message.KindKeepAlive, Codec: message.KeepAliveCodec},
		}, []Registration{
			{Opcode: 0x00, Kind: message.KindKeepAlive, Codec: message.KeepAliveCodec},
		})
	}, "directions are independent")
}

func TestNewSetAttachesHandlers(t *testing.T) {
	called := false
	set := NewSet(map[message.Kind]Handler{
		message.KindHandshake: func(Session, message.Message) error { called = true; return nil },
	})
	r, ok := set.Get(Handshake).Inbound(0x00)
	require.True(t, ok)
	require.NotNil(t, r.Handler)
	require.NoError(t, r.Handler(nil, samples[message.KindHandshake]))
	assert.True(t, called)

	r, ok = set.Get(Status).Inbound(0x00)
	require.True(t, ok)
	assert.Nil(t, r.Handler)
}
