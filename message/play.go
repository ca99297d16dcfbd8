package message

import (
	tnet "badc0de.net/pkg/go-glowstone/net"
)

// KeepAlive is sent periodically by the server and echoed by the client.
type KeepAlive struct {
	ID int32
}

func (KeepAlive) Kind() Kind { return KindKeepAlive }

type JoinGame struct {
	EntityID   int32
	GameMode   uint8
	Dimension  int8
	Difficulty uint8
	MaxPlayers uint8
	LevelType  string
}

func (JoinGame) Kind() Kind { return KindJoinGame }

// IncomingChat is a chat line or command typed by the client.
type IncomingChat struct {
	Text string
}

func (IncomingChat) Kind() Kind { return KindIncomingChat }

// PositionRotation teleports the client.
type PositionRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (PositionRotation) Kind() Kind { return KindPositionRotation }

// PlayerPositionLook is the client reporting its position and look.
type PlayerPositionLook struct {
	X, FeetY, HeadY, Z float64
	Yaw, Pitch         float32
	OnGround           bool
}

func (PlayerPositionLook) Kind() Kind { return KindPlayerPositionLook }

type PlayerUpdate struct {
	OnGround bool
}

func (PlayerUpdate) Kind() Kind { return KindPlayerUpdate }

var (
	KeepAliveCodec = codecOf(
		func(buf *tnet.Buffer, m KeepAlive) error { return buf.WriteInt32(m.ID) },
		func(buf *tnet.Buffer) (KeepAlive, error) {
			id, err := buf.ReadInt32()
			return KeepAlive{ID: id}, err
		})
	JoinGameCodec     = codecOf(encodeJoinGame, decodeJoinGame)
	IncomingChatCodec = codecOf(
		func(buf *tnet.Buffer, m IncomingChat) error { return buf.WriteVarString(m.Text) },
		func(buf *tnet.Buffer) (IncomingChat, error) {
			s, err := buf.ReadVarString()
			return IncomingChat{Text: s}, err
		})
	PositionRotationCodec   = codecOf(encodePositionRotation, decodePositionRotation)
	PlayerPositionLookCodec = codecOf(encodePlayerPositionLook, decodePlayerPositionLook)
	PlayerUpdateCodec       = codecOf(
		func(buf *tnet.Buffer, m PlayerUpdate) error { return buf.WriteBool(m.OnGround) },
		func(buf *tnet.Buffer) (PlayerUpdate, error) {
			b, err := buf.ReadBool()
			return PlayerUpdate{OnGround: b}, err
		})
)

func encodeJoinGame(buf *tnet.Buffer, m JoinGame) error {
	if err := buf.WriteInt32(m.EntityID); err != nil {
		return err
	}
	if err := buf.WriteUint8(m.GameMode); err != nil {
		return err
	}
	if err := buf.WriteInt8(m.Dimension); err != nil {
		return err
	}
	if err := buf.WriteUint8(m.Difficulty); err != nil {
		return err
	}
	if err := buf.WriteUint8(m.MaxPlayers); err != nil {
		return err
	}
	return buf.WriteVarString(m.LevelType)
}

func decodeJoinGame(buf *tnet.Buffer) (JoinGame, error) {
	var m JoinGame
	var err error
	if m.EntityID, err = buf.ReadInt32(); err != nil {
		return m, err
	}
	if m.GameMode, err = buf.ReadUint8(); err != nil {
		return m, err
	}
	if m.Dimension, err = buf.ReadInt8(); err != nil {
		return m, err
	}
	if m.Difficulty, err = buf.ReadUint8(); err != nil {
		return m, err
	}
	if m.MaxPlayers, err = buf.ReadUint8(); err != nil {
		return m, err
	}
	if m.LevelType, err = buf.ReadVarString(); err != nil {
		return m, err
	}
	return m, nil
}

func encodePositionRotation(buf *tnet.Buffer, m PositionRotation) error {
	for _, v := range []float64{m.X, m.Y, m.Z} {
		if err := buf.WriteFloat64(v); err != nil {
			return err
		}
	}
	for _, v := range []float32{m.Yaw, m.Pitch} {
		if err := buf.WriteFloat32(v); err != nil {
			return err
		}
	}
	return buf.WriteBool(m.OnGround)
}

func decodePositionRotation(buf *tnet.Buffer) (PositionRotation, error) {
	var m PositionRotation
	var err error
	for _, p := range []*float64{&m.X, &m.Y, &m.Z} {
		if *p, err = buf.ReadFloat64(); err != nil {
			return m, err
		}
	}
	if m.Yaw, err = buf.ReadFloat32(); err != nil {
		return m, err
	}
	if m.Pitch, err = buf.ReadFloat32(); err != nil {
		return m, err
	}
	if m.OnGround, err = buf.ReadBool(); err != nil {
		return m, err
	}
	return m, nil
}

func encodePlayerPositionLook(buf *tnet.Buffer, m PlayerPositionLook) error {
	for _, v := range []float64{m.X, m.FeetY, m.HeadY, m.Z} {
		if err := buf.WriteFloat64(v); err != nil {
			return err
		}
	}
	for _, v := range []float32{m.Yaw, m.Pitch} {
		if err := buf.WriteFloat32(v); err != nil {
			return err
		}
	}
	return buf.WriteBool(m.OnGround)
}

func decodePlayerPositionLook(buf *tnet.Buffer) (PlayerPositionLook, error) {
	var m PlayerPositionLook
	var err error
	for _, p := range []*float64{&m.X, &m.FeetY, &m.HeadY, &m.Z} {
		if *p, err = buf.ReadFloat64(); err != nil {
			return m, err
		}
	}
	if m.Yaw, err = buf.ReadFloat32(); err != nil {
		return m, err
	}
	if m.Pitch, err = buf.ReadFloat32(); err != nil {
		return m, err
	}
	if m.OnGround, err = buf.ReadBool(); err != nil {
		return m, err
	}
	return m, nil
}
