package message

import (
	tnet "badc0de.net/pkg/go-glowstone/net"
)

// Handshake is the first message on every connection. NextState selects
// the phase the connection continues in.
type Handshake struct {
	ProtocolVersion uint32
	Address         string
	Port            uint16
	NextState       uint32
}

func (Handshake) Kind() Kind { return KindHandshake }

var HandshakeCodec = codecOf(encodeHandshake, decodeHandshake)

func encodeHandshake(buf *tnet.Buffer, m Handshake) error {
	if err := buf.WriteVarInt(m.ProtocolVersion); err != nil {
		return err
	}
	if err := buf.WriteVarString(m.Address); err != nil {
		return err
	}
	if err := buf.WriteUint16(m.Port); err != nil {
		return err
	}
	return buf.WriteVarInt(m.NextState)
}

func decodeHandshake(buf *tnet.Buffer) (Handshake, error) {
	var m Handshake
	var err error
	if m.ProtocolVersion, err = buf.ReadVarInt(); err != nil {
		return m, err
	}
	if m.Address, err = buf.ReadVarString(); err != nil {
		return m, err
	}
	if m.Port, err = buf.ReadUint16(); err != nil {
		return m, err
	}
	if m.NextState, err = buf.ReadVarInt(); err != nil {
		return m, err
	}
	return m, nil
}
