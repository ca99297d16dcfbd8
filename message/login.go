package message

import (
	tnet "badc0de.net/pkg/go-glowstone/net"
)

type LoginStart struct {
	Username string
}

func (LoginStart) Kind() Kind { return KindLoginStart }

// EncryptionKeyRequest carries the server's public key (DER) and a random
// token the client must echo back encrypted.
type EncryptionKeyRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (EncryptionKeyRequest) Kind() Kind { return KindEncryptionKeyRequest }

// EncryptionKeyResponse holds the shared secret and verify token, both
// encrypted with the server's public key.
type EncryptionKeyResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (EncryptionKeyResponse) Kind() Kind { return KindEncryptionKeyResponse }

// LoginSuccess moves the client into the play phase. UUID is written
// without hyphens.
type LoginSuccess struct {
	UUID     string
	Username string
}

func (LoginSuccess) Kind() Kind { return KindLoginSuccess }

var (
	LoginStartCodec = codecOf(
		func(buf *tnet.Buffer, m LoginStart) error { return buf.WriteVarString(m.Username) },
		func(buf *tnet.Buffer) (LoginStart, error) {
			s, err := buf.ReadVarString()
			return LoginStart{Username: s}, err
		})
	EncryptionKeyRequestCodec  = codecOf(encodeEncryptionKeyRequest, decodeEncryptionKeyRequest)
	EncryptionKeyResponseCodec = codecOf(encodeEncryptionKeyResponse, decodeEncryptionKeyResponse)
	LoginSuccessCodec          = codecOf(encodeLoginSuccess, decodeLoginSuccess)
)

func encodeEncryptionKeyRequest(buf *tnet.Buffer, m EncryptionKeyRequest) error {
	if err := buf.WriteVarString(m.ServerID); err != nil {
		return err
	}
	if err := buf.WriteShortBytes(m.PublicKey); err != nil {
		return err
	}
	return buf.WriteShortBytes(m.VerifyToken)
}

func decodeEncryptionKeyRequest(buf *tnet.Buffer) (EncryptionKeyRequest, error) {
	var m EncryptionKeyRequest
	var err error
	if m.ServerID, err = buf.ReadVarString(); err != nil {
		return m, err
	}
	if m.PublicKey, err = buf.ReadShortBytes(); err != nil {
		return m, err
	}
	if m.VerifyToken, err = buf.ReadShortBytes(); err != nil {
		return m, err
	}
	return m, nil
}

func encodeEncryptionKeyResponse(buf *tnet.Buffer, m EncryptionKeyResponse) error {
	if err := buf.WriteShortBytes(m.SharedSecret); err != nil {
		return err
	}
	return buf.WriteShortBytes(m.VerifyToken)
}

func decodeEncryptionKeyResponse(buf *tnet.Buffer) (EncryptionKeyResponse, error) {
	var m EncryptionKeyResponse
	var err error
	if m.SharedSecret, err = buf.ReadShortBytes(); err != nil {
		return m, err
	}
	if m.VerifyToken, err = buf.ReadShortBytes(); err != nil {
		return m, err
	}
	return m, nil
}

func encodeLoginSuccess(buf *tnet.Buffer, m LoginSuccess) error {
	if err := buf.WriteVarString(m.UUID); err != nil {
		return err
	}
	return buf.WriteVarString(m.Username)
}

func decodeLoginSuccess(buf *tnet.Buffer) (LoginSuccess, error) {
	var m LoginSuccess
	var err error
	if m.UUID, err = buf.ReadVarString(); err != nil {
		return m, err
	}
	if m.Username, err = buf.ReadVarString(); err != nil {
		return m, err
	}
	return m, nil
}
