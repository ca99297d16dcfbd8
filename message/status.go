package message

import (
	tnet "badc0de.net/pkg/go-glowstone/net"
)

type StatusRequest struct{}

func (StatusRequest) Kind() Kind { return KindStatusRequest }

// StatusPing is echoed back to the client unchanged.
type StatusPing struct {
	Time int64
}

func (StatusPing) Kind() Kind { return KindStatusPing }

var (
	StatusRequestCodec = codecOf(
		func(*tnet.Buffer, StatusRequest) error { return nil },
		func(*tnet.Buffer) (StatusRequest, error) { return StatusRequest{}, nil })
	StatusPingCodec = codecOf(
		func(buf *tnet.Buffer, m StatusPing) error { return buf.WriteInt64(m.Time) },
		func(buf *tnet.Buffer) (StatusPing, error) {
			t, err := buf.ReadInt64()
			return StatusPing{Time: t}, err
		})
)
