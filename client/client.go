// Package client speaks the client side of the protocol. It is used by
// tools and tests; it does not track phases on its own.
package client

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/crypt"
	"badc0de.net/pkg/go-glowstone/message"
	tnet "badc0de.net/pkg/go-glowstone/net"
	"badc0de.net/pkg/go-glowstone/protocol"
)

// Client sends messages from the server's inbound tables and receives
// messages from its outbound tables. Phase is not tracked automatically.
type Client struct {
	Phase protocol.Phase

	conn net.Conn
	set  *protocol.Set
	r    *crypt.Reader
	w    *crypt.Writer
}

func New(conn net.Conn) *Client {
	return &Client{
		Phase: protocol.Handshake,
		conn:  conn,
		set:   protocol.NewSet(nil),
		r:     crypt.NewReader(bufio.NewReader(conn)),
		w:     crypt.NewWriter(conn),
	}
}

// Send encodes msg with the current phase's inbound table.
func (c *Client) Send(msg message.Message) error {
	reg, ok := c.set.Get(c.Phase).LookupKind(protocol.Inbound, msg.Kind())
	if !ok {
		return errors.Errorf("%s is not accepted in phase %s", msg.Kind(), c.Phase)
	}
	body, err := reg.Codec.EncodeBytes(msg)
	if err != nil {
		return err
	}
	return tnet.WriteFrame(c.w, reg.Opcode, body)
}

// SendRaw writes an arbitrary frame.
func (c *Client) SendRaw(opcode uint32, body []byte) error {
	return tnet.WriteFrame(c.w, opcode, body)
}

// Recv reads one frame and decodes it with the current phase's outbound
// table.
func (c *Client) Recv() (message.Message, error) {
	f, err := tnet.ReadFrame(c.r)
	if err != nil {
		return nil, err
	}
	reg, ok := c.set.Get(c.Phase).Lookup(protocol.Outbound, f.Opcode)
	if !ok {
		return nil, &protocol.UnknownOpcodeError{Phase: c.Phase, Opcode: f.Opcode, Length: f.Length}
	}
	if reg.Kind == message.KindChunkData {
		return message.ParseChunkData(f.Body)
	}
	return reg.Codec.Decode(tnet.NewBuffer(f.Body))
}

// RecvKind reads frames until one of kind arrives.
func (c *Client) RecvKind(kind message.Kind) (message.Message, error) {
	for {
		msg, err := c.Recv()
		if err != nil {
			return nil, err
		}
		if msg.Kind() == kind {
			return msg, nil
		}
	}
}

// EnableEncryption switches both directions to the stream cipher.
func (c *Client) EnableEncryption(algorithm string, secret []byte) error {
	proc, err := crypt.NewProcessor(algorithm, secret, 0)
	if err != nil {
		return err
	}
	c.r.Enable(proc.Decoder())
	c.w.Enable(proc.Encoder())
	return nil
}

func (c *Client) SetDeadline(d time.Duration) error {
	return c.conn.SetDeadline(time.Now().Add(d))
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Handshake announces this protocol version and moves the client to the
// requested phase.
func (c *Client) Handshake(next protocol.Phase) error {
	var nextState uint32
	switch next {
	case protocol.Status:
		nextState = 1
	case protocol.Login:
		nextState = 2
	default:
		return errors.Errorf("cannot hand off to %s", next)
	}
	host, port, err := net.SplitHostPort(c.conn.RemoteAddr().String())
	if err != nil {
		host, port = c.conn.RemoteAddr().String(), "0"
	}
	p, _ := strconv.ParseUint(port, 10, 16)
	if err := c.Send(message.Handshake{ProtocolVersion: protocol.Version, Address: host, Port: uint16(p), NextState: nextState}); err != nil {
		return err
	}
	c.Phase = next
	return nil
}

// Ping runs a status exchange on a fresh connection: the status document
// and the round trip time of the ping.
func Ping(ctx context.Context, addr string) (message.Status, time.Duration, error) {
	c, err := Dial(ctx, addr)
	if err != nil {
		return message.Status{}, 0, err
	}
	defer c.Close()
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	}

	if err := c.Handshake(protocol.Status); err != nil {
		return message.Status{}, 0, err
	}
	if err := c.Send(message.StatusRequest{}); err != nil {
		return message.Status{}, 0, err
	}
	msg, err := c.RecvKind(message.KindStatusResponse)
	if err != nil {
		return message.Status{}, 0, errors.Wrap(err, "waiting for status")
	}
	st, err := msg.(message.StatusResponse).Status()
	if err != nil {
		return message.Status{}, 0, errors.Wrap(err, "parsing status")
	}

	start := time.Now()
	if err := c.Send(message.StatusPing{Time: start.UnixMilli()}); err != nil {
		return st, 0, err
	}
	if _, err := c.RecvKind(message.KindStatusPing); err != nil {
		return st, 0, errors.Wrap(err, "waiting for ping")
	}
	return st, time.Since(start), nil
}
