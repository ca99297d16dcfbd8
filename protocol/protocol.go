package protocol

import (
	"fmt"
	"io"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
	tnet "badc0de.net/pkg/go-glowstone/net"
)

// Handler processes one decoded inbound message on the connection's reading
// goroutine. A returned error terminates the session.
type Handler func(s Session, msg message.Message) error

// Registration binds an opcode to a message kind, its codec and, for
// inbound messages, an optional handler.
type Registration struct {
	Opcode  uint32
	Kind    message.Kind
	Codec   message.Codec
	Handler Handler
}

type table struct {
	byOpcode map[uint32]*Registration
	byKind   map[message.Kind]*Registration
}

func newTable(phase Phase, dir Direction, regs []Registration) table {
	t := table{
		byOpcode: make(map[uint32]*Registration, len(regs)),
		byKind:   make(map[message.Kind]*Registration, len(regs)),
	}
	for i := range regs {
		r := regs[i]
		if _, ok := t.byOpcode[r.Opcode]; ok {
			panic(fmt.Sprintf("protocol %s: duplicate %s opcode 0x%02x", phase, dir, r.Opcode))
		}
		if _, ok := t.byKind[r.Kind]; ok {
			panic(fmt.Sprintf("protocol %s: duplicate %s registration of %s", phase, dir, r.Kind))
		}
		if r.Codec.Encode == nil || r.Codec.Decode == nil {
			panic(fmt.Sprintf("protocol %s: %s has no codec", phase, r.Kind))
		}
		t.byOpcode[r.Opcode] = &r
		t.byKind[r.Kind] = &r
	}
	return t
}

// Protocol holds the inbound and outbound tables of a single phase. It is
// immutable once built.
type Protocol struct {
	phase    Phase
	inbound  table
	outbound table
}

// New builds the tables for phase. It panics if an opcode or a message kind
// appears twice in the same direction.
func New(phase Phase, inbound, outbound []Registration) *Protocol {
	return &Protocol{
		phase:    phase,
		inbound:  newTable(phase, Inbound, inbound),
		outbound: newTable(phase, Outbound, outbound),
	}
}

func (p *Protocol) Phase() Phase {
	return p.phase
}

func (p *Protocol) table(dir Direction) table {
	if dir == Outbound {
		return p.outbound
	}
	return p.inbound
}

// Lookup finds a registration by opcode in either direction.
func (p *Protocol) Lookup(dir Direction, opcode uint32) (*Registration, bool) {
	r, ok := p.table(dir).byOpcode[opcode]
	return r, ok
}

// LookupKind finds a registration by message kind in either direction.
func (p *Protocol) LookupKind(dir Direction, kind message.Kind) (*Registration, bool) {
	r, ok := p.table(dir).byKind[kind]
	return r, ok
}

// Inbound looks up the registration for an incoming opcode.
func (p *Protocol) Inbound(opcode uint32) (*Registration, bool) {
	return p.Lookup(Inbound, opcode)
}

// Outbound looks up the registration for an outgoing message kind.
func (p *Protocol) Outbound(kind message.Kind) (*Registration, bool) {
	return p.LookupKind(Outbound, kind)
}

// Registrations lists a direction's table ordered by opcode.
func (p *Protocol) Registrations(dir Direction) []Registration {
	t := p.table(dir)
	regs := make([]Registration, 0, len(t.byOpcode))
	for _, r := range t.byOpcode {
		regs = append(regs, *r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Opcode < regs[j].Opcode })
	return regs
}

// Decode resolves a frame's opcode and decodes its body.
func (p *Protocol) Decode(f *tnet.Frame) (message.Message, *Registration, error) {
	r, ok := p.Inbound(f.Opcode)
	if !ok {
		return nil, nil, &UnknownOpcodeError{Phase: p.phase, Opcode: f.Opcode, Length: f.Length}
	}
	buf := tnet.NewBuffer(f.Body)
	msg, err := r.Codec.Decode(buf)
	if err != nil {
		return nil, r, &DecodeError{Phase: p.phase, Opcode: f.Opcode, Kind: r.Kind, Length: f.Length, Err: err}
	}
	if buf.Len() > 0 {
		glog.V(1).Infof("%s: %d trailing bytes after %s", p.phase, buf.Len(), r.Kind)
	}
	return msg, r, nil
}

// Encode resolves msg's opcode and encodes its body.
func (p *Protocol) Encode(msg message.Message) (uint32, []byte, error) {
	r, ok := p.Outbound(msg.Kind())
	if !ok {
		return 0, nil, &UnregisteredMessageError{Phase: p.phase, Kind: msg.Kind()}
	}
	body, err := r.Codec.EncodeBytes(msg)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "encoding %s", msg.Kind())
	}
	return r.Opcode, body, nil
}

// EncodeFrame produces the complete frame for msg.
func (p *Protocol) EncodeFrame(msg message.Message) ([]byte, error) {
	opcode, body, err := p.Encode(msg)
	if err != nil {
		return nil, err
	}
	return tnet.AppendFrame(nil, opcode, body)
}

// ReadMessage blocks for the next frame on r and decodes it using p.
func ReadMessage(r tnet.Reader, p *Protocol) (message.Message, *Registration, error) {
	f, err := tnet.ReadFrame(r)
	if err != nil {
		return nil, nil, err
	}
	glog.V(3).Infof("%s: frame opcode 0x%02x length %d", p.phase, f.Opcode, f.Length)
	return p.Decode(f)
}

// WriteMessage encodes msg using p and writes it as one frame.
func WriteMessage(w io.Writer, p *Protocol, msg message.Message) error {
	opcode, body, err := p.Encode(msg)
	if err != nil {
		return err
	}
	return tnet.WriteFrame(w, opcode, body)
}
