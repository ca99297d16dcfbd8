package protocol

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-glowstone/message"
)

// Set holds one Protocol per phase.
type Set struct {
	phases [numPhases]*Protocol
}

// NewSet builds the four phase protocols, attaching handlers to inbound
// registrations by message kind. A kind registered inbound in several
// phases gets the same handler in each. Inbound messages without a handler
// are decoded and dropped.
func NewSet(handlers map[message.Kind]Handler) *Set {
	s := &Set{}
	tables := [numPhases]func() ([]Registration, []Registration){
		Handshake: handshakeTables,
		Status:    statusTables,
		Login:     loginTables,
		Play:      playTables,
	}
	used := map[message.Kind]bool{}
	for phase, tf := range tables {
		inbound, outbound := tf()
		for i := range inbound {
			if h, ok := handlers[inbound[i].Kind]; ok {
				inbound[i].Handler = h
				used[inbound[i].Kind] = true
			}
		}
		s.phases[phase] = New(Phase(phase), inbound, outbound)
	}
	for kind := range handlers {
		if !used[kind] {
			glog.Warningf("handler for %s attached to no inbound registration", kind)
		}
	}
	return s
}

// Get returns the protocol for phase. It panics on an invalid phase.
func (s *Set) Get(phase Phase) *Protocol {
	return s.phases[phase]
}
