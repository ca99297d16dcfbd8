package protocol

import (
	"fmt"
)

// Phase is one of the mutually exclusive stages of a connection.
type Phase int32

const (
	Handshake Phase = iota
	Status
	Login
	Play

	numPhases = 4
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "HANDSHAKE"
	case Status:
		return "STATUS"
	case Login:
		return "LOGIN"
	case Play:
		return "PLAY"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Direction distinguishes client-to-server from server-to-client tables.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// NextPhase translates the handshake's nextState field.
func NextPhase(nextState uint32) (Phase, error) {
	switch nextState {
	case 1:
		return Status, nil
	case 2:
		return Login, nil
	default:
		return Handshake, &TransitionError{From: Handshake, NextState: nextState}
	}
}

// CheckTransition reports whether a connection in phase from may move to
// phase to. Handshake is only ever the initial phase, and only Login leads
// to Play.
func CheckTransition(from, to Phase) error {
	switch {
	case from == Handshake && (to == Status || to == Login):
		return nil
	case from == Login && to == Play:
		return nil
	default:
		return &TransitionError{From: from, To: to}
	}
}
