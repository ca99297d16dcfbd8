package server

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
)

// Status describes the server as it is now.
func (s *Server) Status() message.Status {
	return message.Status{
		Version:     message.StatusVersion{Name: protocol.VersionName, Protocol: protocol.Version},
		Players:     message.StatusPlayers{Max: s.opts.MaxPlayers, Online: s.registry.CountInPhase(protocol.Play)},
		Description: message.TextComponent{Text: s.opts.MOTD},
		Favicon:     s.opts.Favicon,
	}
}

func (s *Server) handleHandshake(sess protocol.Session, msg message.Message) error {
	hs := msg.(message.Handshake)
	glog.V(2).Infof("session %d: handshake version %d to %s:%d next %d", sess.ID(), hs.ProtocolVersion, hs.Address, hs.Port, hs.NextState)
	sess.SetProtocolVersion(hs.ProtocolVersion)
	next, err := protocol.NextPhase(hs.NextState)
	if err != nil {
		return err
	}
	return sess.SetPhase(next)
}

func (s *Server) handleStatusRequest(sess protocol.Session, msg message.Message) error {
	resp, err := message.NewStatusResponse(s.Status())
	if err != nil {
		return err
	}
	return sess.Send(resp)
}

// handleStatusPing echoes the ping, which ends the status exchange.
func (s *Server) handleStatusPing(sess protocol.Session, msg message.Message) error {
	if err := sess.Send(msg); err != nil {
		return err
	}
	sess.Kick("status complete")
	return nil
}
