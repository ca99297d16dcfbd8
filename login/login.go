package login

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"time"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
	"badc0de.net/pkg/go-glowstone/secrets"
)

const (
	// MaxNameLength is the longest username accepted.
	MaxNameLength = 16
	// SharedSecretLength is the only shared secret size clients send.
	SharedSecretLength = 16

	verifyTokenLength = 4

	keyName        = "login.name"
	keyVerifyToken = "login.verifyToken"
)

// Options configures the login handlers.
type Options struct {
	// Encryption enables the key exchange. Keys must be set when it is.
	Encryption bool
	Keys       KeyExchanger
	// ServerID is sent in the key request and mixed into the server hash.
	// Clients of this protocol version expect it to be empty.
	ServerID string
	// Auth defaults to OfflineAuthenticator.
	Auth        Authenticator
	AuthTimeout time.Duration
	// OnJoin runs after the session has entered PLAY.
	OnJoin func(protocol.Session, protocol.Identity) error
}

// Server holds the state shared by the login handlers of all sessions.
type Server struct {
	opts Options
}

func New(opts Options) (*Server, error) {
	if opts.Encryption && opts.Keys == nil {
		return nil, errors.New("login: encryption enabled without a key pair")
	}
	if opts.Auth == nil {
		opts.Auth = OfflineAuthenticator{}
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = 10 * time.Second
	}
	return &Server{opts: opts}, nil
}

// Handlers returns the LOGIN phase handlers, for server.New.
func (s *Server) Handlers() map[message.Kind]protocol.Handler {
	return map[message.Kind]protocol.Handler{
		message.KindLoginStart:            s.handleLoginStart,
		message.KindEncryptionKeyResponse: s.handleEncryptionKeyResponse,
	}
}

func (s *Server) handleLoginStart(sess protocol.Session, msg message.Message) error {
	name := msg.(message.LoginStart).Username
	glog.V(2).Infof("session %d: login start %q", sess.ID(), name)

	switch v := sess.ProtocolVersion(); {
	case v < protocol.Version:
		sess.Kick("Outdated client!")
		return nil
	case v > protocol.Version:
		sess.Kick("Outdated server!")
		return nil
	}
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		sess.Kick("Invalid username")
		return nil
	}
	if sess.Value(keyName) != nil {
		return errors.New("duplicate login start")
	}
	sess.SetValue(keyName, name)

	if !s.opts.Encryption {
		return s.finish(sess, name, "")
	}

	token := make([]byte, verifyTokenLength)
	if _, err := rand.Read(token); err != nil {
		return errors.Wrap(err, "generating verify token")
	}
	sess.SetValue(keyVerifyToken, token)
	return sess.Send(message.EncryptionKeyRequest{
		ServerID:    s.opts.ServerID,
		PublicKey:   s.opts.Keys.PublicKey(),
		VerifyToken: token,
	})
}

func (s *Server) handleEncryptionKeyResponse(sess protocol.Session, msg message.Message) error {
	resp := msg.(message.EncryptionKeyResponse)
	token, ok := sess.Value(keyVerifyToken).([]byte)
	if !ok {
		sess.Kick("Unexpected encryption response")
		return nil
	}
	sess.SetValue(keyVerifyToken, nil)

	secret, err := s.opts.Keys.Decrypt(resp.SharedSecret)
	if err != nil || len(secret) != SharedSecretLength {
		glog.Warningf("session %d: bad shared secret: %v", sess.ID(), err)
		sess.Kick("Invalid shared secret")
		return nil
	}
	echoed, err := s.opts.Keys.Decrypt(resp.VerifyToken)
	if err != nil || subtle.ConstantTimeCompare(echoed, token) != 1 {
		glog.Warningf("session %d: verify token mismatch", sess.ID())
		sess.Kick("Invalid verify token")
		return nil
	}

	if err := sess.EnableEncryption(secret); err != nil {
		return errors.Wrap(err, "enabling encryption")
	}
	name, _ := sess.Value(keyName).(string)
	return s.finish(sess, name, secrets.ServerHash(s.opts.ServerID, secret, s.opts.Keys.PublicKey()))
}

func (s *Server) finish(sess protocol.Session, name, serverHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.AuthTimeout)
	defer cancel()
	id, err := s.opts.Auth.Authenticate(ctx, name, serverHash)
	if err != nil {
		glog.Warningf("session %d: authenticating %q: %v", sess.ID(), name, err)
		sess.Kick("Failed to verify username!")
		return nil
	}
	if err := sess.SetIdentity(id); err != nil {
		return err
	}
	if err := sess.Send(message.LoginSuccess{UUID: id.CompactUUID(), Username: id.Name}); err != nil {
		return err
	}
	if err := sess.SetPhase(protocol.Play); err != nil {
		return err
	}
	glog.Infof("session %d: %s (%s) logged in, encrypted=%v", sess.ID(), id.Name, id.UUID, sess.Encrypted())
	if s.opts.OnJoin != nil {
		return s.opts.OnJoin(sess, id)
	}
	return nil
}
