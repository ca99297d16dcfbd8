package server

import (
	"context"
	"math/rand/v2"
	"net"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
)

// Options configures a Server.
type Options struct {
	MOTD       string
	MaxPlayers int
	// Favicon is the data URL shown next to the server in client lists.
	Favicon string
	// MaxConnections bounds concurrently open connections. Zero means no limit.
	MaxConnections int64
	// KeepAliveInterval is how often play sessions are sent a keep-alive.
	// Zero disables keep-alives.
	KeepAliveInterval time.Duration
	Session           SessionOptions
}

// Server owns the protocol tables shared by all sessions.
type Server struct {
	opts      Options
	registry  *Registry
	metrics   *Metrics
	protocols *protocol.Set
	sem       *semaphore.Weighted
}

// New builds a server. Handlers supplied by the caller are merged with the
// server's own handshake and status handlers; the caller's win on conflict.
// metrics may be nil.
func New(opts Options, registry *Registry, metrics *Metrics, handlers map[message.Kind]protocol.Handler) *Server {
	s := &Server{
		opts:     opts,
		registry: registry,
		metrics:  metrics,
	}
	all := map[message.Kind]protocol.Handler{
		message.KindHandshake:     s.handleHandshake,
		message.KindStatusRequest: s.handleStatusRequest,
		message.KindStatusPing:    s.handleStatusPing,
	}
	for k, h := range handlers {
		all[k] = h
	}
	s.protocols = protocol.NewSet(all)
	if opts.MaxConnections > 0 {
		s.sem = semaphore.NewWeighted(opts.MaxConnections)
	}
	return s
}

func (s *Server) Registry() *Registry      { return s.registry }
func (s *Server) Protocols() *protocol.Set { return s.protocols }

// Serve accepts connections on l until ctx is cancelled or accepting fails.
// All sessions are closed before it returns.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		l.Close()
		s.registry.CloseAll()
		return nil
	})
	if s.opts.KeepAliveInterval > 0 {
		g.Go(func() error {
			s.keepAlive(ctx)
			return nil
		})
	}
	g.Go(func() error {
		glog.Infof("listening on %v", l.Addr())
		for {
			conn, err := l.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				glog.Errorln(err)
				return err
			}
			if s.sem != nil && !s.sem.TryAcquire(1) {
				glog.Warningf("refusing %v: connection limit reached", conn.RemoteAddr())
				conn.Close()
				continue
			}
			go func() {
				if s.sem != nil {
					defer s.sem.Release(1)
				}
				s.ServeConn(conn)
			}()
		}
	})
	return g.Wait()
}

// ServeConn runs a session on an already accepted connection and returns
// when it ends.
func (s *Server) ServeConn(conn net.Conn) error {
	glog.Infoln("accepted connection from ", conn.RemoteAddr())
	sess := NewSession(conn, s.protocols, s.registry, s.metrics, s.opts.Session)
	err := sess.Serve()
	if err != nil {
		glog.V(1).Infof("session %d ended: %v", sess.ID(), err)
	}
	return err
}

func (s *Server) keepAlive(ctx context.Context) {
	t := time.NewTicker(s.opts.KeepAliveInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := s.registry.Broadcast(protocol.Play, message.KeepAlive{ID: rand.Int32()})
			glog.V(2).Infof("keep-alive sent to %d sessions", n)
		}
	}
}
