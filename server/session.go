package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-glowstone/crypt"
	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
)

var (
	// ErrSessionClosed is returned when sending on a session which is closing.
	ErrSessionClosed = errors.New("session closed")
	// ErrQueueFull is returned by Offer when the session's outbound queue
	// has no room. The session is closed when this happens.
	ErrQueueFull = errors.New("outbound queue full")
)

// SessionOptions tunes a single connection.
type SessionOptions struct {
	// Cipher selects the stream cipher's block function: "aes" or "xtea".
	Cipher         string
	CipherCapacity int
	// ReadTimeout bounds the wait for each inbound frame. Zero disables it.
	ReadTimeout time.Duration
	// WriteTimeout bounds each outbound write. A peer that stops reading
	// is dropped once it expires.
	WriteTimeout time.Duration
	QueueSize    int
	// KickTimeout bounds how long a kick message may take to flush before
	// the connection is closed regardless.
	KickTimeout time.Duration
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.CipherCapacity <= 0 {
		o.CipherCapacity = crypt.DefaultCapacity
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.KickTimeout <= 0 {
		o.KickTimeout = 5 * time.Second
	}
	if o.Cipher == "" {
		o.Cipher = "aes"
	}
	return o
}

type outbound struct {
	frame   []byte
	phase   protocol.Phase
	encrypt *crypt.Buffer
	close   bool
}

// Session is a single client connection. Inbound frames are read and
// handled on the goroutine calling Serve; outbound frames are written by a
// separate goroutine draining a queue, in the order they were queued.
type Session struct {
	id        uint64
	conn      net.Conn
	protocols *protocol.Set
	registry  *Registry
	metrics   *Metrics
	opts      SessionOptions

	phase     atomic.Int32
	version   atomic.Uint32
	encrypted atomic.Bool
	closing   atomic.Bool

	reader     *crypt.Reader
	writer     *crypt.Writer
	queue      chan outbound
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once

	mu       sync.Mutex
	identity *protocol.Identity
	values   map[string]interface{}

	eventsMu   sync.Mutex
	events     trace.EventLog
	eventsDone bool
}

// NewSession wraps conn and adds the session to registry. The session
// starts in the handshake phase.
func NewSession(conn net.Conn, protocols *protocol.Set, registry *Registry, metrics *Metrics, opts SessionOptions) *Session {
	opts = opts.withDefaults()
	id := registry.newID()
	s := &Session{
		id:         id,
		conn:       conn,
		protocols:  protocols,
		registry:   registry,
		metrics:    metrics,
		opts:       opts,
		reader:     crypt.NewReader(bufio.NewReader(conn)),
		writer:     crypt.NewWriter(conn),
		queue:      make(chan outbound, opts.QueueSize),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
		values:     map[string]interface{}{},
		events:     trace.NewEventLog("glowstone.Session", fmt.Sprintf("%d %v", id, conn.RemoteAddr())),
	}
	s.phase.Store(int32(protocol.Handshake))
	registry.Add(s)
	metrics.sessionOpened()
	return s
}

func (s *Session) ID() uint64           { return s.id }
func (s *Session) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }
func (s *Session) Phase() protocol.Phase {
	return protocol.Phase(s.phase.Load())
}

func (s *Session) SetPhase(to protocol.Phase) error {
	from := s.Phase()
	if err := protocol.CheckTransition(from, to); err != nil {
		return err
	}
	s.phase.Store(int32(to))
	s.logEvent("phase %s -> %s", from, to)
	glog.V(2).Infof("session %d: phase %s -> %s", s.id, from, to)
	return nil
}

func (s *Session) ProtocolVersion() uint32     { return s.version.Load() }
func (s *Session) SetProtocolVersion(v uint32) { s.version.Store(v) }
func (s *Session) Encrypted() bool             { return s.encrypted.Load() }

func (s *Session) SetIdentity(id protocol.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return protocol.ErrIdentitySet
	}
	s.identity = &id
	s.logEvent("identity %s %s", id.Name, id.UUID)
	return nil
}

func (s *Session) Identity() (protocol.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return protocol.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) Value(key string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *Session) SetValue(key string, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		delete(s.values, key)
		return
	}
	s.values[key] = v
}

// Send encodes msg with the current phase's outbound table and queues it,
// waiting for room in the queue. The wait ends when the session closes,
// at the latest when a stalled write hits WriteTimeout.
func (s *Session) Send(msg message.Message) error {
	o, err := s.encode(msg)
	if err != nil {
		return err
	}
	return s.enqueue(o)
}

// Offer is Send without waiting, for callers acting on behalf of other
// sessions. A session whose queue is full is not keeping up with its
// connection; it is closed and ErrQueueFull is returned.
func (s *Session) Offer(msg message.Message) error {
	o, err := s.encode(msg)
	if err != nil {
		return err
	}
	if err := s.tryEnqueue(o); err != nil {
		if err == ErrQueueFull {
			s.dropSlow(msg.Kind())
		}
		return err
	}
	return nil
}

func (s *Session) encode(msg message.Message) (outbound, error) {
	if s.closing.Load() {
		return outbound{}, ErrSessionClosed
	}
	phase := s.Phase()
	frame, err := s.protocols.Get(phase).EncodeFrame(msg)
	if err != nil {
		return outbound{}, err
	}
	s.logEvent("send %s", msg.Kind())
	return outbound{frame: frame, phase: phase}, nil
}

func (s *Session) enqueue(o outbound) error {
	select {
	case s.queue <- o:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

func (s *Session) tryEnqueue(o outbound) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.queue <- o:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Session) dropSlow(kind message.Kind) {
	glog.Warningf("session %d: outbound queue full at %s, closing", s.id, kind)
	s.logEvent("queue full at %s", kind)
	s.metrics.dropped("queue_full")
	s.Close()
}

// EnableEncryption must be called from a handler, that is, on the goroutine
// running Serve. Inbound bytes are decrypted from the next frame on;
// outbound bytes are encrypted from the next queued frame on.
func (s *Session) EnableEncryption(secret []byte) error {
	if s.encrypted.Load() {
		return errors.New("encryption already enabled")
	}
	proc, err := crypt.NewProcessor(s.opts.Cipher, secret, s.opts.CipherCapacity)
	if err != nil {
		return err
	}
	s.reader.Enable(proc.Decoder())
	if err := s.enqueue(outbound{encrypt: proc.Encoder()}); err != nil {
		return err
	}
	s.encrypted.Store(true)
	s.logEvent("encryption enabled (%s)", s.opts.Cipher)
	return nil
}

// Kick sends a kick message if the current phase has one, then closes the
// session once everything queued before it has been written. It never
// waits: if the queue is full the session is closed at once.
func (s *Session) Kick(reason string) {
	if !s.closing.CompareAndSwap(false, true) {
		return
	}
	phase := s.Phase()
	glog.Infof("session %d: kicked in phase %s: %s", s.id, phase, reason)
	s.logEvent("kick: %s", reason)

	p := s.protocols.Get(phase)
	if _, ok := p.Outbound(message.KindKick); ok {
		if frame, err := p.EncodeFrame(message.NewKick(reason)); err != nil {
			glog.Errorf("session %d: encoding kick: %v", s.id, err)
		} else if err := s.tryEnqueue(outbound{frame: frame, phase: phase}); err != nil {
			s.Close()
			return
		}
	}
	if err := s.tryEnqueue(outbound{close: true}); err != nil {
		s.Close()
	}
}

// Close tears the connection down immediately. Queued frames are dropped.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		close(s.done)
		err = s.conn.Close()
		s.registry.Remove(s.id)
		s.metrics.sessionClosed()
		glog.V(1).Infof("session %d: closed", s.id)

		s.eventsMu.Lock()
		s.events.Finish()
		s.eventsDone = true
		s.eventsMu.Unlock()
	})
	return err
}

// Done is closed when the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) logEvent(format string, args ...interface{}) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	if !s.eventsDone {
		s.events.Printf(format, args...)
	}
}

func (s *Session) String() string {
	id, ok := s.Identity()
	name := "-"
	if ok {
		name = id.Name
	}
	return fmt.Sprintf("%d %v %s %s encrypted=%v", s.id, s.RemoteAddr(), s.Phase(), name, s.Encrypted())
}

// Serve reads and dispatches frames until the connection ends or the
// session is kicked. It always leaves the session closed.
func (s *Session) Serve() error {
	go s.writeLoop()
	defer s.Close()

	for {
		if s.opts.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		}
		phase := s.Phase()
		msg, reg, err := protocol.ReadMessage(s.reader, s.protocols.Get(phase))
		if err != nil {
			return s.readFailed(err)
		}
		s.metrics.frame(phase.String(), "inbound")
		s.logEvent("recv %s", reg.Kind)

		if reg.Handler == nil {
			glog.V(2).Infof("session %d: no handler for %s", s.id, reg.Kind)
			continue
		}
		if err := reg.Handler(s, msg); err != nil {
			if protocol.IsProtocolError(err) {
				s.metrics.protocolError("handler")
			}
			glog.Errorf("session %d: handling %s: %v", s.id, reg.Kind, err)
			s.Kick(kickReason(err))
			s.awaitWriter()
			return err
		}
		if s.closing.Load() {
			s.awaitWriter()
			return nil
		}
	}
}

func (s *Session) readFailed(err error) error {
	switch {
	case s.closing.Load(), err == io.EOF, errors.Is(err, net.ErrClosed):
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		glog.Warningf("session %d: read timed out", s.id)
		s.Kick("Timed out")
		s.awaitWriter()
		return err
	case protocol.IsProtocolError(err):
		s.metrics.protocolError(errorLabel(err))
		glog.Errorf("session %d: %v", s.id, err)
		s.Kick(kickReason(err))
		s.awaitWriter()
		return err
	default:
		glog.Errorf("session %d: read: %v", s.id, err)
		return err
	}
}

func (s *Session) awaitWriter() {
	select {
	case <-s.writerDone:
	case <-time.After(s.opts.KickTimeout):
		glog.Warningf("session %d: gave up flushing after %v", s.id, s.opts.KickTimeout)
	}
}

func (s *Session) writeLoop() {
	defer close(s.writerDone)
	for {
		select {
		case o := <-s.queue:
			switch {
			case o.encrypt != nil:
				s.writer.Enable(o.encrypt)
			case o.close:
				s.Close()
				return
			default:
				s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
				if _, err := s.writer.Write(o.frame); err != nil {
					switch {
					case s.closing.Load():
					case errors.Is(err, os.ErrDeadlineExceeded):
						glog.Warningf("session %d: write timed out after %v", s.id, s.opts.WriteTimeout)
						s.metrics.dropped("write_timeout")
					default:
						glog.Errorf("session %d: write: %v", s.id, err)
					}
					s.Close()
					return
				}
				s.metrics.frame(o.phase.String(), "outbound")
				glog.V(3).Infof("session %d: written %d bytes", s.id, len(o.frame))
			}
		case <-s.done:
			return
		}
	}
}

func errorLabel(err error) string {
	var (
		unknown    *protocol.UnknownOpcodeError
		transition *protocol.TransitionError
		decode     *protocol.DecodeError
	)
	switch {
	case errors.As(err, &unknown):
		return "unknown_opcode"
	case errors.As(err, &transition):
		return "invalid_transition"
	case errors.As(err, &decode):
		return "decode"
	default:
		return "framing"
	}
}

func kickReason(err error) string {
	var transition *protocol.TransitionError
	if errors.As(err, &transition) {
		return "Invalid state"
	}
	if protocol.IsProtocolError(err) {
		return "Protocol error"
	}
	return "Internal server error"
}

var _ protocol.Session = (*Session)(nil)
