package gameworld

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
)

// MaxChatLength is the longest chat line a client may send.
const MaxChatLength = 100

// Broadcaster sends a message to every session in a phase.
// server.Registry implements it.
type Broadcaster interface {
	Broadcast(phase protocol.Phase, msg message.Message) int
}

type Options struct {
	// ViewDistance is the radius, in chunks, sent around the spawn column.
	ViewDistance int
	MaxPlayers   int
	GameMode     uint8
	Difficulty   uint8
	LevelType    string
	Spawn        Position
}

func (o Options) withDefaults() Options {
	if o.ViewDistance <= 0 {
		o.ViewDistance = 3
	}
	if o.LevelType == "" {
		o.LevelType = "flat"
	}
	if o.Spawn == (Position{}) {
		o.Spawn = Position{X: 0.5, Y: 4, Z: 0.5, OnGround: true}
	}
	return o
}

// Server is the world players join once logged in.
type Server struct {
	opts        Options
	chunks      ChunkSource
	broadcaster Broadcaster

	nextEntityID atomic.Int32

	mu      sync.Mutex
	players map[uint64]*Player
}

func New(opts Options, chunks ChunkSource, broadcaster Broadcaster) *Server {
	return &Server{
		opts:        opts.withDefaults(),
		chunks:      chunks,
		broadcaster: broadcaster,
		players:     map[uint64]*Player{},
	}
}

// Handlers returns the PLAY phase handlers, for server.New.
func (s *Server) Handlers() map[message.Kind]protocol.Handler {
	return map[message.Kind]protocol.Handler{
		message.KindKeepAlive:          s.handleKeepAlive,
		message.KindIncomingChat:       s.handleChat,
		message.KindPlayerPositionLook: s.handlePositionLook,
		message.KindPlayerUpdate:       s.handlePlayerUpdate,
	}
}

// Join sends the world to a session which has just entered PLAY: the join
// message, every column within view distance of the spawn, and the spawn
// position.
func (s *Server) Join(sess protocol.Session, id protocol.Identity) error {
	p := &Player{
		EntityID: s.nextEntityID.Add(1),
		Identity: id,
		Session:  sess,
		pos:      s.opts.Spawn,
	}
	s.mu.Lock()
	if _, ok := s.players[sess.ID()]; ok {
		s.mu.Unlock()
		return errors.Errorf("session %d joined twice", sess.ID())
	}
	s.players[sess.ID()] = p
	s.mu.Unlock()
	if d, ok := sess.(interface{ Done() <-chan struct{} }); ok {
		go func() {
			<-d.Done()
			s.leave(sess.ID())
		}()
	}

	if err := sess.Send(message.JoinGame{
		EntityID:   p.EntityID,
		GameMode:   s.opts.GameMode,
		Difficulty: s.opts.Difficulty,
		MaxPlayers: uint8(s.opts.MaxPlayers),
		LevelType:  s.opts.LevelType,
	}); err != nil {
		return err
	}

	spawn := s.opts.Spawn
	cx, cz := spawn.ChunkX(), spawn.ChunkZ()
	vd := int32(s.opts.ViewDistance)
	sent := 0
	for x := cx - vd; x <= cx+vd; x++ {
		for z := cz - vd; z <= cz+vd; z++ {
			c, err := s.chunks.Chunk(x, z)
			if err != nil {
				return errors.Wrapf(err, "loading chunk %d,%d", x, z)
			}
			if err := sess.Send(c.Message()); err != nil {
				return err
			}
			sent++
		}
	}
	glog.V(2).Infof("session %d: sent %d chunks", sess.ID(), sent)

	if err := sess.Send(message.PositionRotation{
		X:        spawn.X,
		Y:        spawn.Y + EyeHeight,
		Z:        spawn.Z,
		Yaw:      spawn.Yaw,
		Pitch:    spawn.Pitch,
		OnGround: spawn.OnGround,
	}); err != nil {
		return err
	}
	glog.Infof("%s joined as entity %d", id.Name, p.EntityID)
	s.broadcaster.Broadcast(protocol.Play, message.NewChat(id.Name+" joined the game"))
	return nil
}

func (s *Server) leave(sessID uint64) {
	s.mu.Lock()
	p, ok := s.players[sessID]
	delete(s.players, sessID)
	s.mu.Unlock()
	if !ok {
		return
	}
	glog.Infof("%s left", p.Identity.Name)
	s.broadcaster.Broadcast(protocol.Play, message.NewChat(p.Identity.Name+" left the game"))
}

// Player returns the player joined on session sessID.
func (s *Server) Player(sessID uint64) (*Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[sessID]
	return p, ok
}

// Players lists joined players by entity id.
func (s *Server) Players() []*Player {
	s.mu.Lock()
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

func (s *Server) player(sess protocol.Session) (*Player, error) {
	p, ok := s.Player(sess.ID())
	if !ok {
		return nil, errors.Errorf("session %d has not joined", sess.ID())
	}
	return p, nil
}

func (s *Server) handleKeepAlive(sess protocol.Session, msg message.Message) error {
	p, err := s.player(sess)
	if err != nil {
		return err
	}
	p.keepAlive(time.Now())
	glog.V(3).Infof("session %d: keep-alive %d", sess.ID(), msg.(message.KeepAlive).ID)
	return nil
}

func (s *Server) handleChat(sess protocol.Session, msg message.Message) error {
	p, err := s.player(sess)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(msg.(message.IncomingChat).Text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) > MaxChatLength {
		sess.Kick("Chat message too long")
		return nil
	}
	line := fmt.Sprintf("<%s> %s", p.Identity.Name, text)
	glog.Infoln(line)
	s.broadcaster.Broadcast(protocol.Play, message.NewChat(line))
	return nil
}

func (s *Server) handlePositionLook(sess protocol.Session, msg message.Message) error {
	p, err := s.player(sess)
	if err != nil {
		return err
	}
	m := msg.(message.PlayerPositionLook)
	p.setPosition(Position{X: m.X, Y: m.FeetY, Z: m.Z, Yaw: m.Yaw, Pitch: m.Pitch, OnGround: m.OnGround})
	glog.V(3).Infof("session %d: at %.2f,%.2f,%.2f", sess.ID(), m.X, m.FeetY, m.Z)
	return nil
}

func (s *Server) handlePlayerUpdate(sess protocol.Session, msg message.Message) error {
	p, err := s.player(sess)
	if err != nil {
		return err
	}
	p.setOnGround(msg.(message.PlayerUpdate).OnGround)
	return nil
}
