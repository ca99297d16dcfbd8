package server

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/protocol"
)

// Registry tracks live sessions. It is a lookup index only; sessions
// remove themselves when they close.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[uint64]*Session{}}
}

func (r *Registry) newID() uint64 {
	return r.nextID.Add(1)
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove drops the session with id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Get(id uint64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns a snapshot ordered by session id.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// CountInPhase counts sessions currently in phase.
func (r *Registry) CountInPhase(phase protocol.Phase) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if s.Phase() == phase {
			n++
		}
	}
	return n
}

// Broadcast offers msg to every session in phase and returns how many
// accepted it. It does not wait on slow sessions; those are closed.
func (r *Registry) Broadcast(phase protocol.Phase, msg message.Message) int {
	n := 0
	for _, s := range r.Sessions() {
		if s.Phase() != phase {
			continue
		}
		if err := s.Offer(msg); err != nil {
			glog.V(2).Infof("broadcast %s to session %d: %v", msg.Kind(), s.ID(), err)
			continue
		}
		n++
	}
	return n
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	for _, s := range r.Sessions() {
		s.Close()
	}
}
