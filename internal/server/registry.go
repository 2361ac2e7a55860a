package server

import (
	"sync"

	"github.com/mickamy/minitable/internal/session"
)

// Registry is the ordered list of sessions the server has started serving.
// All access goes through its mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions []*session.Session
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a session.
func (r *Registry) Add(s *session.Session) {
	r.mu.Lock()
	r.sessions = append(r.sessions, s)
	r.mu.Unlock()
}

// Remove drops s and reports whether it was present.
func (r *Registry) Remove(s *session.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.sessions {
		if cur == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the registered sessions in insertion order.
func (r *Registry) Snapshot() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*session.Session(nil), r.sessions...)
}

// Len returns the number of registered sessions, live or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Live returns the number of registered sessions not yet closed.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if s.Live() {
			n++
		}
	}
	return n
}
