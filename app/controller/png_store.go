package controller

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pngSessionTTL is how long exported PNG pages stay downloadable
const pngSessionTTL = 10 * time.Minute

type pngSession struct {
	name      string // file name prefix, e.g. "shoe_air-zoom"
	pages     map[int][]byte
	expiresAt time.Time
}

// pngStore holds exported PNG pages until they expire. Expired sessions are swept on access.
type pngStore struct {
	mu       sync.Mutex
	sessions map[string]pngSession
	now      func() time.Time
}

func newPNGStore(now func() time.Time) *pngStore {
	return &pngStore{sessions: make(map[string]pngSession), now: now}
}

// put stores pages and returns the new session ID
func (s *pngStore) put(name string, pages map[int][]byte) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.sessions[id] = pngSession{name: name, pages: pages, expiresAt: s.now().Add(pngSessionTTL)}
	return id
}

// get returns a live session
func (s *pngStore) get(id string) (pngSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *pngStore) sweep() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
