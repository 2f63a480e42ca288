package registration

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired intake sessions.
var ErrSessionNotFound = errors.New("intake session not found")

type session struct {
	wizard   *Wizard
	lastSeen time.Time
}

// Store keeps in-progress intakes in memory. Sessions idle longer than the
// TTL are dropped on the next access.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
	}
}

// Start creates a new intake session.
func (s *Store) Start() *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	w := newWizard()
	s.sessions[w.ID] = &session{wizard: w, lastSeen: time.Now()}
	return w.clone()
}

// Get returns a snapshot of the session's wizard and refreshes its idle
// timer. The copy is taken while the lock is held, so the caller can read it
// freely while other requests mutate the session through Do.
func (s *Store) Get(id uuid.UUID) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = time.Now()
	return sess.wizard.clone(), nil
}

// Do runs fn on the session's wizard while holding the store lock, so wizard
// mutations never interleave.
func (s *Store) Do(id uuid.UUID, fn func(*Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.lastSeen = time.Now()
	return fn(sess.wizard)
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.sessions)
}

func (s *Store) purgeLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
