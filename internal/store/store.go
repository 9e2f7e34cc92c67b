// Package store holds the ephemeral moderation state: sessions awaiting
// moderator action and pending manual submissions. Both stores are
// process-lifetime only; a restart drops everything in flight.
package store

import (
	"sync"

	"github.com/xaenox/guard-bot/internal/metrics"
	"github.com/xaenox/guard-bot/internal/models"
)

// SessionStore maps an originating message ID to its moderation session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int]models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int]models.Session)}
}

// Put registers a session for the originating message. At most one live
// session exists per message ID; a duplicate overwrites.
func (s *SessionStore) Put(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.MessageID] = sess
	metrics.LiveSessions.Set(float64(len(s.sessions)))
}

// TakeIfPresent removes and returns the session for the message ID. The
// check-and-delete happens under one lock so that of two concurrent button
// presses only the first succeeds; the second observes a miss.
func (s *SessionStore) TakeIfPresent(messageID int) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[messageID]
	if !ok {
		return models.Session{}, false
	}
	delete(s.sessions, messageID)
	metrics.LiveSessions.Set(float64(len(s.sessions)))
	return sess, true
}

// Clear drops every session.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[int]models.Session)
	metrics.LiveSessions.Set(0)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// PendingStore maps an opaque identifier to a pending manual submission.
type PendingStore struct {
	mu      sync.Mutex
	pending map[string]models.PendingSubmission
}

func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[string]models.PendingSubmission)}
}

func (s *PendingStore) Put(sub models.PendingSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[sub.ID] = sub
}

// Get returns the submission without consuming it. Used when the moderator
// picks a category: the entry stays until confirm or cancel.
func (s *PendingStore) Get(id string) (models.PendingSubmission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.pending[id]
	return sub, ok
}

// TakeIfPresent removes and returns the submission. Whichever of confirm and
// cancel reaches it first consumes the identifier; later attempts miss.
func (s *PendingStore) TakeIfPresent(id string) (models.PendingSubmission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.pending[id]
	if !ok {
		return models.PendingSubmission{}, false
	}
	delete(s.pending, id)
	return sub, true
}

// Clear drops every pending submission.
func (s *PendingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = make(map[string]models.PendingSubmission)
}

func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
