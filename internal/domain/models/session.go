package models

import (
	"sync"
	"time"
)

// Session is one visitor's login: who they are and the live chat history.
// It is created at login, passed explicitly to every operation and
// discarded on logout or idle expiry.
type Session struct {
	ID        string
	Identity  Identity
	CreatedAt time.Time

	// submitMu serializes submissions so history appends and store writes
	// happen in the same order.
	submitMu sync.Mutex

	mu       sync.RWMutex
	history  ChatHistory
	lastSeen time.Time
}

// NewSession creates a session seeded with history.
func NewSession(id string, identity Identity, history ChatHistory, now time.Time) *Session {
	return &Session{
		ID:        id,
		Identity:  identity,
		CreatedAt: now,
		history:   history.Clone(),
		lastSeen:  now,
	}
}

// LockSubmissions blocks until no other submission is running on the
// session and returns the matching unlock func.
func (s *Session) LockSubmissions() func() {
	s.submitMu.Lock()
	return s.submitMu.Unlock
}

// Turns returns a copy of the live history.
func (s *Session) Turns() ChatHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Clone()
}

// Len returns the number of turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Append adds a turn and returns a copy of the full history after it.
func (s *Session) Append(turn ChatTurn) ChatHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turn)
	return s.history.Clone()
}

// Truncate drops turns beyond n. Used to undo an append whose snapshot
// could not be stored.
func (s *Session) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= 0 && n < len(s.history) {
		s.history = s.history[:n:n]
	}
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
