// Package session keeps the live sessions of logged-in visitors.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

// Registry maps session IDs to sessions and expires idle ones.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*models.Session
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger

	cron *cron.Cron
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry. A zero idleTimeout disables expiry.
func NewRegistry(idleTimeout time.Duration, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		sessions:    make(map[string]*models.Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new session for identity seeded with history.
func (r *Registry) Create(identity models.Identity, history models.ChatHistory) *models.Session {
	sess := models.NewSession(uuid.NewString(), identity, history, r.now())

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	r.logger.Debug("session created",
		zap.String("session_id", sess.ID),
		zap.String("user_id", identity.Subject),
		zap.Int("seed_turns", sess.Len()))
	return sess
}

// Get returns a live session and records activity on it. Unknown and
// expired sessions return domain.ErrSessionNotFound.
func (r *Registry) Get(id string) (*models.Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	now := r.now()
	if r.expired(sess, now) {
		r.Delete(id)
		return nil, domain.ErrSessionNotFound
	}
	sess.Touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes every expired session and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, sess := range r.sessions {
		if r.expired(sess, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) expired(sess *models.Session, now time.Time) bool {
	return r.idleTimeout > 0 && now.Sub(sess.LastSeen()) > r.idleTimeout
}

// StartSweeper runs Sweep on the cron schedule (e.g. "@every 1m").
func (r *Registry) StartSweeper(schedule string) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(schedule, func() {
		if n := r.Sweep(); n > 0 {
			r.logger.Info("expired sessions removed", zap.Int("count", n), zap.Int("remaining", r.Len()))
		}
	}); err != nil {
		return err
	}
	c.Start()

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()
	r.logger.Info("session sweeper started", zap.String("schedule", schedule), zap.Duration("idle_timeout", r.idleTimeout))
	return nil
}

// StopSweeper stops the sweeper and waits for a running sweep to finish.
func (r *Registry) StopSweeper() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
