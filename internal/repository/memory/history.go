// Package memory is a process-local history store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// HistoryStore keeps snapshots in a map keyed by user ID.
type HistoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]models.ChatSnapshot
	now       func() time.Time
}

// Option configures a HistoryStore.
type Option func(*HistoryStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *HistoryStore) { s.now = now }
}

// NewHistoryStore creates an empty store.
func NewHistoryStore(opts ...Option) *HistoryStore {
	s := &HistoryStore{
		snapshots: make(map[string][]models.ChatSnapshot),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append implements repositories.HistoryStore.
func (s *HistoryStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.NewChatSnapshot(userID, history, s.now())
	s.snapshots[userID] = append(s.snapshots[userID], snap)

	out := snap
	out.Chat = snap.Chat.Clone()
	return &out, nil
}

// LoadAll implements repositories.HistoryStore.
func (s *HistoryStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.snapshots[userID]
	out := make([]models.ChatSnapshot, len(stored))
	for i, snap := range stored {
		out[i] = snap
		out[i].Chat = snap.Chat.Clone()
	}
	// Stable: equal timestamps keep insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Close implements repositories.HistoryStore.
func (s *HistoryStore) Close(ctx context.Context) error {
	return nil
}
