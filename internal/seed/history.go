// Package seed writes demo chat history for local development.
package seed

import (
	"context"
	"fmt"
	"strings"

	loremgen "github.com/bozaro/golorem"
	"go.uber.org/zap"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// HistorySeeder appends generated snapshots the way a real session would:
// one snapshot per turn, each holding the history so far.
type HistorySeeder struct {
	store     repositories.HistoryStore
	generator *loremgen.Lorem
	logger    *zap.Logger
}

// NewHistorySeeder creates a seeder over store.
func NewHistorySeeder(store repositories.HistoryStore, logger *zap.Logger) *HistorySeeder {
	return &HistorySeeder{
		store:     store,
		generator: loremgen.New(),
		logger:    logger,
	}
}

// SeedUser appends turns snapshots for userID and returns the final history.
func (s *HistorySeeder) SeedUser(ctx context.Context, userID string, turns int) (models.ChatHistory, error) {
	if turns < 1 {
		return nil, fmt.Errorf("turns must be at least 1, got %d", turns)
	}

	history := models.ChatHistory{}
	for i := 0; i < turns; i++ {
		history = append(history, s.turn())
		snap, err := s.store.Append(ctx, userID, history)
		if err != nil {
			return nil, fmt.Errorf("append snapshot %d: %w", i+1, err)
		}
		s.logger.Debug("snapshot seeded",
			zap.String("user_id", userID),
			zap.String("snapshot_id", snap.ID),
			zap.Int("turns", len(history)))
	}

	s.logger.Info("user seeded", zap.String("user_id", userID), zap.Int("turns", turns))
	return history, nil
}

func (s *HistorySeeder) turn() models.ChatTurn {
	question := strings.TrimSuffix(s.generator.Sentence(4, 10), ".") + "?"
	return models.ChatTurn{
		Question: question,
		Answer:   s.generator.Paragraph(2, 4),
	}
}
