package repositories

import (
	"context"
	"fmt"
	"strings"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

// HistoryStore is the durable, append-only log of chat snapshots per user.
type HistoryStore interface {
	// Append inserts a new snapshot holding the full history. The store
	// assigns the snapshot ID and timestamp. Existing snapshots are never
	// updated or removed.
	Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error)

	// LoadAll returns every snapshot for the user in ascending timestamp
	// order. A user with no snapshots gets an empty slice and no error.
	LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error)

	// Close releases connections held by the store.
	Close(ctx context.Context) error
}

// ValidateUserID rejects an empty or blank owner key.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return nil
}
