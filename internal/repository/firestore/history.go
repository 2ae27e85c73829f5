// Package firestore stores chat snapshots under users/{uid}/chats in
// Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

const (
	usersCollection = "users"
	chatsCollection = "chats"
)

// chatDocument is the stored shape: {timestamp, chat}.
type chatDocument struct {
	Timestamp time.Time          `firestore:"timestamp"`
	Chat      models.ChatHistory `firestore:"chat"`
}

// HistoryStore implements repositories.HistoryStore on Firestore. The
// timestamp is a server timestamp resolved at commit.
type HistoryStore struct {
	client *firestore.Client
	root   string
	logger *zap.Logger
}

// Open creates a client authenticated with a service-account JSON key.
func Open(ctx context.Context, projectID string, credentialsJSON []byte, logger *zap.Logger) (*HistoryStore, error) {
	if projectID == "" {
		return nil, errors.New("firestore project id cannot be empty")
	}

	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	logger.Info("firestore history store initialized", zap.String("project_id", projectID))
	return NewWithClient(client, usersCollection, logger), nil
}

// NewWithClient wraps an existing client. root is the top-level user
// collection, "users" in production.
func NewWithClient(client *firestore.Client, root string, logger *zap.Logger) *HistoryStore {
	return &HistoryStore{client: client, root: root, logger: logger}
}

func (s *HistoryStore) chats(userID string) *firestore.CollectionRef {
	return s.client.Collection(s.root).Doc(userID).Collection(chatsCollection)
}

// Append implements repositories.HistoryStore.
func (s *HistoryStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	snap := models.NewChatSnapshot(userID, history, time.Now())
	result, err := s.chats(userID).Doc(snap.ID).Create(ctx, map[string]any{
		"timestamp": firestore.ServerTimestamp,
		"chat":      snap.Chat,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat document: %w", err)
	}

	// The server timestamp equals the commit time.
	snap.Timestamp = result.UpdateTime.UTC()
	return &snap, nil
}

// LoadAll implements repositories.HistoryStore.
func (s *HistoryStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	iter := s.chats(userID).
		OrderBy("timestamp", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	snapshots := make([]models.ChatSnapshot, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate chats: %w", err)
		}

		var rec chatDocument
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode chat %s: %w", doc.Ref.ID, err)
		}
		if rec.Chat == nil {
			rec.Chat = models.ChatHistory{}
		}
		snapshots = append(snapshots, models.ChatSnapshot{
			ID:        doc.Ref.ID,
			UserID:    userID,
			Timestamp: rec.Timestamp.UTC(),
			Chat:      rec.Chat,
		})
	}
	return snapshots, nil
}

// Close implements repositories.HistoryStore.
func (s *HistoryStore) Close(ctx context.Context) error {
	return s.client.Close()
}
