// Package mongo stores chat snapshots in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// CollectionName holds one document per snapshot.
const CollectionName = "chat_snapshots"

// HistoryStore implements repositories.HistoryStore on MongoDB. Mongo dates
// have millisecond precision, so timestamps are truncated before writing.
// Snapshot IDs are UUIDv7 strings and sort in creation order.
type HistoryStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// Open connects to uri, verifies the connection and ensures the index.
func Open(ctx context.Context, uri, database string, logger *zap.Logger) (*HistoryStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri cannot be empty")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := &HistoryStore{
		client:     client,
		collection: client.Database(database).Collection(CollectionName),
		logger:     logger,
		now:        time.Now,
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo history store connected", zap.String("database", database))
	return store, nil
}

func (s *HistoryStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    loadSort(),
		Options: options.Index().SetName("user_timestamp"),
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// loadSort orders by owner, then time, then ID.
func loadSort() bson.D {
	return bson.D{
		{Key: "user_id", Value: 1},
		{Key: "timestamp", Value: 1},
		{Key: "_id", Value: 1},
	}
}

// Append implements repositories.HistoryStore.
func (s *HistoryStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	snap := models.NewChatSnapshot(userID, history, s.now().Truncate(time.Millisecond))
	if _, err := s.collection.InsertOne(ctx, snap); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return &snap, nil
}

// LoadAll implements repositories.HistoryStore.
func (s *HistoryStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(loadSort()))
	if err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}

	snapshots := make([]models.ChatSnapshot, 0)
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	for i := range snapshots {
		snapshots[i].Timestamp = snapshots[i].Timestamp.UTC()
		if snapshots[i].Chat == nil {
			snapshots[i].Chat = models.ChatHistory{}
		}
	}
	return snapshots, nil
}

// Close disconnects the client.
func (s *HistoryStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
