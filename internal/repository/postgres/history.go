package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// HistoryStore implements repositories.HistoryStore on two tables: one row
// per user and one JSONB row per snapshot.
type HistoryStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	tx     repositories.TransactionManager
	logger *zap.Logger
	now    func() time.Time
}

// NewHistoryStore creates a postgres history store.
func NewHistoryStore(config *RepositoryConfig, tx repositories.TransactionManager) *HistoryStore {
	return &HistoryStore{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     tx,
		logger: config.Logger,
		now:    time.Now,
	}
}

// EnsureSchema creates the tables for the configured prefix if missing.
func (r *HistoryStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			last_seen_at TIMESTAMPTZ NOT NULL
		)`, r.tables.Users),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			seq BIGSERIAL NOT NULL,
			user_id TEXT NOT NULL REFERENCES %s(id),
			created_at TIMESTAMPTZ NOT NULL,
			chat JSONB NOT NULL
		)`, r.tables.ChatSnapshots, r.tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_created_idx ON %s (user_id, created_at, seq)`,
			r.tables.ChatSnapshots, r.tables.ChatSnapshots),
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops both tables for the configured prefix. Seeding and
// tests only, the snapshot log is otherwise never deleted.
func (r *HistoryStore) DropSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s CASCADE`, r.tables.ChatSnapshots, r.tables.Users)
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	r.logger.Warn("history tables dropped",
		zap.String("snapshots", r.tables.ChatSnapshots),
		zap.String("users", r.tables.Users))
	return nil
}

// Append upserts the owning user and inserts the snapshot in one transaction.
func (r *HistoryStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	snap := models.NewChatSnapshot(userID, history, r.now().Truncate(time.Microsecond))
	chat, err := json.Marshal(snap.Chat)
	if err != nil {
		return nil, fmt.Errorf("encode chat: %w", err)
	}

	err = r.tx.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)

		upsertUser := fmt.Sprintf(`
			INSERT INTO %s (id, created_at, last_seen_at)
			VALUES ($1, $2, $2)
			ON CONFLICT (id) DO UPDATE SET last_seen_at = EXCLUDED.last_seen_at
		`, r.tables.Users)
		if _, err := executor.Exec(ctx, upsertUser, userID, snap.Timestamp); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		insertSnapshot := fmt.Sprintf(`
			INSERT INTO %s (id, user_id, created_at, chat)
			VALUES ($1, $2, $3, $4)
		`, r.tables.ChatSnapshots)
		if _, err := executor.Exec(ctx, insertSnapshot, uuid.MustParse(snap.ID), userID, snap.Timestamp, chat); err != nil {
			if IsPgDuplicateError(err) {
				return fmt.Errorf("snapshot id %s already used: %w", snap.ID, err)
			}
			return fmt.Errorf("insert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("snapshot appended",
		zap.String("user_id", userID),
		zap.String("snapshot_id", snap.ID),
		zap.Int("turns", len(snap.Chat)))
	return &snap, nil
}

// LoadAll returns the user's snapshots, oldest first.
func (r *HistoryStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id::text, user_id, created_at, chat
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC
	`, r.tables.ChatSnapshots)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		if IsPgUndefinedTableError(err) {
			return nil, fmt.Errorf("table %s missing, run with schema setup: %w", r.tables.ChatSnapshots, err)
		}
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]models.ChatSnapshot, 0)
	for rows.Next() {
		var (
			snap models.ChatSnapshot
			chat []byte
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &snap.Timestamp, &chat); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal(chat, &snap.Chat); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		if snap.Chat == nil {
			snap.Chat = models.ChatHistory{}
		}
		snap.Timestamp = snap.Timestamp.UTC()
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Close releases the connection pool.
func (r *HistoryStore) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}
