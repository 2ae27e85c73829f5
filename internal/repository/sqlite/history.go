// Package sqlite stores chat snapshots in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// HistoryStore keeps one row per snapshot. created_at holds unix
// microseconds; seq breaks ties between equal timestamps.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database file if needed and runs migrations.
func Open(ctx context.Context, path string) (*HistoryStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer avoids SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	store := NewWithDB(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an open database without running migrations.
func NewWithDB(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db, now: time.Now}
}

// Migrate creates the snapshot table and index.
func (s *HistoryStore) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_snapshots (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			chat TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_snapshots_user ON chat_snapshots (user_id, created_at, seq)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// Append implements repositories.HistoryStore.
func (s *HistoryStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	snap := models.NewChatSnapshot(userID, history, s.now().Truncate(time.Microsecond))
	chat, err := json.Marshal(snap.Chat)
	if err != nil {
		return nil, fmt.Errorf("encode chat: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_snapshots (id, user_id, created_at, chat) VALUES (?, ?, ?, ?)`,
		snap.ID, userID, snap.Timestamp.UnixMicro(), string(chat),
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return &snap, nil
}

// LoadAll implements repositories.HistoryStore.
func (s *HistoryStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	if err := repositories.ValidateUserID(userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at, chat FROM chat_snapshots WHERE user_id = ? ORDER BY created_at ASC, seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]models.ChatSnapshot, 0)
	for rows.Next() {
		var (
			snap      models.ChatSnapshot
			createdAt int64
			chat      string
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &createdAt, &chat); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(chat), &snap.Chat); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		if snap.Chat == nil {
			snap.Chat = models.ChatHistory{}
		}
		snap.Timestamp = time.UnixMicro(createdAt).UTC()
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Close implements repositories.HistoryStore.
func (s *HistoryStore) Close(ctx context.Context) error {
	return s.db.Close()
}
