// Package repository selects and wires the configured history backend.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studyultra/internal/config"
	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
	"studyultra/internal/repository/firestore"
	"studyultra/internal/repository/memory"
	"studyultra/internal/repository/mongo"
	"studyultra/internal/repository/postgres"
	"studyultra/internal/repository/sqlite"
)

// NewHistoryStore opens the backend named by HISTORY_BACKEND using the
// parsed STORE_CREDENTIALS, and wraps it with error classification.
func NewHistoryStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.HistoryStore, error) {
	creds := cfg.Store()
	if creds == nil {
		return nil, errors.New("store credentials not loaded")
	}

	var (
		store repositories.HistoryStore
		err   error
	)
	switch cfg.HistoryBackend {
	case config.BackendFirestore:
		store, err = firestore.Open(ctx, creds.ProjectID, creds.Raw, logger)
	case config.BackendPostgres:
		store, err = openPostgres(ctx, cfg, creds, logger)
	case config.BackendMongo:
		store, err = mongo.Open(ctx, creds.URI, creds.Database, logger)
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, creds.Path)
	case config.BackendMemory:
		store = memory.NewHistoryStore()
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.HistoryBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s history store: %w", cfg.HistoryBackend, err)
	}

	logger.Info("history store ready", zap.String("backend", cfg.HistoryBackend))
	return NewInstrumentedStore(store, cfg.HistoryBackend, logger), nil
}

func openPostgres(ctx context.Context, cfg *config.Config, creds *config.StoreCredentials, logger *zap.Logger) (*postgres.HistoryStore, error) {
	pool, err := postgres.CreateConnectionPool(ctx, creds.DSN, logger)
	if err != nil {
		return nil, err
	}
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	store := postgres.NewHistoryStore(repoConfig, postgres.NewTransactionManager(pool, logger))
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// DropHistoryTables drops the postgres history tables for the configured
// prefix. Other backends are rejected.
func DropHistoryTables(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.HistoryBackend != config.BackendPostgres {
		return fmt.Errorf("dropping tables is only supported for the %s backend, got %s",
			config.BackendPostgres, cfg.HistoryBackend)
	}
	if cfg.IsProduction() {
		return errors.New("refusing to drop history tables in production")
	}
	store, err := openPostgres(ctx, cfg, cfg.Store(), logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	return store.DropSchema(ctx)
}

// InstrumentedStore converts backend failures into *domain.StoreError and
// logs them. Validation errors pass through unchanged.
type InstrumentedStore struct {
	next    repositories.HistoryStore
	backend string
	logger  *zap.Logger
}

// NewInstrumentedStore wraps next.
func NewInstrumentedStore(next repositories.HistoryStore, backend string, logger *zap.Logger) *InstrumentedStore {
	return &InstrumentedStore{next: next, backend: backend, logger: logger}
}

// Append implements repositories.HistoryStore.
func (s *InstrumentedStore) Append(ctx context.Context, userID string, history models.ChatHistory) (*models.ChatSnapshot, error) {
	start := time.Now()
	snap, err := s.next.Append(ctx, userID, history)
	if err != nil {
		return nil, s.wrap("append", userID, err)
	}
	s.logger.Debug("snapshot stored",
		zap.String("backend", s.backend),
		zap.String("user_id", userID),
		zap.Int("turns", len(history)),
		zap.Duration("elapsed", time.Since(start)))
	return snap, nil
}

// LoadAll implements repositories.HistoryStore.
func (s *InstrumentedStore) LoadAll(ctx context.Context, userID string) ([]models.ChatSnapshot, error) {
	snaps, err := s.next.LoadAll(ctx, userID)
	if err != nil {
		return nil, s.wrap("load", userID, err)
	}
	return snaps, nil
}

// Close implements repositories.HistoryStore.
func (s *InstrumentedStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func (s *InstrumentedStore) wrap(op, userID string, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	s.logger.Error("history store failure",
		zap.String("backend", s.backend),
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.Error(err))
	return &domain.StoreError{Op: op, Backend: s.backend, Err: err}
}
