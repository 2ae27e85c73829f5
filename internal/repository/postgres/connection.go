package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyultra/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *zap.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users         string
	ChatSnapshots string
}

// NewTableNames creates table names with the given prefix (dev_, test_, prod_).
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:         fmt.Sprintf("%susers", prefix),
		ChatSnapshots: fmt.Sprintf("%schat_snapshots", prefix),
	}
}

// CreateConnectionPool creates a pgx pool with PgBouncer compatibility.
//
// PgBouncer in transaction pooling mode (port 6543 on hosted poolers) does
// not support prepared statements. On that port the pool switches to
// QueryExecModeCacheDescribe, which keeps the extended protocol (needed for
// JSONB parameters) without creating named statements. An explicit
// default_query_exec_mode in the connection string takes precedence.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches
// the server, so each environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		logger.Debug("auto-configured cache_describe mode for PgBouncer compatibility", zap.Uint16("port", 6543))
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected",
		zap.Int32("max_conns", config.MaxConns),
		zap.Int32("min_conns", config.MinConns))
	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there
// is none, so repositories join an enclosing transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
