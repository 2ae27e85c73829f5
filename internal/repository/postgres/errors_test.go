package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	missing := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"})
	plain := errors.New("connection refused")

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(missing))
	assert.False(t, IsPgDuplicateError(plain))

	assert.True(t, IsPgUndefinedTableError(missing))
	assert.False(t, IsPgUndefinedTableError(dup))
	assert.False(t, IsPgUndefinedTableError(plain))
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")

	assert.Equal(t, "test_users", tables.Users)
	assert.Equal(t, "test_chat_snapshots", tables.ChatSnapshots)
}
