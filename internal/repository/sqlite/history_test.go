package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
	"studyultra/internal/repository/historytest"
)

func TestHistoryStore_Contract(t *testing.T) {
	historytest.Run(t, func(t *testing.T) repositories.HistoryStore {
		store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close(context.Background()) })
		return store
	})
}

func TestHistoryStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	history := models.ChatHistory{{Question: "q", Answer: "a"}}
	_, err = store.Append(ctx, "u", history)
	require.NoError(t, err)
	require.NoError(t, store.Close(ctx))

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	snaps, err := reopened.LoadAll(ctx, "u")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, history, snaps[0].Chat)
}

func TestHistoryStore_AppendWritesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
	store.now = func() time.Time { return fixed }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_snapshots")).
		WithArgs(sqlmock.AnyArg(), "u", fixed.Truncate(time.Microsecond).UnixMicro(), `[{"question":"q","answer":"a"}]`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	snap, err := store.Append(context.Background(), "u", models.ChatHistory{{Question: "q", Answer: "a"}})
	require.NoError(t, err)
	assert.Equal(t, fixed.Truncate(time.Microsecond), snap.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_AppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cause := errors.New("disk I/O error")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_snapshots")).WillReturnError(cause)

	_, err = NewWithDB(db).Append(context.Background(), "u", models.ChatHistory{{Question: "q", Answer: "a"}})
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, created_at, chat FROM chat_snapshots")).
					WithArgs("u").
					WillReturnError(errors.New("no such table"))
			},
		},
		{
			name: "corrupt chat json",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "created_at", "chat"}).
					AddRow("s1", "u", int64(1714564800000000), `{not json`)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, created_at, chat FROM chat_snapshots")).
					WithArgs("u").
					WillReturnRows(rows)
			},
		},
		{
			name: "row iteration fails",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "created_at", "chat"}).
					AddRow("s1", "u", int64(1714564800000000), `[]`).
					RowError(0, errors.New("connection reset"))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, created_at, chat FROM chat_snapshots")).
					WithArgs("u").
					WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			snaps, err := NewWithDB(db).LoadAll(context.Background(), "u")
			assert.Error(t, err)
			assert.Nil(t, snaps)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHistoryStore_LoadDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "created_at", "chat"}).
		AddRow("s1", "u", int64(1714564800000000), `[{"question":"q1","answer":"a1"}]`).
		AddRow("s2", "u", int64(1714564801000000), `null`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, created_at, chat FROM chat_snapshots")).
		WithArgs("u").
		WillReturnRows(rows)

	snaps, err := NewWithDB(db).LoadAll(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), snaps[0].Timestamp)
	assert.Equal(t, models.ChatHistory{{Question: "q1", Answer: "a1"}}, snaps[0].Chat)
	assert.Equal(t, models.ChatHistory{}, snaps[1].Chat)
}
