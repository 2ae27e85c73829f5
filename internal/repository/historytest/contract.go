// Package historytest holds the behaviour every HistoryStore implementation
// must satisfy. Backend packages run it from their own tests.
package historytest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) repositories.HistoryStore

// Run executes the shared store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("load for unknown user is empty", func(t *testing.T) {
		store := newStore(t)

		snaps, err := store.LoadAll(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, snaps)
		assert.Empty(t, snaps)
	})

	t.Run("append then load returns the appended history last", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		history := models.ChatHistory{
			{Question: "What is photosynthesis?", Answer: "It is how plants make food."},
		}

		snap, err := store.Append(ctx, "user-1", history)
		require.NoError(t, err)
		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, "user-1", snap.UserID)
		assert.False(t, snap.Timestamp.IsZero())
		assert.Equal(t, history, snap.Chat)

		snaps, err := store.LoadAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, history, snaps[len(snaps)-1].Chat)
		assert.Equal(t, snap.ID, snaps[0].ID)
		assert.True(t, snap.Timestamp.Equal(snaps[0].Timestamp))
	})

	t.Run("every append is a new full snapshot in time order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var history models.ChatHistory
		var ids []string
		for i := 0; i < 5; i++ {
			history = append(history, models.ChatTurn{
				Question: fmt.Sprintf("q%d", i),
				Answer:   fmt.Sprintf("a%d", i),
			})
			snap, err := store.Append(ctx, "user-1", history)
			require.NoError(t, err)
			ids = append(ids, snap.ID)
		}

		snaps, err := store.LoadAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, snaps, 5)

		for i, snap := range snaps {
			assert.Equal(t, ids[i], snap.ID)
			assert.Len(t, snap.Chat, i+1)
			assert.Equal(t, fmt.Sprintf("q%d", i), snap.Chat[i].Question)
			if i > 0 {
				assert.False(t, snap.Timestamp.Before(snaps[i-1].Timestamp))
			}
		}
		assert.Equal(t, history, snaps[4].Chat)
	})

	t.Run("caller mutation after append does not change stored data", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		history := models.ChatHistory{{Question: "q", Answer: "a"}}

		_, err := store.Append(ctx, "user-1", history)
		require.NoError(t, err)
		history[0].Answer = "changed"

		snaps, err := store.LoadAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "a", snaps[0].Chat[0].Answer)
	})

	t.Run("users are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Append(ctx, "ana", models.ChatHistory{{Question: "q-ana", Answer: "a"}})
		require.NoError(t, err)
		_, err = store.Append(ctx, "rui", models.ChatHistory{{Question: "q-rui", Answer: "a"}})
		require.NoError(t, err)

		snaps, err := store.LoadAll(ctx, "ana")
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "q-ana", snaps[0].Chat[0].Question)
	})

	t.Run("unicode and control characters round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		history := models.ChatHistory{{
			Question: "Análise? ¿Qué es? \"quoted\"\n\ttab",
			Answer:   "Análise de vídeo ainda não implementada, mas em breve!",
		}}

		_, err := store.Append(ctx, "user-1", history)
		require.NoError(t, err)

		snaps, err := store.LoadAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, history, snaps[0].Chat)
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Append(ctx, "", models.ChatHistory{{Question: "q", Answer: "a"}})
		assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)

		_, err = store.LoadAll(ctx, "  ")
		assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
	})
}
