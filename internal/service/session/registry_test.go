package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRegistry(idle time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return NewRegistry(idle, zap.NewNop(), WithClock(clock.Now)), clock
}

var ana = models.Identity{Subject: "sub-1", Email: "ana@example.com", Name: "Ana"}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r, _ := newRegistry(time.Minute)

	seed := models.ChatHistory{{Question: "q", Answer: "a"}}
	sess := r.Create(ana, seed)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, ana, sess.Identity)
	assert.Equal(t, seed, sess.Turns())

	got, err := r.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	assert.True(t, r.Delete(sess.ID))
	assert.False(t, r.Delete(sess.ID))

	_, err = r.Get(sess.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	r, _ := newRegistry(time.Minute)

	a := r.Create(ana, nil)
	b := r.Create(ana, nil)
	assert.NotEqual(t, a.ID, b.ID)

	a.Append(models.ChatTurn{Question: "q", Answer: "a"})
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestRegistry_IdleExpiry(t *testing.T) {
	r, clock := newRegistry(time.Minute)
	sess := r.Create(ana, nil)

	clock.Advance(50 * time.Second)
	_, err := r.Get(sess.ID)
	require.NoError(t, err, "activity within the timeout")

	clock.Advance(50 * time.Second)
	_, err = r.Get(sess.ID)
	require.NoError(t, err, "Get refreshed last-seen")

	clock.Advance(2 * time.Minute)
	_, err = r.Get(sess.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newRegistry(time.Minute)
	stale := r.Create(ana, nil)
	clock.Advance(45 * time.Second)
	fresh := r.Create(ana, nil)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(stale.ID)
	assert.Error(t, err)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRegistry_ZeroTimeoutNeverExpires(t *testing.T) {
	r, clock := newRegistry(0)
	sess := r.Create(ana, nil)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 0, r.Sweep())
	_, err := r.Get(sess.ID)
	assert.NoError(t, err)
}

func TestRegistry_Sweeper(t *testing.T) {
	r, _ := newRegistry(time.Minute)

	assert.Error(t, r.StartSweeper("not a schedule"))

	require.NoError(t, r.StartSweeper("@every 1h"))
	r.StopSweeper()
	r.StopSweeper()
}
