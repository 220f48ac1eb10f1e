package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, nat.Port("6379/tcp"))
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestStateTracker(t *testing.T) {
	client := newRedis(t)
	tracker := New(client)
	ctx := context.Background()

	t.Run("runs once then reports completed", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) error {
			calls++
			return nil
		}

		require.NoError(t, tracker.Exec(ctx, "task:1", fn, WithStateTTL(time.Hour)))
		assert.ErrorIs(t, tracker.Exec(ctx, "task:1", fn), ErrAlreadyCompleted)
		assert.Equal(t, 1, calls)
	})

	t.Run("permanent failure is remembered", func(t *testing.T) {
		boom := errors.New("boom")

		err := tracker.Exec(ctx, "task:2", func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)

		err = tracker.Exec(ctx, "task:2", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyFailed)
	})

	t.Run("retryable failure releases the key", func(t *testing.T) {
		transient := errors.New("transient")
		retryable := WithRetryable(func(err error) bool { return errors.Is(err, transient) })

		err := tracker.Exec(ctx, "task:3", func(context.Context) error { return transient }, retryable)
		assert.ErrorIs(t, err, transient)

		assert.NoError(t, tracker.Exec(ctx, "task:3", func(context.Context) error { return nil }, retryable))
	})

	t.Run("held key is in progress", func(t *testing.T) {
		state, err := tracker.Acquire(ctx, "task:4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, StateNone, state)

		err = tracker.Exec(ctx, "task:4", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyInProgress)

		require.NoError(t, tracker.Release(ctx, "task:4"))
		state, err = tracker.Acquire(ctx, "task:4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, StateNone, state)
	})

	t.Run("garbage value is invalid", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "idempotency:task:5", "???", time.Minute).Err())

		_, err := tracker.Acquire(ctx, "task:5", time.Minute)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}
