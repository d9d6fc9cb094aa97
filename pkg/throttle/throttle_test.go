package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisThrottler_Window(t *testing.T) {
	client, mr := setupTestRedis(t)
	th := NewRedis(client, "throttle:")
	ctx := context.Background()

	ok, err := th.Allow(ctx, "verify:a@x.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = th.Allow(ctx, "verify:a@x.com", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second call inside the window must be throttled")

	// different key is independent
	ok, err = th.Allow(ctx, "reset:a@x.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, mr.Exists("throttle:verify:a@x.com"))
	mr.FastForward(61 * time.Second)

	ok, err = th.Allow(ctx, "verify:a@x.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisThrottler_Release(t *testing.T) {
	client, mr := setupTestRedis(t)
	th := NewRedis(client, "throttle:")
	ctx := context.Background()

	ok, err := th.Allow(ctx, "reset:a@x.com", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, th.Release(ctx, "reset:a@x.com"))
	assert.False(t, mr.Exists("throttle:reset:a@x.com"))

	ok, err = th.Allow(ctx, "reset:a@x.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// releasing a free key is fine
	assert.NoError(t, th.Release(ctx, "verify:a@x.com"))
}

func TestRedisThrottler_ZeroWindow(t *testing.T) {
	client, mr := setupTestRedis(t)
	th := NewRedis(client, "")

	for i := 0; i < 3; i++ {
		ok, err := th.Allow(context.Background(), "k", 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.False(t, mr.Exists("k"))
}

func TestRedisThrottler_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	th := NewRedis(client, "")
	mr.Close()

	_, err := th.Allow(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	th := NewNoop()
	for i := 0; i < 3; i++ {
		ok, err := th.Allow(context.Background(), "k", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, th.Release(context.Background(), "k"))
}
