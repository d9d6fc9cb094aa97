// Package throttle limits how often an action keyed by a string may run.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttler reports whether the action identified by key may run now. A
// successful Allow reserves the key for window.
type Throttler interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
	// Release frees a reserved key before its window ends.
	Release(ctx context.Context, key string) error
}

type redisThrottler struct {
	client redis.Cmdable
	prefix string
}

// NewRedis returns a Throttler backed by SET NX EX.
func NewRedis(client redis.Cmdable, prefix string) Throttler {
	return &redisThrottler{client: client, prefix: prefix}
}

func (t *redisThrottler) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}

	ok, err := t.client.SetNX(ctx, t.prefix+key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", key, err)
	}
	return ok, nil
}

func (t *redisThrottler) Release(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.prefix+key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

type noop struct{}

// NewNoop returns a Throttler that always allows.
func NewNoop() Throttler {
	return noop{}
}

func (noop) Allow(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (noop) Release(context.Context, string) error {
	return nil
}
