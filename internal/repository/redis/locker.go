package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

type locker struct {
	rdb    redis.Cmdable
	locks  *redislock.Client
	prefix string
}

// NewLocker creates a port.Locker using redislock for exclusive leases and
// SETNX for one-shot claims.
func NewLocker(rdb redis.UniversalClient, prefix string) port.Locker {
	return &locker{rdb: rdb, locks: redislock.New(rdb), prefix: prefix}
}

func (l *locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.locks.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreBusy, key)
	}
	if err != nil {
		return nil, fmt.Errorf("locker.Obtain: %w", err)
	}
	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

func (l *locker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("locker.Claim: %w", err)
	}
	return ok, nil
}

func (l *locker) Unclaim(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.prefix+key).Err(); err != nil {
		return fmt.Errorf("locker.Unclaim: %w", err)
	}
	return nil
}
