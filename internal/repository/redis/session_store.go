package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

type sessionStore struct {
	rdb    redis.Cmdable
	prefix string
}

// NewSessionStore creates a Redis-backed ReceptionSessionStore. Sessions are
// stored as JSON under <prefix>reception:<id>.
func NewSessionStore(rdb redis.Cmdable, prefix string) port.ReceptionSessionStore {
	return &sessionStore{rdb: rdb, prefix: prefix}
}

func (s *sessionStore) key(id string) string {
	return s.prefix + "reception:" + id
}

func (s *sessionStore) Save(ctx context.Context, session *domain.ReceptionSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("sessionStore.Save: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("sessionStore.Save: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, id string) (*domain.ReceptionSession, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionStore.Get: %w", err)
	}
	var session domain.ReceptionSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("sessionStore.Get: decoding %s: %w", id, err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("sessionStore.Delete: %w", err)
	}
	return nil
}

func (s *sessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
