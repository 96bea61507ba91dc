package port

import (
	"context"
	"time"

	"tiendapos/internal/domain"
)

// ReceptionSessionStore persists in-flight reception workflows between requests.
type ReceptionSessionStore interface {
	Save(ctx context.Context, session *domain.ReceptionSession, ttl time.Duration) error
	// Get returns domain.ErrSessionNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (*domain.ReceptionSession, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Locker coordinates applies across processes.
type Locker interface {
	// Obtain acquires an exclusive lease on key. It returns domain.ErrStoreBusy
	// when another holder owns it.
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
	// Claim sets key only if absent and reports whether this call set it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unclaim(ctx context.Context, key string) error
}
