package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

// Locker is a process-local port.Locker.
type Locker struct {
	mu     sync.Mutex
	leases map[string]time.Time
	now    func() time.Time
}

var _ port.Locker = (*Locker)(nil)

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{leases: make(map[string]time.Time), now: time.Now}
}

// take sets key unless a live lease holds it.
func (l *Locker) take(key string, ttl time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if exp, ok := l.leases[key]; ok && (exp.IsZero() || l.now().Before(exp)) {
		return false
	}
	var exp time.Time
	if ttl > 0 {
		exp = l.now().Add(ttl)
	}
	l.leases[key] = exp
	return true
}

func (l *Locker) drop(key string) {
	l.mu.Lock()
	delete(l.leases, key)
	l.mu.Unlock()
}

func (l *Locker) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if !l.take(key, ttl) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreBusy, key)
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { l.drop(key) })
		return nil
	}, nil
}

func (l *Locker) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return l.take(key, ttl), nil
}

func (l *Locker) Unclaim(_ context.Context, key string) error {
	l.drop(key)
	return nil
}
