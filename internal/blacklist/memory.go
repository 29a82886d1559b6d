package blacklist

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for single-process
// deployments and tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]time.Time
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory blacklist store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]time.Time),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Set marks jti as revoked until now+ttl.
func (s *MemoryStore) Set(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[keyPrefix+jti] = s.nowF().Add(ttl)
	return nil
}

// Get reports whether jti is currently blacklisted.
func (s *MemoryStore) Get(ctx context.Context, jti string) (bool, error) {
	key := keyPrefix + jti
	s.mu.RLock()
	expiresAt, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
