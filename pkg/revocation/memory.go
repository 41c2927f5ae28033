package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Entries are evicted lazily on read and by an occasional sweep on
// write, so no background job is needed.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if token == "" || ttl <= 0 {
		return nil
	}
	now := s.now()
	s.mu.Lock()
	if len(s.entries) > 0 && len(s.entries)%1024 == 0 {
		s.sweepLocked(now)
	}
	s.entries[key(token)] = now.Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	k := key(token)
	now := s.now()

	s.mu.RLock()
	deadline, ok := s.entries[k]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if now.After(deadline) {
		s.mu.Lock()
		delete(s.entries, k)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for k, deadline := range s.entries {
		if now.After(deadline) {
			delete(s.entries, k)
		}
	}
}
