package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/storeledger/internal/usecase"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache implements usecase.Cache in process memory. Expired entries are
// dropped lazily and by Sweep.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry), now: time.Now}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return nil, usecase.ErrCacheMiss
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value with TTL. A non-positive TTL never expires.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Sweep removes expired entries and reports how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// IdempotencyStore implements usecase.IdempotencyStore in process memory.
type IdempotencyStore struct {
	cache *Cache
}

// PendingMarker is stored under a key while its first request is running.
const PendingMarker = usecase.IdempotencyPendingMarker

// NewIdempotencyStore creates a new IdempotencyStore on top of c.
func NewIdempotencyStore(c *Cache) *IdempotencyStore {
	return &IdempotencyStore{cache: c}
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}

// CheckAndSet atomically claims key.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	c := s.cache
	full := idempotencyKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[full]; ok && !e.expired(c.now()) {
		return true, append([]byte(nil), e.value...), nil
	}

	value := response
	if value == nil {
		value = []byte(PendingMarker)
	}

	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[full] = e

	return false, nil, nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.cache.Set(ctx, idempotencyKey(key), response, ttl)
}

// Release drops key so the request may be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, idempotencyKey(key))
}
