package cache

import (
	"context"
	"sync"
	"time"
)

// CounterStore counts hits per key inside a fixed window.
type CounterStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

type RedisCounterStore struct {
	redis    *Redis
	fallback *MemoryCounterStore
}

// NewRedisCounterStore counts in redis and falls back to process memory
// whenever redis is unavailable.
func NewRedisCounterStore(r *Redis) *RedisCounterStore {
	return &RedisCounterStore{redis: r, fallback: NewMemoryCounterStore(time.Now)}
}

func (s *RedisCounterStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if !s.redis.Available() {
		return s.fallback.Hit(ctx, key, window)
	}
	n, ttl, err := s.redis.IncrWindow(ctx, "ratelimit:"+key, window)
	if err != nil {
		return s.fallback.Hit(ctx, key, window)
	}
	return n, ttl, nil
}

type memoryCounter struct {
	count   int64
	resetAt time.Time
}

type MemoryCounterStore struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]memoryCounter
}

func NewMemoryCounterStore(now func() time.Time) *MemoryCounterStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryCounterStore{now: now, counters: make(map[string]memoryCounter)}
}

func (s *MemoryCounterStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = memoryCounter{resetAt: now.Add(window)}
		s.sweep(now)
	}
	c.count++
	s.counters[key] = c
	return c.count, c.resetAt.Sub(now), nil
}

func (s *MemoryCounterStore) sweep(now time.Time) {
	for k, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, k)
		}
	}
}
