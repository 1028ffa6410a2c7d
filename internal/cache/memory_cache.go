package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache - BuildingCache в памяти процесса для тестов и запуска без Redis.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	metrics CacheMetrics
	now     func() time.Time
}

// NewMemoryCache создаёт пустой кеш.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.TotalRequests++
	entry, ok := m.entries[key]
	if ok && !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	if !ok {
		m.metrics.CacheMisses++
		return nil, ErrCacheMiss
	}

	m.metrics.CacheHits++
	return append([]byte(nil), entry.value...), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	return nil
}

func (m *MemoryCache) GetMetrics() CacheMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := m.metrics
	metrics.HitRatio = hitRatio(metrics.CacheHits, metrics.TotalRequests)
	return metrics
}
