package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BuildingCache определяет интерфейс горячего кеша закодированных зданий.
// Кеш стоит перед хранилищем: промах не ошибка, а сигнал читать дальше.
//
// Использование:
//
//	c := NewMemoryCache()
//	data, err := c.Get(ctx, BuildingKey(cfg.Fingerprint(), seed, index))
//	err = c.Set(ctx, BuildingKey(cfg.Fingerprint(), seed, index), data, 10*time.Minute)
type BuildingCache interface {
	// Get получает значение по ключу из кеша.
	// Возвращает ErrCacheMiss если ключ не найден.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с указанным TTL.
	// TTL = 0 означает отсутствие истечения.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет ключ из кеша.
	Delete(ctx context.Context, key string) error

	// Close закрывает соединение с кешем.
	Close() error

	// GetMetrics возвращает метрики кеша.
	GetMetrics() CacheMetrics
}

// CacheMetrics содержит счётчики попаданий кеша.
type CacheMetrics struct {
	TotalRequests int64   `json:"total_requests"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	HitRatio      float64 `json:"hit_ratio"`
}

// ErrCacheMiss - ключ отсутствует в кеше
var ErrCacheMiss = errors.New("cache miss")

// IsCacheMiss проверяет, является ли ошибка промахом кеша.
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// BuildingKey возвращает ключ кеша для здания пакета.
// namespace - отпечаток настроек генерации, без него пакеты разных конфигураций смешались бы.
func BuildingKey(namespace string, seed int64, index int) string {
	return fmt.Sprintf("buildgen:building:%s:%d:%d", namespace, seed, index)
}

func hitRatio(hits, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
