package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/annel0/buildgen/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisCache реализует BuildingCache поверх Redis.
type RedisCache struct {
	client *redis.Client
	maxTTL time.Duration

	requests int64
	hits     int64
	misses   int64
}

// RedisConfig содержит параметры подключения к Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	MaxTTL   time.Duration
}

// NewRedisCache подключается к Redis и проверяет соединение.
func NewRedisCache(config RedisConfig) (*RedisCache, error) {
	if config.MaxTTL == 0 {
		config.MaxTTL = 1 * time.Hour
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Redis cache initialized: %s", config.Addr)
	return &RedisCache{client: rdb, maxTTL: config.MaxTTL}, nil
}

// Get получает значение по ключу из Redis.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	atomic.AddInt64(&r.requests, 1)

	val, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		atomic.AddInt64(&r.hits, 1)
		return val, nil
	}

	atomic.AddInt64(&r.misses, 1)
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}

	logging.Error("Redis Get error for key %s: %v", key, err)
	return nil, fmt.Errorf("redis get error: %w", err)
}

// Set сохраняет значение в Redis, TTL ограничен сверху maxTTL.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > r.maxTTL {
		ttl = r.maxTTL
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logging.Error("Redis Set error for key %s: %v", key, err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Delete удаляет ключ из Redis.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logging.Error("Redis Delete error for key %s: %v", key, err)
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (r *RedisCache) Close() error {
	if err := r.client.Close(); err != nil {
		logging.Error("Error closing Redis connection: %v", err)
		return err
	}

	logging.Info("Redis cache closed")
	return nil
}

// GetMetrics возвращает текущие метрики кеша.
func (r *RedisCache) GetMetrics() CacheMetrics {
	total := atomic.LoadInt64(&r.requests)
	hits := atomic.LoadInt64(&r.hits)
	return CacheMetrics{
		TotalRequests: total,
		CacheHits:     hits,
		CacheMisses:   atomic.LoadInt64(&r.misses),
		HitRatio:      hitRatio(hits, total),
	}
}
