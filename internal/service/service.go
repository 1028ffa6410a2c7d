// Package service связывает генератор с хранилищем, кешем и метриками.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/cache"
	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/observability"
	"github.com/annel0/buildgen/internal/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MaxBatchSize - верхняя граница числа зданий в одном запросе
const MaxBatchSize = 256

var (
	// ErrBusy - генерация уже выполняется
	ErrBusy = errors.New("генерация уже выполняется")
	// ErrInvalidRequest - недопустимые параметры запроса
	ErrInvalidRequest = errors.New("недопустимый запрос")
)

// BatchStore - постоянное хранилище пакетов (реализуется storage.BuildingStore)
type BatchStore interface {
	SaveBatch(seed int64, buildings []*building.Building) error
	LoadBuilding(seed int64, index int) (*building.Building, error)
}

// BuildingService - точка входа хоста: генерация пакетов и выдача зданий.
// Одновременно выполняется не более одной генерации.
type BuildingService struct {
	generator *building.Generator
	// regenerator восстанавливает здания при чтении и не сообщает о них recorder'у
	regenerator *building.Generator
	namespace   string
	store       BatchStore
	cache       cache.BuildingCache
	cacheTTL    time.Duration
	log         *logging.Logger

	genMu sync.Mutex
}

// Option настраивает BuildingService
type Option func(*BuildingService)

// WithStore подключает постоянное хранилище
func WithStore(store BatchStore) Option {
	return func(s *BuildingService) { s.store = store }
}

// WithCache подключает горячий кеш
func WithCache(c cache.BuildingCache, ttl time.Duration) Option {
	return func(s *BuildingService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// New создаёт сервис. Без хранилища и кеша здания пересчитываются по сиду.
func New(cfg *config.Config, recorder building.Recorder, opts ...Option) (*BuildingService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen, err := NewGenerator(cfg, recorder)
	if err != nil {
		return nil, err
	}
	regen, err := NewGenerator(cfg, nil)
	if err != nil {
		return nil, err
	}

	s := &BuildingService{
		generator:   gen,
		regenerator: regen,
		namespace:   cfg.Fingerprint(),
		log:         logging.GetComponentLogger("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Namespace возвращает отпечаток настроек генерации, которым разделены ключи кеша и хранилища
func (s *BuildingService) Namespace() string {
	return s.namespace
}

// Footprints возвращает планы каталога в порядке выбора
func (s *BuildingService) Footprints() []*footprint.Footprint {
	catalog := s.generator.Catalog()
	out := make([]*footprint.Footprint, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		out = append(out, catalog.At(i))
	}
	return out
}

// GenerateBatch строит пакет и, если подключены, сохраняет его в хранилище и кеш.
func (s *BuildingService) GenerateBatch(ctx context.Context, seed int64, count int) ([]*building.Building, error) {
	if count < 0 || count > MaxBatchSize {
		return nil, fmt.Errorf("%w: count %d вне диапазона [0, %d]", ErrInvalidRequest, count, MaxBatchSize)
	}

	ctx, span := observability.Tracer().Start(ctx, "BuildingService.GenerateBatch")
	defer span.End()
	span.SetAttributes(attribute.Int64("buildgen.seed", seed), attribute.Int("buildgen.count", count))

	if !s.genMu.TryLock() {
		span.SetStatus(codes.Error, ErrBusy.Error())
		return nil, ErrBusy
	}
	defer s.genMu.Unlock()

	buildings, err := s.generator.GenerateBatch(seed, count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveBatch(seed, buildings); err != nil {
			// хранилище вторично: пакет уже построен
			s.log.Error("Не удалось сохранить пакет seed=%d: %v", seed, err)
			span.RecordError(err)
		}
	}
	for _, b := range buildings {
		s.cachePut(ctx, b)
	}
	return buildings, nil
}

// Building возвращает здание пакета: кеш → хранилище → пересчёт по сиду.
// Пересчёт строит пакет из index+1 зданий, так как поток общий для всего пакета.
// Чтение не увеличивает счётчики генерации.
func (s *BuildingService) Building(ctx context.Context, seed int64, index int) (*building.Building, error) {
	if index < 0 || index >= MaxBatchSize {
		return nil, fmt.Errorf("%w: index %d вне диапазона [0, %d)", ErrInvalidRequest, index, MaxBatchSize)
	}

	ctx, span := observability.Tracer().Start(ctx, "BuildingService.Building")
	defer span.End()
	span.SetAttributes(attribute.Int64("buildgen.seed", seed), attribute.Int("buildgen.index", index))

	if b := s.cacheGet(ctx, seed, index); b != nil {
		span.SetAttributes(attribute.String("buildgen.source", "cache"))
		return b, nil
	}

	if s.store != nil {
		b, err := s.store.LoadBuilding(seed, index)
		switch {
		case err == nil:
			span.SetAttributes(attribute.String("buildgen.source", "store"))
			s.cachePut(ctx, b)
			return b, nil
		case !errors.Is(err, storage.ErrNotFound):
			s.log.Warn("Ошибка чтения здания %d:%d из хранилища: %v", seed, index, err)
		}
	}

	span.SetAttributes(attribute.String("buildgen.source", "regenerate"))
	s.genMu.Lock()
	buildings, err := s.regenerator.GenerateBatch(seed, index+1)
	s.genMu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	b := buildings[index]
	s.cachePut(ctx, b)
	return b, nil
}

func (s *BuildingService) cacheGet(ctx context.Context, seed int64, index int) *building.Building {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, cache.BuildingKey(s.namespace, seed, index))
	if err != nil {
		if !cache.IsCacheMiss(err) {
			s.log.Warn("Ошибка чтения кеша: %v", err)
		}
		return nil
	}

	var b building.Building
	if err := json.Unmarshal(data, &b); err != nil {
		s.log.Warn("Повреждённая запись кеша %d:%d: %v", seed, index, err)
		_ = s.cache.Delete(ctx, cache.BuildingKey(s.namespace, seed, index))
		return nil
	}
	return &b
}

func (s *BuildingService) cachePut(ctx context.Context, b *building.Building) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(b)
	if err != nil {
		s.log.Warn("Не удалось сериализовать здание %s: %v", b.ID, err)
		return
	}
	if err := s.cache.Set(ctx, cache.BuildingKey(s.namespace, b.Seed, b.Index), data, s.cacheTTL); err != nil {
		s.log.Warn("Не удалось записать здание %s в кеш: %v", b.ID, err)
	}
}
