package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/cache"
	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore хранит пакеты в памяти и считает обращения
type fakeStore struct {
	saved map[int64][]*building.Building
	loads int
	err   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[int64][]*building.Building)}
}

func (f *fakeStore) SaveBatch(seed int64, buildings []*building.Building) error {
	if f.err != nil {
		return f.err
	}
	f.saved[seed] = buildings
	return nil
}

func (f *fakeStore) LoadBuilding(seed int64, index int) (*building.Building, error) {
	f.loads++
	batch, ok := f.saved[seed]
	if !ok || index >= len(batch) {
		return nil, storage.ErrNotFound
	}
	return batch[index], nil
}

func TestNewGenerator_CustomFootprints(t *testing.T) {
	cfg := config.Default()
	cfg.Footprints = []config.FootprintConfig{{Name: "single", Grid: [][]int{{1}}}}

	gen, err := NewGenerator(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"single"}, gen.Catalog().Names())

	cfg.Footprints = []config.FootprintConfig{{Name: "empty", Grid: [][]int{{0}}}}
	_, err = NewGenerator(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuildingService_GenerateBatch(t *testing.T) {
	store := newFakeStore()
	mem := cache.NewMemoryCache()
	svc, err := New(config.Default(), nil, WithStore(store), WithCache(mem, 0))
	require.NoError(t, err)

	buildings, err := svc.GenerateBatch(context.Background(), 9, 3)
	require.NoError(t, err)
	require.Len(t, buildings, 3)
	assert.Len(t, store.saved[9], 3)

	for i, b := range buildings {
		assert.Equal(t, i, b.Index)
		assert.Equal(t, float64(i)*4, b.Position.X)
	}

	_, err = svc.GenerateBatch(context.Background(), 9, MaxBatchSize+1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.GenerateBatch(context.Background(), 9, -1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBuildingService_StoreFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("disk full")
	svc, err := New(config.Default(), nil, WithStore(store))
	require.NoError(t, err)

	buildings, err := svc.GenerateBatch(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, buildings, 2)
}

func TestBuildingService_BuildingReadThrough(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mem := cache.NewMemoryCache()
	svc, err := New(config.Default(), nil, WithStore(store), WithCache(mem, 0))
	require.NoError(t, err)

	batch, err := svc.GenerateBatch(ctx, 5, 2)
	require.NoError(t, err)

	// кеш заполнен при генерации: хранилище не трогаем
	b, err := svc.Building(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, batch[1].ID, b.ID)
	assert.Equal(t, 0, store.loads)

	// после очистки кеша чтение идёт в хранилище
	require.NoError(t, mem.Delete(ctx, cache.BuildingKey(svc.Namespace(), 5, 1)))
	b, err = svc.Building(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, batch[1].ID, b.ID)
	assert.Equal(t, 1, store.loads)
}

func TestBuildingService_BuildingRegenerates(t *testing.T) {
	ctx := context.Background()

	reference, err := New(config.Default(), nil)
	require.NoError(t, err)
	batch, err := reference.GenerateBatch(ctx, 77, 4)
	require.NoError(t, err)

	svc, err := New(config.Default(), nil, WithStore(newFakeStore()))
	require.NoError(t, err)
	b, err := svc.Building(ctx, 77, 3)
	require.NoError(t, err)

	assert.Equal(t, batch[3].ID, b.ID)
	assert.Equal(t, batch[3].Footprint, b.Footprint)
	assert.Equal(t, batch[3].Mesh.Vertices, b.Mesh.Vertices)
	assert.Equal(t, batch[3].Openings, b.Openings)

	_, err = svc.Building(ctx, 77, -1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// countingRecorder считает события генерации
type countingRecorder struct {
	buildings int
	openings  int
}

func (r *countingRecorder) BuildingGenerated(*building.Building, time.Duration) { r.buildings++ }
func (r *countingRecorder) OpeningPlaced(*opening.Opening)                      { r.openings++ }
func (r *countingRecorder) PlacementSkipped(*opening.PlacementError)            {}

func TestBuildingService_ReadsDoNotCountAsGeneration(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	svc, err := New(config.Default(), rec)
	require.NoError(t, err)

	_, err = svc.GenerateBatch(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.buildings)
	generatedOpenings := rec.openings

	// Ни кеша, ни хранилища: чтение пересчитывает 5 зданий
	b, err := svc.Building(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Index)
	assert.Equal(t, 2, rec.buildings, "чтение не считается генерацией")
	assert.Equal(t, generatedOpenings, rec.openings)
}

func TestBuildingService_CacheKeyedByConfig(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()

	first, err := New(config.Default(), nil, WithCache(mem, 0))
	require.NoError(t, err)
	batch, err := first.GenerateBatch(ctx, 8, 1)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Footprints = []config.FootprintConfig{{Name: "single", Grid: [][]int{{1}}}}
	second, err := New(cfg, nil, WithCache(mem, 0))
	require.NoError(t, err)
	require.NotEqual(t, first.Namespace(), second.Namespace())

	// Общий кеш, тот же сид: второй сервис строит своё здание, а не берёт чужое
	b, err := second.Building(ctx, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, "single", b.Footprint)

	again, err := first.Building(ctx, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, batch[0].Footprint, again.Footprint)
}

func TestBuildingService_Busy(t *testing.T) {
	svc, err := New(config.Default(), nil)
	require.NoError(t, err)

	svc.genMu.Lock()
	_, err = svc.GenerateBatch(context.Background(), 1, 1)
	svc.genMu.Unlock()
	assert.ErrorIs(t, err, ErrBusy)
}

func TestBuildingService_Footprints(t *testing.T) {
	svc, err := New(config.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, svc.Footprints(), 6)
}
