package building

import (
	"errors"
	"fmt"
	"time"

	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/mesh"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/rng"
	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// ErrNoFootprint - генератору не передан план
var ErrNoFootprint = errors.New("footprint is required")

// Generator превращает план, позицию и поток случайных чисел в здание.
// Не потокобезопасен: пакет зданий генерируется последовательно на одном потоке.
type Generator struct {
	catalog  *footprint.Catalog
	placer   *opening.Placer
	textures Textures
	spacing  float64
	recorder Recorder
	log      *logging.Logger
}

// Option настраивает генератор
type Option func(*Generator)

// WithSpacing задаёт шаг между зданиями пакета
func WithSpacing(spacing float64) Option {
	return func(g *Generator) { g.spacing = spacing }
}

// WithTextures задаёт пары текстур
func WithTextures(t Textures) Option {
	return func(g *Generator) { g.textures = t }
}

// WithRecorder подключает получателя событий генерации
func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// NewGenerator создаёт генератор поверх каталога планов и размещателя проёмов
func NewGenerator(catalog *footprint.Catalog, placer *opening.Placer, opts ...Option) *Generator {
	g := &Generator{
		catalog:  catalog,
		placer:   placer,
		spacing:  DefaultSpacing,
		recorder: noopRecorder{},
		log:      logging.GetComponentLogger("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog возвращает каталог планов генератора
func (g *Generator) Catalog() *footprint.Catalog {
	return g.catalog
}

// Generate строит одно здание. Порядок чтения из потока:
// текстура стен, текстура крыш, высоты клеток, затем для каждого слота
// бросок исхода и (если проём будет) номер варианта.
func (g *Generator) Generate(stream rng.Stream, fp *footprint.Footprint, position vec.Vec3Float) (*Building, error) {
	if fp == nil {
		return nil, ErrNoFootprint
	}
	start := time.Now()

	materials := MaterialsHint{
		Wall: coinFlip(stream, g.textures.Walls),
		Roof: coinFlip(stream, g.textures.Roofs),
	}

	m, heights := mesh.Assemble(fp, stream)

	b := &Building{
		Footprint: fp.Name(),
		Grid:      fp.Grid(),
		Position:  position,
		Mesh:      m,
		Materials: materials,
	}

	origin := position.T()
	occupied := make(opening.SlotSet)
	for _, cell := range fp.OccupiedCells() {
		height := heights[cell.Pos()]
		b.Heights = append(b.Heights, CellHeight{Row: cell.Row, Col: cell.Col, Height: height})

		faces := footprint.ExteriorFaces(fp, cell)
		if len(faces) == 0 {
			continue
		}

		for floor := 0; floor < heights.Floors(cell.Pos()); floor++ {
			corner := cell.Pos().ToWorld(float64(floor))
			base := vec3.Add(&origin, &corner)
			for _, dir := range faces {
				slot := opening.SlotKey{Cell: cell.Pos(), Floor: floor, Direction: dir}
				g.placeSlot(b, slot, base, stream, occupied)
			}
		}
	}

	g.recorder.BuildingGenerated(b, time.Since(start))
	return b, nil
}

func (g *Generator) placeSlot(b *Building, slot opening.SlotKey, base vec3.T, stream rng.Stream, occupied opening.SlotSet) {
	op, err := g.placer.Place(slot, base, stream, occupied)
	if err != nil {
		var perr *opening.PlacementError
		if errors.As(err, &perr) {
			g.log.Warn("⚠️ Проём %s пропущен: %v", slot, err)
			b.Warnings = append(b.Warnings, *perr)
			g.recorder.PlacementSkipped(perr)
		}
		return
	}
	if op == nil {
		return
	}

	g.log.Trace("%s %s (вариант %d) в слоте %s", op.Kind, op.AssetID, op.Variant, slot)
	b.Openings = append(b.Openings, *op)
	g.recorder.OpeningPlaced(op)
}

// GenerateBatch сеет поток один раз и строит count зданий подряд.
// Для каждого здания: выбор плана из каталога, затем Generate в позиции (i*spacing, 0, 0).
func (g *Generator) GenerateBatch(seed int64, count int) ([]*Building, error) {
	return g.GenerateBatchFrom(rng.NewStream(seed), seed, count)
}

// GenerateBatchFrom строит пакет на уже существующем потоке
func (g *Generator) GenerateBatchFrom(stream rng.Stream, seed int64, count int) ([]*Building, error) {
	if count < 0 {
		return nil, fmt.Errorf("building count must be >= 0, got %d", count)
	}

	buildings := make([]*Building, 0, count)
	for i := 0; i < count; i++ {
		fp := g.catalog.Pick(stream)
		position := vec.Vec3Float{X: float64(i) * g.spacing}

		b, err := g.Generate(stream, fp, position)
		if err != nil {
			return nil, fmt.Errorf("здание %d: %w", i, err)
		}
		b.Index = i
		b.Seed = seed
		b.ID = BuildingID(seed, i)

		doors, windows := b.CountOpenings()
		g.log.Debug("Здание %d: план %s, дверей %d, окон %d, пропусков %d",
			i, fp.Name(), doors, windows, len(b.Warnings))
		buildings = append(buildings, b)
	}

	g.log.Info("🏠 Сгенерировано зданий: %d (seed=%d)", len(buildings), seed)
	return buildings, nil
}

// coinFlip выбирает одну из двух текстур, всегда потребляя одно значение потока
func coinFlip(stream rng.Stream, options [2]string) string {
	if stream.Float64() < 0.5 {
		return options[0]
	}
	return options[1]
}
