package opening

import (
	"fmt"

	"github.com/annel0/buildgen/internal/rng"
	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// Thresholds - пороги одного броска r ∈ [0,1).
// Дверь: первый этаж и r < Door. Окно: r < Window (тот же бросок).
type Thresholds struct {
	Door   float64 `json:"door" yaml:"door"`
	Window float64 `json:"window" yaml:"window"`
}

// DefaultThresholds: на первом этаже 30% дверь, 30% окно, 40% пусто;
// на верхних этажах 60% окно.
var DefaultThresholds = Thresholds{Door: 0.3, Window: 0.6}

// Placer принимает решения по слотам и считает привязку ассета
type Placer struct {
	Pools      Pools
	Resolver   BoundsResolver
	Thresholds Thresholds
}

// NewPlacer создаёт размещатель с порогами по умолчанию
func NewPlacer(pools Pools, resolver BoundsResolver) *Placer {
	return &Placer{
		Pools:      pools,
		Resolver:   resolver,
		Thresholds: DefaultThresholds,
	}
}

// Place решает судьбу слота. base - мировая позиция угла клетки на уровне этажа.
//
// Возвращает (nil, nil), если слот уже занят или бросок дал «ничего».
// Если габариты ассета недоступны, возвращает *PlacementError, слот остаётся свободным.
func (p *Placer) Place(slot SlotKey, base vec3.T, stream rng.Stream, occupied SlotSet) (*Opening, error) {
	if occupied.Has(slot) {
		return nil, nil
	}

	kind, pool, ok := p.roll(slot.Floor == 0, stream)
	if !ok {
		return nil, nil
	}

	variant := stream.Intn(len(pool))
	assetID := pool[variant]

	bounds, err := p.resolve(assetID)
	if err != nil {
		return nil, &PlacementError{
			Slot:    slot,
			Kind:    kind,
			AssetID: assetID,
			Err:     err,
			Reason:  err.Error(),
		}
	}

	occupied.Add(slot)
	return &Opening{
		Kind:     kind,
		AssetID:  assetID,
		Variant:  variant,
		Slot:     slot,
		Position: Anchor(base, slot, bounds),
		Yaw:      YawFor(slot.Direction),
	}, nil
}

// roll делает один бросок и выбирает класс проёма. Пустой пул считается недоступным
// и бросок проваливается в следующую ветку.
func (p *Placer) roll(groundFloor bool, stream rng.Stream) (Kind, []string, bool) {
	r := stream.Float64()

	if groundFloor && r < p.Thresholds.Door && len(p.Pools.Doors) > 0 {
		return Door, p.Pools.Doors, true
	}
	if r < p.Thresholds.Window && len(p.Pools.Windows) > 0 {
		return Window, p.Pools.Windows, true
	}
	return 0, nil, false
}

func (p *Placer) resolve(assetID string) (Bounds, error) {
	if p.Resolver == nil {
		return Bounds{}, fmt.Errorf("%w: no resolver for %q", ErrAssetBounds, assetID)
	}
	bounds, err := p.Resolver.ResolveAssetBounds(assetID)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %w", ErrAssetBounds, err)
	}
	if !bounds.Valid() {
		return Bounds{}, fmt.Errorf("%w: %q has height=%g depth=%g", ErrAssetBounds, assetID, bounds.Height, bounds.Depth)
	}
	return bounds, nil
}

// Anchor считает мировую точку привязки ассета: центр грани клетки на этаже,
// поднятый на половину высоты ассета минус 0.5 (опорная точка ассета в центре основания)
// и вынесенный наружу на половину его глубины.
func Anchor(base vec3.T, slot SlotKey, bounds Bounds) vec.Vec3Float {
	dir := slot.Direction.Vector()
	outward := dir.Scaled(0.5)
	lift := vec.Up.Scaled(0.5)
	rise := vec.Up.Scaled(bounds.Height/2 - 0.5)
	depth := dir.Scaled(bounds.Depth / 2)

	anchor := vec3.Add(&base, &vec3.T{0.5, 0, 0.5})
	anchor.Add(&outward).Add(&lift).Add(&rise).Add(&depth)
	return vec.FromT(anchor)
}
