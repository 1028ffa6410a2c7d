// Package opening размещает двери и окна на внешних гранях здания.
package opening

import (
	"errors"
	"fmt"
	"math"

	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/vec"
)

// ErrAssetBounds - у ассета нет габаритов, нужных для расчёта привязки
var ErrAssetBounds = errors.New("asset bounds unavailable")

// Kind - класс проёма
type Kind int

const (
	Door Kind = iota
	Window
)

func (k Kind) String() string {
	switch k {
	case Door:
		return "door"
	case Window:
		return "window"
	default:
		return "unknown"
	}
}

// MarshalText сериализует класс проёма строкой
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText разбирает класс проёма
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "door":
		*k = Door
	case "window":
		*k = Window
	default:
		return fmt.Errorf("unknown opening kind %q", text)
	}
	return nil
}

// Bounds - габариты ассета: высота по Y и глубина по Z
type Bounds struct {
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Valid сообщает, пригодны ли габариты для расчёта привязки.
// Нулевая высота или глубина означает, что габарит не задан.
func (b Bounds) Valid() bool {
	return b.Height > 0 && b.Depth > 0
}

// BoundsResolver предоставляется хостом: габариты ассета по идентификатору
type BoundsResolver interface {
	ResolveAssetBounds(id string) (Bounds, error)
}

// Pools - упорядоченные списки вариантов дверей и окон
type Pools struct {
	Doors   []string `json:"doors"`
	Windows []string `json:"windows"`
}

// SlotKey - уникальный слот размещения: клетка, этаж и сторона.
// Ключ целочисленный, сравнение позиций с плавающей точкой не используется.
type SlotKey struct {
	Cell      vec.Vec2            `json:"cell"`
	Floor     int                 `json:"floor"`
	Direction footprint.Direction `json:"direction"`
}

func (k SlotKey) String() string {
	return fmt.Sprintf("(%d,%d)/%d/%s", k.Cell.Y, k.Cell.X, k.Floor, k.Direction)
}

// SlotSet - занятые слоты одного здания
type SlotSet map[SlotKey]struct{}

// Has проверяет, занят ли слот
func (s SlotSet) Has(k SlotKey) bool {
	_, ok := s[k]
	return ok
}

// Add помечает слот занятым
func (s SlotSet) Add(k SlotKey) {
	s[k] = struct{}{}
}

// Opening - решение о размещении: класс, вариант и мировая привязка
type Opening struct {
	Kind     Kind          `json:"kind"`
	AssetID  string        `json:"asset_id"`
	Variant  int           `json:"variant"`
	Slot     SlotKey       `json:"slot"`
	Position vec.Vec3Float `json:"position"`
	Yaw      float64       `json:"yaw"`
}

// PlacementError - пропущенное размещение. Не прерывает генерацию здания.
// Err живёт только в памяти; после чтения из хранилища или кэша остаётся Reason,
// а Unwrap по-прежнему отдаёт ErrAssetBounds.
type PlacementError struct {
	Slot    SlotKey `json:"slot"`
	Kind    Kind    `json:"kind"`
	AssetID string  `json:"asset_id"`
	Err     error   `json:"-"`
	Reason  string  `json:"reason"`
}

func (e *PlacementError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	return fmt.Sprintf("placement %s skipped: %s %q: %s", e.Slot, e.Kind, e.AssetID, reason)
}

func (e *PlacementError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrAssetBounds
}

// YawFor возвращает поворот вокруг +Y в градусах, при котором forward ассета
// смотрит вдоль -direction. Нулевой поворот соответствует forward = +Z.
func YawFor(dir footprint.Direction) float64 {
	forward := dir.Vector()
	forward.Invert()
	yaw := math.Atan2(forward[0], forward[2]) * 180 / math.Pi
	yaw = math.Round(yaw*1e6) / 1e6
	switch {
	case yaw <= -180:
		yaw += 360
	case yaw == 0:
		// -0 от нулевых компонент
		yaw = 0
	}
	return yaw
}
