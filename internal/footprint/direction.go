package footprint

import (
	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// Direction - сторона клетки
type Direction int

const (
	Front Direction = iota // +Z
	Back                   // -Z
	Right                  // +X
	Left                   // -X
)

// Directions задаёт порядок обхода граней при размещении проёмов
var Directions = [4]Direction{Front, Back, Right, Left}

// Offset возвращает смещение соседней клетки (строка, столбец)
func (d Direction) Offset() (dRow, dCol int) {
	switch d {
	case Front:
		return 1, 0
	case Back:
		return -1, 0
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	}
	return 0, 0
}

// Vector возвращает единичный вектор направления в мировых координатах
func (d Direction) Vector() vec3.T {
	switch d {
	case Front:
		return vec.Forward
	case Back:
		return vec.Back
	case Right:
		return vec.Right
	case Left:
		return vec.Left
	}
	return vec3.Zero
}

func (d Direction) String() string {
	switch d {
	case Front:
		return "+Z"
	case Back:
		return "-Z"
	case Right:
		return "+X"
	case Left:
		return "-X"
	default:
		return "unknown"
	}
}

// MarshalText сериализует направление в JSON как "+Z", "-X" и т.д.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText разбирает строковое представление направления
func (d *Direction) UnmarshalText(text []byte) error {
	for _, candidate := range Directions {
		if candidate.String() == string(text) {
			*d = candidate
			return nil
		}
	}
	return &UnknownDirectionError{Value: string(text)}
}

// UnknownDirectionError возвращается при разборе неизвестного направления
type UnknownDirectionError struct {
	Value string
}

func (e *UnknownDirectionError) Error() string {
	return "unknown direction " + e.Value
}
