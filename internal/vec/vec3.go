package vec

import "github.com/ungerik/go3d/float64/vec3"

// Vec3Float - мировая точка в JSON-представлении (x, y, z).
// Вся арифметика идёт через vec3.T, сюда значения попадают на границе API.
type Vec3Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Базовые направления мира. Фасад здания смотрит в +Z.
var (
	Up      = vec3.UnitY
	Forward = vec3.T{0, 0, 1}
	Back    = vec3.T{0, 0, -1}
	Right   = vec3.T{1, 0, 0}
	Left    = vec3.T{-1, 0, 0}
)

// T переводит точку в vec3.T для вычислений
func (v Vec3Float) T() vec3.T {
	return vec3.T{v.X, v.Y, v.Z}
}

// FromT переводит результат вычислений обратно в точку
func FromT(t vec3.T) Vec3Float {
	return Vec3Float{X: t[0], Y: t[1], Z: t[2]}
}
