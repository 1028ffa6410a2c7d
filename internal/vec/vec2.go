package vec

import "github.com/ungerik/go3d/float64/vec3"

// Vec2 представляет 2D координаты клетки сетки (X = столбец, Y = строка)
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToWorld переводит клетку сетки в мировые координаты угла клетки (X, y, Z)
func (v Vec2) ToWorld(y float64) vec3.T {
	return vec3.T{float64(v.X), y, float64(v.Y)}
}
