package vec

// Vec2Float представляет 2D координаты с плавающей точкой (UV-координаты)
type Vec2Float struct {
	X float64 `json:"u"`
	Y float64 `json:"v"`
}
