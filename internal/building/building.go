// Package building собирает здание целиком: план, меш, высоты и проёмы.
// Генератор не зависит от движка: результат - чистые данные для хоста.
package building

import (
	"fmt"

	"github.com/annel0/buildgen/internal/mesh"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/vec"
	"github.com/google/uuid"
)

// DefaultSpacing - шаг между зданиями пакета по оси X
const DefaultSpacing = 4.0

// idNamespace - пространство имён для детерминированных ID зданий
var idNamespace = uuid.MustParse("6f1c2a8e-3b4d-5e6f-8a9b-0c1d2e3f4a5b")

// BuildingID возвращает воспроизводимый ID здания по сиду и номеру в пакете
func BuildingID(seed int64, index int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d:%d", seed, index))).String()
}

// Textures - по две текстуры стен и крыш
type Textures struct {
	Walls [2]string `json:"walls"`
	Roofs [2]string `json:"roofs"`
}

// MaterialsHint - выбранные текстуры; привязку материалов делает хост
type MaterialsHint struct {
	Wall string `json:"wall"`
	Roof string `json:"roof"`
}

// Building - результат генерации одного здания.
// Вершины меша заданы относительно Position, точки привязки проёмов - в мировых координатах.
type Building struct {
	ID        string                   `json:"id"`
	Index     int                      `json:"index"`
	Seed      int64                    `json:"seed"`
	Footprint string                   `json:"footprint"`
	Grid      [][]int                  `json:"grid"`
	Position  vec.Vec3Float            `json:"position"`
	Mesh      *mesh.Mesh               `json:"mesh"`
	Heights   []CellHeight             `json:"heights"`
	Materials MaterialsHint            `json:"materials"`
	Openings  []opening.Opening        `json:"openings"`
	Warnings  []opening.PlacementError `json:"warnings,omitempty"`
}

// CellHeight - высота клетки в сериализуемом виде
type CellHeight struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Height float64 `json:"height"`
}

// HeightMap восстанавливает карту высот по клеткам
func (b *Building) HeightMap() mesh.HeightMap {
	hm := make(mesh.HeightMap, len(b.Heights))
	for _, h := range b.Heights {
		hm[vec.Vec2{X: h.Col, Y: h.Row}] = h.Height
	}
	return hm
}

// CountOpenings возвращает число дверей и окон
func (b *Building) CountOpenings() (doors, windows int) {
	for _, o := range b.Openings {
		switch o.Kind {
		case opening.Door:
			doors++
		case opening.Window:
			windows++
		}
	}
	return doors, windows
}
