package mesh

import (
	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/rng"
	"github.com/annel0/buildgen/internal/vec"
)

// Диапазон высот клетки: целое из [MinHeight, MaxHeight)
const (
	MinHeight = 1
	MaxHeight = 4
)

// HeightMap хранит высоту клетки по целочисленным координатам сетки
type HeightMap map[vec.Vec2]float64

// Floors возвращает число этажей клетки (целая часть высоты)
func (h HeightMap) Floors(cell vec.Vec2) int {
	return int(h[cell])
}

// Assemble обходит занятые клетки плана в порядке строк, выбирает каждой высоту
// из потока и строит стены и крышу. Возвращает меш и высоты клеток.
func Assemble(fp *footprint.Footprint, stream rng.Stream) (*Mesh, HeightMap) {
	cells := fp.OccupiedCells()
	buf := NewBuffers(len(cells))
	heights := make(HeightMap, len(cells))

	for _, cell := range cells {
		height := float64(stream.Range(MinHeight, MaxHeight))
		base := cell.Pos().ToWorld(0)

		BuildCube(buf, base, height)
		BuildHipRoof(buf, base, height)

		heights[cell.Pos()] = height
	}

	return buf.Mesh(), heights
}
