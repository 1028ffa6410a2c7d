package mesh

import (
	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// Счётчики геометрии одной клетки
const (
	CubeFaces         = 4
	CubeVertices      = 16
	CubeIndices       = 24
	HipRoofVertices   = 5
	HipRoofTriangles  = 4
	HipRoofIndices    = 12
	CellWidth         = 1.0
	RoofApexElevation = 0.5
)

// Buffers накапливает вершины, UV и индексы обоих сабмешей.
// Индексы всегда абсолютные: смещение считается от текущего числа вершин.
type Buffers struct {
	Vertices []vec3.T
	UVs      []vec.Vec2Float
	Walls    []int
	Roofs    []int
}

// NewBuffers создаёт буферы с запасом ёмкости под cells клеток
func NewBuffers(cells int) *Buffers {
	perCell := CubeVertices + HipRoofVertices
	return &Buffers{
		Vertices: make([]vec3.T, 0, cells*perCell),
		UVs:      make([]vec.Vec2Float, 0, cells*perCell),
		Walls:    make([]int, 0, cells*CubeIndices),
		Roofs:    make([]int, 0, cells*HipRoofIndices),
	}
}

// Mesh собирает итоговый меш из буферов и пересчитывает нормали
func (b *Buffers) Mesh() *Mesh {
	m := &Mesh{
		Vertices: b.Vertices,
		UVs:      b.UVs,
	}
	m.Submeshes[SubmeshWalls] = b.Walls
	m.Submeshes[SubmeshRoofs] = b.Roofs
	m.RecalculateNormals()
	return m
}

// cubeFaces - углы четырёх стен единичного куба в порядке front, right, back, left.
// Y равен 0 или 1 и масштабируется высотой.
var cubeFaces = [CubeFaces][4]vec3.T{
	// +Z
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	// +X
	{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	// -Z
	{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	// -X
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

// quadTriangles - два треугольника квада относительно первой вершины грани
var quadTriangles = [6]int{0, 1, 2, 0, 2, 3}

// BuildCube добавляет четыре стены куба высотой height с основанием в base.
// Каждая стена получает свои 4 вершины; V растёт вместе с высотой, текстура тайлится.
func BuildCube(buf *Buffers, base vec3.T, height float64) {
	for _, face := range cubeFaces {
		start := len(buf.Vertices)
		for _, corner := range face {
			offset := vec3.T{corner[0] * CellWidth, corner[1] * height, corner[2] * CellWidth}
			buf.Vertices = append(buf.Vertices, vec3.Add(&base, &offset))
		}
		for _, offset := range quadTriangles {
			buf.Walls = append(buf.Walls, start+offset)
		}
		buf.UVs = append(buf.UVs,
			vec.Vec2Float{X: 0, Y: 0},
			vec.Vec2Float{X: 1, Y: 0},
			vec.Vec2Float{X: 1, Y: height},
			vec.Vec2Float{X: 0, Y: height},
		)
	}
}

// BuildHipRoof добавляет шатровую крышу над кубом: вершина и четыре угла верха.
// Крыша строится на каждую клетку отдельно, общая крыша над планом не собирается.
func BuildHipRoof(buf *Buffers, base vec3.T, height float64) {
	start := len(buf.Vertices)

	corners := [HipRoofVertices]vec3.T{
		{0.5, height + RoofApexElevation, 0.5}, // вершина
		{0, height, 0},
		{1, height, 0},
		{1, height, 1},
		{0, height, 1},
	}
	for i := range corners {
		buf.Vertices = append(buf.Vertices, *corners[i].Add(&base))
	}

	a, v1, v2, v3, v4 := start, start+1, start+2, start+3, start+4
	buf.Roofs = append(buf.Roofs,
		a, v2, v1, // -Z
		a, v3, v2, // +X
		a, v4, v3, // +Z
		a, v1, v4, // -X
	)

	buf.UVs = append(buf.UVs,
		vec.Vec2Float{X: 0.5, Y: 1},
		vec.Vec2Float{X: 0, Y: 0},
		vec.Vec2Float{X: 1, Y: 0},
		vec.Vec2Float{X: 1, Y: 1},
		vec.Vec2Float{X: 0, Y: 1},
	)
}
