// Package mesh строит геометрию здания: стены-кубы и шатровые крыши
// по клеткам плана, собранные в один меш с двумя сабмешами.
package mesh

import (
	"errors"
	"fmt"

	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// Индексы сабмешей
const (
	SubmeshWalls = 0
	SubmeshRoofs = 1
	SubmeshCount = 2
)

// ErrInvalidMesh - нарушен инвариант меша
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh - вершины, UV, нормали и два независимых списка треугольников.
// Каждая тройка индексов задаёт треугольник против часовой стрелки, если смотреть снаружи.
type Mesh struct {
	Vertices  []vec3.T            `json:"vertices"`
	UVs       []vec.Vec2Float     `json:"uvs"`
	Normals   []vec3.T            `json:"normals"`
	Submeshes [SubmeshCount][]int `json:"submeshes"`
}

// Walls возвращает индексы сабмеша стен
func (m *Mesh) Walls() []int { return m.Submeshes[SubmeshWalls] }

// Roofs возвращает индексы сабмеша крыш
func (m *Mesh) Roofs() []int { return m.Submeshes[SubmeshRoofs] }

// VertexCount возвращает число вершин
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount возвращает число треугольников в сабмеше
func (m *Mesh) TriangleCount(submesh int) int {
	return len(m.Submeshes[submesh]) / 3
}

// Validate проверяет инварианты: индексы в пределах, тройки полные, UV на каждую вершину
func (m *Mesh) Validate() error {
	if len(m.UVs) != len(m.Vertices) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidMesh, len(m.UVs), len(m.Vertices))
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals), len(m.Vertices))
	}
	for s, indices := range m.Submeshes {
		if len(indices)%3 != 0 {
			return fmt.Errorf("%w: submesh %d has %d indices", ErrInvalidMesh, s, len(indices))
		}
		for i, idx := range indices {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: submesh %d index %d = %d out of range", ErrInvalidMesh, s, i, idx)
			}
		}
	}
	return nil
}

// Bounds возвращает AABB вершин; для пустого меша - нулевые векторы
func (m *Mesh) Bounds() (min, max vec3.T) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for axis := range v {
			if v[axis] < min[axis] {
				min[axis] = v[axis]
			}
			if v[axis] > max[axis] {
				max[axis] = v[axis]
			}
		}
	}
	return min, max
}

// RecalculateNormals пересчитывает нормали вершин по треугольникам обоих сабмешей.
// Вершины между гранями не разделяются, поэтому затенение получается плоским.
func (m *Mesh) RecalculateNormals() {
	normals := make([]vec3.T, len(m.Vertices))
	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			n := faceNormal(&m.Vertices[a], &m.Vertices[b], &m.Vertices[c])
			normals[a].Add(&n)
			normals[b].Add(&n)
			normals[c].Add(&n)
		}
	}
	for i := range normals {
		// нулевой вектор Normalize оставляет нулевым
		normals[i].Normalize()
	}
	m.Normals = normals
}

// faceNormal - нормаль треугольника abc с обходом против часовой стрелки: (b-a)×(c-a)
func faceNormal(a, b, c *vec3.T) vec3.T {
	ab := vec3.Sub(b, a)
	ac := vec3.Sub(c, a)
	n := vec3.Cross(&ab, &ac)
	n.Normalize()
	return n
}
