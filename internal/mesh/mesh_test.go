package mesh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/rng"
	"github.com/annel0/buildgen/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestBuildCube_Counts(t *testing.T) {
	for _, height := range []float64{1, 2, 3, 3.7} {
		buf := NewBuffers(1)
		BuildCube(buf, vec3.T{2, 0, 5}, height)

		assert.Len(t, buf.Vertices, CubeVertices)
		assert.Len(t, buf.UVs, CubeVertices)
		assert.Len(t, buf.Walls, CubeIndices)
		assert.Empty(t, buf.Roofs)

		// UV по V масштабируется высотой
		assert.Equal(t, vec.Vec2Float{X: 1, Y: height}, buf.UVs[2])
		assert.Equal(t, vec.Vec2Float{X: 0, Y: height}, buf.UVs[3])
	}
}

func TestBuildCube_IndexPattern(t *testing.T) {
	buf := NewBuffers(1)
	buf.Vertices = append(buf.Vertices, vec3.Zero) // сдвиг на одну вершину
	buf.UVs = append(buf.UVs, vec.Vec2Float{})

	BuildCube(buf, vec3.Zero, 2)

	for face := 0; face < CubeFaces; face++ {
		start := 1 + face*4
		got := buf.Walls[face*6 : face*6+6]
		assert.Equal(t, []int{start, start + 1, start + 2, start, start + 2, start + 3}, got)
	}
}

func TestBuildCube_OutwardNormals(t *testing.T) {
	buf := NewBuffers(1)
	BuildCube(buf, vec3.Zero, 2)
	m := buf.Mesh()

	want := []vec3.T{vec.Forward, vec.Right, vec.Back, vec.Left}
	for face, dir := range want {
		for corner := 0; corner < 4; corner++ {
			n := m.Normals[face*4+corner]
			assert.InDeltaSlice(t, dir[:], n[:], 1e-9, "face %d corner %d", face, corner)
		}
	}
}

func TestBuildHipRoof(t *testing.T) {
	buf := NewBuffers(1)
	base := vec3.T{3, 0, 1}
	BuildHipRoof(buf, base, 2)

	require.Len(t, buf.Vertices, HipRoofVertices)
	assert.Len(t, buf.UVs, HipRoofVertices)
	assert.Len(t, buf.Roofs, HipRoofIndices)
	assert.Empty(t, buf.Walls)

	assert.Equal(t, vec3.T{3.5, 2.5, 1.5}, buf.Vertices[0])
	assert.Equal(t, vec3.T{3, 2, 1}, buf.Vertices[1])
	assert.Equal(t, vec3.T{3, 2, 2}, buf.Vertices[4])
	assert.Equal(t, vec.Vec2Float{X: 0.5, Y: 1}, buf.UVs[0])

	// Каждый треугольник крыши смотрит наружу и вверх
	for i := 0; i < len(buf.Roofs); i += 3 {
		a, b, c := buf.Vertices[buf.Roofs[i]], buf.Vertices[buf.Roofs[i+1]], buf.Vertices[buf.Roofs[i+2]]
		n := faceNormal(&a, &b, &c)
		assert.Greater(t, n[1], 0.0)
		assert.InDelta(t, 1.0, n.Length(), 1e-12)

		centroid := vec3.Add(&a, &b)
		centroid.Add(&c).Scale(1.0 / 3)
		outward := vec3.Sub(&centroid, &vec3.T{3.5, centroid[1], 1.5})
		assert.Greater(t, vec3.Dot(&n, &outward), 0.0)
	}
}

func TestAssemble_Totals(t *testing.T) {
	fp := footprint.DefaultCatalog().At(0) // rect-2x3
	m, heights := Assemble(fp, rng.NewStream(1))

	cells := fp.Count()
	assert.Equal(t, cells*(CubeVertices+HipRoofVertices), m.VertexCount())
	assert.Equal(t, cells*CubeIndices, len(m.Walls()))
	assert.Equal(t, cells*HipRoofIndices, len(m.Roofs()))
	assert.Len(t, m.Normals, m.VertexCount())
	require.NoError(t, m.Validate())

	require.Len(t, heights, cells)
	for _, cell := range fp.OccupiedCells() {
		h, ok := heights[cell.Pos()]
		require.True(t, ok, "нет высоты для %v", cell)
		assert.GreaterOrEqual(t, h, 1.0)
		assert.Less(t, h, 4.0)
		assert.Equal(t, int(h), heights.Floors(cell.Pos()))
	}
}

func TestAssemble_SubmeshSeparation(t *testing.T) {
	fp := footprint.DefaultCatalog().At(2) // l-shape
	m, _ := Assemble(fp, rng.NewStream(99))

	wallVerts := make(map[int]bool)
	for _, idx := range m.Walls() {
		wallVerts[idx] = true
	}
	for _, idx := range m.Roofs() {
		assert.False(t, wallVerts[idx], "вершина %d общая для стен и крыш", idx)
	}
}

func TestAssemble_HeightsFromStream(t *testing.T) {
	fp := footprint.MustNew("pair", [][]int{{1, 1}})
	s := rng.NewScripted(nil, []int{2, 0}) // высоты 3 и 1

	m, heights := Assemble(fp, s)
	assert.Equal(t, 3.0, heights[vec.Vec2{X: 0, Y: 0}])
	assert.Equal(t, 1.0, heights[vec.Vec2{X: 1, Y: 0}])

	min, max := m.Bounds()
	assert.Equal(t, vec3.T{0, 0, 0}, min)
	assert.Equal(t, vec3.T{2, 3.5, 1}, max)
}

func TestAssemble_Deterministic(t *testing.T) {
	fp := footprint.DefaultCatalog().At(1)
	a, ha := Assemble(fp, rng.NewStream(2024))
	b, hb := Assemble(fp, rng.NewStream(2024))
	assert.Equal(t, a, b)
	assert.Equal(t, ha, hb)
}

func TestRecalculateNormals_DegenerateTriangle(t *testing.T) {
	m := &Mesh{
		Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		UVs:      []vec.Vec2Float{{}, {}, {}},
	}
	m.Submeshes[SubmeshWalls] = []int{0, 1, 2}
	m.RecalculateNormals()

	require.Len(t, m.Normals, 3)
	for _, n := range m.Normals {
		assert.Equal(t, vec3.Zero, n, "вырожденный треугольник даёт нулевую нормаль")
	}
}

func TestMesh_Validate(t *testing.T) {
	m := &Mesh{
		Vertices: []vec3.T{{}, {}, {}},
		UVs:      []vec.Vec2Float{{}, {}, {}},
	}
	m.Submeshes[SubmeshWalls] = []int{0, 1, 2}
	assert.NoError(t, m.Validate())

	m.Submeshes[SubmeshRoofs] = []int{0, 1, 3}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m.Submeshes[SubmeshRoofs] = []int{0, 1}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m.Submeshes[SubmeshRoofs] = nil
	m.UVs = m.UVs[:2]
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
}

func TestWriteOBJ(t *testing.T) {
	buf := NewBuffers(1)
	BuildCube(buf, vec3.Zero, 1)
	BuildHipRoof(buf, vec3.Zero, 1)
	m := buf.Mesh()

	var out bytes.Buffer
	require.NoError(t, WriteOBJ(&out, m, "building_0"))

	text := out.String()
	assert.Contains(t, text, "o building_0\n")
	assert.Contains(t, text, "g walls\n")
	assert.Contains(t, text, "g roofs\n")
	assert.Equal(t, m.VertexCount(), strings.Count(text, "\nv "))
	assert.Equal(t, m.VertexCount(), strings.Count(text, "\nvt "))
	assert.Equal(t, m.TriangleCount(SubmeshWalls)+m.TriangleCount(SubmeshRoofs), strings.Count(text, "\nf "))
	assert.Contains(t, text, "f 1/1/1 2/2/2 3/3/3\n")
}
