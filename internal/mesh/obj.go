package mesh

import (
	"bufio"
	"fmt"
	"io"
)

var submeshNames = [SubmeshCount]string{"walls", "roofs"}

// WriteOBJ пишет меш в формате Wavefront OBJ: общий список вершин и
// по группе на каждый сабмеш, чтобы хост мог назначить материалы стенам и крышам.
func WriteOBJ(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# buildgen mesh: %d vertices, %d wall triangles, %d roof triangles\n",
		m.VertexCount(), m.TriangleCount(SubmeshWalls), m.TriangleCount(SubmeshRoofs))
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	hasNormals := len(m.Normals) == len(m.Vertices)
	if hasNormals {
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
		}
	}

	for s, indices := range m.Submeshes {
		fmt.Fprintf(bw, "g %s\n", submeshNames[s])
		fmt.Fprintf(bw, "usemtl %s\n", submeshNames[s])
		for i := 0; i+2 < len(indices); i += 3 {
			// OBJ нумерует вершины с 1
			a, b, c := indices[i]+1, indices[i+1]+1, indices[i+2]+1
			if hasNormals {
				fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
			} else {
				fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ошибка записи OBJ: %w", err)
	}
	return nil
}
