package api

import (
	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/mesh"
	"github.com/annel0/buildgen/internal/vec"
	"github.com/ungerik/go3d/float64/vec3"
)

// GenerateRequest - тело POST /api/buildings
type GenerateRequest struct {
	Seed  int64 `json:"seed"`
	Count *int  `json:"count"`
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FootprintDTO - план в ответе /api/footprints
type FootprintDTO struct {
	Name  string  `json:"name"`
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Cells int     `json:"cells"`
	Grid  [][]int `json:"grid"`
}

func footprintDTO(fp *footprint.Footprint) FootprintDTO {
	return FootprintDTO{
		Name:  fp.Name(),
		Rows:  fp.Rows(),
		Cols:  fp.Cols(),
		Cells: fp.Count(),
		Grid:  fp.Grid(),
	}
}

// BuildingSummary - краткая сводка здания в ответе генерации пакета
type BuildingSummary struct {
	ID        string                 `json:"id"`
	Index     int                    `json:"index"`
	Footprint string                 `json:"footprint"`
	Materials building.MaterialsHint `json:"materials"`
	Vertices  int                    `json:"vertices"`
	Size      vec.Vec3Float          `json:"size"`
	WallTris  int                    `json:"wall_triangles"`
	RoofTris  int                    `json:"roof_triangles"`
	Doors     int                    `json:"doors"`
	Windows   int                    `json:"windows"`
	Skipped   int                    `json:"skipped"`
}

func summarize(b *building.Building) BuildingSummary {
	doors, windows := b.CountOpenings()
	lo, hi := b.Mesh.Bounds()
	return BuildingSummary{
		ID:        b.ID,
		Index:     b.Index,
		Footprint: b.Footprint,
		Materials: b.Materials,
		Vertices:  b.Mesh.VertexCount(),
		Size:      vec.FromT(vec3.Sub(&hi, &lo)),
		WallTris:  b.Mesh.TriangleCount(mesh.SubmeshWalls),
		RoofTris:  b.Mesh.TriangleCount(mesh.SubmeshRoofs),
		Doors:     doors,
		Windows:   windows,
		Skipped:   len(b.Warnings),
	}
}

// BatchResponse - данные ответа POST /api/buildings
type BatchResponse struct {
	Seed      int64                `json:"seed"`
	Count     int                  `json:"count"`
	Summary   []BuildingSummary    `json:"summary"`
	Buildings []*building.Building `json:"buildings,omitempty"`
}
