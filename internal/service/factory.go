package service

import (
	"fmt"

	"github.com/annel0/buildgen/internal/assets"
	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/opening"
)

// NewGenerator собирает генератор из конфигурации: каталог планов,
// каталог ассетов, пороги, текстуры и шаг между зданиями.
func NewGenerator(cfg *config.Config, recorder building.Recorder) (*building.Generator, error) {
	catalog := footprint.DefaultCatalog()
	if len(cfg.Footprints) > 0 {
		specs := make([]footprint.Spec, 0, len(cfg.Footprints))
		for _, fp := range cfg.Footprints {
			specs = append(specs, footprint.Spec{Name: fp.Name, Grid: fp.Grid})
		}

		var err error
		catalog, err = footprint.CatalogFromSpecs(specs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
	}

	assetCatalog := assets.FromConfig(cfg.Assets)
	placer := opening.NewPlacer(assetCatalog.Pools(), assetCatalog)
	placer.Thresholds = opening.Thresholds{
		Door:   cfg.Generator.DoorThreshold,
		Window: cfg.Generator.WindowThreshold,
	}

	opts := []building.Option{
		building.WithSpacing(cfg.Generator.Spacing),
		building.WithTextures(building.Textures{
			Walls: cfg.Textures.Walls,
			Roofs: cfg.Textures.Roofs,
		}),
	}
	if recorder != nil {
		opts = append(opts, building.WithRecorder(recorder))
	}

	return building.NewGenerator(catalog, placer, opts...), nil
}
