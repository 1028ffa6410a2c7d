package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/mesh"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/service"
	"github.com/annel0/buildgen/internal/storage"
	"github.com/annel0/buildgen/internal/vec"
)

// options - разобранные флаги командной строки
type options struct {
	configPath string
	seed       int64
	seedSet    bool
	count      int
	outDir     string
	store      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("buildgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "путь к YAML конфигурации (по умолчанию $BUILDGEN_CONFIG)")
	fs.Int64Var(&opts.seed, "seed", 0, "сид пакета (по умолчанию generator.seed из конфигурации)")
	fs.IntVar(&opts.count, "count", -1, "число зданий (по умолчанию generator.buildings)")
	fs.StringVar(&opts.outDir, "out", "out", "каталог для building_<i>.obj и building_<i>.json")
	fs.BoolVar(&opts.store, "store", false, "сохранить пакет в хранилище storage.path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})
	return opts, nil
}

// buildingFile - содержимое building_<i>.json: всё, кроме геометрии
type buildingFile struct {
	ID        string                   `json:"id"`
	Index     int                      `json:"index"`
	Seed      int64                    `json:"seed"`
	Footprint string                   `json:"footprint"`
	Grid      [][]int                  `json:"grid"`
	Position  vec.Vec3Float            `json:"position"`
	Heights   []building.CellHeight    `json:"heights"`
	Materials building.MaterialsHint   `json:"materials"`
	Openings  []opening.Opening        `json:"openings"`
	Warnings  []opening.PlacementError `json:"warnings,omitempty"`
	Mesh      string                   `json:"mesh"`
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logging.SetDefaultLogger(logging.NewWriterLogger("buildgen", stderr, logging.INFO))
	defer logging.SetDefaultLogger(nil)
	if err := logging.ConfigureLevels(cfg.Logging.Level, cfg.Logging.Components); err != nil {
		fmt.Fprintf(stderr, "уровни логирования: %v\n", err)
	}

	seed := cfg.Generator.Seed
	if opts.seedSet {
		seed = opts.seed
	}
	count := cfg.Generator.Buildings
	if opts.count >= 0 {
		count = opts.count
	}

	gen, err := service.NewGenerator(cfg, nil)
	if err != nil {
		return err
	}
	buildings, err := gen.GenerateBatch(seed, count)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать каталог %s: %w", opts.outDir, err)
	}
	for _, b := range buildings {
		if err := writeBuilding(opts.outDir, b); err != nil {
			return err
		}
		doors, windows := b.CountOpenings()
		fmt.Fprintf(stdout, "building_%d  %-10s  walls=%s roofs=%s  doors=%d windows=%d skipped=%d\n",
			b.Index, b.Footprint, b.Materials.Wall, b.Materials.Roof, doors, windows, len(b.Warnings))
	}

	if opts.store {
		codec, err := storage.NewCodec(cfg.Storage.Compression)
		if err != nil {
			return err
		}
		store, err := storage.NewBuildingStore(cfg.Storage.Path, codec, cfg.Fingerprint())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveBatch(seed, buildings); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "пакет seed=%d сохранён в %s\n", seed, cfg.Storage.Path)
	}
	return nil
}

func writeBuilding(dir string, b *building.Building) error {
	name := fmt.Sprintf("building_%d", b.Index)

	objPath := filepath.Join(dir, name+".obj")
	f, err := os.Create(objPath)
	if err != nil {
		return fmt.Errorf("не удалось создать %s: %w", objPath, err)
	}
	if err := mesh.WriteOBJ(f, b.Mesh, name); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	meta := buildingFile{
		ID:        b.ID,
		Index:     b.Index,
		Seed:      b.Seed,
		Footprint: b.Footprint,
		Grid:      b.Grid,
		Position:  b.Position,
		Heights:   b.Heights,
		Materials: b.Materials,
		Openings:  b.Openings,
		Warnings:  b.Warnings,
		Mesh:      name + ".obj",
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+".json"), data, 0644)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}
