// Package assets хранит описания ассетов дверей и окон, известные хосту,
// и отвечает генератору на запросы габаритов.
package assets

import (
	"errors"
	"fmt"

	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/opening"
)

// ErrMissingBounds - ассет неизвестен или у него нет корректных габаритов
var ErrMissingBounds = errors.New("asset has no bounding box")

// Asset - описание ассета
type Asset struct {
	ID     string
	Kind   opening.Kind
	Bounds opening.Bounds
}

// Catalog - упорядоченные пулы ассетов и их габариты
type Catalog struct {
	doors   []string
	windows []string
	byID    map[string]Asset
}

// NewCatalog создаёт каталог из описаний ассетов
func NewCatalog(doors, windows []Asset) *Catalog {
	c := &Catalog{byID: make(map[string]Asset, len(doors)+len(windows))}
	for _, a := range doors {
		a.Kind = opening.Door
		c.doors = append(c.doors, a.ID)
		c.byID[a.ID] = a
	}
	for _, a := range windows {
		a.Kind = opening.Window
		c.windows = append(c.windows, a.ID)
		c.byID[a.ID] = a
	}
	return c
}

// FromConfig строит каталог из секции assets конфигурации
func FromConfig(cfg config.AssetsConfig) *Catalog {
	convert := func(in []config.AssetConfig) []Asset {
		out := make([]Asset, len(in))
		for i, a := range in {
			out[i] = Asset{ID: a.ID, Bounds: opening.Bounds{Height: a.Height, Depth: a.Depth}}
		}
		return out
	}
	return NewCatalog(convert(cfg.Doors), convert(cfg.Windows))
}

// Pools возвращает пулы вариантов в порядке конфигурации
func (c *Catalog) Pools() opening.Pools {
	return opening.Pools{
		Doors:   append([]string(nil), c.doors...),
		Windows: append([]string(nil), c.windows...),
	}
}

// Get возвращает описание ассета
func (c *Catalog) Get(id string) (Asset, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// ResolveAssetBounds реализует opening.BoundsResolver
func (c *Catalog) ResolveAssetBounds(id string) (opening.Bounds, error) {
	a, ok := c.byID[id]
	if !ok {
		return opening.Bounds{}, fmt.Errorf("%w: unknown asset %q", ErrMissingBounds, id)
	}
	if !a.Bounds.Valid() {
		return opening.Bounds{}, fmt.Errorf("%w: asset %q height=%g depth=%g", ErrMissingBounds, id, a.Bounds.Height, a.Bounds.Depth)
	}
	return a.Bounds, nil
}
