package footprint

import (
	"errors"
	"fmt"

	"github.com/annel0/buildgen/internal/rng"
)

// ErrEmptyCatalog - каталог без планов
var ErrEmptyCatalog = errors.New("footprint catalog is empty")

// Spec - описание плана из конфигурации
type Spec struct {
	Name string
	Grid [][]int
}

// Catalog - упорядоченный набор планов, из которого выбирается план здания
type Catalog struct {
	items  []*Footprint
	byName map[string]*Footprint
}

// NewCatalog создаёт каталог; имена планов должны быть уникальны
func NewCatalog(fps ...*Footprint) (*Catalog, error) {
	if len(fps) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		items:  make([]*Footprint, 0, len(fps)),
		byName: make(map[string]*Footprint, len(fps)),
	}
	for _, fp := range fps {
		if fp == nil {
			return nil, fmt.Errorf("nil footprint in catalog: %w", ErrInvalidFootprint)
		}
		if _, dup := c.byName[fp.Name()]; dup {
			return nil, fmt.Errorf("duplicate footprint name %q: %w", fp.Name(), ErrInvalidFootprint)
		}
		c.items = append(c.items, fp)
		c.byName[fp.Name()] = fp
	}
	return c, nil
}

// CatalogFromSpecs строит каталог из конфигурации
func CatalogFromSpecs(specs []Spec) (*Catalog, error) {
	fps := make([]*Footprint, 0, len(specs))
	for _, s := range specs {
		fp, err := New(s.Name, s.Grid)
		if err != nil {
			return nil, err
		}
		fps = append(fps, fp)
	}
	return NewCatalog(fps...)
}

// DefaultCatalog возвращает шесть встроенных планов: два прямоугольных и четыре вогнутых
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		MustNew("rect-2x3", [][]int{
			{1, 1, 1},
			{1, 1, 1},
		}),
		MustNew("rect-3x3", [][]int{
			{1, 1, 1},
			{1, 1, 1},
			{1, 1, 1},
		}),
		MustNew("l-shape", [][]int{
			{1, 0, 0},
			{1, 1, 1},
		}),
		MustNew("u-shape", [][]int{
			{1, 1, 1},
			{1, 0, 1},
		}),
		MustNew("notch", [][]int{
			{1, 1, 1},
			{1, 1, 0},
		}),
		MustNew("step", [][]int{
			{1, 1, 1},
			{1, 1, 1},
			{1, 0, 0},
		}),
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Pick выбирает план равномерно, потребляя одно значение потока
func (c *Catalog) Pick(stream rng.Stream) *Footprint {
	return c.items[stream.Intn(len(c.items))]
}

// Get возвращает план по имени
func (c *Catalog) Get(name string) (*Footprint, bool) {
	fp, ok := c.byName[name]
	return fp, ok
}

// At возвращает план по индексу
func (c *Catalog) At(i int) *Footprint {
	return c.items[i]
}

func (c *Catalog) Len() int { return len(c.items) }

// Names возвращает имена планов в порядке каталога
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, fp := range c.items {
		names[i] = fp.Name()
	}
	return names
}
