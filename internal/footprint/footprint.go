// Package footprint описывает план здания: неизменяемую сетку занятости,
// каталог стандартных планов и анализ внешних граней.
package footprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/annel0/buildgen/internal/vec"
)

var (
	// ErrInvalidFootprint - общая ошибка некорректного плана
	ErrInvalidFootprint = errors.New("invalid footprint")
	// ErrEmptyFootprint - план без строк или без занятых клеток
	ErrEmptyFootprint = fmt.Errorf("%w: no occupied cells", ErrInvalidFootprint)
	// ErrRaggedFootprint - строки разной длины
	ErrRaggedFootprint = fmt.Errorf("%w: rows have different lengths", ErrInvalidFootprint)
	// ErrBadCellValue - значение клетки не 0 и не 1
	ErrBadCellValue = fmt.Errorf("%w: cell value must be 0 or 1", ErrInvalidFootprint)
)

// Cell идентифицирует клетку плана (строка - ось Z, столбец - ось X)
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos возвращает координаты клетки в виде vec.Vec2 (X = столбец, Y = строка)
func (c Cell) Pos() vec.Vec2 {
	return vec.Vec2{X: c.Col, Y: c.Row}
}

// Footprint - прямоугольная сетка занятости. После создания не изменяется.
type Footprint struct {
	name  string
	rows  int
	cols  int
	cells []bool // row-major
	count int
}

// New проверяет сетку и создаёт план. Ошибки конфигурации возвращаются
// до построения какой-либо геометрии.
func New(name string, grid [][]int) (*Footprint, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("footprint %q: %w", name, ErrEmptyFootprint)
	}

	rows, cols := len(grid), len(grid[0])
	fp := &Footprint{
		name:  name,
		rows:  rows,
		cols:  cols,
		cells: make([]bool, rows*cols),
	}

	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("footprint %q row %d has %d cells, want %d: %w", name, r, len(row), cols, ErrRaggedFootprint)
		}
		for c, v := range row {
			switch v {
			case 0:
			case 1:
				fp.cells[r*cols+c] = true
				fp.count++
			default:
				return nil, fmt.Errorf("footprint %q cell (%d,%d)=%d: %w", name, r, c, v, ErrBadCellValue)
			}
		}
	}

	if fp.count == 0 {
		return nil, fmt.Errorf("footprint %q: %w", name, ErrEmptyFootprint)
	}
	return fp, nil
}

// MustNew как New, но паникует при ошибке. Только для встроенных планов.
func MustNew(name string, grid [][]int) *Footprint {
	fp, err := New(name, grid)
	if err != nil {
		panic(err)
	}
	return fp
}

func (f *Footprint) Name() string { return f.name }
func (f *Footprint) Rows() int    { return f.rows }
func (f *Footprint) Cols() int    { return f.cols }

// Count возвращает количество занятых клеток
func (f *Footprint) Count() int { return f.count }

// InBounds проверяет, что клетка лежит внутри сетки
func (f *Footprint) InBounds(row, col int) bool {
	return row >= 0 && row < f.rows && col >= 0 && col < f.cols
}

// Occupied возвращает занятость клетки; вне сетки - false
func (f *Footprint) Occupied(row, col int) bool {
	if !f.InBounds(row, col) {
		return false
	}
	return f.cells[row*f.cols+col]
}

// OccupiedCells возвращает занятые клетки в порядке строк
func (f *Footprint) OccupiedCells() []Cell {
	out := make([]Cell, 0, f.count)
	for r := 0; r < f.rows; r++ {
		for c := 0; c < f.cols; c++ {
			if f.cells[r*f.cols+c] {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// Grid возвращает копию сетки в виде 0/1
func (f *Footprint) Grid() [][]int {
	grid := make([][]int, f.rows)
	for r := range grid {
		grid[r] = make([]int, f.cols)
		for c := range grid[r] {
			if f.cells[r*f.cols+c] {
				grid[r][c] = 1
			}
		}
	}
	return grid
}

// String рисует план: '#' - занято, '.' - пусто
func (f *Footprint) String() string {
	var sb strings.Builder
	for r := 0; r < f.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < f.cols; c++ {
			if f.cells[r*f.cols+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
