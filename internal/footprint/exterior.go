package footprint

// IsExterior сообщает, что грань, смотрящая на клетку (row, col), внешняя:
// клетка вне сетки или не занята.
func IsExterior(fp *Footprint, row, col int) bool {
	if !fp.InBounds(row, col) {
		return true
	}
	return !fp.Occupied(row, col)
}

// ExteriorFaces возвращает внешние стороны клетки в порядке Directions.
// Для полностью окружённой клетки результат пуст.
func ExteriorFaces(fp *Footprint, cell Cell) []Direction {
	faces := make([]Direction, 0, len(Directions))
	for _, dir := range Directions {
		dRow, dCol := dir.Offset()
		if IsExterior(fp, cell.Row+dRow, cell.Col+dCol) {
			faces = append(faces, dir)
		}
	}
	return faces
}
