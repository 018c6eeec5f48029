package geohash

// Index shifts of the eight neighboring positions, in the order they are
// inspected.
var (
	shiftRow = [8]int{-1, -1, -1, 0, 1, 0, 1, 1}
	shiftCol = [8]int{-1, 1, 0, -1, -1, 1, 0, 1}
)

func (e *CellExtent) extend(row, col int) {
	if row < e.MinRow {
		e.MinRow = row
	}
	if row > e.MaxRow {
		e.MaxRow = row
	}
	if col < e.MinCol {
		e.MinCol = col
	}
	if col > e.MaxCol {
		e.MaxCol = col
	}
}

// Where groups a two dimensional array of codes into inclusive index
// rectangles. A code's rectangle starts at its first occurrence in
// row-major order. Each later occurrence extends the rectangle by the
// positions of its matching 8-neighbors, never by its own position, so an
// occurrence is included only when an occurrence other than the first is
// its 8-neighbor. An isolated repeat of a code leaves the rectangle
// unchanged; a group of two or more adjacent repeats widens it even when
// the group is not connected to the first occurrence.
func Where(codes [][]uint64) (map[uint64]CellExtent, error) {
	rows := len(codes)
	result := make(map[uint64]CellExtent)
	if rows == 0 {
		return result, nil
	}
	cols := len(codes[0])
	for _, row := range codes {
		if len(row) != cols {
			return nil, ErrRaggedRows
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			current := codes[i][j]
			extent, ok := result[current]
			if !ok {
				result[current] = CellExtent{MinRow: i, MaxRow: i, MinCol: j, MaxCol: j}
				continue
			}
			for k := 0; k < 8; k++ {
				ni := i + shiftRow[k]
				nj := j + shiftCol[k]
				if ni >= 0 && ni < rows && nj >= 0 && nj < cols && codes[ni][nj] == current {
					extent.extend(ni, nj)
				}
			}
			result[current] = extent
		}
	}
	return result, nil
}
