// Package grid provides the cell coordinate and cell-set primitives shared by
// the board, knowledge, and solver packages.
// It exists so those packages can exchange cell data without importing each
// other; everything here is a plain value type with no external dependencies.
package grid

import "fmt"

// Cell identifies one board square by row and column. The zero cell is the
// top-left corner. Cells are comparable and are used as map keys throughout
// the solver.
type Cell struct {
	Row int
	Col int
}

// String formats the cell as "(row,col)" for logs and test output.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Adjacent returns the 8 surrounding coordinates in row-major order.
// No bounds filtering happens here; callers clip against their own limits.
func (c Cell) Adjacent() []Cell {
	out := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			out = append(out, Cell{Row: c.Row + dr, Col: c.Col + dc})
		}
	}
	return out
}

// Less orders cells row-major: by row first, then by column.
func (c Cell) Less(other Cell) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}
