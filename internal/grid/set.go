package grid

import "sort"

// Set is a mutable set of cells. The zero value is not usable; construct
// with NewSet. Iteration order of Cells is undefined; use Sorted when
// determinism matters.
type Set struct {
	cells map[Cell]struct{}
}

// NewSet returns a set containing the given cells.
func NewSet(cells ...Cell) *Set {
	s := &Set{cells: make(map[Cell]struct{}, len(cells))}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	return s
}

// Add inserts cell and reports whether it was not already present.
func (s *Set) Add(c Cell) bool {
	if _, ok := s.cells[c]; ok {
		return false
	}
	s.cells[c] = struct{}{}
	return true
}

// Has reports whether cell is in the set.
func (s *Set) Has(c Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// Delete removes cell and reports whether it was present.
func (s *Set) Delete(c Cell) bool {
	if _, ok := s.cells[c]; !ok {
		return false
	}
	delete(s.cells, c)
	return true
}

// Len returns the number of cells in the set.
func (s *Set) Len() int {
	return len(s.cells)
}

// Cells returns the members in unspecified order.
func (s *Set) Cells() []Cell {
	out := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		out = append(out, c)
	}
	return out
}

// Sorted returns the members in row-major order.
func (s *Set) Sorted() []Cell {
	out := s.Cells()
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	out := &Set{cells: make(map[Cell]struct{}, len(s.cells))}
	for c := range s.cells {
		out.cells[c] = struct{}{}
	}
	return out
}

// Equal reports whether both sets contain exactly the same cells.
func (s *Set) Equal(other *Set) bool {
	if len(s.cells) != len(other.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// Superset reports whether every cell of other is in s.
func (s *Set) Superset(other *Set) bool {
	if len(other.cells) > len(s.cells) {
		return false
	}
	for c := range other.cells {
		if _, ok := s.cells[c]; !ok {
			return false
		}
	}
	return true
}

// Difference returns a new set with the cells of s that are not in other.
func (s *Set) Difference(other *Set) *Set {
	out := NewSet()
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			out.cells[c] = struct{}{}
		}
	}
	return out
}
