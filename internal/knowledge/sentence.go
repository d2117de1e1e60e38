// Package knowledge holds the logical sentences a Minesweeper solver reasons
// with. A sentence asserts "exactly count of these cells are mines"; the Base
// is the ordered collection of sentences the solver has accumulated.
//
// Sentences are pure value types: they know nothing about the solver that
// owns them, which keeps them independently testable.
package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
)

// ErrCountRange reports a mine count outside [0, number of cells].
var ErrCountRange = errors.New("mine count out of range")

// Sentence is one constraint over a set of board cells: exactly Count of the
// cells are mines. Count stays within [0, len(cells)] through every mutation.
type Sentence struct {
	cells *grid.Set
	count int
}

// NewSentence builds a sentence over a copy of cells.
func NewSentence(cells *grid.Set, count int) (*Sentence, error) {
	if count < 0 || count > cells.Len() {
		return nil, fmt.Errorf("%w: %d mines over %d cells", ErrCountRange, count, cells.Len())
	}
	return &Sentence{cells: cells.Clone(), count: count}, nil
}

// Cells returns a copy of the sentence's cell set.
func (s *Sentence) Cells() *grid.Set {
	return s.cells.Clone()
}

// Count returns the number of mines asserted among the cells.
func (s *Sentence) Count() int {
	return s.count
}

// Len returns the number of cells in the sentence.
func (s *Sentence) Len() int {
	return s.cells.Len()
}

// Empty reports whether the sentence has no cells left. Empty sentences
// carry no information and get pruned by the base.
func (s *Sentence) Empty() bool {
	return s.cells.Len() == 0
}

// MarkMine records that cell is a mine: if the cell is one of ours, it no
// longer needs tracking, so remove it and lower the count. Reports whether
// the sentence changed.
func (s *Sentence) MarkMine(c grid.Cell) bool {
	if !s.cells.Delete(c) {
		return false
	}
	s.count--
	return true
}

// MarkSafe records that cell is safe: if the cell is one of ours, remove it,
// leaving the count alone. Reports whether the sentence changed.
func (s *Sentence) MarkSafe(c grid.Cell) bool {
	return s.cells.Delete(c)
}

// KnownSafe reports whether every cell in the sentence is provably safe
// (zero mines over a nonempty cell set).
func (s *Sentence) KnownSafe() bool {
	return s.count == 0 && s.cells.Len() > 0
}

// KnownMines reports whether every cell in the sentence is provably a mine
// (as many mines as cells, over a nonempty cell set).
func (s *Sentence) KnownMines() bool {
	return s.cells.Len() > 0 && s.count == s.cells.Len()
}

// Superset reports whether this sentence's cells contain all of other's.
func (s *Sentence) Superset(other *Sentence) bool {
	return s.cells.Superset(other.cells)
}

// Resolve derives the difference sentence from a superset relationship:
// if s covers other's cells, then (s minus other) holds exactly
// (s.count - other.count) mines. Returns nil when s is not a superset.
func (s *Sentence) Resolve(other *Sentence) *Sentence {
	if !s.cells.Superset(other.cells) {
		return nil
	}
	diff := s.cells.Difference(other.cells)
	return &Sentence{cells: diff, count: s.count - other.count}
}

// Equal is structural equality: same cell set, same count.
func (s *Sentence) Equal(other *Sentence) bool {
	return s.count == other.count && s.cells.Equal(other.cells)
}

// Clone returns an independent copy.
func (s *Sentence) Clone() *Sentence {
	return &Sentence{cells: s.cells.Clone(), count: s.count}
}

// String renders the sentence as "{(r,c), ...} = count" with sorted cells.
func (s *Sentence) String() string {
	cells := s.cells.Sorted()
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, ", "), s.count)
}
