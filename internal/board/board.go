// Package board owns the Minesweeper board: mine placement, bounds checks,
// neighbor mine counts, and the win condition. It is the solver's only
// source of ground truth and never sees the solver's reasoning.
package board

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
)

var (
	// ErrOutOfBounds reports cell coordinates outside the board.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrDimensions reports a non-positive board height or width.
	ErrDimensions = errors.New("invalid board dimensions")
	// ErrMineCount reports a mine count that does not fit the board.
	ErrMineCount = errors.New("invalid mine count")
)

// Board is one fixed Minesweeper board. Immutable after construction.
type Board struct {
	height    int
	width     int
	mineCount int
	mines     *grid.Set
}

// New builds a height×width board with exactly mines mines placed
// pseudo-randomly, at most one per cell. Seed 0 derives the seed from the
// clock; any other value makes placement reproducible.
func New(height, width, mines int, seed int64) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, height, width)
	}
	if mines < 0 || mines > height*width {
		return nil, fmt.Errorf("%w: %d mines on a %dx%d board", ErrMineCount, mines, height, width)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	placed := grid.NewSet()
	for placed.Len() < mines {
		placed.Add(grid.Cell{Row: rng.Intn(height), Col: rng.Intn(width)})
	}
	return &Board{height: height, width: width, mineCount: mines, mines: placed}, nil
}

// newExplicit builds a board from an explicit mine placement.
func newExplicit(height, width int, mines *grid.Set) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, height, width)
	}
	for _, c := range mines.Cells() {
		if c.Row < 0 || c.Row >= height || c.Col < 0 || c.Col >= width {
			return nil, fmt.Errorf("%w: mine at %v on a %dx%d board", ErrOutOfBounds, c, height, width)
		}
	}
	return &Board{height: height, width: width, mineCount: mines.Len(), mines: mines.Clone()}, nil
}

// InBounds reports whether cell lies on the board.
func (b *Board) InBounds(c grid.Cell) bool {
	return c.Row >= 0 && c.Row < b.height && c.Col >= 0 && c.Col < b.width
}

// IsMine reports whether cell holds a mine.
func (b *Board) IsMine(c grid.Cell) (bool, error) {
	if !b.InBounds(c) {
		return false, fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, c, b.height, b.width)
	}
	return b.mines.Has(c), nil
}

// NearbyMines counts the mines among the 8 neighbors of cell, ignoring
// out-of-bounds coordinates and the cell itself.
func (b *Board) NearbyMines(c grid.Cell) (int, error) {
	if !b.InBounds(c) {
		return 0, fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, c, b.height, b.width)
	}
	count := 0
	for _, n := range c.Adjacent() {
		if b.InBounds(n) && b.mines.Has(n) {
			count++
		}
	}
	return count, nil
}

// Won reports whether flagged is exactly the true mine set.
func (b *Board) Won(flagged *grid.Set) bool {
	return b.mines.Equal(flagged)
}

// Mines returns a copy of the true mine set, for diagnostics and tests.
func (b *Board) Mines() *grid.Set {
	return b.mines.Clone()
}

// Height returns the board height.
func (b *Board) Height() int { return b.height }

// Width returns the board width.
func (b *Board) Width() int { return b.width }

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int { return b.mineCount }
