// Package agent implements the Minesweeper inference engine. It keeps a
// knowledge base of sentences ("exactly N of these cells are mines") plus the
// sets of cells proven safe or mined, updates them on every revealed cell,
// and drives deduction to a fixed point before handing control back.
package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gammazero/deque"
	"go.uber.org/zap"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
	"github.com/omarmohamed101/Minesweeper/internal/knowledge"
)

// ErrCountRange reports a neighbor mine count that cannot hold for the
// cell's untracked neighbors.
var ErrCountRange = errors.New("neighbor mine count out of range")

// Recorder receives every fact the agent proves. Implementations must not
// call back into the agent. The kernel package implements this to mirror the
// agent's conclusions into its Datalog store.
type Recorder interface {
	RecordMove(c grid.Cell)
	RecordSafe(c grid.Cell)
	RecordMine(c grid.Cell)
}

// Agent is the inference engine for one game. Not safe for concurrent use;
// one agent serves one game, driven sequentially.
type Agent struct {
	height int
	width  int

	moves *grid.Set
	safes *grid.Set
	mines *grid.Set
	base  *knowledge.Base

	rng      *rand.Rand
	recorder Recorder
	log      *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger attaches a structured logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Agent) { a.log = log }
}

// WithRecorder attaches a fact recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithSeed seeds the fallback-move picker, making guess sequences
// reproducible.
func WithSeed(seed int64) Option {
	return func(a *Agent) { a.rng = rand.New(rand.NewSource(seed)) }
}

// New builds an agent for a height×width board.
func New(height, width int, opts ...Option) (*Agent, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board dimensions %dx%d", height, width)
	}
	a := &Agent{
		height: height,
		width:  width,
		moves:  grid.NewSet(),
		safes:  grid.NewSet(),
		mines:  grid.NewSet(),
		base:   knowledge.NewBase(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(1))
	}
	return a, nil
}

// MarkSafe records that cell is certainly not a mine and simplifies every
// sentence accordingly. Idempotent. A cell already proven a mine is never
// moved across.
func (a *Agent) MarkSafe(c grid.Cell) {
	if a.mines.Has(c) {
		a.log.Error("refusing to mark a proven mine as safe", zap.Stringer("cell", c))
		return
	}
	if a.safes.Add(c) && a.recorder != nil {
		a.recorder.RecordSafe(c)
	}
	a.base.MarkSafe(c)
}

// MarkMine records that cell is certainly a mine and simplifies every
// sentence accordingly. Idempotent. A cell already proven safe is never
// moved across.
func (a *Agent) MarkMine(c grid.Cell) {
	if a.safes.Has(c) {
		a.log.Error("refusing to mark a proven safe cell as mine", zap.Stringer("cell", c))
		return
	}
	if a.mines.Add(c) && a.recorder != nil {
		a.recorder.RecordMine(c)
	}
	a.base.MarkMine(c)
}

// neighborCandidates returns the in-bounds neighbors of cell that still need
// constraint tracking: cells already proven safe or already played carry no
// information for a new sentence.
func (a *Agent) neighborCandidates(c grid.Cell) *grid.Set {
	out := grid.NewSet()
	for _, n := range c.Adjacent() {
		if n.Row < 0 || n.Row >= a.height || n.Col < 0 || n.Col >= a.width {
			continue
		}
		if a.safes.Has(n) || a.moves.Has(n) {
			continue
		}
		out.Add(n)
	}
	return out
}

// AddKnowledge feeds one observation into the engine: cell was revealed and
// count of its neighbors are mines. It records the move, builds the new
// sentence, applies subset resolution against the existing base, and runs
// deduction to a fixed point. Calling it again for the same cell is a no-op.
func (a *Agent) AddKnowledge(c grid.Cell, count int) error {
	if a.moves.Has(c) {
		return nil
	}
	a.moves.Add(c)
	if a.recorder != nil {
		a.recorder.RecordMove(c)
	}
	a.MarkSafe(c)

	candidates := a.neighborCandidates(c)

	// Neighbors already proven mines are accounted for outside the sentence.
	for _, n := range candidates.Cells() {
		if a.mines.Has(n) {
			candidates.Delete(n)
			count--
		}
	}
	if count < 0 || count > candidates.Len() {
		return fmt.Errorf("%w: %d mines over %d untracked neighbors of %v",
			ErrCountRange, count, candidates.Len(), c)
	}

	sentence, err := knowledge.NewSentence(candidates, count)
	if err != nil {
		return err
	}

	if !sentence.Empty() {
		// Subset resolution in both directions: an existing superset yields
		// (superset minus new), an existing subset yields (new minus subset).
		if super := a.base.FindSuperset(sentence); super != nil {
			if derived := super.Resolve(sentence); a.base.Add(derived) {
				a.log.Debug("derived sentence by subset resolution",
					zap.Stringer("from", super),
					zap.Stringer("minus", sentence),
					zap.Stringer("derived", derived))
			}
		}
		if sub := a.base.FindSubset(sentence); sub != nil {
			if derived := sentence.Resolve(sub); a.base.Add(derived) {
				a.log.Debug("derived sentence by subset resolution",
					zap.Stringer("from", sentence),
					zap.Stringer("minus", sub),
					zap.Stringer("derived", derived))
			}
		}
		a.base.Add(sentence)
	}

	a.runClosure()

	a.log.Debug("knowledge updated",
		zap.Stringer("cell", c),
		zap.Int("count", count),
		zap.Int("sentences", a.base.Len()),
		zap.Int("safe", a.safes.Len()),
		zap.Int("mines", a.mines.Len()))
	return nil
}

type verdict struct {
	cell grid.Cell
	mine bool
}

// runClosure drives deduction to a fixed point: scan the base for fully
// determined sentences, mark their cells (which simplifies every other
// sentence), and rescan until no sentence yields a new conclusion. The
// worklist deque makes each marking step visible for rescanning before the
// next one lands.
func (a *Agent) runClosure() {
	var work deque.Deque[verdict]

	enqueue := func() {
		safes, mines := a.base.Conclusions()
		for _, c := range safes {
			if !a.safes.Has(c) {
				work.PushBack(verdict{cell: c})
			}
		}
		for _, c := range mines {
			if !a.mines.Has(c) {
				work.PushBack(verdict{cell: c, mine: true})
			}
		}
	}

	enqueue()
	for work.Len() > 0 {
		v := work.PopFront()
		if a.safes.Has(v.cell) || a.mines.Has(v.cell) {
			continue
		}
		if v.mine {
			a.MarkMine(v.cell)
		} else {
			a.MarkSafe(v.cell)
		}
		a.base.PruneEmpty()
		enqueue()
	}
	a.base.PruneEmpty()
}

// MakeSafeMove returns a cell proven safe but not yet played, scanning
// row-major so the choice is deterministic. The second result is false when
// no known safe move exists. Never mutates state.
func (a *Agent) MakeSafeMove() (grid.Cell, bool) {
	for _, c := range a.safes.Sorted() {
		if !a.moves.Has(c) {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// MakeRandomMove returns a uniformly random cell that has not been played
// and is not a proven mine. The second result is false when the board is
// exhausted. Only the rng state advances.
func (a *Agent) MakeRandomMove() (grid.Cell, bool) {
	eligible := make([]grid.Cell, 0, a.height*a.width)
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			c := grid.Cell{Row: row, Col: col}
			if a.moves.Has(c) || a.mines.Has(c) {
				continue
			}
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return grid.Cell{}, false
	}
	return eligible[a.rng.Intn(len(eligible))], true
}

// KnownMines returns a copy of the set of cells proven to be mines.
func (a *Agent) KnownMines() *grid.Set {
	return a.mines.Clone()
}

// KnownSafes returns a copy of the set of cells proven safe.
func (a *Agent) KnownSafes() *grid.Set {
	return a.safes.Clone()
}

// Moves returns a copy of the set of cells already played.
func (a *Agent) Moves() *grid.Set {
	return a.moves.Clone()
}

// Sentences returns copies of the current knowledge base sentences.
func (a *Agent) Sentences() []*knowledge.Sentence {
	return a.base.Sentences()
}
