package knowledge

import "github.com/omarmohamed101/Minesweeper/internal/grid"

// Base is the solver's knowledge base: sentences in insertion order. The
// order is not semantically significant, but keeping it makes behavior
// reproducible. Structurally equal sentences are deduplicated on insert.
type Base struct {
	sentences []*Sentence
}

// NewBase returns an empty knowledge base.
func NewBase() *Base {
	return &Base{}
}

// Add appends a sentence unless it is empty or a structural duplicate of an
// existing one. Reports whether the sentence was inserted.
func (b *Base) Add(s *Sentence) bool {
	if s.Empty() {
		return false
	}
	for _, have := range b.sentences {
		if have.Equal(s) {
			return false
		}
	}
	b.sentences = append(b.sentences, s)
	return true
}

// Len returns the number of sentences.
func (b *Base) Len() int {
	return len(b.sentences)
}

// Sentences returns the sentences as independent copies, in insertion order.
func (b *Base) Sentences() []*Sentence {
	out := make([]*Sentence, len(b.sentences))
	for i, s := range b.sentences {
		out[i] = s.Clone()
	}
	return out
}

// MarkSafe propagates a safe cell to every sentence. Reports whether any
// sentence changed.
func (b *Base) MarkSafe(c grid.Cell) bool {
	changed := false
	for _, s := range b.sentences {
		if s.MarkSafe(c) {
			changed = true
		}
	}
	return changed
}

// MarkMine propagates a mine cell to every sentence. Reports whether any
// sentence changed.
func (b *Base) MarkMine(c grid.Cell) bool {
	changed := false
	for _, s := range b.sentences {
		if s.MarkMine(c) {
			changed = true
		}
	}
	return changed
}

// FindSuperset returns the first sentence whose cell set strictly contains
// s's cells, or nil. Equal sentences don't count; resolving them would only
// produce the useless empty sentence.
func (b *Base) FindSuperset(s *Sentence) *Sentence {
	for _, have := range b.sentences {
		if have.Len() > s.Len() && have.Superset(s) {
			return have
		}
	}
	return nil
}

// FindSubset returns the first sentence whose cell set is strictly contained
// in s's cells, or nil.
func (b *Base) FindSubset(s *Sentence) *Sentence {
	for _, have := range b.sentences {
		if have.Len() > 0 && have.Len() < s.Len() && s.Superset(have) {
			return have
		}
	}
	return nil
}

// Conclusions scans every sentence for cells it fully determines: sentences
// with zero count prove all their cells safe, sentences whose count equals
// their size prove all their cells mines.
func (b *Base) Conclusions() (safes, mines []grid.Cell) {
	for _, s := range b.sentences {
		switch {
		case s.KnownSafe():
			safes = append(safes, s.cells.Sorted()...)
		case s.KnownMines():
			mines = append(mines, s.cells.Sorted()...)
		}
	}
	return safes, mines
}

// PruneEmpty drops sentences whose cell sets have emptied out. Reports the
// number removed.
func (b *Base) PruneEmpty() int {
	kept := b.sentences[:0]
	removed := 0
	for _, s := range b.sentences {
		if s.Empty() {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	b.sentences = kept
	return removed
}
