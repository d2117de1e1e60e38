// Package kernel mirrors the solver's proven facts into a Google Mangle
// (Datalog) store and derives consistency violations from them. It is an
// audit surface: the solver works without it, but when enabled every move,
// safe-cell and mine-cell conclusion becomes a queryable atom, and a derived
// conflict/2 atom means a cell was proven both safe and a mine.
package kernel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
)

// ErrFactLimit reports that the configured fact capacity was reached.
var ErrFactLimit = errors.New("kernel fact limit exceeded")

// schema declares the audit predicates and the single derivation rule. A
// conflict atom can only appear if the solver ever proves the same cell both
// safe and a mine.
const schema = `
Decl board_dim(Height, Width).
Decl move_made(Row, Col).
Decl cell_safe(Row, Col).
Decl cell_mine(Row, Col).
Decl conflict(Row, Col).

conflict(R, C) :- cell_safe(R, C), cell_mine(R, C).
`

// Config holds kernel settings.
type Config struct {
	FactLimit    int           // 0 = unlimited
	QueryTimeout time.Duration // applied when the query context has no deadline
}

// DefaultConfig returns sensible defaults for interactive use.
func DefaultConfig() Config {
	return Config{
		FactLimit:    100000,
		QueryTimeout: 5 * time.Second,
	}
}

// Kernel wraps a Mangle program over an in-memory fact store. Safe for
// concurrent use: the solver inserts facts while queries read.
type Kernel struct {
	cfg Config
	log *zap.Logger

	mu          sync.RWMutex
	store       factstore.ConcurrentFactStore
	programInfo *analysis.ProgramInfo
	predicates  map[string]ast.PredicateSym
	factCount   int
	lastErr     error
}

// New compiles the embedded schema and returns an empty kernel.
func New(cfg Config, log *zap.Logger) (*Kernel, error) {
	if log == nil {
		log = zap.NewNop()
	}
	unit, err := parse.Unit(bytes.NewReader([]byte(schema)))
	if err != nil {
		return nil, fmt.Errorf("parse kernel schema: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze kernel schema: %w", err)
	}

	k := &Kernel{
		cfg:         cfg,
		log:         log,
		store:       factstore.NewConcurrentFactStore(factstore.NewSimpleInMemoryStore()),
		programInfo: programInfo,
		predicates:  make(map[string]ast.PredicateSym),
	}
	for sym := range programInfo.Decls {
		k.predicates[sym.Symbol] = sym
	}
	return k, nil
}

// RecordBoard asserts the board dimensions. Call once per session.
func (k *Kernel) RecordBoard(height, width int) {
	k.insert("board_dim", int64(height), int64(width))
}

// RecordMove implements agent.Recorder.
func (k *Kernel) RecordMove(c grid.Cell) {
	k.insert("move_made", int64(c.Row), int64(c.Col))
}

// RecordSafe implements agent.Recorder.
func (k *Kernel) RecordSafe(c grid.Cell) {
	k.insert("cell_safe", int64(c.Row), int64(c.Col))
}

// RecordMine implements agent.Recorder.
func (k *Kernel) RecordMine(c grid.Cell) {
	k.insert("cell_mine", int64(c.Row), int64(c.Col))
}

// insert adds one fact and re-evaluates the rules. Errors are retained for
// Err because the recorder interface has no error path back into the solver.
func (k *Kernel) insert(predicate string, args ...int64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cfg.FactLimit > 0 && k.factCount >= k.cfg.FactLimit {
		k.setErrLocked(fmt.Errorf("%w: %d", ErrFactLimit, k.cfg.FactLimit))
		return
	}

	sym, ok := k.predicates[predicate]
	if !ok {
		k.setErrLocked(fmt.Errorf("predicate %s is not declared in the kernel schema", predicate))
		return
	}
	terms := make([]ast.BaseTerm, len(args))
	for i, a := range args {
		terms[i] = ast.Number(a)
	}

	if !k.store.Add(ast.Atom{Predicate: sym, Args: terms}) {
		return
	}
	k.factCount++

	if _, err := mengine.EvalProgramWithStats(k.programInfo, k.store); err != nil {
		k.setErrLocked(fmt.Errorf("evaluate kernel rules: %w", err))
	}
}

func (k *Kernel) setErrLocked(err error) {
	if k.lastErr == nil {
		k.lastErr = err
	}
	k.log.Error("kernel fact insertion failed", zap.Error(err))
}

// Err returns the first error a recorder call swallowed, if any.
func (k *Kernel) Err() error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.lastErr
}

// Conflicts returns the cells derived as both safe and mine, row-major
// sorted. A non-empty result means the solver's disjointness invariant broke.
func (k *Kernel) Conflicts() []grid.Cell {
	cells := k.cellFacts("conflict")
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// cellFacts returns all facts of an arity-2 numeric predicate as cells.
func (k *Kernel) cellFacts(predicate string) []grid.Cell {
	k.mu.RLock()
	defer k.mu.RUnlock()

	sym, ok := k.predicates[predicate]
	if !ok {
		return nil
	}
	var out []grid.Cell
	_ = k.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		cell, ok := atomToCell(atom)
		if ok {
			out = append(out, cell)
		}
		return nil
	})
	return out
}

// Fact is one row of a query result.
type Fact struct {
	Predicate string
	Args      []int64
}

// String renders the fact in Datalog notation.
func (f Fact) String() string {
	var sb bytes.Buffer
	sb.WriteString(f.Predicate)
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", a)
	}
	sb.WriteString(").")
	return sb.String()
}

// Query evaluates an ad-hoc query like "cell_mine(R, C)" or
// "cell_safe(0, C)" against the current store. Constant arguments filter;
// variables match anything. Honors ctx; when ctx carries no deadline the
// configured query timeout applies.
func (k *Kernel) Query(ctx context.Context, query string) ([]Fact, error) {
	if _, ok := ctx.Deadline(); !ok && k.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.cfg.QueryTimeout)
		defer cancel()
	}

	atom, err := parseQuery(query)
	if err != nil {
		return nil, err
	}

	k.mu.RLock()
	sym, ok := k.predicates[atom.Predicate.Symbol]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("predicate %s is not declared", atom.Predicate.Symbol)
	}
	if len(atom.Args) != sym.Arity {
		return nil, fmt.Errorf("predicate %s expects %d args, got %d", sym.Symbol, sym.Arity, len(atom.Args))
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	var out []Fact
	err = k.store.GetFacts(ast.NewQuery(sym), func(fact ast.Atom) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !matches(atom, fact) {
			return nil
		}
		args := make([]int64, 0, len(fact.Args))
		for _, term := range fact.Args {
			if c, ok := term.(ast.Constant); ok && c.Type == ast.NumberType {
				args = append(args, c.NumValue)
			}
		}
		out = append(out, Fact{Predicate: sym.Symbol, Args: args})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		for idx := range out[i].Args {
			if out[i].Args[idx] != out[j].Args[idx] {
				return out[i].Args[idx] < out[j].Args[idx]
			}
		}
		return false
	})
	return out, nil
}

// Stats returns per-predicate fact counts.
func (k *Kernel) Stats() map[string]int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	counts := make(map[string]int, len(k.predicates))
	for name, sym := range k.predicates {
		n := 0
		_ = k.store.GetFacts(ast.NewQuery(sym), func(ast.Atom) error {
			n++
			return nil
		})
		counts[name] = n
	}
	return counts
}

// parseQuery accepts "pred(A, B)" with optional leading "?" and trailing ".".
func parseQuery(query string) (ast.Atom, error) {
	clean := bytes.TrimSpace([]byte(query))
	if len(clean) == 0 {
		return ast.Atom{}, errors.New("empty query")
	}
	if clean[0] == '?' {
		clean = bytes.TrimSpace(clean[1:])
	}
	if n := len(clean); n > 0 && clean[n-1] == '.' {
		clean = bytes.TrimSpace(clean[:n-1])
	}
	atom, err := parse.Atom(string(clean))
	if err != nil {
		return ast.Atom{}, fmt.Errorf("parse query %q: %w", query, err)
	}
	return atom, nil
}

// matches checks a stored fact against the query atom: constants must agree,
// variables bind anything.
func matches(query, fact ast.Atom) bool {
	for i, arg := range query.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			continue
		}
		fc, ok := fact.Args[i].(ast.Constant)
		if !ok || fc.Type != c.Type || fc.NumValue != c.NumValue || fc.Symbol != c.Symbol {
			return false
		}
	}
	return true
}

func atomToCell(atom ast.Atom) (grid.Cell, bool) {
	if len(atom.Args) != 2 {
		return grid.Cell{}, false
	}
	row, ok := atom.Args[0].(ast.Constant)
	if !ok || row.Type != ast.NumberType {
		return grid.Cell{}, false
	}
	col, ok := atom.Args[1].(ast.Constant)
	if !ok || col.Type != ast.NumberType {
		return grid.Cell{}, false
	}
	return grid.Cell{Row: int(row.NumValue), Col: int(col.NumValue)}, true
}
