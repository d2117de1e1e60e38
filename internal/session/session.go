// Package session drives one full game: it owns the turn loop that asks the
// solver for a move, reveals it on the board, and feeds the observation
// back, until the game is won, lost, or no move remains.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omarmohamed101/Minesweeper/internal/agent"
	"github.com/omarmohamed101/Minesweeper/internal/board"
	"github.com/omarmohamed101/Minesweeper/internal/grid"
	"github.com/omarmohamed101/Minesweeper/internal/kernel"
)

// Result classifies how a game ended.
type Result string

const (
	// ResultWon means every mine was identified, or every safe cell revealed.
	ResultWon Result = "won"
	// ResultLost means a revealed cell was a mine.
	ResultLost Result = "lost"
	// ResultExhausted means no move remained and the win condition never
	// held. A normal terminal condition, not an error.
	ResultExhausted Result = "exhausted"
)

// Outcome summarizes a finished game.
type Outcome struct {
	ID        string
	Result    Result
	Turns     int
	Guesses   int // moves taken without a proven-safe cell available
	Flagged   int // mines the solver had proven when the game ended
	SafeFound int // cells the solver had proven safe when the game ended
	Duration  time.Duration
	FatalCell *grid.Cell // the revealed mine, when lost
}

// Session runs one game to completion.
type Session struct {
	id       string
	board    *board.Board
	agent    *agent.Agent
	kernel   *kernel.Kernel
	log      *zap.Logger
	maxTurns int
}

// Option configures a session.
type Option func(*Session)

// WithLogger attaches a structured logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithKernel attaches the audit kernel. The session fails hard if the
// kernel ever derives a conflict.
func WithKernel(k *kernel.Kernel) Option {
	return func(s *Session) { s.kernel = k }
}

// WithMaxTurns caps the number of turns. Defaults to twice the cell count.
func WithMaxTurns(n int) Option {
	return func(s *Session) { s.maxTurns = n }
}

// New builds a session over an already-constructed board and agent.
func New(b *board.Board, a *agent.Agent, opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString()[:8],
		board: b,
		agent: a,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxTurns <= 0 {
		s.maxTurns = 2 * b.Height() * b.Width()
	}
	s.log = s.log.With(zap.String("session", s.id))
	return s
}

// ID returns the session's correlation ID.
func (s *Session) ID() string {
	return s.id
}

// Run plays the game to completion. Safe moves are preferred; when none is
// known, a fallback move counts as a guess. Cancellation is honored between
// turns. The error return covers driver-level failures only; losing the
// game is an Outcome, not an error.
func (s *Session) Run(ctx context.Context) (*Outcome, error) {
	if s.kernel != nil {
		s.kernel.RecordBoard(s.board.Height(), s.board.Width())
	}

	start := time.Now()
	outcome := &Outcome{ID: s.id}

	for outcome.Turns < s.maxTurns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		move, ok := s.agent.MakeSafeMove()
		if !ok {
			if move, ok = s.agent.MakeRandomMove(); !ok {
				s.finish(outcome, ResultExhausted, start)
				return outcome, s.audit()
			}
			outcome.Guesses++
		}
		outcome.Turns++

		mine, err := s.board.IsMine(move)
		if err != nil {
			return nil, fmt.Errorf("reveal %v: %w", move, err)
		}
		if mine {
			outcome.FatalCell = &move
			s.finish(outcome, ResultLost, start)
			return outcome, s.audit()
		}

		count, err := s.board.NearbyMines(move)
		if err != nil {
			return nil, fmt.Errorf("count neighbors of %v: %w", move, err)
		}
		if err := s.agent.AddKnowledge(move, count); err != nil {
			return nil, fmt.Errorf("add knowledge for %v: %w", move, err)
		}
		s.log.Debug("turn played",
			zap.Stringer("cell", move),
			zap.Int("count", count),
			zap.Int("turn", outcome.Turns))

		if err := s.audit(); err != nil {
			return nil, err
		}

		if s.won() {
			s.finish(outcome, ResultWon, start)
			return outcome, nil
		}
	}

	s.finish(outcome, ResultExhausted, start)
	return outcome, s.audit()
}

// won holds when the solver has flagged exactly the mines, or when every
// non-mine cell has been revealed. The flag condition only applies on a
// mined board: with zero mines the empty flag set would match the empty
// mine set before anything was revealed.
func (s *Session) won() bool {
	if s.board.MineCount() > 0 && s.board.Won(s.agent.KnownMines()) {
		return true
	}
	return s.agent.Moves().Len() == s.board.Height()*s.board.Width()-s.board.MineCount()
}

// audit surfaces kernel failures: a derived conflict means the solver proved
// a cell both safe and a mine, which is a bug worth failing loudly for.
func (s *Session) audit() error {
	if s.kernel == nil {
		return nil
	}
	if err := s.kernel.Err(); err != nil {
		return fmt.Errorf("kernel: %w", err)
	}
	if conflicts := s.kernel.Conflicts(); len(conflicts) > 0 {
		return fmt.Errorf("kernel derived conflicting verdicts for cells %v", conflicts)
	}
	return nil
}

func (s *Session) finish(o *Outcome, r Result, start time.Time) {
	o.Result = r
	o.Flagged = s.agent.KnownMines().Len()
	o.SafeFound = s.agent.KnownSafes().Len()
	o.Duration = time.Since(start)
	s.log.Info("game finished",
		zap.String("result", string(r)),
		zap.Int("turns", o.Turns),
		zap.Int("guesses", o.Guesses),
		zap.Int("flagged", o.Flagged),
		zap.Duration("duration", o.Duration))
}
