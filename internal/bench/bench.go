// Package bench plays batches of games concurrently and aggregates win and
// guess statistics. Each game gets its own board, agent, and derived seed,
// so runs with the same base seed are reproducible regardless of worker
// count.
package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/omarmohamed101/Minesweeper/internal/agent"
	"github.com/omarmohamed101/Minesweeper/internal/board"
	"github.com/omarmohamed101/Minesweeper/internal/session"
)

// Runner configures a batch of games.
type Runner struct {
	Games    int
	Workers  int
	BaseSeed int64
	Height   int
	Width    int
	Mines    int
	Log      *zap.Logger
}

// Report aggregates the batch.
type Report struct {
	Played    int
	Won       int
	Lost      int
	Exhausted int
	Guesses   int
	AvgTurns  float64
	Elapsed   time.Duration
}

// WinRate returns the fraction of games won.
func (r *Report) WinRate() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.Won) / float64(r.Played)
}

// Run plays the configured batch. Game i uses seed BaseSeed+i for both its
// board and its agent. The first driver-level failure cancels the batch.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.Games <= 0 {
		return nil, fmt.Errorf("nothing to run: %d games", r.Games)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	var (
		mu         sync.Mutex
		report     Report
		totalTurns int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < r.Games; i++ {
		seed := r.BaseSeed + int64(i)
		g.Go(func() error {
			b, err := board.New(r.Height, r.Width, r.Mines, seed)
			if err != nil {
				return fmt.Errorf("game seed %d: %w", seed, err)
			}
			a, err := agent.New(r.Height, r.Width, agent.WithSeed(seed))
			if err != nil {
				return fmt.Errorf("game seed %d: %w", seed, err)
			}

			outcome, err := session.New(b, a, session.WithLogger(log)).Run(ctx)
			if err != nil {
				return fmt.Errorf("game seed %d: %w", seed, err)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Played++
			report.Guesses += outcome.Guesses
			totalTurns += outcome.Turns
			switch outcome.Result {
			case session.ResultWon:
				report.Won++
			case session.ResultLost:
				report.Lost++
			case session.ResultExhausted:
				report.Exhausted++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.AvgTurns = float64(totalTurns) / float64(report.Played)
	report.Elapsed = time.Since(start)
	log.Info("bench finished",
		zap.Int("played", report.Played),
		zap.Int("won", report.Won),
		zap.Int("lost", report.Lost),
		zap.Int("exhausted", report.Exhausted),
		zap.Float64("win_rate", report.WinRate()),
		zap.Duration("elapsed", report.Elapsed))
	return &report, nil
}
