package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omarmohamed101/Minesweeper/internal/agent"
	"github.com/omarmohamed101/Minesweeper/internal/board"
	"github.com/omarmohamed101/Minesweeper/internal/kernel"
	"github.com/omarmohamed101/Minesweeper/internal/session"
)

var (
	solveBoardPath string
	solveQuery     string
	solveSeed      int64
	solveWatch     bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a board from a YAML file and print the deductions",
	Long: `Loads a board description (explicit mine placement or mine_count
plus seed), plays it with the deduction engine, and prints what the solver
proved. With --watch the file is re-solved whenever it changes; --query runs
an ad-hoc Datalog query (for example "cell_mine(R, C)") against the audit
kernel after the game.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveBoardPath, "board", "", "path to a YAML board file (required)")
	solveCmd.Flags().StringVar(&solveQuery, "query", "", "Datalog query to run after solving (implies the kernel)")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 1, "solver seed for fallback moves")
	solveCmd.Flags().BoolVar(&solveWatch, "watch", false, "re-solve whenever the board file changes")
	_ = solveCmd.MarkFlagRequired("board")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	if !solveWatch {
		return solveOnce(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newBoardWatcher(solveBoardPath, logger, func() {
		if err := solveOnce(ctx); err != nil {
			logger.Error("re-solve failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	if err := solveOnce(ctx); err != nil {
		logger.Error("initial solve failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stderr, "watching for board changes, ^C to stop")
	<-ctx.Done()
	return nil
}

func solveOnce(ctx context.Context) error {
	b, err := board.LoadFile(solveBoardPath)
	if err != nil {
		return err
	}

	agentOpts := []agent.Option{agent.WithLogger(logger), agent.WithSeed(solveSeed)}
	sessionOpts := []session.Option{session.WithLogger(logger)}

	var k *kernel.Kernel
	if solveQuery != "" || cfg.Kernel.Enabled {
		k, err = kernel.New(kernelConfig(), logger)
		if err != nil {
			return err
		}
		agentOpts = append(agentOpts, agent.WithRecorder(k))
		sessionOpts = append(sessionOpts, session.WithKernel(k))
	}

	a, err := agent.New(b.Height(), b.Width(), agentOpts...)
	if err != nil {
		return err
	}

	outcome, err := session.New(b, a, sessionOpts...).Run(ctx)
	if err != nil {
		return err
	}

	printOutcome(outcome)
	fmt.Printf("mines proven: %v\n", a.KnownMines().Sorted())
	fmt.Printf("open sentences: %d\n", len(a.Sentences()))
	for _, s := range a.Sentences() {
		fmt.Printf("  %s\n", s)
	}

	if solveQuery != "" {
		facts, err := k.Query(ctx, solveQuery)
		if err != nil {
			return fmt.Errorf("query %q: %w", solveQuery, err)
		}
		fmt.Printf("query %s: %d result(s)\n", solveQuery, len(facts))
		for _, f := range facts {
			fmt.Printf("  %s\n", f)
		}
	}
	return nil
}
