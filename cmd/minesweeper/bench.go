package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omarmohamed101/Minesweeper/internal/bench"
)

var (
	benchGames   int
	benchWorkers int
	benchSeed    int64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play a batch of seeded games and report statistics",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchGames, "games", 0, "number of games (default from config)")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "concurrent games (default from config)")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "base seed; game i uses seed+i")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	games := cfg.Bench.Games
	if benchGames > 0 {
		games = benchGames
	}
	workers := cfg.Bench.Workers
	if benchWorkers > 0 {
		workers = benchWorkers
	}

	runner := &bench.Runner{
		Games:    games,
		Workers:  workers,
		BaseSeed: benchSeed,
		Height:   cfg.Board.Height,
		Width:    cfg.Board.Width,
		Mines:    cfg.Board.Mines,
		Log:      logger,
	}
	report, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("played:     %d (%dx%d, %d mines, %d workers)\n",
		report.Played, cfg.Board.Height, cfg.Board.Width, cfg.Board.Mines, workers)
	fmt.Printf("won:        %d (%.1f%%)\n", report.Won, report.WinRate()*100)
	fmt.Printf("lost:       %d\n", report.Lost)
	fmt.Printf("exhausted:  %d\n", report.Exhausted)
	fmt.Printf("guesses:    %d total\n", report.Guesses)
	fmt.Printf("avg turns:  %.1f\n", report.AvgTurns)
	fmt.Printf("elapsed:    %s\n", report.Elapsed)
	return nil
}
