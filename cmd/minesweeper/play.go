package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omarmohamed101/Minesweeper/internal/agent"
	"github.com/omarmohamed101/Minesweeper/internal/board"
	"github.com/omarmohamed101/Minesweeper/internal/kernel"
	"github.com/omarmohamed101/Minesweeper/internal/session"
)

var (
	playHeight    int
	playWidth     int
	playMines     int
	playSeed      int64
	playKernel    bool
	playShowBoard bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game on a generated board",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playHeight, "height", 0, "board height (default from config)")
	playCmd.Flags().IntVar(&playWidth, "width", 0, "board width (default from config)")
	playCmd.Flags().IntVar(&playMines, "mines", -1, "mine count (default from config)")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "board and solver seed (0 = random)")
	playCmd.Flags().BoolVar(&playKernel, "kernel", false, "enable the Datalog audit kernel")
	playCmd.Flags().BoolVar(&playShowBoard, "show-board", false, "print the final board")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	height, width, mines := cfg.Board.Height, cfg.Board.Width, cfg.Board.Mines
	if playHeight > 0 {
		height = playHeight
	}
	if playWidth > 0 {
		width = playWidth
	}
	if playMines >= 0 {
		mines = playMines
	}
	seed := cfg.Board.Seed
	if playSeed != 0 {
		seed = playSeed
	}

	b, err := board.New(height, width, mines, seed)
	if err != nil {
		return err
	}

	agentOpts := []agent.Option{agent.WithLogger(logger), agent.WithSeed(seed)}
	sessionOpts := []session.Option{session.WithLogger(logger)}

	var k *kernel.Kernel
	if playKernel || cfg.Kernel.Enabled {
		k, err = kernel.New(kernelConfig(), logger)
		if err != nil {
			return err
		}
		agentOpts = append(agentOpts, agent.WithRecorder(k))
		sessionOpts = append(sessionOpts, session.WithKernel(k))
	}

	a, err := agent.New(height, width, agentOpts...)
	if err != nil {
		return err
	}

	outcome, err := session.New(b, a, sessionOpts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	printOutcome(outcome)
	if playShowBoard {
		fmt.Println(board.View{
			Board:    b,
			Revealed: a.Moves(),
			Flagged:  a.KnownMines(),
			ShowAll:  true,
			Color:    true,
		}.Render())
	}
	if k != nil {
		logger.Debug("kernel stats", zap.Any("facts", k.Stats()))
	}
	return nil
}

func kernelConfig() kernel.Config {
	return kernel.Config{
		FactLimit:    cfg.Kernel.FactLimit,
		QueryTimeout: cfg.Kernel.QueryTimeout(),
	}
}

func printOutcome(o *session.Outcome) {
	fmt.Printf("result:    %s\n", o.Result)
	fmt.Printf("turns:     %d (%d guessed)\n", o.Turns, o.Guesses)
	fmt.Printf("flagged:   %d mines\n", o.Flagged)
	fmt.Printf("safe:      %d cells proven\n", o.SafeFound)
	fmt.Printf("duration:  %s\n", o.Duration)
	if o.FatalCell != nil {
		fmt.Printf("hit mine:  %s\n", o.FatalCell)
	}
}
