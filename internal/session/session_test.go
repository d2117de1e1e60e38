package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarmohamed101/Minesweeper/internal/agent"
	"github.com/omarmohamed101/Minesweeper/internal/board"
	"github.com/omarmohamed101/Minesweeper/internal/grid"
	"github.com/omarmohamed101/Minesweeper/internal/kernel"
)

func explicitBoard(t *testing.T, height, width int, mines ...[2]int) *board.Board {
	t.Helper()
	b, err := (&board.File{Height: height, Width: width, Mines: mines}).Board()
	require.NoError(t, err)
	return b
}

func newAgent(t *testing.T, b *board.Board, opts ...agent.Option) *agent.Agent {
	t.Helper()
	opts = append([]agent.Option{agent.WithSeed(1)}, opts...)
	a, err := agent.New(b.Height(), b.Width(), opts...)
	require.NoError(t, err)
	return a
}

func TestRunWinsMinelessBoard(t *testing.T) {
	// With zero mines the empty flag set matches the empty mine set from
	// turn one; the win must still require revealing every cell.
	b := explicitBoard(t, 2, 2)
	a := newAgent(t, b)

	outcome, err := New(b, a).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ResultWon, outcome.Result)
	assert.Equal(t, 4, outcome.Turns, "every cell must be revealed")
	assert.Equal(t, 4, a.Moves().Len())
	assert.Nil(t, outcome.FatalCell)
	assert.GreaterOrEqual(t, outcome.Guesses, 1, "the opening move is always a guess")
}

func TestRunWinsByFlaggingAllMines(t *testing.T) {
	// 1x3, mine at (0,2): any safe opening deduces the rest.
	b := explicitBoard(t, 1, 3, [2]int{0, 2})

	// Try seeds until the opening guess is not the mine; the game must then
	// be won with zero further guesses.
	for seed := int64(1); seed <= 10; seed++ {
		a := newAgent(t, b, agent.WithSeed(seed))
		outcome, err := New(b, a).Run(context.Background())
		require.NoError(t, err)
		if outcome.Result == ResultLost {
			continue
		}
		assert.Equal(t, ResultWon, outcome.Result)
		assert.True(t, b.Won(a.KnownMines()), "the agent must have flagged exactly the mines")
		return
	}
	t.Fatal("every seed opened onto the mine; board setup is wrong")
}

func TestRunLosesOnFullyMinedBoard(t *testing.T) {
	b := explicitBoard(t, 1, 2, [2]int{0, 0}, [2]int{0, 1})
	s := New(b, newAgent(t, b))

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ResultLost, outcome.Result)
	require.NotNil(t, outcome.FatalCell)
	mine, err := b.IsMine(*outcome.FatalCell)
	require.NoError(t, err)
	assert.True(t, mine)
}

func TestRunExhaustsOnTurnCap(t *testing.T) {
	b := explicitBoard(t, 4, 4)
	s := New(b, newAgent(t, b), WithMaxTurns(1))

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ResultExhausted, outcome.Result)
	assert.Equal(t, 1, outcome.Turns)
}

func TestRunHonorsCancellation(t *testing.T) {
	b := explicitBoard(t, 8, 8)
	s := New(b, newAgent(t, b))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRecordsFactsInKernel(t *testing.T) {
	b := explicitBoard(t, 2, 2)
	k, err := kernel.New(kernel.DefaultConfig(), nil)
	require.NoError(t, err)

	a := newAgent(t, b, agent.WithRecorder(k))
	outcome, runErr := New(b, a, WithKernel(k)).Run(context.Background())
	require.NoError(t, runErr)
	require.Equal(t, ResultWon, outcome.Result)

	stats := k.Stats()
	assert.Equal(t, 1, stats["board_dim"])
	assert.Equal(t, outcome.Turns, stats["move_made"])
	assert.Equal(t, 4, stats["cell_safe"])
	assert.Empty(t, k.Conflicts())
}

func TestRunFailsOnKernelConflict(t *testing.T) {
	b := explicitBoard(t, 2, 2)
	k, err := kernel.New(kernel.DefaultConfig(), nil)
	require.NoError(t, err)

	// Poison the kernel with contradictory facts; the session must refuse to
	// report a clean outcome.
	k.RecordSafe(grid.Cell{Row: 0, Col: 0})
	k.RecordMine(grid.Cell{Row: 0, Col: 0})

	_, runErr := New(b, newAgent(t, b), WithKernel(k)).Run(context.Background())
	assert.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "conflict")
}

func TestSessionIDsAreUnique(t *testing.T) {
	b := explicitBoard(t, 2, 2)
	first := New(b, newAgent(t, b))
	second := New(b, newAgent(t, b))
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Len(t, first.ID(), 8)
}
