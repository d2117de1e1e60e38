package board

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
)

// View pairs a board with what the player has learned about it, for the
// diagnostic text dump. Nil sets are treated as empty.
type View struct {
	Board    *Board
	Revealed *grid.Set // cells the player has opened
	Flagged  *grid.Set // cells the player has flagged as mines
	ShowAll  bool      // reveal everything, flags and player state aside
	Color    bool      // style markers with lipgloss
}

var (
	mineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	flagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	coverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render draws the board one row per line. Markers: X mine, F flag, digits
// for revealed neighbor counts, "." for covered cells.
func (v View) Render() string {
	revealed := v.Revealed
	if revealed == nil {
		revealed = grid.NewSet()
	}
	flagged := v.Flagged
	if flagged == nil {
		flagged = grid.NewSet()
	}

	var sb strings.Builder
	for row := 0; row < v.Board.Height(); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < v.Board.Width(); col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			c := grid.Cell{Row: row, Col: col}
			sb.WriteString(v.marker(c, revealed, flagged))
		}
	}
	return sb.String()
}

func (v View) marker(c grid.Cell, revealed, flagged *grid.Set) string {
	isMine := v.Board.mines.Has(c)
	switch {
	case v.ShowAll && isMine:
		return v.style(mineStyle, "X")
	case flagged.Has(c):
		return v.style(flagStyle, "F")
	case revealed.Has(c) && isMine:
		return v.style(mineStyle, "X")
	case revealed.Has(c) || v.ShowAll:
		n, err := v.Board.NearbyMines(c)
		if err != nil {
			return "?"
		}
		return v.style(numberStyle, strconv.Itoa(n))
	default:
		return v.style(coverStyle, ".")
	}
}

func (v View) style(s lipgloss.Style, marker string) string {
	if !v.Color {
		return marker
	}
	return s.Render(marker)
}
