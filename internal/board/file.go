package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/omarmohamed101/Minesweeper/internal/grid"
)

// File is the YAML description of a board. Mines may be placed explicitly
// (mines: list of [row, col] pairs) or generated (mine_count plus seed);
// explicit placement wins when both are present.
type File struct {
	Height    int      `yaml:"height"`
	Width     int      `yaml:"width"`
	Mines     [][2]int `yaml:"mines,omitempty"`
	MineCount int      `yaml:"mine_count,omitempty"`
	Seed      int64    `yaml:"seed,omitempty"`
}

// Load parses a YAML board description.
func Load(data []byte) (*Board, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse board file: %w", err)
	}
	return f.Board()
}

// LoadFile reads and parses a YAML board file.
func LoadFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board file %s: %w", path, err)
	}
	b, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("board file %s: %w", path, err)
	}
	return b, nil
}

// Board materializes the description.
func (f *File) Board() (*Board, error) {
	if len(f.Mines) > 0 {
		mines := grid.NewSet()
		for _, m := range f.Mines {
			c := grid.Cell{Row: m[0], Col: m[1]}
			if !mines.Add(c) {
				return nil, fmt.Errorf("duplicate mine at %v", c)
			}
		}
		return newExplicit(f.Height, f.Width, mines)
	}
	return New(f.Height, f.Width, f.MineCount, f.Seed)
}

// Save writes the board back out as YAML with explicit mine placement, so a
// generated board can be replayed exactly.
func Save(path string, b *Board) error {
	f := File{Height: b.height, Width: b.width}
	for _, c := range b.mines.Sorted() {
		f.Mines = append(f.Mines, [2]int{c.Row, c.Col})
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write board file %s: %w", path, err)
	}
	return nil
}
