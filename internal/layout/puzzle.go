package layout

import (
	"fmt"
	"io"
	"strings"
)

// PlacedWord records where a word ended up. Number is the placement order,
// starting at 1 for the anchor word.
type PlacedWord struct {
	Word         string    `json:"word"`
	OriginalWord string    `json:"original_word"`
	Clue         string    `json:"clue"`
	Row          int       `json:"row"`
	Col          int       `json:"col"`
	Direction    Direction `json:"direction"`
	Number       int       `json:"number"`
}

// Puzzle is a generated crossword: the solution grid (row-major, "" for
// empty cells) and the words written into it.
type Puzzle struct {
	Grid   [][]string   `json:"grid"`
	Words  []PlacedWord `json:"words"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

func assemble(g *Grid, placed []PlacedWord) *Puzzle {
	words := placed
	if words == nil {
		words = []PlacedWord{}
	}
	return &Puzzle{
		Grid:   g.Rows(),
		Words:  words,
		Width:  g.Width(),
		Height: g.Height(),
	}
}

// Render writes the grid as text, one row per line with '.' for empty
// cells, followed by the clues grouped by direction.
func (p *Puzzle) Render(w io.Writer) error {
	var b strings.Builder
	for _, row := range p.Grid {
		for c, cell := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if cell == "" {
				cell = "."
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}

	for _, dir := range []Direction{Across, Down} {
		header := false
		for _, pw := range p.Words {
			if pw.Direction != dir {
				continue
			}
			if !header {
				fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(string(dir)))
				header = true
			}
			fmt.Fprintf(&b, "%3d. %s (%d) [%d,%d]\n", pw.Number, pw.Clue, len([]rune(pw.Word)), pw.Row, pw.Col)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
