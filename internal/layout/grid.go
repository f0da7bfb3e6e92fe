package layout

import "fmt"

// Direction is the orientation of a placed word.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// step returns the row/col increment for one letter along d.
func (d Direction) step() (dr, dc int) {
	switch d {
	case Across:
		return 0, 1
	case Down:
		return 1, 0
	}
	panic(fmt.Sprintf("layout: invalid direction %q", string(d)))
}

// Perpendicular returns the other direction.
func (d Direction) Perpendicular() Direction {
	switch d {
	case Across:
		return Down
	case Down:
		return Across
	}
	panic(fmt.Sprintf("layout: invalid direction %q", string(d)))
}

// Cell is a single grid square. The zero value is an empty cell.
type Cell rune

// Empty is the marker for a cell no word has written to.
const Empty Cell = 0

// String returns the cell's letter, or "" when empty.
func (c Cell) String() string {
	if c == Empty {
		return ""
	}
	return string(rune(c))
}

// Grid is a fixed-size board of cells. All writes go through Place, which
// keeps the collision and adjacency rules intact.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// NewGrid returns an empty width×height grid. Both dimensions must be
// positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("layout: invalid grid size %dx%d", width, height))
	}
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return &Grid{width: width, height: height, cells: cells}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// CellAt returns the cell at (row, col). Out-of-range coordinates panic.
func (g *Grid) CellAt(row, col int) Cell {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("layout: cell (%d,%d) outside %dx%d grid", row, col, g.width, g.height))
	}
	return g.cells[row][col]
}

// Fits reports whether a word of length n starting at (row, col) lies
// entirely inside the grid along dir.
func (g *Grid) Fits(n, row, col int, dir Direction) bool {
	dr, dc := dir.step()
	if n <= 0 {
		return false
	}
	return g.InBounds(row, col) && g.InBounds(row+dr*(n-1), col+dc*(n-1))
}

// CanPlace reports whether token can be written at (row, col) along dir.
// Every letter must land inside the grid on an empty cell or on the same
// letter. Cells the word would newly fill must have empty neighbours on
// both perpendicular sides, and the cells just before and after the word
// must be empty or off-grid. The grid is not modified.
func (g *Grid) CanPlace(token string, row, col int, dir Direction) bool {
	letters := []rune(token)
	if !g.Fits(len(letters), row, col, dir) {
		return false
	}
	dr, dc := dir.step()

	for i, ch := range letters {
		r, c := row+dr*i, col+dc*i
		cur := g.cells[r][c]
		if cur != Empty && cur != Cell(ch) {
			return false
		}
		if cur == Empty {
			// Neighbours across the word's axis: (dc, dr) is the perpendicular step.
			if g.occupied(r-dc, c-dr) || g.occupied(r+dc, c+dr) {
				return false
			}
		}
	}

	if g.occupied(row-dr, col-dc) {
		return false
	}
	n := len(letters)
	return !g.occupied(row+dr*n, col+dc*n)
}

// Place writes token at (row, col) along dir when CanPlace allows it and
// reports whether the write happened.
func (g *Grid) Place(token string, row, col int, dir Direction) bool {
	if !g.CanPlace(token, row, col, dir) {
		return false
	}
	dr, dc := dir.step()
	for i, ch := range []rune(token) {
		g.cells[row+dr*i][col+dc*i] = Cell(ch)
	}
	return true
}

// Rows returns a row-major copy of the grid, "" marking empty cells.
func (g *Grid) Rows() [][]string {
	out := make([][]string, g.height)
	for r, row := range g.cells {
		out[r] = make([]string, g.width)
		for c, cell := range row {
			out[r][c] = cell.String()
		}
	}
	return out
}

// occupied is an off-grid tolerant emptiness probe.
func (g *Grid) occupied(row, col int) bool {
	return g.InBounds(row, col) && g.cells[row][col] != Empty
}
