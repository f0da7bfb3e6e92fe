package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCatGrid returns a 7×5 grid with CAT written across at (2,1).
func newCatGrid(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(7, 5)
	require.True(t, g.Place("CAT", 2, 1, Across))
	return g
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alpha Centauri", "ALPHACENTAURI"},
		{"R. Leonis", "RLEONIS"},
		{"Gliese 581", "GLIESE581"},
		{"  - . - ", ""},
		{"", ""},
		{"épsilon", "ÉPSILON"},
		{"Louis XIV ²", "LOUISXIV²"},
		{"Ⅻ-½", "Ⅻ½"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := Sanitize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Sanitize(got), "sanitizing a token must not change it")
		})
	}
}

func TestCanPlace(t *testing.T) {
	g := newCatGrid(t)

	cases := []struct {
		name     string
		token    string
		row, col int
		dir      Direction
		want     bool
	}{
		{"OutOfBoundsAcross", "CAT", 2, 5, Across, false},
		{"OutOfBoundsDown", "ABCD", 3, 0, Down, false},
		{"NegativeStart", "AB", -1, 0, Down, false},
		{"Collision", "DOG", 2, 0, Across, false},
		{"CollinearTouch", "XY", 2, 4, Across, false},
		{"CollinearTouchAfter", "X", 2, 0, Across, false},
		{"ParallelNeighbour", "DOG", 1, 1, Across, false},
		{"EndCellAbove", "XY", 3, 2, Down, false},
		{"Intersection", "BAD", 1, 2, Down, true},
		{"Detached", "XY", 0, 5, Across, true},
		{"EmptyToken", "", 0, 0, Across, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.CanPlace(tc.token, tc.row, tc.col, tc.dir))
		})
	}
}

func TestPlaceWritesOnlyWhenValid(t *testing.T) {
	g := newCatGrid(t)
	before := g.Rows()

	require.False(t, g.Place("DOG", 1, 1, Across))
	require.Equal(t, before, g.Rows(), "rejected placement must not touch the grid")

	require.True(t, g.Place("BAD", 1, 2, Down))
	assert.Equal(t, Cell('B'), g.CellAt(1, 2))
	assert.Equal(t, Cell('A'), g.CellAt(2, 2))
	assert.Equal(t, Cell('D'), g.CellAt(3, 2))
	assert.Equal(t, Empty, g.CellAt(0, 2))
}

func TestCellAtOutOfRangePanics(t *testing.T) {
	g := NewGrid(3, 2)
	assert.Panics(t, func() { g.CellAt(-1, 0) })
	assert.Panics(t, func() { g.CellAt(0, 3) })
	assert.Panics(t, func() { g.CellAt(2, 0) })
	assert.NotPanics(t, func() { g.CellAt(1, 2) })
}

func TestInvalidDirectionPanics(t *testing.T) {
	g := NewGrid(5, 5)
	assert.Panics(t, func() { g.CanPlace("AB", 0, 0, Direction("diagonal")) })
	assert.Panics(t, func() { g.Place("AB", 0, 0, Direction("")) })
}

func TestNewGridRejectsBadSize(t *testing.T) {
	assert.Panics(t, func() { NewGrid(0, 5) })
	assert.Panics(t, func() { NewGrid(5, -1) })
}

func TestRowsIsACopy(t *testing.T) {
	g := newCatGrid(t)
	rows := g.Rows()
	require.Len(t, rows, 5)
	require.Len(t, rows[0], 7)
	assert.Equal(t, "C", rows[2][1])
	assert.Equal(t, "", rows[0][0])

	rows[2][1] = "Z"
	assert.Equal(t, Cell('C'), g.CellAt(2, 1))
}
