// Package layout places words on a crossword grid.
//
// Placement is greedy: the longest word is centred across the grid, then
// every other word, longest first, takes the first intersection that keeps
// the grid clean. Nothing is ever moved once written and words that find no
// spot are left out, so callers should expect fewer placed words than
// candidates.
package layout

import (
	"slices"
	"unicode/utf8"
)

const (
	DefaultWidth  = 20
	DefaultHeight = 20
)

// Candidate is a word offered for placement.
type Candidate struct {
	Name string
	Clue string
}

// Generator lays out puzzles on a fixed-size grid. The zero value uses the
// default 20×20 size.
type Generator struct {
	Width  int
	Height int
}

// NewGenerator returns a generator for width×height grids.
func NewGenerator(width, height int) *Generator {
	return &Generator{Width: width, Height: height}
}

type token struct {
	Candidate
	word string
	size int
}

// run holds the mutable state of a single Generate call.
type run struct {
	grid   *Grid
	placed []PlacedWord
}

// Generate places as many candidates as it can and returns the puzzle.
// Output depends only on the candidate order and the grid size.
func (g *Generator) Generate(candidates []Candidate) *Puzzle {
	width, height := g.Width, g.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}

	tokens := make([]token, 0, len(candidates))
	for _, c := range candidates {
		word := Sanitize(c.Name)
		if word == "" {
			continue
		}
		tokens = append(tokens, token{Candidate: c, word: word, size: utf8.RuneCountInString(word)})
	}
	slices.SortStableFunc(tokens, func(a, b token) int {
		return b.size - a.size
	})

	r := &run{grid: NewGrid(width, height)}
	if len(tokens) > 0 {
		first := tokens[0]
		r.commit(first, height/2, (width-first.size)/2, Across)
		for _, t := range tokens[1:] {
			r.attach(t)
		}
	}
	return assemble(r.grid, r.placed)
}

// attach tries every letter of t against every letter of every placed word,
// in that order, and keeps the first placement the grid accepts.
func (r *run) attach(t token) bool {
	letters := []rune(t.word)
	for i, ch := range letters {
		for _, p := range r.placed {
			for j, pch := range []rune(p.Word) {
				if ch != pch {
					continue
				}
				dir := p.Direction.Perpendicular()
				row, col := p.Row-i, p.Col+j
				if p.Direction == Down {
					row, col = p.Row+j, p.Col-i
				}
				if !r.grid.Fits(t.size, row, col, dir) {
					continue
				}
				if r.commit(t, row, col, dir) {
					return true
				}
			}
		}
	}
	return false
}

func (r *run) commit(t token, row, col int, dir Direction) bool {
	if !r.grid.Place(t.word, row, col, dir) {
		return false
	}
	r.placed = append(r.placed, PlacedWord{
		Word:         t.word,
		OriginalWord: t.Name,
		Clue:         t.Clue,
		Row:          row,
		Col:          col,
		Direction:    dir,
		Number:       len(r.placed) + 1,
	})
	return true
}
