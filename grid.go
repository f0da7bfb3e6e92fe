package main

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// validateGrid checks that a submitted solution grid is a non-empty
// rectangle of empty or single-character cells.
func validateGrid(grid [][]string) (width, height int, err error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return 0, 0, errors.New("grille vide")
	}
	width = len(grid[0])
	for r, row := range grid {
		if len(row) != width {
			return 0, 0, fmt.Errorf("ligne %d : %d cases au lieu de %d", r, len(row), width)
		}
		for c, cell := range row {
			if cell != "" && !isCellValue(cell) {
				return 0, 0, fmt.Errorf("case (%d,%d) invalide", r, c)
			}
		}
	}
	return width, len(grid), nil
}

// isCellValue reports whether v is a single letter or number, the runes
// layout.Sanitize keeps.
func isCellValue(v string) bool {
	if utf8.RuneCountInString(v) != 1 {
		return false
	}
	ch, _ := utf8.DecodeRuneInString(v)
	return unicode.IsLetter(ch) || unicode.IsNumber(ch)
}

func copyGrid(grid [][]string) [][]string {
	cp := make([][]string, len(grid))
	for i, row := range grid {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return cp
}
