package layout

import (
	"strings"
	"unicode"
)

// Sanitize reduces a display name to its placeable token: the letters and
// numbers of raw (superscripts, fractions and numerals included), in order,
// uppercased. Everything else is dropped.
func Sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, raw)
}
