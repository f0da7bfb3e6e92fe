package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/bodul/starcross/internal/layout"
)

//go:embed data/stars.json
var defaultCatalog []byte

// Star is a catalog entry. Its name becomes a crossword answer and its
// meaning the clue.
type Star struct {
	Name          string `json:"name"`
	Constellation string `json:"constellation"`
	Meaning       string `json:"meaning,omitempty"`
}

// Catalog is the read-only list of stars puzzles are drawn from.
type Catalog struct {
	stars []Star
}

var errEmptyCatalog = errors.New("catalog has no stars")

// ParseCatalog decodes a JSON array of stars.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var stars []Star
	if err := json.NewDecoder(r).Decode(&stars); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(stars) == 0 {
		return nil, errEmptyCatalog
	}
	for i := range stars {
		stars[i].Name = strings.TrimSpace(stars[i].Name)
		stars[i].Meaning = strings.TrimSpace(stars[i].Meaning)
		if stars[i].Name == "" {
			return nil, fmt.Errorf("catalog entry %d: empty name", i)
		}
	}
	return &Catalog{stars: stars}, nil
}

// LoadCatalog reads the catalog at path, or the embedded one when path is
// empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(bytes.NewReader(defaultCatalog))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// Len returns the number of stars.
func (c *Catalog) Len() int { return len(c.stars) }

// Sample returns min(n, Len()) distinct stars in random order.
func (c *Catalog) Sample(n int, rng *rand.Rand) []Star {
	n = max(0, min(n, len(c.stars)))
	out := make([]Star, 0, n)
	for _, i := range rng.Perm(len(c.stars))[:n] {
		out = append(out, c.stars[i])
	}
	return out
}

// Candidates turns stars into layout candidates, using clues[name] when a
// star has no meaning of its own.
func Candidates(stars []Star, clues map[string]string) []layout.Candidate {
	out := make([]layout.Candidate, len(stars))
	for i, s := range stars {
		clue := s.Meaning
		if clue == "" {
			clue = clues[s.Name]
		}
		out[i] = layout.Candidate{Name: s.Name, Clue: clue}
	}
	return out
}
