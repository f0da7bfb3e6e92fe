package main

import (
	"cmp"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/bodul/starcross/internal/layout"
)

const defaultLeaderboardSize = 10

var ErrGameNotFound = errors.New("game not found")

// Store holds all saved games in memory.
type Store struct {
	mu    sync.RWMutex
	games map[string]*GameSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		games: make(map[string]*GameSession),
	}
}

// SaveGame stores a puzzle as a new active game and returns it.
func (s *Store) SaveGame(p *layout.Puzzle) *GameSession {
	// Initialize empty state matching grid dimensions.
	state := make([][]string, len(p.Grid))
	for i, row := range p.Grid {
		state[i] = make([]string, len(row))
	}

	game := &GameSession{
		ID:        generateID(),
		Puzzle:    p,
		Players:   make(map[string]*Player),
		State:     state,
		Status:    statusActive,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	return game
}

// GetGame returns a game session by ID.
func (s *Store) GetGame(id string) (*GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// ListGames returns a summary of every game, most recent first.
func (s *Store) ListGames() []GameSummary {
	s.mu.RLock()
	list := make([]GameSummary, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, g.Summary())
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b GameSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

// Leaderboard returns the best completed, named games: highest score
// first, earlier completion winning ties. limit <= 0 selects the default
// size.
func (s *Store) Leaderboard(limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	type ranked struct {
		entry LeaderboardEntry
		at    time.Time
	}
	s.mu.RLock()
	var all []ranked
	for _, g := range s.games {
		if e, at, ok := g.leaderboardEntry(); ok {
			all = append(all, ranked{e, at})
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b ranked) int {
		if c := cmp.Compare(b.entry.Score, a.entry.Score); c != 0 {
			return c
		}
		return a.at.Compare(b.at)
	})

	out := make([]LeaderboardEntry, 0, min(limit, len(all)))
	for _, r := range all[:min(limit, len(all))] {
		out = append(out, r.entry)
	}
	return out
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
