package main

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bodul/starcross/internal/layout"
)

const (
	statusActive    = "active"
	statusCompleted = "completed"

	pointsPerLetter = 10
	maxPseudoLen    = 20
)

var (
	ErrOutOfBounds   = errors.New("cell out of bounds")
	ErrNotLetterCell = errors.New("cell is not part of any word")
	ErrInvalidName   = errors.New("invalid player name")
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// Result is the outcome of checking a submitted grid.
type Result struct {
	Score          int `json:"score"`
	CorrectLetters int `json:"correct_letters"`
	TotalLetters   int `json:"total_letters"`
	Percentage     int `json:"percentage"`
}

// GameSession is a saved puzzle and the play happening on it.
type GameSession struct {
	ID          string             `json:"id"`
	Puzzle      *layout.Puzzle     `json:"-"`
	Players     map[string]*Player `json:"players"`
	State       [][]string         `json:"state"` // current letters [row][col]
	Status      string             `json:"status"`
	Score       int                `json:"score"`
	PlayerName  string             `json:"player_name,omitempty"`
	Completed   bool               `json:"completed"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt time.Time          `json:"completed_at,omitzero"`
	mu          sync.Mutex
}

// GameSummary is the listing view of a game.
type GameSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// LeaderboardEntry is one ranked, named, completed game.
type LeaderboardEntry struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// playerColors is the palette assigned to players in order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// AddPlayer adds a player to the session and returns the player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.Players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.Players[pseudo] = p
	return p
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, pseudo)
}

// SetCell writes a letter into the shared play state. Only cells that hold
// a letter of the solution can be written.
func (g *GameSession) SetCell(row, col int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if row < 0 || row >= len(g.State) || col < 0 || col >= len(g.State[row]) {
		return ErrOutOfBounds
	}
	if g.Puzzle.Grid[row][col] == "" {
		return ErrNotLetterCell
	}
	g.State[row][col] = value
	return nil
}

// GetState returns a copy of the current game state.
func (g *GameSession) GetState() [][]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyGrid(g.State)
}

// GetPlayers returns a copy of the connected players.
func (g *GameSession) GetPlayers() map[string]Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]Player, len(g.Players))
	for k, p := range g.Players {
		out[k] = *p
	}
	return out
}

// Submit scores a player's grid against the solution and completes the
// game. Every letter cell of the solution is worth pointsPerLetter when the
// submitted grid has the same letter there, ignoring case. Missing rows or
// columns in the submission count as wrong.
func (g *GameSession) Submit(submitted [][]string) Result {
	var res Result
	for r, row := range g.Puzzle.Grid {
		for c, want := range row {
			if want == "" {
				continue
			}
			res.TotalLetters++
			if r < len(submitted) && c < len(submitted[r]) && submitted[r][c] != "" &&
				strings.EqualFold(submitted[r][c], want) {
				res.CorrectLetters++
			}
		}
	}
	res.Score = res.CorrectLetters * pointsPerLetter
	if res.TotalLetters > 0 {
		res.Percentage = res.CorrectLetters * 100 / res.TotalLetters
	}

	g.mu.Lock()
	g.Score = res.Score
	g.Completed = true
	g.Status = statusCompleted
	g.CompletedAt = time.Now()
	g.mu.Unlock()

	return res
}

// SetPlayerName attaches a display name for the leaderboard.
func (g *GameSession) SetPlayerName(name string) (string, error) {
	name = sanitizePseudo(name)
	if name == "" {
		return "", ErrInvalidName
	}
	g.mu.Lock()
	g.PlayerName = name
	g.mu.Unlock()
	return name, nil
}

// Summary returns the listing view of the game.
func (g *GameSession) Summary() GameSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GameSummary{ID: g.ID, CreatedAt: g.CreatedAt, Status: g.Status}
}

func (g *GameSession) leaderboardEntry() (LeaderboardEntry, time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Completed || g.PlayerName == "" {
		return LeaderboardEntry{}, time.Time{}, false
	}
	return LeaderboardEntry{
		ID:         g.ID,
		PlayerName: g.PlayerName,
		Score:      g.Score,
		CreatedAt:  g.CreatedAt,
	}, g.CompletedAt, true
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxPseudoLen {
		s = strings.TrimSpace(string([]rune(s)[:maxPseudoLen]))
	}
	return s
}
