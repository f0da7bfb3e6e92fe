package main

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameAddPlayer(t *testing.T) {
	game := NewStore().SaveGame(newTestPuzzle())

	p1 := game.AddPlayer("Alice")
	p2 := game.AddPlayer("Bob")

	assert.Equal(t, "Alice", p1.Pseudo)
	assert.Equal(t, "Bob", p2.Pseudo)
	assert.NotEqual(t, p1.Color, p2.Color, "players should have different colors")

	// Adding same pseudo returns existing player.
	assert.Same(t, p1, game.AddPlayer("Alice"))

	game.RemovePlayer("Alice")
	assert.NotContains(t, game.GetPlayers(), "Alice")
	assert.Contains(t, game.GetPlayers(), "Bob")
}

func TestGameSetCell(t *testing.T) {
	game := NewStore().SaveGame(newTestPuzzle())

	require.NoError(t, game.SetCell(1, 2, "A"))
	require.NoError(t, game.SetCell(2, 0, ""))

	assert.ErrorIs(t, game.SetCell(-1, 0, "X"), ErrOutOfBounds)
	assert.ErrorIs(t, game.SetCell(0, 4, "X"), ErrOutOfBounds)
	assert.ErrorIs(t, game.SetCell(3, 0, "X"), ErrOutOfBounds)
	assert.ErrorIs(t, game.SetCell(0, 0, "X"), ErrNotLetterCell)

	assert.Equal(t, "A", game.GetState()[1][2])
}

func TestGetStateCopy(t *testing.T) {
	game := NewStore().SaveGame(newTestPuzzle())
	require.NoError(t, game.SetCell(1, 0, "S"))

	state := game.GetState()
	state[1][0] = "Z" // mutate the copy

	assert.Equal(t, "S", game.GetState()[1][0], "GetState should return a copy, not a reference")
}

func TestSubmit(t *testing.T) {
	cases := []struct {
		name string
		grid [][]string
		want Result
	}{
		{
			name: "AllCorrect",
			grid: [][]string{{"", "", "", ""}, {"S", "T", "A", "R"}, {"O", "", "", ""}},
			want: Result{Score: 50, CorrectLetters: 5, TotalLetters: 5, Percentage: 100},
		},
		{
			name: "CaseInsensitive",
			grid: [][]string{{}, {"s", "t", "a", "r"}, {"o"}},
			want: Result{Score: 50, CorrectLetters: 5, TotalLetters: 5, Percentage: 100},
		},
		{
			name: "Partial",
			grid: [][]string{{"X", "X"}, {"S", "", "A", "Q"}},
			want: Result{Score: 20, CorrectLetters: 2, TotalLetters: 5, Percentage: 40},
		},
		{
			name: "Empty",
			grid: nil,
			want: Result{TotalLetters: 5},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			game := NewStore().SaveGame(newTestPuzzle())
			assert.Equal(t, tc.want, game.Submit(tc.grid))
			assert.True(t, game.Completed)
			assert.Equal(t, statusCompleted, game.Summary().Status)
			assert.Equal(t, tc.want.Score, game.Score)
		})
	}
}

func TestSubmitEmptyPuzzle(t *testing.T) {
	p := newTestPuzzle()
	p.Grid = [][]string{{"", ""}}
	game := NewStore().SaveGame(p)

	assert.Equal(t, Result{}, game.Submit([][]string{{"A", "B"}}))
}

func TestSetPlayerName(t *testing.T) {
	game := NewStore().SaveGame(newTestPuzzle())

	_, err := game.SetPlayerName("   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	name, err := game.SetPlayerName("  " + strings.Repeat("é", 30))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", maxPseudoLen), name)
	assert.Equal(t, name, game.PlayerName)
}

func TestGameConcurrentAccess(t *testing.T) {
	game := NewStore().SaveGame(newTestPuzzle())

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			game.SetCell(1, i%4, "A")
			game.GetState()
			game.AddPlayer("player" + string(rune('A'+i%26)))
			game.GetPlayers()
		}(i)
	}
	wg.Wait()
	assert.Len(t, game.GetPlayers(), 26)
}
