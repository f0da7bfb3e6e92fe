package main

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bodul/starcross/internal/layout"
)

//go:embed frontend
var frontendFS embed.FS

const maxBodySize = 1 << 20 // 1 Mo

// clientIP strips the port from the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Server is the main HTTP server.
type Server struct {
	mux        *http.ServeMux
	store      *Store
	catalog    *Catalog
	clues      ClueWriter
	generator  *layout.Generator
	sampleSize int
	sse        *Broadcaster
	generateRL *rateLimiter
	submitRL   *rateLimiter
	moveRL     *rateLimiter

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer creates a configured HTTP server. clues may be nil, in which
// case stars without a meaning get an empty clue.
func NewServer(cfg *Config, store *Store, catalog *Catalog, clues ClueWriter) *Server {
	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Server{
		mux:        http.NewServeMux(),
		store:      store,
		catalog:    catalog,
		clues:      clues,
		generator:  layout.NewGenerator(cfg.Grid.Width, cfg.Grid.Height),
		sampleSize: cfg.SampleSize,
		sse:        NewBroadcaster(),
		generateRL: newRateLimiter(cfg.RateLimit.GeneratePerMinute, time.Minute),
		submitRL:   newRateLimiter(cfg.RateLimit.SubmitPerMinute, time.Minute),
		moveRL:     newRateLimiter(cfg.RateLimit.MovesPerSecond, time.Second),
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("GET /api/generate", s.handleGenerate)
	s.mux.HandleFunc("POST /api/save", s.handleSave)
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/load/{id}", s.handleLoadGame)

	// Play API
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/move", s.handleMove)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)
	s.mux.HandleFunc("POST /api/games/{id}/submit", s.handleSubmit)
	s.mux.HandleFunc("POST /api/games/{id}/save_name", s.handleSaveName)

	// Leaderboard API
	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("GET /api/leaderboard/events", s.handleLeaderboardEvents)

	// Frontend static files
	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	fileServer := http.FileServer(http.FS(frontendDir))
	s.mux.HandleFunc("GET /game/{id}", s.handleGamePage)
	s.mux.Handle("GET /", fileServer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Puzzle handlers ---

// GET /api/generate — draw stars from the catalog and lay out a puzzle.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(clientIP(r)) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}
	if s.catalog == nil || s.catalog.Len() == 0 {
		jsonError(w, "Aucune étoile dans le catalogue", http.StatusNotFound)
		return
	}

	s.rngMu.Lock()
	stars := s.catalog.Sample(s.sampleSize, s.rng)
	s.rngMu.Unlock()

	puzzle := s.generator.Generate(Candidates(stars, s.writeMissingClues(r, stars)))
	slog.Info("Grille générée", "candidates", len(stars), "placed", len(puzzle.Words))

	writeJSON(w, http.StatusOK, puzzle)
}

// writeMissingClues asks the clue writer for the stars without a meaning.
// Failures only cost the clues; the puzzle is still generated.
func (s *Server) writeMissingClues(r *http.Request, stars []Star) map[string]string {
	if s.clues == nil {
		return nil
	}
	var missing []Star
	for _, st := range stars {
		if st.Meaning == "" {
			missing = append(missing, st)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	clues, err := s.clues.WriteClues(r.Context(), missing)
	if err != nil {
		slog.Warn("Rédaction des définitions impossible", "stars", len(missing), "error", err)
		return nil
	}
	return clues
}

// POST /api/save — store a generated puzzle as a new game.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grid  [][]string          `json:"grid"`
		Words []layout.PlacedWord `json:"words"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	width, height, err := validateGrid(req.Grid)
	if err != nil {
		jsonError(w, "Grille invalide : "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Words == nil {
		req.Words = []layout.PlacedWord{}
	}

	game := s.store.SaveGame(&layout.Puzzle{
		Grid:   req.Grid,
		Words:  req.Words,
		Width:  width,
		Height: height,
	})
	slog.Info("Partie enregistrée", "game", game.ID, "words", len(req.Words))

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      game.ID,
		"message": "Partie enregistrée",
	})
}

// GET /api/games — list all games.
func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListGames())
}

// GET /api/load/{id} — get a saved puzzle.
func (s *Server) handleLoadGame(w http.ResponseWriter, r *http.Request) {
	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     game.ID,
		"grid":   game.Puzzle.Grid,
		"words":  game.Puzzle.Words,
		"width":  game.Puzzle.Width,
		"height": game.Puzzle.Height,
	})
}

// --- Play handlers ---

// POST /api/games/{id}/join — join a game with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pseudo == "" {
		jsonError(w, "Champ 'pseudo' requis", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "Pseudo invalide", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)

	s.sse.Publish(GameTopic(game.ID), map[string]any{
		"type":   "player_joined",
		"pseudo": player.Pseudo,
		"color":  player.Color,
	})

	writeJSON(w, http.StatusOK, player)
}

// POST /api/games/{id}/move — place a letter.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(clientIP(r)) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
		Row    int    `json:"row"`
		Col    int    `json:"col"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	// Value must be empty (erase) or a single letter or digit.
	value := strings.ToUpper(strings.TrimSpace(req.Value))
	if value != "" && !isCellValue(value) {
		jsonError(w, "Valeur invalide : une lettre, un chiffre ou vide", http.StatusBadRequest)
		return
	}

	switch err := game.SetCell(req.Row, req.Col, value); {
	case errors.Is(err, ErrOutOfBounds):
		jsonError(w, "Position hors limites", http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotLetterCell):
		jsonError(w, "Case hors des mots", http.StatusBadRequest)
		return
	}

	s.sse.Publish(GameTopic(game.ID), map[string]any{
		"type":   "cell_update",
		"row":    req.Row,
		"col":    req.Col,
		"value":  value,
		"pseudo": sanitizePseudo(req.Pseudo),
	})

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/games/{id}/events — SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, GameTopic(game.ID), func() any {
		return map[string]any{
			"type":    "game_state",
			"state":   game.GetState(),
			"players": game.GetPlayers(),
		}
	}, func() {
		// On disconnect: broadcast player_left if pseudo was provided.
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.sse.Publish(GameTopic(game.ID), map[string]string{
				"type":   "player_left",
				"pseudo": playerPseudo,
			})
		}
	})
}

// POST /api/games/{id}/submit — score a filled grid and complete the game.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.submitRL.allow(clientIP(r)) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	var req struct {
		UserGrid [][]string `json:"user_grid"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserGrid == nil {
		jsonError(w, "Champ 'user_grid' requis", http.StatusBadRequest)
		return
	}

	res := game.Submit(req.UserGrid)
	slog.Info("Grille soumise", "game", game.ID, "score", res.Score, "correct", res.CorrectLetters, "total", res.TotalLetters)

	s.sse.Publish(GameTopic(game.ID), map[string]any{
		"type":   "game_completed",
		"result": res,
	})
	// A game named before this submission is ranked with its new score.
	if _, _, ranked := game.leaderboardEntry(); ranked {
		s.sse.PublishLeaderboard(s.store.Leaderboard(defaultLeaderboardSize))
	}

	writeJSON(w, http.StatusOK, res)
}

// POST /api/games/{id}/save_name — attach a player name for the leaderboard.
func (s *Server) handleSaveName(w http.ResponseWriter, r *http.Request) {
	game, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerName string `json:"player_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Champ 'player_name' requis", http.StatusBadRequest)
		return
	}
	if _, err := game.SetPlayerName(req.PlayerName); err != nil {
		jsonError(w, "Nom invalide", http.StatusBadRequest)
		return
	}

	s.sse.PublishLeaderboard(s.store.Leaderboard(defaultLeaderboardSize))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Nom enregistré"})
}

// --- Leaderboard handlers ---

// GET /api/leaderboard — best named, completed games.
func (s *Server) handleLeaderboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Leaderboard(defaultLeaderboardSize))
}

// GET /api/leaderboard/events — SSE stream of leaderboard changes.
func (s *Server) handleLeaderboardEvents(w http.ResponseWriter, r *http.Request) {
	s.sse.ServeSSE(w, r, LeaderboardTopic, func() any {
		return leaderboardEvent(s.store.Leaderboard(defaultLeaderboardSize))
	}, nil)
}

// --- Frontend page handlers ---

// GET /game/{id} — serve the game page.
func (s *Server) handleGamePage(w http.ResponseWriter, _ *http.Request) {
	data, _ := frontendFS.ReadFile("frontend/game.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// --- Helpers ---

func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*GameSession, bool) {
	game, err := s.store.GetGame(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return nil, false
	}
	return game, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
