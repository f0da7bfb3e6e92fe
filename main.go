package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"

	"github.com/bodul/starcross/internal/layout"
)

func main() {
	// Minimal logger until the configured one is ready.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Arrêt du serveur", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("starcross", flag.ContinueOnError)
	flags.SetOutput(stdout)
	configPath := flags.String("config", "", "Path to the HCL configuration file.")
	printOnly := flags.Bool("print", false, "Generate one puzzle, print it and exit.")
	seed := flags.Int64("seed", 0, "Seed for star sampling. 0 picks a time-based seed.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	catalog, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	slog.Info("Catalogue chargé", "stars", catalog.Len(), "path", cfg.Catalog)

	if *printOnly {
		return printPuzzle(cfg, catalog, stdout)
	}

	clues, err := newClueWriter(ctx, *cfg.Gemini)
	if err != nil {
		return err
	}

	srv := NewServer(cfg, NewStore(), catalog, clues)

	slog.Info("Serveur démarré", "addr", cfg.Listen, "grid", fmt.Sprintf("%dx%d", cfg.Grid.Width, cfg.Grid.Height))
	return http.ListenAndServe(cfg.Listen, srv)
}

// printPuzzle renders a single puzzle drawn from the catalog.
func printPuzzle(cfg *Config, catalog *Catalog, w io.Writer) error {
	seed := uint64(cfg.Seed)
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	if seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	stars := catalog.Sample(cfg.SampleSize, rng)
	puzzle := layout.NewGenerator(cfg.Grid.Width, cfg.Grid.Height).Generate(Candidates(stars, nil))
	slog.Debug("Grille générée", "candidates", len(stars), "placed", len(puzzle.Words))
	return puzzle.Render(w)
}
