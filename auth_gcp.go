package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"

	// clueTimeout bounds one clue request so a slow model never holds up
	// puzzle generation for long.
	clueTimeout = 20 * time.Second
)

// GeminiClient writes clues through Gemini on Vertex AI.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient creates a client using Application Default Credentials
// (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("gemini: project required")
	}
	region := cmp.Or(cfg.Region, defaultRegion)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client for %s/%s: %w", cfg.Project, region, err)
	}

	return &GeminiClient{
		client:    client,
		modelName: cmp.Or(cfg.Model, defaultModel),
		timeout:   clueTimeout,
	}, nil
}

// newClueWriter returns the clue writer the configuration asks for, or nil
// when no Gemini project is set; the server then leaves those clues empty.
func newClueWriter(ctx context.Context, cfg GeminiConfig) (ClueWriter, error) {
	if cfg.Project == "" {
		slog.Info("GCP_PROJECT_ID non défini, rédaction des définitions désactivée")
		return nil, nil
	}
	g, err := NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("impossible d'initialiser Gemini : %w", err)
	}
	slog.Info("Client Gemini initialisé", "project", cfg.Project, "model", g.modelName)
	return g, nil
}
