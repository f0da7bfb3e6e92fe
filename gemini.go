package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const cluePrompt = `You write crossword clues about stars.

For each star name below, write one short clue (at most 12 words) that
hints at the star without containing its name or any part of it. Prefer
the meaning of the name, its constellation, or a notable fact.

Stars:
%s

Answer ONLY with a JSON object mapping each star name, exactly as given,
to its clue. No comments, no markdown.`

// ClueWriter supplies clues for stars whose catalog entry has none.
type ClueWriter interface {
	WriteClues(ctx context.Context, stars []Star) (map[string]string, error)
}

// WriteClues asks Gemini for one clue per star. Stars Gemini skips are
// absent from the returned map.
func (g *GeminiClient) WriteClues(ctx context.Context, stars []Star) (map[string]string, error) {
	if len(stars) == 0 {
		return map[string]string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var list strings.Builder
	for _, s := range stars {
		fmt.Fprintf(&list, "- %s (%s)\n", s.Name, s.Constellation)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(cluePrompt, list.String())}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.2)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	return parseClues(text, stars)
}

// parseClues decodes a name→clue object and keeps the entries for the
// requested stars that have a non-blank clue.
func parseClues(text string, stars []Star) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w\nraw response: %s", err, text)
	}

	clues := make(map[string]string, len(stars))
	for _, s := range stars {
		if clue := strings.TrimSpace(raw[s.Name]); clue != "" {
			clues[s.Name] = clue
		}
	}
	return clues, nil
}
