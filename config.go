package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/bodul/starcross/internal/layout"
)

const (
	defaultPort       = "8080"
	defaultSampleSize = 15
)

// Config is the server configuration, read from an optional HCL file.
// Settings left out of the file fall back to the environment (PORT,
// GCP_PROJECT_ID, GCP_REGION) and then to built-in defaults.
type Config struct {
	Listen     string           `hcl:"listen,optional"`
	SampleSize int              `hcl:"sample_size,optional"`
	Catalog    string           `hcl:"catalog,optional"`
	Seed       int64            `hcl:"seed,optional"`
	Grid       *GridConfig      `hcl:"grid,block"`
	Gemini     *GeminiConfig    `hcl:"gemini,block"`
	RateLimit  *RateLimitConfig `hcl:"rate_limit,block"`
	Log        *LogConfig       `hcl:"log,block"`
}

// GridConfig sizes the generated puzzles. Zero means the engine default.
type GridConfig struct {
	Width  int `hcl:"width,optional"`
	Height int `hcl:"height,optional"`
}

// GeminiConfig selects the Vertex AI project used to write missing clues.
// An empty project disables clue writing.
type GeminiConfig struct {
	Project string `hcl:"project,optional"`
	Region  string `hcl:"region,optional"`
	Model   string `hcl:"model,optional"`
}

// RateLimitConfig caps requests per client IP on the costly routes.
type RateLimitConfig struct {
	GeneratePerMinute int `hcl:"generate_per_minute,optional"`
	SubmitPerMinute   int `hcl:"submit_per_minute,optional"`
	MovesPerSecond    int `hcl:"moves_per_second,optional"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// LoadConfig reads the HCL file at path. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{}
		return cfg, cfg.finish()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(src, path)
}

// ParseConfig decodes HCL source. Expressions can read the process
// environment through the env object, e.g. project = env.GCP_PROJECT_ID.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, envContext(), &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return &cfg, nil
}

// envContext exposes environment variables whose names are valid HCL
// identifiers as attributes of env.
func envContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

// finish fills unset fields and validates the result.
func (c *Config) finish() error {
	if c.Listen == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = defaultPort
		}
		c.Listen = ":" + port
	}
	if c.SampleSize == 0 {
		c.SampleSize = defaultSampleSize
	}

	if c.Grid == nil {
		c.Grid = &GridConfig{}
	}
	if c.Grid.Width == 0 {
		c.Grid.Width = layout.DefaultWidth
	}
	if c.Grid.Height == 0 {
		c.Grid.Height = layout.DefaultHeight
	}

	if c.Gemini == nil {
		c.Gemini = &GeminiConfig{}
	}
	if c.Gemini.Project == "" {
		c.Gemini.Project = os.Getenv("GCP_PROJECT_ID")
	}
	if c.Gemini.Region == "" {
		c.Gemini.Region = os.Getenv("GCP_REGION")
	}

	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{}
	}
	if c.RateLimit.GeneratePerMinute == 0 {
		c.RateLimit.GeneratePerMinute = 10
	}
	if c.RateLimit.SubmitPerMinute == 0 {
		c.RateLimit.SubmitPerMinute = 10
	}
	if c.RateLimit.MovesPerSecond == 0 {
		c.RateLimit.MovesPerSecond = 60
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	switch {
	case c.Grid.Width < 0 || c.Grid.Height < 0:
		return fmt.Errorf("invalid grid size %dx%d", c.Grid.Width, c.Grid.Height)
	case c.SampleSize < 0:
		return fmt.Errorf("invalid sample_size %d", c.SampleSize)
	case c.RateLimit.GeneratePerMinute < 0 || c.RateLimit.SubmitPerMinute < 0 || c.RateLimit.MovesPerSecond < 0:
		return fmt.Errorf("rate limits must be positive")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("invalid log format %q: expected 'text' or 'json'", c.Log.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: expected debug, info, warn or error", s)
}

// NewLogger builds the slog logger described by the log block.
func (c *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
