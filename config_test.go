package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GCP_PROJECT_ID", "")
	t.Setenv("GCP_REGION", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, defaultSampleSize, cfg.SampleSize)
	assert.Equal(t, 20, cfg.Grid.Width)
	assert.Equal(t, 20, cfg.Grid.Height)
	assert.Empty(t, cfg.Gemini.Project)
	assert.Equal(t, 10, cfg.RateLimit.GeneratePerMinute)
	assert.Equal(t, 60, cfg.RateLimit.MovesPerSecond)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigEnvironmentFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GCP_PROJECT_ID", "stars-prod")
	t.Setenv("GCP_REGION", "us-central1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "stars-prod", cfg.Gemini.Project)
	assert.Equal(t, "us-central1", cfg.Gemini.Region)
}

func TestParseConfig(t *testing.T) {
	t.Setenv("STARCROSS_PROJECT", "from-env")
	t.Setenv("PORT", "9000")

	src := `
listen      = "127.0.0.1:7000"
sample_size = 8
seed        = 42

grid {
  width  = 15
  height = 11
}

gemini {
  project = env.STARCROSS_PROJECT
  model   = "gemini-2.5-pro"
}

rate_limit {
  submit_per_minute = 3
}

log {
  level  = "debug"
  format = "json"
}
`
	cfg, err := ParseConfig([]byte(src), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Listen, "file wins over PORT")
	assert.Equal(t, 8, cfg.SampleSize)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 15, cfg.Grid.Width)
	assert.Equal(t, 11, cfg.Grid.Height)
	assert.Equal(t, "from-env", cfg.Gemini.Project)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.RateLimit.SubmitPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.GeneratePerMinute, "unset limits keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"Syntax":         `listen = `,
		"UnknownField":   `colour = "blue"`,
		"NegativeWidth":  "grid {\n width = -3\n}",
		"BadLevel":       "log {\n level = \"loud\"\n}",
		"BadFormat":      "log {\n format = \"xml\"\n}",
		"MissingEnvVar":  `listen = env.STARCROSS_SURELY_UNSET_VARIABLE`,
		"NegativeSample": `sample_size = -1`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starcross.hcl")
	require.NoError(t, os.WriteFile(path, []byte("sample_size = 4\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.SampleSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := (&LogConfig{Level: "warn", Format: "json"}).NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
}
