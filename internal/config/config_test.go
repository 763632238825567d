package config_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekmate/internal/config"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var allKeys = []string{
	"PORT", "GROQ_API_KEY", "GROQ_MODEL", "GROQ_BASE_URL", "GEOCODING_URL", "FORECAST_URL",
	"DATABASE_URL", "MIGRATIONS_DIR", "REDIS_URL", "UPSTREAM_RPS", "UPSTREAM_BURST", "LOG_LEVEL",
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
	assert.Equal(t, "https://api.groq.com/openai/v1/", cfg.GroqBaseURL)
	assert.Equal(t, "https://geocoding-api.open-meteo.com/v1/search", cfg.GeocodingURL)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.ForecastURL)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, 5.0, cfg.UpstreamRPS)
	assert.Equal(t, 5, cfg.UpstreamBurst)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestParse_EnvOverrides(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("UPSTREAM_RPS", "1.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 1.5, cfg.UpstreamRPS)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParse_FlagsWinOverEnv(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PORT", "9000")

	cfg, err := config.Parse([]string{"--port=7070"})
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestParse_MissingAPIKey(t *testing.T) {
	clearEnv(t, allKeys...)

	_, err := config.Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq-api-key")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := config.Parse(nil)
	require.Error(t, err)
}

func TestPlanOptions(t *testing.T) {
	cfg := config.Config{GroqAPIKey: "k", GroqModel: "m", GroqBaseURL: "http://localhost/v1/"}
	opts := cfg.PlanOptions()
	assert.Equal(t, "k", opts.APIKey)
	assert.Equal(t, "m", opts.Model)
	assert.Equal(t, "http://localhost/v1/", opts.BaseURL)
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, config.Config{LogLevel: in}.Level(), "level %q", in)
	}
}
