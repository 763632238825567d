package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/neexbeast/trekmate/internal/plan"
	"github.com/neexbeast/trekmate/internal/weather"
)

// Config is the server configuration. Every field can be set by flag or env.
type Config struct {
	Port string `name:"port" env:"PORT" default:"8080" help:"HTTP listen port."`

	GroqAPIKey  string `name:"groq-api-key" env:"GROQ_API_KEY" required:"" help:"API key for the chat completion provider."`
	GroqModel   string `name:"groq-model" env:"GROQ_MODEL" default:"llama-3.1-8b-instant" help:"Completion model identifier."`
	GroqBaseURL string `name:"groq-base-url" env:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1/" help:"OpenAI-compatible API base URL."`

	GeocodingURL string `name:"geocoding-url" env:"GEOCODING_URL" default:"https://geocoding-api.open-meteo.com/v1/search" help:"Geocoding search endpoint."`
	ForecastURL  string `name:"forecast-url" env:"FORECAST_URL" default:"https://api.open-meteo.com/v1/forecast" help:"Forecast endpoint."`

	DatabaseURL   string `name:"database-url" env:"DATABASE_URL" help:"PostgreSQL URL for the lookup journal. Empty disables it."`
	MigrationsDir string `name:"migrations-dir" env:"MIGRATIONS_DIR" default:"migrations" help:"Directory of .sql migrations."`
	RedisURL      string `name:"redis-url" env:"REDIS_URL" help:"Redis URL for the upstream response cache. Empty disables it."`

	UpstreamRPS   float64 `name:"upstream-rps" env:"UPSTREAM_RPS" default:"5" help:"Requests per second allowed to each weather provider."`
	UpstreamBurst int     `name:"upstream-burst" env:"UPSTREAM_BURST" default:"5" help:"Burst size for each weather provider."`

	LogLevel string `name:"log-level" env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
}

// LoadDotEnv loads .env from the working directory when it exists. Values
// already present in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
}

// Parse builds a Config from args and the environment.
func Parse(args []string) (Config, error) {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("trekmate-server"),
		kong.Description("Weather-aware trek planning API."),
	)
	if err != nil {
		return Config{}, fmt.Errorf("building config parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog.Level. Unknown values fall back to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PlanOptions returns the Generator settings.
func (c Config) PlanOptions() plan.Options {
	return plan.Options{APIKey: c.GroqAPIKey, Model: c.GroqModel, BaseURL: c.GroqBaseURL}
}

// UpstreamOptions returns the shared provider guard settings, without cache.
func (c Config) UpstreamOptions(log *slog.Logger) weather.UpstreamOptions {
	return weather.UpstreamOptions{RPS: c.UpstreamRPS, Burst: c.UpstreamBurst, Log: log}
}
