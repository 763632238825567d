package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/trekmate/internal/api"
	"github.com/neexbeast/trekmate/internal/cache"
	"github.com/neexbeast/trekmate/internal/config"
	"github.com/neexbeast/trekmate/internal/plan"
	"github.com/neexbeast/trekmate/internal/storage"
	"github.com/neexbeast/trekmate/internal/weather"
)

const (
	geocodingCacheTTL = time.Hour
	forecastCacheTTL  = 10 * time.Minute
)

// App holds the wired services shared by the HTTP server and the terminal client.
type App struct {
	Lookup    *weather.Service
	Generator *plan.Generator

	journal *storage.Journal
	pool    *pgxpool.Pool
	redis   *redis.Client
	log     *slog.Logger
}

// New connects the optional stores and wires the lookup pipeline and plan
// generator. Callers must Close the returned App.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	generator, err := plan.NewGenerator(cfg.PlanOptions(), log)
	if err != nil {
		return nil, err
	}

	a := &App{Generator: generator, log: log}

	var responseCache weather.ResponseCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.redis = client
		responseCache = cache.NewCache(client)
		log.Info("upstream response cache enabled")
	}

	var recorder weather.Recorder
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.pool = pool

		n, err := storage.RunMigrations(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied", "files", n)

		a.journal = storage.NewJournal(pool)
		recorder = a.journal
	}

	geoOpts := cfg.UpstreamOptions(log)
	geoOpts.Cache = responseCache
	geoOpts.CacheTTL = geocodingCacheTTL

	fcOpts := cfg.UpstreamOptions(log)
	fcOpts.Cache = responseCache
	fcOpts.CacheTTL = forecastCacheTTL

	geocoder := weather.NewGeocodingClientWithURL(cfg.GeocodingURL, weather.NewUpstream("geocoding", geoOpts))
	forecaster := weather.NewForecastClientWithURL(cfg.ForecastURL, weather.NewUpstream("forecast", fcOpts))

	a.Lookup = weather.NewService(weather.NewResolver(geocoder), forecaster, recorder, log)
	return a, nil
}

// Handler returns the HTTP router. Disabled stores are reported as such by
// the health check and yield empty journal listings.
func (a *App) Handler() http.Handler {
	var (
		journal api.LookupJournal
		db      interface{ Ping(context.Context) error }
		rdb     interface{ Ping(context.Context) error }
	)
	if a.journal != nil {
		journal = a.journal
	}
	if a.pool != nil {
		db = a.pool
	}
	if a.redis != nil {
		rdb = &redisPinger{client: a.redis}
	}

	handlers := api.NewHandlers(a.Lookup, a.Generator, journal, a.log)
	return api.NewRouter(handlers, db, rdb, a.log)
}

// Close releases the database pool and redis client.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis client", "err", err)
		}
	}
}

// redisPinger adapts redis.Client to the health check's Ping signature.
type redisPinger struct {
	client *redis.Client
}

func (r *redisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
