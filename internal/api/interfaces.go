package api

import (
	"context"

	"github.com/neexbeast/trekmate/internal/plan"
	"github.com/neexbeast/trekmate/internal/storage"
	"github.com/neexbeast/trekmate/internal/weather"
)

// WeatherLookup defines the resolve, fetch and summarize pipeline needed by handlers.
type WeatherLookup interface {
	Lookup(ctx context.Context, raw string) (weather.Report, error)
}

// PlanGenerator defines the completion call needed by handlers.
type PlanGenerator interface {
	Generate(ctx context.Context, req plan.Request) (string, error)
}

// LookupJournal defines the journal reads needed by handlers.
type LookupJournal interface {
	RecentLookups(ctx context.Context, limit int) ([]storage.LookupRecord, error)
	LookupsByRiskLevel(ctx context.Context, level weather.RiskLevel) ([]storage.LookupRecord, error)
}
