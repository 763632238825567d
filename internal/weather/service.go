package weather

import (
	"context"
	"fmt"
	"log/slog"
)

// forecaster is the interface satisfied by ForecastClient.
type forecaster interface {
	Fetch(ctx context.Context, latitude, longitude float64, name, country, region string) (ForecastSnapshot, error)
}

// resolver is the interface satisfied by Resolver.
type resolver interface {
	Resolve(ctx context.Context, raw string) (GeocodeCandidate, error)
}

// Recorder receives every successful lookup. storage.Journal satisfies it.
type Recorder interface {
	RecordLookup(ctx context.Context, query string, report Report) error
}

// Service runs the resolve, fetch and summarize pipeline for one destination.
type Service struct {
	resolver   resolver
	forecaster forecaster
	recorder   Recorder
	log        *slog.Logger
}

// NewService constructs a Service. recorder may be nil.
func NewService(r resolver, f forecaster, recorder Recorder, log *slog.Logger) *Service {
	return &Service{resolver: r, forecaster: f, recorder: recorder, log: log}
}

// Lookup resolves raw to a place, fetches its forecast and summarizes it.
// The three steps run strictly in sequence; any failure aborts the lookup.
func (s *Service) Lookup(ctx context.Context, raw string) (Report, error) {
	candidate, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return Report{}, err
	}

	forecast, err := s.forecaster.Fetch(ctx, candidate.Latitude, candidate.Longitude,
		candidate.Name, candidate.Country, candidate.Admin1)
	if err != nil {
		return Report{}, fmt.Errorf("fetching forecast for %s: %w", candidate.Name, err)
	}

	report := Report{
		Candidate: candidate,
		Forecast:  forecast,
		Summary:   Summarize(forecast),
	}

	s.log.Info("destination resolved",
		"query", raw,
		"location", candidate.Name,
		"country", candidate.Country,
		"risk", report.Summary.RiskLevel,
	)

	if s.recorder != nil {
		if err := s.recorder.RecordLookup(ctx, raw, report); err != nil {
			s.log.Warn("recording lookup failed", "query", raw, "err", err)
		}
	}

	return report, nil
}
