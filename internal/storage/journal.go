package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/trekmate/internal/weather"
)

const (
	DefaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Querier abstracts the subset of pgxpool.Pool used by Journal.
// This allows injection of a mock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// LookupRecord is one journaled destination lookup.
type LookupRecord struct {
	ID           int64                  `json:"id"`
	Query        string                 `json:"query"`
	LocationName string                 `json:"location_name"`
	Country      string                 `json:"country"`
	Region       string                 `json:"region,omitempty"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	RiskLevel    weather.RiskLevel      `json:"risk_level"`
	Summary      weather.WeatherSummary `json:"summary"`
	FetchedAt    time.Time              `json:"fetched_at"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Journal records successful destination lookups. It stores no conversation
// content, only the resolved place and its risk assessment.
type Journal struct {
	q Querier
}

// NewJournal constructs a Journal backed by the given pool.
func NewJournal(pool *pgxpool.Pool) *Journal {
	return &Journal{q: pool}
}

// NewJournalWithQuerier constructs a Journal with a custom Querier (for tests).
func NewJournalWithQuerier(q Querier) *Journal {
	return &Journal{q: q}
}

// RecordLookup inserts one lookup row.
func (j *Journal) RecordLookup(ctx context.Context, query string, report weather.Report) error {
	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("marshaling summary for %s: %w", query, err)
	}

	const q = `
		INSERT INTO lookups (query, location_name, country, region, latitude, longitude, risk_level, summary, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	loc := report.Forecast.Location
	if _, err := j.q.Exec(ctx, q,
		query,
		loc.Name,
		loc.Country,
		loc.Region,
		loc.Latitude,
		loc.Longitude,
		string(report.Summary.RiskLevel),
		summaryJSON,
		report.Forecast.FetchedAt,
	); err != nil {
		return fmt.Errorf("inserting lookup for %s: %w", query, err)
	}

	return nil
}

// RecentLookups returns the newest lookups first. limit is clamped to 1..100.
func (j *Journal) RecentLookups(ctx context.Context, limit int) ([]LookupRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, maxRecentLimit)

	const q = `
		SELECT id, query, location_name, country, region, latitude, longitude, risk_level, summary, fetched_at, created_at
		FROM lookups
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := j.q.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent lookups: %w", err)
	}
	return scanLookups(rows)
}

// LookupsByRiskLevel returns lookups whose summary carries the given risk
// level. Uses the JSONB @> containment operator.
func (j *Journal) LookupsByRiskLevel(ctx context.Context, level weather.RiskLevel) ([]LookupRecord, error) {
	filter, err := json.Marshal(map[string]any{"risk_level": level})
	if err != nil {
		return nil, fmt.Errorf("marshaling JSONB filter: %w", err)
	}

	const q = `
		SELECT id, query, location_name, country, region, latitude, longitude, risk_level, summary, fetched_at, created_at
		FROM lookups
		WHERE summary @> $1::jsonb
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := j.q.Query(ctx, q, string(filter), maxRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("querying lookups by risk level %s: %w", level, err)
	}
	return scanLookups(rows)
}

func scanLookups(rows pgx.Rows) ([]LookupRecord, error) {
	defer rows.Close()

	results := []LookupRecord{}
	for rows.Next() {
		var (
			r           LookupRecord
			risk        string
			summaryJSON []byte
		)
		if err := rows.Scan(
			&r.ID,
			&r.Query,
			&r.LocationName,
			&r.Country,
			&r.Region,
			&r.Latitude,
			&r.Longitude,
			&risk,
			&summaryJSON,
			&r.FetchedAt,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning lookup row: %w", err)
		}

		if err := json.Unmarshal(summaryJSON, &r.Summary); err != nil {
			return nil, fmt.Errorf("unmarshaling lookup summary: %w", err)
		}
		r.RiskLevel = weather.RiskLevel(risk)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lookup rows: %w", err)
	}

	return results, nil
}
