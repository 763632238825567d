package weather

import (
	"context"
	"strings"
)

const maxSuggestions = 3

// geocoder is the interface satisfied by GeocodingClient.
type geocoder interface {
	Search(ctx context.Context, name, language string) ([]GeocodeCandidate, error)
}

// Resolver turns free-form destination text into a single geocoded place.
type Resolver struct {
	geocoder geocoder
}

// NewResolver constructs a Resolver backed by the given geocoder.
func NewResolver(g geocoder) *Resolver {
	return &Resolver{geocoder: g}
}

// Resolve normalizes raw, geocodes it and applies the selection policy.
// It returns *ValidationError for blank input, *NotFoundError when nothing
// matched, *DisambiguationError when the user must choose, and
// *GeocodingError when the provider failed.
func (r *Resolver) Resolve(ctx context.Context, raw string) (GeocodeCandidate, error) {
	if strings.TrimSpace(raw) == "" {
		return GeocodeCandidate{}, &ValidationError{Message: "Please provide a location name"}
	}

	name := NormalizeLocationName(raw)
	if name == "" {
		name = strings.TrimSpace(raw)
	}

	language := "en"
	if ContainsJapanese(name) {
		language = "ja"
	}

	candidates, err := r.geocoder.Search(ctx, name, language)
	if err != nil {
		return GeocodeCandidate{}, err
	}
	return SelectCandidate(name, candidates)
}

// SelectCandidate picks a forecast target from provider-ordered candidates.
// Japan matches win regardless of rank; several foreign matches need the user
// to disambiguate.
func SelectCandidate(query string, candidates []GeocodeCandidate) (GeocodeCandidate, error) {
	if len(candidates) == 0 {
		return GeocodeCandidate{}, &NotFoundError{Query: query}
	}

	for _, c := range candidates {
		if c.InJapan() {
			return c, nil
		}
	}

	if len(candidates) > 1 {
		n := min(maxSuggestions, len(candidates))
		suggestions := make([]GeocodeCandidate, n)
		copy(suggestions, candidates[:n])
		return GeocodeCandidate{}, &DisambiguationError{Query: query, Candidates: suggestions}
	}

	return candidates[0], nil
}

// InJapan reports whether the provider named the candidate's country Japan.
// Only the country field is consulted; results localized to Japanese carry
// "日本" there and fall through to the single-match or disambiguation rules.
func (c GeocodeCandidate) InJapan() bool {
	return c.Country == "Japan" || c.Country == "JP"
}

// Label renders a candidate as "name, region, country", skipping empty parts.
func (c GeocodeCandidate) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Admin1, c.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
