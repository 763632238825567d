package weather

import (
	"errors"
	"fmt"
)

// ValidationError reports unusable caller input. No provider is contacted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that geocoding returned no candidates.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("location %q not found", e.Query)
}

// DisambiguationError asks the caller to choose between several non-Japan matches.
type DisambiguationError struct {
	Query      string
	Candidates []GeocodeCandidate
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("multiple locations match %q", e.Query)
}

// GeocodingError wraps a geocoding provider failure. Status is 0 when no
// HTTP response was received.
type GeocodingError struct {
	Status int
	Err    error
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("geocoding failed (status %d): %v", e.Status, e.Err)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

// ForecastError wraps a forecast provider failure.
type ForecastError struct {
	Status int
	Err    error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast failed (status %d): %v", e.Status, e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }

// Failure is the user-facing form of a lookup error.
type Failure struct {
	Message     string             `json:"error"`
	Suggestions []GeocodeCandidate `json:"suggestions,omitempty"`
}

// DescribeFailure converts a lookup error into a message fit for the user.
func DescribeFailure(err error) Failure {
	var (
		vErr  *ValidationError
		nfErr *NotFoundError
		dErr  *DisambiguationError
		gErr  *GeocodingError
		fErr  *ForecastError
	)
	switch {
	case errors.As(err, &vErr):
		return Failure{Message: vErr.Message}
	case errors.As(err, &nfErr):
		return Failure{Message: fmt.Sprintf("Could not find location %q. Please try a different name.", nfErr.Query)}
	case errors.As(err, &dErr):
		return Failure{
			Message:     "Multiple locations found. Please be more specific.",
			Suggestions: dErr.Candidates,
		}
	case errors.As(err, &gErr):
		return Failure{Message: "Sorry, I couldn't look up that location right now. Please try again."}
	case errors.As(err, &fErr):
		return Failure{Message: "Failed to fetch weather data. Please try again."}
	default:
		return Failure{Message: "Sorry, something went wrong. Please try again."}
	}
}
