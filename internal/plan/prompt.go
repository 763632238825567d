package plan

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neexbeast/trekmate/internal/weather"
)

const (
	promptDays  = 3
	promptHours = 12
)

// Request is the input to a plan or follow-up answer.
type Request struct {
	Destination string                   `json:"destination"`
	Forecast    weather.ForecastSnapshot `json:"forecast"`
	Summary     weather.WeatherSummary   `json:"summary"`
	Question    string                   `json:"question,omitempty"`
}

// compactWeather bounds the forecast sent to the model.
type compactWeather struct {
	Location  weather.Location       `json:"location"`
	Timezone  string                 `json:"timezone"`
	FetchedAt time.Time              `json:"fetched_at"`
	Current   weather.Current        `json:"current"`
	Daily     []weather.DailyPoint   `json:"daily"`
	Hourly    []weather.HourlyPoint  `json:"hourly"`
	Summary   weather.WeatherSummary `json:"summary"`
}

// Prompt is the system and user message pair for one completion.
type Prompt struct {
	System   string
	User     string
	Japanese bool
}

// BuildPrompt assembles the guide persona and the compact weather payload.
// The reply language follows the script of the destination and question.
func BuildPrompt(req Request) (Prompt, error) {
	japanese := weather.ContainsJapanese(req.Destination + "\n" + req.Question)

	payload, err := json.Marshal(compactWeather{
		Location:  req.Forecast.Location,
		Timezone:  req.Forecast.Timezone,
		FetchedAt: req.Forecast.FetchedAt,
		Current:   req.Forecast.Current,
		Daily:     head(req.Forecast.Daily, promptDays),
		Hourly:    head(req.Forecast.Hourly, promptHours),
		Summary:   req.Summary,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("marshaling weather payload: %w", err)
	}

	style := "Respond in concise English. Be practical and safety-focused."
	if japanese {
		style = "Respond in natural Japanese. Be concise, practical, and safety-focused."
	}
	system := "You are TrekMate, an expert trekking and travel guide for Japan. " + style

	lines := []string{
		"DESTINATION: " + req.Destination,
		"WEATHER_JSON: " + string(payload),
	}
	if q := strings.TrimSpace(req.Question); q != "" {
		lines = append(lines, "QUESTION: "+q)
	}

	return Prompt{System: system, User: strings.Join(lines, "\n"), Japanese: japanese}, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
