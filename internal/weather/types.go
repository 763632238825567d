package weather

import "time"

// GeocodeCandidate is a single place match returned by the geocoding provider.
type GeocodeCandidate struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code,omitempty"`
	Admin1      string  `json:"admin1,omitempty"` // prefecture / state
	Admin2      string  `json:"admin2,omitempty"` // county / district
}

// Location identifies the place a forecast was fetched for.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Region    string  `json:"region,omitempty"`
}

// Current holds the conditions at fetch time.
type Current struct {
	Temperature   float64 `json:"temperature"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
}

// HourlyPoint is one hour of the forecast. Time is provider-local ISO 8601 without offset.
type HourlyPoint struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	Precipitation            float64 `json:"precipitation"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	WeatherCode              int     `json:"weather_code"`
	WindSpeed                float64 `json:"wind_speed"`
	CloudCover               float64 `json:"cloud_cover"`
}

// DailyPoint is one day of aggregated forecast.
type DailyPoint struct {
	Date                        string  `json:"date"`
	TemperatureMax              float64 `json:"temperature_max"`
	TemperatureMin              float64 `json:"temperature_min"`
	PrecipitationSum            float64 `json:"precipitation_sum"`
	PrecipitationProbabilityMax float64 `json:"precipitation_probability_max"`
	WeatherCode                 int     `json:"weather_code"`
	WindSpeedMax                float64 `json:"wind_speed_max"`
}

// ForecastSnapshot is the normalized multi-day forecast for one location.
// Hourly holds at most MaxHourlyPoints entries in chronological order.
type ForecastSnapshot struct {
	Location  Location      `json:"location"`
	Current   Current       `json:"current"`
	Hourly    []HourlyPoint `json:"hourly"`
	Daily     []DailyPoint  `json:"daily"`
	Timezone  string        `json:"timezone"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// RiskLevel grades how risky the next 24 hours look for trekking.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TimeWindow is an inclusive range of hourly timestamps.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeatherSummary is the risk assessment derived from a ForecastSnapshot.
type WeatherSummary struct {
	Condition       string      `json:"condition"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	BestTimeWindow  *TimeWindow `json:"best_time_window,omitempty"`
	Warnings        []string    `json:"warnings"`
	Recommendations []string    `json:"recommendations"`
}

// Report is the successful result of a destination lookup.
type Report struct {
	Candidate GeocodeCandidate `json:"candidate"`
	Forecast  ForecastSnapshot `json:"forecast"`
	Summary   WeatherSummary   `json:"summary"`
}
