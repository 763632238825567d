package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ---- Open-Meteo geocoding ----

const (
	GeocodingDefaultURL = "https://geocoding-api.open-meteo.com/v1/search"
	geocodingCount      = 5
)

// GeocodingClient searches place names via the Open-Meteo geocoding API.
type GeocodingClient struct {
	baseURL  string
	upstream *Upstream
}

// NewGeocodingClient constructs a GeocodingClient using the production URL.
func NewGeocodingClient(upstream *Upstream) *GeocodingClient {
	return &GeocodingClient{baseURL: GeocodingDefaultURL, upstream: upstream}
}

// NewGeocodingClientWithURL constructs a GeocodingClient pointing at a custom base URL (for tests).
func NewGeocodingClientWithURL(baseURL string, upstream *Upstream) *GeocodingClient {
	return &GeocodingClient{baseURL: baseURL, upstream: upstream}
}

type geocodingResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
		Admin2      string  `json:"admin2"`
	} `json:"results"`
}

// Search returns up to five candidates for name in provider relevance order.
// An empty slice means no match.
func (c *GeocodingClient) Search(ctx context.Context, name, language string) ([]GeocodeCandidate, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(geocodingCount))
	params.Set("language", language)
	params.Set("format", "json")

	reqURL := c.baseURL + "?" + params.Encode()
	body, err := c.upstream.Get(ctx, reqURL)
	if err != nil {
		return nil, &GeocodingError{Status: statusOf(err), Err: err}
	}

	var raw geocodingResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		c.upstream.Evict(ctx, reqURL)
		return nil, &GeocodingError{Err: fmt.Errorf("decoding geocoding response for %s: %w", name, err)}
	}

	candidates := make([]GeocodeCandidate, 0, len(raw.Results))
	for _, r := range raw.Results {
		candidates = append(candidates, GeocodeCandidate{
			ID:          r.ID,
			Name:        r.Name,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Admin2:      r.Admin2,
		})
	}
	return candidates, nil
}

// ---- Open-Meteo forecast ----

const (
	ForecastDefaultURL = "https://api.open-meteo.com/v1/forecast"
	forecastDays       = 7

	// MaxHourlyPoints caps the normalized hourly series at three days.
	MaxHourlyPoints = 72

	currentFields = "temperature_2m,weather_code,wind_speed_10m,precipitation"
	hourlyFields  = "temperature_2m,precipitation,precipitation_probability,weather_code,wind_speed_10m,cloud_cover"
	dailyFields   = "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,weather_code,wind_speed_10m_max"
)

// ForecastClient fetches multi-day forecasts from the Open-Meteo forecast API.
type ForecastClient struct {
	baseURL  string
	upstream *Upstream
	now      func() time.Time
}

// NewForecastClient constructs a ForecastClient using the production URL.
func NewForecastClient(upstream *Upstream) *ForecastClient {
	return &ForecastClient{baseURL: ForecastDefaultURL, upstream: upstream, now: time.Now}
}

// NewForecastClientWithURL constructs a ForecastClient pointing at a custom base URL (for tests).
func NewForecastClientWithURL(baseURL string, upstream *Upstream) *ForecastClient {
	return &ForecastClient{baseURL: baseURL, upstream: upstream, now: time.Now}
}

// Series values are pointers because the provider emits null for hours it
// cannot forecast.
type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature2M float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed10M  float64 `json:"wind_speed_10m"`
		Precipitation float64 `json:"precipitation"`
	} `json:"current"`
	Hourly struct {
		Time                     []string   `json:"time"`
		Temperature2M            []*float64 `json:"temperature_2m"`
		Precipitation            []*float64 `json:"precipitation"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
		WeatherCode              []*int     `json:"weather_code"`
		WindSpeed10M             []*float64 `json:"wind_speed_10m"`
		CloudCover               []*float64 `json:"cloud_cover"`
	} `json:"hourly"`
	Daily struct {
		Time                        []string   `json:"time"`
		Temperature2MMax            []*float64 `json:"temperature_2m_max"`
		Temperature2MMin            []*float64 `json:"temperature_2m_min"`
		PrecipitationSum            []*float64 `json:"precipitation_sum"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		WeatherCode                 []*int     `json:"weather_code"`
		WindSpeed10MMax             []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Fetch retrieves the 7-day forecast for a coordinate and normalizes it.
func (c *ForecastClient) Fetch(ctx context.Context, latitude, longitude float64, name, country, region string) (ForecastSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current", currentFields)
	params.Set("hourly", hourlyFields)
	params.Set("daily", dailyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(forecastDays))

	reqURL := c.baseURL + "?" + params.Encode()
	body, err := c.upstream.Get(ctx, reqURL)
	if err != nil {
		return ForecastSnapshot{}, &ForecastError{Status: statusOf(err), Err: err}
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		c.upstream.Evict(ctx, reqURL)
		return ForecastSnapshot{}, &ForecastError{Err: fmt.Errorf("decoding forecast for %s: %w", name, err)}
	}

	return ForecastSnapshot{
		Location: Location{
			Name:      name,
			Latitude:  latitude,
			Longitude: longitude,
			Country:   country,
			Region:    region,
		},
		Current: Current{
			Temperature:   raw.Current.Temperature2M,
			WeatherCode:   raw.Current.WeatherCode,
			WindSpeed:     raw.Current.WindSpeed10M,
			Precipitation: raw.Current.Precipitation,
		},
		Hourly:    normalizeHourly(&raw),
		Daily:     normalizeDaily(&raw),
		Timezone:  raw.Timezone,
		FetchedAt: c.now().UTC(),
	}, nil
}

func normalizeHourly(raw *forecastResponse) []HourlyPoint {
	h := raw.Hourly
	n := min(MaxHourlyPoints, len(h.Time))
	out := make([]HourlyPoint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, HourlyPoint{
			Time:                     h.Time[i],
			Temperature:              floatAt(h.Temperature2M, i),
			Precipitation:            floatAt(h.Precipitation, i),
			PrecipitationProbability: probabilityOrZero(h.PrecipitationProbability, i),
			WeatherCode:              intAt(h.WeatherCode, i),
			WindSpeed:                floatAt(h.WindSpeed10M, i),
			CloudCover:               floatAt(h.CloudCover, i),
		})
	}
	return out
}

func normalizeDaily(raw *forecastResponse) []DailyPoint {
	d := raw.Daily
	out := make([]DailyPoint, 0, len(d.Time))
	for i := range d.Time {
		out = append(out, DailyPoint{
			Date:                        d.Time[i],
			TemperatureMax:              floatAt(d.Temperature2MMax, i),
			TemperatureMin:              floatAt(d.Temperature2MMin, i),
			PrecipitationSum:            floatAt(d.PrecipitationSum, i),
			PrecipitationProbabilityMax: probabilityOrZero(d.PrecipitationProbabilityMax, i),
			WeatherCode:                 intAt(d.WeatherCode, i),
			WindSpeedMax:                floatAt(d.WindSpeed10MMax, i),
		})
	}
	return out
}

// probabilityOrZero reads a precipitation probability. A missing or null value
// means the provider has no estimate for that slot and is reported as 0%.
func probabilityOrZero(series []*float64, i int) float64 {
	return floatAt(series, i)
}

// floatAt reads series[i], treating short series and nulls as 0.
func floatAt(series []*float64, i int) float64 {
	if i >= len(series) || series[i] == nil {
		return 0
	}
	return *series[i]
}

func intAt(series []*int, i int) int {
	if i >= len(series) || series[i] == nil {
		return 0
	}
	return *series[i]
}
