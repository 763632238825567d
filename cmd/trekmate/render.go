package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/neexbeast/trekmate/internal/chat"
	"github.com/neexbeast/trekmate/internal/weather"
)

// resolveInput turns a suggestion number into the suggestion text.
func resolveInput(line string, suggestions []string) string {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(suggestions) {
		return line
	}
	return suggestions[n-1]
}

func assistantOnly(messages []chat.Message) []chat.Message {
	var out []chat.Message
	for _, m := range messages {
		if m.Role == chat.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

func renderMessages(w io.Writer, messages []chat.Message) {
	for _, m := range messages {
		fmt.Fprintf(w, "\n%s\n", m.Content)
		if m.WeatherData != nil {
			renderWeather(w, m.WeatherData)
		}
	}
}

func renderWeather(w io.Writer, wc *chat.WeatherContext) {
	f, s := wc.Forecast, wc.Summary
	fmt.Fprintf(w, "  %s (%s)\n", f.Location.Name, f.Location.Country)
	fmt.Fprintf(w, "  Now: %.1f°C, %s, wind %.0f km/h\n",
		f.Current.Temperature, weather.Describe(f.Current.WeatherCode), f.Current.WindSpeed)
	fmt.Fprintf(w, "  Risk: %s\n", strings.ToUpper(string(s.RiskLevel)))
	if s.BestTimeWindow != nil {
		fmt.Fprintf(w, "  Best window: %s to %s\n", s.BestTimeWindow.Start, s.BestTimeWindow.End)
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "  ! %s\n", warn)
	}
	for _, rec := range s.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	for _, d := range f.Daily {
		fmt.Fprintf(w, "  %s  %.0f/%.0f°C  %s  rain %.0f%%\n",
			d.Date, d.TemperatureMin, d.TemperatureMax, weather.Describe(d.WeatherCode), d.PrecipitationProbabilityMax)
	}
}

func renderSuggestions(w io.Writer, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i, s := range suggestions {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, s)
	}
}
