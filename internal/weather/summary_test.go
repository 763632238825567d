package weather_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekmate/internal/weather"
)

// calmDay returns n hours of dry, still weather starting at 00:00.
func calmDay(n int) []weather.HourlyPoint {
	hours := make([]weather.HourlyPoint, n)
	for i := range hours {
		hours[i] = weather.HourlyPoint{
			Time:                     fmt.Sprintf("2026-10-14T%02d:00", i%24),
			Temperature:              14,
			PrecipitationProbability: 10,
			WindSpeed:                5,
		}
	}
	return hours
}

func snapshot(hours []weather.HourlyPoint) weather.ForecastSnapshot {
	return weather.ForecastSnapshot{
		Location: weather.Location{Name: "Hakone", Country: "Japan"},
		Current:  weather.Current{WeatherCode: 1},
		Hourly:   hours,
	}
}

func TestSummarize_CalmDay(t *testing.T) {
	s := weather.Summarize(snapshot(calmDay(24)))

	assert.Equal(t, "Mainly clear", s.Condition)
	assert.Equal(t, weather.RiskLow, s.RiskLevel)
	assert.Equal(t, []string{weather.NoWarnings}, s.Warnings)
	assert.Equal(t, []string{weather.RecGoodConditions}, s.Recommendations)
	require.NotNil(t, s.BestTimeWindow)
	assert.Equal(t, "2026-10-14T00:00", s.BestTimeWindow.Start)
	assert.Equal(t, "2026-10-14T03:00", s.BestTimeWindow.End)
}

func TestSummarize_HeavyRainSpike(t *testing.T) {
	hours := calmDay(24)
	hours[2].Precipitation = 12

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskHigh, s.RiskLevel)
	assert.Contains(t, s.Warnings, weather.WarnHeavyRain)
	assert.NotContains(t, s.Warnings, weather.WarnModerateRain)
	assert.Equal(t, []string{weather.RecPostpone, weather.RecSafetyGear}, s.Recommendations)
}

func TestSummarize_ModerateRain(t *testing.T) {
	hours := calmDay(24)
	hours[5].Precipitation = 6

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskMedium, s.RiskLevel)
	assert.Equal(t, []string{weather.WarnModerateRain}, s.Warnings)
	assert.Equal(t, []string{weather.RecCaution, weather.RecCheckUpdates}, s.Recommendations)
}

func TestSummarize_ThresholdsAreExclusive(t *testing.T) {
	hours := calmDay(24)
	hours[0].Precipitation = 5
	hours[1].WindSpeed = 25

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskLow, s.RiskLevel)
	assert.Equal(t, []string{weather.NoWarnings}, s.Warnings)
}

func TestSummarize_StrongWindRaisesMediumToHigh(t *testing.T) {
	hours := calmDay(24)
	hours[3].Precipitation = 7
	hours[10].WindSpeed = 45

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskHigh, s.RiskLevel)
	assert.Equal(t, []string{weather.WarnModerateRain, weather.WarnStrongWind}, s.Warnings)
	assert.Equal(t, []string{weather.RecPostpone, weather.RecSafetyGear, weather.RecSecureItems}, s.Recommendations)
}

func TestSummarize_ModerateWindOnlyWhenStillLow(t *testing.T) {
	hours := calmDay(24)
	hours[3].Precipitation = 7
	hours[10].WindSpeed = 30

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskMedium, s.RiskLevel)
	assert.Equal(t, []string{weather.WarnModerateRain}, s.Warnings)
	// Securing items is advised whenever wind exceeds 25 km/h.
	assert.Equal(t, []string{weather.RecCaution, weather.RecCheckUpdates, weather.RecSecureItems}, s.Recommendations)
}

func TestSummarize_ModerateWindAlone(t *testing.T) {
	hours := calmDay(24)
	hours[10].WindSpeed = 30

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskMedium, s.RiskLevel)
	assert.Equal(t, []string{weather.WarnModerateWind}, s.Warnings)
}

func TestSummarize_HighPrecipChanceDoesNotChangeRisk(t *testing.T) {
	hours := calmDay(24)
	for i := range hours {
		hours[i].PrecipitationProbability = 80
	}

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskLow, s.RiskLevel)
	assert.Equal(t, []string{weather.WarnPrecipChance}, s.Warnings)
	assert.Nil(t, s.BestTimeWindow)
}

func TestSummarize_AverageDividesByFullDay(t *testing.T) {
	// 12 hours at 100% average to 50% over a full day, below the 70% threshold.
	hours := calmDay(12)
	for i := range hours {
		hours[i].PrecipitationProbability = 100
	}

	s := weather.Summarize(snapshot(hours))
	assert.NotContains(t, s.Warnings, weather.WarnPrecipChance)
}

func TestSummarize_OnlyFirst24HoursCount(t *testing.T) {
	hours := calmDay(72)
	hours[30].Precipitation = 40
	hours[50].WindSpeed = 90

	s := weather.Summarize(snapshot(hours))

	assert.Equal(t, weather.RiskLow, s.RiskLevel)
	assert.Equal(t, []string{weather.NoWarnings}, s.Warnings)
}

func TestSummarize_EmptyHourly(t *testing.T) {
	s := weather.Summarize(snapshot(nil))

	assert.Equal(t, weather.RiskLow, s.RiskLevel)
	assert.Equal(t, []string{weather.NoWarnings}, s.Warnings)
	assert.Nil(t, s.BestTimeWindow)
}

func TestSummarize_UnknownCondition(t *testing.T) {
	f := snapshot(calmDay(24))
	f.Current.WeatherCode = 42
	assert.Equal(t, "Unknown", weather.Summarize(f).Condition)
}

func TestSummarize_Deterministic(t *testing.T) {
	hours := calmDay(24)
	hours[7].Precipitation = 6
	hours[15].WindSpeed = 33
	f := snapshot(hours)

	assert.Equal(t, weather.Summarize(f), weather.Summarize(f))
}

func TestSummarize_BestWindowPicksHighestScore(t *testing.T) {
	hours := calmDay(24)
	for i := range hours {
		hours[i].PrecipitationProbability = 40
	}
	for i := 9; i < 13; i++ {
		hours[i].PrecipitationProbability = 0
		hours[i].WindSpeed = 2
	}

	s := weather.Summarize(snapshot(hours))

	require.NotNil(t, s.BestTimeWindow)
	assert.Equal(t, hours[9].Time, s.BestTimeWindow.Start)
	assert.Equal(t, hours[12].Time, s.BestTimeWindow.End)
}

func TestSummarize_BestWindowTieKeepsEarliest(t *testing.T) {
	hours := calmDay(24)
	for i := range hours {
		hours[i].PrecipitationProbability = 45
	}
	for _, start := range []int{4, 16} {
		for i := start; i < start+4; i++ {
			hours[i].PrecipitationProbability = 0
		}
	}

	s := weather.Summarize(snapshot(hours))

	require.NotNil(t, s.BestTimeWindow)
	assert.Equal(t, hours[4].Time, s.BestTimeWindow.Start)
}

func TestSummarize_BestWindowScoreMustExceed50(t *testing.T) {
	hours := calmDay(24)
	for i := range hours {
		hours[i].PrecipitationProbability = 45
		hours[i].WindSpeed = 5
	}

	assert.Nil(t, weather.Summarize(snapshot(hours)).BestTimeWindow)
}

func TestSummarize_BestWindowNeedsFourHours(t *testing.T) {
	assert.Nil(t, weather.Summarize(snapshot(calmDay(3))).BestTimeWindow)
	assert.NotNil(t, weather.Summarize(snapshot(calmDay(4))).BestTimeWindow)
}

func TestWindowScore(t *testing.T) {
	hours := []weather.HourlyPoint{
		{PrecipitationProbability: 20, WindSpeed: 10},
		{PrecipitationProbability: 40, WindSpeed: 30},
	}
	assert.InDelta(t, 100-30-20, weather.WindowScore(hours), 1e-9)
}
