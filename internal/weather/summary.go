package weather

import "math"

const (
	summaryHours = 24
	windowHours  = 4

	heavyRainMM      = 10.0
	moderateRainMM   = 5.0
	highPrecipChance = 70.0
	strongWindKMH    = 40.0
	moderateWindKMH  = 25.0
	minWindowScore   = 50.0
)

const (
	WarnHeavyRain     = "Heavy rain expected (>10mm/hour)"
	WarnModerateRain  = "Moderate rain expected"
	WarnPrecipChance  = "High chance of precipitation throughout the day"
	WarnStrongWind    = "Strong winds expected (>40 km/h)"
	WarnModerateWind  = "Moderate winds expected"
	NoWarnings        = "No significant warnings"
	RecGoodConditions = "Good conditions for trekking"
	RecCaution        = "Proceed with caution, bring rain gear"
	RecCheckUpdates   = "Check weather updates before departure"
	RecPostpone       = "Consider postponing or choosing an alternate route"
	RecSafetyGear     = "If proceeding, ensure proper safety equipment"
	RecSecureItems    = "Secure loose items and avoid exposed ridges"
)

// Summarize derives a trekking risk assessment from the first 24 hourly points
// of a forecast. It is pure: the same snapshot always yields the same summary.
func Summarize(f ForecastSnapshot) WeatherSummary {
	window := f.Hourly
	if len(window) > summaryHours {
		window = window[:summaryHours]
	}

	maxPrecip := math.Inf(-1)
	maxWind := math.Inf(-1)
	var probSum float64
	for _, h := range window {
		maxPrecip = math.Max(maxPrecip, h.Precipitation)
		maxWind = math.Max(maxWind, h.WindSpeed)
		probSum += h.PrecipitationProbability
	}
	// Always divided by the full day, even for a shorter sample.
	avgPrecipProb := probSum / summaryHours

	var warnings []string
	risk := RiskLow

	if maxPrecip > heavyRainMM {
		warnings = append(warnings, WarnHeavyRain)
		risk = RiskHigh
	} else if maxPrecip > moderateRainMM && risk == RiskLow {
		warnings = append(warnings, WarnModerateRain)
		risk = RiskMedium
	}

	if avgPrecipProb > highPrecipChance {
		warnings = append(warnings, WarnPrecipChance)
	}

	if maxWind > strongWindKMH {
		warnings = append(warnings, WarnStrongWind)
		risk = RiskHigh
	} else if maxWind > moderateWindKMH && risk == RiskLow {
		warnings = append(warnings, WarnModerateWind)
		risk = RiskMedium
	}

	var recommendations []string
	switch risk {
	case RiskLow:
		recommendations = append(recommendations, RecGoodConditions)
	case RiskMedium:
		recommendations = append(recommendations, RecCaution, RecCheckUpdates)
	default:
		recommendations = append(recommendations, RecPostpone, RecSafetyGear)
	}
	if maxWind > moderateWindKMH {
		recommendations = append(recommendations, RecSecureItems)
	}

	if len(warnings) == 0 {
		warnings = []string{NoWarnings}
	}

	return WeatherSummary{
		Condition:       Describe(f.Current.WeatherCode),
		RiskLevel:       risk,
		BestTimeWindow:  bestWindow(window),
		Warnings:        warnings,
		Recommendations: recommendations,
	}
}

// WindowScore rates a run of hours: 100 minus mean precipitation probability
// minus mean wind speed. The two terms are in different units.
func WindowScore(hours []HourlyPoint) float64 {
	if len(hours) == 0 {
		return math.Inf(-1)
	}
	var prob, wind float64
	for _, h := range hours {
		prob += h.PrecipitationProbability
		wind += h.WindSpeed
	}
	n := float64(len(hours))
	return 100 - prob/n - wind/n
}

// bestWindow returns the earliest highest-scoring 4-hour window scoring above 50.
func bestWindow(hours []HourlyPoint) *TimeWindow {
	var best *TimeWindow
	bestScore := -1.0
	for i := 0; i+windowHours <= len(hours); i++ {
		span := hours[i : i+windowHours]
		score := WindowScore(span)
		if score > bestScore && score > minWindowScore {
			bestScore = score
			best = &TimeWindow{Start: span[0].Time, End: span[windowHours-1].Time}
		}
	}
	return best
}
