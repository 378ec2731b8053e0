package conditions

import "strings"

// NormalizeKind maps free-text provider conditions ("Light Rain", "Patchy
// Fog", "Chance Snow Showers") into the closed Kind enum. Matching order
// matters: compound forecasts like "freezing rain" or "snow showers" must
// resolve to the more hazardous kind.
func NormalizeKind(text string) Kind {
	t := strings.ToLower(text)
	if t == "" {
		return KindUnknown
	}

	switch {
	case strings.Contains(t, "thunder") || strings.Contains(t, "storm"):
		return KindThunderstorm
	case strings.Contains(t, "freezing") || strings.Contains(t, "sleet") || strings.Contains(t, "ice"):
		return KindFreezing
	case strings.Contains(t, "snow") || strings.Contains(t, "flurr") || strings.Contains(t, "blizzard"):
		return KindSnow
	case strings.Contains(t, "fog") || strings.Contains(t, "mist") || strings.Contains(t, "haze"):
		return KindFog
	case strings.Contains(t, "drizzle"):
		return KindDrizzle
	case strings.Contains(t, "rain") || strings.Contains(t, "shower"):
		return KindRain
	case strings.Contains(t, "wind") || strings.Contains(t, "breezy") || strings.Contains(t, "blustery"):
		return KindWindy
	case strings.Contains(t, "sun") || strings.Contains(t, "clear"):
		return KindClear
	case strings.Contains(t, "cloud") || strings.Contains(t, "overcast"):
		return KindCloudy
	default:
		return KindUnknown
	}
}

// NormalizeSeverity maps provider severity strings ("Severe", "EXTREME") to
// the AlertSeverity enum.
func NormalizeSeverity(text string) AlertSeverity {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "minor":
		return SeverityMinor
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	case "extreme":
		return SeverityExtreme
	default:
		return SeverityUnknown
	}
}
