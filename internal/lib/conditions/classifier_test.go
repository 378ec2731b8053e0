package conditions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(temp int, text string, windMph float64) *WeatherSnapshot {
	return &WeatherSnapshot{
		Temperature:  temp,
		Conditions:   text,
		Kind:         NormalizeKind(text),
		WindSpeedMph: windMph,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		snapshot *WeatherSnapshot
		alerts   []WeatherAlert
		category Category
		severity int
	}{
		{"freezing rain is icy", snap(28, "Light Rain", 5), nil, CategoryIcy, 3},
		{"freezing drizzle is icy", snap(30, "Freezing Drizzle", 5), nil, CategoryIcy, 3},
		{"cold snow is snow", snap(25, "Heavy Snow", 5), nil, CategorySnow, 2},
		{"warm snow is slush", snap(36, "Snow Showers", 5), nil, CategorySlush, 2},
		{"mild snow above slush band is dry", snap(45, "Light Snow", 5), nil, CategoryDry, 0},
		{"fog", snap(50, "Patchy Fog", 5), nil, CategoryFog, 2},
		{"mist", snap(50, "Areas Of Mist", 5), nil, CategoryFog, 2},
		{"warm rain is wet", snap(55, "Rain Showers", 5), nil, CategoryWet, 1},
		{"freezing rain above cutoff is wet, not dry", snap(34, "Freezing Rain", 5), nil, CategoryWet, 1},
		{"sleet above cutoff is wet, not dry", snap(35, "Sleet", 5), nil, CategoryWet, 1},
		{"thunderstorm", snap(70, "Scattered Thunderstorms", 5), nil, CategoryStorm, 3},
		{"high wind", snap(70, "Sunny", 35), nil, CategoryWindy, 2},
		{"calm and clear is dry", snap(70, "Clear", 5), nil, CategoryDry, 0},
		{"cloudy is dry", snap(60, "Mostly Cloudy", 10), nil, CategoryDry, 0},
		{
			"alert dominates everything",
			snap(70, "Sunny", 0),
			[]WeatherAlert{{ID: "a1", Event: "Winter Storm Warning", Severity: SeveritySevere}},
			CategoryHazard, 3,
		},
		{
			"alert dominates even without snapshot",
			nil,
			[]WeatherAlert{{ID: "a2", Event: "Flood Watch", Severity: SeverityModerate}},
			CategoryHazard, 3,
		},
		{"missing snapshot is unknown, not dry", nil, nil, CategoryUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.snapshot, tt.alerts, th)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.severity, got.Severity)
			assert.NotEmpty(t, got.Recommendation)
		})
	}
}

func TestClassifyUsesWorstAlertLabel(t *testing.T) {
	alerts := []WeatherAlert{
		{ID: "1", Event: "Wind Advisory", Severity: SeverityMinor},
		{ID: "2", Event: "Blizzard Warning", Severity: SeverityExtreme},
		{ID: "3", Event: "Winter Weather Advisory", Severity: SeverityModerate},
	}

	got := Classify(snap(20, "Snow", 10), alerts, DefaultThresholds())
	assert.Equal(t, CategoryHazard, got.Category)
	assert.Equal(t, "Blizzard Warning", got.Label)
}

func TestClassifyIsDeterministic(t *testing.T) {
	s := snap(28, "Light Rain", 12)
	alerts := []WeatherAlert{}
	th := DefaultThresholds()

	first := Classify(s, alerts, th)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(s, alerts, th))
	}
}

func TestClassifyUnknownLabel(t *testing.T) {
	got := Classify(nil, nil, DefaultThresholds())
	assert.Equal(t, "no data", got.Label)
	require.NotEqual(t, CategoryDry, got.Category)
}

func TestNormalizeKind(t *testing.T) {
	tests := map[string]Kind{
		"Sunny":                       KindClear,
		"Mostly Clear":                KindClear,
		"Partly Cloudy":               KindCloudy,
		"Light Rain":                  KindRain,
		"Chance Showers":              KindRain,
		"Drizzle":                     KindDrizzle,
		"Freezing Rain":               KindFreezing,
		"Sleet":                       KindFreezing,
		"Snow Showers":                KindSnow,
		"Scattered Flurries":          KindSnow,
		"Patchy Fog":                  KindFog,
		"Haze":                        KindFog,
		"Thunderstorms":               KindThunderstorm,
		"Chance Rain And Snow":        KindSnow,
		"Breezy":                      KindWindy,
		"":                            KindUnknown,
		"Something The API Made Up!!": KindUnknown,
	}

	for text, want := range tests {
		assert.Equal(t, want, NormalizeKind(text), "text=%q", text)
	}
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, SeverityExtreme, NormalizeSeverity("Extreme"))
	assert.Equal(t, SeveritySevere, NormalizeSeverity(" severe "))
	assert.Equal(t, SeverityModerate, NormalizeSeverity("MODERATE"))
	assert.Equal(t, SeverityMinor, NormalizeSeverity("Minor"))
	assert.Equal(t, SeverityUnknown, NormalizeSeverity("Possible"))
}
