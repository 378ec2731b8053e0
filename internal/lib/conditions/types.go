package conditions

import "time"

// Kind is the closed condition-category enum that free-text provider
// forecasts are normalized into. Classification operates on Kind, never on
// raw text, so rule evaluation stays deterministic.
type Kind string

const (
	KindClear        Kind = "clear"
	KindCloudy       Kind = "cloudy"
	KindRain         Kind = "rain"
	KindDrizzle      Kind = "drizzle"
	KindFreezing     Kind = "freezing"
	KindSnow         Kind = "snow"
	KindFog          Kind = "fog"
	KindThunderstorm Kind = "thunderstorm"
	KindWindy        Kind = "windy"
	KindUnknown      Kind = "unknown"
)

// WeatherSnapshot is a normalized point-in-time forecast for one waypoint.
// A nil snapshot means the lookup failed; snapshots are never partially
// populated with invented values.
type WeatherSnapshot struct {
	Temperature     int              `json:"temperature"`
	TemperatureUnit string           `json:"temperature_unit"`
	WindSpeedMph    float64          `json:"wind_speed_mph"`
	WindSpeedText   string           `json:"wind_speed,omitempty"`
	WindDirection   string           `json:"wind_direction,omitempty"`
	Conditions      string           `json:"conditions"`
	Kind            Kind             `json:"condition_kind"`
	HumidityPercent *int             `json:"humidity,omitempty"`
	IsDaytime       bool             `json:"is_daytime"`
	Sunrise         string           `json:"sunrise,omitempty"`
	Sunset          string           `json:"sunset,omitempty"`
	Hourly          []HourlyForecast `json:"hourly_forecast,omitempty"`
}

// HourlyForecast is one period of a waypoint's hourly forecast.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	Temperature   int       `json:"temperature"`
	Conditions    string    `json:"conditions"`
	Kind          Kind      `json:"condition_kind"`
	WindSpeedMph  float64   `json:"wind_speed_mph"`
	WindSpeedText string    `json:"wind_speed,omitempty"`
	PrecipChance  *int      `json:"precipitation_chance,omitempty"`
}

// AlertSeverity is the normalized severity tier of a weather alert.
type AlertSeverity string

const (
	SeverityMinor    AlertSeverity = "minor"
	SeverityModerate AlertSeverity = "moderate"
	SeveritySevere   AlertSeverity = "severe"
	SeverityExtreme  AlertSeverity = "extreme"
	SeverityUnknown  AlertSeverity = "unknown"
)

// Rank orders severities for comparison; higher is worse.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityExtreme:
		return 4
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// WeatherAlert is an active alert from the weather provider. Identity is the
// provider id: two alerts with the same id anywhere on the route are the same
// alert.
type WeatherAlert struct {
	ID          string        `json:"id"`
	Headline    string        `json:"headline"`
	Severity    AlertSeverity `json:"severity"`
	Event       string        `json:"event"`
	Description string        `json:"description"`
	Areas       string        `json:"areas,omitempty"`
}

// Category is the discrete road-surface hazard classification.
type Category string

const (
	CategoryDry     Category = "dry"
	CategoryWet     Category = "wet"
	CategoryIcy     Category = "icy"
	CategorySnow    Category = "snow"
	CategorySlush   Category = "slush"
	CategoryFog     Category = "fog"
	CategoryStorm   Category = "storm"
	CategoryWindy   Category = "windy"
	CategoryHazard  Category = "hazard"
	CategoryUnknown Category = "unknown"
)

// RoadCondition is the classifier output: derived, never stored, recomputed
// from a snapshot on demand.
type RoadCondition struct {
	Category       Category `json:"category"`
	Severity       int      `json:"severity"`
	Label          string   `json:"label"`
	Recommendation string   `json:"recommendation"`
}

// Thresholds holds the numeric cutoffs used by the classifier. The legacy
// implementations disagreed on exact values, so they are configurable rather
// than hard-coded.
type Thresholds struct {
	FreezingF float64 `json:"freezing_f"`
	SlushMaxF float64 `json:"slush_max_f"`
	WindyMph  float64 `json:"windy_mph"`
}

// DefaultThresholds returns the reference baseline cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FreezingF: 32,
		SlushMaxF: 40,
		WindyMph:  30,
	}
}
