// Package trip holds the aggregate domain types assembled for a single
// route-weather request. Everything here is created per request, returned to
// the caller, and never mutated afterward.
package trip

import (
	"strings"
	"time"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/route"
)

// VehicleType identifies the vehicle profile used for safety scoring.
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleSUV        VehicleType = "suv"
	VehiclePickup     VehicleType = "pickup"
	VehicleSemiTruck  VehicleType = "semi-truck"
	VehicleRV         VehicleType = "rv"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTrailer    VehicleType = "trailer"
)

// ParseVehicleType normalizes client-supplied vehicle strings; unrecognized
// values fall back to car.
func ParseVehicleType(s string) VehicleType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suv":
		return VehicleSUV
	case "pickup", "truck":
		return VehiclePickup
	case "semi-truck", "semi", "semitruck":
		return VehicleSemiTruck
	case "rv", "motorhome", "rv/motorhome":
		return VehicleRV
	case "motorcycle":
		return VehicleMotorcycle
	case "trailer", "vehicle+trailer":
		return VehicleTrailer
	default:
		return VehicleCar
	}
}

// HighProfile reports whether the vehicle is tall enough to warrant wind and
// bridge-height advice.
func (v VehicleType) HighProfile() bool {
	return v == VehicleSemiTruck || v == VehicleRV || v == VehicleTrailer
}

// StopPoint is a named stop requested by the client.
type StopPoint struct {
	Location string `json:"location"`
	Type     string `json:"type,omitempty"` // stop, gas, food, rest
}

// Request is the single logical operation input.
type Request struct {
	Origin            string      `json:"origin" validate:"required"`
	Destination       string      `json:"destination" validate:"required"`
	Stops             []StopPoint `json:"stops,omitempty"`
	VehicleType       VehicleType `json:"vehicle_type,omitempty"`
	DepartureTime     *time.Time  `json:"departure_time,omitempty"`
	CheckBridges      bool        `json:"check_bridges,omitempty"`
	VehicleHeightFeet float64     `json:"vehicle_height_feet,omitempty"`
}

// WaypointWeather joins one waypoint with its weather lookup result. A failed
// lookup leaves Weather nil and records the reason in Error; the waypoint is
// still present in the result.
type WaypointWeather struct {
	Waypoint      route.Waypoint              `json:"waypoint"`
	Weather       *conditions.WeatherSnapshot `json:"weather,omitempty"`
	Alerts        []conditions.WeatherAlert   `json:"alerts,omitempty"`
	RoadCondition conditions.RoadCondition    `json:"road_condition"`
	Error         string                      `json:"error,omitempty"`
}

// HazardAlert is a driver-facing countdown entry, ordered soonest first.
type HazardAlert struct {
	Type           conditions.Category `json:"type"`
	Severity       int                 `json:"severity"`
	DistanceMiles  float64             `json:"distance_miles"`
	ETAMinutes     *int                `json:"eta_minutes,omitempty"`
	Message        string              `json:"message"`
	Recommendation string              `json:"recommendation"`
}

// RiskLevel is the discrete tier derived from the overall safety score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// SafetyScore is the immutable per-request risk assessment.
type SafetyScore struct {
	OverallScore        int         `json:"overall_score"`
	RiskLevel           RiskLevel   `json:"risk_level"`
	VehicleType         VehicleType `json:"vehicle_type"`
	ContributingFactors []string    `json:"contributing_factors"`
	Recommendations     []string    `json:"recommendations"`
}

// PackingSuggestion is one packing-list entry.
type PackingSuggestion struct {
	Item     string `json:"item"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"` // essential, recommended, optional
}

// RerouteAdvice is the reroute flag plus a human-readable reason referencing
// the worst hazard found.
type RerouteAdvice struct {
	Recommended bool   `json:"recommended"`
	Reason      string `json:"reason,omitempty"`
}

// DepartureWindow is the optimal-departure suggestion. ShiftMinutes of zero
// means no change is recommended.
type DepartureWindow struct {
	ShiftMinutes         int        `json:"shift_minutes"`
	RecommendedDeparture *time.Time `json:"recommended_departure,omitempty"`
	Reason               string     `json:"reason"`
}

// Result is the aggregate root returned for one request.
type Result struct {
	ID                   string                      `json:"id"`
	Origin               string                      `json:"origin"`
	Destination          string                      `json:"destination"`
	Stops                []StopPoint                 `json:"stops,omitempty"`
	DepartureTime        time.Time                   `json:"departure_time"`
	TotalDurationMinutes int                         `json:"total_duration_minutes,omitempty"`
	TotalDistanceMiles   float64                     `json:"total_distance_miles,omitempty"`
	RouteGeometry        string                      `json:"route_geometry"`
	Waypoints            []WaypointWeather           `json:"waypoints"`
	Alerts               []conditions.WeatherAlert   `json:"alerts"`
	Safety               SafetyScore                 `json:"safety_score"`
	Hazards              []HazardAlert               `json:"hazard_alerts"`
	Reroute              RerouteAdvice               `json:"reroute"`
	Packing              []PackingSuggestion         `json:"packing_suggestions"`
	DepartureWindow      DepartureWindow             `json:"departure_window"`
	Timeline             []conditions.HourlyForecast `json:"weather_timeline"`
	AISummary            string                      `json:"ai_summary,omitempty"`
	HasSevereWeather     bool                        `json:"has_severe_weather"`
	CreatedAt            time.Time                   `json:"created_at"`
}
