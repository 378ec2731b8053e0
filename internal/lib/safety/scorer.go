// Package safety combines classified waypoints, the vehicle profile, and
// route length into a single 0-100 score with a discrete risk tier.
package safety

import (
	"fmt"
	"math"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

// Weights holds the per-severity point penalties. The legacy implementations
// disagreed on exact values, so they are configurable.
type Weights struct {
	Severity1 float64 `json:"severity_1"`
	Severity2 float64 `json:"severity_2"`
	Severity3 float64 `json:"severity_3"`
}

// DefaultWeights returns the reference baseline penalties.
func DefaultWeights() Weights {
	return Weights{Severity1: 3, Severity2: 8, Severity3: 18}
}

// Vehicle sensitivity multipliers. Wind hits high-profile vehicles twice as
// hard; ice, snow and slush are substantially worse on two wheels.
const (
	windMultiplierHighProfile = 2.0
	winterMultiplierMotorbike = 1.5
)

// Score assesses one classified route for a vehicle profile. The score starts
// at 100 and each waypoint subtracts a penalty proportional to its condition
// severity, scaled for vehicle sensitivity, then clamps to [0,100].
//
// The risk tier follows the score thresholds (80/60/40) but is floored at
// "high" whenever any severity-3 hazard exists, and at "critical" when an
// extreme alert is active or severity-3 hazards cover most of the route. A
// single patch of black ice is a serious problem no matter how clear the
// rest of the drive looks, and the score alone cannot express that.
func Score(waypoints []trip.WaypointWeather, vehicle trip.VehicleType, weights Weights) trip.SafetyScore {
	score := 100.0
	worstSeverity := 0
	severe3Count := 0
	unknownCount := 0
	extremeAlert := false
	categoryCounts := make(map[conditions.Category]int)
	var categoryOrder []conditions.Category

	for _, wp := range waypoints {
		cond := wp.RoadCondition

		if cond.Category == conditions.CategoryUnknown {
			unknownCount++
			continue
		}

		if cond.Severity > 0 {
			if categoryCounts[cond.Category] == 0 {
				categoryOrder = append(categoryOrder, cond.Category)
			}
			categoryCounts[cond.Category]++
		}
		if cond.Severity > worstSeverity {
			worstSeverity = cond.Severity
		}
		if cond.Severity == 3 {
			severe3Count++
		}

		score -= penalty(cond, vehicle, weights)

		for _, alert := range wp.Alerts {
			if alert.Severity == conditions.SeverityExtreme {
				extremeAlert = true
			}
		}
	}

	score = math.Max(0, math.Min(100, score))
	rounded := int(math.Round(score))

	level := tierFromScore(rounded)
	if worstSeverity == 3 && riskRank(level) < riskRank(trip.RiskHigh) {
		level = trip.RiskHigh
	}
	if extremeAlert || (len(waypoints) > 0 && severe3Count*2 >= len(waypoints)) {
		level = trip.RiskCritical
	}

	return trip.SafetyScore{
		OverallScore:        rounded,
		RiskLevel:           level,
		VehicleType:         vehicle,
		ContributingFactors: factors(categoryOrder, categoryCounts, unknownCount, len(waypoints)),
		Recommendations:     recommendations(categoryOrder, vehicle),
	}
}

func penalty(cond conditions.RoadCondition, vehicle trip.VehicleType, weights Weights) float64 {
	var base float64
	switch cond.Severity {
	case 1:
		base = weights.Severity1
	case 2:
		base = weights.Severity2
	case 3:
		base = weights.Severity3
	default:
		return 0
	}

	switch cond.Category {
	case conditions.CategoryWindy:
		if vehicle.HighProfile() {
			base *= windMultiplierHighProfile
		}
	case conditions.CategoryIcy, conditions.CategorySnow, conditions.CategorySlush:
		if vehicle == trip.VehicleMotorcycle {
			base *= winterMultiplierMotorbike
		}
	}

	return base
}

func riskRank(level trip.RiskLevel) int {
	switch level {
	case trip.RiskCritical:
		return 3
	case trip.RiskHigh:
		return 2
	case trip.RiskModerate:
		return 1
	default:
		return 0
	}
}

func tierFromScore(score int) trip.RiskLevel {
	switch {
	case score >= 80:
		return trip.RiskLow
	case score >= 60:
		return trip.RiskModerate
	case score >= 40:
		return trip.RiskHigh
	default:
		return trip.RiskCritical
	}
}

func factors(order []conditions.Category, counts map[conditions.Category]int, unknown, total int) []string {
	out := []string{}
	for _, category := range order {
		n := counts[category]
		noun := "waypoints"
		if n == 1 {
			noun = "waypoint"
		}
		out = append(out, fmt.Sprintf("%s conditions at %d %s", category, n, noun))
	}
	if unknown > 0 {
		out = append(out, fmt.Sprintf("limited weather data for %d of %d waypoints", unknown, total))
	}
	return out
}

func recommendations(order []conditions.Category, vehicle trip.VehicleType) []string {
	if len(order) == 0 {
		return []string{conditions.Advice(conditions.CategoryDry)}
	}

	var out []string
	hasWind := false
	hasWinter := false
	for _, category := range order {
		out = append(out, conditions.Advice(category))
		switch category {
		case conditions.CategoryWindy:
			hasWind = true
		case conditions.CategoryIcy, conditions.CategorySnow, conditions.CategorySlush:
			hasWinter = true
		}
	}

	if hasWind && vehicle.HighProfile() {
		out = append(out, "High winds are hazardous for tall vehicles - reduce speed and watch for gusts on open stretches")
	}
	if hasWinter && vehicle == trip.VehicleMotorcycle {
		out = append(out, "Winter road conditions are not advised on two wheels - consider alternate transport")
	}

	return out
}
