// Package advise derives the secondary recommendations (reroute, departure
// window, packing list, weather timeline) from classified waypoint data.
package advise

import (
	"fmt"

	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

// DefaultRerouteCoverageFraction is the share of route distance severity-3
// hazards must cover before a reroute is suggested on coverage alone.
const DefaultRerouteCoverageFraction = 0.25

// Reroute recommends an alternate route when severity-3 hazards cover more
// than coverageFraction of the route distance, or when the overall risk tier
// is critical. Each hazardous waypoint is treated as covering the stretch up
// to the next waypoint.
func Reroute(waypoints []trip.WaypointWeather, score trip.SafetyScore, coverageFraction float64) trip.RerouteAdvice {
	if coverageFraction <= 0 {
		coverageFraction = DefaultRerouteCoverageFraction
	}

	var worst *trip.WaypointWeather
	for i := range waypoints {
		cond := waypoints[i].RoadCondition
		if cond.Severity == 0 {
			continue
		}
		if worst == nil || cond.Severity > worst.RoadCondition.Severity {
			worst = &waypoints[i]
		}
	}

	coverage := severeCoverage(waypoints)

	switch {
	case coverage > coverageFraction:
		return trip.RerouteAdvice{
			Recommended: true,
			Reason: fmt.Sprintf("%s near %s affects %.0f%% of the route - consider an alternate route",
				worst.RoadCondition.Label, waypointName(*worst), coverage*100),
		}
	case score.RiskLevel == trip.RiskCritical:
		reason := "Overall trip risk is critical"
		if worst != nil {
			reason = fmt.Sprintf("Overall trip risk is critical due to %s near %s - consider an alternate route or delaying",
				worst.RoadCondition.Label, waypointName(*worst))
		}
		return trip.RerouteAdvice{Recommended: true, Reason: reason}
	default:
		return trip.RerouteAdvice{}
	}
}

// severeCoverage returns the fraction of total route distance covered by
// severity-3 waypoints.
func severeCoverage(waypoints []trip.WaypointWeather) float64 {
	if len(waypoints) < 2 {
		return 0
	}
	total := waypoints[len(waypoints)-1].Waypoint.DistanceFromStartMiles
	if total <= 0 {
		return 0
	}

	covered := 0.0
	for i := 0; i < len(waypoints)-1; i++ {
		if waypoints[i].RoadCondition.Severity == 3 {
			covered += waypoints[i+1].Waypoint.DistanceFromStartMiles - waypoints[i].Waypoint.DistanceFromStartMiles
		}
	}
	return covered / total
}

func waypointName(wp trip.WaypointWeather) string {
	if wp.Waypoint.Name != "" {
		return wp.Waypoint.Name
	}
	return fmt.Sprintf("mile %.0f", wp.Waypoint.DistanceFromStartMiles)
}
