package hazard

import (
	"fmt"
	"sort"

	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

// BuildCountdowns emits one hazard entry for every waypoint whose road
// condition is severity 2 or worse, or that has any active alert. Entries are
// sorted by ascending ETA (unknown ETA last), ties broken by descending
// severity.
func BuildCountdowns(waypoints []trip.WaypointWeather) []trip.HazardAlert {
	hazards := []trip.HazardAlert{}

	for _, wp := range waypoints {
		cond := wp.RoadCondition
		if cond.Severity < 2 && len(wp.Alerts) == 0 {
			continue
		}

		hazards = append(hazards, trip.HazardAlert{
			Type:           cond.Category,
			Severity:       cond.Severity,
			DistanceMiles:  wp.Waypoint.DistanceFromStartMiles,
			ETAMinutes:     wp.Waypoint.ETAMinutes,
			Message:        countdownMessage(cond.Label, wp.Waypoint.ETAMinutes, wp.Waypoint.DistanceFromStartMiles),
			Recommendation: cond.Recommendation,
		})
	}

	sort.SliceStable(hazards, func(i, j int) bool {
		a, b := hazards[i].ETAMinutes, hazards[j].ETAMinutes
		switch {
		case a == nil && b == nil:
			return hazards[i].Severity > hazards[j].Severity
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return hazards[i].Severity > hazards[j].Severity
		}
	})

	return hazards
}

func countdownMessage(label string, etaMinutes *int, miles float64) string {
	if etaMinutes != nil {
		return fmt.Sprintf("%s in %d min (%.1f mi)", label, *etaMinutes, miles)
	}
	return fmt.Sprintf("%s at mile %.0f", label, miles)
}
