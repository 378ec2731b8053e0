// Package hazard derives route-level hazard views from classified waypoints:
// the deduplicated alert list and the driver-facing hazard countdowns.
package hazard

import (
	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

// DedupeAlerts merges alerts seen at multiple waypoints into one route-level
// list. Identity is the provider id only; each distinct id appears exactly
// once, in order of first appearance. Idempotent.
func DedupeAlerts(waypoints []trip.WaypointWeather) []conditions.WeatherAlert {
	seen := make(map[string]struct{})
	// Non-nil so an alert-free route serializes as an empty list.
	deduped := []conditions.WeatherAlert{}

	for _, wp := range waypoints {
		for _, alert := range wp.Alerts {
			if _, ok := seen[alert.ID]; ok {
				continue
			}
			seen[alert.ID] = struct{}{}
			deduped = append(deduped, alert)
		}
	}

	return deduped
}
