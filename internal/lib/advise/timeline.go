package advise

import (
	"sort"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

const (
	timelinePeriodsPerWaypoint = 4
	maxTimelineEntries         = 12
)

// Timeline merges the first few hourly periods of each waypoint into one
// deduplicated, time-sorted forecast strip for the whole route.
func Timeline(waypoints []trip.WaypointWeather) []conditions.HourlyForecast {
	timeline := []conditions.HourlyForecast{}
	seen := make(map[int64]struct{})

	for _, wp := range waypoints {
		if wp.Weather == nil {
			continue
		}
		periods := wp.Weather.Hourly
		if len(periods) > timelinePeriodsPerWaypoint {
			periods = periods[:timelinePeriodsPerWaypoint]
		}
		for _, period := range periods {
			key := period.Time.Unix()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			timeline = append(timeline, period)
		}
	}

	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Time.Before(timeline[j].Time)
	})

	if len(timeline) > maxTimelineEntries {
		timeline = timeline[:maxTimelineEntries]
	}
	return timeline
}
