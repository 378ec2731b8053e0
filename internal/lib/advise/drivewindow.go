package advise

import (
	"fmt"
	"time"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

// WindowConfig bounds the departure-window search.
type WindowConfig struct {
	MaxShift time.Duration
	Step     time.Duration
}

// DefaultWindowConfig searches shifts of up to three hours in one-hour steps.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{MaxShift: 3 * time.Hour, Step: time.Hour}
}

// DriveWindow proposes a shifted departure time when a bounded shift reduces
// the number of hazardous (severity >= 2) stretches, re-evaluating each
// waypoint's classification against its hourly forecast offset by the
// candidate shift. Ties prefer the smallest shift magnitude, earlier over
// later. If no shift beats leaving as planned, no change is recommended.
func DriveWindow(waypoints []trip.WaypointWeather, departure time.Time, th conditions.Thresholds, cfg WindowConfig) trip.DepartureWindow {
	if cfg.MaxShift <= 0 || cfg.Step <= 0 {
		cfg = DefaultWindowConfig()
	}

	baseline, baselineEvaluable := hazardousCount(waypoints, departure, 0, th)

	bestShift := time.Duration(0)
	bestCount := baseline
	for shift := cfg.Step; shift <= cfg.MaxShift; shift += cfg.Step {
		// Earlier before later at equal magnitude.
		for _, candidate := range []time.Duration{-shift, shift} {
			count, evaluable := hazardousCount(waypoints, departure, candidate, th)
			// A shift that pushes waypoints outside forecast coverage
			// lowers the count without proving anything. Only compare
			// shifts evaluated against at least as much data as the
			// unshifted departure.
			if evaluable < baselineEvaluable {
				continue
			}
			if count < bestCount {
				bestCount = count
				bestShift = candidate
			}
		}
	}

	if bestShift == 0 {
		return trip.DepartureWindow{Reason: "no change recommended"}
	}

	recommended := departure.Add(bestShift)
	direction := "later"
	if bestShift < 0 {
		direction = "earlier"
	}
	minutes := int(bestShift / time.Minute)
	if minutes < 0 {
		minutes = -minutes
	}

	return trip.DepartureWindow{
		ShiftMinutes:         int(bestShift / time.Minute),
		RecommendedDeparture: &recommended,
		Reason: fmt.Sprintf("Leaving %d min %s reduces hazardous stretches from %d to %d",
			minutes, direction, baseline, bestCount),
	}
}

// hazardousCount counts waypoints that classify at severity >= 2 when their
// arrival time is offset by shift, along with how many waypoints had forecast
// data covering the shifted arrival. Waypoints without hourly forecast data
// cannot be re-evaluated and are skipped; active-alert waypoints are not
// time-shiftable either, so classification here ignores alerts.
func hazardousCount(waypoints []trip.WaypointWeather, departure time.Time, shift time.Duration, th conditions.Thresholds) (hazardous, evaluable int) {
	for _, wp := range waypoints {
		if wp.Weather == nil || len(wp.Weather.Hourly) == 0 {
			continue
		}

		arrival := departure
		if wp.Waypoint.ArrivalTime != nil {
			arrival = *wp.Waypoint.ArrivalTime
		}
		arrival = arrival.Add(shift)

		period, ok := periodAt(wp.Weather.Hourly, arrival)
		if !ok {
			continue
		}
		evaluable++
		if conditions.ClassifyHourly(period, th).Severity >= 2 {
			hazardous++
		}
	}
	return hazardous, evaluable
}

// periodAt selects the hourly period covering t: the latest period starting
// at or before t. Times before the first period have no usable forecast.
func periodAt(hourly []conditions.HourlyForecast, t time.Time) (conditions.HourlyForecast, bool) {
	var selected conditions.HourlyForecast
	found := false
	for _, period := range hourly {
		if period.Time.After(t) {
			break
		}
		selected = period
		found = true
	}
	return selected, found
}
