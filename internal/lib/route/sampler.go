package route

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lhildreth66/routecast-app/internal/lib/geo"
)

// Waypoint is a sampled point along the route geometry carrying cumulative
// distance and, when route duration is known, an estimated arrival.
type Waypoint struct {
	Point                  geo.Point  `json:"point"`
	Name                   string     `json:"name,omitempty"`
	DistanceFromStartMiles float64    `json:"distance_from_start_miles"`
	ETAMinutes             *int       `json:"eta_minutes,omitempty"`
	ArrivalTime            *time.Time `json:"arrival_time,omitempty"`
}

// StopHint labels a sampled waypoint near a named stop.
type StopHint struct {
	Name  string
	Point geo.Point
}

// SamplerConfig controls waypoint spacing. Zero values fall back to the
// defaults used by Defaults().
type SamplerConfig struct {
	IntervalMiles      float64
	StopAttachMaxMiles float64
}

// Defaults returns the standard sampling configuration: one waypoint roughly
// every 50 miles, stop labels attached within 10 miles.
func Defaults() SamplerConfig {
	return SamplerConfig{IntervalMiles: 50, StopAttachMaxMiles: 10}
}

// ErrNoGeometry is returned when the decoded geometry has no coordinates at
// all; nothing can be sampled from it.
var ErrNoGeometry = errors.New("route geometry has no coordinates")

// Sample walks a decoded geometry and produces an ordered waypoint list. The
// first and last coordinates are always included; interior waypoints are
// emitted at approximately IntervalMiles spacing so the count stays bounded
// regardless of geometry density. Duplicate consecutive coordinates
// contribute zero distance and are skipped. totalDurationMinutes <= 0 means
// the route duration is unknown and ETAs are left unset.
func Sample(points []geo.Point, totalDurationMinutes float64, departure time.Time, hints []StopHint, cfg SamplerConfig) ([]Waypoint, error) {
	if len(points) == 0 {
		return nil, ErrNoGeometry
	}
	if cfg.IntervalMiles <= 0 {
		cfg.IntervalMiles = Defaults().IntervalMiles
	}
	if cfg.StopAttachMaxMiles <= 0 {
		cfg.StopAttachMaxMiles = Defaults().StopAttachMaxMiles
	}

	// Degenerate geometry: a single coordinate still yields a start/end pair.
	if len(points) == 1 {
		points = []geo.Point{points[0], points[0]}
	}

	// Cumulative distance at each coordinate index, skipping zero-length
	// segments from duplicated coordinates.
	cumulative := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		segment, err := geo.MilesBetween(points[i-1], points[i])
		if err != nil {
			return nil, fmt.Errorf("invalid geometry at index %d: %w", i, err)
		}
		total += segment
		cumulative[i] = total
	}

	eta := func(miles float64) (*int, *time.Time) {
		if totalDurationMinutes <= 0 {
			return nil, nil
		}
		minutes := 0
		if total > 0 {
			minutes = int(math.Round(totalDurationMinutes * miles / total))
		}
		arrival := departure.Add(time.Duration(minutes) * time.Minute)
		return &minutes, &arrival
	}

	startETA, startArrival := eta(0)
	waypoints := []Waypoint{{
		Point:       points[0],
		Name:        "Start",
		ETAMinutes:  startETA,
		ArrivalTime: startArrival,
	}}

	lastSampled := 0.0
	for i := 1; i < len(points)-1; i++ {
		if cumulative[i] == cumulative[i-1] {
			continue // duplicate coordinate
		}
		if cumulative[i]-lastSampled < cfg.IntervalMiles {
			continue
		}
		mins, arrival := eta(cumulative[i])
		waypoints = append(waypoints, Waypoint{
			Point:                  points[i],
			Name:                   fmt.Sprintf("Mile %d", int(cumulative[i])),
			DistanceFromStartMiles: round1(cumulative[i]),
			ETAMinutes:             mins,
			ArrivalTime:            arrival,
		})
		lastSampled = cumulative[i]
	}

	endETA, endArrival := eta(total)
	waypoints = append(waypoints, Waypoint{
		Point:                  points[len(points)-1],
		Name:                   "Destination",
		DistanceFromStartMiles: round1(total),
		ETAMinutes:             endETA,
		ArrivalTime:            endArrival,
	})

	attachStopHints(waypoints, hints, cfg.StopAttachMaxMiles)

	return waypoints, nil
}

// attachStopHints labels the closest interior waypoint to each named stop.
func attachStopHints(waypoints []Waypoint, hints []StopHint, maxMiles float64) {
	for _, hint := range hints {
		bestIdx := -1
		bestDist := maxMiles
		for i := 1; i < len(waypoints)-1; i++ {
			d, err := geo.MilesBetween(waypoints[i].Point, hint.Point)
			if err != nil {
				continue
			}
			if d <= bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			waypoints[bestIdx].Name = hint.Name
		}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
