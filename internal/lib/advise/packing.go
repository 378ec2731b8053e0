package advise

import (
	"fmt"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

const maxPackingSuggestions = 8

// Packing maps the conditions present along the route to a packing list.
// Items suggested by multiple hazards appear once; the list is capped at
// eight entries, essentials first by construction.
func Packing(waypoints []trip.WaypointWeather) []trip.PackingSuggestion {
	var temps []int
	hasRain, hasSnow, hasWind, hasSun := false, false, false, false

	for _, wp := range waypoints {
		if wp.Weather == nil {
			continue
		}
		temps = append(temps, wp.Weather.Temperature)

		switch wp.Weather.Kind {
		case conditions.KindRain, conditions.KindDrizzle, conditions.KindThunderstorm:
			hasRain = true
		case conditions.KindSnow, conditions.KindFreezing:
			hasSnow = true
		case conditions.KindWindy:
			hasWind = true
		case conditions.KindClear:
			hasSun = true
		}
		if wp.Weather.WindSpeedMph >= 15 {
			hasWind = true
		}
	}

	var out []trip.PackingSuggestion
	seen := make(map[string]struct{})
	add := func(item, reason, priority string) {
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		out = append(out, trip.PackingSuggestion{Item: item, Reason: reason, Priority: priority})
	}

	if len(temps) > 0 {
		minTemp, maxTemp := temps[0], temps[0]
		for _, t := range temps[1:] {
			if t < minTemp {
				minTemp = t
			}
			if t > maxTemp {
				maxTemp = t
			}
		}

		if minTemp < 40 {
			add("Warm jacket", fmt.Sprintf("Temperatures as low as %d°F expected", minTemp), "essential")
		}
		if minTemp < 32 {
			add("Gloves & hat", "Freezing temperatures along route", "essential")
		}
		if maxTemp > 85 {
			add("Extra water", fmt.Sprintf("High temperatures up to %d°F", maxTemp), "essential")
		}
		if maxTemp-minTemp > 20 {
			add("Layers", fmt.Sprintf("Temperature range of %d°F", maxTemp-minTemp), "recommended")
		}
	}

	if hasRain {
		add("Umbrella/rain jacket", "Rain expected along route", "essential")
	}
	if hasSnow {
		add("Snow gear & emergency kit", "Snow conditions expected", "essential")
	}
	if hasWind {
		add("Windbreaker", "Windy conditions expected", "recommended")
	}
	if hasSun {
		add("Sunglasses", "Sunny conditions expected", "recommended")
		add("Sunscreen", "Sun exposure during drive", "optional")
	}

	add("Phone charger", "Keep devices charged for navigation", "essential")
	add("Snacks & water", "Stay hydrated and energized", "recommended")

	if len(out) > maxPackingSuggestions {
		out = out[:maxPackingSuggestions]
	}
	return out
}
