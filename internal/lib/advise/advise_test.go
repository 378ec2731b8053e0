package advise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/route"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

func wp(miles float64, severity int, category conditions.Category, label string) trip.WaypointWeather {
	return trip.WaypointWeather{
		Waypoint: route.Waypoint{DistanceFromStartMiles: miles, Name: ""},
		RoadCondition: conditions.RoadCondition{
			Category: category,
			Severity: severity,
			Label:    label,
		},
	}
}

func TestRerouteOnSevereCoverage(t *testing.T) {
	// Severity-3 conditions from mile 20 to mile 80 of a 100 mile route.
	waypoints := []trip.WaypointWeather{
		wp(0, 0, conditions.CategoryDry, "Clear roads"),
		wp(20, 3, conditions.CategoryIcy, "Black ice likely"),
		wp(50, 3, conditions.CategoryIcy, "Black ice likely"),
		wp(80, 0, conditions.CategoryDry, "Clear roads"),
		wp(100, 0, conditions.CategoryDry, "Clear roads"),
	}
	score := trip.SafetyScore{RiskLevel: trip.RiskHigh}

	advice := Reroute(waypoints, score, 0.25)
	require.True(t, advice.Recommended)
	assert.Contains(t, advice.Reason, "Black ice likely")
	assert.Contains(t, advice.Reason, "60%")
}

func TestRerouteOnCriticalScore(t *testing.T) {
	waypoints := []trip.WaypointWeather{
		wp(0, 0, conditions.CategoryDry, "Clear roads"),
		wp(50, 3, conditions.CategoryStorm, "Thunderstorms"),
		wp(100, 0, conditions.CategoryDry, "Clear roads"),
	}
	score := trip.SafetyScore{RiskLevel: trip.RiskCritical}

	advice := Reroute(waypoints, score, 0.9)
	require.True(t, advice.Recommended)
	assert.Contains(t, advice.Reason, "critical")
	assert.Contains(t, advice.Reason, "Thunderstorms")
}

func TestRerouteNotRecommendedOnClearRoute(t *testing.T) {
	waypoints := []trip.WaypointWeather{
		wp(0, 0, conditions.CategoryDry, "Clear roads"),
		wp(50, 1, conditions.CategoryWet, "Wet roads"),
		wp(100, 0, conditions.CategoryDry, "Clear roads"),
	}
	score := trip.SafetyScore{RiskLevel: trip.RiskLow}

	advice := Reroute(waypoints, score, 0.25)
	assert.False(t, advice.Recommended)
	assert.Empty(t, advice.Reason)
}

// forecastWaypoint builds a waypoint whose hourly forecast is hazardous
// during [hazardStart, hazardEnd) hours after base and clear otherwise.
func forecastWaypoint(base time.Time, arrivalOffset time.Duration, hazardStart, hazardEnd int) trip.WaypointWeather {
	arrival := base.Add(arrivalOffset)
	var hourly []conditions.HourlyForecast
	for h := -4; h < 12; h++ {
		text := "Sunny"
		temp := 55
		if h >= hazardStart && h < hazardEnd {
			text = "Heavy Snow"
			temp = 25
		}
		hourly = append(hourly, conditions.HourlyForecast{
			Time:        base.Add(time.Duration(h) * time.Hour),
			Temperature: temp,
			Conditions:  text,
			Kind:        conditions.NormalizeKind(text),
		})
	}

	return trip.WaypointWeather{
		Waypoint: route.Waypoint{ArrivalTime: &arrival},
		Weather:  &conditions.WeatherSnapshot{Hourly: hourly},
	}
}

func TestDriveWindowRecommendsEarlierDeparture(t *testing.T) {
	departure := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	// Snow during local hours H+0 through H+1 at both waypoints. Shifting
	// one hour either way still leaves one waypoint in snow; two hours
	// earlier clears both, and earlier wins the tie with two hours later.
	waypoints := []trip.WaypointWeather{
		forecastWaypoint(departure, 0, 0, 2),
		forecastWaypoint(departure, time.Hour, 0, 2),
	}

	window := DriveWindow(waypoints, departure, conditions.DefaultThresholds(), DefaultWindowConfig())
	require.NotZero(t, window.ShiftMinutes)
	assert.Equal(t, -120, window.ShiftMinutes)
	require.NotNil(t, window.RecommendedDeparture)
	assert.Equal(t, departure.Add(-2*time.Hour), *window.RecommendedDeparture)
	assert.Contains(t, window.Reason, "earlier")
}

func TestDriveWindowNoChangeWhenAlreadyClear(t *testing.T) {
	departure := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	waypoints := []trip.WaypointWeather{
		forecastWaypoint(departure, 0, 99, 99), // never hazardous
		forecastWaypoint(departure, time.Hour, 99, 99),
	}

	window := DriveWindow(waypoints, departure, conditions.DefaultThresholds(), DefaultWindowConfig())
	assert.Zero(t, window.ShiftMinutes)
	assert.Nil(t, window.RecommendedDeparture)
	assert.Equal(t, "no change recommended", window.Reason)
}

func TestDriveWindowIgnoresShiftsOutsideForecastCoverage(t *testing.T) {
	departure := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	// Snow at every forecast hour, but coverage only starts at departure.
	// Leaving earlier moves arrivals before the first period, where nothing
	// can be evaluated; that must not count as an improvement.
	snowedIn := func(arrivalOffset time.Duration) trip.WaypointWeather {
		arrival := departure.Add(arrivalOffset)
		var hourly []conditions.HourlyForecast
		for h := 0; h < 12; h++ {
			hourly = append(hourly, conditions.HourlyForecast{
				Time:        departure.Add(time.Duration(h) * time.Hour),
				Temperature: 25,
				Conditions:  "Heavy Snow",
				Kind:        conditions.KindSnow,
			})
		}
		return trip.WaypointWeather{
			Waypoint: route.Waypoint{ArrivalTime: &arrival},
			Weather:  &conditions.WeatherSnapshot{Hourly: hourly},
		}
	}

	waypoints := []trip.WaypointWeather{
		snowedIn(0),
		snowedIn(time.Hour),
	}

	window := DriveWindow(waypoints, departure, conditions.DefaultThresholds(), DefaultWindowConfig())
	assert.Zero(t, window.ShiftMinutes)
	assert.Nil(t, window.RecommendedDeparture)
	assert.Equal(t, "no change recommended", window.Reason)
}

func TestDriveWindowNoChangeWithoutForecastData(t *testing.T) {
	departure := time.Now()
	waypoints := []trip.WaypointWeather{
		wp(0, 3, conditions.CategoryIcy, "Black ice likely"),
	}

	window := DriveWindow(waypoints, departure, conditions.DefaultThresholds(), DefaultWindowConfig())
	assert.Zero(t, window.ShiftMinutes)
}

func weatherWaypoint(temp int, text string, windMph float64) trip.WaypointWeather {
	return trip.WaypointWeather{
		Weather: &conditions.WeatherSnapshot{
			Temperature:  temp,
			Conditions:   text,
			Kind:         conditions.NormalizeKind(text),
			WindSpeedMph: windMph,
		},
	}
}

func TestPackingColdSnowyRoute(t *testing.T) {
	waypoints := []trip.WaypointWeather{
		weatherWaypoint(28, "Snow Showers", 10),
		weatherWaypoint(35, "Cloudy", 8),
	}

	suggestions := Packing(waypoints)
	items := make(map[string]string)
	for _, s := range suggestions {
		items[s.Item] = s.Priority
	}

	assert.Equal(t, "essential", items["Warm jacket"])
	assert.Equal(t, "essential", items["Gloves & hat"])
	assert.Equal(t, "essential", items["Snow gear & emergency kit"])
	assert.Equal(t, "essential", items["Phone charger"])
	assert.LessOrEqual(t, len(suggestions), 8)
}

func TestPackingDeduplicatesItems(t *testing.T) {
	// Rain at several waypoints must suggest rain gear once.
	waypoints := []trip.WaypointWeather{
		weatherWaypoint(55, "Rain", 5),
		weatherWaypoint(54, "Heavy Rain", 5),
		weatherWaypoint(56, "Drizzle", 5),
	}

	suggestions := Packing(waypoints)
	count := 0
	for _, s := range suggestions {
		if s.Item == "Umbrella/rain jacket" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPackingAlwaysIncludesStaples(t *testing.T) {
	suggestions := Packing(nil)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Phone charger", suggestions[0].Item)
	assert.Equal(t, "Snacks & water", suggestions[1].Item)
}

func TestTimelineMergesAndSorts(t *testing.T) {
	base := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	mk := func(offsets ...int) []conditions.HourlyForecast {
		var out []conditions.HourlyForecast
		for _, h := range offsets {
			out = append(out, conditions.HourlyForecast{
				Time:        base.Add(time.Duration(h) * time.Hour),
				Temperature: 50 + h,
			})
		}
		return out
	}

	waypoints := []trip.WaypointWeather{
		{Weather: &conditions.WeatherSnapshot{Hourly: mk(2, 3, 4, 5, 6, 7)}},
		{Weather: &conditions.WeatherSnapshot{Hourly: mk(0, 1, 2, 3)}}, // 2 and 3 are duplicates
		{Weather: nil},
	}

	timeline := Timeline(waypoints)
	require.Len(t, timeline, 6) // hours 0-5, deduplicated, capped periods per waypoint

	for i := 1; i < len(timeline); i++ {
		assert.True(t, timeline[i-1].Time.Before(timeline[i].Time))
	}
	assert.Equal(t, base, timeline[0].Time)
}
