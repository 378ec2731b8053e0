package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/lib/geo"
)

type cachedForecast struct {
	Temperature int    `json:"temperature"`
	Conditions  string `json:"conditions"`
}

func TestSetAndGet(t *testing.T) {
	c := New(zap.NewNop())

	stored := cachedForecast{Temperature: 28, Conditions: "Light Snow"}
	require.NoError(t, c.Set("weather:39.7392,-104.9903:2026011508", stored, 10*time.Minute, "nws"))

	var got cachedForecast
	found, err := c.Get("weather:39.7392,-104.9903:2026011508", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stored, got)
}

func TestGetMissingKey(t *testing.T) {
	c := New(zap.NewNop())

	var got cachedForecast
	found, err := c.Get("weather:0.0000,0.0000:2026011508", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStaleness(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(zap.NewNop(), clock)

	require.NoError(t, c.Set("k", cachedForecast{Temperature: 55}, 10*time.Minute, "nws"))
	assert.False(t, c.IsStale("k"))
	assert.False(t, c.IsVeryStale("k"))

	clock.Advance(11 * time.Minute)
	assert.True(t, c.IsStale("k"))
	assert.False(t, c.IsVeryStale("k"))

	var got cachedForecast
	found, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, found, "stale entries must not be served by Get")

	// Metadata access still works for degraded fallback decisions.
	entry, exists, err := c.GetWithMetadata("k", &got)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, 55, got.Temperature)
	assert.Equal(t, "nws", entry.Source)

	clock.Advance(10 * time.Minute)
	assert.True(t, c.IsVeryStale("k"))
}

func TestCleanupStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(zap.NewNop(), clock)

	require.NoError(t, c.Set("short", 1, time.Minute, "test"))
	require.NoError(t, c.Set("long", 2, time.Hour, "test"))

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, c.CleanupStale())
	assert.ElementsMatch(t, []string{"long"}, c.Keys())
}

func TestStats(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(zap.NewNop(), clock)

	require.NoError(t, c.Set("fresh", 1, time.Hour, "test"))
	require.NoError(t, c.Set("stale", 2, time.Minute, "test"))
	clock.Advance(5 * time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.FreshEntries)
	assert.Equal(t, 1, stats.StaleEntries)
}

func TestWeatherKeyBucketsByHour(t *testing.T) {
	at := time.Date(2026, 1, 15, 8, 42, 0, 0, time.UTC)
	a := WeatherKey(39.73921, -104.99030, at)
	b := WeatherKey(39.73921, -104.99030, at.Add(10*time.Minute))
	c := WeatherKey(39.73921, -104.99030, at.Add(time.Hour))

	assert.Equal(t, "weather:39.7392,-104.9903:2026011508", a)
	assert.Equal(t, a, b, "lookups within the same hour share a key")
	assert.NotEqual(t, a, c)
}

func TestRouteKeyIncludesEveryPoint(t *testing.T) {
	denver := geo.Point{Latitude: 39.7392, Longitude: -104.9903}
	cheyenne := geo.Point{Latitude: 41.1400, Longitude: -104.8202}
	fortLupt := geo.Point{Latitude: 40.5000, Longitude: -104.9000}

	direct := RouteKey(denver, cheyenne)
	assert.Equal(t, "route:39.7392,-104.9903:41.1400,-104.8202", direct)

	withStop := RouteKey(denver, fortLupt, cheyenne)
	assert.NotEqual(t, direct, withStop, "adding a stop changes the route key")
}
