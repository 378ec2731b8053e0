// Package services contains the route weather orchestration: geocode,
// route, sample, fan out weather lookups, classify, and assemble the
// aggregate result.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lhildreth66/routecast-app/internal/cache"
	"github.com/lhildreth66/routecast-app/internal/clients/mapbox"
	"github.com/lhildreth66/routecast-app/internal/lib/advise"
	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/geo"
	"github.com/lhildreth66/routecast-app/internal/lib/hazard"
	"github.com/lhildreth66/routecast-app/internal/lib/route"
	"github.com/lhildreth66/routecast-app/internal/lib/safety"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
	"github.com/lhildreth66/routecast-app/internal/observability"
)

// Geocoder resolves free-text locations to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*mapbox.GeocodeResult, error)
}

// Router computes a driving route through ordered points.
type Router interface {
	Directions(ctx context.Context, points ...geo.Point) (*mapbox.Route, error)
}

// WeatherProvider fetches the forecast and active alerts for a point.
type WeatherProvider interface {
	GetForecast(ctx context.Context, point geo.Point) (*conditions.WeatherSnapshot, error)
	GetAlerts(ctx context.Context, point geo.Point) ([]conditions.WeatherAlert, error)
}

// Summarizer produces the optional natural-language trip summary.
type Summarizer interface {
	Summarize(ctx context.Context, origin, destination string, waypoints []trip.WaypointWeather, packing []trip.PackingSuggestion) string
}

// RouteWeatherConfig carries every tunable the engine exposes. Zero values
// fall back to the documented defaults.
type RouteWeatherConfig struct {
	SamplingIntervalMiles   float64
	StopAttachMaxMiles      float64
	MaxConcurrentLookups    int
	PerLookupTimeout        time.Duration
	Thresholds              conditions.Thresholds
	Weights                 safety.Weights
	RerouteCoverageFraction float64
	Window                  advise.WindowConfig
	WeatherCacheTTL         time.Duration
	GeocodeCacheTTL         time.Duration
	RouteCacheTTL           time.Duration
}

// DefaultRouteWeatherConfig returns the baseline configuration.
func DefaultRouteWeatherConfig() RouteWeatherConfig {
	return RouteWeatherConfig{
		SamplingIntervalMiles:   route.Defaults().IntervalMiles,
		StopAttachMaxMiles:      route.Defaults().StopAttachMaxMiles,
		MaxConcurrentLookups:    8,
		PerLookupTimeout:        8 * time.Second,
		Thresholds:              conditions.DefaultThresholds(),
		Weights:                 safety.DefaultWeights(),
		RerouteCoverageFraction: advise.DefaultRerouteCoverageFraction,
		Window:                  advise.DefaultWindowConfig(),
		WeatherCacheTTL:         10 * time.Minute,
		GeocodeCacheTTL:         24 * time.Hour,
		RouteCacheTTL:           10 * time.Minute,
	}
}

// RouteWeather orchestrates one route weather computation end to end.
type RouteWeather struct {
	geocoder   Geocoder
	router     Router
	weather    WeatherProvider
	summarizer Summarizer
	cache      *cache.Cache
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      clockwork.Clock
	cfg        RouteWeatherConfig
}

// NewRouteWeather wires the orchestrator. summarizer may be nil, in which
// case no AI summary is produced.
func NewRouteWeather(geocoder Geocoder, router Router, weather WeatherProvider, summarizer Summarizer,
	store *cache.Cache, metrics *observability.Metrics, logger *zap.Logger, clock clockwork.Clock,
	cfg RouteWeatherConfig) *RouteWeather {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.MaxConcurrentLookups <= 0 {
		cfg.MaxConcurrentLookups = DefaultRouteWeatherConfig().MaxConcurrentLookups
	}
	if cfg.PerLookupTimeout <= 0 {
		cfg.PerLookupTimeout = DefaultRouteWeatherConfig().PerLookupTimeout
	}
	return &RouteWeather{
		geocoder:   geocoder,
		router:     router,
		weather:    weather,
		summarizer: summarizer,
		cache:      store,
		metrics:    metrics,
		logger:     logger,
		clock:      clock,
		cfg:        cfg,
	}
}

// ComputeRouteWeather runs the full pipeline for one request. Geocoding of
// origin/destination, routing, and sampling failures are fatal; individual
// waypoint weather lookups degrade in place.
func (s *RouteWeather) ComputeRouteWeather(ctx context.Context, req trip.Request) (*trip.Result, error) {
	departure := s.clock.Now()
	if req.DepartureTime != nil {
		departure = *req.DepartureTime
	}
	vehicle := trip.ParseVehicleType(string(req.VehicleType))

	origin, err := s.geocodeCached(ctx, req.Origin)
	if err != nil {
		s.countRequest("error")
		return nil, fmt.Errorf("could not geocode origin %q: %w", req.Origin, err)
	}
	destination, err := s.geocodeCached(ctx, req.Destination)
	if err != nil {
		s.countRequest("error")
		return nil, fmt.Errorf("could not geocode destination %q: %w", req.Destination, err)
	}

	// Failed stop geocodes degrade: the route is computed without them.
	routePoints := []geo.Point{origin.Location}
	var hints []route.StopHint
	for _, stop := range req.Stops {
		resolved, err := s.geocodeCached(ctx, stop.Location)
		if err != nil {
			s.logger.Warn("skipping unresolvable stop",
				zap.String("stop", stop.Location), zap.Error(err))
			continue
		}
		routePoints = append(routePoints, resolved.Location)
		hints = append(hints, route.StopHint{Name: resolved.Name, Point: resolved.Location})
	}
	routePoints = append(routePoints, destination.Location)

	directions, err := s.directionsCached(ctx, routePoints)
	if err != nil {
		s.countRequest("error")
		return nil, fmt.Errorf("routing failed: %w", err)
	}

	geometry, err := geo.DecodePolyline(directions.Geometry)
	if err != nil {
		s.countRequest("error")
		return nil, fmt.Errorf("route geometry: %w", err)
	}

	waypoints, err := route.Sample(geometry, directions.DurationMinutes, departure, hints, route.SamplerConfig{
		IntervalMiles:      s.cfg.SamplingIntervalMiles,
		StopAttachMaxMiles: s.cfg.StopAttachMaxMiles,
	})
	if err != nil {
		s.countRequest("error")
		return nil, fmt.Errorf("route sampling: %w", err)
	}

	joined := s.joinWeather(ctx, waypoints)

	for i := range joined {
		joined[i].RoadCondition = conditions.Classify(joined[i].Weather, joined[i].Alerts, s.cfg.Thresholds)
	}

	routeAlerts := hazard.DedupeAlerts(joined)
	hazards := hazard.BuildCountdowns(joined)
	score := safety.Score(joined, vehicle, s.cfg.Weights)
	reroute := advise.Reroute(joined, score, s.cfg.RerouteCoverageFraction)
	window := advise.DriveWindow(joined, departure, s.cfg.Thresholds, s.cfg.Window)
	packing := advise.Packing(joined)
	timeline := advise.Timeline(joined)

	hasSevere := false
	for _, alert := range routeAlerts {
		if alert.Severity.Rank() >= conditions.SeveritySevere.Rank() {
			hasSevere = true
			break
		}
	}
	if hasSevere && s.metrics != nil {
		s.metrics.SevereRoutes.Inc()
	}

	aiSummary := ""
	if s.summarizer != nil {
		aiSummary = s.summarizer.Summarize(ctx, origin.PlaceName, destination.PlaceName, joined, packing)
	}

	s.countRequest("success")
	s.logger.Info("route weather computed",
		zap.String("origin", origin.PlaceName),
		zap.String("destination", destination.PlaceName),
		zap.Int("waypoints", len(joined)),
		zap.Int("hazards", len(hazards)),
		zap.Int("score", score.OverallScore))

	return &trip.Result{
		ID:                   uuid.NewString(),
		Origin:               origin.PlaceName,
		Destination:          destination.PlaceName,
		Stops:                req.Stops,
		DepartureTime:        departure,
		TotalDurationMinutes: int(directions.DurationMinutes),
		TotalDistanceMiles:   directions.DistanceMiles,
		RouteGeometry:        directions.Geometry,
		Waypoints:            joined,
		Alerts:               routeAlerts,
		Safety:               score,
		Hazards:              hazards,
		Reroute:              reroute,
		Packing:              packing,
		DepartureWindow:      window,
		Timeline:             timeline,
		AISummary:            aiSummary,
		HasSevereWeather:     hasSevere,
		CreatedAt:            s.clock.Now(),
	}, nil
}

// joinWeather fans out per-waypoint forecast and alert lookups with bounded
// parallelism. The output has exactly one entry per waypoint in input order;
// a failed lookup leaves Weather nil and records the reason.
func (s *RouteWeather) joinWeather(ctx context.Context, waypoints []route.Waypoint) []trip.WaypointWeather {
	joined := make([]trip.WaypointWeather, len(waypoints))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrentLookups)

	for i := range waypoints {
		i := i
		g.Go(func() error {
			joined[i] = s.lookupWaypoint(groupCtx, waypoints[i])
			return nil
		})
	}
	// Lookups never return errors; degradation is recorded per waypoint.
	_ = g.Wait()

	return joined
}

// cachedWeather is the serialized cache value for one waypoint lookup.
type cachedWeather struct {
	Snapshot *conditions.WeatherSnapshot `json:"snapshot"`
	Alerts   []conditions.WeatherAlert   `json:"alerts"`
}

func (s *RouteWeather) lookupWaypoint(ctx context.Context, wp route.Waypoint) trip.WaypointWeather {
	result := trip.WaypointWeather{Waypoint: wp}

	lookupTime := s.clock.Now()
	if wp.ArrivalTime != nil {
		lookupTime = *wp.ArrivalTime
	}
	key := cache.WeatherKey(wp.Point.Latitude, wp.Point.Longitude, lookupTime)

	if s.cache != nil {
		var cached cachedWeather
		if found, err := s.cache.Get(key, &cached); err == nil && found {
			s.countCache("weather", "hit")
			result.Weather = cached.Snapshot
			result.Alerts = cached.Alerts
			return result
		}
		s.countCache("weather", "miss")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.PerLookupTimeout)
	defer cancel()

	start := s.clock.Now()
	snapshot, err := s.weather.GetForecast(lookupCtx, wp.Point)
	if err != nil {
		s.countLookup(outcomeFor(err))
		result.Error = fmt.Sprintf("weather lookup failed: %v", err)
		s.logger.Warn("waypoint weather lookup failed",
			zap.String("waypoint", wp.Name), zap.Error(err))
		return result
	}

	// Align the snapshot with the expected arrival hour when the forecast
	// covers it.
	result.Weather = snapshotAt(snapshot, wp.ArrivalTime)

	alerts, err := s.weather.GetAlerts(lookupCtx, wp.Point)
	if err != nil {
		// Forecast without alerts is still useful; record the partial failure.
		result.Error = fmt.Sprintf("alert lookup failed: %v", err)
		s.logger.Warn("waypoint alert lookup failed",
			zap.String("waypoint", wp.Name), zap.Error(err))
	} else {
		result.Alerts = alerts
	}

	s.countLookup("success")
	if s.metrics != nil {
		s.metrics.WeatherLookupSeconds.Observe(s.clock.Since(start).Seconds())
	}

	if s.cache != nil && result.Error == "" {
		if err := s.cache.Set(key, cachedWeather{Snapshot: result.Weather, Alerts: result.Alerts},
			s.cfg.WeatherCacheTTL, "nws"); err != nil {
			s.logger.Warn("failed to cache weather lookup", zap.Error(err))
		}
	}

	return result
}

// snapshotAt overlays the hourly period covering the arrival time onto the
// snapshot's current conditions. Without an arrival time, or when no period
// covers it, the snapshot is returned unchanged.
func snapshotAt(snapshot *conditions.WeatherSnapshot, arrival *time.Time) *conditions.WeatherSnapshot {
	if snapshot == nil || arrival == nil || len(snapshot.Hourly) == 0 {
		return snapshot
	}

	var selected *conditions.HourlyForecast
	for i := range snapshot.Hourly {
		if snapshot.Hourly[i].Time.After(*arrival) {
			break
		}
		selected = &snapshot.Hourly[i]
	}
	if selected == nil {
		return snapshot
	}

	adjusted := *snapshot
	adjusted.Temperature = selected.Temperature
	adjusted.Conditions = selected.Conditions
	adjusted.Kind = selected.Kind
	adjusted.WindSpeedMph = selected.WindSpeedMph
	adjusted.WindSpeedText = selected.WindSpeedText
	return &adjusted
}

func outcomeFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

func (s *RouteWeather) geocodeCached(ctx context.Context, query string) (*mapbox.GeocodeResult, error) {
	key := cache.GeocodeKey(query)

	if s.cache != nil {
		var cached mapbox.GeocodeResult
		if found, err := s.cache.Get(key, &cached); err == nil && found {
			s.countCache("geocode", "hit")
			return &cached, nil
		}
		s.countCache("geocode", "miss")
	}

	result, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, result, s.cfg.GeocodeCacheTTL, "mapbox"); err != nil {
			s.logger.Warn("failed to cache geocode result", zap.Error(err))
		}
	}
	return result, nil
}

// directionsCached wraps the routing provider with the shared cache. Routes
// between the same resolved points change far less often than the weather
// along them.
func (s *RouteWeather) directionsCached(ctx context.Context, points []geo.Point) (*mapbox.Route, error) {
	key := cache.RouteKey(points...)

	if s.cache != nil {
		var cached mapbox.Route
		if found, err := s.cache.Get(key, &cached); err == nil && found {
			s.countCache("route", "hit")
			return &cached, nil
		}
		s.countCache("route", "miss")
	}

	directions, err := s.router.Directions(ctx, points...)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, directions, s.cfg.RouteCacheTTL, "mapbox"); err != nil {
			s.logger.Warn("failed to cache directions", zap.Error(err))
		}
	}
	return directions, nil
}

func (s *RouteWeather) countRequest(outcome string) {
	if s.metrics != nil {
		s.metrics.RouteRequests.WithLabelValues(outcome).Inc()
	}
}

func (s *RouteWeather) countLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.WeatherLookups.WithLabelValues(outcome).Inc()
	}
}

func (s *RouteWeather) countCache(kind, result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(kind, result).Inc()
	}
}
