package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/clients/mapbox"
	"github.com/lhildreth66/routecast-app/internal/lib/geo"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

type stubService struct {
	result *trip.Result
	err    error
	gotReq trip.Request
}

func (s *stubService) ComputeRouteWeather(_ context.Context, req trip.Request) (*trip.Result, error) {
	s.gotReq = req
	return s.result, s.err
}

type stubGeocoder struct {
	results []mapbox.GeocodeResult
	err     error
}

func (s *stubGeocoder) Autocomplete(_ context.Context, _ string, _ int) ([]mapbox.GeocodeResult, error) {
	return s.results, s.err
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouteWeatherEndpoint(t *testing.T) {
	svc := &stubService{result: &trip.Result{
		ID:     "r-1",
		Origin: "Denver, Colorado", Destination: "Cheyenne, Wyoming",
		Safety: trip.SafetyScore{OverallScore: 82, RiskLevel: trip.RiskHigh},
	}}
	srv := New(svc, nil, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/route/weather", `{
		"origin": "Denver, CO",
		"destination": "Cheyenne, WY",
		"vehicle_type": "semi",
		"departure_time": "2026-01-15T08:00:00Z"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result trip.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "r-1", result.ID)
	assert.Equal(t, 82, result.Safety.OverallScore)

	assert.Equal(t, trip.VehicleSemiTruck, svc.gotReq.VehicleType)
	require.NotNil(t, svc.gotReq.DepartureTime)
	assert.Equal(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC), svc.gotReq.DepartureTime.UTC())
}

func TestRouteWeatherValidation(t *testing.T) {
	srv := New(&stubService{}, nil, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/route/weather", `{"origin": "Denver, CO"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, srv.Handler(), "/api/route/weather", `{"origin": "A", "destination": "B", "departure_time": "tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "RFC 3339")
}

func TestRouteWeatherGeocodeFailureIs400(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("could not geocode origin: %w", mapbox.ErrNoResults)}
	srv := New(svc, nil, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/route/weather", `{"origin": "Nowhere", "destination": "B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteWeatherUpstreamFailureIs502(t *testing.T) {
	svc := &stubService{err: errors.New("routing failed: upstream down")}
	srv := New(svc, nil, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/route/weather", `{"origin": "A", "destination": "B"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGeocodeEndpoint(t *testing.T) {
	geocoder := &stubGeocoder{results: []mapbox.GeocodeResult{
		{Name: "Denver", PlaceName: "Denver, Colorado", Location: geo.Point{Latitude: 39.7392, Longitude: -104.9903}},
	}}
	srv := New(&stubService{}, geocoder, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/geocode", `{"query": "Denv"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Denver, Colorado")
}

func TestGeocodeRequiresQuery(t *testing.T) {
	srv := New(&stubService{}, &stubGeocoder{}, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/geocode", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeocodeDisabled(t *testing.T) {
	srv := New(&stubService{}, nil, zap.NewNop())

	rec := postJSON(t, srv.Handler(), "/api/geocode", `{"query": "Denv"}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(&stubService{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(&stubService{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
