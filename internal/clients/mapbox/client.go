// Package mapbox wraps the Mapbox Geocoding v5 and Directions v5 APIs.
package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/lib/geo"
)

// ErrNoResults is returned when a geocoding query matches nothing.
var ErrNoResults = errors.New("no geocoding results")

// GeocodeResult is one resolved place.
type GeocodeResult struct {
	Name      string    `json:"name"`
	PlaceName string    `json:"placeName"`
	Location  geo.Point `json:"location"`
	Relevance float64   `json:"relevance"`
}

// Route is a computed driving route between two points.
type Route struct {
	Geometry        string  `json:"geometry"` // encoded polyline, 5 decimal places
	DistanceMiles   float64 `json:"distanceMiles"`
	DurationMinutes float64 `json:"durationMinutes"`
}

// Client provides access to the Mapbox APIs.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Mapbox client using the public API host.
func NewClient(token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:   token,
		baseURL: "https://api.mapbox.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Geocode resolves a free-text query to the best matching place.
func (c *Client) Geocode(ctx context.Context, query string) (*GeocodeResult, error) {
	results, err := c.geocode(ctx, query, 1, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}
	return &results[0], nil
}

// Autocomplete returns up to limit place suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]GeocodeResult, error) {
	if limit <= 0 {
		limit = 5
	}
	return c.geocode(ctx, query, limit, true)
}

// ReverseGeocode resolves coordinates to the nearest place.
func (c *Client) ReverseGeocode(ctx context.Context, point geo.Point) (*GeocodeResult, error) {
	// Mapbox uses lon,lat order.
	query := fmt.Sprintf("%.6f,%.6f", point.Longitude, point.Latitude)

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("limit", "1")

	requestURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(query), params.Encode())

	var response geocodingResponse
	if err := c.doJSON(ctx, requestURL, &response); err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}

	results := processFeatures(response.Features)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w at %.4f,%.4f", ErrNoResults, point.Latitude, point.Longitude)
	}
	return &results[0], nil
}

// Directions computes a driving route through the given points in order.
// Geometry is returned as an encoded polyline at 5 decimal places.
func (c *Client) Directions(ctx context.Context, points ...geo.Point) (*Route, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("directions needs at least 2 points, got %d", len(points))
	}

	coords := ""
	for i, p := range points {
		if i > 0 {
			coords += ";"
		}
		coords += fmt.Sprintf("%.6f,%.6f", p.Longitude, p.Latitude)
	}

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("geometries", "polyline")
	params.Set("overview", "full")

	requestURL := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s?%s",
		c.baseURL, coords, params.Encode())

	var response directionsResponse
	if err := c.doJSON(ctx, requestURL, &response); err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}

	if response.Code != "Ok" || len(response.Routes) == 0 {
		return nil, fmt.Errorf("no route found (code %q)", response.Code)
	}

	r := response.Routes[0]
	return &Route{
		Geometry:        r.Geometry,
		DistanceMiles:   r.Distance / 1609.34,
		DurationMinutes: r.Duration / 60,
	}, nil
}

func (c *Client) geocode(ctx context.Context, query string, limit int, autocomplete bool) ([]GeocodeResult, error) {
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("limit", fmt.Sprintf("%d", limit))
	if autocomplete {
		params.Set("autocomplete", "true")
	}

	requestURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(query), params.Encode())

	var response geocodingResponse
	if err := c.doJSON(ctx, requestURL, &response); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	return processFeatures(response.Features), nil
}

func (c *Client) doJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("mapbox rate limit exceeded")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid mapbox access token")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mapbox API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func processFeatures(features []geocodingFeature) []GeocodeResult {
	var results []GeocodeResult
	for _, f := range features {
		if len(f.Center) != 2 {
			continue
		}
		results = append(results, GeocodeResult{
			Name:      f.Text,
			PlaceName: f.PlaceName,
			Location:  geo.Point{Latitude: f.Center[1], Longitude: f.Center[0]},
			Relevance: f.Relevance,
		})
	}
	return results
}

// Mapbox API response types.

type geocodingResponse struct {
	Features []geocodingFeature `json:"features"`
}

type geocodingFeature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}

type directionsResponse struct {
	Code   string           `json:"code"`
	Routes []directionsLeg  `json:"routes"`
}

type directionsLeg struct {
	Geometry string  `json:"geometry"`
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}
