// Package nws wraps the National Weather Service api.weather.gov endpoints
// for hourly forecasts and active alerts.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/geo"
)

const (
	hourlyPeriodLimit = 12
	alertLimit        = 5
	descriptionLimit  = 500
)

// Client provides access to the NWS API. NWS requires a User-Agent header
// identifying the application and a contact address.
type Client struct {
	userAgent  string
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an NWS client for the public api.weather.gov host.
func NewClient(userAgent string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		userAgent: userAgent,
		baseURL:   "https://api.weather.gov",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GetForecast retrieves the hourly forecast for a point. This is a two-step
// lookup: the points endpoint maps coordinates to a gridpoint forecast URL,
// which is then fetched for hourly periods.
func (c *Client) GetForecast(ctx context.Context, point geo.Point) (*conditions.WeatherSnapshot, error) {
	pointURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, point.Latitude, point.Longitude)

	var pr pointResponse
	if err := c.doJSON(ctx, pointURL, &pr); err != nil {
		return nil, fmt.Errorf("points lookup: %w", err)
	}
	if pr.Properties.ForecastHourly == "" {
		return nil, fmt.Errorf("points response has no hourly forecast URL")
	}

	var fr forecastResponse
	if err := c.doJSON(ctx, pr.Properties.ForecastHourly, &fr); err != nil {
		return nil, fmt.Errorf("hourly forecast: %w", err)
	}
	if len(fr.Properties.Periods) == 0 {
		return nil, fmt.Errorf("hourly forecast has no periods")
	}

	return processForecast(fr.Properties.Periods), nil
}

// GetAlerts retrieves active alerts covering a point.
func (c *Client) GetAlerts(ctx context.Context, point geo.Point) ([]conditions.WeatherAlert, error) {
	alertURL := fmt.Sprintf("%s/alerts?point=%.4f,%.4f", c.baseURL, point.Latitude, point.Longitude)

	var ar alertResponse
	if err := c.doJSON(ctx, alertURL, &ar); err != nil {
		return nil, fmt.Errorf("alerts lookup: %w", err)
	}

	features := ar.Features
	if len(features) > alertLimit {
		features = features[:alertLimit]
	}

	var alerts []conditions.WeatherAlert
	for _, f := range features {
		description := truncateRunes(f.Properties.Description, descriptionLimit)
		alerts = append(alerts, conditions.WeatherAlert{
			ID:          f.Properties.ID,
			Headline:    f.Properties.Headline,
			Severity:    conditions.NormalizeSeverity(f.Properties.Severity),
			Event:       f.Properties.Event,
			Description: description,
			Areas:       f.Properties.AreaDesc,
		})
	}
	return alerts, nil
}

func (c *Client) doJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("NWS API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// processForecast converts NWS hourly periods into a normalized snapshot.
// The first period is the current conditions; up to twelve periods are kept
// for timeline and departure-window use.
func processForecast(periods []forecastPeriod) *conditions.WeatherSnapshot {
	if len(periods) > hourlyPeriodLimit {
		periods = periods[:hourlyPeriodLimit]
	}

	var hourly []conditions.HourlyForecast
	for _, p := range periods {
		start, _ := time.Parse(time.RFC3339, p.StartTime)
		hourly = append(hourly, conditions.HourlyForecast{
			Time:          start,
			Temperature:   p.Temperature,
			Conditions:    p.ShortForecast,
			Kind:          conditions.NormalizeKind(p.ShortForecast),
			WindSpeedMph:  ParseWindMph(p.WindSpeed),
			WindSpeedText: p.WindSpeed,
			PrecipChance:  p.ProbabilityOfPrecipitation.Value,
		})
	}

	current := periods[0]
	return &conditions.WeatherSnapshot{
		Temperature:     current.Temperature,
		TemperatureUnit: current.TemperatureUnit,
		WindSpeedMph:    ParseWindMph(current.WindSpeed),
		WindSpeedText:   current.WindSpeed,
		WindDirection:   current.WindDirection,
		Conditions:      current.ShortForecast,
		Kind:            conditions.NormalizeKind(current.ShortForecast),
		HumidityPercent: current.RelativeHumidity.Value,
		IsDaytime:       current.IsDaytime,
		Hourly:          hourly,
	}
}

// truncateRunes caps s at limit runes. Alert descriptions may contain
// multi-byte characters, so truncation must never split one.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// ParseWindMph extracts the maximum speed from NWS wind text such as
// "10 mph" or "10 to 20 mph". Unparseable text yields zero.
func ParseWindMph(text string) float64 {
	max := 0.0
	for _, field := range strings.Fields(text) {
		if v, err := strconv.ParseFloat(field, 64); err == nil && v > max {
			max = v
		}
	}
	return max
}

// NWS API response types.

type pointResponse struct {
	Properties struct {
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}

type forecastPeriod struct {
	StartTime                  string     `json:"startTime"`
	IsDaytime                  bool       `json:"isDaytime"`
	Temperature                int        `json:"temperature"`
	TemperatureUnit            string     `json:"temperatureUnit"`
	WindSpeed                  string     `json:"windSpeed"`
	WindDirection              string     `json:"windDirection"`
	ShortForecast              string     `json:"shortForecast"`
	RelativeHumidity           valueField `json:"relativeHumidity"`
	ProbabilityOfPrecipitation valueField `json:"probabilityOfPrecipitation"`
}

type valueField struct {
	Value *int `json:"value"`
}

type alertResponse struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Properties struct {
		ID          string `json:"id"`
		Headline    string `json:"headline"`
		Severity    string `json:"severity"`
		Event       string `json:"event"`
		Description string `json:"description"`
		AreaDesc    string `json:"areaDesc"`
	} `json:"properties"`
}
