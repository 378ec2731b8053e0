// Package summary generates the natural-language trip summary from the
// aggregated per-waypoint weather data.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/lib/trip"
)

const (
	systemPrompt = "You are a helpful travel weather assistant providing concise, driver-friendly weather summaries."

	// fallbackSummary is returned whenever the model is unavailable or
	// errors. Summary generation must never fail the request.
	fallbackSummary = "Route forecast generated successfully."

	maxTokens      = 300
	temperature    = 0.7
	requestTimeout = 8 * time.Second
)

// Summarizer produces a short trip summary via a chat completion model.
type Summarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSummarizer creates a Summarizer. With an empty API key the client stays
// nil and every call returns the fallback text.
func NewSummarizer(apiKey, model string, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Summarizer{model: model, logger: logger}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Summarize generates a 2-3 sentence driver-facing summary. Model failures
// degrade to a canned sentence rather than propagating an error.
func (s *Summarizer) Summarize(ctx context.Context, origin, destination string, waypoints []trip.WaypointWeather, packing []trip.PackingSuggestion) string {
	if s.client == nil {
		return fallbackSummary
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(origin, destination, waypoints, packing)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.logger.Warn("trip summary generation failed", zap.Error(err))
		return fallbackSummary
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallbackSummary
	}
	return resp.Choices[0].Message.Content
}

// BuildPrompt assembles the user prompt: one line per waypoint with weather
// data, deduplicated alert lines, and the top packing items.
func BuildPrompt(origin, destination string, waypoints []trip.WaypointWeather, packing []trip.PackingSuggestion) string {
	var lines []string
	alertSet := make(map[string]struct{})

	for _, wp := range waypoints {
		if wp.Weather != nil {
			name := wp.Waypoint.Name
			if name == "" {
				name = "Point"
			}
			unit := wp.Weather.TemperatureUnit
			if unit == "" {
				unit = "F"
			}
			eta := ""
			if wp.Waypoint.ArrivalTime != nil {
				eta = " ETA " + wp.Waypoint.ArrivalTime.Format("2006-01-02T15:04")
			}
			line := fmt.Sprintf("- %s (%.0f mi): %d°%s, %s, Wind: %s %s%s",
				name, wp.Waypoint.DistanceFromStartMiles,
				wp.Weather.Temperature, unit, wp.Weather.Conditions,
				strings.TrimSpace(wp.Weather.WindSpeedText),
				strings.TrimSpace(wp.Weather.WindDirection), eta)
			lines = append(lines, strings.TrimSpace(line))
		}
		for _, alert := range wp.Alerts {
			alertSet[fmt.Sprintf("- %s: %s", alert.Event, alert.Headline)] = struct{}{}
		}
	}

	weatherText := "No weather data available"
	if len(lines) > 0 {
		weatherText = strings.Join(lines, "\n")
	}

	alertsText := "No active alerts"
	if len(alertSet) > 0 {
		alertLines := make([]string, 0, len(alertSet))
		for line := range alertSet {
			alertLines = append(alertLines, line)
		}
		sort.Strings(alertLines)
		alertsText = strings.Join(alertLines, "\n")
	}

	packingText := "Standard travel items"
	if len(packing) > 0 {
		items := make([]string, 0, 5)
		for _, p := range packing {
			items = append(items, p.Item)
			if len(items) == 5 {
				break
			}
		}
		packingText = strings.Join(items, ", ")
	}

	return fmt.Sprintf(`Route: %s to %s

Weather along route:
%s

Active Alerts:
%s

Suggested packing: %s

Provide a 2-3 sentence summary focusing on:
1. Overall driving conditions
2. Any weather concerns or hazards
3. Key recommendations for the driver

Be concise and practical.
`, origin, destination, weatherText, alertsText, packingText)
}
