package conditions

// advice is the static per-category recommendation table. Every consumer of
// road conditions (hazard list, safety score, summary text) reads from this
// single table.
var advice = map[Category]string{
	CategoryHazard:  "Active weather alert for this area - review details before traveling",
	CategoryIcy:     "Reduce speed significantly and increase following distance",
	CategorySnow:    "Winter driving conditions - carry chains and emergency supplies",
	CategorySlush:   "Slush reduces traction - drive cautiously and avoid sudden braking",
	CategoryFog:     "Use low beams and reduce speed until visibility improves",
	CategoryWet:     "Allow extra braking distance on wet pavement",
	CategoryStorm:   "Heavy rain and lightning possible - consider delaying travel",
	CategoryWindy:   "Keep both hands on the wheel - high-profile vehicles use caution",
	CategoryDry:     "Normal driving conditions",
	CategoryUnknown: "Weather data unavailable for this point",
}

// Advice returns the static recommendation for a category.
func Advice(category Category) string {
	return advice[category]
}

// Classify maps a weather snapshot plus active alerts to a road-surface
// hazard category. Rules are evaluated in fixed priority order and the first
// match wins. A nil snapshot yields CategoryUnknown, which is deliberately
// distinct from a verified-dry reading so scoring can tell "no data" apart
// from "confirmed safe".
func Classify(snapshot *WeatherSnapshot, alerts []WeatherAlert, th Thresholds) RoadCondition {
	if len(alerts) > 0 {
		worst := alerts[0]
		for _, a := range alerts[1:] {
			if a.Severity.Rank() > worst.Severity.Rank() {
				worst = a
			}
		}
		label := worst.Event
		if label == "" {
			label = "Weather alert"
		}
		return RoadCondition{Category: CategoryHazard, Severity: 3, Label: label, Recommendation: advice[CategoryHazard]}
	}

	if snapshot == nil {
		return RoadCondition{Category: CategoryUnknown, Severity: 0, Label: "no data", Recommendation: advice[CategoryUnknown]}
	}

	temp := float64(snapshot.Temperature)
	kind := snapshot.Kind
	if kind == "" {
		kind = NormalizeKind(snapshot.Conditions)
	}

	switch {
	case temp <= th.FreezingF && (kind == KindRain || kind == KindDrizzle || kind == KindFreezing):
		return RoadCondition{Category: CategoryIcy, Severity: 3, Label: "Black ice likely", Recommendation: advice[CategoryIcy]}
	case temp <= th.FreezingF && kind == KindSnow:
		return RoadCondition{Category: CategorySnow, Severity: 2, Label: "Snow-covered roads", Recommendation: advice[CategorySnow]}
	case temp <= th.SlushMaxF && kind == KindSnow:
		return RoadCondition{Category: CategorySlush, Severity: 2, Label: "Slushy roads", Recommendation: advice[CategorySlush]}
	case kind == KindFog:
		return RoadCondition{Category: CategoryFog, Severity: 2, Label: "Limited visibility", Recommendation: advice[CategoryFog]}
	case kind == KindRain || kind == KindDrizzle || kind == KindFreezing:
		// Freezing precipitation reported above the freezing cutoff is
		// still falling rain at road level.
		return RoadCondition{Category: CategoryWet, Severity: 1, Label: "Wet roads", Recommendation: advice[CategoryWet]}
	case kind == KindThunderstorm:
		return RoadCondition{Category: CategoryStorm, Severity: 3, Label: "Thunderstorms", Recommendation: advice[CategoryStorm]}
	case snapshot.WindSpeedMph > th.WindyMph:
		return RoadCondition{Category: CategoryWindy, Severity: 2, Label: "High winds", Recommendation: advice[CategoryWindy]}
	default:
		return RoadCondition{Category: CategoryDry, Severity: 0, Label: "Clear roads", Recommendation: advice[CategoryDry]}
	}
}

// ClassifyHourly classifies a single hourly forecast period. Used by the
// departure-window evaluation, which re-runs classification against shifted
// forecast data.
func ClassifyHourly(h HourlyForecast, th Thresholds) RoadCondition {
	kind := h.Kind
	if kind == "" {
		kind = NormalizeKind(h.Conditions)
	}
	snapshot := &WeatherSnapshot{
		Temperature:  h.Temperature,
		WindSpeedMph: h.WindSpeedMph,
		Conditions:   h.Conditions,
		Kind:         kind,
	}
	return Classify(snapshot, nil, th)
}
