// Package config loads the service configuration from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the service exposes. Defaults match the
// documented engine baselines; only the Mapbox token is required.
type Config struct {
	Port         string `mapstructure:"PORT"`
	MapboxToken  string `mapstructure:"MAPBOX_TOKEN"`
	NWSUserAgent string `mapstructure:"NWS_USER_AGENT"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`

	SamplingIntervalMiles   float64       `mapstructure:"SAMPLING_INTERVAL_MILES"`
	StopAttachMaxMiles      float64       `mapstructure:"STOP_ATTACH_MAX_MILES"`
	MaxConcurrentLookups    int           `mapstructure:"MAX_CONCURRENT_LOOKUPS"`
	PerLookupTimeout        time.Duration `mapstructure:"PER_LOOKUP_TIMEOUT"`
	WeatherCacheTTL         time.Duration `mapstructure:"WEATHER_CACHE_TTL"`
	GeocodeCacheTTL         time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`
	RouteCacheTTL           time.Duration `mapstructure:"ROUTE_CACHE_TTL"`
	CacheCleanupInterval    time.Duration `mapstructure:"CACHE_CLEANUP_INTERVAL"`
	RerouteCoverageFraction float64       `mapstructure:"REROUTE_COVERAGE_FRACTION"`

	// Road condition classifier cutoffs.
	FreezingTempF float64 `mapstructure:"FREEZING_TEMP_F"`
	SlushMaxTempF float64 `mapstructure:"SLUSH_MAX_TEMP_F"`
	WindyMph      float64 `mapstructure:"WINDY_MPH"`

	// Safety score penalties per severity tier.
	Severity1Penalty float64 `mapstructure:"SEVERITY_1_PENALTY"`
	Severity2Penalty float64 `mapstructure:"SEVERITY_2_PENALTY"`
	Severity3Penalty float64 `mapstructure:"SEVERITY_3_PENALTY"`

	// Departure window search bounds.
	WindowMaxShift time.Duration `mapstructure:"WINDOW_MAX_SHIFT"`
	WindowStep     time.Duration `mapstructure:"WINDOW_STEP"`
}

// Load reads configuration from the environment and an optional .env file in
// path. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MapboxToken == "" {
		return nil, fmt.Errorf("MAPBOX_TOKEN is required")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Keys need a registered default for AutomaticEnv values to survive
	// Unmarshal, including the secrets that default to unset.
	v.SetDefault("MAPBOX_TOKEN", "")
	v.SetDefault("OPENAI_API_KEY", "")

	v.SetDefault("PORT", "8080")
	v.SetDefault("NWS_USER_AGENT", "routecast/1.0 (routecast.app)")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	v.SetDefault("SAMPLING_INTERVAL_MILES", 50.0)
	v.SetDefault("STOP_ATTACH_MAX_MILES", 10.0)
	v.SetDefault("MAX_CONCURRENT_LOOKUPS", 8)
	v.SetDefault("PER_LOOKUP_TIMEOUT", "8s")
	v.SetDefault("WEATHER_CACHE_TTL", "10m")
	v.SetDefault("GEOCODE_CACHE_TTL", "24h")
	v.SetDefault("ROUTE_CACHE_TTL", "10m")
	v.SetDefault("CACHE_CLEANUP_INTERVAL", "5m")
	v.SetDefault("REROUTE_COVERAGE_FRACTION", 0.25)

	v.SetDefault("FREEZING_TEMP_F", 32.0)
	v.SetDefault("SLUSH_MAX_TEMP_F", 40.0)
	v.SetDefault("WINDY_MPH", 30.0)

	v.SetDefault("SEVERITY_1_PENALTY", 3.0)
	v.SetDefault("SEVERITY_2_PENALTY", 8.0)
	v.SetDefault("SEVERITY_3_PENALTY", 18.0)

	v.SetDefault("WINDOW_MAX_SHIFT", "3h")
	v.SetDefault("WINDOW_STEP", "1h")
}
