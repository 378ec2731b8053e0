package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pk.test", cfg.MapboxToken)
	assert.Equal(t, 50.0, cfg.SamplingIntervalMiles)
	assert.Equal(t, 8, cfg.MaxConcurrentLookups)
	assert.Equal(t, 8*time.Second, cfg.PerLookupTimeout)
	assert.Equal(t, 10*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 0.25, cfg.RerouteCoverageFraction)
	assert.Equal(t, 32.0, cfg.FreezingTempF)
	assert.Equal(t, 18.0, cfg.Severity3Penalty)
	assert.Equal(t, 3*time.Hour, cfg.WindowMaxShift)
	assert.Equal(t, time.Hour, cfg.WindowStep)
}

func TestLoadRequiresMapboxToken(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("SAMPLING_INTERVAL_MILES", "25")
	t.Setenv("PER_LOOKUP_TIMEOUT", "4s")
	t.Setenv("WINDY_MPH", "25")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.SamplingIntervalMiles)
	assert.Equal(t, 4*time.Second, cfg.PerLookupTimeout)
	assert.Equal(t, 25.0, cfg.WindyMph)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PORT=9090\nOPENAI_MODEL=gpt-4o\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
}
