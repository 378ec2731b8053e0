// Package cache provides thread-safe in-memory caching with TTL for
// geocoding results and per-waypoint weather lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/lib/geo"
)

// Cache is an in-memory key/value store. Values are serialized to JSON so
// entries are immutable once stored.
type Cache struct {
	entries map[string]*Entry
	mutex   sync.RWMutex
	clock   clockwork.Clock
	logger  *zap.Logger
}

// Entry is a cached item with freshness metadata.
type Entry struct {
	Key             string        `json:"key"`
	Data            []byte        `json:"data"`
	CreatedAt       time.Time     `json:"createdAt"`
	ExpiresAt       time.Time     `json:"expiresAt"`
	RefreshInterval time.Duration `json:"refreshInterval"`
	Source          string        `json:"source"`
}

// New creates an empty cache using the wall clock.
func New(logger *zap.Logger) *Cache {
	return NewWithClock(logger, clockwork.NewRealClock())
}

// NewWithClock creates an empty cache with an injectable clock for tests.
func NewWithClock(logger *zap.Logger, clock clockwork.Clock) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]*Entry),
		clock:   clock,
		logger:  logger,
	}
}

// Set stores data under key with a TTL of refreshInterval.
func (c *Cache) Set(key string, data interface{}, refreshInterval time.Duration, source string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	now := c.clock.Now()
	entry := &Entry{
		Key:             key,
		Data:            jsonData,
		CreatedAt:       now,
		ExpiresAt:       now.Add(refreshInterval),
		RefreshInterval: refreshInterval,
		Source:          source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = entry
	return nil
}

// Get retrieves data into result if the entry exists and is fresh.
func (c *Cache) Get(key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || c.IsStale(key) {
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// IsStale reports whether the entry is missing or past its expiration.
func (c *Cache) IsStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}
	return c.clock.Now().After(entry.ExpiresAt)
}

// IsVeryStale reports whether the entry is missing or older than twice its
// refresh interval. Very stale entries should not be served even as a
// degraded fallback.
func (c *Cache) IsVeryStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}
	return c.clock.Now().After(entry.CreatedAt.Add(entry.RefreshInterval * 2))
}

// GetWithMetadata retrieves data and entry metadata even when the entry is
// stale. The caller decides how to handle staleness.
func (c *Cache) GetWithMetadata(key string, result interface{}) (*Entry, bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if result != nil {
		if err := json.Unmarshal(entry.Data, result); err != nil {
			return entry, true, fmt.Errorf("failed to unmarshal cached data: %w", err)
		}
	}
	return entry, true, nil
}

// Delete removes an entry.
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]*Entry)
}

// Keys returns all cache keys.
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns usage statistics.
func (c *Cache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.clock.Now()
	stats := Stats{TotalEntries: len(c.entries)}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}
	return stats
}

// Stats provides cache usage statistics.
type Stats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	OldestEntry  time.Time
	NewestEntry  time.Time
}

// CleanupStale removes all expired entries and returns the count removed.
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.clock.Now()
	var removed int
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartPeriodicCleanup removes stale entries on a fixed interval until the
// context is cancelled.
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := c.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if removed := c.CleanupStale(); removed > 0 {
					c.logger.Debug("cache cleanup removed stale entries",
						zap.Int("removed", removed))
				}
			}
		}
	}()
}

// WeatherKey builds the cache key for a weather lookup. Coordinates are
// rounded to four decimal places (~36 feet) and bucketed by hour so nearby
// waypoints within the same hour share an entry.
func WeatherKey(lat, lon float64, t time.Time) string {
	return fmt.Sprintf("weather:%.4f,%.4f:%s", lat, lon, t.UTC().Format("2006010215"))
}

// GeocodeKey builds the cache key for a forward geocoding lookup.
func GeocodeKey(query string) string {
	return fmt.Sprintf("geocode:%s", query)
}

// RouteKey builds the cache key for a directions lookup through the given
// ordered points (origin, stops, destination).
func RouteKey(points ...geo.Point) string {
	var b strings.Builder
	b.WriteString("route")
	for _, p := range points {
		fmt.Fprintf(&b, ":%.4f,%.4f", p.Latitude, p.Longitude)
	}
	return b.String()
}
