package geocode

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   Geocoder
	cache   *lru.Cache[string, models.Location]
	metrics *metrics.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner Geocoder, size int, m *metrics.Metrics) (*CachedGeocoder, error) {
	cache, err := lru.New[string, models.Location](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode cache: %w", err)
	}
	return &CachedGeocoder{inner: inner, cache: cache, metrics: m}, nil
}

func (c *CachedGeocoder) Geocode(ctx context.Context, name string) (models.Location, error) {
	if loc, ok := c.cache.Get(name); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return loc, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	loc, err := c.inner.Geocode(ctx, name)
	if err != nil {
		return loc, err
	}
	// Pending results are retried on the next lookup.
	if loc.Status != models.LocationPendingReview {
		c.cache.Add(name, loc)
	}
	return loc, nil
}
