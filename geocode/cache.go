package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/storage"
)

// CachingGeocoder serves repeated Geocode calls from a GeocodeCacheRepository.
// Only successful lookups are cached; misses and failures always reach the inner geocoder.
type CachingGeocoder struct {
	inner  Geocoder
	cache  storage.GeocodeCacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

var _ Geocoder = (*CachingGeocoder)(nil)

// NewCachingGeocoder wraps inner with a cache. A zero ttl never expires entries.
func NewCachingGeocoder(inner Geocoder, cache storage.GeocodeCacheRepository, ttl time.Duration, logger *slog.Logger) (*CachingGeocoder, error) {
	if inner == nil {
		return nil, ErrGeocoderRequired
	}
	if cache == nil {
		return nil, errors.New("geocode cache repository required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingGeocoder{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "geocode-cache"),
	}, nil
}

// Geocode returns the cached result or asks the inner geocoder.
func (g *CachingGeocoder) Geocode(ctx context.Context, query string) (*core.GeocodeResult, error) {
	cached, err := g.cache.GetGeocode(ctx, query)
	if err == nil {
		g.logger.Debug("geocode cache hit", "query", query)
		return cached, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		g.logger.Warn("error reading geocode cache", "query", query, "err", err)
	}

	result, err := g.inner.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if putErr := g.cache.PutGeocode(ctx, query, result, g.ttl); putErr != nil {
		g.logger.Warn("error writing geocode cache", "query", query, "err", putErr)
	}
	return result, nil
}

// Suggest is never cached; suggestions are cheap and short-lived.
func (g *CachingGeocoder) Suggest(ctx context.Context, query string) []core.GeocodeResult {
	return g.inner.Suggest(ctx, query)
}
