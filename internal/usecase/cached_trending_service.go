package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/cache"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/metrics"
)

// CachedTrendingServiceConfig holds configuration for CachedTrendingService.
type CachedTrendingServiceConfig struct {
	// CacheTTL is the TTL for cached charts.
	CacheTTL time.Duration
}

// DefaultCachedTrendingServiceConfig returns the default configuration.
func DefaultCachedTrendingServiceConfig() CachedTrendingServiceConfig {
	return CachedTrendingServiceConfig{
		CacheTTL: time.Hour,
	}
}

// cachedTrendingService wraps TrendingService with a read-through cache.
// It implements the decorator pattern to add caching without modifying the
// underlying service. The cache is an optimization only: any cache failure
// falls through to the store.
type cachedTrendingService struct {
	delegate TrendingService
	catalog  model.Catalog
	cache    cache.TrendingCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedTrendingService creates a new CachedTrendingService wrapping the
// provided TrendingService.
func NewCachedTrendingService(
	delegate TrendingService,
	catalog model.Catalog,
	trendingCache cache.TrendingCache,
	cfg CachedTrendingServiceConfig,
) TrendingService {
	return &cachedTrendingService{
		delegate: delegate,
		catalog:  catalog,
		cache:    trendingCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// GetTrending retrieves a chart with caching.
// Uses singleflight to prevent cache stampede on concurrent requests for the
// same (region, kind, date) entry.
func (s *cachedTrendingService) GetTrending(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error) {
	// Normalize before building the cache key so aliased inputs coalesce.
	region = s.catalog.Normalize(region)
	if !kind.IsValid() {
		kind = model.KindAll
	}
	day := model.DateOnly(date)

	key := region + ":" + kind.String() + ":" + day.Format(time.DateOnly)
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getWithCache(ctx, region, kind, day)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	return result.([]*model.TrendingVideo), nil
}

// getWithCache implements the cache-aside pattern.
func (s *cachedTrendingService) getWithCache(ctx context.Context, region string, kind model.Kind, day time.Time) ([]*model.TrendingVideo, error) {
	videos, err := s.cache.Get(ctx, region, kind, day)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("cache get failed, falling back to store",
			"region", region,
			"kind", kind.String(),
			"error", err,
		)
	}

	if videos != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
		return videos, nil
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()

	videos, err = s.delegate.GetTrending(ctx, region, kind, day)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, region, kind, day, videos, s.cacheTTL); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		slog.Warn("failed to cache trending chart",
			"region", region,
			"kind", kind.String(),
			"error", err,
		)
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	}

	return videos, nil
}

// LastUpdated delegates to the underlying service. It is one indexed row
// lookup and is not worth caching.
func (s *cachedTrendingService) LastUpdated(ctx context.Context, region string) (*time.Time, error) {
	return s.delegate.LastUpdated(ctx, region)
}

// Search delegates to the underlying service. Queries are unbounded user
// input, so caching them would mostly store misses.
func (s *cachedTrendingService) Search(ctx context.Context, query string) ([]*model.TrendingVideo, error) {
	return s.delegate.Search(ctx, query)
}
