package cache

import (
	"context"
	"time"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

// TrendingCache defines the interface for caching a region's trending chart.
// Entries are keyed by (region, kind, collection date). The cache is an
// optimization layer only: callers must fall through to the store on any
// cache error.
type TrendingCache interface {
	// Get retrieves a cached chart.
	// Returns nil, nil if the entry is not in cache (cache miss).
	Get(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error)

	// Set stores a chart with the specified TTL.
	Set(ctx context.Context, region string, kind model.Kind, date time.Time, videos []*model.TrendingVideo, ttl time.Duration) error

	// Invalidate removes a single cached chart.
	// Returns nil if the entry was not in cache.
	Invalidate(ctx context.Context, region string, kind model.Kind, date time.Time) error
}
