package repository

import (
	"context"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

// TrendingFetcher abstracts the upstream video platform API. A fetch is
// all-or-nothing: on error no records are returned.
type TrendingFetcher interface {
	// Fetch returns the region's trending chart, bounded by maxResults and
	// filtered to the requested kind. Records come back classified (duration
	// parsed, shorts flagged) but without region/date stamping.
	Fetch(ctx context.Context, region string, kind model.Kind, maxResults int64) ([]*model.TrendingVideo, error)
}
