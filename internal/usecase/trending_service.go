package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
)

// TrendingService is the read path over collected trending data.
type TrendingService interface {
	// GetTrending returns a region's chart for the day, most viewed first.
	// Invalid region or kind input is normalized, never rejected.
	GetTrending(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error)

	// LastUpdated returns when the region's data was last refreshed, or nil
	// if the region has never completed a collection run.
	LastUpdated(ctx context.Context, region string) (*time.Time, error)

	// Search matches the query as a substring of the title or channel title
	// across all persisted records. An empty query returns no results.
	Search(ctx context.Context, query string) ([]*model.TrendingVideo, error)
}

// TrendingServiceConfig holds configuration for TrendingService.
type TrendingServiceConfig struct {
	// Limit bounds chart and search result sizes.
	Limit int
}

// DefaultTrendingServiceConfig returns the default configuration.
func DefaultTrendingServiceConfig() TrendingServiceConfig {
	return TrendingServiceConfig{
		Limit: 50,
	}
}

type trendingService struct {
	catalog model.Catalog
	videos  repository.VideoRepository
	logs    repository.CollectionLogRepository

	limit int
}

// NewTrendingService creates a new TrendingService instance.
func NewTrendingService(
	catalog model.Catalog,
	videos repository.VideoRepository,
	logs repository.CollectionLogRepository,
	cfg TrendingServiceConfig,
) TrendingService {
	return &trendingService{
		catalog: catalog,
		videos:  videos,
		logs:    logs,
		limit:   cfg.Limit,
	}
}

// GetTrending queries the store directly. Use the cached decorator in front
// of this service for the read-through cache.
func (s *trendingService) GetTrending(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error) {
	normalized := s.catalog.Normalize(region)
	if !kind.IsValid() {
		kind = model.KindAll
	}

	videos, err := s.videos.FindByRegionAndDate(ctx, normalized, model.DateOnly(date), kind, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load trending chart: %w", err)
	}

	return videos, nil
}

// LastUpdated reads the completion time of the region's latest completed run.
func (s *trendingService) LastUpdated(ctx context.Context, region string) (*time.Time, error) {
	return s.logs.LastCompletedAt(ctx, s.catalog.Normalize(region))
}

// Search matches persisted records by title or channel title substring.
func (s *trendingService) Search(ctx context.Context, query string) ([]*model.TrendingVideo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	videos, err := s.videos.SearchByTitleOrChannel(ctx, query, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search trending videos: %w", err)
	}

	return videos, nil
}
