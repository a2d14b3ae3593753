package repository

import (
	"context"
	"time"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

// SaveOutcome reports what happened to a Save call that did not fail.
// The store is the source of truth for the (video, region, date) uniqueness
// invariant; a racing duplicate surfaces here as an outcome, not as an error.
type SaveOutcome int

const (
	// SaveOutcomeSaved means a new row was persisted.
	SaveOutcomeSaved SaveOutcome = iota
	// SaveOutcomeDuplicate means the uniqueness invariant already held for
	// this (video ID, region, date) triple and nothing was written.
	SaveOutcomeDuplicate
)

// VideoRepository defines persistence operations for collected trending videos.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Save persists a record, enforcing (video_id, region_code, collection_date)
	// uniqueness at the storage layer.
	Save(ctx context.Context, video *model.TrendingVideo) (SaveOutcome, error)

	// HasCollected reports whether any records exist for the region and day.
	HasCollected(ctx context.Context, region string, date time.Time) (bool, error)

	// CountByRegionAndDate returns the number of records for the region and day.
	CountByRegionAndDate(ctx context.Context, region string, date time.Time) (int64, error)

	// FindByRegionAndDate returns up to limit records for the region and day,
	// filtered to the requested kind, ordered by view count descending.
	FindByRegionAndDate(ctx context.Context, region string, date time.Time, kind model.Kind, limit int) ([]*model.TrendingVideo, error)

	// SearchByTitleOrChannel returns up to limit records whose title or channel
	// title contains the query substring, ordered by view count descending.
	SearchByTitleOrChannel(ctx context.Context, query string, limit int) ([]*model.TrendingVideo, error)

	// DeleteByRegion removes every historical record for the region and
	// returns the number of rows deleted.
	DeleteByRegion(ctx context.Context, region string) (int64, error)

	// DeleteAll removes every record and returns the number of rows deleted.
	DeleteAll(ctx context.Context) (int64, error)
}
