package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

// CollectionLogRepository defines persistence operations for collection run logs.
type CollectionLogRepository interface {
	// Create persists a new log row.
	Create(ctx context.Context, log *model.CollectionLog) error

	// MarkCompleted moves the log to its terminal completed state.
	// Returns ErrLogNotFound if the row does not exist.
	MarkCompleted(ctx context.Context, id uuid.UUID, videosCollected int) error

	// MarkFailed moves the log to its terminal failed state with an error message.
	// Returns ErrLogNotFound if the row does not exist.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// LastCompletedAt returns the completion time of the most recent completed
	// run for the region, or nil if the region has never completed a run.
	LastCompletedAt(ctx context.Context, region string) (*time.Time, error)
}
