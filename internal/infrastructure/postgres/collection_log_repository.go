package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
)

// CollectionLogRepository implements repository.CollectionLogRepository using PostgreSQL.
type CollectionLogRepository struct {
	db DBTX
}

// NewCollectionLogRepository creates a new CollectionLogRepository instance.
func NewCollectionLogRepository(db DBTX) *CollectionLogRepository {
	return &CollectionLogRepository{db: db}
}

// Create persists a new collection log row.
func (r *CollectionLogRepository) Create(ctx context.Context, log *model.CollectionLog) error {
	const query = `
		INSERT INTO collection_logs (
			id, region_code, collection_kind, status, videos_collected,
			api_calls_used, error_message, started_at, completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		log.ID,
		log.RegionCode,
		log.CollectionKind.String(),
		log.Status.String(),
		log.VideosCollected,
		log.APICallsUsed,
		nullString(log.ErrorMessage),
		log.StartedAt,
		log.CompletedAt,
		log.CreatedAt,
		log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create collection log: %w", err)
	}

	return nil
}

// MarkCompleted moves the log to its terminal completed state.
func (r *CollectionLogRepository) MarkCompleted(ctx context.Context, id uuid.UUID, videosCollected int) error {
	const query = `
		UPDATE collection_logs
		SET status = $2, videos_collected = $3, completed_at = $4, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, model.LogStatusCompleted.String(), videosCollected, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark collection log completed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrLogNotFound
	}

	return nil
}

// MarkFailed moves the log to its terminal failed state with an error message.
func (r *CollectionLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	const query = `
		UPDATE collection_logs
		SET status = $2, error_message = $3, completed_at = $4, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, model.LogStatusFailed.String(), errMsg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark collection log failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrLogNotFound
	}

	return nil
}

// LastCompletedAt returns when the region's most recent completed run finished.
func (r *CollectionLogRepository) LastCompletedAt(ctx context.Context, region string) (*time.Time, error) {
	const query = `
		SELECT completed_at
		FROM collection_logs
		WHERE region_code = $1 AND status = $2 AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT 1
	`

	var completedAt time.Time
	err := r.db.QueryRow(ctx, query, region, model.LogStatusCompleted.String()).Scan(&completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query last completed run: %w", err)
	}

	return &completedAt, nil
}

// Compile-time verification that CollectionLogRepository implements repository.CollectionLogRepository.
var _ repository.CollectionLogRepository = (*CollectionLogRepository)(nil)
