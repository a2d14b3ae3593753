package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the SQLSTATE for a unique constraint violation. The
// trending_videos table carries a unique index over
// (video_id, region_code, collection_date).
const uniqueViolation = "23505"

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, video_id, title, description, channel_id, channel_title,
		view_count, like_count, comment_count, published_at, duration,
		duration_seconds, thumbnail_url, is_short, region_code, collection_date, created_at`

// Save persists a record. A unique-index violation is reported as the
// Duplicate outcome rather than an error.
func (r *VideoRepository) Save(ctx context.Context, video *model.TrendingVideo) (repository.SaveOutcome, error) {
	const query = `
		INSERT INTO trending_videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.VideoID,
		video.Title,
		nullString(video.Description),
		video.ChannelID,
		video.ChannelTitle,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.PublishedAt,
		nullString(video.Duration),
		video.DurationSeconds,
		nullString(video.ThumbnailURL),
		video.IsShort,
		video.RegionCode,
		video.CollectionDate,
		video.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.SaveOutcomeDuplicate, nil
		}
		return 0, fmt.Errorf("failed to save trending video: %w", err)
	}

	return repository.SaveOutcomeSaved, nil
}

// HasCollected reports whether any records exist for the region and day.
func (r *VideoRepository) HasCollected(ctx context.Context, region string, date time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM trending_videos
			WHERE region_code = $1 AND collection_date = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, region, model.DateOnly(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check collected state: %w", err)
	}

	return exists, nil
}

// CountByRegionAndDate returns the number of records for the region and day.
func (r *VideoRepository) CountByRegionAndDate(ctx context.Context, region string, date time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM trending_videos
		WHERE region_code = $1 AND collection_date = $2
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, region, model.DateOnly(date)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trending videos: %w", err)
	}

	return count, nil
}

// FindByRegionAndDate returns the region's chart for the day, most viewed
// first, filtered to the requested kind.
func (r *VideoRepository) FindByRegionAndDate(ctx context.Context, region string, date time.Time, kind model.Kind, limit int) ([]*model.TrendingVideo, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM trending_videos
		WHERE region_code = $1 AND collection_date = $2
	` + kindFilter(kind) + `
		ORDER BY view_count DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, region, model.DateOnly(date), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending videos: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

// SearchByTitleOrChannel matches the query as a case-insensitive substring of
// the title or channel title, most viewed first.
func (r *VideoRepository) SearchByTitleOrChannel(ctx context.Context, query string, limit int) ([]*model.TrendingVideo, error) {
	const sql = `
		SELECT ` + videoColumns + `
		FROM trending_videos
		WHERE title ILIKE '%' || $1 || '%' OR channel_title ILIKE '%' || $1 || '%'
		ORDER BY view_count DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search trending videos: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

// DeleteByRegion removes every historical record for the region.
func (r *VideoRepository) DeleteByRegion(ctx context.Context, region string) (int64, error) {
	const query = `DELETE FROM trending_videos WHERE region_code = $1`

	tag, err := r.db.Exec(ctx, query, region)
	if err != nil {
		return 0, fmt.Errorf("failed to delete videos by region: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteAll removes every record.
func (r *VideoRepository) DeleteAll(ctx context.Context) (int64, error) {
	const query = `DELETE FROM trending_videos`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all videos: %w", err)
	}

	return tag.RowsAffected(), nil
}

// kindFilter narrows a chart query to shorts or regular videos.
func kindFilter(kind model.Kind) string {
	switch kind {
	case model.KindShorts:
		return ` AND is_short = TRUE`
	case model.KindVideos:
		return ` AND is_short = FALSE`
	default:
		return ``
	}
}

func scanVideos(rows pgx.Rows) ([]*model.TrendingVideo, error) {
	var videos []*model.TrendingVideo
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trending video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending videos: %w", err)
	}

	return videos, nil
}

func scanVideo(row pgx.Row) (*model.TrendingVideo, error) {
	var (
		video        model.TrendingVideo
		description  *string
		duration     *string
		thumbnailURL *string
	)

	err := row.Scan(
		&video.ID,
		&video.VideoID,
		&video.Title,
		&description,
		&video.ChannelID,
		&video.ChannelTitle,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.PublishedAt,
		&duration,
		&video.DurationSeconds,
		&thumbnailURL,
		&video.IsShort,
		&video.RegionCode,
		&video.CollectionDate,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		video.Description = *description
	}
	if duration != nil {
		video.Duration = *duration
	}
	if thumbnailURL != nil {
		video.ThumbnailURL = *thumbnailURL
	}

	return &video, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
