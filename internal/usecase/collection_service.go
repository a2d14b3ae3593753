package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/cache"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/metrics"
)

// ErrUnsupportedRegion is returned when a collection is requested for a
// region outside the catalog. It is rejected before any side effect.
var ErrUnsupportedRegion = errors.New("unsupported region code")

// DuplicatePolicy decides what happens when a region already has data.
type DuplicatePolicy string

const (
	// PolicyWipeAndReplace deletes the region's historical rows before
	// collecting fresh. Duplicates cannot occur; one showing up anyway
	// indicates a policy violation and fails the run.
	PolicyWipeAndReplace DuplicatePolicy = "replace"

	// PolicySkipIfPresent refuses to re-collect a region/day pair that
	// already has data. Racing duplicates during the run are tolerated
	// and counted as skipped.
	PolicySkipIfPresent DuplicatePolicy = "skip"
)

func (p DuplicatePolicy) IsValid() bool {
	return p == PolicyWipeAndReplace || p == PolicySkipIfPresent
}

// CollectResult is the structured outcome of one region's collection run.
type CollectResult struct {
	Success          bool
	AlreadyCollected bool
	Region           string
	Date             time.Time
	VideosCollected  int
	Message          string
	Err              string
}

// BatchResult aggregates a multi-region collection.
// Success is true if at least one region succeeded.
type BatchResult struct {
	Success      bool
	TotalRegions int
	Succeeded    int
	Failed       int
	Skipped      int
	TotalVideos  int
	Results      []CollectResult
}

// RegionStatus reports whether a region has data for a given day.
type RegionStatus struct {
	Region    string
	Collected bool
	Count     int64
}

// CollectionService is the collection pipeline: fetch a region's trending
// chart, persist it, record a collection log, and invalidate the read cache.
type CollectionService interface {
	// CollectRegion runs the pipeline for one region and day. All pipeline
	// failures (fetch, persistence) are reported inside the result; the
	// returned error is non-nil only for invalid input, which is rejected
	// before any side effect.
	CollectRegion(ctx context.Context, region string, date time.Time) (CollectResult, error)

	// CollectAllRegions runs the pipeline for every catalog region in order,
	// pacing upstream calls, never aborting early on a single region's
	// failure. Cancellation is honored between region iterations; the
	// aggregate collected so far is returned alongside ctx's error.
	CollectAllRegions(ctx context.Context, date time.Time) (BatchResult, error)

	// CollectionStatus reports per-region collected state for the day.
	CollectionStatus(ctx context.Context, date time.Time) ([]RegionStatus, error)
}

// CollectionServiceConfig holds configuration for CollectionService.
type CollectionServiceConfig struct {
	// Policy selects the duplicate-handling behavior. It is resolved once at
	// startup; single-region runs and batch runs never mix policies.
	Policy DuplicatePolicy
	// MaxResults bounds the upstream trending chart request.
	MaxResults int64
	// PacingDelay is the wait between successive upstream calls in a batch.
	PacingDelay time.Duration
}

// DefaultCollectionServiceConfig returns the default configuration.
func DefaultCollectionServiceConfig() CollectionServiceConfig {
	return CollectionServiceConfig{
		Policy:      PolicyWipeAndReplace,
		MaxResults:  50,
		PacingDelay: 5 * time.Second,
	}
}

type collectionService struct {
	catalog model.Catalog
	fetcher repository.TrendingFetcher
	videos  repository.VideoRepository
	logs    repository.CollectionLogRepository
	cache   cache.TrendingCache

	cfg CollectionServiceConfig
}

// NewCollectionService creates a new CollectionService instance.
func NewCollectionService(
	catalog model.Catalog,
	fetcher repository.TrendingFetcher,
	videos repository.VideoRepository,
	logs repository.CollectionLogRepository,
	trendingCache cache.TrendingCache,
	cfg CollectionServiceConfig,
) CollectionService {
	if !cfg.Policy.IsValid() {
		cfg.Policy = PolicyWipeAndReplace
	}
	return &collectionService{
		catalog: catalog,
		fetcher: fetcher,
		videos:  videos,
		logs:    logs,
		cache:   trendingCache,
		cfg:     cfg,
	}
}

// CollectRegion runs a single-region collection. Under the wipe-and-replace
// policy the region's historical rows are removed first.
func (s *collectionService) CollectRegion(ctx context.Context, region string, date time.Time) (CollectResult, error) {
	if !s.catalog.IsValid(region) {
		return CollectResult{}, fmt.Errorf("%w: %q", ErrUnsupportedRegion, region)
	}

	normalized := s.catalog.Normalize(region)
	day := model.DateOnly(date)

	return s.collect(ctx, normalized, day, s.cfg.Policy == PolicyWipeAndReplace), nil
}

// CollectAllRegions wipes the whole store once up front (under the replace
// policy), then runs the non-wiping variant per region so a later region
// cannot destroy an earlier region's fresh data.
func (s *collectionService) CollectAllRegions(ctx context.Context, date time.Time) (BatchResult, error) {
	day := model.DateOnly(date)
	codes := s.catalog.PrimaryCodes()
	batch := BatchResult{TotalRegions: len(codes)}

	if s.cfg.Policy == PolicyWipeAndReplace {
		deleted, err := s.videos.DeleteAll(ctx)
		if err != nil {
			return batch, fmt.Errorf("failed to wipe store before batch collection: %w", err)
		}
		slog.Info("wiped store before batch collection", "rows_deleted", deleted)
	}

	for i, region := range codes {
		if i > 0 {
			if err := s.pace(ctx); err != nil {
				batch.Success = batch.Succeeded > 0
				return batch, err
			}
		} else if err := ctx.Err(); err != nil {
			return batch, err
		}

		result := s.collect(ctx, region, day, false)
		batch.Results = append(batch.Results, result)

		switch {
		case result.Success:
			batch.Succeeded++
			batch.TotalVideos += result.VideosCollected
		case result.AlreadyCollected:
			batch.Skipped++
		default:
			batch.Failed++
		}
	}

	batch.Success = batch.Succeeded > 0
	return batch, nil
}

// CollectionStatus reports per-region collected state for the day.
func (s *collectionService) CollectionStatus(ctx context.Context, date time.Time) ([]RegionStatus, error) {
	day := model.DateOnly(date)

	statuses := make([]RegionStatus, 0, len(s.catalog.PrimaryCodes()))
	for _, region := range s.catalog.PrimaryCodes() {
		count, err := s.videos.CountByRegionAndDate(ctx, region, day)
		if err != nil {
			return nil, fmt.Errorf("failed to read collection status for %s: %w", region, err)
		}
		statuses = append(statuses, RegionStatus{
			Region:    region,
			Collected: count > 0,
			Count:     count,
		})
	}

	return statuses, nil
}

// collect is the per-region pipeline. region is already normalized and day
// truncated. wipe selects the per-region delete of the replace policy; the
// batch path passes wipe=false after its single up-front DeleteAll.
func (s *collectionService) collect(ctx context.Context, region string, day time.Time, wipe bool) CollectResult {
	switch {
	case s.cfg.Policy == PolicySkipIfPresent:
		collected, err := s.videos.HasCollected(ctx, region, day)
		if err != nil {
			return s.failure(region, day, fmt.Errorf("failed to check collected state: %w", err))
		}
		if collected {
			metrics.CollectionRunsTotal.WithLabelValues(region, metrics.RunStatusAlreadyCollected).Inc()
			slog.Info("region already collected, skipping",
				"region", region,
				"date", day.Format(time.DateOnly),
			)
			return CollectResult{
				AlreadyCollected: true,
				Region:           region,
				Date:             day,
				Message:          fmt.Sprintf("%s already collected for %s", region, day.Format(time.DateOnly)),
			}
		}
	case wipe:
		deleted, err := s.videos.DeleteByRegion(ctx, region)
		if err != nil {
			return s.failure(region, day, fmt.Errorf("failed to wipe region before collection: %w", err))
		}
		slog.Info("wiped region before collection", "region", region, "rows_deleted", deleted)
	}

	log := model.NewCollectionLog(region, model.KindAll)
	log.APICallsUsed = 1
	if err := log.Start(); err != nil {
		return s.failure(region, day, err)
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return s.failure(region, day, err)
	}

	fetchStart := time.Now()
	fetched, err := s.fetcher.Fetch(ctx, region, model.KindAll, s.cfg.MaxResults)
	metrics.FetchDurationSeconds.WithLabelValues(region).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(region, metrics.FetchStatusError).Inc()
		s.markFailed(ctx, log.ID, region, err)
		return s.failure(region, day, err)
	}
	metrics.FetchRequestsTotal.WithLabelValues(region, metrics.FetchStatusSuccess).Inc()

	saved, err := s.persist(ctx, region, day, fetched)
	if err != nil {
		s.markFailed(ctx, log.ID, region, err)
		return s.failure(region, day, err)
	}

	if err := s.logs.MarkCompleted(ctx, log.ID, saved); err != nil {
		s.markFailed(ctx, log.ID, region, err)
		return s.failure(region, day, err)
	}

	s.invalidate(ctx, region, day)

	metrics.CollectionRunsTotal.WithLabelValues(region, metrics.RunStatusCompleted).Inc()
	metrics.VideosCollectedTotal.WithLabelValues(region).Add(float64(saved))

	slog.Info("collection completed",
		"region", region,
		"date", day.Format(time.DateOnly),
		"videos_collected", saved,
	)

	return CollectResult{
		Success:         true,
		Region:          region,
		Date:            day,
		VideosCollected: saved,
		Message:         fmt.Sprintf("collected %d videos for %s", saved, region),
	}
}

// persist saves the fetched records. Per-item failures are logged and
// skipped; the run carries on with the remaining records. A duplicate under
// the replace policy means the wipe invariant was violated and is fatal.
func (s *collectionService) persist(ctx context.Context, region string, day time.Time, fetched []*model.TrendingVideo) (int, error) {
	saved := 0
	for _, video := range fetched {
		video.ID = uuid.New()
		video.RegionCode = region
		video.CollectionDate = day
		video.CreatedAt = time.Now()

		if err := video.Validate(); err != nil {
			slog.Warn("dropping malformed record",
				"region", region,
				"video_id", video.VideoID,
				"error", err,
			)
			continue
		}

		outcome, err := s.videos.Save(ctx, video)
		if err != nil {
			slog.Warn("failed to persist record, continuing",
				"region", region,
				"video_id", video.VideoID,
				"error", err,
			)
			continue
		}

		if outcome == repository.SaveOutcomeDuplicate {
			if s.cfg.Policy == PolicyWipeAndReplace {
				return saved, fmt.Errorf("duplicate record %s after region wipe", video.VideoID)
			}
			// Skip policy: lost the race to a concurrent run, count as skipped.
			slog.Info("skipping duplicate record",
				"region", region,
				"video_id", video.VideoID,
			)
			continue
		}

		saved++
	}

	return saved, nil
}

func (s *collectionService) invalidate(ctx context.Context, region string, day time.Time) {
	for _, kind := range model.Kinds() {
		if err := s.cache.Invalidate(ctx, region, kind, day); err != nil {
			// The cache repopulates lazily from the store, so a failed
			// invalidation degrades to staleness bounded by the TTL.
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpInvalidate, metrics.CacheStatusError).Inc()
			slog.Warn("failed to invalidate trending cache",
				"region", region,
				"kind", kind.String(),
				"error", err,
			)
			continue
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpInvalidate, metrics.CacheStatusSuccess).Inc()
	}
}

func (s *collectionService) markFailed(ctx context.Context, logID uuid.UUID, region string, cause error) {
	if err := s.logs.MarkFailed(ctx, logID, cause.Error()); err != nil {
		slog.Error("failed to mark collection log failed",
			"log_id", logID,
			"region", region,
			"error", err,
		)
	}
}

func (s *collectionService) failure(region string, day time.Time, err error) CollectResult {
	metrics.CollectionRunsTotal.WithLabelValues(region, metrics.RunStatusFailed).Inc()
	slog.Error("collection failed",
		"region", region,
		"date", day.Format(time.DateOnly),
		"error", err,
	)
	return CollectResult{
		Region:  region,
		Date:    day,
		Err:     err.Error(),
		Message: fmt.Sprintf("collection failed for %s: %s", region, err.Error()),
	}
}

// pace waits the configured delay between upstream calls, returning early on
// cancellation.
func (s *collectionService) pace(ctx context.Context) error {
	if s.cfg.PacingDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.PacingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
