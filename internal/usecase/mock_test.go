package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
)

// mockVideoRepository implements repository.VideoRepository for testing.
type mockVideoRepository struct {
	saveFunc           func(ctx context.Context, video *model.TrendingVideo) (repository.SaveOutcome, error)
	hasCollectedFunc   func(ctx context.Context, region string, date time.Time) (bool, error)
	countFunc          func(ctx context.Context, region string, date time.Time) (int64, error)
	findFunc           func(ctx context.Context, region string, date time.Time, kind model.Kind, limit int) ([]*model.TrendingVideo, error)
	searchFunc         func(ctx context.Context, query string, limit int) ([]*model.TrendingVideo, error)
	deleteByRegionFunc func(ctx context.Context, region string) (int64, error)
	deleteAllFunc      func(ctx context.Context) (int64, error)
}

func (m *mockVideoRepository) Save(ctx context.Context, video *model.TrendingVideo) (repository.SaveOutcome, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, video)
	}
	return repository.SaveOutcomeSaved, nil
}

func (m *mockVideoRepository) HasCollected(ctx context.Context, region string, date time.Time) (bool, error) {
	if m.hasCollectedFunc != nil {
		return m.hasCollectedFunc(ctx, region, date)
	}
	return false, nil
}

func (m *mockVideoRepository) CountByRegionAndDate(ctx context.Context, region string, date time.Time) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, region, date)
	}
	return 0, nil
}

func (m *mockVideoRepository) FindByRegionAndDate(ctx context.Context, region string, date time.Time, kind model.Kind, limit int) ([]*model.TrendingVideo, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, region, date, kind, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) SearchByTitleOrChannel(ctx context.Context, query string, limit int) ([]*model.TrendingVideo, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) DeleteByRegion(ctx context.Context, region string) (int64, error) {
	if m.deleteByRegionFunc != nil {
		return m.deleteByRegionFunc(ctx, region)
	}
	return 0, nil
}

func (m *mockVideoRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	return 0, nil
}

// mockCollectionLogRepository implements repository.CollectionLogRepository for testing.
type mockCollectionLogRepository struct {
	createFunc          func(ctx context.Context, log *model.CollectionLog) error
	markCompletedFunc   func(ctx context.Context, id uuid.UUID, videosCollected int) error
	markFailedFunc      func(ctx context.Context, id uuid.UUID, errMsg string) error
	lastCompletedAtFunc func(ctx context.Context, region string) (*time.Time, error)
}

func (m *mockCollectionLogRepository) Create(ctx context.Context, log *model.CollectionLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, log)
	}
	return nil
}

func (m *mockCollectionLogRepository) MarkCompleted(ctx context.Context, id uuid.UUID, videosCollected int) error {
	if m.markCompletedFunc != nil {
		return m.markCompletedFunc(ctx, id, videosCollected)
	}
	return nil
}

func (m *mockCollectionLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if m.markFailedFunc != nil {
		return m.markFailedFunc(ctx, id, errMsg)
	}
	return nil
}

func (m *mockCollectionLogRepository) LastCompletedAt(ctx context.Context, region string) (*time.Time, error) {
	if m.lastCompletedAtFunc != nil {
		return m.lastCompletedAtFunc(ctx, region)
	}
	return nil, nil
}

// mockFetcher implements repository.TrendingFetcher for testing.
type mockFetcher struct {
	fetchFunc func(ctx context.Context, region string, kind model.Kind, maxResults int64) ([]*model.TrendingVideo, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, region string, kind model.Kind, maxResults int64) ([]*model.TrendingVideo, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, region, kind, maxResults)
	}
	return nil, nil
}

// mockTrendingCache implements cache.TrendingCache for testing.
type mockTrendingCache struct {
	getFunc        func(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error)
	setFunc        func(ctx context.Context, region string, kind model.Kind, date time.Time, videos []*model.TrendingVideo, ttl time.Duration) error
	invalidateFunc func(ctx context.Context, region string, kind model.Kind, date time.Time) error
}

func (m *mockTrendingCache) Get(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, region, kind, date)
	}
	return nil, nil
}

func (m *mockTrendingCache) Set(ctx context.Context, region string, kind model.Kind, date time.Time, videos []*model.TrendingVideo, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, region, kind, date, videos, ttl)
	}
	return nil
}

func (m *mockTrendingCache) Invalidate(ctx context.Context, region string, kind model.Kind, date time.Time) error {
	if m.invalidateFunc != nil {
		return m.invalidateFunc(ctx, region, kind, date)
	}
	return nil
}

// mockTrendingService implements TrendingService for testing the cached decorator.
type mockTrendingService struct {
	getTrendingFunc func(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error)
	lastUpdatedFunc func(ctx context.Context, region string) (*time.Time, error)
	searchFunc      func(ctx context.Context, query string) ([]*model.TrendingVideo, error)
}

func (m *mockTrendingService) GetTrending(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error) {
	if m.getTrendingFunc != nil {
		return m.getTrendingFunc(ctx, region, kind, date)
	}
	return nil, nil
}

func (m *mockTrendingService) LastUpdated(ctx context.Context, region string) (*time.Time, error) {
	if m.lastUpdatedFunc != nil {
		return m.lastUpdatedFunc(ctx, region)
	}
	return nil, nil
}

func (m *mockTrendingService) Search(ctx context.Context, query string) ([]*model.TrendingVideo, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return nil, nil
}

// fetchedVideo builds a record as the fetcher would return it, before the
// collection pipeline stamps identity and region fields.
func fetchedVideo(videoID string, durationSeconds int) *model.TrendingVideo {
	return &model.TrendingVideo{
		VideoID:         videoID,
		Title:           "Video " + videoID,
		ChannelID:       "UC" + videoID,
		ChannelTitle:    "Channel " + videoID,
		ViewCount:       1000,
		PublishedAt:     time.Now().Add(-24 * time.Hour),
		DurationSeconds: durationSeconds,
		IsShort:         model.IsShortDuration(durationSeconds),
	}
}
