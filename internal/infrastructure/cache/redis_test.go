package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

func setupTestCache(t *testing.T) (*RedisTrendingCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisTrendingCache(client), mr
}

func chartFixture(region string) []*model.TrendingVideo {
	published := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	return []*model.TrendingVideo{
		{
			ID:              uuid.New(),
			VideoID:         "abc123",
			Title:           "First Video",
			Description:     "most viewed",
			ChannelID:       "UCfirst",
			ChannelTitle:    "First Channel",
			ViewCount:       5000,
			LikeCount:       400,
			CommentCount:    30,
			PublishedAt:     published,
			Duration:        "PT4M13S",
			DurationSeconds: 253,
			ThumbnailURL:    "https://example.com/a.jpg",
			RegionCode:      region,
			CollectionDate:  model.DateOnly(published),
			CreatedAt:       published,
		},
		{
			ID:              uuid.New(),
			VideoID:         "def456",
			Title:           "Second Video",
			ChannelID:       "UCsecond",
			ChannelTitle:    "Second Channel",
			ViewCount:       3000,
			PublishedAt:     published,
			Duration:        "PT45S",
			DurationSeconds: 45,
			IsShort:         true,
			RegionCode:      region,
			CollectionDate:  model.DateOnly(published),
			CreatedAt:       published,
		},
	}
}

func TestRedisTrendingCache_SetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	videos := chartFixture("KR")

	if err := cache.Set(ctx, "KR", model.KindAll, date, videos, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "KR", model.KindAll, date)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d videos, want 2", len(got))
	}
	if got[0].VideoID != "abc123" || got[1].VideoID != "def456" {
		t.Error("chart order not preserved")
	}
	if got[0].ID != videos[0].ID {
		t.Errorf("ID = %v, want %v", got[0].ID, videos[0].ID)
	}
	if got[0].ViewCount != 5000 {
		t.Errorf("ViewCount = %d, want 5000", got[0].ViewCount)
	}
	if !got[1].IsShort {
		t.Error("IsShort not preserved")
	}
	if !got[0].PublishedAt.Equal(videos[0].PublishedAt) {
		t.Errorf("PublishedAt = %v, want %v", got[0].PublishedAt, videos[0].PublishedAt)
	}
	if !got[0].CollectionDate.Equal(videos[0].CollectionDate) {
		t.Errorf("CollectionDate = %v, want %v", got[0].CollectionDate, videos[0].CollectionDate)
	}
}

func TestRedisTrendingCache_GetMiss(t *testing.T) {
	cache, _ := setupTestCache(t)

	got, err := cache.Get(context.Background(), "KR", model.KindAll, time.Now())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil on cache miss", got)
	}
}

func TestRedisTrendingCache_KeysAreScopedByRegionKindAndDate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := cache.Set(ctx, "KR", model.KindShorts, date, chartFixture("KR"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	tests := []struct {
		name   string
		region string
		kind   model.Kind
		date   time.Time
	}{
		{"different region", "US", model.KindShorts, date},
		{"different kind", "KR", model.KindVideos, date},
		{"different date", "KR", model.KindShorts, date.AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cache.Get(ctx, tt.region, tt.kind, tt.date)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != nil {
				t.Error("expected cache miss for distinct key")
			}
		})
	}
}

func TestRedisTrendingCache_Expiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := cache.Set(ctx, "KR", model.KindAll, date, chartFixture("KR"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(time.Hour + time.Second)

	got, err := cache.Get(ctx, "KR", model.KindAll, date)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestRedisTrendingCache_Invalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := cache.Set(ctx, "KR", model.KindAll, date, chartFixture("KR"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Invalidate(ctx, "KR", model.KindAll, date); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	got, err := cache.Get(ctx, "KR", model.KindAll, date)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected cache miss after invalidation")
	}
}

func TestRedisTrendingCache_SetEmptyChart(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := cache.Set(ctx, "ID", model.KindAll, date, nil, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "ID", model.KindAll, date)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d videos, want 0", len(got))
	}
}
