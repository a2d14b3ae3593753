package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
)

const (
	// trendingKeyPrefix is the prefix for trending chart keys in Redis.
	trendingKeyPrefix = "trending:"
)

// videoJSON is the JSON representation of a TrendingVideo for caching.
// Using an explicit struct avoids coupling to domain model field names.
type videoJSON struct {
	ID              string `json:"id"`
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ChannelID       string `json:"channel_id"`
	ChannelTitle    string `json:"channel_title"`
	ViewCount       int64  `json:"view_count"`
	LikeCount       int64  `json:"like_count"`
	CommentCount    int64  `json:"comment_count"`
	PublishedAt     string `json:"published_at"`
	Duration        string `json:"duration,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	IsShort         bool   `json:"is_short"`
	RegionCode      string `json:"region_code"`
	CollectionDate  string `json:"collection_date"`
	CreatedAt       string `json:"created_at"`
}

// RedisTrendingCache implements TrendingCache using Redis as the backing store.
type RedisTrendingCache struct {
	client *redis.Client
}

// NewRedisTrendingCache creates a new Redis-backed trending chart cache.
func NewRedisTrendingCache(client *redis.Client) *RedisTrendingCache {
	return &RedisTrendingCache{
		client: client,
	}
}

// Get retrieves a cached chart from Redis.
// Returns nil, nil on cache miss.
func (c *RedisTrendingCache) Get(ctx context.Context, region string, kind model.Kind, date time.Time) ([]*model.TrendingVideo, error) {
	key := buildKey(region, kind, date)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	videos, err := deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize chart: %w", err)
	}

	return videos, nil
}

// Set stores a chart in Redis with the specified TTL.
func (c *RedisTrendingCache) Set(ctx context.Context, region string, kind model.Kind, date time.Time, videos []*model.TrendingVideo, ttl time.Duration) error {
	key := buildKey(region, kind, date)

	data, err := serialize(videos)
	if err != nil {
		return fmt.Errorf("serialize chart: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate removes a cached chart from Redis.
func (c *RedisTrendingCache) Invalidate(ctx context.Context, region string, kind model.Kind, date time.Time) error {
	key := buildKey(region, kind, date)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// buildKey constructs the Redis key for a chart entry.
// Format: trending:{region}:{kind}:{YYYY-MM-DD}
func buildKey(region string, kind model.Kind, date time.Time) string {
	return trendingKeyPrefix + region + ":" + kind.String() + ":" + model.DateOnly(date).Format(time.DateOnly)
}

func serialize(videos []*model.TrendingVideo) ([]byte, error) {
	out := make([]videoJSON, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoJSON{
			ID:              v.ID.String(),
			VideoID:         v.VideoID,
			Title:           v.Title,
			Description:     v.Description,
			ChannelID:       v.ChannelID,
			ChannelTitle:    v.ChannelTitle,
			ViewCount:       v.ViewCount,
			LikeCount:       v.LikeCount,
			CommentCount:    v.CommentCount,
			PublishedAt:     v.PublishedAt.Format(time.RFC3339Nano),
			Duration:        v.Duration,
			DurationSeconds: v.DurationSeconds,
			ThumbnailURL:    v.ThumbnailURL,
			IsShort:         v.IsShort,
			RegionCode:      v.RegionCode,
			CollectionDate:  v.CollectionDate.Format(time.DateOnly),
			CreatedAt:       v.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return json.Marshal(out)
}

func deserialize(data []byte) ([]*model.TrendingVideo, error) {
	var entries []videoJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	videos := make([]*model.TrendingVideo, 0, len(entries))
	for _, e := range entries {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("parse record ID: %w", err)
		}

		publishedAt, err := time.Parse(time.RFC3339Nano, e.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse published_at: %w", err)
		}

		collectionDate, err := time.Parse(time.DateOnly, e.CollectionDate)
		if err != nil {
			return nil, fmt.Errorf("parse collection_date: %w", err)
		}

		createdAt, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		videos = append(videos, &model.TrendingVideo{
			ID:              id,
			VideoID:         e.VideoID,
			Title:           e.Title,
			Description:     e.Description,
			ChannelID:       e.ChannelID,
			ChannelTitle:    e.ChannelTitle,
			ViewCount:       e.ViewCount,
			LikeCount:       e.LikeCount,
			CommentCount:    e.CommentCount,
			PublishedAt:     publishedAt,
			Duration:        e.Duration,
			DurationSeconds: e.DurationSeconds,
			ThumbnailURL:    e.ThumbnailURL,
			IsShort:         e.IsShort,
			RegionCode:      e.RegionCode,
			CollectionDate:  collectionDate,
			CreatedAt:       createdAt,
		})
	}

	return videos, nil
}

// Compile-time verification that RedisTrendingCache implements TrendingCache.
var _ TrendingCache = (*RedisTrendingCache)(nil)
