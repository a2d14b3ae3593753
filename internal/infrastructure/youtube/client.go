// Package youtube implements the trending fetcher on top of the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
)

// chartParts are the response parts needed to build a TrendingVideo.
var chartParts = []string{"snippet", "statistics", "contentDetails"}

// ClientConfig holds configuration for the YouTube API client.
type ClientConfig struct {
	APIKey  string
	Timeout time.Duration
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// Client fetches a region's trending chart with one videos.list call per
// fetch. Shorts are classified from the chart items' durations; no secondary
// search call is issued to hunt for more shorts.
type Client struct {
	service *ytapi.Service
}

// NewClient creates a YouTube API client authenticated by API key.
// Each outbound request is bounded by the configured timeout.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube API key is required")
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	service, err := ytapi.NewService(ctx,
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{service: service}, nil
}

// Fetch returns the region's "most popular" chart, bounded by maxResults and
// filtered to the requested kind. The call is all-or-nothing; any upstream
// failure is reported as *FetchError.
func (c *Client) Fetch(ctx context.Context, region string, kind model.Kind, maxResults int64) ([]*model.TrendingVideo, error) {
	resp, err := c.service.Videos.List(chartParts).
		Chart("mostPopular").
		RegionCode(region).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, asFetchError(err)
	}

	videos := make([]*model.TrendingVideo, 0, len(resp.Items))
	for _, item := range resp.Items {
		video := parseVideo(item)
		if video == nil || !video.MatchesKind(kind) {
			continue
		}
		videos = append(videos, video)
	}

	return videos, nil
}

// parseVideo maps one API item to the domain model. Items without an ID or
// snippet are unusable and dropped.
func parseVideo(item *ytapi.Video) *model.TrendingVideo {
	if item == nil || item.Id == "" || item.Snippet == nil {
		return nil
	}

	video := &model.TrendingVideo{
		VideoID:      item.Id,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelID:    item.Snippet.ChannelId,
		ChannelTitle: item.Snippet.ChannelTitle,
		ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
	}

	if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		video.PublishedAt = publishedAt
	}

	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}

	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
	}

	video.DurationSeconds = model.ParseDuration(video.Duration)
	video.IsShort = model.IsShortDuration(video.DurationSeconds)

	return video
}

// thumbnailURL picks the best available thumbnail rendition.
func thumbnailURL(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*ytapi.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// asFetchError converts any upstream failure to *FetchError. Timeouts and
// transport errors carry status 0.
func asFetchError(err error) *FetchError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &FetchError{StatusCode: apiErr.Code, Message: msg}
	}
	return &FetchError{Message: err.Error()}
}

// Compile-time verification that Client implements repository.TrendingFetcher.
var _ repository.TrendingFetcher = (*Client)(nil)
