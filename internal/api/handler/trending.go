package handler

import (
	"net/http"
	"time"

	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/usecase"
)

// VideoResponse is the wire form of one trending chart entry.
type VideoResponse struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ChannelID       string `json:"channel_id"`
	ChannelTitle    string `json:"channel_title"`
	ViewCount       int64  `json:"view_count"`
	ViewCountText   string `json:"view_count_text"`
	LikeCount       int64  `json:"like_count"`
	CommentCount    int64  `json:"comment_count"`
	PublishedAt     string `json:"published_at"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	IsShort         bool   `json:"is_short"`
	RegionCode      string `json:"region_code"`
	CollectionDate  string `json:"collection_date"`
	YouTubeURL      string `json:"youtube_url"`
}

type TrendingMeta struct {
	Region      string  `json:"region"`
	Type        string  `json:"type"`
	TotalCount  int     `json:"total_count"`
	LastUpdated *string `json:"last_updated"`
}

type TrendingResponse struct {
	Videos []VideoResponse `json:"videos"`
	Meta   TrendingMeta    `json:"meta"`
}

type SearchMeta struct {
	Query      string `json:"query"`
	TotalCount int    `json:"total_count"`
}

type SearchResponse struct {
	Videos []VideoResponse `json:"videos"`
	Meta   SearchMeta      `json:"meta"`
}

// TrendingHandler handles read-path HTTP requests.
type TrendingHandler struct {
	svc     usecase.TrendingService
	catalog model.Catalog
}

// NewTrendingHandler creates a new TrendingHandler.
func NewTrendingHandler(svc usecase.TrendingService, catalog model.Catalog) *TrendingHandler {
	return &TrendingHandler{svc: svc, catalog: catalog}
}

// Get handles GET /v1/trending?region=KR&type=all&date=2025-07-20
// Absent or invalid region/type fall back to defaults; an unparsable date is
// rejected.
func (h *TrendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	region := h.catalog.Normalize(r.URL.Query().Get("region"))
	kind := model.NormalizeKind(r.URL.Query().Get("type"))

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD form")
			return
		}
		date = parsed
	}

	videos, err := h.svc.GetTrending(r.Context(), region, kind, date)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "Failed to load trending videos")
		return
	}

	var lastUpdated *string
	if ts, err := h.svc.LastUpdated(r.Context(), region); err == nil && ts != nil {
		formatted := ts.Format(time.RFC3339)
		lastUpdated = &formatted
	}

	JSON(w, http.StatusOK, TrendingResponse{
		Videos: toVideoResponses(videos),
		Meta: TrendingMeta{
			Region:      region,
			Type:        kind.String(),
			TotalCount:  len(videos),
			LastUpdated: lastUpdated,
		},
	})
}

// Search handles GET /v1/search?q=query
func (h *TrendingHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	videos, err := h.svc.Search(r.Context(), query)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "Failed to search videos")
		return
	}

	JSON(w, http.StatusOK, SearchResponse{
		Videos: toVideoResponses(videos),
		Meta: SearchMeta{
			Query:      query,
			TotalCount: len(videos),
		},
	})
}

func toVideoResponses(videos []*model.TrendingVideo) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, VideoResponse{
			VideoID:         v.VideoID,
			Title:           v.Title,
			Description:     v.Description,
			ChannelID:       v.ChannelID,
			ChannelTitle:    v.ChannelTitle,
			ViewCount:       v.ViewCount,
			ViewCountText:   v.FormattedViewCount(),
			LikeCount:       v.LikeCount,
			CommentCount:    v.CommentCount,
			PublishedAt:     v.PublishedAt.Format(time.RFC3339),
			DurationSeconds: v.DurationSeconds,
			ThumbnailURL:    v.ThumbnailURL,
			IsShort:         v.IsShort,
			RegionCode:      v.RegionCode,
			CollectionDate:  v.CollectionDate.Format(time.DateOnly),
			YouTubeURL:      v.YouTubeURL(),
		})
	}
	return out
}
