package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/trendwatch/internal/domain/repository"
	"github.com/hszk-dev/trendwatch/internal/usecase"
)

// CollectResultResponse is the wire form of a single-region run outcome.
type CollectResultResponse struct {
	Success          bool   `json:"success"`
	AlreadyCollected bool   `json:"already_collected,omitempty"`
	Region           string `json:"region"`
	Date             string `json:"date"`
	VideosCollected  int    `json:"videos_collected"`
	Message          string `json:"message"`
	Error            string `json:"error,omitempty"`
}

type RegionStatusResponse struct {
	Region    string `json:"region"`
	Collected bool   `json:"collected"`
	Count     int64  `json:"count"`
}

type CollectionStatusResponse struct {
	Date    string                 `json:"date"`
	Regions []RegionStatusResponse `json:"regions"`
}

// CollectHandler handles write-path HTTP requests.
type CollectHandler struct {
	svc   usecase.CollectionService
	queue repository.MessageQueue
}

// NewCollectHandler creates a new CollectHandler.
func NewCollectHandler(svc usecase.CollectionService, queue repository.MessageQueue) *CollectHandler {
	return &CollectHandler{svc: svc, queue: queue}
}

// CollectRegion handles POST /v1/collect/{region}. The run executes
// synchronously; the caller gets an immediate success/failure message with
// counts.
func (h *CollectHandler) CollectRegion(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")

	result, err := h.svc.CollectRegion(r.Context(), region, time.Now())
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedRegion) {
			Error(w, http.StatusBadRequest, "unsupported_region", "Region is not supported")
			return
		}
		Error(w, http.StatusInternalServerError, "internal_error", "Collection failed unexpectedly")
		return
	}

	status := http.StatusOK
	switch {
	case result.AlreadyCollected:
		status = http.StatusConflict
	case !result.Success:
		status = http.StatusBadGateway
	}

	JSON(w, status, CollectResultResponse{
		Success:          result.Success,
		AlreadyCollected: result.AlreadyCollected,
		Region:           result.Region,
		Date:             result.Date.Format(time.DateOnly),
		VideosCollected:  result.VideosCollected,
		Message:          result.Message,
		Error:            result.Err,
	})
}

// CollectAll handles POST /v1/collect. A full batch takes on the order of
// (region count x pacing delay), so it is enqueued for the collector worker
// rather than run inside the request.
func (h *CollectHandler) CollectAll(w http.ResponseWriter, r *http.Request) {
	task := repository.CollectTask{
		AllRegions: true,
		Date:       time.Now().UTC().Format(time.DateOnly),
	}

	if err := h.queue.PublishCollectTask(r.Context(), task); err != nil {
		Error(w, http.StatusServiceUnavailable, "queue_unavailable", "Failed to enqueue batch collection")
		return
	}

	JSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"date":    task.Date,
		"message": "batch collection enqueued",
	})
}

// Status handles GET /v1/collect/status.
func (h *CollectHandler) Status(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	statuses, err := h.svc.CollectionStatus(r.Context(), now)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "Failed to read collection status")
		return
	}

	out := make([]RegionStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, RegionStatusResponse{
			Region:    s.Region,
			Collected: s.Collected,
			Count:     s.Count,
		})
	}

	JSON(w, http.StatusOK, CollectionStatusResponse{
		Date:    now.UTC().Format(time.DateOnly),
		Regions: out,
	})
}
