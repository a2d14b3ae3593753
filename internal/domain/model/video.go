package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Kind selects which slice of a region's trending chart is requested.
type Kind string

const (
	KindAll    Kind = "all"
	KindVideos Kind = "videos"
	KindShorts Kind = "shorts"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindAll, KindVideos, KindShorts:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Kinds lists every collection kind, in cache-invalidation order.
func Kinds() []Kind {
	return []Kind{KindAll, KindVideos, KindShorts}
}

// NormalizeKind falls back to KindAll for absent or unsupported input.
func NormalizeKind(s string) Kind {
	k := Kind(s)
	if k.IsValid() {
		return k
	}
	return KindAll
}

// ShortsMaxSeconds is the upper duration bound for the shorts classification.
const ShortsMaxSeconds = 60

// TrendingVideo is one entry of a region's trending chart on a collection day.
// The triple (VideoID, RegionCode, CollectionDate) is unique within the store.
type TrendingVideo struct {
	ID              uuid.UUID
	VideoID         string
	Title           string
	Description     string
	ChannelID       string
	ChannelTitle    string
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	PublishedAt     time.Time
	Duration        string
	DurationSeconds int
	ThumbnailURL    string
	IsShort         bool
	RegionCode      string
	CollectionDate  time.Time
	CreatedAt       time.Time
}

var (
	ErrEmptyVideoID   = errors.New("video ID cannot be empty")
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEmptyChannelID = errors.New("channel ID cannot be empty")
	ErrEmptyRegion    = errors.New("region code cannot be empty")
	ErrNegativeCount  = errors.New("view/like/comment counts cannot be negative")
)

// Validate checks the persistence invariants of the record.
func (v *TrendingVideo) Validate() error {
	if v.VideoID == "" {
		return ErrEmptyVideoID
	}
	if v.Title == "" {
		return ErrEmptyTitle
	}
	if v.ChannelID == "" {
		return ErrEmptyChannelID
	}
	if v.RegionCode == "" {
		return ErrEmptyRegion
	}
	if v.ViewCount < 0 || v.LikeCount < 0 || v.CommentCount < 0 {
		return ErrNegativeCount
	}
	return nil
}

// MatchesKind reports whether the record belongs to the requested chart slice.
func (v *TrendingVideo) MatchesKind(k Kind) bool {
	switch k {
	case KindShorts:
		return v.IsShort
	case KindVideos:
		return !v.IsShort
	default:
		return true
	}
}

// YouTubeURL returns the public watch URL for the video.
func (v *TrendingVideo) YouTubeURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// FormattedViewCount renders the view count in a compact human form (1.2M).
func (v *TrendingVideo) FormattedViewCount() string {
	switch {
	case v.ViewCount < 1_000:
		return fmt.Sprintf("%d", v.ViewCount)
	case v.ViewCount < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(v.ViewCount)/1_000)
	case v.ViewCount < 1_000_000_000:
		return fmt.Sprintf("%.1fM", float64(v.ViewCount)/1_000_000)
	default:
		return fmt.Sprintf("%.1fB", float64(v.ViewCount)/1_000_000_000)
	}
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration interprets an ISO-8601 period string (PT#H#M#S, any component
// optional) as total seconds. Absent or unparsable input yields 0.
func ParseDuration(s string) int {
	if s == "" {
		return 0
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoiOrZero(m[1])*3600 + atoiOrZero(m[2])*60 + atoiOrZero(m[3])
}

// IsShortDuration classifies a duration as a short. Zero seconds means the
// duration was missing or unparsable and never classifies as short.
func IsShortDuration(seconds int) bool {
	return seconds > 0 && seconds <= ShortsMaxSeconds
}

func atoiOrZero(s string) int {
	n := 0
	for _, ch := range s {
		n = n*10 + int(ch-'0')
	}
	return n
}

// DateOnly truncates t to its calendar day in UTC. Collection dates are days,
// not timestamps.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
