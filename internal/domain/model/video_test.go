package model

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"hours minutes seconds", "PT1H5M30S", 3930},
		{"minutes seconds", "PT4M13S", 253},
		{"seconds only", "PT45S", 45},
		{"minutes only", "PT3M", 180},
		{"hours only", "PT2H", 7200},
		{"exactly one minute", "PT1M", 60},
		{"empty string", "", 0},
		{"garbage", "not-a-duration", 0},
		{"missing prefix", "1H5M30S", 0},
		{"trailing garbage", "PT45Sx", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.input); got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsShortDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    bool
	}{
		{"zero never classifies as short", 0, false},
		{"one second", 1, true},
		{"boundary 60s is short", 60, true},
		{"61s is not short", 61, false},
		{"long video", 3930, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShortDuration(tt.seconds); got != tt.want {
				t.Errorf("IsShortDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"all", KindAll},
		{"videos", KindVideos},
		{"shorts", KindShorts},
		{"", KindAll},
		{"bogus", KindAll},
	}

	for _, tt := range tests {
		if got := NormalizeKind(tt.input); got != tt.want {
			t.Errorf("NormalizeKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTrendingVideo_MatchesKind(t *testing.T) {
	short := &TrendingVideo{IsShort: true}
	regular := &TrendingVideo{IsShort: false}

	if !short.MatchesKind(KindAll) || !regular.MatchesKind(KindAll) {
		t.Error("KindAll should match every record")
	}
	if !short.MatchesKind(KindShorts) || regular.MatchesKind(KindShorts) {
		t.Error("KindShorts should match only shorts")
	}
	if short.MatchesKind(KindVideos) || !regular.MatchesKind(KindVideos) {
		t.Error("KindVideos should match only regular videos")
	}
}

func TestTrendingVideo_Validate(t *testing.T) {
	valid := func() *TrendingVideo {
		return &TrendingVideo{
			VideoID:        "dQw4w9WgXcQ",
			Title:          "Test Video",
			ChannelID:      "UCtest",
			ChannelTitle:   "Test Channel",
			ViewCount:      100,
			RegionCode:     "KR",
			CollectionDate: time.Now(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(v *TrendingVideo)
		wantErr error
	}{
		{"valid record", func(v *TrendingVideo) {}, nil},
		{"missing video ID", func(v *TrendingVideo) { v.VideoID = "" }, ErrEmptyVideoID},
		{"missing title", func(v *TrendingVideo) { v.Title = "" }, ErrEmptyTitle},
		{"missing channel ID", func(v *TrendingVideo) { v.ChannelID = "" }, ErrEmptyChannelID},
		{"missing region", func(v *TrendingVideo) { v.RegionCode = "" }, ErrEmptyRegion},
		{"negative view count", func(v *TrendingVideo) { v.ViewCount = -1 }, ErrNegativeCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid()
			tt.mutate(v)
			if err := v.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrendingVideo_FormattedViewCount(t *testing.T) {
	tests := []struct {
		count int64
		want  string
	}{
		{999, "999"},
		{1_500, "1.5K"},
		{2_300_000, "2.3M"},
		{1_200_000_000, "1.2B"},
	}

	for _, tt := range tests {
		v := &TrendingVideo{ViewCount: tt.count}
		if got := v.FormattedViewCount(); got != tt.want {
			t.Errorf("FormattedViewCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestTrendingVideo_YouTubeURL(t *testing.T) {
	v := &TrendingVideo{VideoID: "dQw4w9WgXcQ"}
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got := v.YouTubeURL(); got != want {
		t.Errorf("YouTubeURL() = %q, want %q", got, want)
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 7, 20, 15, 4, 5, 123, time.FixedZone("KST", 9*3600))
	got := DateOnly(ts)
	want := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly() = %v, want %v", got, want)
	}
}
