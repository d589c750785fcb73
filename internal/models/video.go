package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the form layout for publish dates.
const DateLayout = "2006-01-02"

// charsPerMinute is the reading speed used for read-time estimates.
const charsPerMinute = 1000

// SortOrder names a listing order accepted by the home page and studio.
type SortOrder string

const (
	SortNewest     SortOrder = "created_at-desc"
	SortMostViewed SortOrder = "view_count-desc"
	SortOldest     SortOrder = "created_at-asc"
)

// SortOrders lists the accepted orders in the sequence the sort select shows them.
var SortOrders = []SortOrder{SortNewest, SortMostViewed, SortOldest}

// ParseSortOrder maps a query value to a [SortOrder], falling back to [SortNewest] for unknown values.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.TrimSpace(s)); o {
	case SortNewest, SortMostViewed, SortOldest:
		return o
	default:
		return SortNewest
	}
}

// Label is the Japanese caption used in sort selects.
func (o SortOrder) Label() string {
	switch o {
	case SortMostViewed:
		return "人気順"
	case SortOldest:
		return "古い順"
	default:
		return "新着順"
	}
}

// VideoQuery carries listing options.
//
// Query is matched as a substring of the title or the channel name. Channel narrows to one channel exactly.
type VideoQuery struct {
	Query   string
	Sort    SortOrder
	Channel string
	Limit   int
}

// VideoMetadata is what a metadata lookup resolves for a video URL.
type VideoMetadata struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channel_name"`
	ChannelURL   string `json:"channel_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// VideoInput holds the editable fields of a video as submitted by the studio form or an import file.
type VideoInput struct {
	Title               string `json:"title"`
	ChannelName         string `json:"channel_name"`
	ChannelThumbnailURL string `json:"channel_thumbnail_url"`
	ThumbnailURL        string `json:"thumbnail_url"`
	OriginalURL         string `json:"original_url"`
	Summary             string `json:"summary"`
	DetailedScript      string `json:"detailed_script"`
	Duration            string `json:"duration"`
	PublishedAt         string `json:"published_at"`
	ViewCount           int    `json:"view_count"`
}

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for _, k := range []string{"title", "channel_name", "summary", "detailed_script", "duration", "published_at", "view_count"} {
		if msg, ok := e[k]; ok {
			keys = append(keys, k+": "+msg)
		}
	}
	return "invalid video: " + strings.Join(keys, "; ")
}

// Normalize trims surrounding whitespace from every text field.
func (in *VideoInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ChannelName = strings.TrimSpace(in.ChannelName)
	in.ChannelThumbnailURL = strings.TrimSpace(in.ChannelThumbnailURL)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	in.OriginalURL = strings.TrimSpace(in.OriginalURL)
	in.Duration = strings.TrimSpace(in.Duration)
	in.PublishedAt = strings.TrimSpace(in.PublishedAt)
	in.Summary = strings.TrimRight(in.Summary, " \t\r\n")
	in.DetailedScript = strings.TrimRight(in.DetailedScript, " \t\r\n")
}

// Validate reports missing required fields and malformed optional ones.
//
// A non-nil result is always a [FieldErrors].
func (in VideoInput) Validate() error {
	errs := FieldErrors{}
	required := map[string]string{
		"title":           in.Title,
		"channel_name":    in.ChannelName,
		"summary":         in.Summary,
		"detailed_script": in.DetailedScript,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "必須項目です"
		}
	}

	if in.Duration != "" && !validDuration(in.Duration) {
		errs["duration"] = "HH:MM:SS 形式で入力してください"
	}
	if _, err := ParsePublishedAt(in.PublishedAt); err != nil {
		errs["published_at"] = "YYYY-MM-DD 形式で入力してください"
	}
	if in.ViewCount < 0 {
		errs["view_count"] = "0 以上を指定してください"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validDuration accepts HH:MM:SS or MM:SS where every component after the first is below 60.
func validDuration(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && (n > 59 || len(p) != 2)) {
			return false
		}
	}
	return true
}

// ParsePublishedAt parses a YYYY-MM-DD or RFC 3339 date. Empty input yields nil.
func ParsePublishedAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// ReadTimeMinutes estimates reading time for text at a thousand characters per minute, never less than one.
func ReadTimeMinutes(text string) int {
	n := utf8.RuneCountInString(text)
	return max(1, int(math.Ceil(float64(n)/charsPerMinute)))
}

// Video is a published text summary of a video.
type Video struct {
	base
	title               string
	channelName         string
	channelThumbnailURL string
	thumbnailURL        string
	originalURL         string
	summary             string
	detailedScript      string
	duration            string
	publishedAt         *time.Time
	viewCount           int
}

// NewVideo builds a video from form input. The input is expected to be normalized and validated.
func NewVideo(sequence int, in VideoInput) *Video {
	v := &Video{base: newBase(sequence)}
	v.Apply(in)
	return v
}

// Apply copies the editable fields of in onto v.
//
// An unparseable publish date is dropped; callers validate first.
func (v *Video) Apply(in VideoInput) {
	v.title = in.Title
	v.channelName = in.ChannelName
	v.channelThumbnailURL = in.ChannelThumbnailURL
	v.thumbnailURL = in.ThumbnailURL
	v.originalURL = in.OriginalURL
	v.summary = in.Summary
	v.detailedScript = in.DetailedScript
	v.duration = in.Duration
	v.publishedAt, _ = ParsePublishedAt(in.PublishedAt)
	v.viewCount = max(0, in.ViewCount)
}

// Input returns the editable fields of v, used to prefill the edit form and for exports.
func (v *Video) Input() VideoInput {
	in := VideoInput{
		Title:               v.title,
		ChannelName:         v.channelName,
		ChannelThumbnailURL: v.channelThumbnailURL,
		ThumbnailURL:        v.thumbnailURL,
		OriginalURL:         v.originalURL,
		Summary:             v.summary,
		DetailedScript:      v.detailedScript,
		Duration:            v.duration,
		ViewCount:           v.viewCount,
	}
	if v.publishedAt != nil {
		in.PublishedAt = v.publishedAt.Format(DateLayout)
	}
	return in
}

func (v *Video) Title() string               { return v.title }
func (v *Video) ChannelName() string         { return v.channelName }
func (v *Video) ChannelThumbnailURL() string { return v.channelThumbnailURL }
func (v *Video) ThumbnailURL() string        { return v.thumbnailURL }
func (v *Video) OriginalURL() string         { return v.originalURL }
func (v *Video) Summary() string             { return v.summary }
func (v *Video) DetailedScript() string      { return v.detailedScript }
func (v *Video) Duration() string            { return v.duration }
func (v *Video) PublishedAt() *time.Time     { return v.publishedAt }
func (v *Video) ViewCount() int              { return v.viewCount }

func (v *Video) SetPublishedAt(t *time.Time) { v.publishedAt = t }
func (v *Video) SetViewCount(n int)          { v.viewCount = max(0, n) }

// ReadTimeMinutes estimates how long the summary takes to read.
func (v *Video) ReadTimeMinutes() int { return ReadTimeMinutes(v.summary) }

// Validate checks required fields on the persisted entity.
func (v *Video) Validate() error {
	switch {
	case v.id == "":
		return fmt.Errorf("video ID is required")
	case strings.TrimSpace(v.title) == "":
		return fmt.Errorf("video title is required")
	case strings.TrimSpace(v.channelName) == "":
		return fmt.Errorf("channel name is required")
	case strings.TrimSpace(v.summary) == "":
		return fmt.Errorf("summary is required")
	case strings.TrimSpace(v.detailedScript) == "":
		return fmt.Errorf("detailed script is required")
	case v.viewCount < 0:
		return fmt.Errorf("view count must not be negative")
	}
	return nil
}
