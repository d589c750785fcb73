package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

const (
	DefaultOEmbedURL = "https://www.youtube.com/oembed"
	defaultTimeout   = 10 * time.Second
)

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbedService implements [MetadataService] with YouTube's oEmbed endpoint.
type OEmbedService struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// OEmbedOption configures an [OEmbedService].
type OEmbedOption func(*OEmbedService)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) OEmbedOption {
	return func(s *OEmbedService) { s.httpClient = c }
}

// WithRateLimit allows perSecond lookups per second. Non-positive values disable pacing.
func WithRateLimit(perSecond float64) OEmbedOption {
	return func(s *OEmbedService) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) OEmbedOption {
	return func(s *OEmbedService) { s.logger = l }
}

// NewOEmbedService creates an oEmbed client for endpoint, defaulting to [DefaultOEmbedURL].
func NewOEmbedService(endpoint string, opts ...OEmbedOption) *OEmbedService {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}

	s := &OEmbedService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the service name.
func (s *OEmbedService) Name() string {
	return "YouTube oEmbed"
}

// Lookup resolves title, channel, and thumbnail for a video URL.
//
// The URL is canonicalized to a watch page before the request, so short links and embeds work too.
func (s *OEmbedService) Lookup(ctx context.Context, videoURL string) (*models.VideoMetadata, error) {
	id, ok := ExtractVideoID(videoURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedURL, videoURL)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRateLimited, err)
	}

	params := url.Values{}
	params.Set("url", WatchURL(id))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("oembed lookup", "video_id", id)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: oembed status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	thumbnail := body.ThumbnailURL
	if thumbnail == "" {
		thumbnail = VideoThumbnailURL(id)
	}

	return &models.VideoMetadata{
		VideoID:      id,
		Title:        body.Title,
		ChannelName:  body.AuthorName,
		ChannelURL:   body.AuthorURL,
		ThumbnailURL: thumbnail,
	}, nil
}
