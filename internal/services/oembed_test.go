package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/texttube/internal/shared"
	tu "github.com/desertthunder/texttube/internal/testing"
)

func TestOEmbedService(t *testing.T) {
	t.Run("NewOEmbedService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewOEmbedService(""); svc.endpoint != DefaultOEmbedURL {
				t.Errorf("expected endpoint to be %s, got %s", DefaultOEmbedURL, svc.endpoint)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000/oembed"
			if svc := NewOEmbedService(customURL); svc.endpoint != customURL {
				t.Errorf("expected endpoint to be %s, got %s", customURL, svc.endpoint)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewOEmbedService(""); svc.Name() != "YouTube oEmbed" {
			t.Errorf("expected name to be 'YouTube oEmbed', got %s", svc.Name())
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if got := r.URL.Query().Get("url"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
				t.Errorf("expected canonical watch URL, got %s", got)
			}
			if got := r.URL.Query().Get("format"); got != "json" {
				t.Errorf("expected format=json, got %s", got)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"title":         "Never Gonna Give You Up",
				"author_name":   "Rick Astley",
				"author_url":    "https://www.youtube.com/@RickAstleyYT",
				"thumbnail_url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
			})
		}))
		defer server.Close()

		svc := NewOEmbedService(server.URL, WithRateLimit(100))
		meta, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if meta.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("expected video ID dQw4w9WgXcQ, got %s", meta.VideoID)
		}
		if meta.Title != "Never Gonna Give You Up" || meta.ChannelName != "Rick Astley" {
			t.Errorf("unexpected metadata %+v", meta)
		}
		if meta.ThumbnailURL != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
			t.Errorf("unexpected thumbnail %s", meta.ThumbnailURL)
		}
	})

	t.Run("Lookup derives thumbnail when missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"title":"t","author_name":"a"}`))
		}))
		defer server.Close()

		meta, err := NewOEmbedService(server.URL).Lookup(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if meta.ThumbnailURL != VideoThumbnailURL("dQw4w9WgXcQ") {
			t.Errorf("unexpected thumbnail %s", meta.ThumbnailURL)
		}
	})

	t.Run("Lookup errors", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
			url    string
			want   error
		}{
			{"unsupported url", http.StatusOK, "{}", "https://example.com", shared.ErrUnsupportedURL},
			{"not found", http.StatusNotFound, "Not Found", "https://youtu.be/dQw4w9WgXcQ", shared.ErrVideoNotFound},
			{"private", http.StatusUnauthorized, "Unauthorized", "https://youtu.be/dQw4w9WgXcQ", shared.ErrVideoNotFound},
			{"server error", http.StatusInternalServerError, "", "https://youtu.be/dQw4w9WgXcQ", shared.ErrAPIRequest},
			{"bad json", http.StatusOK, "{", "https://youtu.be/dQw4w9WgXcQ", nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				_, err := NewOEmbedService(server.URL).Lookup(context.Background(), tt.url)
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.want != nil && !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Lookup transport failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		svc := NewOEmbedService("http://oembed.invalid", WithHTTPClient(client))

		_, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Lookup body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(&tu.FCloser{}), Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		svc := NewOEmbedService("http://oembed.invalid", WithHTTPClient(client))

		_, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		if err == nil || !strings.Contains(err.Error(), "decode") {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("Lookup cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewOEmbedService("http://oembed.invalid", WithRateLimit(1)).Lookup(ctx, "https://youtu.be/dQw4w9WgXcQ")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})
}

var _ MetadataService = (*OEmbedService)(nil)
var _ MetadataService = (*tu.MockMetadataService)(nil)
