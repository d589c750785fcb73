package services

import (
	"context"

	"github.com/desertthunder/texttube/internal/models"
)

// MetadataService resolves details for a video URL.
type MetadataService interface {
	// Lookup fetches metadata for the video at url.
	Lookup(ctx context.Context, url string) (*models.VideoMetadata, error)

	// Name returns the name of the provider (e.g., "YouTube oEmbed")
	Name() string
}

// Fill copies metadata into the empty fields of in. Fields the owner already typed are kept.
func Fill(in *models.VideoInput, meta *models.VideoMetadata) {
	if meta == nil {
		return
	}
	if in.Title == "" {
		in.Title = meta.Title
	}
	if in.ChannelName == "" {
		in.ChannelName = meta.ChannelName
	}
	if in.ThumbnailURL == "" {
		in.ThumbnailURL = meta.ThumbnailURL
	}
}
