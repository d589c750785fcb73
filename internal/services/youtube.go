package services

import (
	"regexp"
	"strings"

	"github.com/desertthunder/texttube/internal/models"
)

// PlaceholderThumbnail is served for videos without a usable image.
const PlaceholderThumbnail = "/static/placeholder.svg"

const videoIDLength = 11

var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

var imageHosts = []string{"img.youtube.com", "i.ytimg.com", "yt3.googleusercontent.com", "yt3.ggpht.com"}

var imageExts = []string{".jpg", ".png", ".webp"}

var channelPaths = []string{"youtube.com/@", "youtube.com/channel/", "youtube.com/user/"}

// ExtractVideoID returns the video ID in url when it has exactly eleven characters.
func ExtractVideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != videoIDLength {
		return "", false
	}
	return m[2], true
}

// ThumbnailURL maps a URL from the studio form to the image URL stored with the video.
func ThumbnailURL(url string) string {
	if url == "" {
		return PlaceholderThumbnail
	}

	if isImageURL(url) {
		return url
	}

	for _, p := range channelPaths {
		if strings.Contains(url, p) {
			return PlaceholderThumbnail
		}
	}

	if id, ok := ExtractVideoID(url); ok {
		return VideoThumbnailURL(id)
	}

	return url
}

// VideoThumbnailURL is the hqdefault image for a video ID.
func VideoThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

// WatchURL is the canonical watch page for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func isImageURL(url string) bool {
	for _, h := range imageHosts {
		if strings.Contains(url, h) {
			return true
		}
	}
	for _, ext := range imageExts {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return false
}

// ResolveThumbnail sets the stored thumbnail for in.
//
// An empty thumbnail field is derived from the original video URL when that URL names a video.
func ResolveThumbnail(in *models.VideoInput) {
	if in.ThumbnailURL == "" {
		if id, ok := ExtractVideoID(in.OriginalURL); ok {
			in.ThumbnailURL = VideoThumbnailURL(id)
			return
		}
	}
	in.ThumbnailURL = ThumbnailURL(in.ThumbnailURL)
}
