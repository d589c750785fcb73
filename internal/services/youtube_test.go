package services

import (
	"testing"

	"github.com/desertthunder/texttube/internal/models"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"v after other params", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"legacy v", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"fragment", "https://youtu.be/dQw4w9WgXcQ#t=1", "dQw4w9WgXcQ", true},
		{"id too short", "https://youtu.be/abc", "", false},
		{"id too long", "https://youtu.be/dQw4w9WgXcQQ", "", false},
		{"not youtube", "https://example.com/page", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"empty", "", PlaceholderThumbnail},
		{"img host", "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		{"ytimg host", "https://i.ytimg.com/vi/x/hq720", "https://i.ytimg.com/vi/x/hq720"},
		{"channel avatar host", "https://yt3.ggpht.com/abc=s88", "https://yt3.ggpht.com/abc=s88"},
		{"png suffix", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"handle page", "https://www.youtube.com/@somebody", PlaceholderThumbnail},
		{"channel page", "https://www.youtube.com/channel/UC123", PlaceholderThumbnail},
		{"user page", "https://www.youtube.com/user/somebody", PlaceholderThumbnail},
		{"video", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		{"unknown passes through", "https://example.com/page", "https://example.com/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThumbnailURL(tt.url); got != tt.want {
				t.Errorf("ThumbnailURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveThumbnail(t *testing.T) {
	t.Run("derives from original url", func(t *testing.T) {
		in := models.VideoInput{OriginalURL: "https://youtu.be/dQw4w9WgXcQ"}
		ResolveThumbnail(&in)
		if in.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
			t.Errorf("ThumbnailURL = %q", in.ThumbnailURL)
		}
	})

	t.Run("explicit thumbnail wins", func(t *testing.T) {
		in := models.VideoInput{
			OriginalURL:  "https://youtu.be/dQw4w9WgXcQ",
			ThumbnailURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa",
		}
		ResolveThumbnail(&in)
		if in.ThumbnailURL != "https://img.youtube.com/vi/aaaaaaaaaaa/hqdefault.jpg" {
			t.Errorf("ThumbnailURL = %q", in.ThumbnailURL)
		}
	})

	t.Run("nothing to go on", func(t *testing.T) {
		in := models.VideoInput{OriginalURL: "https://example.com"}
		ResolveThumbnail(&in)
		if in.ThumbnailURL != PlaceholderThumbnail {
			t.Errorf("ThumbnailURL = %q", in.ThumbnailURL)
		}
	})
}

func TestFill(t *testing.T) {
	in := models.VideoInput{Title: "Mine"}
	Fill(&in, &models.VideoMetadata{Title: "Theirs", ChannelName: "Chan", ThumbnailURL: "https://i.ytimg.com/x.jpg"})

	if in.Title != "Mine" {
		t.Errorf("Title = %q, want owner's value kept", in.Title)
	}
	if in.ChannelName != "Chan" || in.ThumbnailURL != "https://i.ytimg.com/x.jpg" {
		t.Errorf("unexpected fill %+v", in)
	}

	Fill(&in, nil)
}
