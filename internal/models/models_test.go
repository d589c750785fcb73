package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() VideoInput {
	return VideoInput{
		Title:          "  動画タイトル ",
		ChannelName:    "チャンネル",
		Summary:        "## 要約\n\n本文",
		DetailedScript: "スクリプト",
		OriginalURL:    " https://www.youtube.com/watch?v=dQw4w9WgXcQ ",
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortOrder
	}{
		{"created_at-desc", SortNewest},
		{"view_count-desc", SortMostViewed},
		{"created_at-asc", SortOldest},
		{" view_count-desc ", SortMostViewed},
		{"", SortNewest},
		{"title-asc; DROP TABLE videos", SortNewest},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSortOrder(tt.in); got != tt.want {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortOrderLabel(t *testing.T) {
	if got := SortMostViewed.Label(); got != "人気順" {
		t.Errorf("Label() = %q", got)
	}
	if got := SortOrder("bogus").Label(); got != "新着順" {
		t.Errorf("unknown order label = %q, want default", got)
	}
}

func TestVideoInputNormalize(t *testing.T) {
	in := validInput()
	in.Summary = "本文\n\n"
	in.Normalize()

	if in.Title != "動画タイトル" {
		t.Errorf("Title = %q", in.Title)
	}
	if in.OriginalURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("OriginalURL = %q", in.OriginalURL)
	}
	if in.Summary != "本文" {
		t.Errorf("Summary = %q", in.Summary)
	}
}

func TestVideoInputValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := validInput()
		in.Duration = "1:02:03"
		in.PublishedAt = "2024-05-01"
		if err := in.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		err := VideoInput{Title: "   "}.Validate()
		var fe FieldErrors
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldErrors, got %v", err)
		}
		for _, field := range []string{"title", "channel_name", "summary", "detailed_script"} {
			if _, ok := fe[field]; !ok {
				t.Errorf("missing error for %s", field)
			}
		}
		if !strings.HasPrefix(err.Error(), "invalid video: title") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	tests := []struct {
		name  string
		apply func(*VideoInput)
		field string
	}{
		{"bad duration", func(in *VideoInput) { in.Duration = "10分" }, "duration"},
		{"duration seconds over 59", func(in *VideoInput) { in.Duration = "10:75" }, "duration"},
		{"bad date", func(in *VideoInput) { in.PublishedAt = "05/01/2024" }, "published_at"},
		{"negative views", func(in *VideoInput) { in.ViewCount = -1 }, "view_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.apply(&in)
			var fe FieldErrors
			if err := in.Validate(); !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
			if _, ok := fe[tt.field]; !ok || len(fe) != 1 {
				t.Errorf("errors = %v, want only %s", fe, tt.field)
			}
		})
	}
}

func TestReadTimeMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 1},
		{"short", "あいう", 1},
		{"exactly one thousand", strings.Repeat("字", 1000), 1},
		{"one over", strings.Repeat("字", 1001), 2},
		{"multibyte counts runes", strings.Repeat("語", 2500), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadTimeMinutes(tt.text); got != tt.want {
				t.Errorf("ReadTimeMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVideoRoundTripsInput(t *testing.T) {
	in := validInput()
	in.Normalize()
	in.PublishedAt = "2024-05-01"
	in.ViewCount = 12

	v := NewVideo(3, in)
	if v.Sequence() != 3 || v.ViewCount() != 12 {
		t.Fatalf("unexpected video %+v", v)
	}
	if v.PublishedAt() == nil || v.PublishedAt().Day() != 1 {
		t.Fatalf("PublishedAt = %v", v.PublishedAt())
	}
	if got := v.Input(); got != in {
		t.Errorf("Input() = %+v, want %+v", got, in)
	}

	if err := v.Validate(); err == nil {
		t.Error("expected error without ID")
	}
	v.SetID("abc")
	if err := v.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	v.SetViewCount(-5)
	if v.ViewCount() != 0 {
		t.Errorf("ViewCount() = %d, want clamp to 0", v.ViewCount())
	}
}

func TestUser(t *testing.T) {
	u := NewUser(1, "  Owner@Example.COM ", " Owner ", "hash")
	if u.Email() != "owner@example.com" {
		t.Errorf("Email() = %q", u.Email())
	}
	if u.DisplayName() != "Owner" {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}

	if err := u.Validate(); err == nil {
		t.Error("expected error without ID")
	}
	u.SetID("id")
	if err := u.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	u.SetEmail("not-an-email")
	if err := u.Validate(); err == nil {
		t.Error("expected invalid email error")
	}

	u.SetEmail("a@b.co")
	u.SetName("")
	if u.DisplayName() != "a@b.co" {
		t.Errorf("DisplayName() = %q, want email fallback", u.DisplayName())
	}
}

func TestSession(t *testing.T) {
	s := NewSession("hash", "user", "agent", time.Hour)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if s.Expired(s.CreatedAt()) {
		t.Error("fresh session reported expired")
	}
	if !s.Expired(s.ExpiresAt()) {
		t.Error("session should be expired at its expiry instant")
	}

	if err := NewSession("hash", "user", "", 0).Validate(); err == nil {
		t.Error("expected error for zero ttl")
	}
	if err := NewSession("", "user", "", time.Hour).Validate(); err == nil {
		t.Error("expected error for missing hash")
	}
}
