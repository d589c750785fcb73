package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultDuration is shown on cards for videos without a recorded length.
const DefaultDuration = "10:00"

var printer = message.NewPrinter(language.Japanese)

// FormatViews renders a view count the way cards display it: grouped digits below ten thousand, 万 units above.
//
// Negative counts clamp to zero.
func FormatViews(views int) string {
	v := max(0, views)
	if v >= 10000 {
		return fmt.Sprintf("%.1f万 閲覧", float64(v)/10000)
	}
	return printer.Sprintf("%d 閲覧", v)
}

// FormatCount renders n with locale digit grouping.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatDate renders t as YYYY/M/D, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// ParseDuration splits an "HH:MM:SS" or "MM:SS" string into seconds.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: duration %q must be HH:MM:SS or MM:SS", ErrInvalidInput, s)
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: duration %q has a bad component", ErrInvalidInput, s)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("%w: duration %q has a component over 59", ErrInvalidInput, s)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds int) string {
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DisplayDuration normalizes a stored duration for cards.
//
// Empty or all-zero values fall back to [DefaultDuration]; unparseable values are shown as stored.
func DisplayDuration(stored string) string {
	if strings.TrimSpace(stored) == "" {
		return DefaultDuration
	}
	seconds, err := ParseDuration(stored)
	if err != nil {
		return stored
	}
	if seconds == 0 {
		return DefaultDuration
	}
	return FormatDuration(seconds)
}
