package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

// DefaultStyle is the glamour style used when none is configured.
const DefaultStyle = "dark"

// Renderer turns Markdown into terminal output wrapped at width.
type Renderer func(markdown string, width int) (string, error)

// GlamourRenderer returns a [Renderer] backed by glamour's standard style.
func GlamourRenderer(style string) Renderer {
	if style == "" {
		style = DefaultStyle
	}
	return func(markdown string, width int) (string, error) {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(max(20, width)),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		return r.Render(markdown)
	}
}

// Tab selects which body the reader shows.
type Tab int

const (
	SummaryTab Tab = iota
	ScriptTab
)

func (t Tab) String() string {
	if t == ScriptTab {
		return "スクリプト"
	}
	return "要約"
}

// readerDocument builds the Markdown shown in the reader for v.
func readerDocument(v *models.Video, tab Tab) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Title())
	fmt.Fprintf(&b, "**%s** · %s · 約%d分で読めます\n\n", v.ChannelName(), shared.FormatViews(v.ViewCount()), v.ReadTimeMinutes())
	if v.OriginalURL() != "" {
		fmt.Fprintf(&b, "<%s>\n\n", v.OriginalURL())
	}

	body := v.Summary()
	empty := "*要約が入力されていません*"
	if tab == ScriptTab {
		body = v.DetailedScript()
		empty = "*スクリプトが入力されていません*"
	}
	if strings.TrimSpace(body) == "" {
		body = empty
	}
	b.WriteString(body)
	b.WriteString("\n")

	return b.String()
}
