// package formatter exports videos to portable formats (Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/texttube/internal/markdown"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Formats lists the values accepted by [Export].
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown}

// ExportRecord is the JSON shape of an exported video. Its fields are a superset of [models.VideoInput],
// so an export file can be fed back into the importer.
type ExportRecord struct {
	ID string `json:"id"`
	models.VideoInput
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewExportRecord flattens a video into its export shape.
func NewExportRecord(v *models.Video) ExportRecord {
	return ExportRecord{
		ID:         v.ID(),
		VideoInput: v.Input(),
		CreatedAt:  v.CreatedAt().UTC(),
		UpdatedAt:  v.UpdatedAt().UTC(),
	}
}

// ExportToJSON converts videos to an indented JSON array.
func ExportToJSON(videos []*models.Video) ([]byte, error) {
	records := make([]ExportRecord, 0, len(videos))
	for _, v := range videos {
		records = append(records, NewExportRecord(v))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal videos: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts videos to CSV with columns: ID, Title, Channel, Views, Duration, Published, Created, URL
func ExportToCSV(videos []*models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "Views", "Duration", "Published", "Created", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range videos {
		published := ""
		if v.PublishedAt() != nil {
			published = v.PublishedAt().Format(models.DateLayout)
		}
		record := []string{
			v.ID(),
			v.Title(),
			v.ChannelName(),
			strconv.Itoa(v.ViewCount()),
			v.Duration(),
			published,
			v.CreatedAt().UTC().Format(time.RFC3339),
			v.OriginalURL(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a single video as a standalone Markdown document.
//
// imageFilename replaces the thumbnail URL when a local copy was saved next to the document.
func ExportToMarkdown(v *models.Video, imageFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", v.Title())

	switch {
	case imageFilename != "":
		fmt.Fprintf(&buf, "![Thumbnail](%s)\n\n", imageFilename)
	case strings.HasPrefix(v.ThumbnailURL(), "http"):
		fmt.Fprintf(&buf, "![Thumbnail](%s)\n\n", v.ThumbnailURL())
	}

	fmt.Fprintf(&buf, "- **チャンネル**: %s\n", v.ChannelName())
	if v.OriginalURL() != "" {
		fmt.Fprintf(&buf, "- **元動画**: %s\n", v.OriginalURL())
	}
	fmt.Fprintf(&buf, "- **再生時間**: %s\n", shared.DisplayDuration(v.Duration()))
	if v.PublishedAt() != nil {
		fmt.Fprintf(&buf, "- **動画公開日**: %s\n", shared.FormatDate(*v.PublishedAt()))
	}
	fmt.Fprintf(&buf, "- **閲覧数**: %s\n", shared.FormatViews(v.ViewCount()))
	fmt.Fprintf(&buf, "- **記事作成日**: %s\n\n", shared.FormatDate(v.CreatedAt()))

	buf.WriteString("## 要約\n\n")
	buf.WriteString(strings.TrimSpace(v.Summary()))
	buf.WriteString("\n\n## スクリプト\n\n")
	buf.WriteString(strings.TrimSpace(v.DetailedScript()))
	buf.WriteString("\n")

	return buf.Bytes()
}

// ExportIndex renders the README that links every exported document.
func ExportIndex(videos []*models.Video, files []string) []byte {
	var buf bytes.Buffer

	buf.WriteString("# TextTube Export\n\n")
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", len(videos))
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. [%s](%s) - %s\n", i+1, v.Title(), files[i], v.ChannelName())
	}

	return buf.Bytes()
}

// Filename derives a stable Markdown filename for v from its sequence and title.
func Filename(v *models.Video) string {
	slug := markdown.Slugify(v.Title())
	if r := []rune(slug); len(r) > 60 {
		slug = strings.TrimRight(string(r[:60]), "-")
	}
	if slug == "" {
		slug = "video"
	}
	return fmt.Sprintf("%04d-%s.md", v.Sequence(), slug)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportOpts configures [WriteMarkdownExport].
type MarkdownExportOpts struct {
	Thumbnails bool         // download thumbnails next to each document
	Client     *http.Client // used for thumbnail downloads
	Warn       func(msg string, kv ...any)
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Index     string
	Files     []string
	Images    []string
}

// WriteMarkdownExport writes one Markdown document per video plus a README.md index into outputDir.
//
// Thumbnail download failures are reported through opts.Warn and the remote URL is kept.
func WriteMarkdownExport(ctx context.Context, videos []*models.Video, outputDir string, opts MarkdownExportOpts) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = fmt.Sprintf("texttube_export_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	warn := opts.Warn
	if warn == nil {
		warn = func(string, ...any) {}
	}

	result := &MarkdownExportResult{Directory: outputDir}
	names := make([]string, 0, len(videos))

	for _, v := range videos {
		name := Filename(v)

		var image string
		if opts.Thumbnails && strings.HasPrefix(v.ThumbnailURL(), "http") {
			data, err := DownloadImage(ctx, opts.Client, v.ThumbnailURL())
			if err != nil {
				warn("failed to download thumbnail", "id", v.ID(), "error", err)
			} else {
				image = strings.TrimSuffix(name, ".md") + ".jpg"
				path := filepath.Join(outputDir, image)
				if err := os.WriteFile(path, data, 0644); err != nil {
					warn("failed to save thumbnail", "id", v.ID(), "error", err)
					image = ""
				} else {
					result.Images = append(result.Images, path)
				}
			}
		}

		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, ExportToMarkdown(v, image), 0644); err != nil {
			return nil, fmt.Errorf("failed to write Markdown file: %w", err)
		}
		names = append(names, name)
		result.Files = append(result.Files, path)
	}

	index := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(index, ExportIndex(videos, names), 0644); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	result.Index = index

	return result, nil
}

// Export writes videos in format to w. Markdown output concatenates the per-video documents.
func Export(w io.Writer, format string, videos []*models.Video) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON, "":
		data, err = ExportToJSON(videos)
	case FormatCSV:
		data, err = ExportToCSV(videos)
	case FormatMarkdown:
		docs := make([][]byte, 0, len(videos))
		for _, v := range videos {
			docs = append(docs, ExportToMarkdown(v, ""))
		}
		data = bytes.Join(docs, []byte("\n---\n\n"))
	default:
		return fmt.Errorf("%w: format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// IsFormat reports whether format is one of [Formats].
func IsFormat(format string) bool {
	return slices.Contains(Formats, format)
}
