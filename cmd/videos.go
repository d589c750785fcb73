package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/texttube/internal/formatter"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
	"github.com/desertthunder/texttube/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VideosList prints videos matching --query and --channel in --sort order.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.videos()
	if err != nil {
		return err
	}

	videos, err := repo.Search(models.VideoQuery{
		Query:   cmd.String("query"),
		Channel: cmd.String("channel"),
		Sort:    models.ParseSortOrder(cmd.String("sort")),
		Limit:   cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]formatter.ExportRecord, 0, len(videos))
		for _, v := range videos {
			records = append(records, formatter.NewExportRecord(v))
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(videos) == 0 {
		return r.writePlain("No videos found.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Videos (%d)", len(videos)))
	for _, v := range videos {
		r.writePlain("%s\n", v.Title())
		r.writePlain("  %s  %s  %s  %s\n",
			v.ID(), v.ChannelName(), shared.FormatViews(v.ViewCount()), shared.FormatDate(v.CreatedAt()))
	}
	return nil
}

// VideosExport writes the catalogue as JSON, CSV or Markdown.
//
// Markdown with --output produces a directory of documents plus an index; everything else is a single stream.
func (r *Runner) VideosExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if !formatter.IsFormat(format) {
		return fmt.Errorf("%w: format %q (want one of %s)",
			shared.ErrInvalidArgument, format, strings.Join(formatter.Formats, ", "))
	}

	repo, err := r.videos()
	if err != nil {
		return err
	}

	videos, err := repo.Search(models.VideoQuery{Channel: cmd.String("channel"), Sort: models.SortOldest})
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if format == formatter.FormatMarkdown && output != "" {
		result, err := formatter.WriteMarkdownExport(ctx, videos, output, formatter.MarkdownExportOpts{
			Thumbnails: cmd.Bool("thumbnails"),
			Client:     r.httpClient,
			Warn:       func(msg string, kv ...any) { r.logger.Warn(msg, kv...) },
		})
		if err != nil {
			return err
		}
		r.logger.Info("export complete", "directory", result.Directory, "files", len(result.Files), "images", len(result.Images))
		return r.writePlain("%s\n", result.Index)
	}

	var w io.Writer = r.output
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := formatter.Export(w, format, videos); err != nil {
		return err
	}
	if output != "" {
		r.logger.Info("export complete", "file", output, "videos", len(videos))
	}
	return nil
}

// VideosImport creates videos from a JSON array, printing progress as each one finishes.
func (r *Runner) VideosImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a JSON file", shared.ErrMissingArgument)
	}

	inputs, err := tasks.ReadImportFile(path)
	if err != nil {
		return err
	}

	repo, err := r.videos()
	if err != nil {
		return err
	}

	opts := tasks.ImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.YouTube.RateLimit,
		Enrich:     cmd.Bool("enrich"),
		DryRun:     cmd.Bool("dry-run"),
	}

	importer := tasks.NewImporter(repo, r.metadataService(), shared.WithLogger(r.logger, "component", "import"))

	progress := make(chan tasks.ProgressUpdate, 2*len(inputs)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := importer.Import(ctx, progress, inputs, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		r.writePlainln("Failed:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  #%d %s: %v\n", res.Index+1, res.Title, res.Error)
			}
		}
	}
	return nil
}
