package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/services"
	"github.com/desertthunder/texttube/internal/shared"
)

// VideoCreator persists new videos.
type VideoCreator interface {
	Create(video *models.Video) error
}

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Metadata lookups per second (default: 2)
	Enrich     bool    // Fill empty fields from the metadata service
	DryRun     bool    // Validate only; nothing is written
}

// ImportItemResult is the outcome for one input of the batch.
type ImportItemResult struct {
	Index    int    // Position in the input batch
	Title    string // Title after enrichment
	ID       string // Created video ID (empty on failure or dry run)
	Enriched bool   // Metadata lookup succeeded
	Success  bool
	Error    error
}

// ImportResult summarizes an import.
type ImportResult struct {
	Total   int
	Created int
	Failed  int
	Results []ImportItemResult
}

type importJob struct {
	index int
	input models.VideoInput
}

// Importer creates videos in bulk.
type Importer struct {
	videos VideoCreator
	meta   services.MetadataService
	logger *log.Logger

	mu sync.Mutex // serializes writes
}

// NewImporter creates an [Importer]. meta may be nil when enrichment is never requested.
func NewImporter(videos VideoCreator, meta services.MetadataService, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{videos: videos, meta: meta, logger: logger}
}

// ReadImportFile decodes the JSON import batch at path.
func ReadImportFile(path string) ([]models.VideoInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return DecodeImport(f)
}

// DecodeImport reads a JSON array of videos. Unknown fields (ids, timestamps from an export) are ignored.
func DecodeImport(r io.Reader) ([]models.VideoInput, error) {
	var inputs []models.VideoInput
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("%w: import file must be a JSON array of videos: %v", shared.ErrInvalidInput, err)
	}
	return inputs, nil
}

// Import creates every input with a worker pool, reporting progress on prog.
//
// Per-item failures are recorded in the result; the returned error is reserved for setup problems
// and cancellation.
func (im *Importer) Import(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	inputs []models.VideoInput,
	opts ImportOpts,
) (*ImportResult, error) {
	if im.videos == nil {
		return nil, fmt.Errorf("%w: video store not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Enrich && im.meta == nil {
		return nil, fmt.Errorf("%w: enrichment requested without a metadata service", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	total := len(inputs)
	result := &ImportResult{
		Total:   total,
		Results: make([]ImportItemResult, 0, total),
	}
	sendProgress(prog, readInputUpdate(total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob, total)
	results := make(chan ImportItemResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go im.importWorker(ctx, &wg, jobs, results, limiter, prog, total, opts)
	}

	for i, in := range inputs {
		jobs <- importJob{index: i, input: in}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Created++
			sendProgress(prog, createdUpdate(completed, total, res))
		} else {
			result.Failed++
			sendProgress(prog, failedUpdate(completed, total, res))
		}
	}

	slices.SortFunc(result.Results, func(a, b ImportItemResult) int { return a.Index - b.Index })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import cancelled after %d of %d videos: %w", completed, total, err)
	}

	sendProgress(prog, finishedUpdate(result))
	im.logger.Info("import finished", "total", total, "created", result.Created, "failed", result.Failed, "dry_run", opts.DryRun)
	return result, nil
}

// importWorker processes jobs until the channel closes or ctx is cancelled.
func (im *Importer) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan importJob,
	results chan<- ImportItemResult,
	limiter *rate.Limiter,
	prog chan<- ProgressUpdate,
	total int,
	opts ImportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- im.importOne(ctx, job, limiter, prog, total, opts)
	}
}

func (im *Importer) importOne(
	ctx context.Context,
	job importJob,
	limiter *rate.Limiter,
	prog chan<- ProgressUpdate,
	total int,
	opts ImportOpts,
) ImportItemResult {
	in := job.input
	in.Normalize()
	res := ImportItemResult{Index: job.index, Title: in.Title}

	if opts.Enrich && in.OriginalURL != "" {
		sendProgress(prog, enrichUpdate(job.index+1, total, in.OriginalURL))
		if err := im.enrich(ctx, limiter, &in); err != nil {
			im.logger.Warn("metadata lookup failed", "url", in.OriginalURL, "error", err)
		} else {
			res.Enriched = true
			res.Title = in.Title
		}
	}

	services.ResolveThumbnail(&in)
	if err := in.Validate(); err != nil {
		res.Error = err
		return res
	}

	if opts.DryRun {
		res.Success = true
		return res
	}

	video := models.NewVideo(0, in)
	im.mu.Lock()
	err := im.videos.Create(video)
	im.mu.Unlock()
	if err != nil {
		res.Error = fmt.Errorf("failed to create video: %w", err)
		return res
	}

	res.ID = video.ID()
	res.Success = true
	return res
}

func (im *Importer) enrich(ctx context.Context, limiter *rate.Limiter, in *models.VideoInput) error {
	if err := limiter.Wait(ctx); err != nil {
		return errors.Join(shared.ErrRateLimited, err)
	}

	meta, err := im.meta.Lookup(ctx, in.OriginalURL)
	if err != nil {
		return err
	}
	services.Fill(in, meta)
	in.Normalize()
	return nil
}
