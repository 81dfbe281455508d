package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// Export worker and rate defaults.
const (
	DefaultExportWorkers = 5
	MaxExportWorkers     = 10
	DefaultExportRate    = 5.0
)

// ExportOpts contains configuration for favorites exports.
type ExportOpts struct {
	Format       string                                                // Export format: json, csv, markdown, txt
	OutputDir    string                                                // Output directory (default: reelx_export_{epoch})
	NumWorkers   int                                                   // Concurrent workers (default: 5)
	RateLimit    float64                                               // Requests per second (default: 5)
	Enrich       bool                                                  // Fetch details and credits for each movie
	Posters      bool                                                  // Download poster images
	ImageBaseURL string                                                // Base URL poster paths are joined onto
	Owner        string                                                // Shown in the export header
	Download     func(ctx context.Context, url string) ([]byte, error) // Poster fetcher (default: formatter.DownloadImage)
}

// MovieExportError records a movie that could not be enriched.
type MovieExportError struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	Error   string `json:"error"`
}

// ExportResult summarizes a favorites export.
type ExportResult struct {
	Total           int
	Enriched        int
	Failed          int
	Posters         int
	OutputDirectory string
	Files           []string
	ManifestPath    string
	Errors          []MovieExportError
}

type exportJob struct {
	index int
	movie models.Movie
}

type exportOutcome struct {
	index     int
	entry     formatter.Entry
	err       error
	poster    bool
	posterErr error
}

// ExportFavorites writes every favorite to opts.OutputDir in opts.Format.
//
// A worker pool enriches entries with details and posters while a rate limiter paces outgoing requests.
// Enrichment failures keep the movie's summary in the export and are counted as failed; entries keep favorites order.
func (c *Coordinator) ExportFavorites(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = ExportDirName(c.now())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultExportWorkers
	}
	if opts.NumWorkers > MaxExportWorkers {
		opts.NumWorkers = MaxExportWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultExportRate
	}
	if opts.Download == nil {
		opts.Download = formatter.DownloadImage
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	favorites := c.favorites.List()
	total := len(favorites)
	result := &ExportResult{Total: total, OutputDirectory: opts.OutputDir}
	entries := make([]formatter.Entry, total)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, total)
	outcomes := make(chan exportOutcome, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go c.exportWorker(ctx, &wg, limiter, jobs, outcomes, opts)
	}

	sendProgress(prog, enrichStartedUpdate(total))
	go func() {
		defer close(jobs)
		for i, m := range favorites {
			select {
			case <-ctx.Done():
				return
			case jobs <- exportJob{index: i, movie: m}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		entries[out.index] = out.entry
		if out.poster {
			result.Posters++
		}
		if out.posterErr != nil {
			sendProgress(prog, posterFailedUpdate(completed, total, out.entry.Movie, out.posterErr))
		}

		if out.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, MovieExportError{
				MovieID: out.entry.Movie.ID,
				Title:   out.entry.Movie.Title,
				Error:   out.err.Error(),
			})
			sendProgress(prog, movieFailedUpdate(completed, total, out.entry.Movie, out.err))
			continue
		}
		if opts.Enrich {
			result.Enriched++
		}
		sendProgress(prog, movieCompletedUpdate(completed, total, out.entry.Movie))
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	sendProgress(prog, writeFilesUpdate(opts.Format, opts.OutputDir))
	collection := &formatter.Collection{
		Title:      "Favorite Movies",
		Owner:      opts.Owner,
		ExportedAt: c.now(),
		Entries:    entries,
	}

	file, err := formatter.WriteExport(collection, opts.Format, opts.OutputDir)
	if err != nil {
		return result, err
	}
	result.Files = append(result.Files, file)

	manifest := &formatter.Manifest{
		Format:     opts.Format,
		ExportedAt: collection.ExportedAt,
		Total:      result.Total,
		Enriched:   result.Enriched,
		Failed:     result.Failed,
		Posters:    result.Posters,
		Files:      result.Files,
	}
	for _, e := range result.Errors {
		manifest.Errors = append(manifest.Errors, fmt.Sprintf("%s (%d): %s", e.Title, e.MovieID, e.Error))
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	c.logger.Info("exported favorites", "format", opts.Format, "dir", opts.OutputDir, "total", total, "failed", result.Failed)
	return result, nil
}

// exportWorker is a worker goroutine that builds entries from the jobs channel.
func (c *Coordinator) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	outcomes chan<- exportOutcome,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcomes <- c.exportMovie(ctx, limiter, job, opts)
	}
}

// exportMovie builds the entry for one favorite. Poster failures are logged and never fail the entry.
func (c *Coordinator) exportMovie(ctx context.Context, limiter *rate.Limiter, job exportJob, opts ExportOpts) exportOutcome {
	out := exportOutcome{index: job.index, entry: formatter.Entry{Movie: job.movie}}

	if opts.Enrich {
		if err := limiter.Wait(ctx); err != nil {
			out.err = err
			return out
		}

		view, err := c.details.Fetch(detailsKey(job.movie.ID), func() (*models.DetailView, error) {
			return c.loadDetails(ctx, job.movie.ID)
		})
		if err != nil {
			out.err = fmt.Errorf("failed to fetch details: %w", err)
			return out
		}

		out.entry.Runtime = view.Details.Runtime
		out.entry.Tagline = view.Details.Tagline
		out.entry.Directors = view.Credits.Directors()
		if view.Trailer != nil {
			out.entry.Trailer = view.Trailer.URL()
		}
	}

	if opts.Posters && job.movie.PosterPath != "" && opts.ImageBaseURL != "" {
		if err := c.downloadPoster(ctx, limiter, &out.entry, opts); err != nil {
			c.logger.Warn("poster skipped", "movie", job.movie.ID, "error", err)
			out.posterErr = err
		} else {
			out.poster = true
		}
	}

	return out
}

func (c *Coordinator) downloadPoster(ctx context.Context, limiter *rate.Limiter, entry *formatter.Entry, opts ExportOpts) error {
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	data, err := opts.Download(ctx, entry.Movie.PosterURL(opts.ImageBaseURL))
	if err != nil {
		return err
	}

	rel, err := formatter.WritePoster(opts.OutputDir, entry.Movie, data)
	if err != nil {
		return err
	}
	entry.Poster = rel
	return nil
}

// sendProgress delivers u without blocking. A nil channel disables progress reporting.
func sendProgress(prog chan<- ProgressUpdate, u ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- u:
	default:
	}
}

// ExportDirName returns the default output directory for an export started at t.
func ExportDirName(t time.Time) string {
	return fmt.Sprintf("reelx_export_%d", t.Unix())
}
