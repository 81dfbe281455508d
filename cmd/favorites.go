package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// FavoritesList prints the stored favorites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	favorites := r.coord.Favorites()
	return r.writeOutput(cmd, favorites, func() error {
		r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favorites)))
		r.writeMovieList(favorites)
		return nil
	})
}

// FavoritesAdd looks a movie up by id and stores it as a favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	if r.coord.IsFavorite(id) {
		return r.writePlain("Movie %d is already a favorite\n", id)
	}

	view, err := r.coord.FetchDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", tasks.MsgDetailsFailed, err)
	}

	movie := view.Details.Movie
	if !r.coord.AddToFavorites(movie) {
		return fmt.Errorf("%w: failed to save favorite %d", shared.ErrStorage, id)
	}
	return r.writePlain("★ Added %s to favorites\n", movie.Title)
}

// FavoritesRemove removes a favorite by id.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	if !r.coord.IsFavorite(id) {
		return fmt.Errorf("%w: movie %d is not a favorite", shared.ErrMovieNotFound, id)
	}
	if !r.coord.RemoveFromFavorites(id) {
		return fmt.Errorf("%w: failed to remove favorite %d", shared.ErrStorage, id)
	}
	return r.writePlain("✓ Removed movie %d from favorites\n", id)
}

// FavoritesFind fuzzy-matches favorites by title, best match first.
func (r *Runner) FavoritesFind(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	matches := r.coord.FindFavorites(query)

	return r.writeOutput(cmd, matches, func() error {
		r.writePlainHeader(fmt.Sprintf("Favorites matching %q", query))
		r.writeMovieList(matches)
		return nil
	})
}

// FavoritesExport writes the favorites to disk in the chosen format, reporting progress as movies are enriched.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if !formatter.ValidFormat(format) {
		return fmt.Errorf("%w: format must be one of %s", shared.ErrInvalidArgument, joinFormats())
	}

	opts := tasks.ExportOpts{
		Format:       format,
		OutputDir:    cmd.String("output"),
		NumWorkers:   int(cmd.Int("workers")),
		RateLimit:    cmd.Float("rate"),
		Enrich:       cmd.Bool("enrich"),
		Posters:      cmd.Bool("posters"),
		ImageBaseURL: r.config.TMDB.ImageBaseURL,
	}
	if session := r.sessions.Current(); session != nil {
		opts.Owner = displayName(session.Name, session.Email)
	}

	r.logger.Info("starting export", "format", format, "enrich", opts.Enrich, "posters", opts.Posters)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchDetails:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.DownloadPoster:
				r.writePlain("   🖼  %s\n", update.Message)
			case tasks.WriteFiles:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.coord.ExportFavorites(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Movies:   %d\n", result.Total)
	if opts.Enrich {
		r.writePlain("Enriched: %d/%d\n", result.Enriched, result.Total)
	}
	if opts.Posters {
		r.writePlain("Posters:  %d\n", result.Posters)
	}
	r.writePlain("Output:   %s\n", result.OutputDirectory)
	for _, f := range result.Files {
		r.writePlain("  - %s\n", f)
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.Failed > 0 {
		r.writePlain("\nFailed to enrich %d movies:\n", result.Failed)
		for _, e := range result.Errors {
			r.writePlain("  - %s (%d): %s\n", e.Title, e.MovieID, e.Error)
		}
	}
	return nil
}

func joinFormats() string {
	return strings.Join(formatter.Formats, ", ")
}
