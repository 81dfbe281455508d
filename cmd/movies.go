package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// listOutput is the JSON shape of list commands.
type listOutput struct {
	Title   string            `json:"title"`
	Page    int               `json:"page,omitempty"`
	HasMore bool              `json:"hasMore"`
	Movies  []models.Movie    `json:"movies"`
	Filters *models.FilterSet `json:"filters,omitempty"`
	Query   string            `json:"query,omitempty"`
}

// MoviesTrending lists a page of trending movies.
func (r *Runner) MoviesTrending(ctx context.Context, cmd *cli.Command) error {
	page := r.coord.FetchTrending(ctx, int(cmd.Int("page")))
	if page == nil {
		return r.failure()
	}
	return r.writePage(cmd, "Trending Movies", page)
}

// MoviesSearch searches by title and records the query as the last search.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	page := r.coord.SearchForMovies(ctx, query, int(cmd.Int("page")))
	if page == nil {
		return r.failure()
	}

	state := r.coord.State()
	if state.Filtering {
		return r.writeMovies(cmd, state.Title(), page, state.Filtered)
	}
	return r.writePage(cmd, state.Title(), page)
}

// MoviesFilter builds a filter set from the flags over the saved one, applies it and saves it.
func (r *Runner) MoviesFilter(ctx context.Context, cmd *cli.Command) error {
	filters, err := r.filtersFromFlags(ctx, cmd)
	if err != nil {
		return err
	}

	page := r.coord.ApplyFilters(ctx, filters, int(cmd.Int("page")))
	if page == nil {
		return r.failure()
	}

	state := r.coord.State()
	return r.writeMovies(cmd, state.Title(), page, state.Display())
}

// filtersFromFlags starts from the saved filter set and overrides the fields whose flags are set.
func (r *Runner) filtersFromFlags(ctx context.Context, cmd *cli.Command) (models.FilterSet, error) {
	filters := r.coord.State().ActiveFilters

	if cmd.IsSet("genre") {
		genre, err := r.coord.ResolveGenre(ctx, cmd.String("genre"))
		if err != nil {
			return filters, err
		}
		filters.Genre = tasks.GenreFilterValue(genre)
	}
	if cmd.IsSet("year-from") {
		filters.YearFrom = int(cmd.Int("year-from"))
	}
	if cmd.IsSet("year-to") {
		filters.YearTo = int(cmd.Int("year-to"))
	}
	if cmd.IsSet("min-rating") {
		filters.Rating[0] = cmd.Float("min-rating")
	}
	if cmd.IsSet("max-rating") {
		filters.Rating[1] = cmd.Float("max-rating")
	}

	if err := filters.Validate(); err != nil {
		return filters, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return filters, nil
}

// MoviesClearFilters restores the default filters and shows the resulting list.
func (r *Runner) MoviesClearFilters(ctx context.Context, cmd *cli.Command) error {
	page := r.coord.ClearFilters(ctx)
	if page == nil {
		return r.failure()
	}
	return r.writePage(cmd, r.coord.DisplayTitle(), page)
}

// MoviesClearSearch forgets the last search and shows the resulting list.
func (r *Runner) MoviesClearSearch(ctx context.Context, cmd *cli.Command) error {
	page := r.coord.ClearSearchResults(ctx)
	if page == nil {
		return r.failure()
	}

	state := r.coord.State()
	return r.writeMovies(cmd, state.Title(), page, state.Display())
}

// MoviesList shows the list a returning user would see: filtered, last search or trending.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	page := r.coord.Initialize(ctx)
	if page == nil {
		return r.failure()
	}

	state := r.coord.State()
	return r.writeMovies(cmd, state.Title(), page, state.Display())
}

// MoviesShow prints details, credits and the trailer of a movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	view, err := r.coord.FetchDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", tasks.MsgDetailsFailed, err)
	}

	if cmd.Bool("open") {
		if view.Trailer == nil {
			r.logger.Warn("no trailer available", "id", id)
		} else if err := r.openURL(view.Trailer.URL()); err != nil {
			return fmt.Errorf("failed to open trailer: %w", err)
		}
	}

	return r.writeOutput(cmd, view, func() error {
		r.writeDetails(view)
		return nil
	})
}

// MoviesGenres lists the genre names and ids accepted by `movies filter --genre`.
func (r *Runner) MoviesGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.coord.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	return r.writeOutput(cmd, genres, func() error {
		r.writePlainHeader("Genres")
		for _, g := range genres {
			r.writePlain("%6d  %s\n", g.ID, g.Name)
		}
		return nil
	})
}

// failure returns the error recorded by the last failed coordinator operation, prefixed with its display message.
func (r *Runner) failure() error {
	state := r.coord.State()
	err := r.coord.LastError()
	if err == nil {
		err = shared.ErrAPIRequest
	}
	if state.Error == "" {
		return err
	}
	return fmt.Errorf("%s: %w", state.Error, err)
}

func (r *Runner) writePage(cmd *cli.Command, title string, page *models.Page) error {
	return r.writeMovies(cmd, title, page, page.Results)
}

func (r *Runner) writeMovies(cmd *cli.Command, title string, page *models.Page, movies []models.Movie) error {
	state := r.coord.State()
	out := listOutput{
		Title:   title,
		Page:    page.Page,
		HasMore: page.HasMore(),
		Movies:  movies,
		Query:   state.LastSearch,
	}
	if state.Filtering {
		out.Filters = &state.ActiveFilters
	}

	return r.writeOutput(cmd, out, func() error {
		r.writePlainHeader(title)
		if out.Filters != nil {
			r.writePlain("Filters: %s\n\n", describeFilters(*out.Filters))
		}
		r.writeMovieList(movies)
		if out.HasMore {
			r.writePlain("\nPage %d of %d. Use --page %d for more.\n", page.Page, page.TotalPages, page.Page+1)
		}
		return nil
	})
}

func (r *Runner) writeMovieList(movies []models.Movie) {
	if len(movies) == 0 {
		r.writePlain("No movies found.\n")
		return
	}

	for _, m := range movies {
		marker := " "
		if r.coord.IsFavorite(m.ID) {
			marker = "★"
		}
		year := "----"
		if y, ok := m.ReleaseYear(); ok {
			year = strconv.Itoa(y)
		}
		r.writePlain("%s %8d  %s  %-7s  %s\n", marker, m.ID, year, shared.FormatRating(m.VoteAverage), m.Title)
	}
}

func (r *Runner) writeDetails(view *models.DetailView) {
	d := view.Details
	r.writePlainHeader(d.Title)
	if d.Tagline != "" {
		r.writePlain("%s\n\n", d.Tagline)
	}
	r.writePlain("Released: %s\n", orUnknown(d.ReleaseDate))
	r.writePlain("Runtime:  %s\n", shared.FormatRuntime(d.Runtime))
	r.writePlain("Rating:   %s\n", shared.FormatRating(d.VoteAverage))
	if names := d.GenreNames(); len(names) > 0 {
		r.writePlain("Genres:   %s\n", strings.Join(names, ", "))
	}
	if directors := view.Credits.Directors(); len(directors) > 0 {
		r.writePlain("Director: %s\n", strings.Join(directors, ", "))
	}
	if view.Trailer != nil {
		r.writePlain("Trailer:  %s\n", view.Trailer.URL())
	}

	r.writePlainln("%s", orUnknown(d.Overview))

	if cast := view.Credits.TopCast(5); len(cast) > 0 {
		r.writePlain("\nCast:\n")
		for _, c := range cast {
			r.writePlain("  %s as %s\n", c.Name, c.Character)
		}
	}
}

func describeFilters(f models.FilterSet) string {
	genre := "any genre"
	if f.Genre != "" {
		genre = "genre " + f.Genre
	}
	return fmt.Sprintf("%s, %d-%d, rating %.1f-%.1f", genre, f.YearFrom, f.YearTo, f.MinRating(), f.MaxRating())
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func movieIDArg(cmd *cli.Command) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid movie id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
