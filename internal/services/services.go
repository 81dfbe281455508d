// package services defines interface MovieAPI for the movie metadata API
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/reelx/internal/models"
)

// MovieAPI is the subset of the movie metadata API the application reads.
type MovieAPI interface {
	// Trending returns the weekly trending movies.
	Trending(ctx context.Context, page int) (*models.Page, error)

	// Search returns movies whose title matches query. Adult titles are excluded.
	Search(ctx context.Context, query string, page int) (*models.Page, error)

	// Discover returns movies matching the given criteria, most popular first.
	Discover(ctx context.Context, params DiscoverParams) (*models.Page, error)

	// Details returns the full record for a movie, with its videos appended.
	Details(ctx context.Context, id int) (*models.MovieDetails, error)

	// Credits returns the cast and crew of a movie.
	Credits(ctx context.Context, id int) (*models.Credits, error)

	// Videos returns the clips attached to a movie.
	Videos(ctx context.Context, id int) ([]models.Video, error)

	// Genres returns the movie genre list.
	Genres(ctx context.Context) ([]models.Genre, error)
}

// DiscoverParams are the criteria sent to the discover endpoint.
//
// Zero values for Genre and TextQuery are omitted from the request.
type DiscoverParams struct {
	Page      int
	Genre     string
	YearFrom  int
	YearTo    int
	VoteMin   float64
	VoteMax   float64
	TextQuery string
}

// DiscoverFromFilters builds discover criteria from a filter set, optionally narrowed by a text query.
func DiscoverFromFilters(f models.FilterSet, query string, page int) DiscoverParams {
	return DiscoverParams{
		Page:      page,
		Genre:     f.Genre,
		YearFrom:  f.YearFrom,
		YearTo:    f.YearTo,
		VoteMin:   f.MinRating(),
		VoteMax:   f.MaxRating(),
		TextQuery: query,
	}
}

// Values encodes the criteria as query parameters.
func (p DiscoverParams) Values() url.Values {
	v := url.Values{}
	v.Set("sort_by", "popularity.desc")
	v.Set("include_adult", "false")
	v.Set("page", strconv.Itoa(max(p.Page, 1)))

	if p.Genre != "" {
		v.Set("with_genres", p.Genre)
	}
	if p.YearFrom > 0 {
		v.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", p.YearFrom))
	}
	if p.YearTo > 0 {
		v.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", p.YearTo))
	}
	v.Set("vote_average.gte", strconv.FormatFloat(p.VoteMin, 'f', -1, 64))
	v.Set("vote_average.lte", strconv.FormatFloat(p.VoteMax, 'f', -1, 64))
	if p.TextQuery != "" {
		v.Set("with_text_query", p.TextQuery)
	}
	return v
}
