package tasks

import "github.com/desertthunder/reelx/internal/models"

// MatchesFilters reports whether movie passes the year and rating ranges of filters.
// Movies without a parseable release date pass the year check.
func MatchesFilters(movie models.Movie, filters models.FilterSet) bool {
	return filters.Matches(movie)
}

func filterMovies(movies []models.Movie, filters models.FilterSet) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if MatchesFilters(m, filters) {
			out = append(out, m)
		}
	}
	return out
}
