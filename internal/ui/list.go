package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }

func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}

func (i movieItem) Description() string {
	parts := make([]string, 0, 3)
	if y, ok := i.movie.ReleaseYear(); ok {
		parts = append(parts, strconv.Itoa(y))
	}
	parts = append(parts, shared.FormatRating(i.movie.VoteAverage))
	if names := i.movie.GenreNames(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	return strings.Join(parts, " • ")
}

// movieItems wraps movies, marking those for which isFavorite is true.
func movieItems(movies []models.Movie, isFavorite func(id int) bool) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, favorite: isFavorite(m.ID)}
	}
	return items
}
