package tasks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

const genresKey = "genres"

// Genres returns the movie genre list, fetched once per Coordinator.
func (c *Coordinator) Genres(ctx context.Context) ([]models.Genre, error) {
	return c.genres.Fetch(genresKey, func() ([]models.Genre, error) {
		return c.api.Genres(ctx)
	})
}

// ResolveGenre maps free text to a genre.
//
// An empty name resolves to the zero Genre (any genre). A numeric name is taken as an id. Otherwise an exact
// case-insensitive name match wins, then the closest fuzzy match.
func (c *Coordinator) ResolveGenre(ctx context.Context, name string) (models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Genre{}, nil
	}

	genres, err := c.Genres(ctx)
	if id, convErr := strconv.Atoi(name); convErr == nil {
		for _, g := range genres {
			if g.ID == id {
				return g, nil
			}
		}
		return models.Genre{ID: id}, nil
	}
	if err != nil {
		return models.Genre{}, err
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
		names[i] = g.Name
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return models.Genre{}, fmt.Errorf("%w: no genre matches %q", shared.ErrInvalidArgument, name)
	}
	sort.Sort(ranks)
	return genres[ranks[0].OriginalIndex], nil
}

// GenreFilterValue returns the filter value for g: its id as text, or "" for any genre.
func GenreFilterValue(g models.Genre) string {
	if g.ID == 0 {
		return ""
	}
	return strconv.Itoa(g.ID)
}
