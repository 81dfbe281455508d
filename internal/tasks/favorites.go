package tasks

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/desertthunder/reelx/internal/models"
)

// AddToFavorites stores movie and refreshes the favorites snapshot. Adding an existing favorite is a no-op.
func (c *Coordinator) AddToFavorites(movie models.Movie) bool {
	ok := c.favorites.Save(movie)
	c.refreshFavorites()
	return ok
}

// RemoveFromFavorites removes the favorite with id and refreshes the favorites snapshot.
func (c *Coordinator) RemoveFromFavorites(id int) bool {
	ok := c.favorites.Remove(id)
	c.refreshFavorites()
	return ok
}

// IsFavorite reports whether id is a favorite.
func (c *Coordinator) IsFavorite(id int) bool {
	return c.favorites.IsFavorite(id)
}

// Favorites returns the stored favorites.
func (c *Coordinator) Favorites() []models.Movie {
	return c.favorites.List()
}

func (c *Coordinator) refreshFavorites() {
	favorites := c.favorites.List()
	c.mutate(OpFavorites, func(s *State) { s.Favorites = favorites })
}

// favoriteIndex implements fuzzy.Source over lowercased titles.
type favoriteIndex []models.Movie

func (f favoriteIndex) String(i int) string { return strings.ToLower(f[i].Title) }
func (f favoriteIndex) Len() int            { return len(f) }

// FindFavorites ranks favorites by fuzzy title match, best first. An empty query returns every favorite.
func (c *Coordinator) FindFavorites(query string) []models.Movie {
	favorites := c.favorites.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return favorites
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), favoriteIndex(favorites))
	results := make([]models.Movie, len(matches))
	for i, m := range matches {
		results[i] = favorites[m.Index]
	}
	return results
}
