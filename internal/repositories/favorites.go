package repositories

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
)

// FavoritesRepository persists the favorites list under "favorites" as one JSON array.
//
// The list never holds two movies with the same id.
type FavoritesRepository struct {
	store  Store
	logger *log.Logger
	mu     sync.Mutex
}

// NewFavoritesRepository creates a [FavoritesRepository] over store.
func NewFavoritesRepository(store Store, logger *log.Logger) *FavoritesRepository {
	return &FavoritesRepository{store: store, logger: orDefault(logger)}
}

// List returns the stored favorites in insertion order, normalized.
func (r *FavoritesRepository) List() []models.Movie {
	var movies []models.Movie
	if !getJSON(r.store, r.logger, KeyFavorites, &movies) {
		return []models.Movie{}
	}
	for i := range movies {
		movies[i] = movies[i].Normalize()
	}
	return movies
}

// Save appends movie unless a favorite with its id exists.
// It returns true if the list holds the movie afterwards and the write (if any) succeeded.
func (r *FavoritesRepository) Save(movie models.Movie) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	favorites := r.List()
	for _, f := range favorites {
		if f.ID == movie.ID {
			return true
		}
	}

	movie.GenreIDs = nil
	return setJSON(r.store, r.logger, KeyFavorites, append(favorites, movie.Normalize()))
}

// Remove deletes every favorite with id and persists the remainder.
func (r *FavoritesRepository) Remove(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	favorites := r.List()
	kept := make([]models.Movie, 0, len(favorites))
	for _, f := range favorites {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return setJSON(r.store, r.logger, KeyFavorites, kept)
}

// IsFavorite reports whether a movie with id is stored.
func (r *FavoritesRepository) IsFavorite(id int) bool {
	for _, f := range r.List() {
		if f.ID == id {
			return true
		}
	}
	return false
}
