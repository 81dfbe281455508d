package tasks

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
)

// User-facing failure messages recorded in [State.Error].
const (
	MsgTrendingFailed     = "Failed to fetch trending movies. Please try again."
	MsgSearchFailed       = "Failed to search movies. Please try again."
	MsgFilterSearchFailed = "Failed to apply filters to search. Please try again."
	MsgFilterFailed       = "Failed to filter movies. Please try again."
	MsgDetailsFailed      = "Failed to fetch movie details. Please try again later."
)

// FavoritesStore persists the favorites list.
type FavoritesStore interface {
	List() []models.Movie
	Save(movie models.Movie) bool
	Remove(id int) bool
	IsFavorite(id int) bool
}

// PreferenceStore persists the last search and the filter set.
type PreferenceStore interface {
	LastSearch() string
	SaveLastSearch(query string) bool
	ClearLastSearch() bool
	Filters() models.FilterSet
	SaveFilters(filters models.FilterSet) bool
}

// State is a snapshot of everything the presentation layer renders.
type State struct {
	Trending      []models.Movie   `json:"trending"`
	Search        []models.Movie   `json:"search"`
	Filtered      []models.Movie   `json:"filtered"`
	Favorites     []models.Movie   `json:"favorites"`
	Loading       bool             `json:"loading"`
	Error         string           `json:"error,omitempty"`
	LastSearch    string           `json:"lastSearch"`
	ActiveFilters models.FilterSet `json:"activeFilters"`
	Filtering     bool             `json:"filtering"`
}

func (s State) clone() State {
	s.Trending = slices.Clone(s.Trending)
	s.Search = slices.Clone(s.Search)
	s.Filtered = slices.Clone(s.Filtered)
	s.Favorites = slices.Clone(s.Favorites)
	return s
}

// Coordinator owns the movie lists, their caches and the state container.
//
// It is safe for concurrent use. The state lock is never held across network calls, so concurrent operations
// interleave the way sequential user actions would.
type Coordinator struct {
	api       services.MovieAPI
	favorites FavoritesStore
	prefs     PreferenceStore
	logger    *log.Logger
	now       func() time.Time

	pages   *ResponseCache[*models.Page]
	details *ResponseCache[*models.DetailView]
	genres  *ResponseCache[[]models.Genre]

	mu      sync.Mutex
	state   State
	lastErr error
	subs    []chan<- Update
}

// CoordinatorOpts contains optional dependencies for [NewCoordinator].
type CoordinatorOpts struct {
	Logger *log.Logger
	Now    func() time.Time
	Pages  *ResponseCache[*models.Page] // shared page cache, created when nil
}

// NewCoordinator creates a Coordinator with an empty state whose filters are the defaults.
func NewCoordinator(api services.MovieAPI, favorites FavoritesStore, prefs PreferenceStore, opts CoordinatorOpts) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pages == nil {
		opts.Pages = NewResponseCache[*models.Page]()
	}

	return &Coordinator{
		api:       api,
		favorites: favorites,
		prefs:     prefs,
		logger:    opts.Logger,
		now:       opts.Now,
		pages:     opts.Pages,
		details:   NewResponseCache[*models.DetailView](),
		genres:    NewResponseCache[[]models.Genre](),
		state:     State{ActiveFilters: models.DefaultFilterSet(opts.Now())},
	}
}

// Cache exposes the page cache.
func (c *Coordinator) Cache() *ResponseCache[*models.Page] { return c.pages }

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// LastError returns the underlying error of the most recent failed operation, or nil.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Subscribe registers ch to receive an [Update] after every state mutation.
// Sends never block; updates are dropped while ch is full. The returned func unregisters ch.
func (c *Coordinator) Subscribe(ch chan<- Update) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, ch)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subs = slices.DeleteFunc(c.subs, func(s chan<- Update) bool { return s == ch })
	}
}

// notify sends the current state to every subscriber without blocking. Callers hold c.mu.
func (c *Coordinator) notify(op Operation) {
	if len(c.subs) == 0 {
		return
	}
	update := Update{Op: op, State: c.state.clone()}
	for _, ch := range c.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

// mutate applies fn to the state, notifies subscribers and returns the resulting snapshot.
func (c *Coordinator) mutate(op Operation, fn func(s *State)) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	c.notify(op)
	return c.state.clone()
}

// begin marks op as loading and clears the previous error.
func (c *Coordinator) begin(op Operation, fn func(s *State)) State {
	return c.mutate(op, func(s *State) {
		s.Loading = true
		s.Error = ""
		if fn != nil {
			fn(s)
		}
	})
}

// finish applies fn and clears the loading flag.
func (c *Coordinator) finish(op Operation, fn func(s *State)) {
	c.mutate(op, func(s *State) {
		fn(s)
		s.Loading = false
	})
}

// fail records msg for display and err for [Coordinator.LastError].
func (c *Coordinator) fail(op Operation, msg string, err error) {
	c.logger.Error(msg, "op", op, "error", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = msg
	c.state.Loading = false
	c.lastErr = err
	c.notify(op)
}

// mergePage replaces prev with next on page 1 and appends next otherwise.
func mergePage(prev, next []models.Movie, page int) []models.Movie {
	if page <= 1 {
		return slices.Clone(next)
	}
	return append(slices.Clone(prev), next...)
}

// Display returns the list to show: filtered results while filtering, else non-empty search results, else trending.
func (c *Coordinator) Display() []models.Movie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.Display())
}

// Display returns the list s shows.
func (s State) Display() []models.Movie {
	switch {
	case s.Filtering:
		return s.Filtered
	case len(s.Search) > 0:
		return s.Search
	default:
		return s.Trending
	}
}

// DisplayTitle returns the heading for [Coordinator.Display].
func (c *Coordinator) DisplayTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Title()
}

// Title returns the heading of [State.Display].
func (s State) Title() string {
	switch {
	case s.Filtering && s.LastSearch != "":
		return `Filtered Results for "` + s.LastSearch + `"`
	case s.Filtering:
		return "Filtered Movies"
	case len(s.Search) > 0:
		return `Search Results for "` + s.LastSearch + `"`
	default:
		return "Trending Movies"
	}
}
