package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
)

func trendingKey(page int) string { return fmt.Sprintf("trending_page_%d", page) }

func searchKey(query string, page int) string {
	return fmt.Sprintf("%s_page_%d", strings.ToLower(query), page)
}

func detailsKey(id int) string { return fmt.Sprintf("movie_%d", id) }

// FetchTrending loads a page of the weekly trending list.
func (c *Coordinator) FetchTrending(ctx context.Context, page int) *models.Page {
	page = max(page, 1)
	c.begin(OpTrending, nil)

	result, err := c.pages.Fetch(trendingKey(page), func() (*models.Page, error) {
		return c.api.Trending(ctx, page)
	})
	if err != nil {
		c.fail(OpTrending, MsgTrendingFailed, err)
		return nil
	}

	c.finish(OpTrending, func(s *State) {
		s.Trending = mergePage(s.Trending, result.Results, page)
	})
	return result
}

// SearchForMovies loads a page of title search results and records query as the last search.
//
// A blank query is a no-op returning nil. While a filter set is active the results are also filtered locally
// into the filtered list.
func (c *Coordinator) SearchForMovies(ctx context.Context, query string, page int) *models.Page {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	page = max(page, 1)

	snapshot := c.begin(OpSearch, func(s *State) { s.LastSearch = query })
	c.prefs.SaveLastSearch(query)

	result, err := c.pages.Fetch(searchKey(query, page), func() (*models.Page, error) {
		return c.api.Search(ctx, query, page)
	})
	if err != nil {
		c.fail(OpSearch, MsgSearchFailed, err)
		return nil
	}

	filters := snapshot.ActiveFilters
	active := filters.IsActive(c.now())

	c.finish(OpSearch, func(s *State) {
		s.Search = mergePage(s.Search, result.Results, page)
		switch {
		case active:
			s.Filtered = mergePage(s.Filtered, filterMovies(result.Results, filters), page)
			s.Filtering = true
		case page == 1:
			s.Filtered = nil
		}
	})
	return result
}

// ApplyFilters makes filters the active set and loads the matching page.
//
// When filters equal the defaults, filtering is switched off and the last search (or trending) is reloaded.
// With a last search, a genre selects the discover endpoint narrowed by the query; without a genre the search
// results are filtered locally. Without a last search the discover endpoint is used.
func (c *Coordinator) ApplyFilters(ctx context.Context, filters models.FilterSet, page int) *models.Page {
	page = max(page, 1)
	active := filters.IsActive(c.now())

	snapshot := c.begin(OpFilter, func(s *State) {
		s.ActiveFilters = filters
		s.Filtering = active
		if !active {
			s.Filtered = nil
		}
	})
	c.prefs.SaveFilters(filters)

	query := snapshot.LastSearch
	if !active {
		if query != "" {
			return c.SearchForMovies(ctx, query, page)
		}
		return c.FetchTrending(ctx, page)
	}

	msg := MsgFilterFailed
	load := func() (*models.Page, error) {
		return c.api.Discover(ctx, services.DiscoverFromFilters(filters, "", page))
	}
	if query != "" {
		msg = MsgFilterSearchFailed
		load = func() (*models.Page, error) { return c.filterSearch(ctx, filters, query, page) }
	}

	result, err := c.pages.Fetch(filters.CacheKey(query, page), load)
	if err != nil {
		c.fail(OpFilter, msg, err)
		return nil
	}

	// The locally filtered path also refreshes the search list it filtered.
	var (
		searched   *models.Page
		searchedOK bool
	)
	if query != "" && filters.Genre == "" {
		searched, searchedOK = c.pages.Get(searchKey(query, page))
	}

	c.finish(OpFilter, func(s *State) {
		s.Filtered = mergePage(s.Filtered, result.Results, page)
		s.Filtering = true
		if searchedOK {
			s.Search = mergePage(s.Search, searched.Results, page)
		}
	})
	return result
}

// filterSearch loads filtered results for query. A genre requires the discover endpoint; otherwise the
// (cached) search page is filtered locally.
func (c *Coordinator) filterSearch(ctx context.Context, filters models.FilterSet, query string, page int) (*models.Page, error) {
	if filters.Genre != "" {
		return c.api.Discover(ctx, services.DiscoverFromFilters(filters, query, page))
	}

	searched, err := c.pages.Fetch(searchKey(query, page), func() (*models.Page, error) {
		return c.api.Search(ctx, query, page)
	})
	if err != nil {
		return nil, err
	}

	return &models.Page{
		Page:         searched.Page,
		Results:      filterMovies(searched.Results, filters),
		TotalPages:   searched.TotalPages,
		TotalResults: searched.TotalResults,
	}, nil
}

// ClearFilters restores and persists the default filter set, then reloads the last search or trending.
func (c *Coordinator) ClearFilters(ctx context.Context) *models.Page {
	defaults := models.DefaultFilterSet(c.now())
	snapshot := c.mutate(OpClearFilters, func(s *State) {
		s.ActiveFilters = defaults
		s.Filtering = false
		s.Filtered = nil
	})
	c.prefs.SaveFilters(defaults)

	if snapshot.LastSearch != "" {
		return c.SearchForMovies(ctx, snapshot.LastSearch, 1)
	}
	return c.FetchTrending(ctx, 1)
}

// ClearSearchResults forgets the last search, then reapplies active filters or reloads trending.
func (c *Coordinator) ClearSearchResults(ctx context.Context) *models.Page {
	snapshot := c.mutate(OpClearSearch, func(s *State) {
		s.Search = nil
		s.LastSearch = ""
	})
	c.prefs.ClearLastSearch()

	if snapshot.Filtering {
		return c.ApplyFilters(ctx, snapshot.ActiveFilters, 1)
	}
	return c.FetchTrending(ctx, 1)
}

// Restore loads favorites, filters and the last search from storage into the state without fetching anything.
func (c *Coordinator) Restore() State {
	favorites := c.favorites.List()
	filters := c.prefs.Filters()
	query := c.prefs.LastSearch()
	active := filters.IsActive(c.now())

	return c.mutate(OpInitialize, func(s *State) {
		s.Favorites = favorites
		s.ActiveFilters = filters
		s.Filtering = active
		s.LastSearch = query
	})
}

// Initialize restores the persisted state and loads the first list.
func (c *Coordinator) Initialize(ctx context.Context) *models.Page {
	restored := c.Restore()
	filters, query, active := restored.ActiveFilters, restored.LastSearch, restored.Filtering

	switch {
	case query != "" && active:
		return c.ApplyFilters(ctx, filters, 1)
	case query != "":
		return c.SearchForMovies(ctx, query, 1)
	case active:
		return c.ApplyFilters(ctx, filters, 1)
	default:
		return c.FetchTrending(ctx, 1)
	}
}

// FetchDetails loads details, credits and videos for a movie.
//
// Details and credits are requested concurrently. Videos are requested separately only when the details
// response carried none. Failures record [MsgDetailsFailed] and return the underlying error.
func (c *Coordinator) FetchDetails(ctx context.Context, id int) (*models.DetailView, error) {
	c.begin(OpDetails, nil)

	view, err := c.details.Fetch(detailsKey(id), func() (*models.DetailView, error) {
		return c.loadDetails(ctx, id)
	})
	if err != nil {
		c.fail(OpDetails, MsgDetailsFailed, err)
		return nil, err
	}

	c.finish(OpDetails, func(*State) {})
	return view, nil
}

func (c *Coordinator) loadDetails(ctx context.Context, id int) (*models.DetailView, error) {
	var (
		wg         sync.WaitGroup
		details    *models.MovieDetails
		credits    *models.Credits
		detailsErr error
		creditsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		details, detailsErr = c.api.Details(ctx, id)
	}()
	go func() {
		defer wg.Done()
		credits, creditsErr = c.api.Credits(ctx, id)
	}()
	wg.Wait()

	if detailsErr != nil {
		return nil, detailsErr
	}
	if creditsErr != nil {
		return nil, creditsErr
	}

	var videos []models.Video
	if details.Videos == nil || len(details.Videos.Results) == 0 {
		v, err := c.api.Videos(ctx, id)
		if err != nil {
			c.logger.Warn("failed to fetch videos", "movie", id, "error", err)
		}
		videos = v
	}

	return models.NewDetailView(*details, *credits, videos), nil
}
