package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	DetailView
	FavoritesView
)

// ThemeStore persists the light/dark preference.
type ThemeStore interface {
	Theme() models.Theme
	ToggleTheme() models.Theme
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	coord   *tasks.Coordinator
	themes  ThemeStore
	logger  *log.Logger
	openURL func(string) error

	width     int
	height    int
	movies    list.Model
	favorites list.Model
	input     textinput.Model
	searching bool

	state    tasks.State
	page     int
	hasMore  bool
	details  *models.DetailView
	returnTo ViewState
	status   string

	updates     chan tasks.Update
	unsubscribe func()

	theme   models.Theme
	palette *Palette
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model over coord. The model subscribes to coord until [Model.Close].
func NewModel(ctx context.Context, coord *tasks.Coordinator, themes ThemeStore, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}

	input := textinput.New()
	input.Placeholder = "movie title"
	input.Prompt = "Search: "
	input.CharLimit = 120

	m := &Model{
		ctx:     ctx,
		view:    BrowseView,
		coord:   coord,
		themes:  themes,
		logger:  logger,
		openURL: shared.OpenURL,
		input:   input,
		updates: make(chan tasks.Update, 32),
		help:    help.New(),
		keys:    newKeyMap(),
		page:    1,
	}
	m.unsubscribe = coord.Subscribe(m.updates)

	m.movies = newList("Trending Movies")
	m.favorites = newList("Favorites")
	m.setTheme(themes.Theme())
	m.applyState(coord.State())
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

// Close stops receiving coordinator updates.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, coord *tasks.Coordinator, themes ThemeStore, logger *log.Logger) error {
	m := NewModel(ctx, coord, themes, logger)
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// Init restores the persisted session state and starts listening for coordinator updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.initialize(), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movies.SetSize(msg.Width-4, msg.Height-8)
		m.favorites.SetSize(msg.Width-4, msg.Height-8)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		switch m.view {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateChanged:
		m.applyState(msg.data.(tasks.Update).State)
		return m, m.waitForUpdate()

	case MsgPageLoaded:
		if d := msg.data.(pageLoaded); d.page != nil {
			m.page = d.page.Page
			m.hasMore = d.page.HasMore()
			m.logger.Debug("page loaded", "op", d.op, "page", d.page.Page, "results", len(d.page.Results))
		}
		m.applyState(m.coord.State())

	case MsgDetailsLoaded:
		d := msg.data.(detailsLoaded)
		m.applyState(m.coord.State())
		if d.err != nil {
			m.logger.Error("details failed", "error", d.err)
			return m, nil
		}
		m.details = d.view
		m.view = DetailView

	case MsgTrailerOpened:
		if err, _ := msg.data.(error); err != nil {
			m.status = err.Error()
		}
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			if m.state.LastSearch != "" {
				return m, m.load(tasks.OpClearSearch, m.coord.ClearSearchResults)
			}
			return m, nil
		}
		m.logger.Debug("search", "query", query)
		return m, m.load(tasks.OpSearch, func(ctx context.Context) *models.Page {
			return m.coord.SearchForMovies(ctx, query, 1)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.setTheme(m.themes.ToggleTheme())
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.input.SetValue(m.state.LastSearch)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.enter):
		if movie, ok := selectedMovie(m.movies); ok {
			m.returnTo = BrowseView
			return m, m.fetchDetails(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := selectedMovie(m.movies); ok {
			m.toggleFavorite(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorites):
		m.view = FavoritesView
		return m, nil
	case key.Matches(msg, m.keys.clearSearch):
		if m.state.LastSearch == "" {
			return m, nil
		}
		return m, m.load(tasks.OpClearSearch, m.coord.ClearSearchResults)
	case key.Matches(msg, m.keys.clearFilters):
		if !m.state.Filtering {
			return m, nil
		}
		return m, m.load(tasks.OpClearFilters, m.coord.ClearFilters)
	case key.Matches(msg, m.keys.more):
		if !m.hasMore || m.state.Loading {
			return m, nil
		}
		return m, m.loadMore()
	}

	var cmd tea.Cmd
	m.movies, cmd = m.movies.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.returnTo
		m.details = nil
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.details != nil {
			m.toggleFavorite(m.details.Details.Movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.trailer):
		if m.details == nil || m.details.Trailer == nil {
			m.status = "No trailer available"
			return m, nil
		}
		return m, m.openTrailer(m.details.Trailer.URL())
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.favorites):
		m.view = BrowseView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if movie, ok := selectedMovie(m.favorites); ok {
			m.returnTo = FavoritesView
			return m, m.fetchDetails(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := selectedMovie(m.favorites); ok {
			m.toggleFavorite(movie)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.movies, cmd = m.movies.Update(msg)
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	}
	return m, cmd
}

func selectedMovie(l list.Model) (models.Movie, bool) {
	item, ok := l.SelectedItem().(movieItem)
	return item.movie, ok
}

func (m *Model) toggleFavorite(movie models.Movie) {
	if m.coord.IsFavorite(movie.ID) {
		m.coord.RemoveFromFavorites(movie.ID)
		m.logger.Debug("favorite removed", "id", movie.ID)
	} else {
		m.coord.AddToFavorites(movie)
		m.logger.Debug("favorite added", "id", movie.ID, "title", movie.Title)
	}
	m.applyState(m.coord.State())
}

func (m *Model) applyState(s tasks.State) {
	m.state = s
	m.movies.Title = s.Title()
	m.movies.SetItems(movieItems(s.Display(), m.coord.IsFavorite))
	m.favorites.SetItems(movieItems(s.Favorites, func(int) bool { return true }))
}

func (m *Model) setTheme(theme models.Theme) {
	m.theme = theme
	m.palette = PaletteFor(theme)

	for _, l := range []*list.Model{&m.movies, &m.favorites} {
		l.SetDelegate(m.palette.delegate())
		l.Styles.Title = l.Styles.Title.Background(m.palette.accent)
	}
	m.input.PromptStyle = m.palette.ok
	m.help.Styles.ShortKey = m.help.Styles.ShortKey.Foreground(m.palette.accent)
	m.help.Styles.FullKey = m.help.Styles.FullKey.Foreground(m.palette.accent)
}

// load runs fn off the update loop and reports the page it returns.
func (m *Model) load(op tasks.Operation, fn func(context.Context) *models.Page) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg(op, fn(m.ctx))
	}
}

func (m *Model) initialize() tea.Cmd {
	return m.load(tasks.OpInitialize, m.coord.Initialize)
}

// loadMore appends the next page of whichever list is on screen.
func (m *Model) loadMore() tea.Cmd {
	s, next := m.state, m.page+1
	switch {
	case s.Filtering:
		return m.load(tasks.OpFilter, func(ctx context.Context) *models.Page {
			return m.coord.ApplyFilters(ctx, s.ActiveFilters, next)
		})
	case len(s.Search) > 0:
		return m.load(tasks.OpSearch, func(ctx context.Context) *models.Page {
			return m.coord.SearchForMovies(ctx, s.LastSearch, next)
		})
	default:
		return m.load(tasks.OpTrending, func(ctx context.Context) *models.Page {
			return m.coord.FetchTrending(ctx, next)
		})
	}
}

func (m *Model) fetchDetails(id int) tea.Cmd {
	return func() tea.Msg {
		view, err := m.coord.FetchDetails(m.ctx, id)
		return detailsLoadedMsg(view, err)
	}
}

func (m *Model) openTrailer(url string) tea.Cmd {
	return func() tea.Msg {
		return trailerOpenedMsg(m.openURL(url))
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-m.updates:
			return stateChangedMsg(u)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DetailView:
		return m.renderDetails()
	case FavoritesView:
		return m.renderFavorites()
	default:
		return m.renderBrowse()
	}
}

func (m *Model) renderBrowse() string {
	var b strings.Builder
	b.WriteString(m.movies.View())
	b.WriteString("\n")

	if m.searching {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if line := m.statusLine(); line != "" {
		b.WriteString("\n" + line + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) statusLine() string {
	var parts []string
	switch {
	case m.state.Loading:
		parts = append(parts, m.palette.warn.Render("Loading..."))
	case m.state.Error != "":
		parts = append(parts, m.palette.err.Render(m.state.Error))
	}
	if m.state.Filtering {
		parts = append(parts, m.palette.help.Render(describeFilters(m.state.ActiveFilters)))
	}
	if m.hasMore {
		parts = append(parts, m.palette.help.Render(fmt.Sprintf("page %d, press m for more", m.page)))
	}
	return strings.Join(parts, "  ")
}

func describeFilters(f models.FilterSet) string {
	genre := "any genre"
	if f.Genre != "" {
		genre = "genre " + f.Genre
	}
	return fmt.Sprintf("Filters: %s, %d-%d, rating %g-%g", genre, f.YearFrom, f.YearTo, f.MinRating(), f.MaxRating())
}

func (m *Model) renderFavorites() string {
	if len(m.state.Favorites) == 0 {
		title := m.palette.title.Render("Favorites")
		return fmt.Sprintf("%s\n%s\n\n%s", title, m.palette.help.Render("No favorites yet. Press f on a movie to add it."),
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.favorites.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetails() string {
	if m.details == nil {
		return m.palette.err.Render(tasks.MsgDetailsFailed)
	}
	d := m.details.Details

	heading := d.Title
	if m.coord.IsFavorite(d.ID) {
		heading = "★ " + heading
	}

	var b strings.Builder
	b.WriteString(m.palette.title.Render(heading) + "\n")
	if d.Tagline != "" {
		b.WriteString(m.palette.help.Render(d.Tagline) + "\n\n")
	}

	facts := []string{}
	if y, ok := d.ReleaseYear(); ok {
		facts = append(facts, fmt.Sprint(y))
	}
	facts = append(facts, shared.FormatRuntime(d.Runtime), shared.FormatRating(d.VoteAverage))
	b.WriteString(strings.Join(facts, " • ") + "\n")

	if names := d.GenreNames(); len(names) > 0 {
		b.WriteString("Genres: " + strings.Join(names, ", ") + "\n")
	}
	if directors := m.details.Credits.Directors(); len(directors) > 0 {
		b.WriteString("Directed by: " + strings.Join(directors, ", ") + "\n")
	}
	if cast := m.details.Credits.TopCast(5); len(cast) > 0 {
		names := make([]string, len(cast))
		for i, c := range cast {
			names[i] = c.Name
		}
		b.WriteString("Starring: " + strings.Join(names, ", ") + "\n")
	}

	b.WriteString("\n" + d.Overview + "\n")

	if m.details.Trailer != nil {
		b.WriteString("\n" + m.palette.ok.Render("Trailer: ") + m.details.Trailer.URL() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.palette.warn.Render(m.status) + "\n")
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.trailer, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}
