package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

const maxBodyBytes = 1 << 20

// API exposes the coordinator and session manager over JSON.
type API struct {
	coord    *tasks.Coordinator
	sessions *tasks.SessionManager
	logger   *log.Logger
	now      func() time.Time
}

// NewAPI creates the JSON handlers.
func NewAPI(coord *tasks.Coordinator, sessions *tasks.SessionManager, logger *log.Logger) *API {
	if logger == nil {
		logger = log.Default()
	}
	return &API{coord: coord, sessions: sessions, logger: logger, now: time.Now}
}

// NewRouter registers every route of api and wraps the result with recovery, logging, CORS and compression.
//
// Movie and favorites routes require a logged-in user.
func NewRouter(api *API, origins []string, logger *log.Logger) http.Handler {
	r := NewBasicRouter()
	r.Use(Recovery(logger))

	r.HandleFunc(http.MethodGet, "/health", api.health)
	r.HandleFunc(http.MethodPost, "/api/auth/register", api.register)
	r.HandleFunc(http.MethodPost, "/api/auth/login", api.login)
	r.HandleFunc(http.MethodPost, "/api/auth/logout", api.logout)
	r.HandleFunc(http.MethodGet, "/api/auth/session", api.session)

	private := func(method, path string, handler http.HandlerFunc) {
		r.Handle(method, path, Chain(handler, RequireSession(api.sessions)))
	}
	private(http.MethodGet, "/api/movies", api.display)
	private(http.MethodGet, "/api/movies/trending", api.trending)
	private(http.MethodGet, "/api/movies/search", api.search)
	private(http.MethodDelete, "/api/movies/search", api.clearSearch)
	private(http.MethodPost, "/api/movies/filters", api.applyFilters)
	private(http.MethodDelete, "/api/movies/filters", api.clearFilters)
	private(http.MethodGet, "/api/movies/{id}", api.details)
	private(http.MethodGet, "/api/genres", api.genres)
	private(http.MethodGet, "/api/favorites", api.favorites)
	private(http.MethodPost, "/api/favorites", api.addFavorite)
	private(http.MethodDelete, "/api/favorites/{id}", api.removeFavorite)

	return Chain(r, RequestLogger(logger), CORS(origins), Compress())
}

// DisplayResponse is the list the client should render.
type DisplayResponse struct {
	Title         string           `json:"title"`
	Movies        []models.Movie   `json:"movies"`
	Loading       bool             `json:"loading"`
	Error         string           `json:"error,omitempty"`
	LastSearch    string           `json:"lastSearch"`
	Filtering     bool             `json:"filtering"`
	ActiveFilters models.FilterSet `json:"activeFilters"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, shared.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrNetwork), errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", shared.ErrInvalidArgument)
	}
	return page, nil
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id must be a positive integer", shared.ErrInvalidArgument)
	}
	return id, nil
}

func (a *API) displayResponse() DisplayResponse {
	s := a.coord.State()
	movies := a.coord.Display()
	if movies == nil {
		movies = []models.Movie{}
	}
	return DisplayResponse{
		Title:         a.coord.DisplayTitle(),
		Movies:        movies,
		Loading:       s.Loading,
		Error:         s.Error,
		LastSearch:    s.LastSearch,
		Filtering:     s.Filtering,
		ActiveFilters: s.ActiveFilters,
	}
}

// pageResult writes page, or the coordinator's recorded failure when page is nil.
func (a *API) pageResult(w http.ResponseWriter, page *models.Page) {
	if page != nil {
		writeJSON(w, http.StatusOK, page)
		return
	}

	msg := a.coord.State().Error
	status := http.StatusBadGateway
	if err := a.coord.LastError(); err != nil {
		if s := statusFor(err); s != http.StatusInternalServerError {
			status = s
		}
	}
	writeMessage(w, status, msg)
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	account, err := a.sessions.Register(body.Email, body.Password, body.Name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, account.Session())
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	account, err := a.sessions.Login(body.Email, body.Password)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, account.Session())
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) session(w http.ResponseWriter, r *http.Request) {
	s, err := a.sessions.RequireSession()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) display(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.displayResponse())
}

func (a *API) trending(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	a.pageResult(w, a.coord.FetchTrending(r.Context(), page))
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: q", shared.ErrMissingArgument))
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	a.pageResult(w, a.coord.SearchForMovies(r.Context(), query, page))
}

func (a *API) clearSearch(w http.ResponseWriter, r *http.Request) {
	a.coord.ClearSearchResults(r.Context())
	writeJSON(w, http.StatusOK, a.displayResponse())
}

// applyFilters accepts a partial filter set; missing fields keep their defaults.
// The genre may be an id or a name.
func (a *API) applyFilters(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	filters := models.DefaultFilterSet(a.now())
	if err := decodeBody(w, r, &filters); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := filters.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err))
		return
	}

	genre, err := a.resolveGenre(r.Context(), filters.Genre)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	filters.Genre = genre

	a.pageResult(w, a.coord.ApplyFilters(r.Context(), filters, page))
}

func (a *API) resolveGenre(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	g, err := a.coord.ResolveGenre(ctx, name)
	if err != nil {
		return "", err
	}
	return tasks.GenreFilterValue(g), nil
}

func (a *API) clearFilters(w http.ResponseWriter, r *http.Request) {
	a.coord.ClearFilters(r.Context())
	writeJSON(w, http.StatusOK, a.displayResponse())
}

func (a *API) details(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	view, err := a.coord.FetchDetails(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			writeError(w, status, shared.ErrMovieNotFound)
			return
		}
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		writeMessage(w, status, tasks.MsgDetailsFailed)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) genres(w http.ResponseWriter, r *http.Request) {
	genres, err := a.coord.Genres(r.Context())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (a *API) favorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.coord.FindFavorites(r.URL.Query().Get("q")))
}

func (a *API) addFavorite(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := decodeBody(w, r, &movie); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if movie.ID <= 0 || strings.TrimSpace(movie.Title) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: movie id and title are required", shared.ErrInvalidInput))
		return
	}

	a.coord.AddToFavorites(movie)
	a.logger.Debug("favorite added", "id", movie.ID, "title", movie.Title)
	writeJSON(w, http.StatusCreated, a.coord.Favorites())
}

func (a *API) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !a.coord.IsFavorite(id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("movie %d is not a favorite", id))
		return
	}

	a.coord.RemoveFromFavorites(id)
	a.logger.Debug("favorite removed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
