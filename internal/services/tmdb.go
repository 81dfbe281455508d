// TMDB v3 implementation of [MovieAPI]
//
// Response shapes follow https://developer.themoviedb.org/reference
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

const (
	tmdbBaseURL  = "https://api.themoviedb.org/3"
	tmdbLanguage = "en-US"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
}

// Unwrap exposes [shared.ErrAPIRequest].
func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// Is matches [shared.ErrMovieNotFound] for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == shared.ErrMovieNotFound && e.StatusCode == http.StatusNotFound
}

type tmdbErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

type genreList struct {
	Genres []models.Genre `json:"genres"`
}

// TMDBService implements [MovieAPI] against TMDB.
type TMDBService struct {
	baseURL    string
	apiKey     string
	bearer     bool
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewTMDBService creates a TMDB client from cfg.
//
// client may be nil, in which case one with cfg's timeout is created. When cfg.AccessToken is set the client's
// transport is wrapped to send it as a bearer token.
func NewTMDBService(cfg shared.TMDBConfig, client *http.Client, logger *log.Logger) *TMDBService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	if cfg.AccessToken != "" {
		client = bearerClient(client, cfg.AccessToken)
	}
	if logger == nil {
		logger = log.Default()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = tmdbBaseURL
	}

	language := cfg.Language
	if language == "" {
		language = tmdbLanguage
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &TMDBService{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		bearer:     cfg.AccessToken != "",
		language:   language,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:     logger,
	}
}

// bearerClient wraps base with a static OAuth2 token transport, keeping base's timeout.
func bearerClient(base *http.Client, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	client := oauth2.NewClient(ctx, src)
	client.Timeout = base.Timeout
	return client
}

// Name returns the service name.
func (s *TMDBService) Name() string { return "TMDB" }

// SetAPIKey replaces the v3 API key used for subsequent requests.
func (s *TMDBService) SetAPIKey(key string) { s.apiKey = strings.TrimSpace(key) }

// HasCredentials reports whether an API key or access token is configured.
func (s *TMDBService) HasCredentials() bool {
	return s.apiKey != "" || s.bearer
}

func (s *TMDBService) buildURL(endpoint string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	if s.apiKey != "" {
		q.Set("api_key", s.apiKey)
	}
	q.Set("language", s.language)
	return s.baseURL + endpoint + "?" + q.Encode()
}

// send waits for the limiter and performs a GET. Transport failures wrap [shared.ErrNetwork].
func (s *TMDBService) send(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if !s.HasCredentials() {
		return nil, fmt.Errorf("%w: TMDB api key is not configured", shared.ErrMissingCredentials)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildURL(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	s.logger.Debug("tmdb request", "endpoint", endpoint, "status", resp.StatusCode)
	return resp, nil
}

func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	resp, err := s.send(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer func() {
		drain(resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body tmdbErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.StatusMessage
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Trending fetches /trending/movie/week.
func (s *TMDBService) Trending(ctx context.Context, page int) (*models.Page, error) {
	var result models.Page
	if err := s.doRequest(ctx, "/trending/movie/week", pageParams(page), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search fetches /search/movie.
func (s *TMDBService) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}

	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")

	var result models.Page
	if err := s.doRequest(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover fetches /discover/movie.
func (s *TMDBService) Discover(ctx context.Context, p DiscoverParams) (*models.Page, error) {
	var result models.Page
	if err := s.doRequest(ctx, "/discover/movie", p.Values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Details fetches /movie/{id} with videos appended.
func (s *TMDBService) Details(ctx context.Context, id int) (*models.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos")

	var result models.MovieDetails
	if err := s.doRequest(ctx, movieEndpoint(id, ""), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits fetches /movie/{id}/credits.
func (s *TMDBService) Credits(ctx context.Context, id int) (*models.Credits, error) {
	var result models.Credits
	if err := s.doRequest(ctx, movieEndpoint(id, "credits"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos fetches /movie/{id}/videos.
func (s *TMDBService) Videos(ctx context.Context, id int) ([]models.Video, error) {
	var result models.VideoList
	if err := s.doRequest(ctx, movieEndpoint(id, "videos"), nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Genres fetches /genre/movie/list.
func (s *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var result genreList
	if err := s.doRequest(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

func pageParams(page int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(page, 1)))
	return v
}

func movieEndpoint(id int, sub string) string {
	if sub == "" {
		return fmt.Sprintf("/movie/%d", id)
	}
	return fmt.Sprintf("/movie/%d/%s", id, sub)
}

// IsNetworkError reports whether err is a transport failure rather than an API response.
func IsNetworkError(err error) bool {
	return errors.Is(err, shared.ErrNetwork)
}

var _ MovieAPI = (*TMDBService)(nil)

// drain discards the rest of a body so the connection can be reused.
func drain(r io.Reader) { io.Copy(io.Discard, r) }
