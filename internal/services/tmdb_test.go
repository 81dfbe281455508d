package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// stubTransport returns a canned response or error for every request
type stubTransport struct {
	response *http.Response
	err      error
}

func (s *stubTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return s.response, s.err
}

// failingBody fails every read
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (failingBody) Close() error             { return nil }

func newTestService(t *testing.T, handler http.HandlerFunc) *TMDBService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := shared.TMDBConfig{APIKey: "test-key", BaseURL: server.URL, Language: "en-US", TimeoutSeconds: 2}
	return NewTMDBService(cfg, nil, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestTMDBService(t *testing.T) {
	t.Run("NewTMDBService", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			srv := NewTMDBService(shared.TMDBConfig{APIKey: "k"}, nil, nil)
			if srv.baseURL != tmdbBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.language != "en-US" {
				t.Errorf("expected en-US, got %s", srv.language)
			}
			if srv.httpClient.Timeout != 10*time.Second {
				t.Errorf("expected 10s timeout, got %v", srv.httpClient.Timeout)
			}
			if srv.Name() != "TMDB" {
				t.Errorf("unexpected name %s", srv.Name())
			}
		})

		t.Run("Trailing slash trimmed", func(t *testing.T) {
			srv := NewTMDBService(shared.TMDBConfig{APIKey: "k", BaseURL: "http://example.com/3/"}, nil, nil)
			if srv.baseURL != "http://example.com/3" {
				t.Errorf("unexpected base URL %s", srv.baseURL)
			}
		})
	})

	t.Run("Common parameters", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("api_key") != "test-key" {
				t.Errorf("expected api_key test-key, got %q", q.Get("api_key"))
			}
			if q.Get("language") != "en-US" {
				t.Errorf("expected language en-US, got %q", q.Get("language"))
			}
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			writeJSON(t, w, models.Page{Page: 1, TotalPages: 1})
		})

		if _, err := srv.Trending(context.Background(), 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Trending", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/trending/movie/week" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("page") != "2" {
				t.Errorf("expected page 2, got %s", r.URL.Query().Get("page"))
			}
			writeJSON(t, w, models.Page{
				Page:       2,
				TotalPages: 5,
				Results:    []models.Movie{{ID: 1, Title: "Dune", ReleaseDate: "2021-09-15", VoteAverage: 7.8, GenreIDs: []int{878}}},
			})
		})

		page, err := srv.Trending(context.Background(), 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Results) != 1 || page.Results[0].Title != "Dune" {
			t.Errorf("unexpected results %+v", page.Results)
		}
		if !page.HasMore() {
			t.Error("expected more pages")
		}
		if page.Results[0].GenreIDs[0] != 878 {
			t.Errorf("expected genre ids decoded, got %v", page.Results[0].GenreIDs)
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Sends query and excludes adult", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if r.URL.Path != "/search/movie" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if q.Get("query") != "blade runner" {
					t.Errorf("unexpected query %q", q.Get("query"))
				}
				if q.Get("include_adult") != "false" {
					t.Errorf("expected include_adult=false, got %q", q.Get("include_adult"))
				}
				writeJSON(t, w, models.Page{Page: 1, TotalPages: 1})
			})

			if _, err := srv.Search(context.Background(), "blade runner", 1); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Blank query rejected without a request", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected")
			})
			if _, err := srv.Search(context.Background(), "   ", 1); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Discover", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			want := map[string]string{
				"sort_by":                  "popularity.desc",
				"include_adult":            "false",
				"with_genres":              "878",
				"primary_release_date.gte": "2010-01-01",
				"primary_release_date.lte": "2024-12-31",
				"vote_average.gte":         "6.5",
				"vote_average.lte":         "10",
				"with_text_query":          "dune",
				"page":                     "1",
			}
			for k, v := range want {
				if q.Get(k) != v {
					t.Errorf("expected %s=%s, got %q", k, v, q.Get(k))
				}
			}
			writeJSON(t, w, models.Page{Page: 1, TotalPages: 1})
		})

		f := models.FilterSet{Genre: "878", YearFrom: 2010, YearTo: 2024, Rating: [2]float64{6.5, 10}}
		if _, err := srv.Discover(context.Background(), DiscoverFromFilters(f, "dune", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Details", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movie/438631" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("append_to_response") != "videos" {
				t.Error("expected videos appended")
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":438631,"title":"Dune","runtime":155,"genres":[{"id":878,"name":"Science Fiction"}],
				"videos":{"results":[{"key":"n9xhJrPXop4","site":"YouTube","type":"Trailer","official":true}]}}`))
		})

		details, err := srv.Details(context.Background(), 438631)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if details.Runtime != 155 || details.Title != "Dune" {
			t.Errorf("unexpected details %+v", details)
		}
		if details.Videos == nil || len(details.Videos.Results) != 1 {
			t.Fatalf("expected appended videos, got %+v", details.Videos)
		}
		if details.Genres[0].Name != "Science Fiction" {
			t.Errorf("unexpected genres %v", details.Genres)
		}
	})

	t.Run("Credits and Videos", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/movie/1/credits":
				writeJSON(t, w, models.Credits{ID: 1, Cast: []models.CastMember{{Name: "Timothée Chalamet"}}})
			case "/movie/1/videos":
				writeJSON(t, w, models.VideoList{Results: []models.Video{{Key: "abc", Site: "YouTube", Type: "Teaser"}}})
			default:
				http.NotFound(w, r)
			}
		})

		credits, err := srv.Credits(context.Background(), 1)
		if err != nil || len(credits.Cast) != 1 {
			t.Fatalf("unexpected credits %+v, %v", credits, err)
		}

		videos, err := srv.Videos(context.Background(), 1)
		if err != nil || len(videos) != 1 || videos[0].Key != "abc" {
			t.Fatalf("unexpected videos %+v, %v", videos, err)
		}
	})

	t.Run("Genres", func(t *testing.T) {
		srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/genre/movie/list" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			writeJSON(t, w, genreList{Genres: []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}}})
		})

		genres, err := srv.Genres(context.Background())
		if err != nil || len(genres) != 2 {
			t.Fatalf("unexpected genres %v, %v", genres, err)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		t.Run("API error carries status and message", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
			})

			_, err := srv.Trending(context.Background(), 1)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", apiErr.StatusCode)
			}
			if !strings.Contains(apiErr.Message, "Invalid API key") {
				t.Errorf("unexpected message %q", apiErr.Message)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error to wrap ErrAPIRequest")
			}
			if errors.Is(err, shared.ErrMovieNotFound) {
				t.Error("401 should not match ErrMovieNotFound")
			}
		})

		t.Run("404 matches ErrMovieNotFound", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			_, err := srv.Details(context.Background(), 999)
			if !errors.Is(err, shared.ErrMovieNotFound) {
				t.Errorf("expected ErrMovieNotFound, got %v", err)
			}
		})

		t.Run("Transport failure wraps ErrNetwork", func(t *testing.T) {
			client := &http.Client{Transport: &stubTransport{err: errors.New("connection refused")}}
			srv := NewTMDBService(shared.TMDBConfig{APIKey: "k", BaseURL: "http://example.com"}, client, nil)

			_, err := srv.Trending(context.Background(), 1)
			if !errors.Is(err, shared.ErrNetwork) || !IsNetworkError(err) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Malformed body", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			})

			_, err := srv.Genres(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("Missing credentials", func(t *testing.T) {
			srv := NewTMDBService(shared.TMDBConfig{BaseURL: "http://example.com"}, nil, nil)
			if srv.HasCredentials() {
				t.Fatal("expected no credentials")
			}
			if _, err := srv.Trending(context.Background(), 1); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}

			srv.SetAPIKey(" late-key ")
			if !srv.HasCredentials() || srv.apiKey != "late-key" {
				t.Error("expected key to be set")
			}
		})

		t.Run("Canceled context", func(t *testing.T) {
			srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, models.Page{})
			})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := srv.Trending(ctx, 1); !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork for canceled context, got %v", err)
			}
		})
	})

	t.Run("Bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer v4-token" {
				t.Errorf("expected bearer header, got %q", got)
			}
			if r.URL.Query().Has("api_key") {
				t.Error("api_key should not be sent with a bearer token")
			}
			writeJSON(t, w, genreList{})
		}))
		defer server.Close()

		srv := NewTMDBService(shared.TMDBConfig{AccessToken: "v4-token", BaseURL: server.URL}, nil, nil)
		if !srv.HasCredentials() {
			t.Fatal("expected bearer token to count as credentials")
		}
		if _, err := srv.Genres(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Rate limiting", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(t, w, genreList{})
		}))
		defer server.Close()

		srv := NewTMDBService(shared.TMDBConfig{APIKey: "k", BaseURL: server.URL, RateLimit: 0.001, Burst: 1}, nil, nil)
		if _, err := srv.Genres(context.Background()); err != nil {
			t.Fatalf("first request should pass: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := srv.Genres(ctx); !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected limiter wait to fail with ErrNetwork, got %v", err)
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected 1 request to reach the server, got %d", n)
		}
	})
}

func TestDiscoverParams(t *testing.T) {
	t.Run("omits empty genre and text query", func(t *testing.T) {
		v := DiscoverParams{Page: 0, YearFrom: 2000, YearTo: 2026, VoteMin: 0, VoteMax: 10}.Values()
		if v.Has("with_genres") || v.Has("with_text_query") {
			t.Errorf("unexpected params %v", v)
		}
		if v.Get("page") != "1" {
			t.Errorf("expected page clamped to 1, got %s", v.Get("page"))
		}
		if v.Get("vote_average.gte") != "0" || v.Get("vote_average.lte") != "10" {
			t.Errorf("unexpected vote range %v", v)
		}
	})
}
