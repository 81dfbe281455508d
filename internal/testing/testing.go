// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
)

// MockMovieAPI is a test double for [services.MovieAPI].
//
// Each *Func field overrides one endpoint; unset endpoints return an empty page or list.
// When Err is set every call fails with it. Calls are counted per endpoint.
type MockMovieAPI struct {
	TrendingFunc func(ctx context.Context, page int) (*models.Page, error)
	SearchFunc   func(ctx context.Context, query string, page int) (*models.Page, error)
	DiscoverFunc func(ctx context.Context, p services.DiscoverParams) (*models.Page, error)
	DetailsFunc  func(ctx context.Context, id int) (*models.MovieDetails, error)
	CreditsFunc  func(ctx context.Context, id int) (*models.Credits, error)
	VideosFunc   func(ctx context.Context, id int) ([]models.Video, error)
	GenresFunc   func(ctx context.Context) ([]models.Genre, error)

	mu        sync.Mutex
	err       error
	calls     map[string]int
	discovers []services.DiscoverParams
}

// SetErr makes every subsequent call fail with err (nil restores normal behavior).
func (m *MockMovieAPI) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times endpoint ("trending", "search", "discover", "details", "credits", "videos", "genres") was called.
func (m *MockMovieAPI) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

// TotalCalls returns the number of calls across all endpoints.
func (m *MockMovieAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// DiscoverCalls returns the parameters of every Discover call in order.
func (m *MockMovieAPI) DiscoverCalls() []services.DiscoverParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.DiscoverParams(nil), m.discovers...)
}

func (m *MockMovieAPI) record(endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[endpoint]++
	return m.err
}

func (m *MockMovieAPI) Trending(ctx context.Context, page int) (*models.Page, error) {
	if err := m.record("trending"); err != nil {
		return nil, err
	}
	if m.TrendingFunc != nil {
		return m.TrendingFunc(ctx, page)
	}
	return &models.Page{Page: page, TotalPages: 1, Results: []models.Movie{}}, nil
}

func (m *MockMovieAPI) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	if err := m.record("search"); err != nil {
		return nil, err
	}
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, page)
	}
	return &models.Page{Page: page, TotalPages: 1, Results: []models.Movie{}}, nil
}

func (m *MockMovieAPI) Discover(ctx context.Context, p services.DiscoverParams) (*models.Page, error) {
	if err := m.record("discover"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.discovers = append(m.discovers, p)
	m.mu.Unlock()

	if m.DiscoverFunc != nil {
		return m.DiscoverFunc(ctx, p)
	}
	return &models.Page{Page: p.Page, TotalPages: 1, Results: []models.Movie{}}, nil
}

func (m *MockMovieAPI) Details(ctx context.Context, id int) (*models.MovieDetails, error) {
	if err := m.record("details"); err != nil {
		return nil, err
	}
	if m.DetailsFunc != nil {
		return m.DetailsFunc(ctx, id)
	}
	return &models.MovieDetails{Movie: models.Movie{ID: id}}, nil
}

func (m *MockMovieAPI) Credits(ctx context.Context, id int) (*models.Credits, error) {
	if err := m.record("credits"); err != nil {
		return nil, err
	}
	if m.CreditsFunc != nil {
		return m.CreditsFunc(ctx, id)
	}
	return &models.Credits{ID: id}, nil
}

func (m *MockMovieAPI) Videos(ctx context.Context, id int) ([]models.Video, error) {
	if err := m.record("videos"); err != nil {
		return nil, err
	}
	if m.VideosFunc != nil {
		return m.VideosFunc(ctx, id)
	}
	return []models.Video{}, nil
}

func (m *MockMovieAPI) Genres(ctx context.Context) ([]models.Genre, error) {
	if err := m.record("genres"); err != nil {
		return nil, err
	}
	if m.GenresFunc != nil {
		return m.GenresFunc(ctx)
	}
	return []models.Genre{}, nil
}

var _ services.MovieAPI = (*MockMovieAPI)(nil)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
