package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/repositories"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
	th "github.com/desertthunder/reelx/internal/testing"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

var testMovies = []models.Movie{
	{ID: 1, Title: "Dune: Part Two", VoteAverage: 8.2, ReleaseDate: "2024-02-27", Overview: "Paul unites with the Fremen."},
	{ID: 2, Title: "Past Lives", VoteAverage: 7.8, ReleaseDate: "2023-06-02"},
	{ID: 3, Title: "Anatomy of a Fall", VoteAverage: 4.5, ReleaseDate: "2023-08-23"},
}

type fixture struct {
	runner *Runner
	api    *th.MockMovieAPI
	out    *bytes.Buffer
	dir    string
}

// newFixture builds a Runner over a bolt store in a temp dir, so state persists between commands the way it
// does between real invocations.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.TMDB.APIKey = ""
	config.Storage = shared.StorageConfig{Driver: "bolt", Path: filepath.Join(dir, "reelx.bolt")}

	mock := &th.MockMovieAPI{
		TrendingFunc: func(_ context.Context, page int) (*models.Page, error) {
			return &models.Page{Page: page, TotalPages: 3, Results: testMovies}, nil
		},
		SearchFunc: func(_ context.Context, query string, page int) (*models.Page, error) {
			return &models.Page{Page: page, TotalPages: 1, Results: testMovies[:1]}, nil
		},
		DiscoverFunc: func(_ context.Context, p services.DiscoverParams) (*models.Page, error) {
			return &models.Page{Page: p.Page, TotalPages: 1, Results: testMovies[1:2]}, nil
		},
		DetailsFunc: func(_ context.Context, id int) (*models.MovieDetails, error) {
			for _, m := range testMovies {
				if m.ID == id {
					return &models.MovieDetails{Movie: m, Runtime: 166, Tagline: "Long live the fighters."}, nil
				}
			}
			return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
		},
		CreditsFunc: func(_ context.Context, id int) (*models.Credits, error) {
			return &models.Credits{
				ID:   id,
				Cast: []models.CastMember{{Name: "Zendaya", Character: "Chani"}},
				Crew: []models.CrewMember{{Name: "Denis Villeneuve", Job: "Director"}},
			}, nil
		},
		VideosFunc: func(_ context.Context, id int) ([]models.Video, error) {
			return []models.Video{{Key: "Way9Dexny3w", Site: "YouTube", Type: "Trailer", Official: true}}, nil
		},
		GenresFunc: func(context.Context) ([]models.Genre, error) {
			return []models.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}, {ID: 18, Name: "Drama"}}, nil
		},
	}

	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    mock,
		Logger: shared.NewLogger(io.Discard),
		Output: out,
		Now:    func() time.Time { return testNow },
	})
	return &fixture{runner: runner, api: mock, out: out, dir: dir}
}

// run executes one CLI invocation and returns its output.
func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	f.out.Reset()

	app := newApp(f.runner)
	app.Writer = io.Discard
	app.ErrWriter = io.Discard

	argv := append([]string{"reelx", "--config", filepath.Join(f.dir, "missing.toml")}, args...)
	err := app.Run(context.Background(), argv)
	return f.out.String(), err
}

func (f *fixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := f.run(t, args...)
	if err != nil {
		t.Fatalf("reelx %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// reopen opens the store after a command closed it, for inspecting persisted state.
func (f *fixture) reopen(t *testing.T) {
	t.Helper()
	if err := f.runner.open(); err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	t.Cleanup(func() { f.runner.Close() })
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.mustRun(t, "auth", "register", "--email", "ada@example.com", "--password", "secret", "--name", "Ada")
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := &th.MockMovieAPI{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "reelx.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "reelx.toml" {
				t.Errorf("expected configPath 'reelx.toml', got %q", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.store != nil || runner.coord != nil {
				t.Error("expected storage to open lazily")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout to be used")
			}
			if runner.httpClient == nil {
				t.Fatal("expected default httpClient to be set")
			}
			if runner.httpClient.Timeout != runner.config.TMDB.Timeout() {
				t.Errorf("expected timeout %v, got %v", runner.config.TMDB.Timeout(), runner.httpClient.Timeout)
			}
			if runner.now == nil || runner.openURL == nil {
				t.Error("expected clock and browser opener to be set")
			}
		})

		t.Run("with store wires dependencies", func(t *testing.T) {
			api := &th.MockMovieAPI{}
			runner := NewRunner(RunnerOpts{Store: repositories.NewMemoryStore(), API: api, Logger: shared.NewLogger(io.Discard)})

			if runner.coord == nil || runner.sessions == nil || runner.prefs == nil || runner.favorites == nil {
				t.Fatal("expected coordinator, sessions and repositories to be wired")
			}
			if runner.tmdb == nil {
				t.Error("expected TMDB client to be created")
			}
			if runner.api != api {
				t.Error("expected injected api to be kept")
			}
			if err := runner.open(); err != nil {
				t.Errorf("expected open to be a no-op, got %v", err)
			}
		})

		t.Run("stored api key is used when config has none", func(t *testing.T) {
			store := repositories.NewMemoryStore()
			repositories.NewPreferenceRepository(store, nil).SaveAPIKey("stored-key")

			config := shared.DefaultConfig()
			config.TMDB.APIKey = ""
			runner := NewRunner(RunnerOpts{Config: config, Store: store, Logger: shared.NewLogger(io.Discard)})

			if !runner.tmdb.HasCredentials() {
				t.Error("expected stored api key to be applied")
			}
			if runner.api != runner.tmdb {
				t.Error("expected api to default to the TMDB client")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := th.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("Next steps:"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\nNext steps:\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "auth", "movies", "favorites", "theme", "serve", "api", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("command %d: expected %q, got %q", i, want[i], cmd.Name)
			}
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("loads config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[storage]\ndriver = \"memory\"\n\n[logging]\nlevel = \"debug\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
			app := newApp(runner)
			app.Writer = io.Discard
			if err := app.Run(context.Background(), []string{"reelx", "--config", path, "theme"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if runner.configPath != path {
				t.Errorf("expected configPath %q, got %q", path, runner.configPath)
			}
			if runner.config.Storage.Driver != "memory" {
				t.Errorf("expected memory driver, got %q", runner.config.Storage.Driver)
			}
			if runner.logger.GetLevel().String() != "debug" {
				t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
			}
		})

		t.Run("invalid config fails", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("[storage\n"), 0644); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
			app := newApp(runner)
			app.Writer, app.ErrWriter = io.Discard, io.Discard
			err := app.Run(context.Background(), []string{"reelx", "--config", path, "theme"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes template", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.dir, "reelx.toml")

		run := func() error {
			app := newApp(f.runner)
			app.Writer, app.ErrWriter = io.Discard, io.Discard
			return app.Run(context.Background(), []string{"reelx", "--config", path, "setup", "config"})
		}

		if err := run(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "[tmdb]") {
			t.Error("expected config template contents")
		}

		if err := run(); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database migrates sqlite", func(t *testing.T) {
		f := newFixture(t)
		f.runner.config.Storage = shared.StorageConfig{Driver: "sqlite", Path: filepath.Join(f.dir, "reelx.db")}

		out := f.mustRun(t, "setup", "database")
		if !strings.Contains(out, "schema version") {
			t.Errorf("expected schema version in output, got %q", out)
		}
		th.AssertFileExists(t, filepath.Join(f.dir, "reelx.db"))

		out = f.mustRun(t, "setup", "database", "--rollback")
		if !strings.Contains(out, "reelx.db") {
			t.Errorf("expected database path in output, got %q", out)
		}
	})

	t.Run("database prepares bolt", func(t *testing.T) {
		f := newFixture(t)

		out := f.mustRun(t, "setup", "database")
		if !strings.Contains(out, "Bolt store ready") {
			t.Errorf("unexpected output %q", out)
		}
		th.AssertFileExists(t, f.runner.config.Storage.Path)
	})

	t.Run("database rejects unknown driver", func(t *testing.T) {
		f := newFixture(t)
		f.runner.config.Storage.Driver = "postgres"

		_, err := f.run(t, "setup", "database")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("apikey is stored", func(t *testing.T) {
		f := newFixture(t)

		if _, err := f.run(t, "setup", "apikey"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		f.mustRun(t, "setup", "apikey", "abc123")
		f.reopen(t)
		if f.runner.prefs.APIKey() != "abc123" {
			t.Errorf("expected stored key, got %q", f.runner.prefs.APIKey())
		}
		if !f.runner.tmdb.HasCredentials() {
			t.Error("expected TMDB client to pick up the stored key")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("register, whoami, logout", func(t *testing.T) {
		f := newFixture(t)

		out := f.mustRun(t, "auth", "register", "--email", "ada@example.com", "--password", "secret", "--name", "Ada")
		if !strings.Contains(out, "Ada <ada@example.com>") {
			t.Errorf("unexpected register output %q", out)
		}

		out = f.mustRun(t, "auth", "whoami", "--json")
		var session models.Session
		if err := json.Unmarshal([]byte(out), &session); err != nil {
			t.Fatalf("expected JSON session, got %q: %v", out, err)
		}
		if session.Email != "ada@example.com" || session.ID == "" {
			t.Errorf("unexpected session %+v", session)
		}
		if strings.Contains(out, "secret") {
			t.Error("session output must not include the password")
		}

		f.mustRun(t, "auth", "logout")
		if _, err := f.run(t, "auth", "whoami"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.mustRun(t, "auth", "logout")

		if _, err := f.run(t, "auth", "login", "--email", "ada@example.com", "--password", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}

		out := f.mustRun(t, "auth", "login", "--email", "ada@example.com", "--password", "secret")
		if !strings.Contains(out, "Logged in as Ada") {
			t.Errorf("unexpected login output %q", out)
		}
	})

	t.Run("duplicate and invalid registration", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		_, err := f.run(t, "auth", "register", "--email", "ada@example.com", "--password", "other")
		if !errors.Is(err, shared.ErrDuplicateUser) {
			t.Errorf("expected ErrDuplicateUser, got %v", err)
		}

		_, err = f.run(t, "auth", "register", "--email", "not-an-email", "--password", "x")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	t.Run("require a session", func(t *testing.T) {
		f := newFixture(t)

		for _, args := range [][]string{
			{"movies", "trending"},
			{"movies", "search", "dune"},
			{"favorites", "list"},
			{"tui"},
		} {
			if _, err := f.run(t, args...); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("%v: expected ErrNotAuthenticated, got %v", args, err)
			}
		}
		if f.api.TotalCalls() != 0 {
			t.Errorf("expected no API calls, got %d", f.api.TotalCalls())
		}
	})

	t.Run("trending", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		out := f.mustRun(t, "movies", "trending")
		for _, want := range []string{"Trending Movies", "Dune: Part Two", "8.2/10", "--page 2"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output %q", want, out)
			}
		}

		out = f.mustRun(t, "movies", "trending", "--page", "2", "--json")
		var list listOutput
		if err := json.Unmarshal([]byte(out), &list); err != nil {
			t.Fatalf("expected JSON, got %q: %v", out, err)
		}
		if list.Page != 2 || !list.HasMore || len(list.Movies) != 3 {
			t.Errorf("unexpected list %+v", list)
		}
	})

	t.Run("trending failure", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.api.SetErr(shared.ErrNetwork)

		_, err := f.run(t, "movies", "trending")
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "Failed to fetch trending movies") {
			t.Errorf("expected display message in error, got %v", err)
		}
	})

	t.Run("search persists last search", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		if _, err := f.run(t, "movies", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		out := f.mustRun(t, "movies", "search", "dune")
		if !strings.Contains(out, `Search Results for "dune"`) {
			t.Errorf("unexpected search output %q", out)
		}

		out = f.mustRun(t, "movies", "list")
		if !strings.Contains(out, `Search Results for "dune"`) {
			t.Errorf("expected list to restore last search, got %q", out)
		}

		out = f.mustRun(t, "movies", "clear-search")
		if !strings.Contains(out, "Trending Movies") {
			t.Errorf("expected trending after clear-search, got %q", out)
		}
		f.reopen(t)
		if f.runner.prefs.LastSearch() != "" {
			t.Errorf("expected last search cleared, got %q", f.runner.prefs.LastSearch())
		}
	})

	t.Run("filter resolves genre and persists filters", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		out := f.mustRun(t, "movies", "filter", "--genre", "comedy", "--min-rating", "7")
		if !strings.Contains(out, "Filtered Movies") && !strings.Contains(out, "Past Lives") {
			t.Errorf("unexpected filter output %q", out)
		}

		calls := f.api.DiscoverCalls()
		if len(calls) != 1 {
			t.Fatalf("expected one discover call, got %d", len(calls))
		}
		if calls[0].Genre != "35" || calls[0].VoteMin != 7 || calls[0].YearTo != testNow.Year() {
			t.Errorf("unexpected discover params %+v", calls[0])
		}

		f.reopen(t)
		saved := f.runner.prefs.Filters()
		if saved.Genre != "35" || saved.MinRating() != 7 {
			t.Errorf("expected filters saved, got %+v", saved)
		}
		f.runner.Close()

		out = f.mustRun(t, "movies", "list", "--json")
		var list listOutput
		if err := json.Unmarshal([]byte(out), &list); err != nil {
			t.Fatalf("expected JSON, got %q: %v", out, err)
		}
		if list.Filters == nil || list.Filters.Genre != "35" {
			t.Errorf("expected active filters in list output, got %+v", list.Filters)
		}

		out = f.mustRun(t, "movies", "clear-filters")
		if !strings.Contains(out, "Trending Movies") {
			t.Errorf("expected trending after clear-filters, got %q", out)
		}
	})

	t.Run("filter rejects invalid ranges", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		_, err := f.run(t, "movies", "filter", "--year-from", "2024", "--year-to", "2020")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		_, err = f.run(t, "movies", "filter", "--genre", "zzzzqqq")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown genre, got %v", err)
		}
		if len(f.api.DiscoverCalls()) != 0 {
			t.Error("expected no discover calls for invalid filters")
		}
	})

	t.Run("show", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		var opened string
		f.runner.openURL = func(u string) error { opened = u; return nil }

		out := f.mustRun(t, "movies", "show", "--open", "1")
		for _, want := range []string{"Dune: Part Two", "2h 46m", "Denis Villeneuve", "Zendaya as Chani", "youtube.com/watch?v=Way9Dexny3w"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output %q", want, out)
			}
		}
		if opened != "https://www.youtube.com/watch?v=Way9Dexny3w" {
			t.Errorf("expected trailer to be opened, got %q", opened)
		}

		if _, err := f.run(t, "movies", "show", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := f.run(t, "movies", "show", "999"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("genres", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		out := f.mustRun(t, "movies", "genres")
		if !strings.Contains(out, "Comedy") || !strings.Contains(out, "35") {
			t.Errorf("unexpected genres output %q", out)
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	t.Run("add, list, find, remove", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		out := f.mustRun(t, "favorites", "add", "1")
		if !strings.Contains(out, "Added Dune: Part Two") {
			t.Errorf("unexpected add output %q", out)
		}
		f.mustRun(t, "favorites", "add", "2")

		out = f.mustRun(t, "favorites", "add", "1")
		if !strings.Contains(out, "already a favorite") {
			t.Errorf("expected duplicate notice, got %q", out)
		}

		out = f.mustRun(t, "favorites", "list")
		if !strings.Contains(out, "Favorites (2)") || !strings.Contains(out, "★") {
			t.Errorf("unexpected list output %q", out)
		}

		out = f.mustRun(t, "favorites", "find", "--json", "dune")
		var found []models.Movie
		if err := json.Unmarshal([]byte(out), &found); err != nil {
			t.Fatalf("expected JSON, got %q: %v", out, err)
		}
		if len(found) != 1 || found[0].ID != 1 {
			t.Errorf("expected Dune to match, got %+v", found)
		}

		f.mustRun(t, "favorites", "remove", "1")
		if _, err := f.run(t, "favorites", "remove", "1"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}

		out = f.mustRun(t, "favorites", "list", "--json")
		var favorites []models.Movie
		if err := json.Unmarshal([]byte(out), &favorites); err != nil {
			t.Fatalf("expected JSON, got %q: %v", out, err)
		}
		if len(favorites) != 1 || favorites[0].ID != 2 {
			t.Errorf("expected only Past Lives to remain, got %+v", favorites)
		}
		if favorites[0].Overview != models.DefaultOverview {
			t.Errorf("expected default overview, got %q", favorites[0].Overview)
		}
	})

	t.Run("export", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.mustRun(t, "favorites", "add", "1")
		f.mustRun(t, "favorites", "add", "3")

		dir := filepath.Join(f.dir, "export")
		out := f.mustRun(t, "favorites", "export", "--format", "csv", "--output", dir, "--rate", "100")
		for _, want := range []string{"Export Complete!", "Movies:   2", "Enriched: 2/2"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output %q", want, out)
			}
		}

		csv := th.MustReadFile(t, filepath.Join(dir, formatter.FileName(formatter.FormatCSV)))
		if !strings.Contains(csv, "Dune: Part Two") || !strings.Contains(csv, "Anatomy of a Fall") {
			t.Errorf("unexpected csv %q", csv)
		}
		th.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		_, err := f.run(t, "favorites", "export", "--format", "xml", "--output", filepath.Join(f.dir, "x"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestThemeCommand(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"theme"}, "light\n"},
		{[]string{"theme", "toggle"}, "✓ Theme set to dark\n"},
		{[]string{"theme"}, "dark\n"},
		{[]string{"theme", "light"}, "✓ Theme set to light\n"},
		{[]string{"theme", "DARK"}, "✓ Theme set to dark\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if out := f.mustRun(t, tt.args...); out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}

	t.Run("invalid mode", func(t *testing.T) {
		if _, err := f.run(t, "theme", "sepia"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestAPIGet(t *testing.T) {
	t.Run("without credentials", func(t *testing.T) {
		f := newFixture(t)

		if _, err := f.run(t, "api", "get", "/movie/1"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		var gotPath, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath, gotKey = r.URL.Path, r.URL.Query().Get("api_key")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":1,"title":"Dune: Part Two"}`))
		}))
		defer srv.Close()

		f := newFixture(t)
		f.runner.config.TMDB.BaseURL = srv.URL
		f.runner.config.TMDB.APIKey = "k"

		out := f.mustRun(t, "api", "get", "--pretty=false", "/movie/1")
		if gotPath != "/movie/1" || gotKey != "k" {
			t.Errorf("unexpected request path=%q key=%q", gotPath, gotKey)
		}
		if !strings.Contains(out, `"title":"Dune: Part Two"`) {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("non-2xx status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		f := newFixture(t)
		f.runner.config.TMDB.BaseURL = srv.URL
		f.runner.config.TMDB.APIKey = "bad"

		if _, err := f.run(t, "api", "get", "/movie/1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
