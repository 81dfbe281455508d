package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/repositories"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and everything built on it are opened lazily by [Runner.open], so commands like `setup config` work
// before a database exists.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
	openURL    func(string) error

	store     repositories.Store
	accounts  *repositories.AccountRepository
	favorites *repositories.FavoritesRepository
	prefs     *repositories.PreferenceRepository
	tmdb      *services.TMDBService
	api       services.MovieAPI
	coord     *tasks.Coordinator
	sessions  *tasks.SessionManager
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      repositories.Store // opened from Config.Storage when nil
	API        services.MovieAPI  // defaults to the TMDB client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.TMDB.Timeout()}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
		openURL:    shared.OpenURL,
		api:        opts.API,
	}
	if opts.Store != nil {
		r.wire(opts.Store)
	}
	return r
}

// Before loads the configuration named by --config and applies the log level.
//
// A missing config file is not an error: the embedded defaults are used.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && r.store == nil {
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
			r.configPath = path
		case errors.Is(err, fs.ErrNotExist):
			r.logger.Debug("config file not found, using defaults", "path", path)
		default:
			return ctx, err
		}
	}

	level := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// After closes the store if a command opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases the store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

// open opens the configured store and builds the repositories, API client, coordinator and session manager.
func (r *Runner) open() error {
	if r.store != nil {
		return nil
	}

	store, err := repositories.OpenStore(r.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s store at %s: %w", r.config.Storage.Driver, r.config.Storage.Path, err)
	}
	r.logger.Debug("store opened", "driver", r.config.Storage.Driver, "path", r.config.Storage.Path)
	r.wire(store)
	return nil
}

func (r *Runner) wire(store repositories.Store) {
	r.store = store
	r.accounts = repositories.NewAccountRepository(store, r.logger)
	r.favorites = repositories.NewFavoritesRepository(store, r.logger)
	r.prefs = repositories.NewPreferenceRepository(store, r.logger)
	r.prefs.SetClock(r.now)

	r.tmdb = services.NewTMDBService(r.config.TMDB, r.httpClient, r.logger)
	if r.config.TMDB.APIKey == "" {
		r.tmdb.SetAPIKey(r.prefs.APIKey())
	}
	if r.api == nil {
		r.api = r.tmdb
	}

	r.coord = tasks.NewCoordinator(r.api, r.favorites, r.prefs, tasks.CoordinatorOpts{Logger: r.logger, Now: r.now})
	r.sessions = tasks.NewSessionManager(r.accounts, r.logger)
	r.sessions.Restore()
}

// withStore wraps action so it runs after [Runner.open].
func (r *Runner) withStore(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.open(); err != nil {
			return err
		}
		return action(ctx, cmd)
	}
}

// withSession wraps action so it runs only for a logged-in user, with the persisted lists restored.
func (r *Runner) withSession(action cli.ActionFunc) cli.ActionFunc {
	return r.withStore(func(ctx context.Context, cmd *cli.Command) error {
		if _, err := r.sessions.RequireSession(); err != nil {
			return fmt.Errorf("%w: run `reelx auth login` first", err)
		}
		r.coord.Restore()
		return action(ctx, cmd)
	})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, favoritesCommand, themeCommand, serveCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeOutput writes data as JSON when --json is set, otherwise calls plain.
func (r *Runner) writeOutput(cmd *cli.Command, data any, plain func() error) error {
	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}
	return plain()
}
