// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/tasks"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "Result page to load",
		Value:   1,
	}
}

func withFlags(base []cli.Flag, extra ...cli.Flag) []cli.Flag {
	return append(extra, base...)
}

// setupCommand handles setup operations for configuration, storage and credentials.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize storage and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "apikey",
				Usage: "Store the TMDB API key",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Action: r.withStore(r.SetupAPIKey),
			},
		},
	}
}

// authCommand handles account registration and the local session
func authCommand(r *Runner) *cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Account password",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage accounts and the current session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: withFlags(credentialFlags, &cli.StringFlag{
					Name:  "name",
					Usage: "Display name",
				}),
				Action: r.withStore(r.AuthRegister),
			},
			{
				Name:   "login",
				Usage:  "Log in with email and password",
				Flags:  credentialFlags,
				Action: r.withStore(r.AuthLogin),
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.withStore(r.AuthLogout),
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user",
				Flags:  outputFlags(),
				Action: r.withStore(r.AuthWhoAmI),
			},
		},
	}
}

// moviesCommand handles browsing, searching and filtering
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse, search and filter movies",
		Commands: []*cli.Command{
			{
				Name:   "trending",
				Usage:  "List trending movies",
				Flags:  withFlags(outputFlags(), pageFlag()),
				Action: r.withSession(r.MoviesTrending),
			},
			{
				Name:  "search",
				Usage: "Search movies by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  withFlags(outputFlags(), pageFlag()),
				Action: r.withSession(r.MoviesSearch),
			},
			{
				Name:  "filter",
				Usage: "Apply and save a filter set",
				Flags: withFlags(outputFlags(),
					pageFlag(),
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre name or id",
					},
					&cli.IntFlag{
						Name:  "year-from",
						Usage: "Earliest release year",
						Value: models.MinYearFrom,
					},
					&cli.IntFlag{
						Name:  "year-to",
						Usage: "Latest release year (default: current year)",
					},
					&cli.FloatFlag{
						Name:  "min-rating",
						Usage: "Minimum rating",
						Value: 0,
					},
					&cli.FloatFlag{
						Name:  "max-rating",
						Usage: "Maximum rating",
						Value: 10,
					},
				),
				Action: r.withSession(r.MoviesFilter),
			},
			{
				Name:   "clear-filters",
				Usage:  "Reset filters to the defaults",
				Flags:  outputFlags(),
				Action: r.withSession(r.MoviesClearFilters),
			},
			{
				Name:   "clear-search",
				Usage:  "Forget the last search",
				Flags:  outputFlags(),
				Action: r.withSession(r.MoviesClearSearch),
			},
			{
				Name:   "list",
				Usage:  "Show the current list (last search, filters or trending)",
				Flags:  outputFlags(),
				Action: r.withSession(r.MoviesList),
			},
			{
				Name:  "show",
				Usage: "Show details, credits and trailer of a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: withFlags(outputFlags(), &cli.BoolFlag{
					Name:  "open",
					Usage: "Open the trailer in the browser",
				}),
				Action: r.withSession(r.MoviesShow),
			},
			{
				Name:   "genres",
				Usage:  "List movie genres",
				Flags:  outputFlags(),
				Action: r.withSession(r.MoviesGenres),
			},
		},
	}
}

// favoritesCommand handles the favorites list and its exports
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites",
				Flags:  outputFlags(),
				Action: r.withSession(r.FavoritesList),
			},
			{
				Name:  "add",
				Usage: "Add a movie to favorites by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.withSession(r.FavoritesAdd),
			},
			{
				Name:  "remove",
				Usage: "Remove a movie from favorites by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.withSession(r.FavoritesRemove),
			},
			{
				Name:  "find",
				Usage: "Fuzzy-find favorites by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.withSession(r.FavoritesFind),
			},
			{
				Name:  "export",
				Usage: "Export favorites to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: " + joinFormats(),
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: favorites_export_<timestamp>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent detail requests",
						Value: tasks.DefaultExportWorkers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Maximum requests per second",
						Value: tasks.DefaultExportRate,
					},
					&cli.BoolFlag{
						Name:  "enrich",
						Usage: "Include runtime, tagline, directors and trailer",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download poster images",
					},
				},
				Action: r.withSession(r.FavoritesExport),
			},
		},
	}
}

// themeCommand shows or changes the presentation theme
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or set the theme (light, dark or toggle)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "mode"},
		},
		Action: r.withStore(r.Theme),
	}
}

// serveCommand runs the JSON API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
		},
		Action: r.withStore(r.Serve),
	}
}

// apiCommand handles direct TMDB API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the TMDB API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to TMDB, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.withStore(r.APIGet),
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.withSession(r.TUI),
	}
}
