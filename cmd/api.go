package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/server"
	"github.com/desertthunder/reelx/internal/shared"
)

// APIGet makes a direct GET request to TMDB and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !r.tmdb.HasCredentials() {
		return fmt.Errorf("%w: run `reelx setup apikey <key>` or set %s", shared.ErrMissingCredentials, shared.APIKeyEnv)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.tmdb.Raw(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.coord.Restore()
	api := server.NewAPI(r.coord, r.sessions, r.logger)
	srv := server.New(cfg, api, r.logger)

	r.writePlain("Serving API on http://%s (ctrl+c to stop)\n", srv.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
