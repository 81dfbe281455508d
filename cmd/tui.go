package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/ui"
)

const tuiLogPath = "./tmp/reelx-tui.log"

// TUI launches the interactive movie browser.
//
// Logs go to the configured log file (or ./tmp/reelx-tui.log) so they don't interfere with rendering.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Logging.File
	if path == "" {
		path = tuiLogPath
	}

	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())

	return ui.Run(ctx, r.coord, r.prefs, fileLogger)
}

// Theme prints the theme, or sets it to light, dark or the opposite of the current one.
func (r *Runner) Theme(ctx context.Context, cmd *cli.Command) error {
	mode := strings.ToLower(strings.TrimSpace(cmd.StringArg("mode")))

	var theme models.Theme
	switch mode {
	case "":
		return r.writePlain("%s\n", r.prefs.Theme())
	case "toggle":
		theme = r.prefs.ToggleTheme()
	case string(models.ThemeLight), string(models.ThemeDark):
		theme = models.Theme(mode)
		if !r.prefs.SaveTheme(theme) {
			return fmt.Errorf("%w: failed to save theme", shared.ErrStorage)
		}
	default:
		return fmt.Errorf("%w: theme must be light, dark or toggle", shared.ErrInvalidArgument)
	}

	return r.writePlain("✓ Theme set to %s\n", theme)
}
