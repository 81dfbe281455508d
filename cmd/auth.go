package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/shared"
)

// AuthRegister creates an account and logs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	account, err := r.sessions.Register(cmd.String("email"), cmd.String("password"), cmd.String("name"))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	return r.writePlain("✓ Registered and logged in as %s\n", displayName(account.Name, account.Email))
}

// AuthLogin logs in with email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	account, err := r.sessions.Login(cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return r.writePlain("✓ Logged in as %s\n", displayName(account.Name, account.Email))
}

// AuthLogout ends the current session. Logging out while logged out is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.sessions.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoAmI prints the current session.
func (r *Runner) AuthWhoAmI(ctx context.Context, cmd *cli.Command) error {
	session, err := r.sessions.RequireSession()
	if err != nil {
		return fmt.Errorf("%w: not logged in", shared.ErrNotAuthenticated)
	}

	return r.writeOutput(cmd, session, func() error {
		r.writePlain("Logged in as %s\n", displayName(session.Name, session.Email))
		r.writePlain("Email: %s\n", session.Email)
		r.writePlain("ID:    %s\n", session.ID)
		return nil
	})
}

func displayName(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
