package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in with a phone number or email and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.String("password")

	state, err := r.run(ctx, actions.LoginRequested{Username: username, Password: password})
	if err != nil {
		return err
	}

	if !state.User.LoggedIn {
		return shared.ErrAuthFailed
	}

	if cmd.Bool("json") {
		return r.writeJSON(state.User, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Logged in as %s (%d)\n", state.User.Profile.Nickname, state.User.Profile.UserID)
}

// AuthStatus shows the saved session, if any.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSessions(); err != nil {
		return err
	}

	session, err := r.sessions.LoadSession(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		if cmd.Bool("json") {
			return r.writeJSON(map[string]bool{"authenticated": false}, cmd.Bool("pretty"))
		}
		return r.writePlain("Authentication: ✗ Not authenticated\n")
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(session, cmd.Bool("pretty"))
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	r.writePlain("Account: %s\n", session.Username)
	if session.Profile.Nickname != "" {
		r.writePlain("Nickname: %s (%d)\n", session.Profile.Nickname, session.Profile.UserID)
	}
	return r.writePlain("Saved: %s\n", session.SavedAt.Format(time.RFC3339))
}

// AuthHistory lists recent logins, newest first.
func (r *Runner) AuthHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSessions(); err != nil {
		return err
	}

	records, err := r.sessions.History(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type row struct {
			ID        string    `json:"id"`
			Username  string    `json:"username"`
			UserID    int64     `json:"userId"`
			Nickname  string    `json:"nickname"`
			CreatedAt time.Time `json:"createdAt"`
		}
		rows := make([]row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, row{rec.ID(), rec.Username(), rec.UserID(), rec.Nickname(), rec.CreatedAt()})
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("No logins recorded\n")
	}

	r.writePlainHeader(fmt.Sprintf("Login history (%d)", len(records)))
	for _, rec := range records {
		r.writePlain("%s  %-24s %s\n", rec.CreatedAt().Format(time.DateTime), rec.Username(), rec.Nickname())
	}
	return nil
}

// AuthLogout forgets the saved session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSessions(); err != nil {
		return err
	}

	if err := r.sessions.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}
