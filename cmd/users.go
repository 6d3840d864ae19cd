package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsersList prints every user.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	data, err := r.store()
	if err != nil {
		return err
	}

	users, err := data.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}

	if len(users) == 0 {
		r.writePlain("No users yet. Add one with 'moviweb users add NAME'.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		r.writePlain("%4d  %s\n", u.ID, u.Name)
	}
	return nil
}

// UsersAdd creates a user from the remaining arguments.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return fmt.Errorf("%w: user name", shared.ErrMissingArgument)
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	user, err := data.AddUser(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	r.logger.Info("user added", "id", user.ID, "name", user.Name)
	r.writePlain("✓ Added user %d: %s\n", user.ID, user.Name)
	return nil
}
