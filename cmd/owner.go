package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/texttube/internal/shared"
	"github.com/urfave/cli/v3"
)

// OwnerCreate registers a studio owner.
func (r *Runner) OwnerCreate(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	svc, err := r.authService()
	if err != nil {
		return err
	}

	user, err := svc.CreateUser(cmd.String("email"), cmd.String("name"), password)
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}

	return r.writePlain("created owner %s (%s)\n", user.Email(), user.ID())
}

// OwnerPasswd replaces an owner's password. Existing sessions stay valid until they expire.
func (r *Runner) OwnerPasswd(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	svc, err := r.authService()
	if err != nil {
		return err
	}

	email := cmd.String("email")
	if err := svc.SetPassword(email, password); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	return r.writePlain("password updated for %s\n", email)
}

// OwnerList prints every owner account.
func (r *Runner) OwnerList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.users()
	if err != nil {
		return err
	}

	users, err := repo.List(map[string]any{})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return r.writePlain("No owners. Run `texttube owner create` first.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Owners (%d)", len(users)))
	for _, u := range users {
		r.writePlain("%s  %s  %s  %s\n", u.Email(), u.Name(), u.ID(), shared.FormatDate(u.CreatedAt()))
	}
	return nil
}

// OwnerDelete removes an owner and signs them out everywhere.
func (r *Runner) OwnerDelete(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.users()
	if err != nil {
		return err
	}

	email := cmd.String("email")
	users, err := repo.List(map[string]any{"email": email})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, email)
	}

	if err := repo.Delete(users[0].ID()); err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	return r.writePlain("deleted owner %s\n", users[0].Email())
}

// password takes --password or reads one line from input.
func (r *Runner) password(cmd *cli.Command) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}

	r.writePlain("Password: ")
	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	p := strings.TrimRight(scanner.Text(), "\r\n")
	if p == "" {
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return p, nil
}
