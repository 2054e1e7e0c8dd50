package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

// errSignedOut stops a protected command when the guard refuses the session.
var errSignedOut = errors.New("not logged in or session expired, run `notes login` to sign in")

// openSession loads the configuration from the working directory, applies
// the global flags and builds a session.
func openSession(ctx context.Context) (*notes.Session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get CWD: %w", err)
	}

	cfg, err := notes.LoadConfig(wd)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.File != "" {
		slog.Debug("configuration loaded", "file", cfg.File)
	}

	opts := []notes.Option{
		notes.WithConfig(cfg),
		notes.WithLogger(slog.Default()),
	}
	if apiURL != "" {
		opts = append(opts, notes.WithBaseURL(apiURL))
	}
	if storeName != "" {
		opts = append(opts, notes.WithAdapter(storeName))
	}
	if storePath != "" {
		opts = append(opts, notes.WithStorePath(storePath))
	}
	if tempStore {
		opts = append(opts, notes.WithForceTemp(true))
	}

	s, err := notes.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return s, nil
}

// withSession runs fn against a fresh session and closes it afterwards,
// whatever fn returns.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *notes.Session) error) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			slog.Warn("failed to close session", "error", err)
		}
	}()
	return fn(ctx, s)
}

// withProtectedSession is withSession for commands that need a logged-in user.
func withProtectedSession(cmd *cobra.Command, fn func(ctx context.Context, s *notes.Session) error) error {
	return withSession(cmd, func(ctx context.Context, s *notes.Session) error {
		if err := requireAuth(ctx, s); err != nil {
			return err
		}
		return fn(ctx, s)
	})
}

// requireAuth runs the auth guard, refreshing an expired access token.
func requireAuth(ctx context.Context, s *notes.Session) error {
	if !s.Guard.Evaluate(ctx).Authorized() {
		return errSignedOut
	}
	return nil
}
