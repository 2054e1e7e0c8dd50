package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
	"github.com/aretw0/notes/internal/views"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with a username and password. Any stored session is cleared
first. Missing values are prompted for; the password is read without echo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *notes.Session) error {
			form := views.LoginForm{Username: loginUsername, Password: loginPassword}
			return runLogin(ctx, s, form, os.Stdout)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// runLogin clears the stored session, prompts for missing fields and signs in.
func runLogin(ctx context.Context, s *notes.Session, form views.LoginForm, out io.Writer) error {
	if err := s.Tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	var err error
	if form.Username == "" {
		if form.Username, err = promptLine("Username"); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if form.Password == "" {
		if form.Password, err = promptPassword("Password"); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	if err := form.Validate(); err != nil {
		return failure(err, "")
	}

	if _, err := s.API.Login(ctx, form.Request()); err != nil {
		return failure(err, "Login failed. Please check your credentials.")
	}
	fmt.Fprintf(out, "Logged in as %s\n", form.Username)
	return nil
}
