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

var registerForm views.RegisterForm

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account. Any stored session is cleared first and the new
account is not signed in: run 'notes login' afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runRegister(ctx, s, registerForm, os.Stdout)
		})
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerForm.Username, "username", "u", "", "Username")
	registerCmd.Flags().StringVar(&registerForm.Email, "email", "", "Email address")
	registerCmd.Flags().StringVarP(&registerForm.Password, "password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerForm.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerForm.LastName, "last-name", "", "Last name")
	rootCmd.AddCommand(registerCmd)
}

// runRegister clears the stored session and creates the account without
// signing in.
func runRegister(ctx context.Context, s *notes.Session, form views.RegisterForm, out io.Writer) error {
	if err := s.Tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	var err error
	if form.Username == "" {
		if form.Username, err = promptLine("Username"); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if form.Email == "" {
		if form.Email, err = promptLine("Email"); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
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

	user, err := s.API.Register(ctx, form.Request())
	if err != nil {
		return failure(err, "Registration failed. Please try again.")
	}
	fmt.Fprintf(out, "Account created successfully! Please log in as %s.\n", user.Username)
	return nil
}
