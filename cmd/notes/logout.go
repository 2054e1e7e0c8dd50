package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runLogout(ctx, s, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(ctx context.Context, s *notes.Session, out io.Writer) error {
	if err := s.Tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}
