package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

var usersOutput string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users (staff only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runUsers(ctx, s, usersOutput, os.Stdout)
		})
	},
}

func init() {
	addOutputFlag(usersCmd, &usersOutput)
	rootCmd.AddCommand(usersCmd)
}

func runUsers(ctx context.Context, s *notes.Session, format string, out io.Writer) error {
	users, err := s.API.Users(ctx)
	if err != nil {
		return failure(err, "Failed to load data")
	}
	return render(out, format, users, func(w io.Writer) {
		fmt.Fprintf(w, "Users (%d)\n", len(users))
		for _, u := range users {
			printUser(w, u)
		}
	})
}
