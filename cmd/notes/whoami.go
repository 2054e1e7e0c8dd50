package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

var whoamiOutput string

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runWhoami(ctx, s, whoamiOutput, os.Stdout)
		})
	},
}

func init() {
	addOutputFlag(whoamiCmd, &whoamiOutput)
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(ctx context.Context, s *notes.Session, format string, out io.Writer) error {
	user, err := s.API.CurrentUser(ctx)
	if err != nil {
		return failure(err, "Failed to load data")
	}
	return render(out, format, user, func(w io.Writer) {
		printUser(w, user)
	})
}
