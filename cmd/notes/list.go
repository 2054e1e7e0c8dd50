package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
	"github.com/aretw0/notes/internal/views"
)

var (
	listFilter views.Filter
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List shared notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runList(ctx, s, listFilter, listOutput, os.Stdout)
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listFilter.MineOnly, "mine", false, "Show only notes you authored")
	listCmd.Flags().StringVar(&listFilter.TitleGlob, "title", "", "Only notes whose title matches this glob (case-insensitive)")
	addOutputFlag(listCmd, &listOutput)
	rootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, s *notes.Session, filter views.Filter, format string, out io.Writer) error {
	view, err := loadDashboard(ctx, s)
	if err != nil {
		return failure(err, "Failed to load data")
	}

	visible, err := view.Visible(filter)
	if err != nil {
		return err
	}

	return render(out, format, visible, func(w io.Writer) {
		printNotes(w, view, filter, visible)
	})
}
