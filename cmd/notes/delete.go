package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

var (
	deleteAdmin bool
	deleteYes   bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Long: `Delete a note you own. Staff users may pass --admin to delete any note.
The server has the final say: a note you do not own is reported as not found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid note id %q: %w", args[0], err)
		}

		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			if !deleteYes && !confirm("Are you sure you want to delete this note?") {
				fmt.Println("Aborted.")
				return nil
			}
			return runDelete(ctx, s, id, deleteAdmin, os.Stdout)
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteAdmin, "admin", false, "Use the staff endpoint")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(ctx context.Context, s *notes.Session, id int64, admin bool, out io.Writer) error {
	remove := s.API.DeleteNote
	if admin {
		remove = s.API.AdminDeleteNote
	}
	if err := remove(ctx, id); err != nil {
		return failure(err, "Failed to delete note")
	}
	fmt.Fprintln(out, "Note deleted successfully!")
	return nil
}
