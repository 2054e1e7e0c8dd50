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
	createForm    views.NoteForm
	createOutput  string
	createFromStd bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Example: `  notes create --title "Groceries" --content "milk, eggs"
  echo "long text" | notes create --title "Draft" --stdin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := createForm
		if createFromStd {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			form.Content = string(data)
		}
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runCreate(ctx, s, form, createOutput, os.Stdout)
		})
	},
}

func init() {
	createCmd.Flags().StringVarP(&createForm.Title, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&createForm.Content, "content", "c", "", "Note content")
	createCmd.Flags().BoolVar(&createFromStd, "stdin", false, "Read the content from stdin")
	addOutputFlag(createCmd, &createOutput)
	rootCmd.AddCommand(createCmd)
}

func runCreate(ctx context.Context, s *notes.Session, form views.NoteForm, format string, out io.Writer) error {
	if err := form.Validate(); err != nil {
		return failure(err, "")
	}

	note, err := s.API.CreateNote(ctx, form.Request())
	if err != nil {
		return failure(err, "Failed to create note")
	}
	return render(out, format, note, func(w io.Writer) {
		fmt.Fprintln(w, "Note created successfully!")
	})
}
