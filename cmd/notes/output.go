package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notes/internal/views"
	"github.com/aretw0/notes/pkg/core"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", formatText, "Output format: text, json or yaml")
}

// render writes v as JSON or YAML, or calls text for the human format.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	case formatText, "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printNotes renders a note list under its heading. Own notes are marked
// with "*"; notes a staff user may remove with "(admin)".
func printNotes(w io.Writer, view views.Dashboard, filter views.Filter, list []core.Note) {
	fmt.Fprintln(w, view.Heading(filter, len(list)))
	if len(list) == 0 {
		fmt.Fprintln(w, "  No notes yet.")
		return
	}
	for _, n := range list {
		marker := ""
		switch {
		case view.CanDelete(n):
			marker = " *"
		case view.CanAdminDelete(n):
			marker = " (admin)"
		}
		fmt.Fprintf(w, "  #%d %s%s\n", n.ID, n.Title, marker)
		fmt.Fprintf(w, "     by %s on %s\n", n.AuthorUsername, views.FormatDate(n.CreatedAt))
		for _, line := range strings.Split(strings.TrimRight(n.Content, "\n"), "\n") {
			fmt.Fprintf(w, "     | %s\n", line)
		}
	}
}

func printUser(w io.Writer, u core.User) {
	fmt.Fprintf(w, "%s (#%d)\n", u.Username, u.ID)
	if u.Email != "" {
		fmt.Fprintf(w, "  email: %s\n", u.Email)
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		fmt.Fprintf(w, "  name:  %s\n", name)
	}
	if u.Staff() {
		fmt.Fprintln(w, "  staff: yes")
	}
}
