package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notes"
	"github.com/aretw0/notes/pkg/guard"
)

var statusOutput string

type statusReport struct {
	State     guard.State `json:"state" yaml:"state"`
	Refreshed bool        `json:"refreshed" yaml:"refreshed"`
	Cause     string      `json:"cause,omitempty" yaml:"cause,omitempty"`
	Session   any         `json:"session" yaml:"session"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the auth guard and show the session state",
	Long: `Run the auth guard once (refreshing the access token when it has
expired) and print the decision together with the state of every component.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runStatus(ctx, s, statusOutput, os.Stdout)
		})
	},
}

func init() {
	addOutputFlag(statusCmd, &statusOutput)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context, s *notes.Session, format string, out io.Writer) error {
	d := s.Guard.Evaluate(ctx)

	report := statusReport{State: d.State, Refreshed: d.Refreshed, Session: s.State()}
	if d.Cause != nil {
		report.Cause = d.Cause.Error()
	}

	return render(out, format, report, func(w io.Writer) {
		fmt.Fprintf(w, "Session: %s\n", d.State)
		if d.Refreshed {
			fmt.Fprintln(w, "Access token was refreshed.")
		}
		if report.Cause != "" {
			fmt.Fprintf(w, "Cause: %s\n", report.Cause)
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		_ = encoder.Encode(report.Session)
		_ = encoder.Close()
	})
}
