package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	apiURL    string
	storeName string
	storePath string
	tempStore bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "A terminal client for the notes-sharing API",
	Long: `notes talks to a notes-sharing REST API: register, log in, list the
shared notes, create your own and delete the ones you own.
Staff accounts may delete any note.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	if errors.Is(err, errSignedOut) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides NOTES_API_URL and config)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "Session store: fs, memory, redis or mongo")
	rootCmd.PersistentFlags().StringVar(&storePath, "session-file", "", "Session file used by the fs store")
	rootCmd.PersistentFlags().BoolVar(&tempStore, "temp", false, "Keep the fs session under the system temp directory")
}
