package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/notes"
	"github.com/aretw0/notes/internal/platform"
	"github.com/aretw0/notes/internal/views"
	notesLifecycle "github.com/aretw0/notes/pkg/adapters/lifecycle"
	"github.com/aretw0/notes/pkg/core"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive notes dashboard",
	Long: `Open an interactive dashboard over the shared notes. Type 'help' for the
list of commands. The dashboard follows the stored session: logging out from
another terminal closes it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProtectedSession(cmd, func(ctx context.Context, s *notes.Session) error {
			return runDashboard(ctx, s, os.Stdin, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

const dashboardHelp = `Commands:
  list             show the notes with the current filter
  mine             show only your notes
  all              show every note
  filter [glob]    filter titles by glob, no argument clears it
  create           create a note
  delete <id>      delete a note
  reload           fetch the notes again
  help             show this help
  quit             leave the dashboard`

// loadDashboard fetches the current user and the note list concurrently.
func loadDashboard(ctx context.Context, s *notes.Session) (views.Dashboard, error) {
	var view views.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.API.CurrentUser(gctx)
		view.User = user
		return err
	})
	g.Go(func() error {
		list, err := s.API.Notes(gctx)
		view.Notes = list
		return err
	})
	return view, g.Wait()
}

type dashboard struct {
	s      *notes.Session
	out    io.Writer
	lines  <-chan string
	view   views.Dashboard
	filter views.Filter
}

// runDashboard drives the interactive loop until the input ends, the user
// quits, ctx is cancelled or the session goes away.
func runDashboard(ctx context.Context, s *notes.Session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := watchSession(ctx, s)

	d := &dashboard{s: s, out: out, lines: readLines(ctx, in)}
	if err := d.reload(ctx); err != nil {
		return err
	}
	d.print()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			fmt.Fprintf(out, "\n%s, reloading\n", e)
			if err := d.reload(ctx); err != nil {
				return err
			}
			d.print()
		case line, ok := <-d.lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			quit, err := d.exec(ctx, line)
			if err != nil || quit {
				return err
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// watchSession forwards external session changes. A store that cannot be
// watched yields a nil channel.
func watchSession(ctx context.Context, s *notes.Session) <-chan lifecycle.Event {
	raw, err := s.Watch(ctx)
	if err != nil {
		if !errors.Is(err, platform.ErrNotWatchable) {
			slog.Warn("session watch unavailable", "error", err)
		}
		return nil
	}
	src := notesLifecycle.NewSource(raw)
	if err := src.Start(ctx); err != nil {
		slog.Warn("session watch unavailable", "error", err)
		return nil
	}
	return src.Events()
}

func (d *dashboard) exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(d.out, dashboardHelp)
	case "list", "ls":
		d.print()
	case "mine":
		d.filter.MineOnly = true
		d.print()
	case "all":
		d.filter.MineOnly = false
		d.print()
	case "filter":
		next := d.filter
		next.TitleGlob = arg
		if _, err := d.view.Visible(next); err != nil {
			fmt.Fprintln(d.out, err)
			return false, nil
		}
		d.filter = next
		d.print()
	case "reload":
		if err := d.reload(ctx); err != nil {
			return false, err
		}
		d.print()
	case "create":
		return false, d.create(ctx)
	case "delete", "rm":
		return false, d.delete(ctx, arg)
	default:
		fmt.Fprintf(d.out, "Unknown command %q. Type 'help' for the list of commands.\n", cmd)
	}
	return false, nil
}

// authorize runs the guard before a protected request, refreshing an
// expired access token.
func (d *dashboard) authorize(ctx context.Context) error {
	return requireAuth(ctx, d.s)
}

// reload runs the guard and fetches the dashboard data.
func (d *dashboard) reload(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}
	view, err := loadDashboard(ctx, d.s)
	if err != nil {
		if core.IsStatus(err, http.StatusUnauthorized) {
			return errSignedOut
		}
		fmt.Fprintln(d.out, views.ErrorMessage(err, "Failed to load data"))
		return nil
	}
	d.view = view
	return nil
}

func (d *dashboard) print() {
	visible, err := d.view.Visible(d.filter)
	if err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	printNotes(d.out, d.view, d.filter, visible)
}

func (d *dashboard) ask(ctx context.Context, label string) (string, bool) {
	fmt.Fprintf(d.out, "%s: ", label)
	select {
	case line, ok := <-d.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (d *dashboard) create(ctx context.Context) error {
	var form views.NoteForm
	var ok bool
	if form.Title, ok = d.ask(ctx, "Title"); !ok {
		return nil
	}
	if form.Content, ok = d.ask(ctx, "Content"); !ok {
		return nil
	}
	if err := form.Validate(); err != nil {
		fmt.Fprintln(d.out, views.ErrorMessage(err, ""))
		return nil
	}

	if err := d.authorize(ctx); err != nil {
		return err
	}
	if _, err := d.s.API.CreateNote(ctx, form.Request()); err != nil {
		return d.report(err, "Failed to create note")
	}
	fmt.Fprintln(d.out, "Note created successfully!")
	return d.refresh(ctx)
}

func (d *dashboard) delete(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(d.out, "Usage: delete <id>")
		return nil
	}
	note, found := d.view.Find(id)
	if !found {
		fmt.Fprintf(d.out, "Note #%d not found\n", id)
		return nil
	}

	remove := d.s.API.DeleteNote
	switch {
	case d.view.CanDelete(note):
	case d.view.CanAdminDelete(note):
		remove = d.s.API.AdminDeleteNote
	default:
		fmt.Fprintln(d.out, "You can only delete your own notes")
		return nil
	}

	answer, ok := d.ask(ctx, "Are you sure you want to delete this note? [y/N]")
	if !ok || !isYes(answer) {
		return nil
	}

	if err := d.authorize(ctx); err != nil {
		return err
	}
	if err := remove(ctx, id); err != nil {
		return d.report(err, "Failed to delete note")
	}
	fmt.Fprintln(d.out, "Note deleted successfully!")
	return d.refresh(ctx)
}

func (d *dashboard) refresh(ctx context.Context) error {
	if err := d.reload(ctx); err != nil {
		return err
	}
	d.print()
	return nil
}

// report prints a failed mutation. A 401 means the session is gone.
func (d *dashboard) report(err error, fallback string) error {
	if core.IsStatus(err, http.StatusUnauthorized) {
		return errSignedOut
	}
	fmt.Fprintln(d.out, views.ErrorMessage(err, fallback))
	return nil
}
