package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notes/pkg/core"
)

// DateLayout renders note timestamps.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// Filter narrows the dashboard list.
type Filter struct {
	MineOnly bool
	// TitleGlob is a doublestar pattern matched case-insensitively against
	// the title. Empty matches everything.
	TitleGlob string
}

// Dashboard is the state of the notes page: the current user and the notes
// as returned by the server.
type Dashboard struct {
	User  core.User
	Notes []core.Note
}

// Visible returns the notes to display, in server order.
func (d Dashboard) Visible(f Filter) ([]core.Note, error) {
	notes := d.Notes
	if f.MineOnly && d.User.ID != 0 {
		notes = core.NotesByAuthor(notes, d.User.ID)
	}
	if f.TitleGlob == "" {
		return notes, nil
	}

	pattern := strings.ToLower(f.TitleGlob)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid title pattern %q: %w", f.TitleGlob, doublestar.ErrBadPattern)
	}

	matched := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if ok, _ := doublestar.Match(pattern, strings.ToLower(n.Title)); ok {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// Heading labels the list the way the filter scopes it.
func (d Dashboard) Heading(f Filter, count int) string {
	if f.MineOnly {
		return fmt.Sprintf("My Notes (%d)", count)
	}
	return fmt.Sprintf("All Notes (%d)", count)
}

// CanDelete reports whether the current user owns the note.
func (d Dashboard) CanDelete(n core.Note) bool {
	return n.Author == d.User.ID
}

// CanAdminDelete reports whether the staff delete action applies. The server
// makes the final decision.
func (d Dashboard) CanAdminDelete(n core.Note) bool {
	return d.User.Staff() && n.Author != d.User.ID
}

// Find returns the note with the given id.
func (d Dashboard) Find(id int64) (core.Note, bool) {
	for _, n := range d.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// FormatDate renders a timestamp in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}
