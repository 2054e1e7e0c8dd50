package views

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/pkg/core"
)

func TestForms_Validate(t *testing.T) {
	tests := []struct {
		name string
		form interface{ Validate() error }
		want string
	}{
		{"login ok", LoginForm{Username: "a", Password: "b"}, ""},
		{"login missing password", LoginForm{Username: "a", Password: "  "}, "Please enter both username and password"},
		{"register ok", RegisterForm{Username: "a", Email: "a@b.io", Password: "123456"}, ""},
		{"register missing email", RegisterForm{Username: "a", Password: "123456"}, "Please fill in all required fields"},
		{"register bad email", RegisterForm{Username: "a", Email: "a@b", Password: "123456"}, "Please enter a valid email address"},
		{"register short password", RegisterForm{Username: "a", Email: "a@b.io", Password: "12345"}, "Password must be at least 6 characters long"},
		{"note ok", NoteForm{Title: "T", Content: "C"}, ""},
		{"note blank title", NoteForm{Title: " \t", Content: "C"}, "Please fill in both title and content"},
		{"note blank content", NoteForm{Title: "T", Content: "\n"}, "Please fill in both title and content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestRegisterForm_Request(t *testing.T) {
	req := RegisterForm{Username: " bob ", Email: " bob@x.io", Password: " pw ", FirstName: "  ", LastName: " B "}.Request()
	assert.Equal(t, core.RegisterRequest{Username: "bob", Email: "bob@x.io", Password: " pw ", LastName: "B"}, req)
}

func TestErrorMessage(t *testing.T) {
	httpErr := func(details any) error {
		return fmt.Errorf("login: %w", core.NewHTTPError(400, "Bad Request", details))
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NoteForm{}.Validate(), "Please fill in both title and content"},
		{"username first", httpErr(map[string]any{
			"password": []any{"too common"},
			"username": []any{"A user with that username already exists."},
		}), "Username: A user with that username already exists."},
		{"email", httpErr(map[string]any{"email": []any{"Enter a valid email address."}}), "Email: Enter a valid email address."},
		{"title", httpErr(map[string]any{"title": []any{"This field may not be blank."}}), "Title: This field may not be blank."},
		{"detail", httpErr(map[string]any{"detail": "No active account found with the given credentials"}), "No active account found with the given credentials"},
		{"text body", httpErr("<html>oops</html>"), "fallback"},
		{"empty field list", httpErr(map[string]any{"username": []any{}}), "fallback"},
		{"network", core.NewNetworkError(errors.New("dial tcp: refused")), "network error: dial tcp: refused"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "fallback"))
		})
	}
}

func TestDashboard_Visible(t *testing.T) {
	staff := true
	d := Dashboard{
		User: core.User{ID: 1, Username: "alice", IsStaff: &staff},
		Notes: []core.Note{
			{ID: 4, Title: "Groceries", Author: 1},
			{ID: 3, Title: "Deploy plan", Author: 2},
			{ID: 2, Title: "groceries/weekend", Author: 2},
			{ID: 1, Title: "Journal", Author: 1},
		},
	}

	all, err := d.Visible(Filter{})
	require.NoError(t, err)
	assert.Equal(t, d.Notes, all)

	mine, err := d.Visible(Filter{MineOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1}, ids(mine))

	globbed, err := d.Visible(Filter{TitleGlob: "GROC*"})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(globbed))

	deep, err := d.Visible(Filter{TitleGlob: "groc*/week*"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(deep))

	both, err := d.Visible(Filter{MineOnly: true, TitleGlob: "j*"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(both))

	_, err = d.Visible(Filter{TitleGlob: "[unclosed"})
	assert.Error(t, err)

	assert.Equal(t, "My Notes (2)", d.Heading(Filter{MineOnly: true}, 2))
	assert.Equal(t, "All Notes (4)", d.Heading(Filter{}, 4))
}

func TestDashboard_MineOnlyWithoutUser(t *testing.T) {
	d := Dashboard{Notes: []core.Note{{ID: 1, Author: 3}}}
	notes, err := d.Visible(Filter{MineOnly: true})
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestDashboard_Permissions(t *testing.T) {
	staff, regular := true, false
	own := core.Note{ID: 1, Author: 1}
	other := core.Note{ID: 2, Author: 2}

	admin := Dashboard{User: core.User{ID: 1, IsStaff: &staff}}
	assert.True(t, admin.CanDelete(own))
	assert.False(t, admin.CanAdminDelete(own))
	assert.False(t, admin.CanDelete(other))
	assert.True(t, admin.CanAdminDelete(other))

	user := Dashboard{User: core.User{ID: 1, IsStaff: &regular}}
	assert.False(t, user.CanAdminDelete(other))

	unknown := Dashboard{User: core.User{ID: 1}}
	assert.False(t, unknown.CanAdminDelete(other))
}

func ids(notes []core.Note) []int64 {
	out := make([]int64, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}
