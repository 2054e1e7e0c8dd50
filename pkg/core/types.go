// Package core holds the domain types of the notes client and the ports its
// adapters implement.
package core

import "time"

// User is an account as returned by the notes API. It is read-only on the client.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email" yaml:"email"`
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	IsStaff   *bool  `json:"is_staff,omitempty" yaml:"is_staff,omitempty"`
}

// Staff reports whether the server flagged the user as staff.
// The flag is advisory: the server decides what a staff user may do.
func (u User) Staff() bool {
	return u.IsStaff != nil && *u.IsStaff
}

// Note is a shared note. Notes are created and deleted, never updated in place.
type Note struct {
	ID             int64     `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Content        string    `json:"content" yaml:"content"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	Author         int64     `json:"author" yaml:"author"`
	AuthorUsername string    `json:"author_username" yaml:"author_username"`
}

// LoginRequest is the body of the token endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the credential pair issued on login.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterRequest is the body of the registration endpoint.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// CreateNoteRequest is the body used to create a note.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token.
type RefreshResponse struct {
	Access string `json:"access"`
}
