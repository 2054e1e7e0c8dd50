// Package views holds the presentation logic of the CLI: form validation,
// user-facing error messages and the notes dashboard.
package views

import (
	"errors"
	"regexp"
	"strings"

	"github.com/aretw0/notes/pkg/core"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrValidation matches every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError is a form error meant to be shown as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// LoginForm is the input of the login command.
type LoginForm struct {
	Username string
	Password string
}

// Validate requires both fields.
func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Password) == "" {
		return invalid("Please enter both username and password")
	}
	return nil
}

// Request builds the login payload.
func (f LoginForm) Request() core.LoginRequest {
	return core.LoginRequest{Username: f.Username, Password: f.Password}
}

// RegisterForm is the input of the register command.
type RegisterForm struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate checks required fields, the email shape and the password length.
func (f RegisterForm) Validate() error {
	if strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Password) == "" || strings.TrimSpace(f.Email) == "" {
		return invalid("Please fill in all required fields")
	}
	if !emailPattern.MatchString(f.Email) {
		return invalid("Please enter a valid email address")
	}
	if len(f.Password) < MinPasswordLength {
		return invalid("Password must be at least 6 characters long")
	}
	return nil
}

// Request builds the registration payload. Names are trimmed and left out
// when blank.
func (f RegisterForm) Request() core.RegisterRequest {
	return core.RegisterRequest{
		Username:  strings.TrimSpace(f.Username),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
	}
}

// NoteForm is the input of the create command.
type NoteForm struct {
	Title   string
	Content string
}

// Validate requires a non-blank title and content.
func (f NoteForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == "" {
		return invalid("Please fill in both title and content")
	}
	return nil
}

// Request builds the note payload.
func (f NoteForm) Request() core.CreateNoteRequest {
	return core.CreateNoteRequest{Title: f.Title, Content: f.Content}
}
