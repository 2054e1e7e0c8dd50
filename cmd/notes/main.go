package main

import (
	"github.com/aretw0/notes/internal/views"
)

func main() {
	Execute()
}

// actionError is a failed user action. Its message is the line shown to the
// user, taken from the server's answer when there is one.
type actionError struct {
	err      error
	fallback string
}

func (e *actionError) Error() string {
	return views.ErrorMessage(e.err, e.fallback)
}

func (e *actionError) Unwrap() error {
	return e.err
}

func failure(err error, fallback string) error {
	return &actionError{err: err, fallback: fallback}
}
