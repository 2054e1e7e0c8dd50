// Package api exposes one method per notes API endpoint. It never handles
// errors itself: transport errors reach the caller unchanged.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/notes/pkg/core"
	"github.com/aretw0/notes/pkg/transport"
)

// Endpoint paths, relative to the client base URL.
const (
	PathLogin       = "/api/token/"
	PathRefresh     = "/api/token/refresh/"
	PathRegister    = "/api/user/register/"
	PathUsers       = "/api/users/"
	PathNotes       = "/api/notes/"
	PathCurrentUser = "/api/user/me/"
	pathDelete      = "/api/notes/delete/%d/"
	pathAdminDelete = "/api/notes/admin/delete/%d/"
)

// API is a stateless facade over the HTTP client. The only state it touches
// is the credential pair, written after a successful login.
type API struct {
	client *transport.Client
	tokens *core.Tokens
}

// New creates an API facade.
func New(client *transport.Client, tokens *core.Tokens) *API {
	return &API{client: client, tokens: tokens}
}

// DeleteNotePath returns the owner delete path for id.
func DeleteNotePath(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: %d", core.ErrInvalidID, id)
	}
	return fmt.Sprintf(pathDelete, id), nil
}

// AdminDeleteNotePath returns the staff delete path for id.
func AdminDeleteNotePath(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: %d", core.ErrInvalidID, id)
	}
	return fmt.Sprintf(pathAdminDelete, id), nil
}

// Login exchanges credentials for a token pair and stores both tokens before
// returning.
func (a *API) Login(ctx context.Context, req core.LoginRequest) (core.LoginResponse, error) {
	resp, err := transport.FetchJSON[core.LoginResponse](ctx, a.client, PathLogin, transport.JSONOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return core.LoginResponse{}, err
	}

	if err := a.tokens.SetPair(ctx, resp.Data.Access, resp.Data.Refresh); err != nil {
		return core.LoginResponse{}, err
	}
	return resp.Data, nil
}

// Register creates an account. It does not log in.
func (a *API) Register(ctx context.Context, req core.RegisterRequest) (core.User, error) {
	resp, err := transport.FetchJSON[core.User](ctx, a.client, PathRegister, transport.JSONOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return core.User{}, err
	}
	return resp.Data, nil
}

// Users lists all accounts. The server restricts it to staff.
func (a *API) Users(ctx context.Context) ([]core.User, error) {
	resp, err := transport.FetchJSON[[]core.User](ctx, a.client, PathUsers, transport.JSONOptions{})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Notes lists every note, in server order.
func (a *API) Notes(ctx context.Context) ([]core.Note, error) {
	resp, err := transport.FetchJSON[[]core.Note](ctx, a.client, PathNotes, transport.JSONOptions{})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CurrentUser returns the account the access token belongs to.
func (a *API) CurrentUser(ctx context.Context) (core.User, error) {
	resp, err := transport.FetchJSON[core.User](ctx, a.client, PathCurrentUser, transport.JSONOptions{})
	if err != nil {
		return core.User{}, err
	}
	return resp.Data, nil
}

// CreateNote creates a note owned by the current user.
func (a *API) CreateNote(ctx context.Context, req core.CreateNoteRequest) (core.Note, error) {
	resp, err := transport.FetchJSON[core.Note](ctx, a.client, PathNotes, transport.JSONOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return core.Note{}, err
	}
	return resp.Data, nil
}

// DeleteNote deletes a note the current user owns.
func (a *API) DeleteNote(ctx context.Context, id int64) error {
	path, err := DeleteNotePath(id)
	if err != nil {
		return err
	}
	return a.delete(ctx, path)
}

// AdminDeleteNote deletes any note. The server requires staff.
func (a *API) AdminDeleteNote(ctx context.Context, id int64) error {
	path, err := AdminDeleteNotePath(id)
	if err != nil {
		return err
	}
	return a.delete(ctx, path)
}

func (a *API) delete(ctx context.Context, path string) error {
	resp, err := a.client.Fetch(ctx, path, transport.RequestOptions{Method: http.MethodDelete})
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// RefreshAccess posts the refresh token and returns the raw response so the
// caller can inspect the status.
func (a *API) RefreshAccess(ctx context.Context, refresh string) (*transport.JSONResponse[core.RefreshResponse], error) {
	return transport.FetchJSON[core.RefreshResponse](ctx, a.client, PathRefresh, transport.JSONOptions{
		Method: http.MethodPost,
		Body:   core.RefreshRequest{Refresh: refresh},
	})
}
