package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/notes/pkg/api"
	"github.com/aretw0/notes/pkg/core"
	"github.com/aretw0/notes/pkg/guard"
	"github.com/aretw0/notes/pkg/transport"
)

// ErrNotWatchable is returned by Session.Watch when the store cannot report
// external changes.
var ErrNotWatchable = errors.New("session store cannot be watched")

// Session wires the token store, HTTP client, API facade and auth guard
// around one storage adapter.
type Session struct {
	Tokens *core.Tokens
	Client *transport.Client
	API    *api.API
	Guard  *guard.Guard

	store core.Store
}

// New opens the configured store and builds a Session on top of it.
//
//	s, err := platform.New(ctx, platform.WithBaseURL("http://localhost:8000"))
func New(ctx context.Context, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	store, err := openStore(ctx, o)
	if err != nil {
		return nil, err
	}

	tokens := core.NewTokens(store)
	client := transport.New(transport.Config{
		BaseURL:    o.baseURL,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
		RequestInterceptors: []transport.RequestInterceptor{
			transport.BearerInterceptor(tokens, o.logger),
			transport.RequestIDInterceptor,
		},
		ResponseInterceptors: []transport.ResponseInterceptor{
			transport.LoggingInterceptor(o.logger),
		},
	})
	facade := api.New(client, tokens)

	guardOpts := []guard.Option{guard.WithLogger(o.logger)}
	if o.now != nil {
		guardOpts = append(guardOpts, guard.WithClock(o.now))
	}

	return &Session{
		Tokens: tokens,
		Client: client,
		API:    facade,
		Guard:  guard.New(tokens, facade, guardOpts...),
		store:  store,
	}, nil
}

// Store returns the storage adapter behind the token store.
func (s *Session) Store() core.Store {
	return s.store
}

// Watch reports changes made to the stored session by other processes.
func (s *Session) Watch(ctx context.Context) (<-chan core.SessionEvent, error) {
	w, ok := s.store.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotWatchable, s.store)
	}
	return w.Watch(ctx)
}

// Close releases connections held by the store.
func (s *Session) Close(ctx context.Context) error {
	switch c := s.store.(type) {
	case interface{ Close(context.Context) error }:
		return c.Close(ctx)
	case interface{ Close() error }:
		return c.Close()
	}
	return nil
}
