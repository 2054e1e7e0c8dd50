// Package guard decides whether protected commands may run. It reads the
// access token, refreshes it when expired and reports a Decision. Refresh
// failures are logged and turned into an unauthorized decision; they are never
// returned as errors.
package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/aretw0/notes/pkg/core"
	"github.com/aretw0/notes/pkg/transport"
)

// State is the outcome of an evaluation.
type State string

const (
	Unknown      State = "unknown"
	Authorized   State = "authorized"
	Unauthorized State = "unauthorized"
)

// Decision is the result of Evaluate. Cause explains an unauthorized decision
// reached through a failure; it is informational only.
type Decision struct {
	State     State
	Refreshed bool
	Cause     error
}

// Authorized reports whether protected content may be shown.
func (d Decision) Authorized() bool {
	return d.State == Authorized
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshAccess(ctx context.Context, refresh string) (*transport.JSONResponse[core.RefreshResponse], error)
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// WithLogger sets the logger for refresh failures.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// Guard evaluates the session on demand. It is safe for concurrent use;
// concurrent evaluations share a single in-flight refresh.
type Guard struct {
	tokens    *core.Tokens
	refresher Refresher
	now       func() time.Time
	logger    *slog.Logger
	group     singleflight.Group

	mu        sync.Mutex
	last      State
	lastAt    time.Time
	refreshes int
}

// New creates a Guard.
func New(tokens *core.Tokens, refresher Refresher, opts ...Option) *Guard {
	g := &Guard{
		tokens:    tokens,
		refresher: refresher,
		now:       time.Now,
		last:      Unknown,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate re-checks the session. An absent access token is unauthorized
// without any network call; an expired one triggers a refresh.
func (g *Guard) Evaluate(ctx context.Context) Decision {
	d := g.evaluate(ctx)
	if d.Cause != nil && g.logger != nil {
		g.logger.Warn("session not authorized", "error", d.Cause)
	}

	g.mu.Lock()
	g.last = d.State
	g.lastAt = g.now()
	g.mu.Unlock()

	return d
}

func (g *Guard) evaluate(ctx context.Context) Decision {
	token, ok, err := g.tokens.Access(ctx)
	if err != nil {
		return Decision{State: Unauthorized, Cause: err}
	}
	if !ok {
		return Decision{State: Unauthorized}
	}

	if !g.expired(token) {
		return Decision{State: Authorized}
	}

	// The shared refresh must outlive any single caller; each caller still
	// stops waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan("refresh", func() (any, error) {
		return g.refresh(shared), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Decision)
	case <-ctx.Done():
		return Decision{State: Unauthorized, Cause: ctx.Err()}
	}
}

func (g *Guard) expired(token string) bool {
	exp, ok, err := Expiry(token)
	if err != nil {
		if g.logger != nil {
			g.logger.Debug("undecodable access token", "error", err)
		}
		return true
	}
	if !ok {
		return false
	}
	return exp.Before(g.now())
}

func (g *Guard) refresh(ctx context.Context) Decision {
	g.mu.Lock()
	g.refreshes++
	g.mu.Unlock()

	refresh, _, err := g.tokens.Refresh(ctx)
	if err != nil {
		return Decision{State: Unauthorized, Cause: err}
	}

	resp, err := g.refresher.RefreshAccess(ctx, refresh)
	if err != nil {
		return Decision{State: Unauthorized, Cause: fmt.Errorf("refresh access token: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{State: Unauthorized, Cause: fmt.Errorf("refresh access token: unexpected status %d", resp.StatusCode)}
	}
	if resp.Data.Access == "" {
		return Decision{State: Unauthorized, Cause: errors.New("refresh access token: empty access token")}
	}

	if err := g.tokens.SetAccess(ctx, resp.Data.Access); err != nil {
		return Decision{State: Unauthorized, Cause: err}
	}
	if g.logger != nil {
		g.logger.Debug("access token refreshed")
	}
	return Decision{State: Authorized, Refreshed: true}
}

// Expiry decodes the exp claim of a JWT without verifying its signature.
// Only the payload segment is read, so the header and its alg are ignored.
// ok is false when the token carries no exp claim.
func Expiry(token string) (exp time.Time, ok bool, err error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return time.Time{}, false, fmt.Errorf("decode token: %w", jwt.ErrTokenMalformed)
	}
	payload, err := jwt.NewParser().DecodeSegment(segments[1])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode token payload: %w", err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("decode token claims: %w", err)
	}

	date, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode exp claim: %w", err)
	}
	if date == nil {
		return time.Time{}, false, nil
	}
	return date.Time, true, nil
}
