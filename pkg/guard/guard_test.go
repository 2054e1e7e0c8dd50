package guard_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/internal/notestest"
	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/api"
	"github.com/aretw0/notes/pkg/core"
	"github.com/aretw0/notes/pkg/guard"
	"github.com/aretw0/notes/pkg/transport"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func withExp(t *testing.T, exp time.Time) string {
	return signed(t, jwt.MapClaims{"exp": exp.Unix()})
}

// fakeRefresher answers refresh calls without a server.
type fakeRefresher struct {
	calls   atomic.Int32
	status  int
	access  string
	err     error
	release chan struct{}
}

func (f *fakeRefresher) RefreshAccess(ctx context.Context, refresh string) (*transport.JSONResponse[core.RefreshResponse], error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &transport.JSONResponse[core.RefreshResponse]{
		Response: &http.Response{StatusCode: f.status},
		Data:     core.RefreshResponse{Access: f.access},
	}, nil
}

type fixture struct {
	srv    *notestest.Server
	tokens *core.Tokens
	guard  *guard.Guard
	user   core.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := notestest.New(t)
	tokens := core.NewTokens(memory.NewStore())
	client := transport.New(transport.Config{
		BaseURL:             srv.URL,
		RequestInterceptors: []transport.RequestInterceptor{transport.BearerInterceptor(tokens, nil)},
	})
	return &fixture{
		srv:    srv,
		tokens: tokens,
		guard:  guard.New(tokens, api.New(client, tokens)),
		user:   srv.AddUser("alice", "secret1", false),
	}
}

func TestEvaluate_NoTokenNoNetwork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tokens.SetPair(ctx, "a", "r"))
	require.NoError(t, f.tokens.Clear(ctx))

	d := f.guard.Evaluate(ctx)
	assert.Equal(t, guard.Unauthorized, d.State)
	assert.NoError(t, d.Cause)
	assert.Zero(t, f.srv.Hits(http.MethodPost, api.PathRefresh))
}

func TestEvaluate_ValidTokenNoRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access := f.srv.MintAccess(f.user.ID, time.Now().Add(time.Hour))
	require.NoError(t, f.tokens.SetPair(ctx, access, f.srv.MintRefresh(f.user.ID)))

	d := f.guard.Evaluate(ctx)
	assert.True(t, d.Authorized())
	assert.False(t, d.Refreshed)
	assert.Zero(t, f.srv.Hits(http.MethodPost, api.PathRefresh))
}

func TestEvaluate_ExpiredTokenRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired := f.srv.MintAccess(f.user.ID, time.Now().Add(-time.Minute))
	refresh := f.srv.MintRefresh(f.user.ID)
	require.NoError(t, f.tokens.SetPair(ctx, expired, refresh))

	d := f.guard.Evaluate(ctx)
	require.True(t, d.Authorized(), "cause: %v", d.Cause)
	assert.True(t, d.Refreshed)
	assert.Equal(t, 1, f.srv.Hits(http.MethodPost, api.PathRefresh))

	access, _, _ := f.tokens.Access(ctx)
	storedRefresh, _, _ := f.tokens.Refresh(ctx)
	assert.NotEqual(t, expired, access)
	assert.Equal(t, refresh, storedRefresh, "refresh token must be untouched")

	// The new token is valid, so the next evaluation does not refresh.
	d = f.guard.Evaluate(ctx)
	assert.True(t, d.Authorized())
	assert.Equal(t, 1, f.srv.Hits(http.MethodPost, api.PathRefresh))
}

func TestEvaluate_RefreshFailureKeepsAccessToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.srv.FailRefresh(status)

			expired := f.srv.MintAccess(f.user.ID, time.Now().Add(-time.Minute))
			require.NoError(t, f.tokens.SetPair(ctx, expired, f.srv.MintRefresh(f.user.ID)))

			d := f.guard.Evaluate(ctx)
			assert.Equal(t, guard.Unauthorized, d.State)
			assert.True(t, core.IsStatus(d.Cause, status))

			access, _, _ := f.tokens.Access(ctx)
			assert.Equal(t, expired, access)
		})
	}
}

func TestEvaluate_RefreshOutcomes(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name      string
		access    func(t *testing.T) string
		refresher *fakeRefresher
		want      guard.State
		calls     int32
	}{
		{
			name:      "network error",
			access:    func(t *testing.T) string { return withExp(t, now.Add(-time.Second)) },
			refresher: &fakeRefresher{err: core.NewNetworkError(errors.New("connection refused"))},
			want:      guard.Unauthorized,
			calls:     1,
		},
		{
			name:      "non-200 success status",
			access:    func(t *testing.T) string { return withExp(t, now.Add(-time.Second)) },
			refresher: &fakeRefresher{status: http.StatusNoContent, access: "x"},
			want:      guard.Unauthorized,
			calls:     1,
		},
		{
			name:      "undecodable token is refreshed",
			access:    func(t *testing.T) string { return "not-a-jwt" },
			refresher: &fakeRefresher{status: http.StatusOK, access: "new"},
			want:      guard.Authorized,
			calls:     1,
		},
		{
			name:      "token without exp is valid",
			access:    func(t *testing.T) string { return signed(t, jwt.MapClaims{"user_id": 1}) },
			refresher: &fakeRefresher{status: http.StatusOK},
			want:      guard.Authorized,
			calls:     0,
		},
		{
			name:      "exp equal to now is valid",
			access:    func(t *testing.T) string { return withExp(t, now) },
			refresher: &fakeRefresher{status: http.StatusOK},
			want:      guard.Authorized,
			calls:     0,
		},
		{
			name:      "exp one second ago is expired",
			access:    func(t *testing.T) string { return withExp(t, now.Add(-time.Second)) },
			refresher: &fakeRefresher{status: http.StatusOK, access: "new"},
			want:      guard.Authorized,
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tokens := core.NewTokens(memory.NewStore())
			original := tt.access(t)
			require.NoError(t, tokens.SetPair(ctx, original, "r"))

			g := guard.New(tokens, tt.refresher, guard.WithClock(func() time.Time { return now }))
			d := g.Evaluate(ctx)

			assert.Equal(t, tt.want, d.State)
			assert.Equal(t, tt.calls, tt.refresher.calls.Load())

			access, _, _ := tokens.Access(ctx)
			if d.Refreshed {
				assert.Equal(t, tt.refresher.access, access)
			} else {
				assert.Equal(t, original, access)
			}
		})
	}
}

func TestEvaluate_ConcurrentRefreshIsShared(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tokens := core.NewTokens(memory.NewStore())
	require.NoError(t, tokens.SetPair(ctx, withExp(t, now.Add(-time.Minute)), "r"))

	refresher := &fakeRefresher{
		status:  http.StatusOK,
		access:  withExp(t, now.Add(time.Hour)),
		release: make(chan struct{}),
	}
	g := guard.New(tokens, refresher)

	const n = 16
	decisions := make([]guard.Decision, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decisions[i] = g.Evaluate(ctx)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(refresher.release)
	wg.Wait()

	assert.Equal(t, int32(1), refresher.calls.Load())
	for _, d := range decisions {
		assert.True(t, d.Authorized())
	}

	state, ok := g.State().(guard.GuardState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Refreshes)
	assert.Equal(t, guard.Authorized, state.LastState)
}

func TestGuard_StateBeforeEvaluation(t *testing.T) {
	g := guard.New(core.NewTokens(memory.NewStore()), &fakeRefresher{})
	state := g.State().(guard.GuardState)
	assert.Equal(t, guard.Unknown, state.LastState)
	assert.Equal(t, "guard", g.ComponentType())
}

func TestExpiry(t *testing.T) {
	exp := time.Unix(1_800_000_000, 0)

	got, ok, err := guard.Expiry(withExp(t, exp))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok, err = guard.Expiry(signed(t, jwt.MapClaims{"sub": "x"}))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = guard.Expiry("a.b")
	assert.Error(t, err)

	_, _, err = guard.Expiry("opaque")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestExpiry_IgnoresHeaderAlgorithm(t *testing.T) {
	exp := time.Unix(1_800_000_000, 0)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"XYZ256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))

	got, ok, err := guard.Expiry(header + "." + payload + ".sig")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))

	// A valid token with an unknown alg must not force a refresh.
	ctx := context.Background()
	tokens := core.NewTokens(memory.NewStore())
	require.NoError(t, tokens.SetPair(ctx, header+"."+payload+".sig", "r"))
	refresher := &fakeRefresher{status: http.StatusOK, access: "new"}
	g := guard.New(tokens, refresher, guard.WithClock(func() time.Time { return exp.Add(-time.Hour) }))

	assert.True(t, g.Evaluate(ctx).Authorized())
	assert.Zero(t, refresher.calls.Load())
}

func TestEvaluate_CancelledCallerDoesNotAbortSharedRefresh(t *testing.T) {
	now := time.Now()
	tokens := core.NewTokens(memory.NewStore())
	require.NoError(t, tokens.SetPair(context.Background(), withExp(t, now.Add(-time.Minute)), "r"))

	refresher := &fakeRefresher{
		status:  http.StatusOK,
		access:  withExp(t, now.Add(time.Hour)),
		release: make(chan struct{}),
	}
	g := guard.New(tokens, refresher)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := make(chan guard.Decision, 1)
	go func() { first <- g.Evaluate(firstCtx) }()
	require.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	second := make(chan guard.Decision, 1)
	go func() { second <- g.Evaluate(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	d := <-first
	assert.Equal(t, guard.Unauthorized, d.State)
	assert.ErrorIs(t, d.Cause, context.Canceled)

	close(refresher.release)
	d = <-second
	assert.True(t, d.Authorized())
	assert.Equal(t, int32(1), refresher.calls.Load())

	access, _, err := tokens.Access(context.Background())
	require.NoError(t, err)
	assert.Equal(t, refresher.access, access)
}
