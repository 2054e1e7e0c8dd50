package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/core"
)

// failingStore rejects every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("boom")
}
func (failingStore) Set(ctx context.Context, key, value string) error { return errors.New("boom") }
func (failingStore) Clear(ctx context.Context) error                 { return errors.New("boom") }

func TestTokens_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tokens := core.NewTokens(memory.NewStore())

	_, ok, err := tokens.Access(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should have no access token")

	require.NoError(t, tokens.SetPair(ctx, "a1", "r1"))

	access, ok, err := tokens.Access(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a1", access)

	// Refresh only replaces the access token.
	require.NoError(t, tokens.SetAccess(ctx, "a2"))
	access, _, _ = tokens.Access(ctx)
	refresh, _, _ := tokens.Refresh(ctx)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r1", refresh)

	require.NoError(t, tokens.Clear(ctx))
	_, ok, _ = tokens.Access(ctx)
	assert.False(t, ok)
	_, ok, _ = tokens.Refresh(ctx)
	assert.False(t, ok)
}

func TestTokens_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, core.AccessTokenKey, ""))

	_, ok, err := core.NewTokens(store).Access(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokens_WrapsStoreErrors(t *testing.T) {
	ctx := context.Background()
	tokens := core.NewTokens(failingStore{})

	_, _, err := tokens.Access(ctx)
	assert.ErrorContains(t, err, "read access token")
	assert.ErrorContains(t, tokens.SetPair(ctx, "a", "r"), "store access token")
	assert.ErrorContains(t, tokens.Clear(ctx), "clear session")
}

func TestTokens_State(t *testing.T) {
	ctx := context.Background()
	tokens := core.NewTokens(memory.NewStore())
	require.NoError(t, tokens.SetPair(ctx, "a", "r"))

	state, ok := tokens.State().(core.TokensState)
	require.True(t, ok)
	assert.Equal(t, "memory", state.StoreType)
	assert.True(t, state.HasAccess)
	assert.True(t, state.HasRefresh)
}
