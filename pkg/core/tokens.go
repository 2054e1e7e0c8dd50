package core

import (
	"context"
	"fmt"
)

// Tokens is the token store: it owns the credential pair kept in a Store.
// Every other component reads credentials through it; only login, refresh
// and logout write.
type Tokens struct {
	store Store
}

// NewTokens creates a token store on top of the given Store.
func NewTokens(store Store) *Tokens {
	return &Tokens{store: store}
}

// Store returns the underlying key-value store.
func (t *Tokens) Store() Store {
	return t.store
}

// Access returns the stored access token.
func (t *Tokens) Access(ctx context.Context) (string, bool, error) {
	return t.get(ctx, AccessTokenKey)
}

// Refresh returns the stored refresh token.
func (t *Tokens) Refresh(ctx context.Context) (string, bool, error) {
	return t.get(ctx, RefreshTokenKey)
}

// SetPair persists both tokens, as issued on login.
func (t *Tokens) SetPair(ctx context.Context, access, refresh string) error {
	if err := t.store.Set(ctx, AccessTokenKey, access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := t.store.Set(ctx, RefreshTokenKey, refresh); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// SetAccess replaces the access token only, as done after a refresh.
func (t *Tokens) SetAccess(ctx context.Context, access string) error {
	if err := t.store.Set(ctx, AccessTokenKey, access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

// Clear drops the whole session.
func (t *Tokens) Clear(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (t *Tokens) get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := t.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read %s token: %w", key, err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}
