package core

import (
	"context"

	"github.com/aretw0/introspection"
)

// TokensState exposes the session state for observability.
// Token values are never exposed.
type TokensState struct {
	StoreType  string `json:"store_type"`
	HasAccess  bool   `json:"has_access"`
	HasRefresh bool   `json:"has_refresh"`
}

// State implements introspection.Introspectable.
func (t *Tokens) State() any {
	storeType := "store"
	if comp, ok := t.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	ctx := context.Background()
	_, hasAccess, _ := t.Access(ctx)
	_, hasRefresh, _ := t.Refresh(ctx)

	return TokensState{
		StoreType:  storeType,
		HasAccess:  hasAccess,
		HasRefresh: hasRefresh,
	}
}

// ComponentType implements introspection.Component.
func (t *Tokens) ComponentType() string {
	return "tokens"
}

var _ introspection.Introspectable = (*Tokens)(nil)
var _ introspection.Component = (*Tokens)(nil)
