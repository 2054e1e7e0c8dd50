package guard

import (
	"time"

	"github.com/aretw0/introspection"
)

// GuardState exposes internal state for observability.
type GuardState struct {
	LastState   State     `json:"last_state"`
	LastChecked time.Time `json:"last_checked,omitempty"`
	Refreshes   int       `json:"refreshes"`
}

// State implements introspection.Introspectable.
func (g *Guard) State() any {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GuardState{
		LastState:   g.last,
		LastChecked: g.lastAt,
		Refreshes:   g.refreshes,
	}
}

// ComponentType implements introspection.Component.
func (g *Guard) ComponentType() string {
	return "guard"
}

var _ introspection.Introspectable = (*Guard)(nil)
var _ introspection.Component = (*Guard)(nil)
