package platform

import (
	"github.com/aretw0/introspection"
)

// SessionState aggregates the state of every component of a Session.
type SessionState struct {
	Store     any `json:"store,omitempty" yaml:"store,omitempty"`
	Tokens    any `json:"tokens" yaml:"tokens"`
	Transport any `json:"transport" yaml:"transport"`
	Guard     any `json:"guard" yaml:"guard"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	state := SessionState{
		Tokens:    s.Tokens.State(),
		Transport: s.Client.State(),
		Guard:     s.Guard.State(),
	}
	if intro, ok := s.store.(introspection.Introspectable); ok {
		state.Store = intro.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
