package core

import (
	"context"
	"time"
)

// Keys under which the credential pair is persisted.
const (
	AccessTokenKey  = "access"
	RefreshTokenKey = "refresh"
)

// Store is the persistent key-value storage behind the token store.
// Adhering to this interface keeps the client independent of where the
// session lives (memory, a local file, Redis, MongoDB).
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// SessionEventType describes an external change to the stored session.
type SessionEventType string

const (
	SessionWritten SessionEventType = "WRITTEN"
	SessionCleared SessionEventType = "CLEARED"
)

// SessionEvent reports that the stored session changed outside this process.
type SessionEvent struct {
	Type      SessionEventType
	Timestamp time.Time
}

func (e SessionEvent) String() string {
	return "session " + string(e.Type)
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan SessionEvent, error)
}
