package notes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notes/internal/platform"
	"github.com/aretw0/notes/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Session bundles the token store, HTTP client, API facade and auth guard.
type Session = platform.Session

// Config is the user-editable configuration loaded by LoadConfig.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a Session.
type Option = platform.Option

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithLogger sets the logger for the session and its components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithClock overrides the time source of the auth guard.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithStorePath sets the session file used by the "fs" adapter.
func WithStorePath(path string) Option {
	return platform.WithStorePath(path)
}

// WithNamespace scopes the session inside shared backends.
func WithNamespace(namespace string) Option {
	return platform.WithNamespace(namespace)
}

// WithRedis configures the "redis" adapter.
func WithRedis(addr, password string, db int) Option {
	return platform.WithRedis(addr, password, db)
}

// WithMongo configures the "mongo" adapter.
func WithMongo(uri, database string) Option {
	return platform.WithMongo(uri, database)
}

// WithWatcherErrorHandler registers a callback for session watch failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithForceTemp keeps the fs session under the system temp directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithConfig applies a loaded configuration.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// --- Factory ---

// New creates a new Session.
func New(ctx context.Context, opts ...Option) (*Session, error) {
	return platform.New(ctx, opts...)
}

// OpenStore opens the storage adapter selected by the options.
func OpenStore(ctx context.Context, opts ...Option) (core.Store, error) {
	return platform.OpenStore(ctx, opts...)
}

// --- Configuration files ---

// LoadConfig reads .notes.yaml, .env and NOTES_* environment variables.
func LoadConfig(dir string) (Config, error) {
	return platform.LoadConfig(dir)
}

// FindConfig looks upwards from startDir for a .notes.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
