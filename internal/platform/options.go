package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notes/pkg/core"
)

// DefaultBaseURL is the API address used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000"

// options holds the internal configuration for a Session.
type options struct {
	store      core.Store
	logger     *slog.Logger
	adapter    string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	config     map[string]interface{}
}

// Option defines a functional option for configuring a Session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:   nil,
		logger:  nil,
		adapter: "fs",
		baseURL: DefaultBaseURL,
		config:  make(map[string]interface{}),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBaseURL sets the API base URL. Relative request paths are appended to it.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithLogger sets the logger for the session and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a storage adapter (e.g. mock, custom backend).
// If provided, the named adapter is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "fs", "memory", "redis"
// or "mongo". Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithClock overrides the time source of the auth guard.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithStorePath sets the session file used by the "fs" adapter.
func WithStorePath(path string) Option {
	return func(o *options) {
		o.config["store_path"] = path
	}
}

// WithNamespace scopes the session inside shared backends (redis, mongo).
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.config["namespace"] = namespace
	}
}

// WithRedis configures the "redis" adapter.
func WithRedis(addr, password string, db int) Option {
	return func(o *options) {
		o.config["redis_addr"] = addr
		o.config["redis_password"] = password
		o.config["redis_db"] = db
	}
}

// WithMongo configures the "mongo" adapter.
func WithMongo(uri, database string) Option {
	return func(o *options) {
		o.config["mongo_uri"] = uri
		o.config["mongo_db"] = database
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while
// watching the session file. They are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithConfig applies a loaded configuration. Options given after it win.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.APIURL != "" {
			o.baseURL = cfg.APIURL
		}
		if cfg.Store != "" {
			o.adapter = cfg.Store
		}
		if cfg.StorePath != "" {
			o.config["store_path"] = cfg.StorePath
		}
		if cfg.Namespace != "" {
			o.config["namespace"] = cfg.Namespace
		}
		if cfg.Redis.Addr != "" {
			o.config["redis_addr"] = cfg.Redis.Addr
			o.config["redis_password"] = cfg.Redis.Password
			o.config["redis_db"] = cfg.Redis.DB
		}
		if cfg.Mongo.URI != "" {
			o.config["mongo_uri"] = cfg.Mongo.URI
		}
		if cfg.Mongo.Database != "" {
			o.config["mongo_db"] = cfg.Mongo.Database
		}
	}
}

// WithForceTemp keeps the fs session file under the system temp directory
// even outside go run and go test.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["force_temp"] = force
	}
}
