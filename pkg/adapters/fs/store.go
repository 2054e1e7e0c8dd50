// Package fs persists the session in a JSON file on the local filesystem,
// the terminal counterpart of browser local storage.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/notes/pkg/core"
)

const (
	filePerm = 0600
	dirPerm  = 0700
)

// Config holds the configuration for the file store.
type Config struct {
	Path   string // e.g. ~/.config/notes/session.json
	Logger *slog.Logger
	// ErrorHandler receives watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// Store implements core.Store on top of a single JSON file.
// The file is re-read on every Get so that other processes see each other's
// logins and logouts.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastSnapshot  []byte // bytes last written or observed by this process
	watcherActive bool
}

// NewStore creates a file store. The file and its directory are created lazily.
func NewStore(config Config) *Store {
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// DefaultPath returns the default session file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "notes", "session.json"), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, _, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, _, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), dirPerm); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := writeFileAtomic(s.Path, data, filePerm); err != nil {
		return err
	}

	s.lastSnapshot = data
	s.debug("session key written", "key", key)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.lastSnapshot = nil
	s.debug("session cleared")
	return nil
}

// read loads the session file. A missing file is an empty session; a corrupt
// one is reported so the user can log in again instead of silently losing it.
func (s *Store) read() (map[string]string, []byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read session file: %w", err)
	}

	values := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return values, data, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, nil, fmt.Errorf("decode session file %s: %w", s.Path, err)
	}
	return values, data, nil
}

func (s *Store) debug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, append(args, "path", s.Path)...)
	}
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
