package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notes/pkg/core"
)

const watchDebounce = 50 * time.Millisecond

// Watch reports changes made to the session file by other processes, such as
// a logout in another terminal. Writes made through this Store are not reported.
// The channel is closed when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan core.SessionEvent, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// The directory is watched rather than the file: atomic writes replace
	// the file, which would drop a watch placed on it.
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	s.mu.Lock()
	if _, data, err := s.read(); err == nil {
		s.lastSnapshot = data
	}
	s.watcherActive = true
	s.mu.Unlock()

	events := make(chan core.SessionEvent, 8)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(s.handleWatchError))

	return events, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.SessionEvent) error {
	target := filepath.Clean(s.Path)

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			s.debug("session file event", "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			e, changed := s.detectChange()
			if !changed {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			s.handleWatchError(err)
		}
	}
}

// detectChange compares the file with the last snapshot seen by this process.
func (s *Store) detectChange() (core.SessionEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, data, err := s.read()
	if err != nil {
		s.debug("session file unreadable", "error", err)
		return core.SessionEvent{}, false
	}
	if bytes.Equal(data, s.lastSnapshot) {
		return core.SessionEvent{}, false
	}
	s.lastSnapshot = data

	eventType := core.SessionWritten
	if data == nil {
		eventType = core.SessionCleared
	}
	return core.SessionEvent{Type: eventType, Timestamp: time.Now()}, true
}

func (s *Store) handleWatchError(err error) {
	if s.config.Logger != nil {
		s.config.Logger.Error("session watcher error", "error", err)
	}
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
