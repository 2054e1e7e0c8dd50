// Package lifecycle bridges session events to the lifecycle event model.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notes/pkg/core"
)

type sessionSource struct {
	events <-chan core.SessionEvent
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits session events.
func NewSource(events <-chan core.SessionEvent) lifecycle.Source {
	return &sessionSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *sessionSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is cancelled or the input closes, then
// closes the output channel.
func (s *sessionSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.SessionEvent implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
