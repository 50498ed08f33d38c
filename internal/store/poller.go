package store

import (
	"context"
	"log/slog"
	"time"
)

// TickerFactory yields a tick channel and a stop function. The default uses a
// real time.Ticker; tests inject a channel they drive by hand so virtual time
// advances deterministically.
type TickerFactory func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// WithTicker overrides the poller's ticker source.
func (s *Store) WithTicker(f TickerFactory) *Store {
	s.newTicker = f
	return s
}

// PollNotifications re-fetches the actor's notifications and unread count on
// every tick until the context is cancelled. It only reads and replaces its
// own slice of the snapshot; a failed fetch is logged and the previous slice
// stays in place.
func (s *Store) PollNotifications(ctx context.Context, every time.Duration) {
	ticks, stop := s.newTicker(every)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if err := s.RefreshNotifications(ctx); err != nil {
				slog.Warn("notification refresh failed", "error", err)
			}
		}
	}
}
