package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func TestPollNotificationsRefreshesOnTick(t *testing.T) {
	remote := seededRemote()
	remote.unread = 3
	ticks := make(chan time.Time)
	stopped := make(chan struct{})

	s := New(remote, studentActor).WithTicker(func(d time.Duration) (<-chan time.Time, func()) {
		assert.Equal(t, 30*time.Second, d)
		return ticks, func() { close(stopped) }
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.PollNotifications(ctx, 30*time.Second)
	}()

	require.Equal(t, 0, s.UnreadCount(), "nothing fetched before the first tick")

	ticks <- time.Now()
	require.Eventually(t, func() bool { return s.UnreadCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Notifications(), 2)

	cancel()
	<-done
	<-stopped
}

func TestPollNotificationsKeepsSnapshotOnFailure(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, studentActor)
	require.Equal(t, 1, s.UnreadCount())

	remote.failWith = domain.ErrRemoteFailure
	ticks := make(chan time.Time)
	s.WithTicker(func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.PollNotifications(ctx, time.Minute)
	}()

	ticks <- time.Now()
	ticks <- time.Now() // first refresh has finished once this send is accepted

	assert.Equal(t, 1, s.UnreadCount(), "failed refresh keeps the previous slice")
	assert.Len(t, s.Notifications(), 2)

	cancel()
	<-done
}
