package store

import (
	"sort"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

// Projections are pure reads over the current snapshot: they copy, they
// never mutate, and two calls without an intervening mutation return equal
// results.

// UpcomingShiftsLimit caps the dashboard's "my upcoming shifts" card.
const UpcomingShiftsLimit = 5

// MyUpcomingShifts returns the actor's shifts from published schedules on or
// after the given day, ascending by date then start time, capped at
// UpcomingShiftsLimit.
func (s *Store) MyUpcomingShifts(today time.Time) []domain.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shifts []domain.Shift
	for _, sched := range s.snap.schedules {
		if sched.Status != domain.SchedulePublished {
			continue
		}
		for _, shift := range sched.Shifts {
			if shift.UserID == s.actor.ID && !shift.ActualDate.Before(today) {
				shifts = append(shifts, shift)
			}
		}
	}

	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].ActualDate.Equal(shifts[j].ActualDate) {
			return shifts[i].ActualDate.Before(shifts[j].ActualDate)
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})

	if len(shifts) > UpcomingShiftsLimit {
		shifts = shifts[:UpcomingShiftsLimit]
	}
	return shifts
}

// CurrentSchedule returns the published schedule with the latest week start,
// or nil when none is published.
func (s *Store) CurrentSchedule() *domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *domain.Schedule
	for _, sched := range s.snap.schedules {
		if sched.Status != domain.SchedulePublished {
			continue
		}
		if current == nil || sched.WeekStartDate.After(current.WeekStartDate) {
			copied := sched
			current = &copied
		}
	}
	return current
}

// Schedules returns every cached schedule, newest week first.
func (s *Store) Schedules() []domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make([]domain.Schedule, 0, len(s.snap.schedules))
	for _, sched := range s.snap.schedules {
		schedules = append(schedules, sched)
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].WeekStartDate.After(schedules[j].WeekStartDate)
	})
	return schedules
}

// MyTimeOffRequests returns the actor's own requests, newest first.
func (s *Store) MyTimeOffRequests() []domain.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reqs []domain.TimeOffRequest
	for _, r := range s.snap.timeOff {
		if r.UserID == s.actor.ID {
			reqs = append(reqs, r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs
}

// PendingTimeOffReviews is the supervisor work queue: pending requests,
// oldest first. Non-supervisors get ErrUnauthorized.
func (s *Store) PendingTimeOffReviews() ([]domain.TimeOffRequest, error) {
	if !s.actor.IsSupervisor() {
		return nil, domain.Unauthorizedf("pending reviews are visible to supervisors only")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var reqs []domain.TimeOffRequest
	for _, r := range s.snap.timeOff {
		if r.Status == domain.TimeOffPending {
			reqs = append(reqs, r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.Before(reqs[j].CreatedAt) })
	return reqs, nil
}

// SwapsAwaitingMyResponse returns proposals where the actor is the bound
// target, oldest first.
func (s *Store) SwapsAwaitingMyResponse() []domain.ShiftSwap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var swaps []domain.ShiftSwap
	for _, sw := range s.snap.swaps {
		if sw.Status == domain.SwapProposed && sw.TargetID == s.actor.ID {
			swaps = append(swaps, sw)
		}
	}
	sort.Slice(swaps, func(i, j int) bool { return swaps[i].CreatedAt.Before(swaps[j].CreatedAt) })
	return swaps
}

// MySwaps returns swaps the actor proposed or is targeted by, newest first.
func (s *Store) MySwaps() []domain.ShiftSwap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var swaps []domain.ShiftSwap
	for _, sw := range s.snap.swaps {
		if sw.RequesterID == s.actor.ID || sw.TargetID == s.actor.ID {
			swaps = append(swaps, sw)
		}
	}
	sort.Slice(swaps, func(i, j int) bool { return swaps[i].CreatedAt.After(swaps[j].CreatedAt) })
	return swaps
}

// SwapsAwaitingReview is the supervisor queue of accepted swaps, oldest
// first. Non-supervisors get ErrUnauthorized.
func (s *Store) SwapsAwaitingReview() ([]domain.ShiftSwap, error) {
	if !s.actor.IsSupervisor() {
		return nil, domain.Unauthorizedf("swap reviews are visible to supervisors only")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var swaps []domain.ShiftSwap
	for _, sw := range s.snap.swaps {
		if sw.Status == domain.SwapAccepted {
			swaps = append(swaps, sw)
		}
	}
	sort.Slice(swaps, func(i, j int) bool { return swaps[i].CreatedAt.Before(swaps[j].CreatedAt) })
	return swaps, nil
}

// Notifications returns cached notifications, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]domain.Notification, 0, len(s.snap.notifications))
	for _, n := range s.snap.notifications {
		notifications = append(notifications, n)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications
}

// UnreadCount returns the cached unread notification count.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.unreadCount
}

// Availability returns the cached slot list for an owner.
func (s *Store) Availability(ownerID int64) []domain.AvailabilitySlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]domain.AvailabilitySlot, len(s.snap.availability[ownerID]))
	copy(slots, s.snap.availability[ownerID])
	return slots
}
