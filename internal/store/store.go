// Package store holds the dashboard's client-side view of the server of
// record: cached snapshots per entity collection, pure read projections over
// them, and mutation intents that are legality-checked locally before they
// are sent out. Every mutation is optimistic intent with authoritative
// confirmation: the snapshot changes only when the server's response comes
// back, and a failed call leaves it untouched.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/interval"
	"github.com/campus-oit/helpdesk-roster/internal/workflow"
)

type snapshot struct {
	availability  map[int64][]domain.AvailabilitySlot
	schedules     map[int64]domain.Schedule
	timeOff       map[int64]domain.TimeOffRequest
	swaps         map[int64]domain.ShiftSwap
	notifications map[int64]domain.Notification
	unreadCount   int
}

type Store struct {
	remote Remote
	actor  domain.Actor

	timeOff  *workflow.Machine[domain.TimeOffStatus, domain.TimeOffRequest]
	swaps    *workflow.Machine[domain.SwapStatus, domain.ShiftSwap]
	schedule *workflow.Machine[domain.ScheduleStatus, domain.Schedule]

	// intentMu serializes mutation intents: one in flight at a time.
	// mu guards the snapshot against the notification poller.
	intentMu sync.Mutex
	mu       sync.RWMutex
	snap     snapshot

	newTicker TickerFactory
}

// New creates a store acting on behalf of one authenticated actor. The actor
// is fixed for the store's lifetime; legality checks never consult ambient
// session state.
func New(remote Remote, actor domain.Actor) *Store {
	return &Store{
		remote:   remote,
		actor:    actor,
		timeOff:  workflow.TimeOff(),
		swaps:    workflow.ShiftSwap(),
		schedule: workflow.ScheduleLifecycle(),
		snap: snapshot{
			availability:  make(map[int64][]domain.AvailabilitySlot),
			schedules:     make(map[int64]domain.Schedule),
			timeOff:       make(map[int64]domain.TimeOffRequest),
			swaps:         make(map[int64]domain.ShiftSwap),
			notifications: make(map[int64]domain.Notification),
		},
		newTicker: realTicker,
	}
}

func (s *Store) Actor() domain.Actor {
	return s.actor
}

/**********************************************
 * Snapshot refresh (reads from the server)
 **********************************************/

func (s *Store) RefreshAvailability(ctx context.Context, ownerID int64) (interval.Grid, error) {
	slots, err := s.remote.FetchAvailability(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	grid, err := interval.GridFromSlots(slots)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.availability[ownerID] = slots
	s.mu.Unlock()
	return grid, nil
}

func (s *Store) RefreshSchedules(ctx context.Context, filter ScheduleFilter) error {
	schedules, err := s.remote.FetchSchedules(ctx, filter)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.schedules = make(map[int64]domain.Schedule, len(schedules))
	for _, sched := range schedules {
		s.snap.schedules[sched.ID] = sched
	}
	return nil
}

func (s *Store) RefreshTimeOff(ctx context.Context, scope Scope) error {
	reqs, err := s.remote.FetchTimeOffRequests(ctx, scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.timeOff = make(map[int64]domain.TimeOffRequest, len(reqs))
	for _, r := range reqs {
		s.snap.timeOff[r.ID] = r
	}
	return nil
}

func (s *Store) RefreshSwaps(ctx context.Context, scope Scope) error {
	swaps, err := s.remote.FetchShiftSwaps(ctx, scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.swaps = make(map[int64]domain.ShiftSwap, len(swaps))
	for _, sw := range swaps {
		s.snap.swaps[sw.ID] = sw
	}
	return nil
}

func (s *Store) RefreshNotifications(ctx context.Context) error {
	notifications, err := s.remote.FetchNotifications(ctx)
	if err != nil {
		return err
	}
	count, err := s.remote.UnreadNotificationCount(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.notifications = make(map[int64]domain.Notification, len(notifications))
	for _, n := range notifications {
		s.snap.notifications[n.ID] = n
	}
	s.snap.unreadCount = count
	return nil
}

/**********************************************
 * Mutation intents
 **********************************************/

// SaveAvailability replaces the actor's availability wholesale. The grid is
// encoded to canonical merged slots before it leaves the client, so the
// stored form is always minimal.
func (s *Store) SaveAvailability(ctx context.Context, grid interval.Grid, recurring bool) ([]domain.AvailabilitySlot, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	slots, err := interval.SlotsFromGrid(s.actor.ID, grid, recurring)
	if err != nil {
		return nil, err
	}

	saved, err := s.remote.SaveAvailability(ctx, s.actor.ID, slots, recurring)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.availability[s.actor.ID] = saved
	s.mu.Unlock()
	return saved, nil
}

// GenerateSchedule asks the server to build a draft schedule for a week.
// Generation is always permitted regardless of existing schedules' states;
// the server owns duplicate-week policy.
func (s *Store) GenerateSchedule(ctx context.Context, weekStart time.Time, notes string) (*GenerateResult, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	if !s.actor.IsSupervisor() {
		return nil, domain.Unauthorizedf("generating a schedule requires the supervisor role")
	}
	if err := domain.ValidateWeekStart(weekStart); err != nil {
		return nil, err
	}

	result, err := s.remote.GenerateSchedule(ctx, weekStart, notes)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.schedules[result.Schedule.ID] = result.Schedule
	s.mu.Unlock()
	return result, nil
}

func (s *Store) PublishSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	return s.applySchedule(ctx, id, workflow.ActionPublish, s.remote.PublishSchedule)
}

func (s *Store) ArchiveSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	return s.applySchedule(ctx, id, workflow.ActionArchive, s.remote.ArchiveSchedule)
}

func (s *Store) applySchedule(ctx context.Context, id int64, action workflow.Action, call func(context.Context, int64) (*domain.Schedule, error)) (*domain.Schedule, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	sched, err := s.scheduleByID(id)
	if err != nil {
		return nil, err
	}
	// Legality is checked on a scratch copy; the snapshot moves only on the
	// server's confirmation.
	if err := s.schedule.Apply(&sched, action, s.actor); err != nil {
		return nil, err
	}

	confirmed, err := call(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.schedules[confirmed.ID] = *confirmed
	// Publishing retires the previously published week on the server; mirror
	// that so the snapshot holds at most one published schedule.
	if action == workflow.ActionPublish {
		for sid, other := range s.snap.schedules {
			if sid != confirmed.ID && other.Status == domain.SchedulePublished {
				other.Status = domain.ScheduleArchived
				s.snap.schedules[sid] = other
			}
		}
	}
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id int64) error {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	sched, err := s.scheduleByID(id)
	if err != nil {
		return err
	}
	if err := workflow.AuthorizeScheduleDelete(&sched, s.actor); err != nil {
		return err
	}

	if err := s.remote.DeleteSchedule(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.snap.schedules, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateTimeOffRequest(ctx context.Context, req domain.TimeOffRequest) (*domain.TimeOffRequest, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	req.UserID = s.actor.ID
	req.Status = domain.TimeOffPending
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.remote.CreateTimeOffRequest(ctx, &req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.timeOff[created.ID] = *created
	s.mu.Unlock()
	return created, nil
}

func (s *Store) ReviewTimeOffRequest(ctx context.Context, id int64, approve bool) (*domain.TimeOffRequest, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	req, err := s.timeOffByID(id)
	if err != nil {
		return nil, err
	}
	action := workflow.ActionDeny
	if approve {
		action = workflow.ActionApprove
	}
	if err := s.timeOff.Apply(&req, action, s.actor); err != nil {
		return nil, err
	}

	confirmed, err := s.remote.ReviewTimeOffRequest(ctx, id, approve)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.timeOff[confirmed.ID] = *confirmed
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) ProposeSwap(ctx context.Context, swap domain.ShiftSwap) (*domain.ShiftSwap, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	swap.RequesterID = s.actor.ID
	swap.Status = domain.SwapProposed
	if err := swap.Validate(); err != nil {
		return nil, err
	}

	created, err := s.remote.ProposeSwap(ctx, &swap)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.swaps[created.ID] = *created
	s.mu.Unlock()
	return created, nil
}

// RespondToSwap is the bound target's answer. On accept the target's shift id
// is absorbed into the swap; it is never set on any other path.
func (s *Store) RespondToSwap(ctx context.Context, id int64, accept bool, targetShiftID *int64) (*domain.ShiftSwap, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	swap, err := s.swapByID(id)
	if err != nil {
		return nil, err
	}
	action := workflow.ActionDecline
	if accept {
		action = workflow.ActionAccept
	}
	if err := s.swaps.Apply(&swap, action, s.actor); err != nil {
		return nil, err
	}

	if !accept {
		targetShiftID = nil
	}
	confirmed, err := s.remote.RespondToSwap(ctx, id, accept, targetShiftID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.swaps[confirmed.ID] = *confirmed
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) CancelSwap(ctx context.Context, id int64) (*domain.ShiftSwap, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	swap, err := s.swapByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.swaps.Apply(&swap, workflow.ActionCancel, s.actor); err != nil {
		return nil, err
	}

	confirmed, err := s.remote.CancelSwap(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.swaps[confirmed.ID] = *confirmed
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) ReviewSwap(ctx context.Context, id int64, approve bool) (*domain.ShiftSwap, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	swap, err := s.swapByID(id)
	if err != nil {
		return nil, err
	}
	action := workflow.ActionDeny
	if approve {
		action = workflow.ActionApprove
	}
	if err := s.swaps.Apply(&swap, action, s.actor); err != nil {
		return nil, err
	}

	confirmed, err := s.remote.ReviewSwap(ctx, id, approve)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap.swaps[confirmed.ID] = *confirmed
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error) {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	s.mu.RLock()
	n, ok := s.snap.notifications[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if n.UserID != s.actor.ID {
		return nil, domain.Unauthorizedf("notification %d belongs to another user", id)
	}

	confirmed, err := s.remote.MarkNotificationRead(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	wasUnread := !n.IsRead
	s.snap.notifications[confirmed.ID] = *confirmed
	if wasUnread && confirmed.IsRead && s.snap.unreadCount > 0 {
		s.snap.unreadCount--
	}
	s.mu.Unlock()
	return confirmed, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()

	if err := s.remote.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	for id, n := range s.snap.notifications {
		n.IsRead = true
		s.snap.notifications[id] = n
	}
	s.snap.unreadCount = 0
	s.mu.Unlock()
	return nil
}

/**********************************************
 * Snapshot lookups (copies, never aliases)
 **********************************************/

func (s *Store) scheduleByID(id int64) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.snap.schedules[id]
	if !ok {
		return domain.Schedule{}, domain.ErrNotFound
	}
	return sched, nil
}

func (s *Store) timeOffByID(id int64) (domain.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.snap.timeOff[id]
	if !ok {
		return domain.TimeOffRequest{}, domain.ErrNotFound
	}
	return req, nil
}

func (s *Store) swapByID(id int64) (domain.ShiftSwap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	swap, ok := s.snap.swaps[id]
	if !ok {
		return domain.ShiftSwap{}, domain.ErrNotFound
	}
	return swap, nil
}
