package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/interval"
)

// fakeRemote is a scripted collaborator: canned collections, optional
// injected failure, and a record of the calls it saw.
type fakeRemote struct {
	availability  map[int64][]domain.AvailabilitySlot
	schedules     []domain.Schedule
	timeOff       []domain.TimeOffRequest
	swaps         []domain.ShiftSwap
	notifications []domain.Notification
	unread        int

	failWith error    // returned by every call while set
	calls    []string // method names in order
}

func (f *fakeRemote) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeRemote) FetchAvailability(_ context.Context, ownerID int64) ([]domain.AvailabilitySlot, error) {
	if err := f.record("FetchAvailability"); err != nil {
		return nil, err
	}
	return f.availability[ownerID], nil
}

func (f *fakeRemote) SaveAvailability(_ context.Context, ownerID int64, slots []domain.AvailabilitySlot, _ bool) ([]domain.AvailabilitySlot, error) {
	if err := f.record("SaveAvailability"); err != nil {
		return nil, err
	}
	if f.availability == nil {
		f.availability = make(map[int64][]domain.AvailabilitySlot)
	}
	for i := range slots {
		slots[i].ID = int64(i + 1)
	}
	f.availability[ownerID] = slots
	return slots, nil
}

func (f *fakeRemote) FetchSchedules(_ context.Context, _ ScheduleFilter) ([]domain.Schedule, error) {
	if err := f.record("FetchSchedules"); err != nil {
		return nil, err
	}
	return f.schedules, nil
}

func (f *fakeRemote) GenerateSchedule(_ context.Context, weekStart time.Time, notes string) (*GenerateResult, error) {
	if err := f.record("GenerateSchedule"); err != nil {
		return nil, err
	}
	return &GenerateResult{
		Schedule: domain.Schedule{ID: 100, WeekStartDate: weekStart, Status: domain.ScheduleDraft, Notes: notes},
		Warnings: []ScheduleWarning{{Day: domain.Monday, Location: "Main Desk", Message: "understaffed 8:00-9:00"}},
	}, nil
}

func (f *fakeRemote) scheduleByID(id int64) (*domain.Schedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			return &f.schedules[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRemote) PublishSchedule(_ context.Context, id int64) (*domain.Schedule, error) {
	if err := f.record("PublishSchedule"); err != nil {
		return nil, err
	}
	sched, err := f.scheduleByID(id)
	if err != nil {
		return nil, err
	}
	sched.Status = domain.SchedulePublished
	copied := *sched
	return &copied, nil
}

func (f *fakeRemote) ArchiveSchedule(_ context.Context, id int64) (*domain.Schedule, error) {
	if err := f.record("ArchiveSchedule"); err != nil {
		return nil, err
	}
	sched, err := f.scheduleByID(id)
	if err != nil {
		return nil, err
	}
	sched.Status = domain.ScheduleArchived
	copied := *sched
	return &copied, nil
}

func (f *fakeRemote) DeleteSchedule(_ context.Context, id int64) error {
	if err := f.record("DeleteSchedule"); err != nil {
		return err
	}
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRemote) FetchTimeOffRequests(_ context.Context, _ Scope) ([]domain.TimeOffRequest, error) {
	if err := f.record("FetchTimeOffRequests"); err != nil {
		return nil, err
	}
	return f.timeOff, nil
}

func (f *fakeRemote) CreateTimeOffRequest(_ context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error) {
	if err := f.record("CreateTimeOffRequest"); err != nil {
		return nil, err
	}
	created := *req
	created.ID = int64(len(f.timeOff) + 1)
	f.timeOff = append(f.timeOff, created)
	return &created, nil
}

func (f *fakeRemote) ReviewTimeOffRequest(_ context.Context, id int64, approve bool) (*domain.TimeOffRequest, error) {
	if err := f.record(fmt.Sprintf("ReviewTimeOffRequest(%d,%t)", id, approve)); err != nil {
		return nil, err
	}
	for i := range f.timeOff {
		if f.timeOff[i].ID == id {
			if approve {
				f.timeOff[i].Status = domain.TimeOffApproved
			} else {
				f.timeOff[i].Status = domain.TimeOffDenied
			}
			copied := f.timeOff[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRemote) FetchShiftSwaps(_ context.Context, _ Scope) ([]domain.ShiftSwap, error) {
	if err := f.record("FetchShiftSwaps"); err != nil {
		return nil, err
	}
	return f.swaps, nil
}

func (f *fakeRemote) ProposeSwap(_ context.Context, swap *domain.ShiftSwap) (*domain.ShiftSwap, error) {
	if err := f.record("ProposeSwap"); err != nil {
		return nil, err
	}
	created := *swap
	created.ID = int64(len(f.swaps) + 1)
	f.swaps = append(f.swaps, created)
	return &created, nil
}

func (f *fakeRemote) swapIndex(id int64) int {
	for i := range f.swaps {
		if f.swaps[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeRemote) RespondToSwap(_ context.Context, id int64, accept bool, targetShiftID *int64) (*domain.ShiftSwap, error) {
	shiftID := int64(0)
	if targetShiftID != nil {
		shiftID = *targetShiftID
	}
	if err := f.record(fmt.Sprintf("RespondToSwap(%d,%t,%d)", id, accept, shiftID)); err != nil {
		return nil, err
	}
	i := f.swapIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if accept {
		f.swaps[i].Status = domain.SwapAccepted
		f.swaps[i].TargetShiftID = targetShiftID
	} else {
		f.swaps[i].Status = domain.SwapDenied
	}
	copied := f.swaps[i]
	return &copied, nil
}

func (f *fakeRemote) CancelSwap(_ context.Context, id int64) (*domain.ShiftSwap, error) {
	if err := f.record("CancelSwap"); err != nil {
		return nil, err
	}
	i := f.swapIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	f.swaps[i].Status = domain.SwapCancelled
	copied := f.swaps[i]
	return &copied, nil
}

func (f *fakeRemote) ReviewSwap(_ context.Context, id int64, approve bool) (*domain.ShiftSwap, error) {
	if err := f.record(fmt.Sprintf("ReviewSwap(%d,%t)", id, approve)); err != nil {
		return nil, err
	}
	i := f.swapIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if approve {
		f.swaps[i].Status = domain.SwapApproved
	} else {
		f.swaps[i].Status = domain.SwapDenied
	}
	copied := f.swaps[i]
	return &copied, nil
}

func (f *fakeRemote) FetchNotifications(_ context.Context) ([]domain.Notification, error) {
	if err := f.record("FetchNotifications"); err != nil {
		return nil, err
	}
	return f.notifications, nil
}

func (f *fakeRemote) UnreadNotificationCount(_ context.Context) (int, error) {
	if err := f.record("UnreadNotificationCount"); err != nil {
		return 0, err
	}
	return f.unread, nil
}

func (f *fakeRemote) MarkNotificationRead(_ context.Context, id int64) (*domain.Notification, error) {
	if err := f.record("MarkNotificationRead"); err != nil {
		return nil, err
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].IsRead = true
			copied := f.notifications[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRemote) MarkAllNotificationsRead(_ context.Context) error {
	if err := f.record("MarkAllNotificationsRead"); err != nil {
		return err
	}
	for i := range f.notifications {
		f.notifications[i].IsRead = true
	}
	f.unread = 0
	return nil
}

var (
	studentActor    = domain.Actor{ID: 10, Role: domain.RoleStudent}
	supervisorActor = domain.Actor{ID: 99, Role: domain.RoleSupervisor}

	monday = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
)

func seededRemote() *fakeRemote {
	return &fakeRemote{
		schedules: []domain.Schedule{
			{ID: 1, WeekStartDate: monday.AddDate(0, 0, -7), Status: domain.SchedulePublished, Shifts: []domain.Shift{
				{ID: 11, ScheduleID: 1, UserID: 10, LocationID: 1, DayOfWeek: domain.Monday, StartTime: "08:00:00", EndTime: "11:00:00", ActualDate: monday.AddDate(0, 0, -7), Status: domain.ShiftScheduled},
			}},
			{ID: 2, WeekStartDate: monday, Status: domain.ScheduleDraft, Shifts: []domain.Shift{
				{ID: 21, ScheduleID: 2, UserID: 10, LocationID: 1, DayOfWeek: domain.Tuesday, StartTime: "09:00:00", EndTime: "12:00:00", ActualDate: monday.AddDate(0, 0, 1), Status: domain.ShiftScheduled},
			}},
		},
		timeOff: []domain.TimeOffRequest{
			{ID: 1, UserID: 10, Type: domain.TimeOffVacation, StartDate: monday, EndDate: monday.AddDate(0, 0, 2), Status: domain.TimeOffPending, CreatedAt: monday.Add(-48 * time.Hour)},
			{ID: 2, UserID: 20, Type: domain.TimeOffSickDay, StartDate: monday, EndDate: monday, Status: domain.TimeOffApproved, CreatedAt: monday.Add(-24 * time.Hour)},
		},
		swaps: []domain.ShiftSwap{
			{ID: 1, RequesterID: 20, TargetID: 10, RequesterShiftID: 5, Status: domain.SwapProposed, CreatedAt: monday.Add(-12 * time.Hour)},
		},
		notifications: []domain.Notification{
			{ID: 1, UserID: 10, Title: "Swap proposed", Type: "swap", IsRead: false, CreatedAt: monday},
			{ID: 2, UserID: 10, Title: "Schedule published", Type: "schedule", IsRead: true, CreatedAt: monday.Add(-time.Hour)},
		},
		unread: 1,
	}
}

func hydrated(t *testing.T, remote *fakeRemote, actor domain.Actor) *Store {
	t.Helper()
	s := New(remote, actor)
	ctx := context.Background()
	require.NoError(t, s.RefreshSchedules(ctx, ScheduleFilter{}))
	require.NoError(t, s.RefreshTimeOff(ctx, ScopeAll))
	require.NoError(t, s.RefreshSwaps(ctx, ScopeAll))
	require.NoError(t, s.RefreshNotifications(ctx))
	return s
}

func TestFailedIntentLeavesSnapshotUntouched(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, supervisorActor)

	before := struct {
		schedules []domain.Schedule
		timeOff   []domain.TimeOffRequest
		swaps     []domain.ShiftSwap
		unread    int
	}{s.Schedules(), s.MyTimeOffRequests(), s.MySwaps(), s.UnreadCount()}
	pendingBefore, err := s.PendingTimeOffReviews()
	require.NoError(t, err)

	remote.failWith = fmt.Errorf("boom: %w", domain.ErrRemoteFailure)

	_, err = s.ReviewTimeOffRequest(context.Background(), 1, true)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	_, err = s.PublishSchedule(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	err = s.DeleteSchedule(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)

	assert.Equal(t, before.schedules, s.Schedules())
	assert.Equal(t, before.timeOff, s.MyTimeOffRequests())
	assert.Equal(t, before.swaps, s.MySwaps())
	assert.Equal(t, before.unread, s.UnreadCount())
	pendingAfter, err := s.PendingTimeOffReviews()
	require.NoError(t, err)
	assert.Equal(t, pendingBefore, pendingAfter)
}

func TestProjectionsArePure(t *testing.T) {
	s := hydrated(t, seededRemote(), studentActor)

	assert.Equal(t, s.MyUpcomingShifts(monday), s.MyUpcomingShifts(monday))
	assert.Equal(t, s.MySwaps(), s.MySwaps())
	assert.Equal(t, s.SwapsAwaitingMyResponse(), s.SwapsAwaitingMyResponse())
	assert.Equal(t, s.Notifications(), s.Notifications())
	assert.Equal(t, s.CurrentSchedule(), s.CurrentSchedule())
}

func TestMyUpcomingShiftsOnlyPublishedAndCapped(t *testing.T) {
	remote := seededRemote()
	// Stack six future shifts onto the published schedule, out of order.
	for i := 5; i >= 0; i-- {
		remote.schedules[0].Shifts = append(remote.schedules[0].Shifts, domain.Shift{
			ID:         int64(30 + i),
			ScheduleID: 1,
			UserID:     10,
			DayOfWeek:  domain.Monday,
			StartTime:  "08:00:00",
			EndTime:    "10:00:00",
			ActualDate: monday.AddDate(0, 0, 7*i),
			Status:     domain.ShiftScheduled,
		})
	}
	s := hydrated(t, remote, studentActor)

	shifts := s.MyUpcomingShifts(monday)
	require.Len(t, shifts, UpcomingShiftsLimit)
	for i := 1; i < len(shifts); i++ {
		assert.False(t, shifts[i].ActualDate.Before(shifts[i-1].ActualDate), "shifts out of order")
	}
	for _, shift := range shifts {
		assert.False(t, shift.ActualDate.Before(monday))
		// Draft schedule 2 holds shift 21; it must never appear.
		assert.NotEqual(t, int64(21), shift.ID)
	}
}

func TestPendingReviewsSupervisorOnly(t *testing.T) {
	s := hydrated(t, seededRemote(), studentActor)

	_, err := s.PendingTimeOffReviews()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = s.SwapsAwaitingReview()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	sup := hydrated(t, seededRemote(), supervisorActor)
	pending, err := sup.PendingTimeOffReviews()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)
}

func TestDeleteScheduleDraftOnly(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, supervisorActor)

	err := s.DeleteSchedule(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "published schedules cannot be deleted")
	assert.Len(t, s.Schedules(), 2)

	require.NoError(t, s.DeleteSchedule(context.Background(), 2))
	schedules := s.Schedules()
	require.Len(t, schedules, 1)
	assert.Equal(t, int64(1), schedules[0].ID)
}

func TestPublishArchivesPreviousPublished(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, supervisorActor)

	published, err := s.PublishSchedule(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.SchedulePublished, published.Status)

	current := s.CurrentSchedule()
	require.NotNil(t, current)
	assert.Equal(t, int64(2), current.ID)

	for _, sched := range s.Schedules() {
		if sched.ID == 1 {
			assert.Equal(t, domain.ScheduleArchived, sched.Status)
		}
	}
}

func TestReviewTimeOffRejectedLocallyBeforeRemote(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, studentActor)

	_, err := s.ReviewTimeOffRequest(context.Background(), 1, true)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	sup := hydrated(t, remote, supervisorActor)
	callsBefore := len(remote.calls)
	_, err = sup.ReviewTimeOffRequest(context.Background(), 2, true)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "request 2 is already approved")
	assert.Equal(t, callsBefore, len(remote.calls), "illegal intents must not reach the server")

	_, err = sup.ReviewTimeOffRequest(context.Background(), 404, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRespondToSwapBindsTargetShiftOnAcceptOnly(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, studentActor)

	shiftID := int64(77)
	swap, err := s.RespondToSwap(context.Background(), 1, true, &shiftID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapAccepted, swap.Status)
	require.NotNil(t, swap.TargetShiftID)
	assert.Equal(t, shiftID, *swap.TargetShiftID)

	// Declining never carries a shift id, even when the caller passes one.
	remote2 := seededRemote()
	s2 := hydrated(t, remote2, studentActor)
	swap2, err := s2.RespondToSwap(context.Background(), 1, false, &shiftID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapDenied, swap2.Status)
	assert.Nil(t, swap2.TargetShiftID)
	assert.Contains(t, remote2.calls, "RespondToSwap(1,false,0)")
}

func TestGenerateScheduleValidatesLocally(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, supervisorActor)
	callsBefore := len(remote.calls)

	_, err := s.GenerateSchedule(context.Background(), monday.AddDate(0, 0, 1), "")
	assert.ErrorIs(t, err, domain.ErrValidation, "week start must be a Monday")
	assert.Equal(t, callsBefore, len(remote.calls))

	student := hydrated(t, seededRemote(), studentActor)
	_, err = student.GenerateSchedule(context.Background(), monday, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	result, err := s.GenerateSchedule(context.Background(), monday.AddDate(0, 0, 14), "fall week 3")
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleDraft, result.Schedule.Status)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.Monday, result.Warnings[0].Day)
}

func TestSaveAvailabilityEncodesMinimalSlots(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, studentActor)

	saved, err := s.SaveAvailability(context.Background(), interval.Grid{
		domain.Monday: {8, 9, 10, 13, 14},
	}, true)
	require.NoError(t, err)

	require.Len(t, saved, 2)
	assert.Equal(t, "08:00:00", saved[0].StartTime)
	assert.Equal(t, "11:00:00", saved[0].EndTime)
	assert.Equal(t, "13:00:00", saved[1].StartTime)
	assert.Equal(t, "15:00:00", saved[1].EndTime)
	assert.Equal(t, saved, s.Availability(studentActor.ID))
}

func TestMarkNotificationRead(t *testing.T) {
	remote := seededRemote()
	s := hydrated(t, remote, studentActor)

	_, err := s.MarkNotificationRead(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := s.MarkNotificationRead(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestMarkNotificationReadOwnerOnly(t *testing.T) {
	remote := seededRemote()
	remote.notifications = append(remote.notifications, domain.Notification{ID: 3, UserID: 20, Title: "not yours"})
	s := hydrated(t, remote, studentActor)

	_, err := s.MarkNotificationRead(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
