package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

var (
	student    = domain.Actor{ID: 10, Role: domain.RoleStudent}
	supervisor = domain.Actor{ID: 99, Role: domain.RoleSupervisor}
)

// Every declared status must either be terminal or have at least one outgoing
// entry, and every transition target must be a declared status. This is the
// exhaustiveness check that keeps an unhandled status value from ever
// reaching callers.
func TestTransitionTablesAreClosed(t *testing.T) {
	t.Run("time-off", func(t *testing.T) {
		checkClosed(t, TimeOff(),
			map[domain.TimeOffStatus]bool{domain.TimeOffApproved: true, domain.TimeOffDenied: true})
	})
	t.Run("shift-swap", func(t *testing.T) {
		checkClosed(t, ShiftSwap(),
			map[domain.SwapStatus]bool{domain.SwapApproved: true, domain.SwapDenied: true, domain.SwapCancelled: true})
	})
	t.Run("schedule", func(t *testing.T) {
		checkClosed(t, ScheduleLifecycle(),
			map[domain.ScheduleStatus]bool{domain.ScheduleArchived: true})
	})
}

func checkClosed[S Status, E any](t *testing.T, m *Machine[S, E], wantTerminal map[S]bool) {
	t.Helper()
	for _, s := range m.Statuses() {
		assert.Equal(t, wantTerminal[s], m.Terminal(s), "status %q", s)
	}
}

func TestMachineRejectsUnknownAction(t *testing.T) {
	req := &domain.TimeOffRequest{UserID: 10, Status: domain.TimeOffPending}
	err := TimeOff().Apply(req, Action("escalate"), supervisor)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.TimeOffPending, req.Status)
}

func TestApplyOnTerminalStatusFails(t *testing.T) {
	t.Run("time-off", func(t *testing.T) {
		m := TimeOff()
		for _, status := range []domain.TimeOffStatus{domain.TimeOffApproved, domain.TimeOffDenied} {
			req := &domain.TimeOffRequest{UserID: 10, Status: status}
			err := m.Apply(req, ActionApprove, supervisor)
			assert.ErrorIs(t, err, domain.ErrIllegalTransition, "from %q", status)
		}
	})

	t.Run("shift-swap", func(t *testing.T) {
		m := ShiftSwap()
		for _, status := range []domain.SwapStatus{domain.SwapApproved, domain.SwapDenied, domain.SwapCancelled} {
			swap := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: status}
			err := m.Apply(swap, ActionApprove, supervisor)
			assert.ErrorIs(t, err, domain.ErrIllegalTransition, "from %q", status)
		}
	})
}

func TestTimeOffDenyThenApprove(t *testing.T) {
	m := TimeOff()
	req := &domain.TimeOffRequest{UserID: 10, Status: domain.TimeOffPending}

	require.NoError(t, m.Apply(req, ActionDeny, supervisor))
	assert.Equal(t, domain.TimeOffDenied, req.Status)
	require.NotNil(t, req.ReviewedBy)
	assert.Equal(t, supervisor.ID, *req.ReviewedBy)

	// A denied request is immutable; no re-review.
	err := m.Apply(req, ActionApprove, supervisor)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.TimeOffDenied, req.Status)
}

func TestTimeOffReviewRequiresSupervisor(t *testing.T) {
	m := TimeOff()
	req := &domain.TimeOffRequest{UserID: 10, Status: domain.TimeOffPending}

	err := m.Apply(req, ActionApprove, student)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.TimeOffPending, req.Status)
	assert.Nil(t, req.ReviewedBy)
}

func TestSwapAcceptByNonTargetIsUnauthorized(t *testing.T) {
	m := ShiftSwap()

	// Regardless of current status, including ones where accept would be
	// illegal anyway.
	for _, status := range []domain.SwapStatus{
		domain.SwapProposed, domain.SwapAccepted,
		domain.SwapApproved, domain.SwapDenied, domain.SwapCancelled,
	} {
		swap := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: status}
		err := m.Apply(swap, ActionAccept, domain.Actor{ID: 30, Role: domain.RoleStudent})
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "from %q", status)
		assert.Equal(t, status, swap.Status)
	}
}

func TestSwapHappyPath(t *testing.T) {
	m := ShiftSwap()
	swap := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: domain.SwapProposed}
	target := domain.Actor{ID: 20, Role: domain.RoleStudent}

	require.True(t, m.CanApply(swap, ActionAccept, target))
	require.NoError(t, m.Apply(swap, ActionAccept, target))
	assert.Equal(t, domain.SwapAccepted, swap.Status)
	assert.Nil(t, swap.ReviewedBy, "accept is not a review")

	require.NoError(t, m.Apply(swap, ActionApprove, supervisor))
	assert.Equal(t, domain.SwapApproved, swap.Status)
	require.NotNil(t, swap.ReviewedBy)
	assert.Equal(t, supervisor.ID, *swap.ReviewedBy)
}

func TestSwapCancelOnlyByRequesterAndOnlyWhileProposed(t *testing.T) {
	m := ShiftSwap()

	swap := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: domain.SwapProposed}
	err := m.Apply(swap, ActionCancel, domain.Actor{ID: 20, Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, m.Apply(swap, ActionCancel, domain.Actor{ID: 10, Role: domain.RoleStudent}))
	assert.Equal(t, domain.SwapCancelled, swap.Status)

	accepted := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: domain.SwapAccepted}
	err = m.Apply(accepted, ActionCancel, domain.Actor{ID: 10, Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestSwapTargetCannotReview(t *testing.T) {
	m := ShiftSwap()
	swap := &domain.ShiftSwap{RequesterID: 10, TargetID: 20, Status: domain.SwapAccepted}

	err := m.Apply(swap, ActionApprove, domain.Actor{ID: 20, Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestScheduleLifecycle(t *testing.T) {
	m := ScheduleLifecycle()
	sched := &domain.Schedule{ID: 1, Status: domain.ScheduleDraft}

	assert.False(t, m.CanApply(sched, ActionArchive, supervisor), "cannot archive a draft")
	require.NoError(t, m.Apply(sched, ActionPublish, supervisor))
	assert.Equal(t, domain.SchedulePublished, sched.Status)

	err := m.Apply(sched, ActionPublish, supervisor)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "cannot publish twice")

	require.NoError(t, m.Apply(sched, ActionArchive, supervisor))
	assert.Equal(t, domain.ScheduleArchived, sched.Status)
	assert.True(t, m.Terminal(sched.Status))
}

func TestSchedulePublishRequiresSupervisor(t *testing.T) {
	sched := &domain.Schedule{ID: 1, Status: domain.ScheduleDraft}
	err := ScheduleLifecycle().Apply(sched, ActionPublish, student)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.ScheduleDraft, sched.Status)
}

func TestAuthorizeScheduleDelete(t *testing.T) {
	draft := &domain.Schedule{ID: 1, Status: domain.ScheduleDraft}
	assert.NoError(t, AuthorizeScheduleDelete(draft, supervisor))
	assert.ErrorIs(t, AuthorizeScheduleDelete(draft, student), domain.ErrUnauthorized)

	published := &domain.Schedule{ID: 2, Status: domain.SchedulePublished}
	assert.ErrorIs(t, AuthorizeScheduleDelete(published, supervisor), domain.ErrIllegalTransition)

	archived := &domain.Schedule{ID: 3, Status: domain.ScheduleArchived}
	assert.ErrorIs(t, AuthorizeScheduleDelete(archived, supervisor), domain.ErrIllegalTransition)
}

func TestAuthorizeShiftMutation(t *testing.T) {
	draft := &domain.Schedule{ID: 1, Status: domain.ScheduleDraft}
	assert.NoError(t, AuthorizeShiftMutation(draft, supervisor))

	published := &domain.Schedule{ID: 2, Status: domain.SchedulePublished}
	assert.ErrorIs(t, AuthorizeShiftMutation(published, supervisor), domain.ErrIllegalTransition)
	assert.ErrorIs(t, AuthorizeShiftMutation(draft, student), domain.ErrUnauthorized)
}
