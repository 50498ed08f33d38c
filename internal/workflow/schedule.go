package workflow

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const (
	ActionPublish Action = "publish"
	ActionArchive Action = "archive"
)

// ScheduleLifecycle returns the draft -> published -> archived workflow.
// Both moves are supervisor actions; archived is terminal. Generating a new
// schedule for a week is never gated on existing schedules, so generation
// does not appear in the table.
func ScheduleLifecycle() *Machine[domain.ScheduleStatus, domain.Schedule] {
	m := NewMachine(
		"schedule",
		[]domain.ScheduleStatus{domain.ScheduleDraft, domain.SchedulePublished, domain.ScheduleArchived},
		func(s *domain.Schedule) domain.ScheduleStatus { return s.Status },
		func(s *domain.Schedule, st domain.ScheduleStatus) { s.Status = st },
	)

	m.Action(ActionPublish, SupervisorOnly[domain.Schedule], false)
	m.Action(ActionArchive, SupervisorOnly[domain.Schedule], false)

	m.Permit(domain.ScheduleDraft, ActionPublish, domain.SchedulePublished)
	m.Permit(domain.SchedulePublished, ActionArchive, domain.ScheduleArchived)

	return m
}

// AuthorizeScheduleDelete gates deletion: supervisors only, and only while
// the schedule is still a draft.
func AuthorizeScheduleDelete(s *domain.Schedule, actor domain.Actor) error {
	if !actor.IsSupervisor() {
		return domain.Unauthorizedf("deleting a schedule requires the supervisor role")
	}
	if s.Status != domain.ScheduleDraft {
		return domain.IllegalTransitionf("schedule %d is %s, only drafts can be deleted", s.ID, s.Status)
	}
	return nil
}

// AuthorizeShiftMutation gates add/update/delete of individual shifts, which
// is legal only while the parent schedule is in draft.
func AuthorizeShiftMutation(s *domain.Schedule, actor domain.Actor) error {
	if !actor.IsSupervisor() {
		return domain.Unauthorizedf("editing shifts requires the supervisor role")
	}
	if s.Status != domain.ScheduleDraft {
		return domain.IllegalTransitionf("schedule %d is %s, shifts can only change on drafts", s.ID, s.Status)
	}
	return nil
}
