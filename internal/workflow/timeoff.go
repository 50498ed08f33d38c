package workflow

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// TimeOff returns the review workflow for time-off requests: a pending
// request is approved or denied exactly once by a supervisor; both outcomes
// are terminal.
func TimeOff() *Machine[domain.TimeOffStatus, domain.TimeOffRequest] {
	m := NewMachine(
		"time-off",
		[]domain.TimeOffStatus{domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffDenied},
		func(r *domain.TimeOffRequest) domain.TimeOffStatus { return r.Status },
		func(r *domain.TimeOffRequest, s domain.TimeOffStatus) { r.Status = s },
	)
	m.OnReview(func(r *domain.TimeOffRequest, reviewer int64) { r.ReviewedBy = &reviewer })

	m.Action(ActionApprove, SupervisorOnly[domain.TimeOffRequest], true)
	m.Action(ActionDeny, SupervisorOnly[domain.TimeOffRequest], true)

	m.Permit(domain.TimeOffPending, ActionApprove, domain.TimeOffApproved)
	m.Permit(domain.TimeOffPending, ActionDeny, domain.TimeOffDenied)

	return m
}
