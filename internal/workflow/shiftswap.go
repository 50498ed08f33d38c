package workflow

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionCancel  Action = "cancel"
)

// ShiftSwap returns the two-phase swap workflow. The bound target answers the
// proposal (accept or decline), the requester may cancel an unanswered one,
// and a supervisor reviews an accepted swap. approved, denied and cancelled
// are terminal.
//
// Absorbing the target's shift id happens at acceptance and is the caller's
// job; the machine only moves status and records the reviewer.
func ShiftSwap() *Machine[domain.SwapStatus, domain.ShiftSwap] {
	m := NewMachine(
		"shift-swap",
		[]domain.SwapStatus{
			domain.SwapProposed, domain.SwapAccepted,
			domain.SwapApproved, domain.SwapDenied, domain.SwapCancelled,
		},
		func(s *domain.ShiftSwap) domain.SwapStatus { return s.Status },
		func(s *domain.ShiftSwap, st domain.SwapStatus) { s.Status = st },
	)
	m.OnReview(func(s *domain.ShiftSwap, reviewer int64) { s.ReviewedBy = &reviewer })

	target := BoundUser(func(s *domain.ShiftSwap) int64 { return s.TargetID })
	requester := BoundUser(func(s *domain.ShiftSwap) int64 { return s.RequesterID })

	m.Action(ActionAccept, target, false)
	m.Action(ActionDecline, target, false)
	m.Action(ActionCancel, requester, false)
	m.Action(ActionApprove, SupervisorOnly[domain.ShiftSwap], true)
	m.Action(ActionDeny, SupervisorOnly[domain.ShiftSwap], true)

	m.Permit(domain.SwapProposed, ActionAccept, domain.SwapAccepted)
	m.Permit(domain.SwapProposed, ActionDecline, domain.SwapDenied)
	m.Permit(domain.SwapProposed, ActionCancel, domain.SwapCancelled)
	m.Permit(domain.SwapAccepted, ActionApprove, domain.SwapApproved)
	m.Permit(domain.SwapAccepted, ActionDeny, domain.SwapDenied)

	return m
}
