package domain

import "time"

type SwapStatus string

const (
	SwapProposed  SwapStatus = "proposed"
	SwapAccepted  SwapStatus = "accepted"
	SwapApproved  SwapStatus = "approved"
	SwapDenied    SwapStatus = "denied"
	SwapCancelled SwapStatus = "cancelled"
)

// ShiftSwap is a two-phase exchange: the bound target accepts or declines the
// proposal, then a supervisor approves or denies the accepted swap. Requester
// and target identities are fixed at creation; the target's shift is absorbed
// only at acceptance.
type ShiftSwap struct {
	ID               int64      `json:"id"`
	RequesterID      int64      `json:"requesterID"`
	TargetID         int64      `json:"targetID"`
	RequesterShiftID int64      `json:"requesterShiftID"`
	TargetShiftID    *int64     `json:"targetShiftID"`
	Reason           string     `json:"reason"`
	Status           SwapStatus `json:"status"`
	ReviewedBy       *int64     `json:"reviewedBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	Version          int32      `json:"-"`
}

func (s *ShiftSwap) Validate() error {
	if s.RequesterID == s.TargetID {
		return Validationf("cannot propose a swap with yourself")
	}
	if s.RequesterShiftID == 0 {
		return Validationf("requester shift is required")
	}
	return nil
}
