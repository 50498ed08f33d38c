package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/workflow"
)

func (h *Handler) GetShiftSwaps(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "mine"
	}

	var swaps []*domain.ShiftSwap
	switch scope {
	case "mine":
		swaps, err = h.repository.GetShiftSwapsByUser(actor.ID)
	case "pending":
		if !actor.IsSupervisor() {
			h.errorResponse(w, r, "insufficient permissions")
			return
		}
		swaps, err = h.repository.GetShiftSwapsByStatus(domain.SwapAccepted)
	case "all":
		if !actor.IsSupervisor() {
			h.errorResponse(w, r, "insufficient permissions")
			return
		}
		swaps, err = h.repository.GetAllShiftSwaps()
	default:
		h.errorResponse(w, r, "invalid scope")
		return
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift swaps fetched", swaps)
}

func (h *Handler) ProposeShiftSwap(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		TargetID         int64  `json:"targetID" validate:"required"`
		RequesterShiftID int64  `json:"requesterShiftID" validate:"required"`
		Reason           string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.repository.GetShiftByID(req.RequesterShiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "shift not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if shift.UserID != actor.ID {
		h.errorResponse(w, r, "you can only offer your own shift")
		return
	}

	swap := &domain.ShiftSwap{
		RequesterID:      actor.ID,
		TargetID:         req.TargetID,
		RequesterShiftID: req.RequesterShiftID,
		Reason:           req.Reason,
		Status:           domain.SwapProposed,
	}

	if err := swap.Validate(); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateShiftSwap(swap); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notify(swap.TargetID, "Shift swap proposed",
		"A colleague has proposed a shift swap with you.",
		"swap_proposed", fmt.Sprintf("/shift-swaps/%d", swap.ID))

	h.successResponse(w, r, "shift swap proposed", swap)
}

func (h *Handler) RespondToShiftSwap(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	swap := r.Context().Value(ShiftSwapCtx).(*domain.ShiftSwap)

	var req struct {
		Accept        *bool  `json:"accept" validate:"required"`
		TargetShiftID *int64 `json:"targetShiftID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	action := workflow.ActionDecline
	if *req.Accept {
		action = workflow.ActionAccept
	}

	// The target's shift is absorbed only when accepting; a one-sided
	// giveaway is an accept with no shift offered in return.
	if *req.Accept && req.TargetShiftID != nil {
		targetShift, err := h.repository.GetShiftByID(*req.TargetShiftID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "shift not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if targetShift.UserID != actor.ID {
			h.errorResponse(w, r, "you can only offer your own shift")
			return
		}
	}

	if err := h.swapFlow.Apply(swap, action, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if *req.Accept {
		swap.TargetShiftID = req.TargetShiftID
	} else {
		swap.TargetShiftID = nil
	}

	if err := h.repository.UpdateShiftSwap(swap); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "response conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	outcome := "declined"
	if *req.Accept {
		outcome = "accepted, awaiting supervisor review"
	}
	h.notify(swap.RequesterID, "Shift swap answered",
		fmt.Sprintf("Your shift swap proposal was %s.", outcome),
		"swap_answered", fmt.Sprintf("/shift-swaps/%d", swap.ID))

	h.successResponse(w, r, "shift swap answered", swap)
}

func (h *Handler) CancelShiftSwap(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	swap := r.Context().Value(ShiftSwapCtx).(*domain.ShiftSwap)

	if err := h.swapFlow.Apply(swap, workflow.ActionCancel, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftSwap(swap); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "cancel conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notify(swap.TargetID, "Shift swap cancelled",
		"A shift swap proposed to you was withdrawn.",
		"swap_cancelled", fmt.Sprintf("/shift-swaps/%d", swap.ID))

	h.successResponse(w, r, "shift swap cancelled", swap)
}

func (h *Handler) ReviewShiftSwap(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	swap := r.Context().Value(ShiftSwapCtx).(*domain.ShiftSwap)

	var req struct {
		Approve *bool `json:"approve" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	action := workflow.ActionDeny
	if *req.Approve {
		action = workflow.ActionApprove
	}

	if err := h.swapFlow.Apply(swap, action, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftSwap(swap); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "review conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// Approval takes effect on the roster itself.
	if *req.Approve {
		if err := h.repository.SwapShiftUsers(swap.RequesterShiftID, swap.TargetShiftID, swap.TargetID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	for _, userID := range []int64{swap.RequesterID, swap.TargetID} {
		h.notify(userID, "Shift swap reviewed",
			fmt.Sprintf("The shift swap was %s.", swap.Status),
			"swap_reviewed", fmt.Sprintf("/shift-swaps/%d", swap.ID))
	}

	h.successResponse(w, r, "shift swap reviewed", swap)
}
