package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/workflow"
)

func (h *Handler) GetTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "mine"
	}

	var reqs []*domain.TimeOffRequest
	switch scope {
	case "mine":
		reqs, err = h.repository.GetTimeOffRequestsByUser(actor.ID)
	case "pending":
		if !actor.IsSupervisor() {
			h.errorResponse(w, r, "insufficient permissions")
			return
		}
		reqs, err = h.repository.GetPendingTimeOffRequests()
	case "all":
		if !actor.IsSupervisor() {
			h.errorResponse(w, r, "insufficient permissions")
			return
		}
		reqs, err = h.repository.GetAllTimeOffRequests()
	default:
		h.errorResponse(w, r, "invalid scope")
		return
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "time-off requests fetched", reqs)
}

func (h *Handler) CreateTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		Type      string `json:"type" validate:"required,oneof=time_off sick_day"`
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Reason    string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.badRequest(w, r, errors.New("malformed start date"))
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.badRequest(w, r, errors.New("malformed end date"))
		return
	}

	request := &domain.TimeOffRequest{
		UserID:    actor.ID,
		Type:      domain.TimeOffType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    domain.TimeOffPending,
	}

	if err := request.Validate(); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateTimeOffRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifySupervisors("New time-off request",
		fmt.Sprintf("A time-off request for %s to %s is awaiting review.",
			startDate.Format("Jan 2"), endDate.Format("Jan 2")),
		"time_off_requested", fmt.Sprintf("/time-off/%d", request.ID))

	h.successResponse(w, r, "time-off request created", request)
}

func (h *Handler) ReviewTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	request := r.Context().Value(TimeOffCtx).(*domain.TimeOffRequest)

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

	if err := h.timeOffFlow.Apply(request, action, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeOffRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "review conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notify(request.UserID, "Time-off request reviewed",
		fmt.Sprintf("Your time-off request was %s.", request.Status),
		"time_off_reviewed", fmt.Sprintf("/time-off/%d", request.ID))

	h.successResponse(w, r, "time-off request reviewed", request)
}

// notifySupervisors fans a notification out to every active supervisor.
func (h *Handler) notifySupervisors(title, message, kind, link string) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		slog.Error("failed to load supervisors for notification", "error", err)
		return
	}
	for _, u := range users {
		if u.Role == domain.RoleSupervisor && u.IsActive {
			h.notify(u.ID, title, message, kind, link)
		}
	}
}
