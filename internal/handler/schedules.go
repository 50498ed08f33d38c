package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/scheduler"
	"github.com/campus-oit/helpdesk-roster/internal/workflow"
)

func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	status := domain.ScheduleStatus(r.URL.Query().Get("status"))

	schedules, err := h.repository.GetSchedules(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedules fetched", schedules)
}

func (h *Handler) GetCurrentSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.repository.GetLatestPublishedSchedule()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "no published schedule", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule fetched", sched)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "schedule fetched", sched)
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		WeekStartDate string `json:"weekStartDate" validate:"required"`
		Notes         string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStartDate)
	if err != nil {
		h.badRequest(w, r, errors.New("malformed week start date"))
		return
	}

	locations, err := h.repository.GetActiveLocations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	students, err := h.repository.GetActiveStudents()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	availability := []domain.AvailabilitySlot{}
	for _, s := range students {
		slots, err := h.repository.GetAvailabilityByUser(s.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		availability = append(availability, slots...)
	}

	weekEnd := weekStart.AddDate(0, 0, len(domain.WorkWeek)-1)
	from := weekStart.Format("2006-01-02")
	to := weekEnd.Format("2006-01-02")

	timeOff, err := h.repository.GetApprovedTimeOffInRange(from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	holidays, err := h.repository.GetHolidaysInRange(from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, err := scheduler.Generate(scheduler.Input{
		WeekStart:    weekStart,
		Locations:    locations,
		Students:     students,
		Availability: availability,
		TimeOff:      timeOff,
		Holidays:     holidays,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	sched := &domain.Schedule{
		WeekStartDate: weekStart,
		Status:        domain.ScheduleDraft,
		GeneratedBy:   &actor.ID,
		Notes:         req.Notes,
	}
	if err := h.repository.CreateSchedule(sched); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	for i := range result.Shifts {
		result.Shifts[i].ScheduleID = sched.ID
		if err := h.repository.CreateShift(&result.Shifts[i]); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}
	sched.Shifts = result.Shifts

	h.successResponse(w, r, "schedule generated", struct {
		Schedule *domain.Schedule    `json:"schedule"`
		Warnings []scheduler.Warning `json:"warnings"`
	}{Schedule: sched, Warnings: result.Warnings})
}

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.scheduleFlow.Apply(sched, workflow.ActionPublish, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	// Only one schedule is live at a time.
	if err := h.repository.ArchivePublishedSchedules(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateScheduleStatus(sched); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "publish conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyScheduleUsers(sched, "Schedule published",
		fmt.Sprintf("The schedule for the week of %s has been published.", sched.WeekStartDate.Format("Jan 2")),
		"schedule_published")

	h.successResponse(w, r, "schedule published", sched)
}

func (h *Handler) ArchiveSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.scheduleFlow.Apply(sched, workflow.ActionArchive, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.UpdateScheduleStatus(sched); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "archive conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule archived", sched)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := workflow.AuthorizeScheduleDelete(sched, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.DeleteSchedule(sched.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule deleted", nil)
}

/**********************************************
 * Shift mutations, draft schedules only
 **********************************************/

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := workflow.AuthorizeShiftMutation(sched, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		UserID     int64  `json:"userID" validate:"required"`
		LocationID int64  `json:"locationID" validate:"required"`
		DayOfWeek  string `json:"dayOfWeek" validate:"required"`
		StartTime  string `json:"startTime" validate:"required"`
		EndTime    string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day := domain.Weekday(req.DayOfWeek)
	if !day.Valid() {
		h.errorResponse(w, r, "invalid day of week")
		return
	}

	shift := &domain.Shift{
		ScheduleID: sched.ID,
		UserID:     req.UserID,
		LocationID: req.LocationID,
		DayOfWeek:  day,
		StartTime:  normalizeClock(req.StartTime),
		EndTime:    normalizeClock(req.EndTime),
		ActualDate: sched.WeekStartDate.AddDate(0, 0, day.Offset()),
		Status:     domain.ShiftScheduled,
	}

	if err := domain.ValidateShiftDate(shift, sched.WeekStartDate); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift created", shift)
}

// normalizeClock tolerates "HH:MM" input by padding the seconds.
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shift, sched, ok := h.shiftWithSchedule(w, r)
	if !ok {
		return
	}

	if err := workflow.AuthorizeShiftMutation(sched, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		UserID *int64 `json:"userID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.UserID != nil {
		shift.UserID = *req.UserID
	}

	if err := h.repository.UpdateShiftAssignment(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift updated", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shift, sched, ok := h.shiftWithSchedule(w, r)
	if !ok {
		return
	}

	if err := workflow.AuthorizeShiftMutation(sched, actor); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift deleted", nil)
}

func (h *Handler) shiftWithSchedule(w http.ResponseWriter, r *http.Request) (*domain.Shift, *domain.Schedule, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid shift id")
		return nil, nil, false
	}

	shift, err := h.repository.GetShiftByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "shift not found")
		default:
			h.internalServerError(w, r, err)
		}
		return nil, nil, false
	}

	sched, err := h.repository.GetScheduleByID(shift.ScheduleID)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, nil, false
	}

	return shift, sched, true
}

// notifyScheduleUsers fans a notification out to every distinct user holding
// a shift on the schedule. Delivery failures are logged by notify and do not
// fail the request.
func (h *Handler) notifyScheduleUsers(sched *domain.Schedule, title, message, kind string) {
	seen := map[int64]bool{}
	for _, shift := range sched.Shifts {
		if seen[shift.UserID] {
			continue
		}
		seen[shift.UserID] = true
		h.notify(shift.UserID, title, message, kind, fmt.Sprintf("/schedules/%d", sched.ID))
	}
}
