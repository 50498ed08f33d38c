package store

import (
	"context"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

// ScheduleWarning is a soft complaint attached to a generated schedule, e.g.
// an understaffed hour at a location.
type ScheduleWarning struct {
	Day      domain.Weekday `json:"day"`
	Location string         `json:"location"`
	Message  string         `json:"message"`
}

// GenerateResult is what the opaque server-side generator returns: a draft
// schedule plus any warnings it produced along the way.
type GenerateResult struct {
	Schedule domain.Schedule   `json:"schedule"`
	Warnings []ScheduleWarning `json:"warnings"`
}

// Scope selects whose entities a fetch returns.
type Scope string

const (
	ScopeMine    Scope = "mine"
	ScopePending Scope = "pending"
	ScopeAll     Scope = "all"
)

// ScheduleFilter narrows a schedule fetch; the zero value fetches everything
// visible to the actor.
type ScheduleFilter struct {
	Status domain.ScheduleStatus
}

// Remote is the server the store talks to. Every call is a suspension point:
// the store issues one mutation at a time and merges only confirmed
// responses. Implementations categorize failures as domain.ErrRemoteFailure
// or domain.ErrNotFound; the store propagates them verbatim and never
// retries.
type Remote interface {
	FetchAvailability(ctx context.Context, ownerID int64) ([]domain.AvailabilitySlot, error)
	SaveAvailability(ctx context.Context, ownerID int64, slots []domain.AvailabilitySlot, recurring bool) ([]domain.AvailabilitySlot, error)

	FetchSchedules(ctx context.Context, filter ScheduleFilter) ([]domain.Schedule, error)
	GenerateSchedule(ctx context.Context, weekStart time.Time, notes string) (*GenerateResult, error)
	PublishSchedule(ctx context.Context, id int64) (*domain.Schedule, error)
	ArchiveSchedule(ctx context.Context, id int64) (*domain.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error

	FetchTimeOffRequests(ctx context.Context, scope Scope) ([]domain.TimeOffRequest, error)
	CreateTimeOffRequest(ctx context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error)
	ReviewTimeOffRequest(ctx context.Context, id int64, approve bool) (*domain.TimeOffRequest, error)

	FetchShiftSwaps(ctx context.Context, scope Scope) ([]domain.ShiftSwap, error)
	ProposeSwap(ctx context.Context, swap *domain.ShiftSwap) (*domain.ShiftSwap, error)
	RespondToSwap(ctx context.Context, id int64, accept bool, targetShiftID *int64) (*domain.ShiftSwap, error)
	CancelSwap(ctx context.Context, id int64) (*domain.ShiftSwap, error)
	ReviewSwap(ctx context.Context, id int64, approve bool) (*domain.ShiftSwap, error)

	FetchNotifications(ctx context.Context) ([]domain.Notification, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error
}
