package domain

import "time"

type TimeOffType string

const (
	TimeOffVacation TimeOffType = "time_off"
	TimeOffSickDay  TimeOffType = "sick_day"
)

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest is created by its owning user and reviewed exactly once by a
// supervisor; a non-pending request is immutable.
type TimeOffRequest struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"userID"`
	Type       TimeOffType   `json:"type"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	Reason     string        `json:"reason"`
	Status     TimeOffStatus `json:"status"`
	ReviewedBy *int64        `json:"reviewedBy"`
	CreatedAt  time.Time     `json:"createdAt"`
	Version    int32         `json:"-"`
}

func (r *TimeOffRequest) Validate() error {
	if r.Type != TimeOffVacation && r.Type != TimeOffSickDay {
		return Validationf("invalid request type %q", r.Type)
	}
	if r.EndDate.Before(r.StartDate) {
		return Validationf("end date %s is before start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	return nil
}
