package domain

import "time"

type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
	ScheduleArchived  ScheduleStatus = "archived"
)

type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftCompleted ShiftStatus = "completed"
	ShiftMissed    ShiftStatus = "missed"
	ShiftSwapped   ShiftStatus = "swapped"
)

type Schedule struct {
	ID            int64          `json:"id"`
	WeekStartDate time.Time      `json:"weekStartDate"` // always a Monday
	Status        ScheduleStatus `json:"status"`
	GeneratedBy   *int64         `json:"generatedBy"`
	Notes         string         `json:"notes"`
	Shifts        []Shift        `json:"shifts"`
	CreatedAt     time.Time      `json:"createdAt"`
	Version       int32          `json:"-"`
}

type Shift struct {
	ID         int64       `json:"id"`
	ScheduleID int64       `json:"scheduleID"`
	UserID     int64       `json:"userID"`
	LocationID int64       `json:"locationID"`
	DayOfWeek  Weekday     `json:"dayOfWeek"`
	StartTime  string      `json:"startTime"`
	EndTime    string      `json:"endTime"`
	ActualDate time.Time   `json:"actualDate"`
	Status     ShiftStatus `json:"status"`
}

// ValidateWeekStart rejects week starts that do not fall on a Monday.
func ValidateWeekStart(weekStart time.Time) error {
	if weekStart.Weekday() != time.Monday {
		return Validationf("week start %s is not a Monday", weekStart.Format("2006-01-02"))
	}
	return nil
}

// ValidateShiftDate checks that a shift's actual date lies inside its parent
// schedule's week and agrees with the declared day of week.
func ValidateShiftDate(shift *Shift, weekStart time.Time) error {
	offset := shift.DayOfWeek.Offset()
	if offset < 0 {
		return Validationf("invalid day of week %q", shift.DayOfWeek)
	}
	want := weekStart.AddDate(0, 0, offset)
	if !shift.ActualDate.Equal(want) {
		return Validationf("shift date %s does not match %s of week %s",
			shift.ActualDate.Format("2006-01-02"), shift.DayOfWeek, weekStart.Format("2006-01-02"))
	}
	return nil
}
