package domain

import (
	"fmt"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// WorkWeek is the set of days the desk operates, in order.
var WorkWeek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Weekday) Valid() bool {
	for _, wd := range WorkWeek {
		if d == wd {
			return true
		}
	}
	return false
}

// Offset returns the day's distance from Monday (0..4), or -1 for a day
// outside the work week.
func (d Weekday) Offset() int {
	for i, wd := range WorkWeek {
		if d == wd {
			return i
		}
	}
	return -1
}

// AvailabilitySlot is one stored time range of a user's weekly availability.
// Slots for the same user and day are pairwise non-overlapping and maximally
// merged; the interval codec guarantees that on every save path.
type AvailabilitySlot struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userID"`
	DayOfWeek   Weekday `json:"dayOfWeek"`
	StartTime   string  `json:"startTime"` // "15:04:05"
	EndTime     string  `json:"endTime"`
	IsRecurring bool    `json:"isRecurring"`
}

func (s *AvailabilitySlot) Validate() error {
	if !s.DayOfWeek.Valid() {
		return Validationf("invalid day of week %q", s.DayOfWeek)
	}
	start, err := time.Parse("15:04:05", s.StartTime)
	if err != nil {
		return Validationf("malformed start time %q", s.StartTime)
	}
	end, err := time.Parse("15:04:05", s.EndTime)
	if err != nil {
		return Validationf("malformed end time %q", s.EndTime)
	}
	if !start.Before(end) {
		return Validationf("start time %s is not before end time %s", s.StartTime, s.EndTime)
	}
	return nil
}

// ClockTime renders an hour as the "HH:00:00" wire format used for slot and
// shift boundaries.
func ClockTime(hour int) string {
	return fmt.Sprintf("%02d:00:00", hour)
}

// HourOf parses the hour component of a "HH:MM:SS" time string.
func HourOf(clock string) (int, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return 0, Validationf("malformed time %q", clock)
	}
	return t.Hour(), nil
}
