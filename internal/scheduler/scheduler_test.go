package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func student(id int64, maxHours float64) *domain.User {
	return &domain.User{
		ID:              id,
		Role:            domain.RoleStudent,
		MaxHoursPerWeek: maxHours,
		IsActive:        true,
	}
}

func slot(userID int64, day domain.Weekday, startHour, endHour int) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{
		UserID:    userID,
		DayOfWeek: day,
		StartTime: domain.ClockTime(startHour),
		EndTime:   domain.ClockTime(endHour),
	}
}

func warningsOn(result *Result, day domain.Weekday) []Warning {
	out := []Warning{}
	for _, w := range result.Warnings {
		if w.Day == day {
			out = append(out, w)
		}
	}
	return out
}

func TestGenerateRejectsNonMonday(t *testing.T) {
	_, err := Generate(Input{WeekStart: monday.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateAssignsIdealBlock(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 1, MaxStaff: 1, Priority: 10, IsActive: true},
		},
		Students: []*domain.User{student(7, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(7, domain.Monday, 8, 12),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)

	shift := result.Shifts[0]
	assert.Equal(t, int64(7), shift.UserID)
	assert.Equal(t, int64(1), shift.LocationID)
	assert.Equal(t, domain.Monday, shift.DayOfWeek)
	assert.Equal(t, "08:00:00", shift.StartTime)
	assert.Equal(t, "12:00:00", shift.EndTime)
	assert.True(t, shift.ActualDate.Equal(monday))
	assert.Equal(t, domain.ShiftScheduled, shift.Status)
}

func TestGenerateClampsLongRuns(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 0, MaxStaff: 1, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(3, 40)},
		Availability: []domain.AvailabilitySlot{
			slot(3, domain.Tuesday, 8, 18),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, "08:00:00", result.Shifts[0].StartTime)
	assert.Equal(t, "13:00:00", result.Shifts[0].EndTime)
}

func TestGenerateRespectsWeeklyHourCap(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 0, MaxStaff: 1, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(3, 2)},
		Availability: []domain.AvailabilitySlot{
			slot(3, domain.Monday, 8, 18),
			slot(3, domain.Tuesday, 8, 18),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, "08:00:00", result.Shifts[0].StartTime)
	assert.Equal(t, "10:00:00", result.Shifts[0].EndTime)
}

func TestGenerateSkipsHolidays(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 0, MaxStaff: 1, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(3, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(3, domain.Monday, 8, 12),
			slot(3, domain.Tuesday, 8, 12),
		},
		Holidays: []*domain.Holiday{
			{Name: "Founders Day", Date: monday, IsClosed: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, domain.Tuesday, result.Shifts[0].DayOfWeek)
}

func TestGenerateSkipsApprovedTimeOff(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 1, MaxStaff: 1, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(3, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(3, domain.Monday, 8, 12),
		},
		TimeOff: []*domain.TimeOffRequest{
			{UserID: 3, Status: domain.TimeOffApproved, StartDate: monday, EndDate: monday},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Shifts)
	mondayWarnings := warningsOn(result, domain.Monday)
	require.Len(t, mondayWarnings, 1)
	assert.Equal(t, "Front Desk", mondayWarnings[0].Location)
}

func TestGenerateSpreadsLoadAcrossStudents(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 2, MaxStaff: 2, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(1, 20), student(2, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(1, domain.Monday, 8, 12),
			slot(2, domain.Monday, 8, 12),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 2)
	assert.NotEqual(t, result.Shifts[0].UserID, result.Shifts[1].UserID)
	assert.Empty(t, warningsOn(result, domain.Monday))
}

func TestGenerateWarnsWhenUnderstaffed(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 2, MaxStaff: 3, Priority: 1, IsActive: true},
		},
		Students: []*domain.User{student(1, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(1, domain.Monday, 8, 12),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)
	mondayWarnings := warningsOn(result, domain.Monday)
	require.Len(t, mondayWarnings, 1)
	assert.Contains(t, mondayWarnings[0].Message, "need 2, filled 1")
}

func TestGenerateFillsHighPriorityLocationFirst(t *testing.T) {
	result, err := Generate(Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Annex", MinStaff: 1, MaxStaff: 1, Priority: 1, IsActive: true},
			{ID: 2, Name: "Front Desk", MinStaff: 1, MaxStaff: 1, Priority: 10, IsActive: true},
		},
		Students: []*domain.User{student(1, 20)},
		Availability: []domain.AvailabilitySlot{
			slot(1, domain.Monday, 8, 12),
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, int64(2), result.Shifts[0].LocationID)

	mondayWarnings := warningsOn(result, domain.Monday)
	require.Len(t, mondayWarnings, 1)
	assert.Equal(t, "Annex", mondayWarnings[0].Location)
}

func TestGenerateDeterministic(t *testing.T) {
	in := Input{
		WeekStart: monday,
		Locations: []*domain.Location{
			{ID: 1, Name: "Front Desk", MinStaff: 1, MaxStaff: 2, Priority: 5, IsActive: true},
			{ID: 2, Name: "Annex", MinStaff: 1, MaxStaff: 1, Priority: 3, IsActive: true},
		},
		Students: []*domain.User{student(1, 20), student(2, 20), student(3, 10)},
		Availability: []domain.AvailabilitySlot{
			slot(1, domain.Monday, 8, 13),
			slot(1, domain.Wednesday, 9, 14),
			slot(2, domain.Monday, 10, 15),
			slot(2, domain.Thursday, 8, 11),
			slot(3, domain.Monday, 8, 18),
		},
	}

	first, err := Generate(in)
	require.NoError(t, err)
	second, err := Generate(in)
	require.NoError(t, err)

	assert.Equal(t, first.Shifts, second.Shifts)
	assert.Equal(t, first.Warnings, second.Warnings)
}
