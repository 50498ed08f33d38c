package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func TestGridSlotRoundTrip(t *testing.T) {
	grid := Grid{
		domain.Monday:    {8, 9, 10, 13, 14},
		domain.Wednesday: {12},
	}

	slots, err := SlotsFromGrid(42, grid, true)
	require.NoError(t, err)

	want := []domain.AvailabilitySlot{
		{UserID: 42, DayOfWeek: domain.Monday, StartTime: "08:00:00", EndTime: "11:00:00", IsRecurring: true},
		{UserID: 42, DayOfWeek: domain.Monday, StartTime: "13:00:00", EndTime: "15:00:00", IsRecurring: true},
		{UserID: 42, DayOfWeek: domain.Wednesday, StartTime: "12:00:00", EndTime: "13:00:00", IsRecurring: true},
	}
	assert.Equal(t, want, slots)

	back, err := GridFromSlots(slots)
	require.NoError(t, err)
	assert.Equal(t, grid, back)
}

func TestSlotsFromGridSkipsEmptyDays(t *testing.T) {
	slots, err := SlotsFromGrid(1, Grid{domain.Friday: nil}, true)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestNormalizeMergesAdjacentSlots(t *testing.T) {
	messy := []domain.AvailabilitySlot{
		{UserID: 7, DayOfWeek: domain.Tuesday, StartTime: "08:00:00", EndTime: "10:00:00"},
		{UserID: 7, DayOfWeek: domain.Tuesday, StartTime: "10:00:00", EndTime: "12:00:00"},
		{UserID: 7, DayOfWeek: domain.Tuesday, StartTime: "09:00:00", EndTime: "11:00:00"},
	}

	clean, err := Normalize(7, messy, true)
	require.NoError(t, err)
	require.Len(t, clean, 1)
	assert.Equal(t, "08:00:00", clean[0].StartTime)
	assert.Equal(t, "12:00:00", clean[0].EndTime)
}

func TestGridFromSlotsRejectsInvalidSlot(t *testing.T) {
	_, err := GridFromSlots([]domain.AvailabilitySlot{
		{UserID: 1, DayOfWeek: domain.Monday, StartTime: "11:00:00", EndTime: "09:00:00"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = GridFromSlots([]domain.AvailabilitySlot{
		{UserID: 1, DayOfWeek: "Saturday", StartTime: "09:00:00", EndTime: "11:00:00"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
