package interval

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

// Grid is the transient editing representation of one user's weekly
// availability: for each work day, the set of selected hour cells. It exists
// only for the duration of an editing session and is rebuilt from slots on
// load.
type Grid map[domain.Weekday][]int

// GridFromSlots decodes stored availability slots into a grid. Days with no
// slots are absent from the result.
func GridFromSlots(slots []domain.AvailabilitySlot) (Grid, error) {
	byDay := make(map[domain.Weekday][]Range)
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
		start, err := domain.HourOf(slot.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := domain.HourOf(slot.EndTime)
		if err != nil {
			return nil, err
		}
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], Range{Start: start, End: end})
	}

	grid := make(Grid, len(byDay))
	for day, ranges := range byDay {
		hours, err := Decode(ranges)
		if err != nil {
			return nil, err
		}
		grid[day] = hours
	}
	return grid, nil
}

// SlotsFromGrid encodes a grid into the canonical merged slot list, ordered
// Monday through Friday. Days with empty cell sets emit no slots.
func SlotsFromGrid(userID int64, grid Grid, recurring bool) ([]domain.AvailabilitySlot, error) {
	var slots []domain.AvailabilitySlot
	for _, day := range domain.WorkWeek {
		ranges, err := Encode(grid[day])
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			slots = append(slots, domain.AvailabilitySlot{
				UserID:      userID,
				DayOfWeek:   day,
				StartTime:   domain.ClockTime(r.Start),
				EndTime:     domain.ClockTime(r.End),
				IsRecurring: recurring,
			})
		}
	}
	return slots, nil
}

// Normalize canonicalizes an arbitrary slot list: overlapping or adjacent
// slots for the same day collapse into maximal merged slots. Every save path
// runs through this so stored availability is always in minimal form.
func Normalize(userID int64, slots []domain.AvailabilitySlot, recurring bool) ([]domain.AvailabilitySlot, error) {
	grid, err := GridFromSlots(slots)
	if err != nil {
		return nil, err
	}
	return SlotsFromGrid(userID, grid, recurring)
}
