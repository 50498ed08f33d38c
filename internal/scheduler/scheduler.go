// Package scheduler builds weekly draft rosters with a scored greedy
// algorithm: locations are filled in priority order, candidates are ranked by
// fairness, day spreading, block length and location continuity, and every
// understaffed location/day pair yields a warning instead of an error.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/interval"
)

const (
	// Shift blocks are contiguous runs of whole hours inside the working day.
	minBlockHours   = 2
	maxBlockHours   = 5
	idealBlockMin   = 3
	idealBlockMax   = 4
	defaultMaxHours = 20
)

// Warning flags a location/day the generator could not staff to its minimum.
type Warning struct {
	Day      domain.Weekday `json:"day"`
	Location string         `json:"location"`
	Message  string         `json:"message"`
}

// Input is everything the generator needs, gathered up front so the algorithm
// itself touches no storage.
type Input struct {
	WeekStart    time.Time
	Locations    []*domain.Location // active locations
	Students     []*domain.User     // active students
	Availability []domain.AvailabilitySlot
	TimeOff      []*domain.TimeOffRequest // approved requests overlapping the week
	Holidays     []*domain.Holiday
}

// Result is the proposed roster. Shifts carry no IDs; the caller persists them
// under a freshly created draft schedule.
type Result struct {
	Shifts   []domain.Shift
	Warnings []Warning
}

type studentState struct {
	user          *domain.User
	maxHours      float64
	assignedHours float64
	hoursByDay    map[domain.Weekday]float64
	lastLocation  map[domain.Weekday]int64
	avail         map[domain.Weekday]map[int]bool
}

// Generate produces a week's worth of shifts from the given inputs. It is
// deterministic: equal inputs yield the same roster.
func Generate(in Input) (*Result, error) {
	if err := domain.ValidateWeekStart(in.WeekStart); err != nil {
		return nil, err
	}

	closed := closedDates(in.Holidays, in.WeekStart)
	timeOff := timeOffDates(in.TimeOff, in.WeekStart)

	states := make(map[int64]*studentState, len(in.Students))
	order := make([]int64, 0, len(in.Students))
	for _, s := range in.Students {
		maxHours := s.MaxHoursPerWeek
		if maxHours <= 0 {
			maxHours = defaultMaxHours
		}
		states[s.ID] = &studentState{
			user:         s,
			maxHours:     maxHours,
			hoursByDay:   map[domain.Weekday]float64{},
			lastLocation: map[domain.Weekday]int64{},
			avail:        availabilityByDay(in.Availability, s.ID),
		}
		order = append(order, s.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	locations := make([]*domain.Location, len(in.Locations))
	copy(locations, in.Locations)
	sort.SliceStable(locations, func(i, j int) bool {
		if locations[i].Priority != locations[j].Priority {
			return locations[i].Priority > locations[j].Priority
		}
		return locations[i].Name < locations[j].Name
	})

	result := &Result{Shifts: []domain.Shift{}, Warnings: []Warning{}}

	for dayIdx, day := range domain.WorkWeek {
		actual := in.WeekStart.AddDate(0, 0, dayIdx)
		if closed[dateKey(actual)] {
			continue
		}

		for _, loc := range locations {
			shifts, warn := fillLocationDay(loc, day, actual, order, states, timeOff)
			result.Shifts = append(result.Shifts, shifts...)
			if warn != nil {
				result.Warnings = append(result.Warnings, *warn)
			}
		}
	}

	return result, nil
}

// fillLocationDay assigns up to max_staff shifts at one location on one day
// and reports a warning when it falls short of min_staff.
func fillLocationDay(
	loc *domain.Location,
	day domain.Weekday,
	actual time.Time,
	order []int64,
	states map[int64]*studentState,
	timeOff map[int64]map[string]bool,
) ([]domain.Shift, *Warning) {
	shifts := []domain.Shift{}

	for slot := int32(0); slot < loc.MaxStaff; slot++ {
		var (
			bestID    int64
			bestBlock interval.Range
			bestScore float64
			found     bool
		)

		for _, uid := range order {
			st := states[uid]
			if timeOff[uid][dateKey(actual)] {
				continue
			}
			hours := st.avail[day]
			if len(hours) == 0 {
				continue
			}

			block, ok := bestBlockFor(hours)
			if !ok {
				continue
			}
			remaining := st.maxHours - st.assignedHours
			if float64(block.End-block.Start) > remaining {
				block.End = block.Start + int(remaining)
			}
			if block.End-block.Start < 1 {
				continue
			}

			score := scoreAssignment(st, block.End-block.Start, day, loc.ID)
			if !found || score > bestScore {
				found = true
				bestID = uid
				bestBlock = block
				bestScore = score
			}
		}

		if !found {
			if slot < loc.MinStaff {
				return shifts, &Warning{
					Day:      day,
					Location: loc.Name,
					Message:  fmt.Sprintf("could not fill minimum staffing (need %d, filled %d)", loc.MinStaff, slot),
				}
			}
			return shifts, nil
		}

		blockLen := bestBlock.End - bestBlock.Start
		shifts = append(shifts, domain.Shift{
			UserID:     bestID,
			LocationID: loc.ID,
			DayOfWeek:  day,
			StartTime:  domain.ClockTime(bestBlock.Start),
			EndTime:    domain.ClockTime(bestBlock.End),
			ActualDate: actual,
			Status:     domain.ShiftScheduled,
		})

		st := states[bestID]
		st.assignedHours += float64(blockLen)
		st.hoursByDay[day] += float64(blockLen)
		st.lastLocation[day] = loc.ID
		for h := bestBlock.Start; h < bestBlock.End; h++ {
			delete(st.avail[day], h)
		}
	}

	return shifts, nil
}

// bestBlockFor picks the most useful contiguous run of hours: 3-4 hour blocks
// beat everything, runs longer than five hours are clamped, and a lone hour is
// taken only when nothing else exists.
func bestBlockFor(hours map[int]bool) (interval.Range, bool) {
	sorted := make([]int, 0, len(hours))
	for h := range hours {
		sorted = append(sorted, h)
	}
	if len(sorted) == 0 {
		return interval.Range{}, false
	}
	sort.Ints(sorted)

	runs := []interval.Range{}
	runStart, prev := sorted[0], sorted[0]
	for _, h := range sorted[1:] {
		if h == prev+1 {
			prev = h
			continue
		}
		runs = append(runs, interval.Range{Start: runStart, End: prev + 1})
		runStart, prev = h, h
	}
	runs = append(runs, interval.Range{Start: runStart, End: prev + 1})

	var best interval.Range
	bestLen := 0
	for _, run := range runs {
		length := run.End - run.Start
		if length < minBlockHours {
			if bestLen == 0 {
				best = run
				bestLen = length
			}
			continue
		}
		if length > maxBlockHours {
			length = maxBlockHours
			run.End = run.Start + maxBlockHours
		}
		switch {
		case length >= idealBlockMin && length <= idealBlockMax:
			if bestLen < idealBlockMin {
				best = run
				bestLen = length
			}
		case length >= bestLen:
			best = run
			bestLen = length
		}
	}

	return best, bestLen > 0
}

func scoreAssignment(st *studentState, blockHours int, day domain.Weekday, locationID int64) float64 {
	score := 0.0

	// Fairness dominates: the fewer hours relative to the cap, the better.
	score -= st.assignedHours / st.maxHours * 100

	score -= st.hoursByDay[day] * 10

	switch {
	case blockHours >= idealBlockMin && blockHours <= idealBlockMax:
		score += 15
	case blockHours >= minBlockHours:
		score += 5
	}

	if st.lastLocation[day] == locationID {
		score += 8
	}

	return score
}

func availabilityByDay(slots []domain.AvailabilitySlot, userID int64) map[domain.Weekday]map[int]bool {
	byDay := map[domain.Weekday]map[int]bool{}
	for _, slot := range slots {
		if slot.UserID != userID {
			continue
		}
		start, err := domain.HourOf(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := domain.HourOf(slot.EndTime)
		if err != nil {
			continue
		}
		hours := byDay[slot.DayOfWeek]
		if hours == nil {
			hours = map[int]bool{}
			byDay[slot.DayOfWeek] = hours
		}
		for h := start; h < end; h++ {
			if h >= interval.DayStartHour && h < interval.DayEndHour {
				hours[h] = true
			}
		}
	}
	return byDay
}

func closedDates(holidays []*domain.Holiday, weekStart time.Time) map[string]bool {
	closed := map[string]bool{}
	weekEnd := weekStart.AddDate(0, 0, len(domain.WorkWeek)-1)
	for _, h := range holidays {
		if !h.IsClosed {
			continue
		}
		if h.Date.Before(weekStart) || h.Date.After(weekEnd) {
			continue
		}
		closed[dateKey(h.Date)] = true
	}
	return closed
}

func timeOffDates(reqs []*domain.TimeOffRequest, weekStart time.Time) map[int64]map[string]bool {
	out := map[int64]map[string]bool{}
	weekEnd := weekStart.AddDate(0, 0, len(domain.WorkWeek)-1)
	for _, req := range reqs {
		if req.Status != domain.TimeOffApproved {
			continue
		}
		from := req.StartDate
		if from.Before(weekStart) {
			from = weekStart
		}
		to := req.EndDate
		if to.After(weekEnd) {
			to = weekEnd
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			days := out[req.UserID]
			if days == nil {
				days = map[string]bool{}
				out[req.UserID] = days
			}
			days[dateKey(d)] = true
		}
	}
	return out
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
