// Package interval converts between the discrete availability grid edited in
// the dashboard (per-day sets of hour cells) and the compact time-range form
// the rest of the system stores. Both directions are pure.
package interval

import (
	"slices"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

// The desk operates 8:00-18:00; a grid cell with hour h covers [h, h+1).
const (
	DayStartHour = 8
	DayEndHour   = 18
)

// Range is a half-open span of whole hours [Start, End) within one day.
type Range struct {
	Start int
	End   int
}

// Encode merges a set of hour cells into the minimal list of maximal
// contiguous ranges, ascending. Duplicate hours are tolerated; no two emitted
// ranges overlap or touch. An empty set yields no ranges.
func Encode(hours []int) ([]Range, error) {
	if len(hours) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(hours)
	slices.Sort(sorted)

	for _, h := range sorted {
		if h < DayStartHour || h >= DayEndHour {
			return nil, domain.Validationf("hour %d outside operating window %d..%d", h, DayStartHour, DayEndHour)
		}
	}

	var ranges []Range
	runStart := sorted[0]
	prev := sorted[0]
	for _, h := range sorted[1:] {
		if h == prev || h == prev+1 {
			prev = h
			continue
		}
		ranges = append(ranges, Range{Start: runStart, End: prev + 1})
		runStart = h
		prev = h
	}
	return append(ranges, Range{Start: runStart, End: prev + 1}), nil
}

// Decode unions a list of ranges back into the sorted set of hour cells they
// cover. Overlapping or adjacent input ranges are legal here (union
// semantics); they can arrive from storage that predates merging.
func Decode(ranges []Range) ([]int, error) {
	seen := make(map[int]bool)
	for _, r := range ranges {
		if r.Start >= r.End {
			return nil, domain.Validationf("range start %d is not before end %d", r.Start, r.End)
		}
		if r.Start < DayStartHour || r.End > DayEndHour {
			return nil, domain.Validationf("range %d..%d outside operating window %d..%d", r.Start, r.End, DayStartHour, DayEndHour)
		}
		for h := r.Start; h < r.End; h++ {
			seen[h] = true
		}
	}

	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	return hours, nil
}
