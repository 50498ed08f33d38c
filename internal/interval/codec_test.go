package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		hours []int
		want  []Range
	}{
		{"empty", nil, nil},
		{"single hour", []int{9}, []Range{{9, 10}}},
		{"one contiguous run", []int{8, 9, 10}, []Range{{8, 11}}},
		{"two runs", []int{8, 9, 10, 13, 14}, []Range{{8, 11}, {13, 15}}},
		{"unsorted input", []int{14, 8, 13, 10, 9}, []Range{{8, 11}, {13, 15}}},
		{"duplicates collapse", []int{9, 9, 10}, []Range{{9, 11}}},
		{"isolated cells", []int{8, 10, 12}, []Range{{8, 9}, {10, 11}, {12, 13}}},
		{"full day", []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17}, []Range{{8, 18}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.hours)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsOutOfWindowHours(t *testing.T) {
	for _, hour := range []int{7, 18, -1, 23} {
		_, err := Encode([]int{hour})
		assert.ErrorIs(t, err, domain.ErrValidation, "hour %d", hour)
	}
}

func TestEncodeNeverEmitsAdjacentOrOverlappingRanges(t *testing.T) {
	// Exhaustive over all subsets of the 10-hour window.
	for mask := 0; mask < 1<<10; mask++ {
		var hours []int
		for bit := 0; bit < 10; bit++ {
			if mask&(1<<bit) != 0 {
				hours = append(hours, DayStartHour+bit)
			}
		}
		ranges, err := Encode(hours)
		require.NoError(t, err)
		for i := 1; i < len(ranges); i++ {
			require.Greater(t, ranges[i].Start, ranges[i-1].End,
				"ranges %v touch or overlap for input %v", ranges, hours)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	// decode(encode(S)) == S for every subset of the window.
	for mask := 0; mask < 1<<10; mask++ {
		hours := []int{}
		for bit := 0; bit < 10; bit++ {
			if mask&(1<<bit) != 0 {
				hours = append(hours, DayStartHour+bit)
			}
		}
		ranges, err := Encode(hours)
		require.NoError(t, err)
		got, err := Decode(ranges)
		require.NoError(t, err)
		require.Equal(t, hours, got)
	}
}

func TestDecodeToleratesOverlapAndAdjacency(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		want   []int
	}{
		{"overlapping", []Range{{8, 11}, {10, 12}}, []int{8, 9, 10, 11}},
		{"adjacent unmerged", []Range{{8, 10}, {10, 12}}, []int{8, 9, 10, 11}},
		{"duplicate", []Range{{9, 10}, {9, 10}}, []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.ranges)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsMalformedRanges(t *testing.T) {
	_, err := Decode([]Range{{10, 10}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Decode([]Range{{11, 9}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Decode([]Range{{6, 9}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEncodeDecodeCanonicalizes(t *testing.T) {
	// encode(decode(R)) yields the unique minimal merged form.
	hours, err := Decode([]Range{{8, 10}, {9, 11}, {11, 12}, {14, 15}})
	require.NoError(t, err)
	ranges, err := Encode(hours)
	require.NoError(t, err)
	assert.Equal(t, []Range{{8, 12}, {14, 15}}, ranges)
}
