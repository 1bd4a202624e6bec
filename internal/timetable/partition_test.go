package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionExactFit(t *testing.T) {
	// 12:00-18:00 is 360 minutes: 18 slots of 20 with nothing discarded.
	free := []FreeInterval{{Day: Monday, Start: 12 * 60, End: 18 * 60}}

	slots, err := Partition(free, 20)
	require.NoError(t, err)
	require.Len(t, slots, 18)

	assert.Equal(t, CandidateSlot{Day: Monday, Start: 12 * 60, End: 12*60 + 20}, slots[0])
	assert.Equal(t, CandidateSlot{Day: Monday, Start: 18*60 - 20, End: 18 * 60}, slots[17])

	for i, slot := range slots {
		assert.Equal(t, 20, int(slot.End-slot.Start))
		if i > 0 {
			assert.Equal(t, slots[i-1].End, slot.Start, "slots must be contiguous")
		}
	}
}

func TestPartitionDiscardsRemainder(t *testing.T) {
	tests := []struct {
		name     string
		span     int // interval length in minutes
		duration int
		want     int
	}{
		{"60 into 20", 60, 20, 3},
		{"50 into 20", 50, 20, 2},
		{"19 into 20", 19, 20, 0},
		{"20 into 20", 20, 20, 1},
		{"90 into 45", 90, 45, 2},
		{"100 into 45", 100, 45, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free := []FreeInterval{{Day: Thursday, Start: 9 * 60, End: TimeOfDay(9*60 + tt.span)}}
			slots, err := Partition(free, tt.duration)
			require.NoError(t, err)
			assert.Len(t, slots, tt.want)
			for _, slot := range slots {
				assert.Equal(t, tt.duration, int(slot.End-slot.Start))
				assert.GreaterOrEqual(t, slot.Start, free[0].Start)
				assert.LessOrEqual(t, slot.End, free[0].End)
			}
		})
	}
}

func TestPartitionNeverCrossesIntervalBoundary(t *testing.T) {
	// Contiguous in wall-clock time but distinct source intervals: the 30
	// leftover minutes of each must not combine into an extra slot.
	free := []FreeInterval{
		{Day: Friday, Start: 9 * 60, End: 9*60 + 50},
		{Day: Friday, Start: 9*60 + 50, End: 10*60 + 40},
	}

	slots, err := Partition(free, 20)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.Equal(t, TimeOfDay(9*60), slots[0].Start)
	assert.Equal(t, TimeOfDay(9*60+20), slots[1].Start)
	assert.Equal(t, TimeOfDay(9*60+50), slots[2].Start)
	assert.Equal(t, TimeOfDay(9*60+70), slots[3].Start)
}

func TestPartitionInvalidDuration(t *testing.T) {
	free := []FreeInterval{{Day: Monday, Start: 9 * 60, End: 10 * 60}}

	for _, duration := range []int{0, -1, -20} {
		_, err := Partition(free, duration)
		require.Error(t, err)
		var invalidErr *InvalidDurationError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, duration, invalidErr.Duration)
	}
}

func TestPartitionIdempotent(t *testing.T) {
	ws, _, err := Parse("MON 09:00-10:00 CS101\nMON 11:00-12:00 CS102")
	require.NoError(t, err)
	free := DeriveFree(ws, Window{Start: 8 * 60, End: 18 * 60, Days: []WeekDay{Monday}})

	first, err := Partition(free, 20)
	require.NoError(t, err)
	second, err := Partition(free, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3+3+18) // 08-09, 10-11 and 12-18 from the derived complement
}

func TestPartitionEmptyInput(t *testing.T) {
	slots, err := Partition(nil, 20)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
