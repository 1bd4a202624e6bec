package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T, start, end string, days ...WeekDay) Window {
	t.Helper()
	s, err := ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := ParseTimeOfDay(end)
	require.NoError(t, err)
	return Window{Start: s, End: e, Days: days}
}

func TestDeriveFreeComplement(t *testing.T) {
	ws, _, err := Parse("MON 09:00-10:00 CS101\nMON 11:00-12:00 CS102")
	require.NoError(t, err)

	free := DeriveFree(ws, window(t, "08:00", "18:00", Monday))

	require.Len(t, free, 3)
	assert.Equal(t, FreeInterval{Day: Monday, Start: mustTime(t, 8, 0), End: mustTime(t, 9, 0)}, free[0])
	assert.Equal(t, FreeInterval{Day: Monday, Start: mustTime(t, 10, 0), End: mustTime(t, 11, 0)}, free[1])
	assert.Equal(t, FreeInterval{Day: Monday, Start: mustTime(t, 12, 0), End: mustTime(t, 18, 0)}, free[2])
}

func TestDeriveFreeEmptyDayIsWholeWindow(t *testing.T) {
	free := DeriveFree(WeeklySchedule{}, window(t, "08:00", "18:00", Wednesday))

	require.Len(t, free, 1)
	assert.Equal(t, FreeInterval{Day: Wednesday, Start: mustTime(t, 8, 0), End: mustTime(t, 18, 0)}, free[0])
}

func TestDeriveFreeAllDaysInOrder(t *testing.T) {
	ws, _, err := Parse("TUE 08:00-18:00 AllDay")
	require.NoError(t, err)

	free := DeriveFree(ws, window(t, "08:00", "18:00"))

	// Tuesday is fully busy; the other six days are fully free.
	require.Len(t, free, 6)
	wantDays := []WeekDay{Monday, Wednesday, Thursday, Friday, Saturday, Sunday}
	for i, iv := range free {
		assert.Equal(t, wantDays[i], iv.Day)
	}
}

func TestDeriveFreeBusyOutsideWindow(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []FreeInterval
	}{
		{
			name: "busy before window",
			raw:  "MON 06:00-07:30 Early",
			want: []FreeInterval{{Day: Monday, Start: 8 * 60, End: 18 * 60}},
		},
		{
			name: "busy after window",
			raw:  "MON 19:00-21:00 Evening",
			want: []FreeInterval{{Day: Monday, Start: 8 * 60, End: 18 * 60}},
		},
		{
			name: "busy straddles window start",
			raw:  "MON 07:00-09:30 Morning",
			want: []FreeInterval{{Day: Monday, Start: 9*60 + 30, End: 18 * 60}},
		},
		{
			name: "busy straddles window end",
			raw:  "MON 17:00-19:00 Evening",
			want: []FreeInterval{{Day: Monday, Start: 8 * 60, End: 17 * 60}},
		},
		{
			name: "busy covers whole window",
			raw:  "MON 07:00-19:00 AllDay",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _, err := Parse(tt.raw)
			require.NoError(t, err)
			free := DeriveFree(ws, window(t, "08:00", "18:00", Monday))
			assert.Equal(t, tt.want, free)
		})
	}
}

func TestDeriveFreeCrossLabelOverlapStillCovered(t *testing.T) {
	// Overlapping intervals with different labels stay distinct after
	// parsing; the complement must still treat their union as busy.
	ws, warnings, err := Parse("MON 09:00-11:00 CS101\nMON 10:00-12:00 CS205")
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	free := DeriveFree(ws, window(t, "08:00", "18:00", Monday))

	assert.Equal(t, []FreeInterval{
		{Day: Monday, Start: 8 * 60, End: 9 * 60},
		{Day: Monday, Start: 12 * 60, End: 18 * 60},
	}, free)
}

func TestDeriveFreeNeverEmitsZeroWidthOrOverlap(t *testing.T) {
	ws, _, err := Parse(`
		MON 08:00-09:00 A
		MON 09:00-10:00 B
		MON 10:00-17:59 C
		TUE 08:00-18:00 D
	`)
	require.NoError(t, err)

	win := window(t, "08:00", "18:00")
	free := DeriveFree(ws, win)

	for _, iv := range free {
		assert.Less(t, iv.Start, iv.End, "zero or negative width interval")
		assert.GreaterOrEqual(t, iv.Start, win.Start)
		assert.LessOrEqual(t, iv.End, win.End)
		for _, busy := range ws[iv.Day] {
			noOverlap := iv.End <= busy.Start || iv.Start >= busy.End
			assert.True(t, noOverlap, "free %v overlaps busy %v", iv, busy)
		}
	}
}

func TestDeriveFreeEmptyWindow(t *testing.T) {
	ws, _, err := Parse("MON 09:00-10:00 CS101")
	require.NoError(t, err)

	assert.Nil(t, DeriveFree(ws, Window{Start: 600, End: 600}))
	assert.Nil(t, DeriveFree(ws, Window{Start: 700, End: 600}))
}
