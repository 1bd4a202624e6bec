package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, hour, minute int) TimeOfDay {
	t.Helper()
	tod, err := NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return tod
}

func TestParseBasic(t *testing.T) {
	raw := "MON 09:00-10:00 CS101\nMON 11:00-12:00 CS102"

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, ws[Monday], 2)
	assert.Equal(t, BusyInterval{Day: Monday, Start: mustTime(t, 9, 0), End: mustTime(t, 10, 0), Label: "CS101"}, ws[Monday][0])
	assert.Equal(t, BusyInterval{Day: Monday, Start: mustTime(t, 11, 0), End: mustTime(t, 12, 0), Label: "CS102"}, ws[Monday][1])
	assert.Empty(t, ws[Tuesday])
}

func TestParseTolerantInput(t *testing.T) {
	raw := `
	Weekly timetable (autumn term)

	monday    9:00 - 10:30   Algorithms
	TUESDAY   14.00-15.00    Databases
	   wed 8:05-9:55 Networks
	random noise line without any day
	HOLIDAY 10:00-11:00 should be skipped
	`

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, ws[Monday], 1)
	assert.Equal(t, mustTime(t, 9, 0), ws[Monday][0].Start)
	assert.Equal(t, mustTime(t, 10, 30), ws[Monday][0].End)
	assert.Equal(t, "Algorithms", ws[Monday][0].Label)

	require.Len(t, ws[Tuesday], 1)
	assert.Equal(t, mustTime(t, 14, 0), ws[Tuesday][0].Start)

	require.Len(t, ws[Wednesday], 1)
	assert.Equal(t, mustTime(t, 8, 5), ws[Wednesday][0].Start)
	assert.Equal(t, mustTime(t, 9, 55), ws[Wednesday][0].End)
}

func TestParseSortsWithinDay(t *testing.T) {
	raw := "FRI 15:00-16:00 Late\nFRI 09:00-10:00 Early"

	ws, _, err := Parse(raw)
	require.NoError(t, err)

	require.Len(t, ws[Friday], 2)
	assert.Equal(t, "Early", ws[Friday][0].Label)
	assert.Equal(t, "Late", ws[Friday][1].Label)
}

func TestParseMergesSameLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want BusyInterval
	}{
		{
			name: "overlapping",
			raw:  "TUE 09:00-11:00 Lab\nTUE 10:00-12:00 Lab",
			want: BusyInterval{Day: Tuesday, Start: mustTime(t, 9, 0), End: mustTime(t, 12, 0), Label: "Lab"},
		},
		{
			name: "exactly adjacent",
			raw:  "TUE 09:00-10:00 Lab\nTUE 10:00-11:00 Lab",
			want: BusyInterval{Day: Tuesday, Start: mustTime(t, 9, 0), End: mustTime(t, 11, 0), Label: "Lab"},
		},
		{
			name: "contained",
			raw:  "TUE 09:00-12:00 Lab\nTUE 10:00-11:00 Lab",
			want: BusyInterval{Day: Tuesday, Start: mustTime(t, 9, 0), End: mustTime(t, 12, 0), Label: "Lab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, warnings, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			require.Len(t, ws[Tuesday], 1)
			assert.Equal(t, tt.want, ws[Tuesday][0])
		})
	}
}

func TestParseKeepsCrossLabelOverlapWithWarning(t *testing.T) {
	raw := "WED 09:00-11:00 CS101\nWED 10:00-12:00 CS205"

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)

	// Both intervals survive; the ambiguity is surfaced, not resolved.
	require.Len(t, ws[Wednesday], 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, Wednesday, warnings[0].Day)
	assert.Contains(t, warnings[0].Message, "CS205")
	assert.Contains(t, warnings[0].Message, "CS101")
}

func TestParseMergesSameLabelAcrossInterleavedOverlap(t *testing.T) {
	raw := "MON 09:00-12:00 CS101\nMON 10:00-11:00 CS205\nMON 11:30-12:30 CS101"

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)

	// The second CS101 interval overlaps the first even though CS205 sorts
	// between them; the two must still collapse into one.
	require.Len(t, ws[Monday], 2)
	assert.Equal(t, BusyInterval{Day: Monday, Start: mustTime(t, 9, 0), End: mustTime(t, 12, 30), Label: "CS101"}, ws[Monday][0])
	assert.Equal(t, BusyInterval{Day: Monday, Start: mustTime(t, 10, 0), End: mustTime(t, 11, 0), Label: "CS205"}, ws[Monday][1])

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "CS205")
}

func TestParseMergesContainedSameLabelBehindShorterInterval(t *testing.T) {
	raw := "MON 09:00-12:00 Lab\nMON 09:30-09:45 Briefing\nMON 11:00-11:30 Lab"

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)

	// Briefing ends well before the second Lab interval starts, so it must
	// not stop the backward scan from reaching the first Lab interval.
	require.Len(t, ws[Monday], 2)
	assert.Equal(t, BusyInterval{Day: Monday, Start: mustTime(t, 9, 0), End: mustTime(t, 12, 0), Label: "Lab"}, ws[Monday][0])
	assert.Equal(t, "Briefing", ws[Monday][1].Label)
	assert.Len(t, warnings, 1)
}

func TestParseAdjacentDifferentLabelsNotMergedNoWarning(t *testing.T) {
	raw := "THU 09:00-10:00 CS101\nTHU 10:00-11:00 CS205"

	ws, warnings, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, ws[Thursday], 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"no day tokens", "some notes\n10:00-11:00 floating range"},
		{"end before start", "MON 12:00-10:00 CS101"},
		{"zero width range", "MON 10:00-10:00 CS101"},
		{"hour out of range", "MON 25:00-26:00 CS101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.raw)
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	_, _, err := Parse("MON 09:00-10:00 CS101\nTUE 12:00-11:00 CS102")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Contains(t, parseErr.Token, "12:00")
}

func TestParseFormatRoundTrip(t *testing.T) {
	raw := `
	mon 9:00-10:30 Algorithms
	MON 11:00-12:00 Databases
	friday 8:00-9:00
	sun 13.15-14.45 Office hours
	`

	ws, _, err := Parse(raw)
	require.NoError(t, err)

	again, warnings, err := Parse(ws.Format())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, ws, again)
}
