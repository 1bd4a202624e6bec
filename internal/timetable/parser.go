package timetable

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports availability text the parser could not make sense of.
type ParseError struct {
	Line    int    // 1-based line number, 0 when the whole input is at fault
	Token   string // offending token, if any
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse availability: line %d: %s (%q)", e.Line, e.Message, e.Token)
	}
	return fmt.Sprintf("parse availability: %s", e.Message)
}

// Warning flags input the parser accepted but considers suspicious, such as
// overlapping intervals with different labels on the same day.
type Warning struct {
	Day     WeekDay `json:"day"`
	Message string  `json:"message"`
}

// timeRangeRe matches "9:00-10:00", "09.00 - 10.00", "9-17" and similar.
var timeRangeRe = regexp.MustCompile(`(\d{1,2})(?:[:.](\d{2}))?\s*[-–]\s*(\d{1,2})(?:[:.](\d{2}))?`)

// Parse converts free-form weekly availability text into a WeeklySchedule.
//
// The input is a human copy-paste of a tabular display, not a strict grammar:
// lines without a recognizable day token are skipped as noise. Overlapping or
// adjacent intervals on the same day with the same label are merged; overlaps
// across different labels are kept and reported as warnings. The call fails
// when a time range is malformed (end <= start, hour > 23, minute > 59) or
// when no line yields a valid day at all.
func Parse(raw string) (WeeklySchedule, []Warning, error) {
	ws := make(WeeklySchedule)

	lines := strings.Split(raw, "\n")
	validDays := 0
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		day, rest, ok := extractDay(trimmed)
		if !ok {
			continue
		}

		ranges := timeRangeRe.FindAllStringSubmatchIndex(rest, -1)
		if len(ranges) == 0 {
			// A day with no time range carries no information; treat as noise.
			continue
		}
		validDays++

		label := labelText(rest, ranges)
		for _, loc := range ranges {
			m := timeRangeRe.FindStringSubmatch(rest[loc[0]:loc[1]])
			start, err := timeFromMatch(m[1], m[2])
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Token: rest[loc[0]:loc[1]], Message: err.Error()}
			}
			end, err := timeFromMatch(m[3], m[4])
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Token: rest[loc[0]:loc[1]], Message: err.Error()}
			}
			if end <= start {
				return nil, nil, &ParseError{Line: lineNo, Token: rest[loc[0]:loc[1]], Message: "time range ends before it starts"}
			}
			ws[day] = append(ws[day], BusyInterval{Day: day, Start: start, End: end, Label: label})
		}
	}

	if validDays == 0 {
		return nil, nil, &ParseError{Message: "no recognizable day/time entries in input"}
	}

	warnings := normalize(ws)
	return ws, warnings, nil
}

// extractDay finds the first token on the line that normalizes to a WeekDay
// and returns the line with that token removed.
func extractDay(line string) (WeekDay, string, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if day, ok := ParseWeekDay(strings.Trim(f, ".,;:")); ok {
			rest := strings.Join(append(append([]string{}, fields[:i]...), fields[i+1:]...), " ")
			return day, rest, true
		}
	}
	return 0, "", false
}

// labelText returns what is left of the line once all time ranges are cut out.
func labelText(rest string, ranges [][]int) string {
	var parts []string
	prev := 0
	for _, loc := range ranges {
		parts = append(parts, rest[prev:loc[0]])
		prev = loc[1]
	}
	parts = append(parts, rest[prev:])
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func timeFromMatch(hourStr, minuteStr string) (TimeOfDay, error) {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	return NewTimeOfDay(hour, minute)
}

// normalize sorts each day by start time, merges overlapping or adjacent
// intervals that share a label, and reports cross-label overlaps. Every kept
// interval still reaching iv is considered, not just the previous one: a
// cross-label interval sorted in between must not hide a same-label merge.
func normalize(ws WeeklySchedule) []Warning {
	var warnings []Warning
	for _, day := range AllDays() {
		intervals := ws[day]
		if len(intervals) == 0 {
			continue
		}
		sort.SliceStable(intervals, func(i, j int) bool {
			return intervals[i].Start < intervals[j].Start
		})

		merged := intervals[:0:0]
		for _, iv := range intervals {
			mergeInto := -1
			for j := len(merged) - 1; j >= 0; j-- {
				kept := merged[j]
				if iv.Start > kept.End {
					continue
				}
				if iv.Label == kept.Label {
					if mergeInto == -1 {
						mergeInto = j
					}
					continue
				}
				if iv.Start < kept.End {
					// Different labels claiming the same time. Ambiguous
					// source data; keep both and let the caller decide.
					warnings = append(warnings, Warning{
						Day: day,
						Message: fmt.Sprintf("%q (%s-%s) overlaps %q (%s-%s)",
							iv.Label, iv.Start, iv.End, kept.Label, kept.Start, kept.End),
					})
				}
			}
			if mergeInto >= 0 {
				if iv.End > merged[mergeInto].End {
					merged[mergeInto].End = iv.End
				}
				continue
			}
			merged = append(merged, iv)
		}
		ws[day] = merged
	}
	return warnings
}
