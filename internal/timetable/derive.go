package timetable

// DeriveFree computes, per weekday, the complement of the schedule's busy
// intervals restricted to the activity window. Output is chronological within
// a day, days in enumeration order. Pure function; zero-width intervals are
// never emitted.
func DeriveFree(ws WeeklySchedule, win Window) []FreeInterval {
	if win.End <= win.Start {
		return nil
	}

	days := win.Days
	if len(days) == 0 {
		days = AllDays()
	}

	var free []FreeInterval
	for _, day := range days {
		cursor := win.Start
		for _, busy := range ws[day] {
			if busy.End <= cursor {
				continue
			}
			if busy.Start >= win.End {
				break
			}
			if busy.Start > cursor {
				free = append(free, FreeInterval{Day: day, Start: cursor, End: busy.Start})
			}
			cursor = busy.End
		}
		if cursor < win.End {
			free = append(free, FreeInterval{Day: day, Start: cursor, End: win.End})
		}
	}
	return free
}
