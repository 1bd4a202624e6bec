package timetable

import (
	"fmt"
	"strings"
	"time"
)

// WeekDay is a canonical weekday, Monday first.
type WeekDay int

const (
	Monday WeekDay = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

var dayAliases = map[string]WeekDay{
	"MON": Monday, "MONDAY": Monday,
	"TUE": Tuesday, "TUES": Tuesday, "TUESDAY": Tuesday,
	"WED": Wednesday, "WEDNESDAY": Wednesday,
	"THU": Thursday, "THUR": Thursday, "THURS": Thursday, "THURSDAY": Thursday,
	"FRI": Friday, "FRIDAY": Friday,
	"SAT": Saturday, "SATURDAY": Saturday,
	"SUN": Sunday, "SUNDAY": Sunday,
}

func (d WeekDay) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return dayNames[d]
}

// ParseWeekDay normalizes a day token ("mon", "Monday", "TUE") to a WeekDay.
func ParseWeekDay(token string) (WeekDay, bool) {
	d, ok := dayAliases[strings.ToUpper(strings.TrimSpace(token))]
	return d, ok
}

// MarshalText renders the canonical three-letter day name in JSON payloads
// and map keys.
func (d WeekDay) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *WeekDay) UnmarshalText(b []byte) error {
	day, ok := ParseWeekDay(string(b))
	if !ok {
		return fmt.Errorf("unknown weekday %q", b)
	}
	*d = day
	return nil
}

// FromTimeWeekday converts the standard library's Sunday-first weekday.
func FromTimeWeekday(d time.Weekday) WeekDay {
	if d == time.Sunday {
		return Sunday
	}
	return WeekDay(int(d) - 1)
}

// AllDays lists the seven weekdays in enumeration order.
func AllDays() []WeekDay {
	return []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// TimeOfDay is a wall-clock time stored as minutes since midnight.
// Valid values are in [0, 1440).
type TimeOfDay int

const MinutesPerDay = 1440

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	tod, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = tod
	return nil
}

// ParseTimeOfDay parses an "HH:MM" clock string, zero-padded or not.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return NewTimeOfDay(hour, minute)
}

// BusyInterval is a committed block of time on a weekday.
type BusyInterval struct {
	Day   WeekDay   `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Label string    `json:"label"`
}

// WeeklySchedule maps each weekday to its busy intervals, sorted by start
// time. It is a derived view over availability text, recomputed per parse,
// never persisted.
type WeeklySchedule map[WeekDay][]BusyInterval

// FreeInterval is a maximal gap between busy intervals inside the activity
// window.
type FreeInterval struct {
	Day   WeekDay   `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// CandidateSlot is a fixed-duration cut of a FreeInterval, not yet bound to a
// calendar date.
type CandidateSlot struct {
	Day   WeekDay   `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Window bounds the part of a day considered for scheduling, e.g. 08:00-18:00.
// If Days is empty the whole week is in scope.
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Days  []WeekDay `json:"days,omitempty"`
}

// Format renders a schedule back to the canonical text form the parser
// accepts, one interval per line, days in enumeration order.
func (ws WeeklySchedule) Format() string {
	var b strings.Builder
	for _, day := range AllDays() {
		for _, iv := range ws[day] {
			b.WriteString(day.String())
			b.WriteByte(' ')
			b.WriteString(iv.Start.String())
			b.WriteByte('-')
			b.WriteString(iv.End.String())
			if iv.Label != "" {
				b.WriteByte(' ')
				b.WriteString(iv.Label)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
