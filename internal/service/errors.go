package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/reviewhub/review-scheduler/internal/timetable"
)

// Conflict and lookup errors callers are expected to branch on. Conflicts are
// ordinary races, not system failures.
var (
	ErrSlotNotFound          = errors.New("slot not found")
	ErrSlotUnavailable       = errors.New("slot is no longer available")
	ErrDuplicateStageBooking = errors.New("team already holds a booking for this classroom and review stage")
	ErrDeadlinePassed        = errors.New("booking deadline has passed")
	ErrDeadlineInPast        = errors.New("booking deadline is in the past")
)

// WeekdayMismatchError reports a publish selection whose calendar date does
// not fall on the candidate slot's weekday.
type WeekdayMismatchError struct {
	Date time.Time
	Want timetable.WeekDay
}

func (e *WeekdayMismatchError) Error() string {
	return fmt.Sprintf("date %s falls on %s, slot expects %s",
		e.Date.Format("2006-01-02"), timetable.FromTimeWeekday(e.Date.Weekday()), e.Want)
}
