package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/reviewhub/review-scheduler/internal/timetable"
)

// BookableSlot is a candidate slot materialized against a concrete calendar
// date, classroom and review stage. Created available; flipped unavailable
// exactly once, atomically with its Booking.
type BookableSlot struct {
	ID              int64               `json:"id"`
	ClassroomID     int64               `json:"classroom_id"`
	ReviewStage     string              `json:"review_stage"`
	CalendarDate    time.Time           `json:"calendar_date"`
	Start           timetable.TimeOfDay `json:"start"`
	End             timetable.TimeOfDay `json:"end"`
	DurationMinutes int                 `json:"duration_minutes"`
	BookingDeadline time.Time           `json:"booking_deadline"`
	IsAvailable     bool                `json:"is_available"`
	BatchID         uuid.UUID           `json:"batch_id"`
	CreatedBy       int64               `json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
}
