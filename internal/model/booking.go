package model

import "time"

// Booking records that a team has claimed one bookable slot. ClassroomID and
// ReviewStage are denormalized from the slot so the one-booking-per-stage rule
// can be enforced by the storage layer.
type Booking struct {
	ID          int64     `json:"id"`
	SlotID      int64     `json:"slot_id"`
	TeamID      int64     `json:"team_id"`
	ClassroomID int64     `json:"classroom_id"`
	ReviewStage string    `json:"review_stage"`
	CreatedAt   time.Time `json:"created_at"`

	// Filled for notification payloads, not scanned from the bookings table.
	Slot *BookableSlot `json:"slot,omitempty"`
}
