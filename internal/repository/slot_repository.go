package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reviewhub/review-scheduler/internal/model"
	"github.com/reviewhub/review-scheduler/internal/repository/base"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, classroom_id, review_stage, calendar_date, start_minute, end_minute,
		duration_minutes, booking_deadline, is_available, batch_id, created_by, created_at`

func scanSlot(row pgx.Row) (*model.BookableSlot, error) {
	var slot model.BookableSlot
	err := row.Scan(
		&slot.ID,
		&slot.ClassroomID,
		&slot.ReviewStage,
		&slot.CalendarDate,
		&slot.Start,
		&slot.End,
		&slot.DurationMinutes,
		&slot.BookingDeadline,
		&slot.IsAvailable,
		&slot.BatchID,
		&slot.CreatedBy,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a published slot in the available state.
func (r *SlotRepository) Create(ctx context.Context, slot *model.BookableSlot) error {
	query := `
		INSERT INTO bookable_slots (classroom_id, review_stage, calendar_date, start_minute,
			end_minute, duration_minutes, booking_deadline, is_available, batch_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8, $9)
		RETURNING id, is_available, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		slot.ClassroomID,
		slot.ReviewStage,
		slot.CalendarDate,
		slot.Start,
		slot.End,
		slot.DurationMinutes,
		slot.BookingDeadline,
		slot.BatchID,
		slot.CreatedBy,
	).Scan(&slot.ID, &slot.IsAvailable, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID gets a slot by ID.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.BookableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM bookable_slots WHERE id = $1`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByIDForUpdate re-reads a slot inside the caller's transaction, locking
// the row until the transaction ends.
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, tx base.Querier, id int64) (*model.BookableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM bookable_slots WHERE id = $1 FOR UPDATE`

	slot, err := scanSlot(tx.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot for update: %w", err)
	}

	return slot, nil
}

// List returns slots for a classroom and review stage, optionally only the
// still-available ones, ordered chronologically.
func (r *SlotRepository) List(ctx context.Context, classroomID int64, reviewStage string, onlyAvailable bool) ([]*model.BookableSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM bookable_slots
		WHERE classroom_id = $1
		  AND review_stage = $2
		  AND ($3 = false OR is_available = true)
		ORDER BY calendar_date, start_minute
	`

	rows, err := r.pool.Query(ctx, query, classroomID, reviewStage, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.BookableSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// ListByBatch returns all slots published in one batch.
func (r *SlotRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*model.BookableSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM bookable_slots
		WHERE batch_id = $1
		ORDER BY calendar_date, start_minute
	`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list slots by batch: %w", err)
	}
	defer rows.Close()

	var slots []*model.BookableSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// MarkUnavailable flips is_available to false. The conditional WHERE makes
// the flip single-shot: zero rows affected means the slot was already claimed
// or does not exist.
func (r *SlotRepository) MarkUnavailable(ctx context.Context, tx base.Querier, slotID int64) (bool, error) {
	query := `
		UPDATE bookable_slots
		SET is_available = false
		WHERE id = $1 AND is_available = true
	`

	tag, err := tx.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("mark slot unavailable: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkAvailable reopens a slot after its booking is cancelled.
func (r *SlotRepository) MarkAvailable(ctx context.Context, tx base.Querier, slotID int64) error {
	query := `
		UPDATE bookable_slots
		SET is_available = true
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, slotID); err != nil {
		return fmt.Errorf("mark slot available: %w", err)
	}

	return nil
}

// Delete removes a slot. Fails at the storage layer while a booking still
// references it.
func (r *SlotRepository) Delete(ctx context.Context, tx base.Querier, slotID int64) error {
	query := `DELETE FROM bookable_slots WHERE id = $1`

	if _, err := tx.Exec(ctx, query, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	return nil
}

// DeleteAvailableByBatch removes the still-available slots of a batch and
// returns how many were deleted. Booked slots are left untouched.
func (r *SlotRepository) DeleteAvailableByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM bookable_slots
		WHERE batch_id = $1 AND is_available = true
	`

	tag, err := r.pool.Exec(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch slots: %w", err)
	}

	return tag.RowsAffected(), nil
}

// FindOrphaned returns integrity violations: slots flagged unavailable with
// no booking row, and slots still flagged available that a booking points at.
func (r *SlotRepository) FindOrphaned(ctx context.Context) (unavailableNoBooking []int64, availableWithBooking []int64, err error) {
	query := `
		SELECT s.id, s.is_available
		FROM bookable_slots s
		LEFT JOIN bookings b ON b.slot_id = s.id
		WHERE (s.is_available = false AND b.id IS NULL)
		   OR (s.is_available = true AND b.id IS NOT NULL)
		ORDER BY s.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("find orphaned slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var available bool
		if err := rows.Scan(&id, &available); err != nil {
			return nil, nil, fmt.Errorf("scan orphaned slot: %w", err)
		}
		if available {
			availableWithBooking = append(availableWithBooking, id)
		} else {
			unavailableNoBooking = append(unavailableNoBooking, id)
		}
	}

	return unavailableNoBooking, availableWithBooking, rows.Err()
}
