package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reviewhub/review-scheduler/internal/model"
	"github.com/reviewhub/review-scheduler/internal/repository/base"
)

// Constraint names from the bookings migration; used to classify unique
// violations when concurrent claims race.
const (
	ConstraintBookingSlot  = "bookings_slot_id_key"
	ConstraintBookingStage = "bookings_team_stage_key"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create inserts a booking inside the caller's transaction. The UNIQUE
// constraint on slot_id is the final arbiter between racing claims; the error
// is returned unwrapped enough for base.UniqueViolation to classify it.
func (r *BookingRepository) Create(ctx context.Context, tx base.Querier, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (slot_id, team_id, classroom_id, review_stage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		booking.SlotID,
		booking.TeamID,
		booking.ClassroomID,
		booking.ReviewStage,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID gets a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, slot_id, team_id, classroom_id, review_stage, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.TeamID,
		&booking.ClassroomID,
		&booking.ReviewStage,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByTeamAndStage returns the team's booking for a (classroom, review
// stage) pair, or nil when the team holds none.
func (r *BookingRepository) GetByTeamAndStage(ctx context.Context, tx base.Querier, teamID, classroomID int64, reviewStage string) (*model.Booking, error) {
	query := `
		SELECT id, slot_id, team_id, classroom_id, review_stage, created_at
		FROM bookings
		WHERE team_id = $1 AND classroom_id = $2 AND review_stage = $3
	`

	var booking model.Booking
	err := tx.QueryRow(ctx, query, teamID, classroomID, reviewStage).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.TeamID,
		&booking.ClassroomID,
		&booking.ReviewStage,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by team and stage: %w", err)
	}

	return &booking, nil
}

// GetByTeamID returns all of a team's bookings, newest first.
func (r *BookingRepository) GetByTeamID(ctx context.Context, teamID int64) ([]*model.Booking, error) {
	query := `
		SELECT id, slot_id, team_id, classroom_id, review_stage, created_at
		FROM bookings
		WHERE team_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by team: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.TeamID,
			&booking.ClassroomID,
			&booking.ReviewStage,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

// Delete removes a booking inside the caller's transaction.
func (r *BookingRepository) Delete(ctx context.Context, tx base.Querier, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	return nil
}
