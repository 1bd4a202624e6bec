package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/model"
	"github.com/reviewhub/review-scheduler/internal/repository"
	"github.com/reviewhub/review-scheduler/internal/repository/base"
)

// BookingService mediates every claim against published slots. A slot is held
// by at most one team, and a team holds at most one booking per (classroom,
// review stage); both rules are backed by unique constraints in storage, the
// in-transaction checks only exist to fail fast with a precise error.
type BookingService struct {
	pool        *pgxpool.Pool
	slotRepo    *repository.SlotRepository
	bookingRepo *repository.BookingRepository
	logger      *zap.Logger
}

func NewBookingService(
	pool *pgxpool.Pool,
	slotRepo *repository.SlotRepository,
	bookingRepo *repository.BookingRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:        pool,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Book claims a slot for a team. The availability flip and the booking insert
// happen in one transaction; when two callers race past the availability
// check, the UNIQUE constraint on bookings.slot_id decides the winner and the
// loser sees ErrSlotUnavailable. The loser must pick another slot, not retry.
func (s *BookingService) Book(ctx context.Context, slotID, teamID int64) (*model.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Re-read inside the transaction; availability seen earlier in the
	// request means nothing by now.
	slot, err := s.slotRepo.GetByIDForUpdate(ctx, tx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if !slot.IsAvailable {
		return nil, ErrSlotUnavailable
	}
	// Inclusive of the deadline date: claims fail from the following day on.
	if civilDate(time.Now()).After(civilDate(slot.BookingDeadline)) {
		return nil, ErrDeadlinePassed
	}

	existing, err := s.bookingRepo.GetByTeamAndStage(ctx, tx, teamID, slot.ClassroomID, slot.ReviewStage)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateStageBooking
	}

	flipped, err := s.slotRepo.MarkUnavailable(ctx, tx, slotID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, ErrSlotUnavailable
	}

	booking := &model.Booking{
		SlotID:      slotID,
		TeamID:      teamID,
		ClassroomID: slot.ClassroomID,
		ReviewStage: slot.ReviewStage,
	}

	if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
		switch base.UniqueViolation(err) {
		case repository.ConstraintBookingSlot:
			return nil, ErrSlotUnavailable
		case repository.ConstraintBookingStage:
			return nil, ErrDuplicateStageBooking
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slotID),
		zap.Int64("team_id", teamID),
		zap.Int64("classroom_id", slot.ClassroomID),
		zap.String("review_stage", slot.ReviewStage),
	)

	booking.Slot = slot
	return booking, nil
}

// Cancel removes a booking and, in the same transaction, reopens its slot.
// With retract=true the instructor is withdrawing the slot entirely, so the
// slot row is deleted instead of reopened. Cancelling an id that no longer
// exists is a no-op.
func (s *BookingService) Cancel(ctx context.Context, bookingID, cancelledBy int64, retract bool) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Booking first: the slot's FK would reject deleting the slot otherwise.
	if err := s.bookingRepo.Delete(ctx, tx, bookingID); err != nil {
		return err
	}

	if retract {
		err = s.slotRepo.Delete(ctx, tx, booking.SlotID)
	} else {
		err = s.slotRepo.MarkAvailable(ctx, tx, booking.SlotID)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("slot_id", booking.SlotID),
		zap.Int64("cancelled_by", cancelledBy),
		zap.Bool("slot_retracted", retract),
	)

	return nil
}

// GetTeamBookings returns all bookings held by a team.
func (s *BookingService) GetTeamBookings(ctx context.Context, teamID int64) ([]*model.Booking, error) {
	return s.bookingRepo.GetByTeamID(ctx, teamID)
}

// CheckConsistency runs the slot/booking pairing scan and reports violations
// through the log. It deliberately repairs nothing: an orphan here means the
// booking transaction contract was broken somewhere, and auto-repair would
// bury that bug.
func (s *BookingService) CheckConsistency(ctx context.Context) error {
	orphanedSlots, staleAvailable, err := s.slotRepo.FindOrphaned(ctx)
	if err != nil {
		return err
	}

	if len(orphanedSlots) == 0 && len(staleAvailable) == 0 {
		s.logger.Debug("Consistency scan clean")
		return nil
	}

	s.logger.Error("Slot/booking integrity violation detected",
		zap.Int64s("unavailable_without_booking", orphanedSlots),
		zap.Int64s("available_with_booking", staleAvailable),
	)

	return fmt.Errorf("consistency scan: %d slots unavailable without booking, %d available with booking",
		len(orphanedSlots), len(staleAvailable))
}
