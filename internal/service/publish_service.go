package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/model"
	"github.com/reviewhub/review-scheduler/internal/repository"
	"github.com/reviewhub/review-scheduler/internal/timetable"
)

// PublishService turns candidate slots picked by an instructor into durable
// bookable slots.
type PublishService struct {
	slotRepo *repository.SlotRepository
	logger   *zap.Logger
}

func NewPublishService(slotRepo *repository.SlotRepository, logger *zap.Logger) *PublishService {
	return &PublishService{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Selection pairs one candidate slot with the concrete calendar date it
// should run on.
type Selection struct {
	Slot timetable.CandidateSlot
	Date time.Time
}

// PublishParams describes one publish batch. All slots in a batch share the
// classroom, review stage and booking deadline.
type PublishParams struct {
	ClassroomID int64
	ReviewStage string
	Deadline    time.Time
	PublishedBy int64
	Selections  []Selection
}

// PublishItemResult reports the outcome for one selection. Slots are
// independent, so a batch is allowed to partially succeed; Err is nil for the
// items that were persisted.
type PublishItemResult struct {
	Index int                 `json:"index"`
	Slot  *model.BookableSlot `json:"slot,omitempty"`
	Err   error               `json:"-"`
}

// Publish materializes each valid (candidate slot, date) pair as an available
// bookable slot. A deadline already in the past rejects the whole batch
// before anything is written; a weekday mismatch rejects only that item.
func (s *PublishService) Publish(ctx context.Context, params PublishParams) (uuid.UUID, []PublishItemResult, error) {
	if len(params.Selections) == 0 {
		return uuid.Nil, nil, fmt.Errorf("publish: no selections given")
	}

	// Compare calendar dates, not instants: the deadline usually arrives as
	// UTC midnight while the clock here runs in server-local time.
	if civilDate(params.Deadline).Before(civilDate(time.Now())) {
		return uuid.Nil, nil, ErrDeadlineInPast
	}

	batchID := uuid.New()
	results := make([]PublishItemResult, len(params.Selections))
	published := 0

	for i, sel := range params.Selections {
		results[i].Index = i

		if got := timetable.FromTimeWeekday(sel.Date.Weekday()); got != sel.Slot.Day {
			results[i].Err = &WeekdayMismatchError{Date: sel.Date, Want: sel.Slot.Day}
			continue
		}

		slot := &model.BookableSlot{
			ClassroomID:     params.ClassroomID,
			ReviewStage:     params.ReviewStage,
			CalendarDate:    truncateToDay(sel.Date),
			Start:           sel.Slot.Start,
			End:             sel.Slot.End,
			DurationMinutes: int(sel.Slot.End - sel.Slot.Start),
			BookingDeadline: truncateToDay(params.Deadline),
			BatchID:         batchID,
			CreatedBy:       params.PublishedBy,
		}

		if err := s.slotRepo.Create(ctx, slot); err != nil {
			s.logger.Warn("Failed to publish slot",
				zap.Int("index", i),
				zap.Time("date", sel.Date),
				zap.Error(err))
			results[i].Err = err
			continue
		}

		results[i].Slot = slot
		published++
	}

	s.logger.Info("Publish batch processed",
		zap.String("batch_id", batchID.String()),
		zap.Int64("classroom_id", params.ClassroomID),
		zap.String("review_stage", params.ReviewStage),
		zap.Int("requested", len(params.Selections)),
		zap.Int("published", published),
	)

	return batchID, results, nil
}

// ListSlots returns the published slots for a classroom and stage.
func (s *PublishService) ListSlots(ctx context.Context, classroomID int64, reviewStage string, onlyAvailable bool) ([]*model.BookableSlot, error) {
	return s.slotRepo.List(ctx, classroomID, reviewStage, onlyAvailable)
}

// ListBatch returns all slots published in one batch.
func (s *PublishService) ListBatch(ctx context.Context, batchID uuid.UUID) ([]*model.BookableSlot, error) {
	return s.slotRepo.ListByBatch(ctx, batchID)
}

// RetractBatch deletes the still-available slots of a batch and reports how
// many were removed. Booked slots stay; retracting those goes through
// BookingService.Cancel so the booking is removed first.
func (s *PublishService) RetractBatch(ctx context.Context, batchID uuid.UUID, retractedBy int64) (int64, error) {
	removed, err := s.slotRepo.DeleteAvailableByBatch(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("retract batch: %w", err)
	}

	s.logger.Info("Publish batch retracted",
		zap.String("batch_id", batchID.String()),
		zap.Int64("retracted_by", retractedBy),
		zap.Int64("slots_removed", removed),
	)

	return removed, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// civilDate maps an instant to its calendar date in its own location,
// represented as UTC midnight so dates from different locations compare by
// their components alone.
func civilDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
