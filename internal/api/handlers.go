package api

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/service"
	"github.com/reviewhub/review-scheduler/internal/timetable"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

type previewRequest struct {
	RawText         string `json:"raw_text" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	WindowStart     string `json:"window_start,omitempty"`
	WindowEnd       string `json:"window_end,omitempty"`
}

type previewResponse struct {
	Schedule       timetable.WeeklySchedule  `json:"schedule"`
	Warnings       []timetable.Warning       `json:"warnings,omitempty"`
	FreeIntervals  []timetable.FreeInterval  `json:"free_intervals"`
	CandidateSlots []timetable.CandidateSlot `json:"candidate_slots"`
}

// previewTimetable runs parse -> derive -> partition over pasted availability
// text. Nothing is persisted; the result feeds the instructor's slot
// selection.
func (s *Server) previewTimetable(c *fiber.Ctx) error {
	var req previewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	window := s.defaultWindow
	if req.WindowStart != "" || req.WindowEnd != "" {
		var err error
		if window.Start, err = timetable.ParseTimeOfDay(req.WindowStart); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "window_start: "+err.Error())
		}
		if window.End, err = timetable.ParseTimeOfDay(req.WindowEnd); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "window_end: "+err.Error())
		}
	}

	schedule, warnings, err := timetable.Parse(req.RawText)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	free := timetable.DeriveFree(schedule, window)
	slots, err := timetable.Partition(free, req.DurationMinutes)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(previewResponse{
		Schedule:       schedule,
		Warnings:       warnings,
		FreeIntervals:  free,
		CandidateSlots: slots,
	})
}

type publishSelection struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Date  string `json:"date" validate:"required"`
}

type publishRequest struct {
	ClassroomID     int64              `json:"classroom_id" validate:"required,gt=0"`
	ReviewStage     string             `json:"review_stage" validate:"required"`
	BookingDeadline string             `json:"booking_deadline" validate:"required"`
	PublishedBy     int64              `json:"published_by" validate:"required,gt=0"`
	Selections      []publishSelection `json:"selections" validate:"required,min=1,dive"`
}

type publishItem struct {
	Index int    `json:"index"`
	OK    bool   `json:"ok"`
	ID    int64  `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) publishSlots(c *fiber.Ctx) error {
	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	deadline, err := time.Parse(dateLayout, req.BookingDeadline)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "booking_deadline: expected YYYY-MM-DD")
	}

	selections := make([]service.Selection, len(req.Selections))
	for i, sel := range req.Selections {
		day, ok := timetable.ParseWeekDay(sel.Day)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "selections["+strconv.Itoa(i)+"]: unknown weekday "+sel.Day)
		}
		start, err := timetable.ParseTimeOfDay(sel.Start)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "selections["+strconv.Itoa(i)+"]: "+err.Error())
		}
		end, err := timetable.ParseTimeOfDay(sel.End)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "selections["+strconv.Itoa(i)+"]: "+err.Error())
		}
		date, err := time.Parse(dateLayout, sel.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "selections["+strconv.Itoa(i)+"]: expected date YYYY-MM-DD")
		}
		selections[i] = service.Selection{
			Slot: timetable.CandidateSlot{Day: day, Start: start, End: end},
			Date: date,
		}
	}

	batchID, results, err := s.publishService.Publish(c.Context(), service.PublishParams{
		ClassroomID: req.ClassroomID,
		ReviewStage: req.ReviewStage,
		Deadline:    deadline,
		PublishedBy: req.PublishedBy,
		Selections:  selections,
	})
	if err != nil {
		return fiber.NewError(statusFor(err), err.Error())
	}

	items := make([]publishItem, len(results))
	for i, r := range results {
		items[i].Index = r.Index
		if r.Err != nil {
			items[i].Error = r.Err.Error()
			continue
		}
		items[i].OK = true
		items[i].ID = r.Slot.ID
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"batch_id": batchID,
		"items":    items,
	})
}

func (s *Server) listSlots(c *fiber.Ctx) error {
	classroomID, err := strconv.ParseInt(c.Query("classroom_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "classroom_id is required")
	}
	stage := c.Query("review_stage")
	if stage == "" {
		return fiber.NewError(fiber.StatusBadRequest, "review_stage is required")
	}

	slots, err := s.publishService.ListSlots(c.Context(), classroomID, stage, c.QueryBool("available"))
	if err != nil {
		s.logger.Error("Failed to list slots", zap.Error(err))
		return fiber.NewError(statusFor(err), "failed to list slots")
	}

	return c.JSON(fiber.Map{"slots": slots})
}

func (s *Server) listBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid batch id")
	}

	slots, err := s.publishService.ListBatch(c.Context(), batchID)
	if err != nil {
		s.logger.Error("Failed to list batch", zap.Error(err))
		return fiber.NewError(statusFor(err), "failed to list batch")
	}

	return c.JSON(fiber.Map{"slots": slots})
}

func (s *Server) retractBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid batch id")
	}
	retractedBy, err := strconv.ParseInt(c.Query("retracted_by"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "retracted_by is required")
	}

	removed, err := s.publishService.RetractBatch(c.Context(), batchID, retractedBy)
	if err != nil {
		s.logger.Error("Failed to retract batch", zap.Error(err))
		return fiber.NewError(statusFor(err), "failed to retract batch")
	}

	return c.JSON(fiber.Map{"slots_removed": removed})
}

type bookRequest struct {
	SlotID int64 `json:"slot_id" validate:"required,gt=0"`
	TeamID int64 `json:"team_id" validate:"required,gt=0"`
}

func (s *Server) createBooking(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	booking, err := s.bookingService.Book(c.Context(), req.SlotID, req.TeamID)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusInternalServerError {
			s.logger.Error("Booking failed", zap.Int64("slot_id", req.SlotID), zap.Error(err))
			return fiber.NewError(status, "failed to create booking")
		}
		return fiber.NewError(status, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (s *Server) listBookings(c *fiber.Ctx) error {
	teamID, err := strconv.ParseInt(c.Query("team_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "team_id is required")
	}

	bookings, err := s.bookingService.GetTeamBookings(c.Context(), teamID)
	if err != nil {
		s.logger.Error("Failed to list bookings", zap.Error(err))
		return fiber.NewError(statusFor(err), "failed to list bookings")
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (s *Server) cancelBooking(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
	}
	cancelledBy, err := strconv.ParseInt(c.Query("cancelled_by"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cancelled_by is required")
	}

	if err := s.bookingService.Cancel(c.Context(), bookingID, cancelledBy, c.QueryBool("retract")); err != nil {
		s.logger.Error("Cancel failed", zap.Int64("booking_id", bookingID), zap.Error(err))
		return fiber.NewError(statusFor(err), "failed to cancel booking")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
