package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/service"
	"github.com/reviewhub/review-scheduler/internal/timetable"
)

// Server is the HTTP surface over the scheduling engine. It stays thin:
// decode, validate, call the service, map the error.
type Server struct {
	app            *fiber.App
	publishService *service.PublishService
	bookingService *service.BookingService
	defaultWindow  timetable.Window
	logger         *zap.Logger
}

func NewServer(
	publishService *service.PublishService,
	bookingService *service.BookingService,
	defaultWindow timetable.Window,
	logger *zap.Logger,
) *Server {
	s := &Server{
		app:            fiber.New(fiber.Config{ErrorHandler: errorHandler}),
		publishService: publishService,
		bookingService: bookingService,
		defaultWindow:  defaultWindow,
		logger:         logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/api/v1")
	v1.Post("/timetable/preview", s.previewTimetable)
	v1.Post("/slots/publish", s.publishSlots)
	v1.Get("/slots", s.listSlots)
	v1.Get("/slots/batches/:id", s.listBatch)
	v1.Delete("/slots/batches/:id", s.retractBatch)
	v1.Post("/bookings", s.createBooking)
	v1.Get("/bookings", s.listBookings)
	v1.Delete("/bookings/:id", s.cancelBooking)
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// statusFor maps domain errors to HTTP statuses. Conflicts are 409 so the UI
// knows to re-fetch and offer alternatives.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrDuplicateStageBooking):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrDeadlinePassed),
		errors.Is(err, service.ErrDeadlineInPast):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
