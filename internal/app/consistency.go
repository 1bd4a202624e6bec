package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/service"
)

// ConsistencyScanner periodically verifies the slot/booking pairing invariant.
// Violations are alerted on, never repaired; a repair here would only hide a
// broken booking transaction.
type ConsistencyScanner struct {
	bookingService *service.BookingService
	logger         *zap.Logger
	cron           *cron.Cron
}

func NewConsistencyScanner(bookingService *service.BookingService, logger *zap.Logger) *ConsistencyScanner {
	return &ConsistencyScanner{
		bookingService: bookingService,
		logger:         logger,
		cron:           cron.New(),
	}
}

// Start schedules the scan and runs one pass immediately.
func (s *ConsistencyScanner) Start(ctx context.Context, spec string) error {
	run := func() {
		if err := s.bookingService.CheckConsistency(ctx); err != nil {
			s.logger.Error("Consistency scan failed", zap.Error(err))
		}
	}

	if _, err := s.cron.AddFunc(spec, run); err != nil {
		return err
	}

	go run()
	s.cron.Start()
	s.logger.Info("Consistency scanner started", zap.String("schedule", spec))
	return nil
}

// Stop halts the cron scheduler and waits for a running scan to finish.
func (s *ConsistencyScanner) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Consistency scanner stopped")
}
