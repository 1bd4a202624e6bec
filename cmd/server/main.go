package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/api"
	"github.com/reviewhub/review-scheduler/internal/app"
	"github.com/reviewhub/review-scheduler/internal/config"
	"github.com/reviewhub/review-scheduler/internal/repository"
	"github.com/reviewhub/review-scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := app.ConnectDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	publishService := service.NewPublishService(slotRepo, logger)
	bookingService := service.NewBookingService(pool, slotRepo, bookingRepo, logger)

	scanner := app.NewConsistencyScanner(bookingService, logger)
	if err := scanner.Start(ctx, cfg.ConsistencyScanSpec); err != nil {
		logger.Fatal("Failed to start consistency scanner", zap.Error(err))
	}

	server := api.NewServer(publishService, bookingService, cfg.Window(), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment))
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("HTTP server stopped", zap.Error(err))
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	scanner.Stop()
	if err := server.Shutdown(); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
