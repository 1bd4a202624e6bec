package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/reviewhub/review-scheduler/internal/timetable"
)

type Config struct {
	DBDSN          string
	HTTPAddr       string
	Environment    string
	MigrationsPath string

	// Bounds of the institutional day used when deriving free intervals.
	ActivityWindowStart timetable.TimeOfDay
	ActivityWindowEnd   timetable.TimeOfDay

	// Cron spec for the slot/booking integrity scan.
	ConsistencyScanSpec string
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:               os.Getenv("DB_DSN"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		Environment:         getEnv("ENV", "development"),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "migrations"),
		ConsistencyScanSpec: getEnv("CONSISTENCY_SCAN_CRON", "@every 10m"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	cfg.ActivityWindowStart, err = timetable.ParseTimeOfDay(getEnv("ACTIVITY_WINDOW_START", "08:00"))
	if err != nil {
		return nil, fmt.Errorf("ACTIVITY_WINDOW_START: %w", err)
	}
	cfg.ActivityWindowEnd, err = timetable.ParseTimeOfDay(getEnv("ACTIVITY_WINDOW_END", "18:00"))
	if err != nil {
		return nil, fmt.Errorf("ACTIVITY_WINDOW_END: %w", err)
	}
	if cfg.ActivityWindowEnd <= cfg.ActivityWindowStart {
		return nil, fmt.Errorf("activity window %s-%s is empty",
			cfg.ActivityWindowStart, cfg.ActivityWindowEnd)
	}

	return cfg, nil
}

// Window returns the configured activity window.
func (c *Config) Window() timetable.Window {
	return timetable.Window{Start: c.ActivityWindowStart, End: c.ActivityWindowEnd}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

