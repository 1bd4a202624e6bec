package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reviewhub/review-scheduler/internal/service"
	"github.com/reviewhub/review-scheduler/internal/timetable"
)

// Both cases below fail validation before any row is written, so no storage
// is needed behind the service.
func newDeadlineService() *service.PublishService {
	return service.NewPublishService(nil, zap.NewNop())
}

// mismatchedSelection returns a selection whose date never matches the slot's
// weekday, keeping Publish away from the repository.
func mismatchedSelection() service.Selection {
	// 2030-01-01 is a Tuesday.
	return service.Selection{
		Slot: timetable.CandidateSlot{Day: timetable.Monday, Start: 9 * 60, End: 9*60 + 20},
		Date: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublishDeadlineTodayAtUTCMidnightAccepted(t *testing.T) {
	svc := newDeadlineService()

	// Today's server-local date expressed as UTC midnight, the form a
	// "YYYY-MM-DD" deadline arrives in over the API. West of UTC this
	// instant lies in yesterday local time; it must still count as today.
	year, month, day := time.Now().Date()
	deadline := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	_, results, err := svc.Publish(context.Background(), service.PublishParams{
		ClassroomID: 10,
		ReviewStage: "first-review",
		Deadline:    deadline,
		PublishedBy: 1,
		Selections:  []service.Selection{mismatchedSelection()},
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	var mismatch *service.WeekdayMismatchError
	assert.ErrorAs(t, results[0].Err, &mismatch)
}

func TestPublishDeadlineYesterdayRejected(t *testing.T) {
	svc := newDeadlineService()

	year, month, day := time.Now().AddDate(0, 0, -1).Date()
	deadline := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.Publish(context.Background(), service.PublishParams{
		ClassroomID: 10,
		ReviewStage: "first-review",
		Deadline:    deadline,
		PublishedBy: 1,
		Selections:  []service.Selection{mismatchedSelection()},
	})

	assert.ErrorIs(t, err, service.ErrDeadlineInPast)
}
