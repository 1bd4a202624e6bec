package timetable

import "fmt"

// InvalidDurationError reports a non-positive slot duration.
type InvalidDurationError struct {
	Duration int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid slot duration %d: must be a positive number of minutes", e.Duration)
}

// Partition greedily splits each free interval into consecutive candidate
// slots of exactly duration minutes, starting at the interval's start. The
// remainder shorter than duration is discarded; short slots are never
// produced. Slots never cross a free-interval boundary, even when two input
// intervals are contiguous in wall-clock time.
func Partition(free []FreeInterval, duration int) ([]CandidateSlot, error) {
	if duration <= 0 {
		return nil, &InvalidDurationError{Duration: duration}
	}

	var slots []CandidateSlot
	for _, iv := range free {
		for start := iv.Start; int(iv.End-start) >= duration; start += TimeOfDay(duration) {
			slots = append(slots, CandidateSlot{
				Day:   iv.Day,
				Start: start,
				End:   start + TimeOfDay(duration),
			})
		}
	}
	return slots, nil
}
