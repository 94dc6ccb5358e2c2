// Package slots generates the bookable time slots of an availability
// window. Generation is pure arithmetic on minutes since midnight, so the
// services that need it share one implementation.
package slots

import (
	"fmt"
	"strconv"
	"strings"
)

// Generate returns every slot start time between startTime inclusive and
// endTime exclusive, stepping by duration minutes. A slot that starts
// before endTime is kept even when it runs past the end of the window, so
// a 09:00-10:00 window with 45-minute slots yields 09:00 and 09:45.
func Generate(startTime, endTime string, duration int) ([]string, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", duration)
	}

	start, err := toMinutes(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}

	end, err := toMinutes(endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", endTime, err)
	}

	if end <= start {
		return nil, fmt.Errorf("end time %q must be after start time %q", endTime, startTime)
	}

	var result []string
	for t := start; t < end; t += duration {
		result = append(result, toClock(t))
	}

	return result, nil
}

// toMinutes parses an HH:MM clock string into minutes since midnight.
func toMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM format")
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %w", err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %w", err)
	}

	if hours < 0 || hours > 23 {
		return 0, fmt.Errorf("hours out of range: %d", hours)
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("minutes out of range: %d", minutes)
	}

	return hours*60 + minutes, nil
}

// toClock formats minutes since midnight as a zero-padded HH:MM string.
func toClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
