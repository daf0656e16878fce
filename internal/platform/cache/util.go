package cache

import (
	"time"
)

// TimeUntilMidnightUTC returns the duration until the next UTC midnight.
// Cache entries must not outlive the calendar day they were written on,
// since time-series freshness is decided on calendar-date boundaries.
func TimeUntilMidnightUTC() time.Duration {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return midnight.Sub(now)
}
