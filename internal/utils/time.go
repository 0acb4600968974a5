package utils

import "time"

// ReportingDayKey buckets a wall-clock instant into a "YYYY-MM-DD" day key
// in the fixed reporting timezone offset, independent of the caller's local
// clock. Callers compute this once per request so a day boundary cannot be
// crossed between quota check and increment.
func ReportingDayKey(now time.Time, offset time.Duration) string {
	return now.UTC().Add(offset).Format("2006-01-02")
}
