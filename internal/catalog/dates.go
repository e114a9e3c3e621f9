package catalog

import (
	"strings"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// parseDate parses an ISO date string as midnight UTC. Month-granularity
// strings ("2024-01") parse to the first of the month. Quarter placeholders
// ("2024Q3") and anything else malformed fail.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(monthLayout, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// endOfDay normalizes a parsed date to the last instant of that UTC day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, time.UTC)
}

// isQuarter reports whether a gbLaunch value is a quarter-granularity
// placeholder like "2022Q3"
func isQuarter(s string) bool {
	return strings.Contains(s, "Q")
}

// sameMonth reports whether two instants fall in the same UTC calendar month
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
