package sqlite

import "time"

// formatTime renders t as ISO-8601 UTC with a trailing Z, written once on
// serialization; never double-annotate a timezone on an already-UTC value.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr renders an optional instant, or returns nil (stored as
// NULL) for a nil instant.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// parseTime parses an ISO-8601 timestamp, accepting both a trailing Z and
// a numeric +00:00 offset (time.RFC3339 already accepts either form).
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
